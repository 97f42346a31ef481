package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/amcbunq-server/internal/logger"
)

// Logging logs HTTP requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs route, duration and status for each request.
func (l *Logging) Handle(c *gin.Context) {
	start := time.Now()

	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}

	l.logger.Debug("HTTP request started",
		"method", c.Request.Method,
		"route", route)

	c.Next()

	status := c.Writer.Status()
	args := []any{
		"method", c.Request.Method,
		"route", route,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
		"size", c.Writer.Size(),
	}

	switch {
	case status >= 500:
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.String())
		}
		l.logger.Error("HTTP request failed", args...)
	case status >= 400:
		l.logger.Warn("HTTP request rejected", args...)
	default:
		l.logger.Info("HTTP request completed", args...)
	}
}
