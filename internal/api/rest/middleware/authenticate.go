package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/amcbunq-server/internal/logger"
	"github.com/dtroode/amcbunq-server/internal/model"
)

// TokenParser resolves the principal of an access token.
type TokenParser interface {
	ParseAccessToken(token string) (model.Principal, error)
}

// Authenticate validates bearer tokens and injects the principal into the request context.
type Authenticate struct {
	tokenParser    TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenParser TokenParser, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenParser: tokenParser, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a valid access token with 401.
func (m *Authenticate) Handle(c *gin.Context) {
	tokenString := bearerToken(c.GetHeader("Authorization"))
	if tokenString == "" {
		unauthorized(c, "missing authorization token")
		return
	}

	principal, err := m.tokenParser.ParseAccessToken(tokenString)
	if err != nil || principal.UserID == "" {
		m.logger.Debug("Authenticate middleware: rejected token", "path", c.Request.URL.Path)
		unauthorized(c, "invalid authorization token")
		return
	}

	ctx := m.contextManager.SetPrincipalToContext(c.Request.Context(), principal)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
}
