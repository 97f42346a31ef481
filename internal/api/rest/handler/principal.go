package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/amcbunq-server/internal/model"
)

// principalResolver extracts the authenticated caller from requests.
type principalResolver struct {
	contextManager model.ContextManager
}

func (r principalResolver) principal(c *gin.Context) (model.Principal, bool) {
	p, ok := r.contextManager.GetPrincipalFromContext(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, failure("not authenticated"))
		return model.Principal{}, false
	}
	return p, true
}

// authorize reports whether the caller may access records of userID and
// writes 403 when it may not.
func (r principalResolver) authorize(c *gin.Context, userID string) (model.Principal, bool) {
	p, ok := r.principal(c)
	if !ok {
		return model.Principal{}, false
	}
	if !p.CanAccess(userID) {
		c.AbortWithStatusJSON(http.StatusForbidden, failure("access denied"))
		return model.Principal{}, false
	}
	return p, true
}

func (r principalResolver) requireAdmin(c *gin.Context) bool {
	p, ok := r.principal(c)
	if !ok {
		return false
	}
	if !p.Admin {
		c.AbortWithStatusJSON(http.StatusForbidden, failure("admin role required"))
		return false
	}
	return true
}
