package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/amcbunq-server/internal/model"
)

// EmailVerificationService defines email code operations used by the HTTP API.
type EmailVerificationService interface {
	SendCode(ctx context.Context, userID string) error
	VerifyCode(ctx context.Context, userID, code string) error
}

// EmailVerification handles email verification endpoints.
type EmailVerification struct {
	principalResolver
	service EmailVerificationService
}

func NewEmailVerification(service EmailVerificationService, contextManager model.ContextManager) *EmailVerification {
	return &EmailVerification{
		principalResolver: principalResolver{contextManager: contextManager},
		service:           service,
	}
}

type emailVerificationRequest struct {
	UserID string `json:"userId"`
	Code   string `json:"code"`
}

// bind reads the request and resolves the target user, the caller by default.
func (h *EmailVerification) bind(c *gin.Context) (emailVerificationRequest, bool) {
	principal, ok := h.principal(c)
	if !ok {
		return emailVerificationRequest{}, false
	}

	var req emailVerificationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request payload")
			return emailVerificationRequest{}, false
		}
	}
	if req.UserID == "" {
		req.UserID = principal.UserID
	}
	if _, ok := h.authorize(c, req.UserID); !ok {
		return emailVerificationRequest{}, false
	}
	return req, true
}

func (h *EmailVerification) SendCode(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	if err := h.service.SendCode(c.Request.Context(), req.UserID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification code sent"})
}

func (h *EmailVerification) VerifyCode(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	if req.Code == "" {
		badRequest(c, "code is required")
		return
	}

	if err := h.service.VerifyCode(c.Request.Context(), req.UserID, req.Code); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified"})
}
