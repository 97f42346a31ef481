package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/amcbunq-server/internal/logger"
	"github.com/dtroode/amcbunq-server/internal/model"
)

// UserService defines user record operations used by the HTTP API.
type UserService interface {
	GetUser(ctx context.Context, userID string) (model.User, error)
	FindUserByEmail(ctx context.Context, email string) (model.User, error)
	UpdateVerificationStatus(ctx context.Context, userID string, status string) error
	MarkEmailVerified(ctx context.Context, userID string) error
	AppendAccount(ctx context.Context, userID string, account model.Account) (model.Account, bool, error)
}

// User handles user record endpoints.
type User struct {
	principalResolver
	userService UserService
	logger      *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		principalResolver: principalResolver{contextManager: contextManager},
		userService:       userService,
		logger:            logger,
	}
}

// GetUser returns the record of the user in the path.
func (h *User) GetUser(c *gin.Context) {
	userID := c.Param("userId")
	if _, ok := h.authorize(c, userID); !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": newUserResponse(user)})
}

// FindUser looks a user up by the email query parameter. Records the caller
// may not access are reported as missing.
func (h *User) FindUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		badRequest(c, "email query parameter is required")
		return
	}
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	user, err := h.userService.FindUserByEmail(c.Request.Context(), email)
	if errors.Is(err, model.ErrAmbiguousEmail) && !principal.Admin {
		h.logger.Warn("User handler: lookup of shared email", "user_id", principal.UserID)
		c.AbortWithStatusJSON(http.StatusNotFound, failure("user not found"))
		return
	}
	if err != nil {
		handleError(c, err)
		return
	}
	if !principal.CanAccess(user.ID) {
		h.logger.Warn("User handler: lookup of foreign email", "user_id", principal.UserID)
		c.AbortWithStatusJSON(http.StatusNotFound, failure("user not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": newUserResponse(user)})
}

type verificationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateVerificationStatus sets the KYC status. Admin only.
func (h *User) UpdateVerificationStatus(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	userID := c.Param("userId")

	var req verificationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	if err := h.userService.UpdateVerificationStatus(c.Request.Context(), userID, req.Status); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Verification status updated",
		"status":  req.Status,
	})
}

// MarkEmailVerified flags the email as verified without a code. Admin only.
func (h *User) MarkEmailVerified(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	if err := h.userService.MarkEmailVerified(c.Request.Context(), c.Param("userId")); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email marked as verified"})
}

// AppendAccount adds an account to the user. An account with a known id is
// left as is and answered with the stored version and 200.
func (h *User) AppendAccount(c *gin.Context) {
	userID := c.Param("userId")
	if _, ok := h.authorize(c, userID); !ok {
		return
	}

	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid account payload")
		return
	}
	account, err := req.toModel()
	if err != nil {
		handleError(c, err)
		return
	}

	account, created, err := h.userService.AppendAccount(c.Request.Context(), userID, account)
	if err != nil {
		handleError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"success": true, "data": newAccountResponse(account)})
}
