package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/amcbunq-server/internal/logger"
	"github.com/dtroode/amcbunq-server/internal/model"
)

// NotificationService defines notification operations used by the HTTP API.
type NotificationService interface {
	AppendNotification(ctx context.Context, userID string, notification model.Notification) (model.Notification, error)
	AppendNotifications(ctx context.Context, userID string, notifications []model.Notification) ([]model.Notification, error)
	ListNotifications(ctx context.Context, userID string, window time.Duration) ([]model.Notification, error)
}

// Notification handles notification endpoints.
type Notification struct {
	principalResolver
	notificationService NotificationService
	logger              *logger.Logger
}

// NewNotification creates a new Notification handler.
func NewNotification(notificationService NotificationService, contextManager model.ContextManager, logger *logger.Logger) *Notification {
	return &Notification{
		principalResolver:   principalResolver{contextManager: contextManager},
		notificationService: notificationService,
		logger:              logger,
	}
}

// ListNotifications returns the user's notifications, optionally only those
// of the last sinceMinutes minutes.
func (h *Notification) ListNotifications(c *gin.Context) {
	userID := c.Param("userId")
	if _, ok := h.authorize(c, userID); !ok {
		return
	}

	var window time.Duration
	if raw := c.Query("sinceMinutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 0 {
			badRequest(c, "sinceMinutes must be a non-negative integer")
			return
		}
		window = time.Duration(minutes) * time.Minute
	}

	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), userID, window)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": newNotificationResponses(notifications)})
}

type appendNotificationsRequest struct {
	UserID string `json:"userId"`
	notificationRequest
	Notifications []notificationRequest `json:"notifications"`
}

// AppendNotifications stores one notification, or a batch when the body
// carries a notifications array. A batch keeps its order.
func (h *Notification) AppendNotifications(c *gin.Context) {
	var req appendNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid notification payload: "+err.Error())
		return
	}
	if req.UserID == "" {
		badRequest(c, "userId is required")
		return
	}
	if _, ok := h.authorize(c, req.UserID); !ok {
		return
	}

	if len(req.Notifications) == 0 {
		stored, err := h.notificationService.AppendNotification(c.Request.Context(), req.UserID, req.notificationRequest.toModel())
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success":      true,
			"notification": newNotificationResponses([]model.Notification{stored})[0],
		})
		return
	}

	batch := make([]model.Notification, 0, len(req.Notifications))
	for _, n := range req.Notifications {
		batch = append(batch, n.toModel())
	}
	stored, err := h.notificationService.AppendNotifications(c.Request.Context(), req.UserID, batch)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "notifications": newNotificationResponses(stored)})
}
