package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/amcbunq-server/internal/logger"
	"github.com/dtroode/amcbunq-server/internal/model"
)

// TicketService defines support ticket operations used by the HTTP API.
type TicketService interface {
	ListTickets(ctx context.Context, userID string) ([]model.Ticket, error)
	GetTicket(ctx context.Context, ticketID string) (model.Ticket, error)
	CreateTicket(ctx context.Context, params model.CreateTicketParams) (model.Ticket, error)
	AddReply(ctx context.Context, ticketID, author string, fromSupport bool, body string) (model.TicketMessage, error)
}

// Ticket handles support ticket endpoints.
type Ticket struct {
	principalResolver
	ticketService TicketService
	logger        *logger.Logger
}

// NewTicket creates a new Ticket handler.
func NewTicket(ticketService TicketService, contextManager model.ContextManager, logger *logger.Logger) *Ticket {
	return &Ticket{
		principalResolver: principalResolver{contextManager: contextManager},
		ticketService:     ticketService,
		logger:            logger,
	}
}

// ListTickets lists tickets of the userId query parameter, defaulting to the caller.
func (h *Ticket) ListTickets(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	userID := c.DefaultQuery("userId", principal.UserID)
	if _, ok := h.authorize(c, userID); !ok {
		return
	}

	tickets, err := h.ticketService.ListTickets(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, newTicketResponse(t))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tickets": out})
}

func (h *Ticket) GetTicket(c *gin.Context) {
	ticket, ok := h.accessibleTicket(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ticket": newTicketResponse(ticket)})
}

type createTicketRequest struct {
	UserID   string `json:"userId"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

func (h *Ticket) CreateTicket(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid ticket payload")
		return
	}
	if req.UserID == "" {
		req.UserID = principal.UserID
	}
	if _, ok := h.authorize(c, req.UserID); !ok {
		return
	}

	ticket, err := h.ticketService.CreateTicket(c.Request.Context(), model.CreateTicketParams{
		UserID:   req.UserID,
		Subject:  req.Subject,
		Message:  req.Message,
		Category: req.Category,
		Priority: model.NotificationPriority(req.Priority),
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "ticket": newTicketResponse(ticket)})
}

type replyRequest struct {
	Message string `json:"message"`
}

// AddReply appends a message. Replies of admins are recorded as support replies.
func (h *Ticket) AddReply(c *gin.Context) {
	ticket, ok := h.accessibleTicket(c)
	if !ok {
		return
	}
	principal, _ := h.principal(c)

	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid reply payload")
		return
	}

	msg, err := h.ticketService.AddReply(c.Request.Context(), ticket.ID, principal.UserID, principal.Admin, req.Message)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": newTicketMessageResponse(msg)})
}

// accessibleTicket loads the ticket in the path. Tickets of other users are
// reported as missing.
func (h *Ticket) accessibleTicket(c *gin.Context) (model.Ticket, bool) {
	principal, ok := h.principal(c)
	if !ok {
		return model.Ticket{}, false
	}

	ticket, err := h.ticketService.GetTicket(c.Request.Context(), c.Param("ticketId"))
	if err != nil {
		handleError(c, err)
		return model.Ticket{}, false
	}
	if !principal.CanAccess(ticket.UserID) {
		c.AbortWithStatusJSON(http.StatusNotFound, failure("ticket not found"))
		return model.Ticket{}, false
	}
	return ticket, true
}
