package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dtroode/amcbunq-server/internal/logger"
	"github.com/dtroode/amcbunq-server/internal/model"
)

// SupportAuthor is the author name recorded for replies by support staff.
const SupportAuthor = "support"

const maxTicketMessageLen = 5000

type SupportTicket struct {
	ticketStore model.TicketStore
	userStore   model.UserStore
	logger      *logger.Logger
	now         func() time.Time
}

func NewSupportTicket(ticketStore model.TicketStore, userStore model.UserStore, logger *logger.Logger) *SupportTicket {
	return &SupportTicket{
		ticketStore: ticketStore,
		userStore:   userStore,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *SupportTicket) ListTickets(ctx context.Context, userID string) ([]model.Ticket, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is empty", model.ErrInvalidArgument)
	}

	tickets, err := s.ticketStore.GetByUserID(ctx, userID)
	if err != nil {
		logFailure(s.logger, "SupportTicket service: failed to list tickets", err, "op", "list_tickets", "user_id", userID)
		return nil, fmt.Errorf("failed to get tickets by user id: %w", err)
	}
	return tickets, nil
}

func (s *SupportTicket) GetTicket(ctx context.Context, ticketID string) (model.Ticket, error) {
	ticket, err := s.ticketStore.GetByID(ctx, ticketID)
	if err != nil {
		logFailure(s.logger, "SupportTicket service: failed to get ticket", err, "op", "get_ticket", "ticket_id", ticketID)
		return model.Ticket{}, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

func (s *SupportTicket) CreateTicket(ctx context.Context, params model.CreateTicketParams) (model.Ticket, error) {
	subject := strings.TrimSpace(params.Subject)
	message := strings.TrimSpace(params.Message)
	if subject == "" || message == "" {
		return model.Ticket{}, fmt.Errorf("%w: subject and message are required", model.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(message) > maxTicketMessageLen {
		return model.Ticket{}, fmt.Errorf("%w: message is too long", model.ErrInvalidArgument)
	}
	if params.Priority == "" {
		params.Priority = model.PriorityMedium
	}
	if !params.Priority.Valid() {
		return model.Ticket{}, fmt.Errorf("%w: unknown priority %q", model.ErrInvalidArgument, params.Priority)
	}
	category := strings.TrimSpace(params.Category)
	if category == "" {
		category = string(model.CategoryGeneral)
	}

	_, err := s.userStore.GetByID(ctx, params.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Ticket{}, fmt.Errorf("user %s: %w", params.UserID, model.ErrNotFound)
	}
	if err != nil {
		logFailure(s.logger, "SupportTicket service: failed to get user", err, "op", "create_ticket", "user_id", params.UserID)
		return model.Ticket{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	now := s.now()
	ticket, err := s.ticketStore.Create(ctx, model.Ticket{
		ID:       uuid.NewString(),
		UserID:   params.UserID,
		Subject:  subject,
		Category: category,
		Priority: params.Priority,
		Status:   model.TicketOpen,
		Messages: []model.TicketMessage{
			{Author: params.UserID, Body: message, CreatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		logFailure(s.logger, "SupportTicket service: failed to create ticket", err, "op", "create_ticket", "user_id", params.UserID)
		return model.Ticket{}, fmt.Errorf("failed to create ticket: %w", err)
	}

	s.logger.Info("SupportTicket service: ticket created", "ticket_id", ticket.ID, "user_id", ticket.UserID)
	return ticket, nil
}

// AddReply appends a message to a ticket. A support reply moves an open ticket
// to in_progress; a user reply reopens a resolved one. Closed tickets take no replies.
func (s *SupportTicket) AddReply(ctx context.Context, ticketID, author string, fromSupport bool, body string) (model.TicketMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" || utf8.RuneCountInString(body) > maxTicketMessageLen {
		return model.TicketMessage{}, fmt.Errorf("%w: reply must be 1..%d characters", model.ErrInvalidArgument, maxTicketMessageLen)
	}

	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return model.TicketMessage{}, err
	}
	if ticket.Status == model.TicketClosed {
		return model.TicketMessage{}, fmt.Errorf("%w: ticket %s is closed", model.ErrInvalidArgument, ticketID)
	}

	var status model.TicketStatus
	switch {
	case fromSupport && ticket.Status == model.TicketOpen:
		status = model.TicketInProgress
	case !fromSupport && ticket.Status == model.TicketResolved:
		status = model.TicketOpen
	}
	if fromSupport {
		author = SupportAuthor
	}

	msg := model.TicketMessage{Author: author, Body: body, CreatedAt: s.now()}
	if err := s.ticketStore.AddMessage(ctx, ticketID, msg, status); err != nil {
		logFailure(s.logger, "SupportTicket service: failed to add reply", err, "op", "add_reply", "ticket_id", ticketID)
		return model.TicketMessage{}, fmt.Errorf("failed to add reply: %w", err)
	}
	return msg, nil
}
