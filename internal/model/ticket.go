package model

import (
	"context"
	"time"
)

// TicketStore defines persistence operations for support tickets.
type TicketStore interface {
	Create(ctx context.Context, ticket Ticket) (Ticket, error)
	GetByID(ctx context.Context, id string) (Ticket, error)
	GetByUserID(ctx context.Context, userID string) ([]Ticket, error)
	AddMessage(ctx context.Context, id string, message TicketMessage, status TicketStatus) error
}

// Ticket is a support request opened by a user.
type Ticket struct {
	ID        string
	UserID    string
	Subject   string
	Category  string
	Priority  NotificationPriority
	Status    TicketStatus
	Messages  []TicketMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TicketMessage is a single entry of the ticket conversation.
type TicketMessage struct {
	Author    string
	Body      string
	CreatedAt time.Time
}

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

// CreateTicketParams contains parameters to open a ticket.
type CreateTicketParams struct {
	UserID   string
	Subject  string
	Message  string
	Category string
	Priority NotificationPriority
}
