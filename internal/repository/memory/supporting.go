package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/dtroode/amcbunq-server/internal/model"
)

var _ model.DocumentStore = (*DocumentStore)(nil)

type DocumentStore struct{ s *Store }

func (d *DocumentStore) Create(_ context.Context, doc model.Document) (model.Document, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	if _, ok := d.s.documents[doc.ID]; ok {
		return model.Document{}, model.ErrAlreadyExists
	}
	d.s.documents[doc.ID] = doc
	d.s.documentOrder = append(d.s.documentOrder, doc.ID)
	return doc, nil
}

func (d *DocumentStore) GetByID(_ context.Context, id string) (model.Document, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	doc, ok := d.s.documents[id]
	if !ok {
		return model.Document{}, model.ErrNotFound
	}
	return doc, nil
}

func (d *DocumentStore) GetByUserID(_ context.Context, userID string) ([]model.Document, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	out := make([]model.Document, 0)
	for _, id := range d.s.documentOrder {
		if doc := d.s.documents[id]; doc.UserID == userID {
			out = append(out, doc)
		}
	}
	return out, nil
}

var _ model.BudgetStore = (*BudgetStore)(nil)

type BudgetStore struct{ s *Store }

// Put stores a budget. The document store has no budget writer; this seeds local data.
func (b *BudgetStore) Put(budget model.Budget) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	b.s.budgets[budget.ID] = budget
}

func (b *BudgetStore) GetByUserID(_ context.Context, userID string) ([]model.Budget, error) {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()

	out := make([]model.Budget, 0)
	for _, budget := range b.s.budgets {
		if budget.UserID == userID {
			out = append(out, budget)
		}
	}
	slices.SortFunc(out, func(a, b model.Budget) int { return strings.Compare(a.Category, b.Category) })
	return out, nil
}

var _ model.TicketStore = (*TicketStore)(nil)

type TicketStore struct{ s *Store }

func (t *TicketStore) Create(_ context.Context, ticket model.Ticket) (model.Ticket, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.tickets[ticket.ID]; ok {
		return model.Ticket{}, model.ErrAlreadyExists
	}
	ticket.Messages = slices.Clone(ticket.Messages)
	t.s.tickets[ticket.ID] = ticket
	return cloneTicket(ticket), nil
}

func (t *TicketStore) GetByID(_ context.Context, id string) (model.Ticket, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	ticket, ok := t.s.tickets[id]
	if !ok {
		return model.Ticket{}, model.ErrNotFound
	}
	return cloneTicket(ticket), nil
}

func (t *TicketStore) GetByUserID(_ context.Context, userID string) ([]model.Ticket, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	out := make([]model.Ticket, 0)
	for _, ticket := range t.s.tickets {
		if ticket.UserID == userID {
			out = append(out, cloneTicket(ticket))
		}
	}
	// newest first, like the document store query
	slices.SortFunc(out, func(a, b model.Ticket) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (t *TicketStore) AddMessage(_ context.Context, id string, message model.TicketMessage, status model.TicketStatus) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	ticket, ok := t.s.tickets[id]
	if !ok {
		return model.ErrNotFound
	}
	ticket = cloneTicket(ticket)
	ticket.Messages = append(ticket.Messages, message)
	ticket.UpdatedAt = message.CreatedAt
	if status != "" {
		ticket.Status = status
	}
	t.s.tickets[id] = ticket
	return nil
}

func cloneTicket(t model.Ticket) model.Ticket {
	t.Messages = append(make([]model.TicketMessage, 0, len(t.Messages)), t.Messages...)
	return t
}

var _ model.VerificationCodeStore = (*VerificationCodeStore)(nil)

type VerificationCodeStore struct{ s *Store }

func (v *VerificationCodeStore) Put(_ context.Context, code model.VerificationCode) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.codes[code.UserID] = code
	return nil
}

func (v *VerificationCodeStore) Get(_ context.Context, userID string) (model.VerificationCode, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	code, ok := v.s.codes[userID]
	if !ok {
		return model.VerificationCode{}, model.ErrNotFound
	}
	return code, nil
}

func (v *VerificationCodeStore) UseAttempt(_ context.Context, userID string, maxAttempts int) (bool, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	code, ok := v.s.codes[userID]
	if !ok {
		return false, model.ErrNotFound
	}
	if code.Attempts >= maxAttempts {
		return false, nil
	}
	code.Attempts++
	v.s.codes[userID] = code
	return true, nil
}

func (v *VerificationCodeStore) Delete(_ context.Context, userID string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	delete(v.s.codes, userID)
	return nil
}
