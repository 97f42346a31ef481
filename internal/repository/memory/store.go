// Package memory provides in-process stores with the same semantics as the
// document store repositories. They back local runs and service tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dtroode/amcbunq-server/internal/model"
)

// Store keeps all collections in maps guarded by one mutex.
type Store struct {
	mu        sync.RWMutex
	users     map[string]model.User
	documents map[string]model.Document
	budgets   map[string]model.Budget
	tickets   map[string]model.Ticket
	codes     map[string]model.VerificationCode
	// insertion order for documents, used for stable listing
	documentOrder []string
}

func NewStore() *Store {
	return &Store{
		users:     make(map[string]model.User),
		documents: make(map[string]model.Document),
		budgets:   make(map[string]model.Budget),
		tickets:   make(map[string]model.Ticket),
		codes:     make(map[string]model.VerificationCode),
	}
}

// Users returns a UserStore view of s.
func (s *Store) Users() *UserStore { return &UserStore{s: s} }

// Documents returns a DocumentStore view of s.
func (s *Store) Documents() *DocumentStore { return &DocumentStore{s: s} }

// Budgets returns a BudgetStore view of s.
func (s *Store) Budgets() *BudgetStore { return &BudgetStore{s: s} }

// Tickets returns a TicketStore view of s.
func (s *Store) Tickets() *TicketStore { return &TicketStore{s: s} }

// VerificationCodes returns a VerificationCodeStore view of s.
func (s *Store) VerificationCodes() *VerificationCodeStore { return &VerificationCodeStore{s: s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

var _ model.UserStore = (*UserStore)(nil)

type UserStore struct{ s *Store }

func (u *UserStore) Create(_ context.Context, user model.User) (model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if _, ok := u.s.users[user.ID]; ok {
		return model.User{}, model.ErrAlreadyExists
	}
	if user.VerificationStatus == "" {
		user.VerificationStatus = model.VerificationUnverified
	}
	user = cloneUser(user)
	u.s.users[user.ID] = user
	return cloneUser(user), nil
}

func (u *UserStore) GetByID(_ context.Context, id string) (model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	user, ok := u.s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return cloneUser(user), nil
}

func (u *UserStore) FindByEmail(_ context.Context, email string, limit int) ([]model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	ids := make([]string, 0)
	for id, user := range u.s.users {
		if user.Email == email {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, cloneUser(u.s.users[id]))
	}
	return users, nil
}

func (u *UserStore) SetVerificationStatus(_ context.Context, id string, status model.VerificationStatus, at time.Time) error {
	return u.update(id, func(user *model.User) bool {
		user.VerificationStatus = status
		user.UpdatedAt = at
		return true
	})
}

func (u *UserStore) SetEmailVerified(_ context.Context, id string, at time.Time) error {
	return u.update(id, func(user *model.User) bool {
		user.EmailVerified = true
		user.EmailVerifiedAt = &at
		user.UpdatedAt = at
		return true
	})
}

func (u *UserStore) AddAccount(_ context.Context, id string, account model.Account, at time.Time) (bool, error) {
	inserted := false
	err := u.update(id, func(user *model.User) bool {
		for _, a := range user.Accounts {
			if a.ID == account.ID {
				return false
			}
		}
		user.Accounts = append(user.Accounts, cloneAccount(account))
		user.UpdatedAt = at
		inserted = true
		return true
	})
	return inserted, err
}

func (u *UserStore) PushNotifications(_ context.Context, id string, notifications []model.Notification, at time.Time) error {
	return u.update(id, func(user *model.User) bool {
		user.Notifications = append(user.Notifications, notifications...)
		user.UpdatedAt = at
		return true
	})
}

// update applies fn to a copy of the user and stores it when fn reports a change.
func (u *UserStore) update(id string, fn func(*model.User) bool) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok {
		return model.ErrNotFound
	}
	user = cloneUser(user)
	if fn(&user) {
		u.s.users[id] = user
	}
	return nil
}

func cloneUser(u model.User) model.User {
	u.Notifications = append(make([]model.Notification, 0, len(u.Notifications)), u.Notifications...)
	accounts := make([]model.Account, 0, len(u.Accounts))
	for _, a := range u.Accounts {
		accounts = append(accounts, cloneAccount(a))
	}
	u.Accounts = accounts
	if u.EmailVerifiedAt != nil {
		at := *u.EmailVerifiedAt
		u.EmailVerifiedAt = &at
	}
	return u
}

func cloneAccount(a model.Account) model.Account {
	if a.CreditLimit != nil {
		v := *a.CreditLimit
		a.CreditLimit = &v
	}
	if a.AvailableCredit != nil {
		v := *a.AvailableCredit
		a.AvailableCredit = &v
	}
	return a
}
