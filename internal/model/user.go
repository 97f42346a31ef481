package model

import (
	"context"
	"fmt"
	"time"
)

// UserStore defines persistence operations for user records.
//
// Mutating methods return ErrNotFound when no record exists for the id.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// FindByEmail returns at most limit users with the given email.
	FindByEmail(ctx context.Context, email string, limit int) ([]User, error)
	SetVerificationStatus(ctx context.Context, id string, status VerificationStatus, at time.Time) error
	SetEmailVerified(ctx context.Context, id string, at time.Time) error
	// AddAccount inserts account unless an account with the same ID is already
	// present. It reports whether the account was inserted.
	AddAccount(ctx context.Context, id string, account Account, at time.Time) (bool, error)
	PushNotifications(ctx context.Context, id string, notifications []Notification, at time.Time) error
}

// User represents a stored user record.
type User struct {
	ID                 string
	Email              string
	VerificationStatus VerificationStatus
	EmailVerified      bool
	EmailVerifiedAt    *time.Time
	Notifications      []Notification
	Accounts           []Account
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// KYCStatus is a read alias of VerificationStatus kept for clients of the kycStatus field.
func (u User) KYCStatus() VerificationStatus {
	return u.VerificationStatus
}

// VerificationStatus enumerates KYC states.
type VerificationStatus string

const (
	// VerificationUnverified is the initial state.
	VerificationUnverified VerificationStatus = "unverified"
	// VerificationPending means documents were submitted and await review.
	VerificationPending VerificationStatus = "pending"
	// VerificationVerified means the identity was confirmed.
	VerificationVerified VerificationStatus = "verified"
)

// ParseVerificationStatus validates s against the known statuses.
func ParseVerificationStatus(s string) (VerificationStatus, error) {
	switch st := VerificationStatus(s); st {
	case VerificationUnverified, VerificationPending, VerificationVerified:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown verification status %q", ErrInvalidArgument, s)
}

// Notification is a message shown in the user's inbox.
type Notification struct {
	ID       string
	Title    string
	Message  string
	Type     NotificationType
	Priority NotificationPriority
	Category NotificationCategory
	Date     time.Time
	Read     bool
}

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationFeature NotificationType = "feature"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationFeature:
		return true
	}
	return false
}

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

func (p NotificationPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type NotificationCategory string

const (
	CategoryTransaction NotificationCategory = "transaction"
	CategorySecurity    NotificationCategory = "security"
	CategoryGeneral     NotificationCategory = "general"
	CategoryFeature     NotificationCategory = "feature"
)

func (c NotificationCategory) Valid() bool {
	switch c {
	case CategoryTransaction, CategorySecurity, CategoryGeneral, CategoryFeature:
		return true
	}
	return false
}

// Account is a bank-style sub-account. Amounts are in minor currency units.
type Account struct {
	ID               string
	Name             string
	Type             AccountType
	Balance          int64
	Currency         string
	Status           AccountStatus
	CreditLimit      *int64
	AvailableCredit  *int64
	CardNumberMasked string
}

type AccountType string

const (
	AccountCurrent AccountType = "current"
	AccountSavings AccountType = "savings"
	AccountCredit  AccountType = "credit"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountCurrent, AccountSavings, AccountCredit:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

func (s AccountStatus) Valid() bool {
	return s == AccountActive || s == AccountInactive
}
