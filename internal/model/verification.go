package model

import (
	"context"
	"time"
)

// VerificationCodeStore persists pending email verification codes, one per user.
type VerificationCodeStore interface {
	Put(ctx context.Context, code VerificationCode) error
	Get(ctx context.Context, userID string) (VerificationCode, error)
	// UseAttempt counts one verification attempt if fewer than maxAttempts
	// were made and reports whether it did. Check and increment are one write.
	UseAttempt(ctx context.Context, userID string, maxAttempts int) (bool, error)
	Delete(ctx context.Context, userID string) error
}

// VerificationCode is a one-time code mailed to a user.
type VerificationCode struct {
	UserID   string
	Email    string
	Code     string
	Expires  time.Time
	Attempts int
}

// Mailer delivers plain-text emails.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
