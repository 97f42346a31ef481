package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/dtroode/amcbunq-server/internal/logger"
	"github.com/dtroode/amcbunq-server/internal/model"
)

// EmailVerification issues one-time codes by email and marks the address
// verified once the user echoes the code back.
type EmailVerification struct {
	codeStore   model.VerificationCodeStore
	users       *UserGateway
	mailer      model.Mailer
	logger      *logger.Logger
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
	generate    func() (string, error)
}

func NewEmailVerification(
	codeStore model.VerificationCodeStore,
	users *UserGateway,
	mailer model.Mailer,
	logger *logger.Logger,
	ttl time.Duration,
	maxAttempts int,
) *EmailVerification {
	return &EmailVerification{
		codeStore:   codeStore,
		users:       users,
		mailer:      mailer,
		logger:      logger,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		now:         time.Now,
		generate:    generateCode,
	}
}

// SendCode replaces any pending code of the user with a fresh one and mails it.
func (s *EmailVerification) SendCode(ctx context.Context, userID string) error {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Email == "" {
		return fmt.Errorf("%w: user %s has no email", model.ErrInvalidArgument, userID)
	}

	code, err := s.generate()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	err = s.codeStore.Put(ctx, model.VerificationCode{
		UserID:  userID,
		Email:   user.Email,
		Code:    code,
		Expires: s.now().Add(s.ttl),
	})
	if err != nil {
		logFailure(s.logger, "EmailVerification service: failed to store code", err, "op", "send_code", "user_id", userID)
		return fmt.Errorf("failed to store code: %w", err)
	}

	body := fmt.Sprintf("Your AmCbunq verification code is %s.\nIt expires in %d minutes.", code, int(s.ttl.Minutes()))
	if err := s.mailer.Send(ctx, user.Email, "Verify your email", body); err != nil {
		s.logger.Error("EmailVerification service: failed to send code", "op", "send_code", "user_id", userID, "error", err.Error())
		return fmt.Errorf("failed to send code: %w", err)
	}

	s.logger.Info("EmailVerification service: code sent", "user_id", userID)
	return nil
}

func (s *EmailVerification) VerifyCode(ctx context.Context, userID, code string) error {
	pending, err := s.codeStore.Get(ctx, userID)
	if err != nil {
		logFailure(s.logger, "EmailVerification service: failed to get code", err, "op", "verify_code", "user_id", userID)
		return fmt.Errorf("failed to get code: %w", err)
	}

	if !s.now().Before(pending.Expires) {
		s.logger.Warn("EmailVerification service: code expired", "user_id", userID)
		return model.ErrCodeExpired
	}

	// every comparison spends an attempt first, so concurrent guesses stay
	// within maxAttempts
	ok, err := s.codeStore.UseAttempt(ctx, userID, s.maxAttempts)
	if err != nil {
		logFailure(s.logger, "EmailVerification service: failed to count attempt", err, "op", "verify_code", "user_id", userID)
		return fmt.Errorf("failed to count attempt: %w", err)
	}
	if !ok {
		s.logger.Warn("EmailVerification service: attempts exhausted", "user_id", userID)
		return model.ErrTooManyAttempts
	}

	if subtle.ConstantTimeCompare([]byte(pending.Code), []byte(code)) != 1 {
		s.logger.Warn("EmailVerification service: code mismatch", "user_id", userID)
		return model.ErrInvalidCode
	}

	if err := s.users.MarkEmailVerified(ctx, userID); err != nil {
		return err
	}
	if err := s.codeStore.Delete(ctx, userID); err != nil {
		s.logger.Warn("EmailVerification service: failed to delete used code", "user_id", userID, "error", err.Error())
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
