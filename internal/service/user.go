package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/amcbunq-server/internal/logger"
	"github.com/dtroode/amcbunq-server/internal/model"
)

const defaultCurrency = "EUR"

// UserGateway reads and updates user records. It enforces value-set membership
// of enumerated fields and key-based union insertion of accounts; status
// transitions themselves are unconstrained.
type UserGateway struct {
	userStore model.UserStore
	logger    *logger.Logger
	now       func() time.Time
}

func NewUserGateway(userStore model.UserStore, logger *logger.Logger) *UserGateway {
	return &UserGateway{
		userStore: userStore,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateUserParams contains parameters to create a user record.
type CreateUserParams struct {
	ID                 string
	Email              string
	VerificationStatus string
}

func (g *UserGateway) CreateUser(ctx context.Context, params CreateUserParams) (model.User, error) {
	status := model.VerificationUnverified
	if params.VerificationStatus != "" {
		parsed, err := model.ParseVerificationStatus(params.VerificationStatus)
		if err != nil {
			return model.User{}, err
		}
		status = parsed
	}

	id := strings.TrimSpace(params.ID)
	if id == "" {
		id = uuid.NewString()
	}

	now := g.now()
	user, err := g.userStore.Create(ctx, model.User{
		ID:                 id,
		Email:              strings.TrimSpace(params.Email),
		VerificationStatus: status,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		logFailure(g.logger, "UserGateway: failed to create user", err, "op", "create_user", "user_id", id)
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	g.logger.Info("UserGateway: user created", "user_id", user.ID)
	return user, nil
}

func (g *UserGateway) GetUser(ctx context.Context, userID string) (model.User, error) {
	if userID == "" {
		return model.User{}, fmt.Errorf("%w: user id is empty", model.ErrInvalidArgument)
	}

	user, err := g.userStore.GetByID(ctx, userID)
	if err != nil {
		logFailure(g.logger, "UserGateway: failed to get user", err, "op", "get_user", "user_id", userID)
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// FindUserByEmail matches email exactly. More than one match is reported as
// ErrAmbiguousEmail instead of picking one.
func (g *UserGateway) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	if email == "" {
		return model.User{}, fmt.Errorf("%w: email is empty", model.ErrInvalidArgument)
	}

	users, err := g.userStore.FindByEmail(ctx, email, 2)
	if err != nil {
		logFailure(g.logger, "UserGateway: failed to find user by email", err, "op", "find_user_by_email", "email", email)
		return model.User{}, fmt.Errorf("failed to find user by email: %w", err)
	}

	switch len(users) {
	case 0:
		g.logger.Warn("UserGateway: no user for email", "op", "find_user_by_email", "email", email)
		return model.User{}, fmt.Errorf("user with email %q: %w", email, model.ErrNotFound)
	case 1:
		return users[0], nil
	default:
		g.logger.Warn("UserGateway: email shared by several users",
			"op", "find_user_by_email",
			"email", email,
			"user_ids", []string{users[0].ID, users[1].ID})
		return model.User{}, fmt.Errorf("user with email %q: %w", email, model.ErrAmbiguousEmail)
	}
}

// UpdateVerificationStatus sets the KYC status. Both stored status fields and
// updatedAt change in one write.
func (g *UserGateway) UpdateVerificationStatus(ctx context.Context, userID string, status string) error {
	parsed, err := model.ParseVerificationStatus(status)
	if err != nil {
		g.logger.Warn("UserGateway: rejected verification status",
			"op", "update_verification_status", "user_id", userID, "status", status)
		return err
	}

	if err := g.userStore.SetVerificationStatus(ctx, userID, parsed, g.now()); err != nil {
		logFailure(g.logger, "UserGateway: failed to update verification status", err,
			"op", "update_verification_status", "user_id", userID, "status", status)
		return fmt.Errorf("failed to update verification status: %w", err)
	}

	g.logger.Info("UserGateway: verification status updated", "user_id", userID, "status", status)
	return nil
}

func (g *UserGateway) MarkEmailVerified(ctx context.Context, userID string) error {
	if err := g.userStore.SetEmailVerified(ctx, userID, g.now()); err != nil {
		logFailure(g.logger, "UserGateway: failed to mark email verified", err,
			"op", "mark_email_verified", "user_id", userID)
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	g.logger.Info("UserGateway: email marked verified", "user_id", userID)
	return nil
}

// AppendAccount adds account unless the user already has an account with the
// same ID. The returned account is the stored one and created reports whether
// this call inserted it.
func (g *UserGateway) AppendAccount(ctx context.Context, userID string, account model.Account) (model.Account, bool, error) {
	account, err := prepareAccount(account)
	if err != nil {
		g.logger.Warn("UserGateway: rejected account", "op", "append_account", "user_id", userID, "error", err.Error())
		return model.Account{}, false, err
	}

	inserted, err := g.userStore.AddAccount(ctx, userID, account, g.now())
	if err != nil {
		logFailure(g.logger, "UserGateway: failed to append account", err,
			"op", "append_account", "user_id", userID, "account_id", account.ID)
		return model.Account{}, false, fmt.Errorf("failed to append account: %w", err)
	}
	if inserted {
		return account, true, nil
	}

	user, err := g.userStore.GetByID(ctx, userID)
	if err != nil {
		logFailure(g.logger, "UserGateway: failed to read existing account", err,
			"op", "append_account", "user_id", userID, "account_id", account.ID)
		return model.Account{}, false, fmt.Errorf("failed to read existing account: %w", err)
	}
	for _, a := range user.Accounts {
		if a.ID == account.ID {
			g.logger.Debug("UserGateway: account already present", "user_id", userID, "account_id", account.ID)
			return a, false, nil
		}
	}
	return model.Account{}, false, fmt.Errorf("account %s vanished after insert: %w", account.ID, model.ErrStoreUnavailable)
}

func (g *UserGateway) AppendNotification(ctx context.Context, userID string, notification model.Notification) (model.Notification, error) {
	stored, err := g.AppendNotifications(ctx, userID, []model.Notification{notification})
	if err != nil {
		return model.Notification{}, err
	}
	return stored[0], nil
}

// AppendNotifications appends all notifications in the given order with a
// single write. Nothing is written if any notification is invalid.
func (g *UserGateway) AppendNotifications(ctx context.Context, userID string, notifications []model.Notification) ([]model.Notification, error) {
	if len(notifications) == 0 {
		return nil, fmt.Errorf("%w: no notifications given", model.ErrInvalidArgument)
	}

	now := g.now()
	prepared := make([]model.Notification, 0, len(notifications))
	for i, n := range notifications {
		p, err := prepareNotification(n, now)
		if err != nil {
			g.logger.Warn("UserGateway: rejected notification",
				"op", "append_notification", "user_id", userID, "index", i, "error", err.Error())
			return nil, fmt.Errorf("notification %d: %w", i, err)
		}
		prepared = append(prepared, p)
	}

	if err := g.userStore.PushNotifications(ctx, userID, prepared, now); err != nil {
		logFailure(g.logger, "UserGateway: failed to append notifications", err,
			"op", "append_notification", "user_id", userID, "count", len(prepared))
		return nil, fmt.Errorf("failed to append notifications: %w", err)
	}

	g.logger.Debug("UserGateway: notifications appended", "user_id", userID, "count", len(prepared))
	return prepared, nil
}

// ListNotifications returns notifications in stored order. A positive window
// keeps only notifications strictly younger than window.
func (g *UserGateway) ListNotifications(ctx context.Context, userID string, window time.Duration) ([]model.Notification, error) {
	if window < 0 {
		return nil, fmt.Errorf("%w: negative notification window", model.ErrInvalidArgument)
	}

	user, err := g.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if window == 0 {
		return user.Notifications, nil
	}

	now := g.now()
	recent := make([]model.Notification, 0, len(user.Notifications))
	for _, n := range user.Notifications {
		if now.Sub(n.Date) < window {
			recent = append(recent, n)
		}
	}
	return recent, nil
}

func prepareNotification(n model.Notification, now time.Time) (model.Notification, error) {
	n.Title = strings.TrimSpace(n.Title)
	n.Message = strings.TrimSpace(n.Message)
	if n.Title == "" || n.Message == "" {
		return model.Notification{}, fmt.Errorf("%w: title and message are required", model.ErrInvalidArgument)
	}

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Type == "" {
		n.Type = model.NotificationInfo
	}
	if n.Priority == "" {
		n.Priority = model.PriorityMedium
	}
	if n.Category == "" {
		n.Category = model.CategoryGeneral
	}
	if n.Date.IsZero() {
		n.Date = now
	}

	if !n.Type.Valid() {
		return model.Notification{}, fmt.Errorf("%w: unknown notification type %q", model.ErrInvalidArgument, n.Type)
	}
	if !n.Priority.Valid() {
		return model.Notification{}, fmt.Errorf("%w: unknown notification priority %q", model.ErrInvalidArgument, n.Priority)
	}
	if !n.Category.Valid() {
		return model.Notification{}, fmt.Errorf("%w: unknown notification category %q", model.ErrInvalidArgument, n.Category)
	}
	return n, nil
}

func prepareAccount(a model.Account) (model.Account, error) {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return model.Account{}, fmt.Errorf("%w: account name is required", model.ErrInvalidArgument)
	}
	if !a.Type.Valid() {
		return model.Account{}, fmt.Errorf("%w: unknown account type %q", model.ErrInvalidArgument, a.Type)
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = model.AccountActive
	}
	if !a.Status.Valid() {
		return model.Account{}, fmt.Errorf("%w: unknown account status %q", model.ErrInvalidArgument, a.Status)
	}

	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))
	if a.Currency == "" {
		a.Currency = defaultCurrency
	}
	if len(a.Currency) != 3 {
		return model.Account{}, fmt.Errorf("%w: currency must be an ISO 4217 code", model.ErrInvalidArgument)
	}

	if a.Type != model.AccountCredit && (a.CreditLimit != nil || a.AvailableCredit != nil) {
		return model.Account{}, fmt.Errorf("%w: credit fields on %s account", model.ErrInvalidArgument, a.Type)
	}
	return a, nil
}
