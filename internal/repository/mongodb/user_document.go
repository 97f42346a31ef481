package mongodb

import (
	"time"

	"github.com/dtroode/amcbunq-server/internal/model"
)

type userDocument struct {
	ID    string `bson:"_id"`
	Email string `bson:"email"`
	// kycStatus mirrors verificationStatus for older clients
	KYCStatus          string                 `bson:"kycStatus,omitempty"`
	VerificationStatus string                 `bson:"verificationStatus,omitempty"`
	EmailVerified      bool                   `bson:"emailVerified"`
	EmailVerifiedAt    *time.Time             `bson:"emailVerifiedAt,omitempty"`
	Notifications      []notificationDocument `bson:"notifications,omitempty"`
	Accounts           []accountDocument      `bson:"accounts,omitempty"`
	CreatedAt          time.Time              `bson:"createdAt"`
	UpdatedAt          time.Time              `bson:"updatedAt"`
}

type notificationDocument struct {
	ID       string    `bson:"id"`
	Title    string    `bson:"title"`
	Message  string    `bson:"message"`
	Type     string    `bson:"type"`
	Priority string    `bson:"priority"`
	Category string    `bson:"category"`
	Date     time.Time `bson:"date"`
	Read     bool      `bson:"read"`
}

type accountDocument struct {
	ID               string `bson:"id"`
	Name             string `bson:"name"`
	AccountType      string `bson:"accountType"`
	Balance          int64  `bson:"balance"`
	Currency         string `bson:"currency"`
	Status           string `bson:"status"`
	CreditLimit      *int64 `bson:"creditLimit,omitempty"`
	AvailableCredit  *int64 `bson:"availableCredit,omitempty"`
	CardNumberMasked string `bson:"cardNumberMasked,omitempty"`
}

func newUserDocument(u model.User) userDocument {
	doc := userDocument{
		ID:                 u.ID,
		Email:              u.Email,
		KYCStatus:          string(u.VerificationStatus),
		VerificationStatus: string(u.VerificationStatus),
		EmailVerified:      u.EmailVerified,
		EmailVerifiedAt:    u.EmailVerifiedAt,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
	for _, n := range u.Notifications {
		doc.Notifications = append(doc.Notifications, newNotificationDocument(n))
	}
	for _, a := range u.Accounts {
		doc.Accounts = append(doc.Accounts, newAccountDocument(a))
	}
	return doc
}

func (d userDocument) toModel() model.User {
	status := d.VerificationStatus
	if status == "" {
		status = d.KYCStatus
	}
	if status == "" {
		status = string(model.VerificationUnverified)
	}

	u := model.User{
		ID:                 d.ID,
		Email:              d.Email,
		VerificationStatus: model.VerificationStatus(status),
		EmailVerified:      d.EmailVerified,
		EmailVerifiedAt:    d.EmailVerifiedAt,
		Notifications:      make([]model.Notification, 0, len(d.Notifications)),
		Accounts:           make([]model.Account, 0, len(d.Accounts)),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	for _, n := range d.Notifications {
		u.Notifications = append(u.Notifications, n.toModel())
	}
	for _, a := range d.Accounts {
		u.Accounts = append(u.Accounts, a.toModel())
	}
	return u
}

func newNotificationDocument(n model.Notification) notificationDocument {
	return notificationDocument{
		ID:       n.ID,
		Title:    n.Title,
		Message:  n.Message,
		Type:     string(n.Type),
		Priority: string(n.Priority),
		Category: string(n.Category),
		Date:     n.Date,
		Read:     n.Read,
	}
}

func (d notificationDocument) toModel() model.Notification {
	return model.Notification{
		ID:       d.ID,
		Title:    d.Title,
		Message:  d.Message,
		Type:     model.NotificationType(d.Type),
		Priority: model.NotificationPriority(d.Priority),
		Category: model.NotificationCategory(d.Category),
		Date:     d.Date,
		Read:     d.Read,
	}
}

func newAccountDocument(a model.Account) accountDocument {
	return accountDocument{
		ID:               a.ID,
		Name:             a.Name,
		AccountType:      string(a.Type),
		Balance:          a.Balance,
		Currency:         a.Currency,
		Status:           string(a.Status),
		CreditLimit:      a.CreditLimit,
		AvailableCredit:  a.AvailableCredit,
		CardNumberMasked: a.CardNumberMasked,
	}
}

func (d accountDocument) toModel() model.Account {
	return model.Account{
		ID:               d.ID,
		Name:             d.Name,
		Type:             model.AccountType(d.AccountType),
		Balance:          d.Balance,
		Currency:         d.Currency,
		Status:           model.AccountStatus(d.Status),
		CreditLimit:      d.CreditLimit,
		AvailableCredit:  d.AvailableCredit,
		CardNumberMasked: d.CardNumberMasked,
	}
}
