package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dtroode/amcbunq-server/internal/model"
	"github.com/dtroode/amcbunq-server/internal/money"
)

// JSON shapes of the API. Money is rendered as decimal strings in major units.

type userResponse struct {
	ID                 string                 `json:"id"`
	Email              string                 `json:"email"`
	KYCStatus          string                 `json:"kycStatus"`
	VerificationStatus string                 `json:"verificationStatus"`
	EmailVerified      bool                   `json:"emailVerified"`
	EmailVerifiedAt    *time.Time             `json:"emailVerifiedAt,omitempty"`
	Notifications      []notificationResponse `json:"notifications"`
	Accounts           []accountResponse      `json:"accounts"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

func newUserResponse(u model.User) userResponse {
	resp := userResponse{
		ID:                 u.ID,
		Email:              u.Email,
		KYCStatus:          string(u.KYCStatus()),
		VerificationStatus: string(u.VerificationStatus),
		EmailVerified:      u.EmailVerified,
		EmailVerifiedAt:    u.EmailVerifiedAt,
		Notifications:      newNotificationResponses(u.Notifications),
		Accounts:           make([]accountResponse, 0, len(u.Accounts)),
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
	for _, a := range u.Accounts {
		resp.Accounts = append(resp.Accounts, newAccountResponse(a))
	}
	return resp
}

type notificationRequest struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	Type     string     `json:"type"`
	Priority string     `json:"priority"`
	Category string     `json:"category"`
	Date     *time.Time `json:"date"`
	Read     bool       `json:"read"`
}

func (r notificationRequest) toModel() model.Notification {
	n := model.Notification{
		ID:       r.ID,
		Title:    r.Title,
		Message:  r.Message,
		Type:     model.NotificationType(r.Type),
		Priority: model.NotificationPriority(r.Priority),
		Category: model.NotificationCategory(r.Category),
		Read:     r.Read,
	}
	if r.Date != nil {
		n.Date = *r.Date
	}
	return n
}

type notificationResponse struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Type     string    `json:"type"`
	Priority string    `json:"priority"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
	Read     bool      `json:"read"`
}

func newNotificationResponses(ns []model.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, notificationResponse{
			ID:       n.ID,
			Title:    n.Title,
			Message:  n.Message,
			Type:     string(n.Type),
			Priority: string(n.Priority),
			Category: string(n.Category),
			Date:     n.Date,
			Read:     n.Read,
		})
	}
	return out
}

type accountRequest struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	AccountType      string           `json:"accountType"`
	Balance          decimal.Decimal  `json:"balance"`
	Currency         string           `json:"currency"`
	Status           string           `json:"status"`
	CreditLimit      *decimal.Decimal `json:"creditLimit"`
	AvailableCredit  *decimal.Decimal `json:"availableCredit"`
	CardNumberMasked string           `json:"cardNumberMasked"`
}

func (r accountRequest) toModel() (model.Account, error) {
	balance, err := money.ToMinor(r.Balance)
	if err != nil {
		return model.Account{}, err
	}
	a := model.Account{
		ID:               r.ID,
		Name:             r.Name,
		Type:             model.AccountType(r.AccountType),
		Balance:          balance,
		Currency:         r.Currency,
		Status:           model.AccountStatus(r.Status),
		CardNumberMasked: r.CardNumberMasked,
	}
	if a.CreditLimit, err = optionalMinor(r.CreditLimit); err != nil {
		return model.Account{}, err
	}
	if a.AvailableCredit, err = optionalMinor(r.AvailableCredit); err != nil {
		return model.Account{}, err
	}
	return a, nil
}

func optionalMinor(d *decimal.Decimal) (*int64, error) {
	if d == nil {
		return nil, nil
	}
	v, err := money.ToMinor(*d)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type accountResponse struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	AccountType      string           `json:"accountType"`
	Balance          decimal.Decimal  `json:"balance"`
	Currency         string           `json:"currency"`
	Status           string           `json:"status"`
	CreditLimit      *decimal.Decimal `json:"creditLimit,omitempty"`
	AvailableCredit  *decimal.Decimal `json:"availableCredit,omitempty"`
	CardNumberMasked string           `json:"cardNumberMasked,omitempty"`
}

func newAccountResponse(a model.Account) accountResponse {
	resp := accountResponse{
		ID:               a.ID,
		Name:             a.Name,
		AccountType:      string(a.Type),
		Balance:          money.FromMinor(a.Balance),
		Currency:         a.Currency,
		Status:           string(a.Status),
		CardNumberMasked: a.CardNumberMasked,
	}
	if a.CreditLimit != nil {
		v := money.FromMinor(*a.CreditLimit)
		resp.CreditLimit = &v
	}
	if a.AvailableCredit != nil {
		v := money.FromMinor(*a.AvailableCredit)
		resp.AvailableCredit = &v
	}
	return resp
}

type budgetResponse struct {
	ID        string          `json:"id"`
	Category  string          `json:"category"`
	Limit     decimal.Decimal `json:"limit"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Currency  string          `json:"currency"`
	Period    string          `json:"period"`
	CreatedAt time.Time       `json:"createdAt"`
}

func newBudgetResponse(b model.Budget) budgetResponse {
	return budgetResponse{
		ID:        b.ID,
		Category:  b.Category,
		Limit:     money.FromMinor(b.Limit),
		Spent:     money.FromMinor(b.Spent),
		Remaining: money.FromMinor(b.Remaining()),
		Currency:  b.Currency,
		Period:    string(b.Period),
		CreatedAt: b.CreatedAt,
	}
}

type documentResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Status      string    `json:"status"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

func newDocumentResponse(d model.Document) documentResponse {
	return documentResponse{
		ID:          d.ID,
		UserID:      d.UserID,
		Name:        d.Name,
		Type:        string(d.Type),
		ContentType: d.ContentType,
		Size:        d.Size,
		Status:      string(d.Status),
		UploadedAt:  d.UploadedAt,
	}
}

type ticketMessageResponse struct {
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type ticketResponse struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"userId"`
	Subject   string                  `json:"subject"`
	Category  string                  `json:"category"`
	Priority  string                  `json:"priority"`
	Status    string                  `json:"status"`
	Messages  []ticketMessageResponse `json:"messages"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

func newTicketResponse(t model.Ticket) ticketResponse {
	resp := ticketResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Subject:   t.Subject,
		Category:  t.Category,
		Priority:  string(t.Priority),
		Status:    string(t.Status),
		Messages:  make([]ticketMessageResponse, 0, len(t.Messages)),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	for _, m := range t.Messages {
		resp.Messages = append(resp.Messages, newTicketMessageResponse(m))
	}
	return resp
}

func newTicketMessageResponse(m model.TicketMessage) ticketMessageResponse {
	return ticketMessageResponse{Author: m.Author, Body: m.Body, CreatedAt: m.CreatedAt}
}
