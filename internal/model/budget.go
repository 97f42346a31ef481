package model

import (
	"context"
	"time"
)

// BudgetStore reads spending budgets.
type BudgetStore interface {
	GetByUserID(ctx context.Context, userID string) ([]Budget, error)
}

// Budget is a spending limit per category. Amounts are in minor currency units.
type Budget struct {
	ID        string
	UserID    string
	Category  string
	Limit     int64
	Spent     int64
	Currency  string
	Period    BudgetPeriod
	CreatedAt time.Time
}

// Remaining returns the part of the limit not yet spent; negative when overspent.
func (b Budget) Remaining() int64 {
	return b.Limit - b.Spent
}

type BudgetPeriod string

const (
	BudgetWeekly  BudgetPeriod = "weekly"
	BudgetMonthly BudgetPeriod = "monthly"
	BudgetYearly  BudgetPeriod = "yearly"
)
