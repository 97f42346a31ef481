package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/amcbunq-server/internal/logger"
	"github.com/dtroode/amcbunq-server/internal/model"
)

type Budget struct {
	budgetStore model.BudgetStore
	userStore   model.UserStore
	logger      *logger.Logger
}

func NewBudget(budgetStore model.BudgetStore, userStore model.UserStore, logger *logger.Logger) *Budget {
	return &Budget{budgetStore: budgetStore, userStore: userStore, logger: logger}
}

func (s *Budget) ListBudgets(ctx context.Context, userID string) ([]model.Budget, error) {
	_, err := s.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Warn("Budget service: user not found", "op", "list_budgets", "user_id", userID)
		return nil, fmt.Errorf("user %s: %w", userID, model.ErrNotFound)
	}
	if err != nil {
		logFailure(s.logger, "Budget service: failed to get user", err, "op", "list_budgets", "user_id", userID)
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	budgets, err := s.budgetStore.GetByUserID(ctx, userID)
	if err != nil {
		logFailure(s.logger, "Budget service: failed to list budgets", err, "op", "list_budgets", "user_id", userID)
		return nil, fmt.Errorf("failed to get budgets by user id: %w", err)
	}
	return budgets, nil
}
