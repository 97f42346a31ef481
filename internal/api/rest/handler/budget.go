package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/amcbunq-server/internal/model"
)

type BudgetService interface {
	ListBudgets(ctx context.Context, userID string) ([]model.Budget, error)
}

// Budget handles budget endpoints.
type Budget struct {
	principalResolver
	budgetService BudgetService
}

func NewBudget(budgetService BudgetService, contextManager model.ContextManager) *Budget {
	return &Budget{
		principalResolver: principalResolver{contextManager: contextManager},
		budgetService:     budgetService,
	}
}

func (h *Budget) ListBudgets(c *gin.Context) {
	userID := c.Param("userId")
	if _, ok := h.authorize(c, userID); !ok {
		return
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, newBudgetResponse(b))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "budgets": out})
}
