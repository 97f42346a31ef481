package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dtroode/amcbunq-server/internal/model"
)

var _ model.BudgetStore = (*BudgetRepository)(nil)

type BudgetRepository struct {
	db *Connection
}

func NewBudgetRepository(db *Connection) *BudgetRepository {
	return &BudgetRepository{db: db}
}

type budgetDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	Category  string    `bson:"category"`
	Limit     int64     `bson:"limit"`
	Spent     int64     `bson:"spent"`
	Currency  string    `bson:"currency"`
	Period    string    `bson:"period"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (r *BudgetRepository) GetByUserID(ctx context.Context, userID string) ([]model.Budget, error) {
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}})
	cursor, err := r.db.collection(budgetsCollection).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, storeError("get budgets by user id", err)
	}

	var docs []budgetDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeError("decode budgets", err)
	}

	budgets := make([]model.Budget, 0, len(docs))
	for _, d := range docs {
		budgets = append(budgets, model.Budget{
			ID:        d.ID,
			UserID:    d.UserID,
			Category:  d.Category,
			Limit:     d.Limit,
			Spent:     d.Spent,
			Currency:  d.Currency,
			Period:    model.BudgetPeriod(d.Period),
			CreatedAt: d.CreatedAt,
		})
	}
	return budgets, nil
}
