package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/dtroode/amcbunq-server/internal/model"
)

const (
	usersCollection             = "users"
	documentsCollection         = "documents"
	budgetsCollection           = "budgets"
	ticketsCollection           = "supportTickets"
	verificationCodesCollection = "emailVerificationCodes"
)

type Connection struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewConnection connects to the document store, checks it is reachable and makes
// sure secondary lookup indexes exist.
func NewConnection(ctx context.Context, uri, database string) (*Connection, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	c := &Connection{
		client: client,
		db:     client.Database(database),
	}

	if err := c.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return c, nil
}

func (c *Connection) ensureIndexes(ctx context.Context) error {
	// email stays non-unique: legacy data holds duplicates that lookups must detect
	indexes := map[string]string{
		usersCollection:     "email",
		documentsCollection: "userId",
		budgetsCollection:   "userId",
		ticketsCollection:   "userId",
	}
	for coll, field := range indexes {
		_, err := c.db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}},
		})
		if err != nil {
			return fmt.Errorf("failed to create %s.%s index: %w", coll, field, err)
		}
	}
	return nil
}

func (c *Connection) Close(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}

func (c *Connection) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("mongo client is nil")
	}
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Connection) collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// storeError marks a driver failure as a store outage.
func storeError(action string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", action, model.ErrStoreUnavailable, err)
}
