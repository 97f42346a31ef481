// Package bootstrap opens the backing stores shared by the server and the admin CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/amcbunq-server/internal/config"
	"github.com/dtroode/amcbunq-server/internal/model"
	"github.com/dtroode/amcbunq-server/internal/repository/memory"
	"github.com/dtroode/amcbunq-server/internal/repository/mongodb"
	storage "github.com/dtroode/amcbunq-server/internal/storage/minio"
)

// MemoryURI selects the process-local store instead of MongoDB.
const MemoryURI = "memory"

// Stores bundles the persistence dependencies of the services.
type Stores struct {
	Users             model.UserStore
	Documents         model.DocumentStore
	Budgets           model.BudgetStore
	Tickets           model.TicketStore
	VerificationCodes model.VerificationCodeStore
	Health            Pinger
	Close             func(ctx context.Context) error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpenStores connects to MongoDB, or builds empty in-memory stores when the
// URI is MemoryURI.
func OpenStores(ctx context.Context, cfg config.Mongo) (*Stores, error) {
	if cfg.URI == MemoryURI {
		s := memory.NewStore()
		return &Stores{
			Users:             s.Users(),
			Documents:         s.Documents(),
			Budgets:           s.Budgets(),
			Tickets:           s.Tickets(),
			VerificationCodes: s.VerificationCodes(),
			Health:            s,
			Close:             func(context.Context) error { return nil },
		}, nil
	}

	db, err := mongodb.NewConnection(ctx, cfg.URI, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}
	return &Stores{
		Users:             mongodb.NewUserRepository(db),
		Documents:         mongodb.NewDocumentRepository(db),
		Budgets:           mongodb.NewBudgetRepository(db),
		Tickets:           mongodb.NewTicketRepository(db),
		VerificationCodes: mongodb.NewVerificationCodeRepository(db),
		Health:            db,
		Close:             db.Close,
	}, nil
}

// OpenObjectStorage connects to MinIO, or keeps objects in memory when
// inMemory is set or no endpoint is configured.
func OpenObjectStorage(ctx context.Context, cfg config.Storage, inMemory bool) (model.Storage, error) {
	if inMemory || cfg.Endpoint == "" {
		return memory.NewObjectStore(), nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	objects, err := storage.NewClient(ctx, client, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	return objects, nil
}
