package model

import (
	"context"
	"io"
)

// Storage is an object store for uploaded files.
type Storage interface {
	// Upload stores reader under key. A negative size streams until EOF.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
