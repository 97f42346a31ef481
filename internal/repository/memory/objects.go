package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dtroode/amcbunq-server/internal/model"
)

var _ model.Storage = (*ObjectStore)(nil)

// ObjectStore keeps uploaded files in memory. Content types are not kept.
type ObjectStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewObjectStore() *ObjectStore {
	return &ObjectStore{objects: make(map[string][]byte)}
}

func (o *ObjectStore) Upload(_ context.Context, key string, reader io.Reader, size int64, _ string) error {
	if size >= 0 {
		reader = io.LimitReader(reader, size)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read object: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("%w: object %s is %d bytes, expected %d", model.ErrInvalidArgument, key, len(data), size)
	}

	o.mu.Lock()
	o.objects[key] = data
	o.mu.Unlock()
	return nil
}

func (o *ObjectStore) Download(_ context.Context, key string) (io.ReadCloser, error) {
	o.mu.RLock()
	data, ok := o.objects[key]
	o.mu.RUnlock()
	if !ok {
		return nil, model.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete is a no-op for unknown keys, like RemoveObject.
func (o *ObjectStore) Delete(_ context.Context, key string) error {
	o.mu.Lock()
	delete(o.objects, key)
	o.mu.Unlock()
	return nil
}
