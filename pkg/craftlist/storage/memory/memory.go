package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/craftlist/craft-list/pkg/craftlist"
)

// Backend is an in-memory implementation of the craftlist.BlobStore
// interface. Useful for tests and for running without any disk state.
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory storage backend
func New() craftlist.BlobStore {
	return &Backend{
		objects: make(map[string][]byte),
	}
}

// Upload stores the bytes under the given key
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[key] = data
	return nil
}

// Download returns a reader over the stored bytes
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[key]
	if !exists {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the stored object
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[key]; !exists {
		return errors.New("object not found")
	}
	delete(b.objects, key)
	return nil
}

// URL returns a synthetic URL for the key. The memory backend has no
// external address space, so the scheme is only a marker.
func (b *Backend) URL(key string) string {
	return "memory://" + key
}
