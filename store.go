package actionstack

import (
	"context"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
)

// Store defines the interface for the keyed state a ReplayAction writes to.
// It is generic over V, the stored value type, so replaying never needs
// reflection.
type Store[V any] interface {
	// Save persists value under key
	Save(ctx context.Context, key string, value V) error

	// Load retrieves the value stored under key, or an error wrapping
	// ErrNotFound
	Load(ctx context.Context, key string) (V, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// MemoryStore provides an in-memory implementation of Store for testing
// or documents that are never written to disk.
type MemoryStore[V any] struct {
	values *xsync.MapOf[string, V]
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore[V any]() *MemoryStore[V] {
	return &MemoryStore[V]{
		values: xsync.NewMapOf[string, V](),
	}
}

// Save stores the value in memory.
func (m *MemoryStore[V]) Save(_ context.Context, key string, value V) error {
	m.values.Store(key, value)
	return nil
}

// Load retrieves the value from memory.
func (m *MemoryStore[V]) Load(_ context.Context, key string) (V, error) {
	value, ok := m.values.Load(key)
	if !ok {
		var zero V
		return zero, fmt.Errorf("key %q: %w", key, ErrNotFound)
	}
	return value, nil
}

// Delete removes the value from memory.
func (m *MemoryStore[V]) Delete(_ context.Context, key string) error {
	m.values.Delete(key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStore[V]) Len() int {
	return m.values.Size()
}
