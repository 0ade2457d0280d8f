package actionstack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore provides a file-based implementation of Store that keeps each
// key as a JSON file on disk.
type FileStore[V any] struct {
	basePath string
	mu       sync.Mutex // Protects file operations
}

// NewFileStore creates a new file-based store rooted at basePath.
func NewFileStore[V any](basePath string) (*FileStore[V], error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FileStore[V]{
		basePath: basePath,
	}, nil
}

// Save writes the value to a JSON file.
func (f *FileStore[V]) Save(_ context.Context, key string, value V) error {
	filename, err := f.filename(key)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal value for %q: %w", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Write a temporary file and rename it into place.
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	if err := os.Rename(tmp, filename); err != nil {
		return fmt.Errorf("failed to replace %q: %w", key, err)
	}
	return nil
}

// Load reads the value from its JSON file.
func (f *FileStore[V]) Load(_ context.Context, key string) (V, error) {
	var value V
	filename, err := f.filename(key)
	if err != nil {
		return value, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return value, fmt.Errorf("key %q: %w", key, ErrNotFound)
		}
		return value, fmt.Errorf("failed to read %q: %w", key, err)
	}

	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("failed to unmarshal %q: %w", key, err)
	}
	return value, nil
}

// Delete removes the value's file.
func (f *FileStore[V]) Delete(_ context.Context, key string) error {
	filename, err := f.filename(key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(filename); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// filename returns the full path for a key's file.
func (f *FileStore[V]) filename(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid store key %q", key)
	}
	return filepath.Join(f.basePath, key+".json"), nil
}
