package actionstack

import (
	"context"
	"errors"
	"fmt"
)

// slot is a value that may be absent from a store.
type slot[V any] struct {
	value   V
	present bool
}

func (s slot[V]) apply(ctx context.Context, store Store[V], key string) error {
	if s.present {
		return store.Save(ctx, key, s.value)
	}
	return store.Delete(ctx, key)
}

// ReplayAction is an Action that reverses and reapplies a single write to a
// Store by replaying the value stored before or after it.
type ReplayAction[V any] struct {
	name   ActionName
	store  Store[V]
	key    string
	before slot[V]
	after  slot[V]
}

// RecordWrite stores value under key and returns the action that replays
// the write. The previous value, or its absence, is captured first.
func RecordWrite[V any](ctx context.Context, store Store[V], key string, value V) (*ReplayAction[V], error) {
	return recordReplay(ctx, store, key, slot[V]{value: value, present: true})
}

// RecordDelete removes key and returns the action that replays the removal.
func RecordDelete[V any](ctx context.Context, store Store[V], key string) (*ReplayAction[V], error) {
	return recordReplay(ctx, store, key, slot[V]{})
}

func recordReplay[V any](ctx context.Context, store Store[V], key string, after slot[V]) (*ReplayAction[V], error) {
	var before slot[V]
	value, err := store.Load(ctx, key)
	switch {
	case err == nil:
		before = slot[V]{value: value, present: true}
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("capture %q: %w", key, err)
	}

	if err := after.apply(ctx, store, key); err != nil {
		return nil, fmt.Errorf("apply %q: %w", key, err)
	}

	verb := "write"
	if !after.present {
		verb = "delete"
	}
	return &ReplayAction[V]{
		name:   ActionName(verb + " " + key),
		store:  store,
		key:    key,
		before: before,
		after:  after,
	}, nil
}

// Undo implements the Action interface for ReplayAction.
func (a *ReplayAction[V]) Undo(ctx context.Context) (bool, error) {
	if err := a.before.apply(ctx, a.store, a.key); err != nil {
		return false, err
	}
	return true, nil
}

// Redo implements the Action interface for ReplayAction.
func (a *ReplayAction[V]) Redo(ctx context.Context) (bool, error) {
	if err := a.after.apply(ctx, a.store, a.key); err != nil {
		return false, err
	}
	return true, nil
}

// Commit implements the Action interface for ReplayAction. The stored value
// is already in place, so there is nothing more to do.
func (a *ReplayAction[V]) Commit() {}

// IsDataChange implements the Action interface for ReplayAction.
func (a *ReplayAction[V]) IsDataChange() bool {
	return true
}

// IsRedoable implements the Action interface for ReplayAction.
func (a *ReplayAction[V]) IsRedoable() bool {
	return true
}

// Name implements the Action interface for ReplayAction.
func (a *ReplayAction[V]) Name() ActionName {
	return a.name
}

// Key returns the store key the action replays.
func (a *ReplayAction[V]) Key() string {
	return a.key
}
