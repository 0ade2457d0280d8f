package actionstack

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryOpenGetClose(t *testing.T) {
	r := NewRegistry(WithMaxTasks(1))

	id, s := r.Open()
	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Len())

	a := NewSucceedingAction("a")
	closeTask(t, s, "U1", "R1", a)
	closeTask(t, s, "U2", "R2", NewSucceedingAction("b"))
	assert.Equal(t, 1, s.UndoableSequenceCount(), "registry options apply to its stacks")
	assert.True(t, a.IsCommitted())

	require.NoError(t, r.Close(id))
	assert.Equal(t, 0, r.Len())
	_, err = r.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.Close(id), ErrNotFound)
}

func TestRegistryStacksAreIndependent(t *testing.T) {
	r := NewRegistry()
	_, first := r.Open()
	_, second := r.Open(WithMaxTasks(0))

	closeTask(t, first, "U", "R", NewSucceedingAction("a"))
	assert.Equal(t, 1, first.UndoableSequenceCount())
	assert.Equal(t, 0, second.UndoableSequenceCount())
}

func TestRegistryCloseWithOpenTaskFails(t *testing.T) {
	r := NewRegistry()
	id, s := r.Open()
	_, err := s.BeginTask("U", "R")
	require.NoError(t, err)

	err = r.Close(id)
	assert.ErrorIs(t, err, ErrTaskOpen)

	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestRegistryConcurrentOpen(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	ids := make([]DocumentID, 50)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], _ = r.Open()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, len(ids), r.Len())
	for _, id := range ids {
		_, err := r.Get(id)
		assert.NoError(t, err)
	}
}
