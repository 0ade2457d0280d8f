package actionstack

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollbackNothingAdded(t *testing.T) {
	ctx := context.Background()
	s := NewStack()
	depth, err := s.BeginTask("U", "R")
	require.NoError(t, err)

	rolledBack, err := s.Rollback(ctx, depth)
	require.NoError(t, err)
	assert.False(t, rolledBack)
	assert.Equal(t, 1, s.CurrentDepth())

	require.NoError(t, s.EndTask())
	assert.Equal(t, 0, s.UndoableSequenceCount())
}

func TestRollbackOnlyViewChanges(t *testing.T) {
	ctx := context.Background()
	s := NewStack()
	depth, err := s.BeginTask("U", "R")
	require.NoError(t, err)
	sel := NewSelectionAction("select")
	require.NoError(t, s.AddAction(sel))

	rolledBack, err := s.Rollback(ctx, depth)
	require.NoError(t, err)
	assert.False(t, rolledBack)
	assert.True(t, sel.IsDone())
	assert.Equal(t, 0, sel.UndoCalls())

	require.NoError(t, s.EndTask())
	assert.Equal(t, 1, s.UndoableSequenceCount())
}

func TestRollbackDataChange(t *testing.T) {
	ctx := context.Background()
	s := NewStack()
	closeTask(t, s, "Closed", "Closed", NewSucceedingAction("closed"))

	depth, err := s.BeginTask("U", "R")
	require.NoError(t, err)
	sel := NewSelectionAction("select")
	edit := NewSucceedingAction("edit")
	require.NoError(t, s.AddAction(sel))
	require.NoError(t, s.AddAction(edit))

	rolledBack, err := s.Rollback(ctx, depth)
	require.NoError(t, err)
	assert.True(t, rolledBack)

	assert.False(t, edit.IsDone())
	assert.False(t, sel.IsDone())
	assert.Equal(t, 0, s.CurrentDepth())

	// The open task vanished and closed history is untouched.
	assert.Equal(t, 1, s.UndoableSequenceCount())
	assert.Equal(t, "Closed", s.UndoText())
	assert.ErrorIs(t, s.EndTask(), ErrUnbalancedEnd)
}

func TestRollbackNestedLevel(t *testing.T) {
	ctx := context.Background()
	s := NewStack()

	_, err := s.BeginTask("Outer", "Outer")
	require.NoError(t, err)
	outerAction := NewSucceedingAction("outer")
	require.NoError(t, s.AddAction(outerAction))

	inner, err := s.BeginTask("Inner", "Inner")
	require.NoError(t, err)
	require.Equal(t, 2, inner)
	innerAction := NewSucceedingAction("inner")
	require.NoError(t, s.AddAction(innerAction))

	rolledBack, err := s.Rollback(ctx, inner)
	require.NoError(t, err)
	require.True(t, rolledBack)

	assert.False(t, innerAction.IsDone())
	assert.True(t, outerAction.IsDone())
	assert.Equal(t, 1, s.CurrentDepth())

	require.NoError(t, s.EndTask())
	assert.Equal(t, 1, s.UndoableSequenceCount())
	assert.Equal(t, 1, s.UndoableActionCount())
}

func TestRollbackOuterFromNested(t *testing.T) {
	ctx := context.Background()
	s := NewStack()

	outer, err := s.BeginTask("Outer", "Outer")
	require.NoError(t, err)
	actions := succeeding("a", "b")
	require.NoError(t, s.AddAction(actions[0]))
	_, err = s.BeginTask("Inner", "Inner")
	require.NoError(t, err)
	require.NoError(t, s.AddAction(actions[1]))

	rolledBack, err := s.Rollback(ctx, outer)
	require.NoError(t, err)
	require.True(t, rolledBack)

	for _, a := range actions {
		assert.False(t, a.IsDone())
	}
	assert.Equal(t, 0, s.CurrentDepth())
	assert.Equal(t, 0, s.UndoableSequenceCount())
}

func TestRollbackInvalidUsage(t *testing.T) {
	ctx := context.Background()
	s := NewStack()

	_, err := s.Rollback(ctx, 1)
	assert.ErrorIs(t, err, ErrNoOpenTask)

	_, err = s.BeginTask("U", "R")
	require.NoError(t, err)

	_, err = s.Rollback(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidDepth)
	_, err = s.Rollback(ctx, 2)
	assert.ErrorIs(t, err, ErrInvalidDepth)
	assert.True(t, IsUsageError(err))
}

func TestRollbackFailureCommitsRemaining(t *testing.T) {
	ctx := context.Background()
	s := NewStack()

	depth, err := s.BeginTask("U", "R")
	require.NoError(t, err)
	first := NewSucceedingAction("first")
	stuck := NewErroringAction("stuck")
	last := NewSucceedingAction("last")
	require.NoError(t, s.AddAction(first))
	require.NoError(t, s.AddAction(stuck))
	require.NoError(t, s.AddAction(last))

	rolledBack, err := s.Rollback(ctx, depth)
	assert.True(t, rolledBack)
	require.Error(t, err)
	assert.True(t, IsActionError(err))

	assert.False(t, last.IsDone())
	assert.False(t, last.IsCommitted())
	assert.True(t, stuck.IsCommitted())
	assert.True(t, first.IsCommitted())
	assert.Equal(t, 0, first.UndoCalls())

	assert.Equal(t, 0, s.CurrentDepth())
	assert.Equal(t, 0, s.UndoableSequenceCount())
}

func TestScopeEnd(t *testing.T) {
	s := NewStack()

	scope, err := s.Scope("Paste", "Paste")
	require.NoError(t, err)
	assert.Equal(t, 1, scope.Depth())
	require.NoError(t, s.AddAction(NewSucceedingAction("paste")))

	require.NoError(t, scope.End())
	require.NoError(t, scope.End())
	assert.Equal(t, 1, s.UndoableSequenceCount())
	assert.Equal(t, 0, s.CurrentDepth())
}

func TestScopeRollbackWithoutDataChangeCloses(t *testing.T) {
	ctx := context.Background()
	s := NewStack()

	scope, err := s.Scope("Select", "Select")
	require.NoError(t, err)
	require.NoError(t, s.AddAction(NewSelectionAction("select")))

	require.NoError(t, scope.Rollback(ctx))
	require.NoError(t, scope.End())
	assert.Equal(t, 0, s.CurrentDepth())
	assert.Equal(t, 1, s.UndoableSequenceCount())
}

func TestDoCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := NewStack()

	err := s.Do(ctx, "Undo Typing", "Redo Typing", func() error {
		return s.AddAction(NewSucceedingAction("type"))
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.UndoableSequenceCount())
	assert.Equal(t, "Undo Typing", s.UndoText())
}

func TestDoRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	s := NewStack()
	applied := NewSucceedingAction("applied")
	errStep := errors.New("step two failed")

	err := s.Do(ctx, "Undo Import", "Redo Import", func() error {
		if err := s.AddAction(applied); err != nil {
			return err
		}
		return errStep
	})
	assert.ErrorIs(t, err, errStep)
	assert.False(t, applied.IsDone())
	assert.Equal(t, 0, s.CurrentDepth())
	assert.Equal(t, 0, s.UndoableSequenceCount())
}

func TestDoJoinsRollbackFailure(t *testing.T) {
	ctx := context.Background()
	s := NewStack()
	errStep := errors.New("step failed")

	err := s.Do(ctx, "U", "R", func() error {
		if err := s.AddAction(NewFailingAction("stuck")); err != nil {
			return err
		}
		return errStep
	})
	assert.ErrorIs(t, err, errStep)
	assert.True(t, IsActionError(err))
	assert.Equal(t, 0, s.CurrentDepth())
}
