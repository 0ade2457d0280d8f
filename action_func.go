package actionstack

import (
	"context"
	"fmt"
)

// StepFunc reverses or reapplies an action's effect.
type StepFunc func(ctx context.Context) error

// ActionFunc is an implementation of Action that uses ordinary functions.
type ActionFunc struct {
	name       ActionName
	undoFunc   StepFunc
	redoFunc   StepFunc
	commitFunc func()
	dataChange bool
	redoable   bool
}

// ActionFuncOption configures an ActionFunc.
type ActionFuncOption func(*ActionFunc)

// WithCommit sets a function run once when the action is committed.
func WithCommit(fn func()) ActionFuncOption {
	return func(af *ActionFunc) {
		af.commitFunc = fn
	}
}

// NotDataChange marks the action as presentation-only.
func NotDataChange() ActionFuncOption {
	return func(af *ActionFunc) {
		af.dataChange = false
	}
}

// NotRedoable marks the action as one that cannot be reapplied after undo.
func NotRedoable() ActionFuncOption {
	return func(af *ActionFunc) {
		af.redoable = false
	}
}

// NewActionFunc constructs a new ActionFunc from a pair of functions.
// A nil redo function makes the action non-redoable.
func NewActionFunc(name ActionName, undoFunc, redoFunc StepFunc, opts ...ActionFuncOption) *ActionFunc {
	af := &ActionFunc{
		name:       name,
		undoFunc:   undoFunc,
		redoFunc:   redoFunc,
		dataChange: true,
		redoable:   redoFunc != nil,
	}
	for _, opt := range opts {
		opt(af)
	}
	return af
}

// NewViewAction constructs an ActionFunc for a UI-only change that does not
// represent a data change. Rollback ignores such actions.
func NewViewAction(name ActionName, undoFunc, redoFunc StepFunc) *ActionFunc {
	return NewActionFunc(name, undoFunc, redoFunc, NotDataChange())
}

func NoOpStep(_ context.Context) error {
	return nil
}

// Undo implements the Action interface for ActionFunc.
func (af *ActionFunc) Undo(ctx context.Context) (bool, error) {
	if af.undoFunc == nil {
		return true, nil
	}
	if err := af.undoFunc(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Redo implements the Action interface for ActionFunc.
func (af *ActionFunc) Redo(ctx context.Context) (bool, error) {
	if af.redoFunc == nil {
		return false, nil
	}
	if err := af.redoFunc(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Commit implements the Action interface for ActionFunc.
func (af *ActionFunc) Commit() {
	if af.commitFunc != nil {
		af.commitFunc()
		af.commitFunc = nil
	}
}

// IsDataChange implements the Action interface for ActionFunc.
func (af *ActionFunc) IsDataChange() bool {
	return af.dataChange
}

// IsRedoable implements the Action interface for ActionFunc.
func (af *ActionFunc) IsRedoable() bool {
	return af.redoable
}

// Name implements the Action interface for ActionFunc.
func (af *ActionFunc) Name() ActionName {
	return af.name
}

// String implements the fmt.Stringer interface for ActionFunc.
func (af *ActionFunc) String() string {
	return fmt.Sprintf("ActionFunc[%s]", af.name)
}
