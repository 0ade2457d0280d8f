package actionstack

import (
	"context"
	"fmt"
)

// Fault selects how a TestAction misbehaves in one direction.
type Fault int

const (
	FaultNone Fault = iota
	// FaultFail reports an unsuccessful result without an error.
	FaultFail
	// FaultError returns an injected error.
	FaultError
)

// TestAction is an Action used for fault-injection testing. It keeps its own
// done/committed flags and counts calls so callers can assert what the stack
// did to it. Its effect is only the flag flip.
type TestAction struct {
	name       ActionName
	UndoFault  Fault
	RedoFault  Fault
	DataChange bool
	Redoable   bool

	done      bool
	committed bool
	undoCalls int
	redoCalls int
}

// NewSucceedingAction creates a TestAction that always succeeds. Like every
// action handed to a stack it starts out done.
func NewSucceedingAction(name ActionName) *TestAction {
	return &TestAction{
		name:       name,
		DataChange: true,
		Redoable:   true,
		done:       true,
	}
}

// NewFailingAction creates a TestAction whose Undo and Redo report an
// unsuccessful result.
func NewFailingAction(name ActionName) *TestAction {
	a := NewSucceedingAction(name)
	a.UndoFault = FaultFail
	a.RedoFault = FaultFail
	return a
}

// NewErroringAction creates a TestAction whose Undo and Redo return an
// injected error.
func NewErroringAction(name ActionName) *TestAction {
	a := NewSucceedingAction(name)
	a.UndoFault = FaultError
	a.RedoFault = FaultError
	return a
}

// NewSelectionAction creates a succeeding TestAction that is not a data change.
func NewSelectionAction(name ActionName) *TestAction {
	a := NewSucceedingAction(name)
	a.DataChange = false
	return a
}

func (a *TestAction) step(fault Fault, target bool) (bool, error) {
	if a.committed {
		panic(fmt.Sprintf("action %q driven after commit", a.name))
	}
	switch fault {
	case FaultFail:
		return false, nil
	case FaultError:
		return false, InjectedError()
	}
	a.done = target
	return true, nil
}

// Undo implements the Action interface for TestAction.
func (a *TestAction) Undo(_ context.Context) (bool, error) {
	a.undoCalls++
	return a.step(a.UndoFault, false)
}

// Redo implements the Action interface for TestAction.
func (a *TestAction) Redo(_ context.Context) (bool, error) {
	a.redoCalls++
	return a.step(a.RedoFault, true)
}

// Commit implements the Action interface for TestAction.
func (a *TestAction) Commit() {
	a.committed = true
}

// IsDataChange implements the Action interface for TestAction.
func (a *TestAction) IsDataChange() bool {
	return a.DataChange
}

// IsRedoable implements the Action interface for TestAction.
func (a *TestAction) IsRedoable() bool {
	return a.Redoable
}

// Name implements the Action interface for TestAction.
func (a *TestAction) Name() ActionName {
	return a.name
}

// IsDone reports whether the action's effect is currently applied.
func (a *TestAction) IsDone() bool {
	return a.done
}

// IsCommitted reports whether Commit has been called.
func (a *TestAction) IsCommitted() bool {
	return a.committed
}

// UndoCalls returns how many times Undo was called.
func (a *TestAction) UndoCalls() int {
	return a.undoCalls
}

// RedoCalls returns how many times Redo was called.
func (a *TestAction) RedoCalls() int {
	return a.redoCalls
}
