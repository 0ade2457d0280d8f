package actionstack

import (
	"context"
)

// ActionName is a human-readable name for an Action, used in errors and logs.
type ActionName string

// Action is a reversible unit of work supplied by the editing layer.
//
// An action is handed to a Stack after its effect has already been applied.
// The stack never inspects what an action does; it only drives it backwards
// and forwards.
//
// Undo and Redo return (true, nil) on success. (false, nil) reports an
// explicit unsuccessful result and a non-nil error reports a deeper failure;
// the stack turns either into an *ActionError. Once Commit has been called the
// action is immutable history and is never undone or redone again.
type Action interface {
	Undo(ctx context.Context) (bool, error)
	Redo(ctx context.Context) (bool, error)
	Commit()

	// IsDataChange is false for actions that only touch presentation state,
	// such as selection or scroll position.
	IsDataChange() bool
	// IsRedoable is false for actions that can be reversed but not reapplied.
	IsRedoable() bool

	Name() ActionName
}
