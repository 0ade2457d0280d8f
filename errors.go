package actionstack

import (
	"errors"
	"fmt"
)

// Structural misuse of a Stack. These are programmer errors and are always
// returned wrapped in a *UsageError.
var (
	ErrNoOpenTask    = errors.New("no open task")
	ErrUnbalancedEnd = errors.New("end task without matching begin")
	ErrTaskOpen      = errors.New("a task is still open")
	ErrUnknownMark   = errors.New("unknown mark")
	ErrMarkConsumed  = errors.New("mark already consumed")
	ErrInvalidDepth  = errors.New("invalid nesting depth")
	ErrNilAction     = errors.New("nil action")
	ErrReentrant     = errors.New("reentrant call from inside an action")
)

// ErrNotFound is returned by stores and registries for a missing key.
var ErrNotFound = errors.New("not found")

// FailureKind tells apart the two ways an action can fail.
type FailureKind int

const (
	// FailureUnsuccessful means the action reported an unsuccessful result.
	FailureUnsuccessful FailureKind = iota
	// FailureErrored means the action returned a propagated error.
	FailureErrored
)

// String returns the string representation of the FailureKind.
func (k FailureKind) String() string {
	switch k {
	case FailureUnsuccessful:
		return "unsuccessful"
	case FailureErrored:
		return "errored"
	default:
		return fmt.Sprintf("Unknown FailureKind: %d", k)
	}
}

// Direction is the way an action was being driven when it failed.
type Direction int

const (
	DirectionUndo Direction = iota
	DirectionRedo
)

// String returns the string representation of the Direction.
func (d Direction) String() string {
	switch d {
	case DirectionUndo:
		return "undo"
	case DirectionRedo:
		return "redo"
	default:
		return fmt.Sprintf("Unknown Direction: %d", d)
	}
}

// ActionError represents a failure produced by an action's Undo or Redo.
type ActionError struct {
	error
	Kind      FailureKind
	Direction Direction
	Action    ActionName
	// Index is the position of the action inside its task.
	Index int
}

// Unwrap returns the inner error.
func (e *ActionError) Unwrap() error {
	return e.error
}

// ActionFailed builds the ActionError for an action that reported an
// unsuccessful result without an error of its own.
func ActionFailed(dir Direction, name ActionName, index int) error {
	return &ActionError{
		error:     fmt.Errorf("%s of action %q (#%d) was unsuccessful", dir, name, index),
		Kind:      FailureUnsuccessful,
		Direction: dir,
		Action:    name,
		Index:     index,
	}
}

// ActionErrored wraps an error returned by an action in an ActionError.
func ActionErrored(dir Direction, name ActionName, index int, err error) error {
	return &ActionError{
		error:     fmt.Errorf("%s of action %q (#%d) failed: %w", dir, name, index, err),
		Kind:      FailureErrored,
		Direction: dir,
		Action:    name,
		Index:     index,
	}
}

// InjectedError indicates an error was injected (for testing).
func InjectedError() error {
	return errors.New("error injected")
}

// UsageError represents structural misuse of the stack.
type UsageError struct {
	error
	Op string
}

// Unwrap returns the inner error.
func (e *UsageError) Unwrap() error {
	return e.error
}

// InvalidUsage wraps a misuse sentinel with the operation that hit it.
func InvalidUsage(op string, err error) error {
	return &UsageError{error: fmt.Errorf("%s: %w", op, err), Op: op}
}

// IsUsageError reports whether err is, or wraps, a *UsageError.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// IsActionError reports whether err is, or wraps, an *ActionError.
func IsActionError(err error) bool {
	var ae *ActionError
	return errors.As(err, &ae)
}
