package actionstack

import (
	"errors"
	"fmt"
)

// ResultStatus tags the outcome of an Undo or Redo.
type ResultStatus int

const (
	StatusSuccess ResultStatus = iota
	StatusNothingToDo
	StatusFailure
)

// String returns the string representation of the ResultStatus.
func (s ResultStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNothingToDo:
		return "nothing_to_do"
	case StatusFailure:
		return "failure"
	default:
		return fmt.Sprintf("Unknown ResultStatus: %d", s)
	}
}

// UndoResult represents the result of an Undo or Redo on a Stack.
//
// Err is nil unless Status is StatusFailure. It is an *ActionError when an
// action could not reverse or reapply itself, and a *UsageError when the call
// itself was not allowed.
type UndoResult struct {
	Status ResultStatus
	Err    error
}

func success() UndoResult {
	return UndoResult{Status: StatusSuccess}
}

func nothingToDo() UndoResult {
	return UndoResult{Status: StatusNothingToDo}
}

func failure(err error) UndoResult {
	return UndoResult{Status: StatusFailure, Err: err}
}

// Succeeded reports whether every action completed.
func (r UndoResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// NothingToDo reports whether there was nothing to undo or redo.
func (r UndoResult) NothingToDo() bool {
	return r.Status == StatusNothingToDo
}

// Failed reports whether the operation failed.
func (r UndoResult) Failed() bool {
	return r.Status == StatusFailure
}

// Reason returns the failure reason, or nil.
func (r UndoResult) Reason() error {
	return r.Err
}

// ActionError returns the action failure behind the result, if any.
func (r UndoResult) ActionError() (*ActionError, bool) {
	var ae *ActionError
	if errors.As(r.Err, &ae) {
		return ae, true
	}
	return nil, false
}

// String implements the fmt.Stringer interface for UndoResult.
func (r UndoResult) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Status, r.Err)
	}
	return r.Status.String()
}
