package actionstack

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskID is a unique identifier for a closed Task.
type TaskID struct {
	UUID uuid.UUID
}

// String returns the string representation of the TaskID.
func (id TaskID) String() string {
	return id.UUID.String()
}

// MarshalText implements the encoding.TextMarshaler interface for TaskID.
func (id TaskID) MarshalText() ([]byte, error) {
	return id.UUID.MarshalText()
}

// UnmarshalText implements the encoding.TextUnmarshaler interface for TaskID.
func (id *TaskID) UnmarshalText(data []byte) error {
	return id.UUID.UnmarshalText(data)
}

func newTaskID() TaskID {
	return TaskID{UUID: uuid.New()}
}

// entry is an action plus the stack's view of whether its effect is applied.
type entry struct {
	action Action
	done   bool
}

// Task is one user-perceived undoable step: an ordered list of actions with
// undo/redo display labels.
type Task struct {
	id        TaskID
	entries   []entry
	undoLabel string
	redoLabel string

	// position is the index in the done list at which the task was pushed.
	// It is kept while the task sits on the undone list.
	position int
	closedAt time.Time
}

func newTask(undoLabel, redoLabel string) *Task {
	return &Task{
		id:        newTaskID(),
		undoLabel: undoLabel,
		redoLabel: redoLabel,
	}
}

// ID returns the task's identifier.
func (t *Task) ID() TaskID {
	return t.id
}

// UndoLabel returns the label shown for undoing the task.
func (t *Task) UndoLabel() string {
	return t.undoLabel
}

// RedoLabel returns the label shown for redoing the task.
func (t *Task) RedoLabel() string {
	return t.redoLabel
}

// Len returns the number of actions in the task.
func (t *Task) Len() int {
	return len(t.entries)
}

// Actions returns the task's actions in insertion order.
func (t *Task) Actions() []Action {
	actions := make([]Action, len(t.entries))
	for i, e := range t.entries {
		actions[i] = e.action
	}
	return actions
}

func (t *Task) add(a Action) {
	t.entries = append(t.entries, entry{action: a, done: true})
}

// redoable reports whether every action can be reapplied.
func (t *Task) redoable() bool {
	for _, e := range t.entries {
		if !e.action.IsRedoable() {
			return false
		}
	}
	return true
}

// hasDataChange reports whether any action from index from onwards is a data
// change.
func (t *Task) hasDataChange(from int) bool {
	for _, e := range t.entries[from:] {
		if e.action.IsDataChange() {
			return true
		}
	}
	return false
}

// commitApplied commits every action whose effect is still applied. Used
// when a task leaves tracking while its state is kept.
func (t *Task) commitApplied() {
	for _, e := range t.entries {
		if e.done {
			e.action.Commit()
		}
	}
}

// String implements the fmt.Stringer interface for Task.
func (t *Task) String() string {
	return fmt.Sprintf("Task[%q, %d actions]", t.undoLabel, len(t.entries))
}

// TaskInfo provides read-only info about a task for display.
type TaskInfo struct {
	ID        TaskID
	UndoLabel string
	RedoLabel string
	Actions   int
	ClosedAt  time.Time
}

func (t *Task) info() TaskInfo {
	return TaskInfo{
		ID:        t.id,
		UndoLabel: t.undoLabel,
		RedoLabel: t.redoLabel,
		Actions:   len(t.entries),
		ClosedAt:  t.closedAt,
	}
}
