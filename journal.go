package actionstack

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// TaskEvent represents an entry in a Journal.
type TaskEvent struct {
	TaskID    TaskID        `json:"task_id"`
	Label     string        `json:"label"`
	EventType TaskEventType `json:"event"`
	Actions   int           `json:"actions"`
	At        time.Time     `json:"at"`
}

// String implements the fmt.Stringer interface for TaskEvent.
func (e *TaskEvent) String() string {
	return fmt.Sprintf("%s %-14s %q (%d actions)", e.TaskID.UUID.String()[:8], e.EventType, e.Label, e.Actions)
}

// TaskEventType defines the lifecycle events recorded for a task.
type TaskEventType int

const (
	EventClosed TaskEventType = iota
	EventUndoStarted
	EventUndoFinished
	EventUndoFailed
	EventRedoStarted
	EventRedoFinished
	EventRedoFailed
	// EventCollapsed means the task was merged into a new task.
	EventCollapsed
	// EventDiscarded means the task left tracking with its effects kept.
	EventDiscarded
	// EventDropped means the task was destroyed: redo history invalidated,
	// history trimmed, or stack cleared.
	EventDropped
	// EventRolledBack means an open task was reversed and never closed.
	EventRolledBack
)

// String returns the string representation of the TaskEventType.
func (t TaskEventType) String() string {
	switch t {
	case EventClosed:
		return "closed"
	case EventUndoStarted:
		return "undo_started"
	case EventUndoFinished:
		return "undo_finished"
	case EventUndoFailed:
		return "undo_failed"
	case EventRedoStarted:
		return "redo_started"
	case EventRedoFinished:
		return "redo_finished"
	case EventRedoFailed:
		return "redo_failed"
	case EventCollapsed:
		return "collapsed"
	case EventDiscarded:
		return "discarded"
	case EventDropped:
		return "dropped"
	case EventRolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("Unknown TaskEventType: %d", t)
	}
}

// MarshalJSON implements the json.Marshaler interface for TaskEventType.
func (t TaskEventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// TaskStatus is where a task currently sits according to a Journal.
type TaskStatus int

const (
	TaskNeverClosed TaskStatus = iota
	TaskDone
	TaskUndoing
	TaskUndone
	TaskUndoFailed
	TaskRedoing
	TaskRedoFailed
	TaskGone
)

// nextStatus returns the new status for a task after recording the given event.
func (s TaskStatus) nextStatus(eventType TaskEventType) (TaskStatus, error) {
	switch s {
	case TaskNeverClosed:
		switch eventType {
		case EventClosed:
			return TaskDone, nil
		case EventRolledBack:
			return TaskGone, nil
		}
	case TaskDone:
		switch eventType {
		case EventUndoStarted:
			return TaskUndoing, nil
		case EventCollapsed, EventDiscarded, EventDropped:
			return TaskGone, nil
		}
	case TaskUndoing:
		switch eventType {
		case EventUndoFinished:
			return TaskUndone, nil
		case EventUndoFailed:
			return TaskUndoFailed, nil
		}
	case TaskUndone, TaskUndoFailed, TaskRedoFailed:
		switch eventType {
		case EventRedoStarted:
			return TaskRedoing, nil
		case EventDropped:
			return TaskGone, nil
		}
	case TaskRedoing:
		switch eventType {
		case EventRedoFinished:
			return TaskDone, nil
		case EventRedoFailed:
			return TaskRedoFailed, nil
		}
	}

	return TaskNeverClosed, fmt.Errorf(
		"illegal event type %s for current task status %v",
		eventType, s,
	)
}

// String returns the string representation of the TaskStatus.
func (s TaskStatus) String() string {
	switch s {
	case TaskNeverClosed:
		return "NeverClosed"
	case TaskDone:
		return "Done"
	case TaskUndoing:
		return "Undoing"
	case TaskUndone:
		return "Undone"
	case TaskUndoFailed:
		return "UndoFailed"
	case TaskRedoing:
		return "Redoing"
	case TaskRedoFailed:
		return "RedoFailed"
	case TaskGone:
		return "Gone"
	default:
		return fmt.Sprintf("Unknown TaskStatus: %d", s)
	}
}

// MarshalJSON implements the json.Marshaler interface for TaskStatus.
func (s TaskStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for TaskStatus.
func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	switch str {
	case "NeverClosed":
		*s = TaskNeverClosed
	case "Done":
		*s = TaskDone
	case "Undoing":
		*s = TaskUndoing
	case "Undone":
		*s = TaskUndone
	case "UndoFailed":
		*s = TaskUndoFailed
	case "Redoing":
		*s = TaskRedoing
	case "RedoFailed":
		*s = TaskRedoFailed
	case "Gone":
		*s = TaskGone
	default:
		return fmt.Errorf("invalid TaskStatus: %s", str)
	}

	return nil
}

// Journal records the lifecycle of every task that passes through a Stack
// and checks each transition against the task's current status. It is a
// diagnostic record only; nothing is replayed from it.
type Journal struct {
	sync.Mutex
	events []*TaskEvent
	status map[TaskID]TaskStatus
}

// NewJournal creates a new, empty Journal.
func NewJournal() *Journal {
	return &Journal{
		events: make([]*TaskEvent, 0),
		status: make(map[TaskID]TaskStatus),
	}
}

// Record adds an event to the Journal.
func (j *Journal) Record(event *TaskEvent) error {
	j.Lock()
	defer j.Unlock()

	next, err := j.statusLocked(event.TaskID).nextStatus(event.EventType)
	if err != nil {
		return fmt.Errorf("task %s: %w", event.TaskID, err)
	}

	j.status[event.TaskID] = next
	j.events = append(j.events, event)
	return nil
}

// Status returns the current status of a task.
func (j *Journal) Status(id TaskID) TaskStatus {
	j.Lock()
	defer j.Unlock()
	return j.statusLocked(id)
}

func (j *Journal) statusLocked(id TaskID) TaskStatus {
	status, exists := j.status[id]
	if !exists {
		return TaskNeverClosed
	}
	return status
}

// Events returns a copy of the events in the Journal.
func (j *Journal) Events() []*TaskEvent {
	j.Lock()
	defer j.Unlock()

	return append([]*TaskEvent(nil), j.events...)
}

// Len returns the number of recorded events.
func (j *Journal) Len() int {
	j.Lock()
	defer j.Unlock()
	return len(j.events)
}

// MarshalJSON implements the json.Marshaler interface for Journal.
func (j *Journal) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Events())
}

// JournalPretty is a helper for pretty-printing a Journal.
type JournalPretty struct {
	Journal *Journal
}

// String implements the fmt.Stringer interface for JournalPretty.
func (p *JournalPretty) String() string {
	events := p.Journal.Events()

	var sb strings.Builder
	sb.WriteString("TASK JOURNAL:\n")
	sb.WriteString(fmt.Sprintf("events (%d total):\n", len(events)))
	sb.WriteString("\n")
	for i, event := range events {
		sb.WriteString(fmt.Sprintf("%03d %s\n", i+1, event.String()))
	}
	return sb.String()
}
