package actionstack

import (
	"context"
	"log/slog"
	"time"

	"github.com/tidwall/btree"
)

// Stack is a transactional undo/redo engine. It records closed tasks on a
// done list, moves them to an undone list on Undo, and back on Redo.
//
// A Stack is owned by one document or session and is not safe for
// concurrent use. Calls that mutate the stack from inside an action's Undo,
// Redo or Commit are rejected with ErrReentrant.
type Stack struct {
	done   []*Task
	undone []*Task

	marks    *btree.Map[MarkHandle, *Mark]
	consumed btree.Set[MarkHandle]
	lastMark MarkHandle

	// open is the task being built between the outermost BeginTask and its
	// EndTask. frames holds, per open nesting level, the number of actions
	// the task had when that level began.
	open   *Task
	frames []int

	// busy is set while an action callback runs.
	busy bool

	maxTasks int
	logger   *slog.Logger
	journal  *Journal
	clock    func() time.Time
}

// NewStack creates an empty Stack.
func NewStack(opts ...Option) *Stack {
	s := &Stack{
		marks:    newMarkIndex(),
		maxTasks: DefaultMaxTasks,
		logger:   discardLogger(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BeginTask opens a task, or a nested level of the task already open, and
// returns the new nesting depth. The outermost call returns 1. Labels given
// to nested calls are ignored.
func (s *Stack) BeginTask(undoLabel, redoLabel string) (int, error) {
	if err := s.guard("begin task"); err != nil {
		return s.CurrentDepth(), err
	}

	if s.open == nil {
		s.open = newTask(undoLabel, redoLabel)
	}
	s.frames = append(s.frames, s.open.Len())
	return len(s.frames), nil
}

// AddAction registers an already applied action with the open task.
func (s *Stack) AddAction(a Action) error {
	if err := s.guard("add action"); err != nil {
		return err
	}
	if a == nil {
		return InvalidUsage("add action", ErrNilAction)
	}
	if s.open == nil {
		return InvalidUsage("add action", ErrNoOpenTask)
	}

	s.open.add(a)
	return nil
}

// EndTask closes the innermost open level. Closing the outermost level
// finalizes the task: an empty task is dropped, otherwise it is pushed onto
// the done list and redo history is cleared.
func (s *Stack) EndTask() error {
	if err := s.guard("end task"); err != nil {
		return err
	}
	if len(s.frames) == 0 {
		return InvalidUsage("end task", ErrUnbalancedEnd)
	}

	s.frames = s.frames[:len(s.frames)-1]
	if len(s.frames) > 0 {
		return nil
	}

	t := s.open
	s.open = nil
	if t.Len() == 0 {
		s.logger.Debug("empty task dropped", "label", t.undoLabel)
		return nil
	}

	s.dropUndone()
	s.push(t)
	s.logger.Debug("task closed",
		"task", t.id,
		"label", t.undoLabel,
		"actions", t.Len(),
		"undoable", len(s.done),
	)
	return nil
}

// Undo reverses the most recent task, calling its actions' Undo in reverse
// insertion order.
//
// When an action fails the remaining actions are left alone, the task still
// moves to the undone list so that a later Redo can attempt a full
// restoration, and the failure is returned.
func (s *Stack) Undo(ctx context.Context) UndoResult {
	if err := s.guard("undo"); err != nil {
		return failure(err)
	}
	if s.open != nil {
		return failure(InvalidUsage("undo", ErrTaskOpen))
	}
	if len(s.done) == 0 {
		return nothingToDo()
	}

	t := s.done[len(s.done)-1]
	s.done = s.done[:len(s.done)-1]
	s.record(t, EventUndoStarted)

	err := s.undoEntries(ctx, t, 0)
	s.undone = append(s.undone, t)
	if err != nil {
		s.record(t, EventUndoFailed)
		s.logger.Warn("undo failed", "task", t.id, "label", t.undoLabel, "error", err)
		return failure(err)
	}
	s.record(t, EventUndoFinished)
	s.logger.Debug("task undone", "task", t.id, "label", t.undoLabel)

	if !t.redoable() {
		// Nothing on the undone list can be reached past this task.
		s.dropUndone()
	}
	return success()
}

// Redo reapplies the most recently undone task, calling its actions' Redo in
// insertion order. On failure the task stays on the undone list.
func (s *Stack) Redo(ctx context.Context) UndoResult {
	if err := s.guard("redo"); err != nil {
		return failure(err)
	}
	if s.open != nil {
		return failure(InvalidUsage("redo", ErrTaskOpen))
	}
	if len(s.undone) == 0 {
		return nothingToDo()
	}

	t := s.undone[len(s.undone)-1]
	s.record(t, EventRedoStarted)

	if err := s.redoEntries(ctx, t); err != nil {
		s.record(t, EventRedoFailed)
		s.logger.Warn("redo failed", "task", t.id, "label", t.redoLabel, "error", err)
		return failure(err)
	}

	s.undone = s.undone[:len(s.undone)-1]
	s.done = append(s.done, t)
	t.position = len(s.done) - 1
	s.record(t, EventRedoFinished)
	s.logger.Debug("task redone", "task", t.id, "label", t.redoLabel)
	return success()
}

// CanUndo returns true if undo is available.
func (s *Stack) CanUndo() bool {
	return len(s.done) > 0
}

// CanRedo returns true if redo is available.
func (s *Stack) CanRedo() bool {
	return len(s.undone) > 0
}

// CurrentDepth returns the nesting depth of the open task, 0 when none is open.
func (s *Stack) CurrentDepth() int {
	return len(s.frames)
}

// UndoableActionCount returns the number of actions across all undoable tasks.
func (s *Stack) UndoableActionCount() int {
	n := 0
	for _, t := range s.done {
		n += t.Len()
	}
	return n
}

// UndoableSequenceCount returns the number of undoable tasks.
func (s *Stack) UndoableSequenceCount() int {
	return len(s.done)
}

// RedoableSequenceCount returns the number of redoable tasks.
func (s *Stack) RedoableSequenceCount() int {
	return len(s.undone)
}

// UndoText returns the undo label of the task the next Undo would reverse.
func (s *Stack) UndoText() string {
	if len(s.done) == 0 {
		return ""
	}
	return s.done[len(s.done)-1].undoLabel
}

// RedoText returns the redo label of the task the next Redo would reapply.
func (s *Stack) RedoText() string {
	if len(s.undone) == 0 {
		return ""
	}
	return s.undone[len(s.undone)-1].redoLabel
}

// UndoInfo returns info about undoable tasks, most recent first.
func (s *Stack) UndoInfo() []TaskInfo {
	return infoNewestFirst(s.done)
}

// RedoInfo returns info about redoable tasks, next to be redone first.
func (s *Stack) RedoInfo() []TaskInfo {
	return infoNewestFirst(s.undone)
}

func infoNewestFirst(tasks []*Task) []TaskInfo {
	result := make([]TaskInfo, len(tasks))
	for i, t := range tasks {
		result[len(tasks)-1-i] = t.info()
	}
	return result
}

// Clear commits all undoable history and forgets everything, including
// redo history and marks. It fails while a task is open.
func (s *Stack) Clear() error {
	if err := s.guard("clear"); err != nil {
		return err
	}
	if s.open != nil {
		return InvalidUsage("clear", ErrTaskOpen)
	}

	for _, t := range s.done {
		s.commit(t)
		s.record(t, EventDropped)
	}
	s.done = nil
	s.dropUndone()

	s.marks.Scan(func(h MarkHandle, _ *Mark) bool {
		s.consumed.Insert(h)
		return true
	})
	s.marks = newMarkIndex()
	return nil
}

// push appends a closed task onto the done list and enforces the bound.
func (s *Stack) push(t *Task) {
	t.position = len(s.done)
	t.closedAt = s.clock()
	s.done = append(s.done, t)
	s.record(t, EventClosed)
	s.trim()
}

// trim commits and forgets the oldest tasks beyond maxTasks, shifting
// positions and marks so they keep pointing at the same tasks.
func (s *Stack) trim() {
	if s.maxTasks <= 0 || len(s.done) <= s.maxTasks {
		return
	}

	excess := len(s.done) - s.maxTasks
	for _, t := range s.done[:excess] {
		s.commit(t)
		s.record(t, EventDropped)
	}
	s.done = append([]*Task(nil), s.done[excess:]...)

	for _, t := range s.done {
		t.position -= excess
	}
	for _, t := range s.undone {
		t.position -= excess
	}
	s.marks.Scan(func(_ MarkHandle, m *Mark) bool {
		m.DoneLen = max(m.DoneLen-excess, 0)
		return true
	})
	s.logger.Debug("history trimmed", "dropped", excess, "undoable", len(s.done))
}

// dropUndone destroys the redo history. Entries a failed undo left applied
// stay in effect and are committed.
func (s *Stack) dropUndone() {
	for _, t := range s.undone {
		s.commit(t)
		s.record(t, EventDropped)
	}
	s.undone = nil
}

// undoEntries undoes the applied entries of t from index from onwards, in
// reverse order, stopping at the first failure.
func (s *Stack) undoEntries(ctx context.Context, t *Task, from int) error {
	for i := len(t.entries) - 1; i >= from; i-- {
		e := &t.entries[i]
		if !e.done {
			continue
		}
		ok, err := s.call(func() (bool, error) { return e.action.Undo(ctx) })
		if err != nil {
			return ActionErrored(DirectionUndo, e.action.Name(), i, err)
		}
		if !ok {
			return ActionFailed(DirectionUndo, e.action.Name(), i)
		}
		e.done = false
	}
	return nil
}

// redoEntries redoes the entries of t that are not applied, in insertion
// order, stopping at the first failure.
func (s *Stack) redoEntries(ctx context.Context, t *Task) error {
	for i := range t.entries {
		e := &t.entries[i]
		if e.done {
			continue
		}
		ok, err := s.call(func() (bool, error) { return e.action.Redo(ctx) })
		if err != nil {
			return ActionErrored(DirectionRedo, e.action.Name(), i, err)
		}
		if !ok {
			return ActionFailed(DirectionRedo, e.action.Name(), i)
		}
		e.done = true
	}
	return nil
}

func (s *Stack) commit(t *Task) {
	s.call(func() (bool, error) {
		t.commitApplied()
		return true, nil
	})
}

// call runs an action callback with the reentrancy guard raised.
func (s *Stack) call(fn func() (bool, error)) (bool, error) {
	s.busy = true
	defer func() { s.busy = false }()
	return fn()
}

func (s *Stack) guard(op string) error {
	if s.busy {
		return InvalidUsage(op, ErrReentrant)
	}
	return nil
}

func (s *Stack) record(t *Task, eventType TaskEventType) {
	if s.journal == nil {
		return
	}
	event := &TaskEvent{
		TaskID:    t.id,
		Label:     t.undoLabel,
		EventType: eventType,
		Actions:   t.Len(),
		At:        s.clock(),
	}
	if err := s.journal.Record(event); err != nil {
		s.logger.Error("journal rejected task event", "event", eventType, "error", err)
	}
}
