package actionstack

import (
	"fmt"

	"github.com/tidwall/btree"
)

// MarkHandle identifies a checkpoint in the undo history.
type MarkHandle int

// NoMark is the handle meaning "no mark".
const NoMark MarkHandle = 0

// Mark is a checkpoint: the length of the done list when it was created.
type Mark struct {
	Handle  MarkHandle
	DoneLen int
}

// Side selects the done or undone list in TasksSinceMark.
type Side int

const (
	UndoSide Side = iota
	RedoSide
)

// String returns the string representation of the Side.
func (s Side) String() string {
	switch s {
	case UndoSide:
		return "undo"
	case RedoSide:
		return "redo"
	default:
		return fmt.Sprintf("Unknown Side: %d", s)
	}
}

func newMarkIndex() *btree.Map[MarkHandle, *Mark] {
	return btree.NewMap[MarkHandle, *Mark](8)
}

// Mark creates a checkpoint at the current end of the done list. Handles
// start at 1 and are never reused.
func (s *Stack) Mark() (MarkHandle, error) {
	if err := s.guard("mark"); err != nil {
		return NoMark, err
	}

	s.lastMark++
	m := &Mark{Handle: s.lastMark, DoneLen: len(s.done)}
	s.marks.Set(m.Handle, m)
	s.logger.Debug("mark created", "mark", m.Handle, "position", m.DoneLen)
	return m.Handle, nil
}

// TopMarkHandle returns the most recent live mark, or NoMark.
func (s *Stack) TopMarkHandle() MarkHandle {
	h, _, ok := s.marks.Max()
	if !ok {
		return NoMark
	}
	return h
}

// RemoveMark releases a mark without touching the history.
func (s *Stack) RemoveMark(h MarkHandle) error {
	if err := s.guard("remove mark"); err != nil {
		return err
	}
	if _, err := s.lookupMark("remove mark", h); err != nil {
		return err
	}
	s.marks.Delete(h)
	s.consumed.Insert(h)
	return nil
}

// TasksSinceMark reports whether anything was recorded on the given side
// since the mark was created. On the undo side that is any task closed after
// the mark; on the redo side any undone task that was closed after it.
func (s *Stack) TasksSinceMark(side Side, h MarkHandle) (bool, error) {
	m, err := s.lookupMark("tasks since mark", h)
	if err != nil {
		return false, err
	}

	switch side {
	case UndoSide:
		return len(s.done) > m.DoneLen, nil
	case RedoSide:
		return s.undoneSince(m.DoneLen) > 0, nil
	default:
		return false, InvalidUsage("tasks since mark", fmt.Errorf("invalid side %d", side))
	}
}

// CollapseToMark merges every task closed since the mark into one task with
// the given labels and reports whether a merged task was created.
//
// With nothing closed since the mark it does nothing. When the tasks closed
// since the mark have all been undone already, they are dropped from the
// redo history and no task is created. The mark and all later marks are
// consumed.
func (s *Stack) CollapseToMark(h MarkHandle, undoLabel, redoLabel string) (bool, error) {
	if err := s.guard("collapse to mark"); err != nil {
		return false, err
	}
	m, err := s.lookupMark("collapse to mark", h)
	if err != nil {
		return false, err
	}
	defer s.consumeFrom(h)

	if len(s.done) <= m.DoneLen {
		if n := s.dropUndoneSince(m.DoneLen); n > 0 {
			s.logger.Debug("collapse dropped undone tasks", "mark", h, "dropped", n)
		}
		return false, nil
	}

	since := s.done[m.DoneLen:]
	merged := newTask(undoLabel, redoLabel)
	for _, t := range since {
		merged.entries = append(merged.entries, t.entries...)
		s.record(t, EventCollapsed)
	}
	s.done = s.done[:m.DoneLen]
	s.dropUndone()
	s.push(merged)

	s.logger.Debug("tasks collapsed",
		"mark", h,
		"tasks", len(since),
		"actions", merged.Len(),
		"label", undoLabel,
	)
	return true, nil
}

// DiscardToMark forgets every task closed since the mark without undoing
// it. The state those actions produced is kept and their actions are
// committed. NoMark, or a stack that never created a mark, is a no-op. The
// mark and all later marks are consumed.
func (s *Stack) DiscardToMark(h MarkHandle) error {
	if err := s.guard("discard to mark"); err != nil {
		return err
	}
	if h == NoMark || s.lastMark == NoMark {
		return nil
	}
	m, err := s.lookupMark("discard to mark", h)
	if err != nil {
		return err
	}
	defer s.consumeFrom(h)

	discarded := 0
	if len(s.done) > m.DoneLen {
		for _, t := range s.done[m.DoneLen:] {
			s.commit(t)
			s.record(t, EventDiscarded)
			discarded++
		}
		s.done = s.done[:m.DoneLen]
	}
	discarded += s.dropUndoneSince(m.DoneLen)

	if discarded > 0 {
		s.logger.Debug("tasks discarded", "mark", h, "tasks", discarded)
	}
	return nil
}

func (s *Stack) lookupMark(op string, h MarkHandle) (*Mark, error) {
	if s.consumed.Contains(h) {
		return nil, InvalidUsage(op, fmt.Errorf("%w: %d", ErrMarkConsumed, h))
	}
	m, ok := s.marks.Get(h)
	if !ok {
		return nil, InvalidUsage(op, fmt.Errorf("%w: %d", ErrUnknownMark, h))
	}
	return m, nil
}

// consumeFrom retires mark h and every mark created after it.
func (s *Stack) consumeFrom(h MarkHandle) {
	var retired []MarkHandle
	s.marks.Ascend(h, func(k MarkHandle, _ *Mark) bool {
		retired = append(retired, k)
		return true
	})
	for _, k := range retired {
		s.marks.Delete(k)
		s.consumed.Insert(k)
	}
}

// undoneSince counts undone tasks that were closed at or after position pos.
func (s *Stack) undoneSince(pos int) int {
	n := 0
	for _, t := range s.undone {
		if t.position >= pos {
			n++
		}
	}
	return n
}

// dropUndoneSince removes undone tasks closed at or after position pos and
// returns how many were removed.
func (s *Stack) dropUndoneSince(pos int) int {
	kept := s.undone[:0]
	dropped := 0
	for _, t := range s.undone {
		if t.position >= pos {
			s.commit(t)
			s.record(t, EventDropped)
			dropped++
			continue
		}
		kept = append(kept, t)
	}
	s.undone = kept
	return dropped
}
