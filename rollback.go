package actionstack

import (
	"context"
	"errors"
	"fmt"
)

// Rollback reverses the open task back to the nesting level opened by the
// BeginTask call that returned toDepth, and reports whether anything was
// rolled back.
//
// Only actions added since that level began are considered. If none of them
// is a data change, Rollback does nothing and the caller still closes the
// level with EndTask as usual. Otherwise those actions are undone in reverse
// order and dropped, the levels from toDepth inwards are closed, and when
// toDepth is 1 the open task disappears without ever reaching the done
// list. Closed tasks are never touched.
//
// If an action's undo fails the rollback stops there. The levels are closed
// all the same, the actions still applied are committed, and the failure is
// returned.
func (s *Stack) Rollback(ctx context.Context, toDepth int) (bool, error) {
	if err := s.guard("rollback"); err != nil {
		return false, err
	}
	if s.open == nil {
		return false, InvalidUsage("rollback", ErrNoOpenTask)
	}
	if toDepth < 1 || toDepth > len(s.frames) {
		return false, InvalidUsage("rollback", fmt.Errorf("%w: %d (current %d)", ErrInvalidDepth, toDepth, len(s.frames)))
	}

	t := s.open
	from := s.frames[toDepth-1]
	if !t.hasDataChange(from) {
		s.logger.Debug("rollback skipped, no data change", "label", t.undoLabel, "depth", toDepth)
		return false, nil
	}

	undoErr := s.undoEntries(ctx, t, from)
	if undoErr != nil {
		s.logger.Warn("rollback undo failed", "label", t.undoLabel, "error", undoErr)
		s.call(func() (bool, error) {
			for _, e := range t.entries[from:] {
				if e.done {
					e.action.Commit()
				}
			}
			return true, nil
		})
	}

	rolledBack := len(t.entries) - from
	t.entries = t.entries[:from]
	s.frames = s.frames[:toDepth-1]
	if len(s.frames) == 0 {
		s.open = nil
		s.record(t, EventRolledBack)
	}

	s.logger.Debug("task rolled back",
		"label", t.undoLabel,
		"actions", rolledBack,
		"depth", len(s.frames),
	)
	return true, undoErr
}

// Scope is an open task level that can be closed with defer.
//
//	scope, err := stack.Scope("Paste", "Paste")
//	if err != nil {
//	    return err
//	}
//	defer scope.End()
type Scope struct {
	stack  *Stack
	depth  int
	active bool
}

// Scope opens a task level and returns a handle to close it.
func (s *Stack) Scope(undoLabel, redoLabel string) (*Scope, error) {
	depth, err := s.BeginTask(undoLabel, redoLabel)
	if err != nil {
		return nil, err
	}
	return &Scope{stack: s, depth: depth, active: true}, nil
}

// Depth returns the nesting depth the scope was opened at.
func (sc *Scope) Depth() int {
	return sc.depth
}

// End closes the scope's level. Safe to call multiple times; only the first
// call has effect.
func (sc *Scope) End() error {
	if !sc.active {
		return nil
	}
	sc.active = false
	return sc.stack.EndTask()
}

// Rollback rolls the scope's level back. When there was nothing to roll back
// the level is closed normally instead.
func (sc *Scope) Rollback(ctx context.Context) error {
	if !sc.active {
		return nil
	}
	sc.active = false

	rolledBack, err := sc.stack.Rollback(ctx, sc.depth)
	if err != nil {
		return err
	}
	if !rolledBack {
		return sc.stack.EndTask()
	}
	return nil
}

// Do runs fn inside a task. If fn fails the task level is rolled back and
// fn's error is returned, joined with any rollback failure.
func (s *Stack) Do(ctx context.Context, undoLabel, redoLabel string, fn func() error) error {
	scope, err := s.Scope(undoLabel, redoLabel)
	if err != nil {
		return err
	}

	if err := fn(); err != nil {
		if rbErr := scope.Rollback(ctx); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return scope.End()
}
