package actionstack

import (
	"io"
	"log/slog"
	"time"
)

// DefaultMaxTasks is the default bound on the number of undoable tasks.
const DefaultMaxTasks = 1000

// Option configures a Stack during creation.
type Option func(*Stack)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stack) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxTasks bounds the number of undoable tasks. Once the bound is
// exceeded the oldest tasks are committed and forgotten. Zero or a negative
// value removes the bound.
func WithMaxTasks(n int) Option {
	return func(s *Stack) {
		s.maxTasks = n
	}
}

// WithJournal records every task transition into j.
func WithJournal(j *Journal) Option {
	return func(s *Stack) {
		s.journal = j
	}
}

// WithClock sets the time source used to stamp closed tasks and journal
// events.
func WithClock(clock func() time.Time) Option {
	return func(s *Stack) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
