package actionstack

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

// DocumentID identifies a document that owns a Stack.
type DocumentID struct {
	UUID uuid.UUID
}

// String returns the string representation of the DocumentID.
func (id DocumentID) String() string {
	return id.UUID.String()
}

// Registry hands out one Stack per open document.
//
// Each document or editing session owns exactly one Stack; there is no
// process-wide stack. The registry itself is safe for concurrent use, but each
// Stack it returns must still be driven from one goroutine at a time.
type Registry struct {
	stacks *xsync.MapOf[DocumentID, *Stack]
	opts   []Option
}

// NewRegistry creates a Registry whose stacks are built with opts.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		stacks: xsync.NewMapOf[DocumentID, *Stack](),
		opts:   opts,
	}
}

// Open creates a Stack for a new document. Options given here are applied
// after the registry's own.
func (r *Registry) Open(opts ...Option) (DocumentID, *Stack) {
	id := DocumentID{UUID: uuid.New()}
	all := append(append([]Option(nil), r.opts...), opts...)
	stack := NewStack(all...)
	r.stacks.Store(id, stack)
	return id, stack
}

// Get retrieves a document's Stack.
func (r *Registry) Get(id DocumentID) (*Stack, error) {
	stack, ok := r.stacks.Load(id)
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return stack, nil
}

// Close removes a document's Stack and tears it down, committing its
// undoable history.
func (r *Registry) Close(id DocumentID) error {
	stack, ok := r.stacks.LoadAndDelete(id)
	if !ok {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err := stack.Clear(); err != nil {
		r.stacks.Store(id, stack)
		return fmt.Errorf("close document %s: %w", id, err)
	}
	return nil
}

// Len returns the number of open documents.
func (r *Registry) Len() int {
	return r.stacks.Size()
}
