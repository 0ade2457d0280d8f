package actionstack

import (
	"fmt"

	"github.com/fortressi/actionstack/dag"
	"gonum.org/v1/gonum/graph/encoding"
)

// Graph returns the stack's history as a chain: done tasks oldest first,
// then undone tasks in the order Redo would reapply them. Every live mark is
// a node hanging off the task it was placed after.
func (s *Stack) Graph() (*dag.Graph, error) {
	g := dag.New()
	if err := g.SetAttribute(encoding.Attribute{Key: "rankdir", Value: "LR"}); err != nil {
		return nil, err
	}

	var prev *dag.Node
	var doneNodes []*dag.Node
	add := func(t *Task, side string) error {
		n, err := g.AddAttributedNode(
			encoding.Attribute{Key: "label", Value: fmt.Sprintf("%s (%d)", t.undoLabel, t.Len())},
			encoding.Attribute{Key: "side", Value: side},
			encoding.Attribute{Key: "task", Value: t.id.String()},
		)
		if err != nil {
			return err
		}
		if prev != nil {
			g.Connect(prev, n)
		}
		prev = n
		if side == "done" {
			doneNodes = append(doneNodes, n)
		}
		return nil
	}

	for _, t := range s.done {
		if err := add(t, "done"); err != nil {
			return nil, err
		}
	}
	for i := len(s.undone) - 1; i >= 0; i-- {
		if err := add(s.undone[i], "undone"); err != nil {
			return nil, err
		}
	}

	var markErr error
	s.marks.Scan(func(h MarkHandle, m *Mark) bool {
		n, err := g.AddAttributedNode(
			encoding.Attribute{Key: "label", Value: fmt.Sprintf("mark %d", h)},
			encoding.Attribute{Key: "shape", Value: "diamond"},
		)
		if err != nil {
			markErr = err
			return false
		}
		if m.DoneLen > 0 && m.DoneLen <= len(doneNodes) {
			g.Connect(doneNodes[m.DoneLen-1], n)
		}
		return true
	})
	if markErr != nil {
		return nil, markErr
	}
	return g, nil
}

// Dot renders the history graph in Graphviz format.
func (s *Stack) Dot() (string, error) {
	g, err := s.Graph()
	if err != nil {
		return "", err
	}
	return g.ExportToDot("history")
}
