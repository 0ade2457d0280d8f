// Package dag wraps a gonum directed graph with DOT attributes on the graph,
// its nodes and its edges.
package dag

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

type Graph struct {
	*simple.DirectedGraph
	attrs encoding.Attributes
}

func New() *Graph {
	return &Graph{DirectedGraph: simple.NewDirectedGraph()}
}

func (g *Graph) NewNode() *Node {
	return &Node{Node: g.DirectedGraph.NewNode()}
}

// AddAttributedNode creates a node carrying attrs and adds it to the graph.
func (g *Graph) AddAttributedNode(attrs ...encoding.Attribute) (*Node, error) {
	n := g.NewNode()
	for _, attr := range attrs {
		if err := n.SetAttribute(attr); err != nil {
			return nil, err
		}
	}
	g.AddNode(n)
	return n, nil
}

// Connect adds a directed edge between two nodes already in the graph.
func (g *Graph) Connect(from, to *Node) {
	g.SetEdge(g.NewEdge(from, to))
}

// DOTAttributers implements dot.Attributers. Only graph-level attributes
// are set; node and edge defaults are left empty.
func (g *Graph) DOTAttributers() (graph, node, edge encoding.Attributer) {
	return &g.attrs, &encoding.Attributes{}, &encoding.Attributes{}
}

func (g *Graph) SetAttribute(attr encoding.Attribute) error {
	return g.attrs.SetAttribute(attr)
}

// ExportToDot exports the graph to Graphviz .dot format.
func (g *Graph) ExportToDot(name string) (string, error) {
	data, err := dot.Marshal(g, name, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to export graph to DOT format: %v", err)
	}
	return string(data), nil
}

// Order returns the nodes in topological order, breaking ties by node ID.
func (g *Graph) Order() ([]*Node, error) {
	sorted, err := topo.SortStabilized(g, func(nodes []graph.Node) {
		sort.Slice(nodes, func(i, j int) bool {
			return nodes[i].ID() < nodes[j].ID()
		})
	})
	if err != nil {
		return nil, fmt.Errorf("topological sort failed (cycle detected?): %w", err)
	}

	order := make([]*Node, 0, len(sorted))
	for _, n := range sorted {
		node, ok := n.(*Node)
		if !ok {
			return nil, fmt.Errorf("unexpected node type %T", n)
		}
		order = append(order, node)
	}
	return order, nil
}

type Node struct {
	graph.Node
	attrs encoding.Attributes
}

func (n *Node) Attributes() []encoding.Attribute {
	return n.attrs.Attributes()
}

func (n *Node) SetAttribute(attr encoding.Attribute) error {
	return n.attrs.SetAttribute(attr)
}

// Attribute returns the value of the attribute key, or "".
func (n *Node) Attribute(key string) string {
	for _, attr := range n.attrs {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

func (g *Graph) NewEdge(from, to graph.Node) graph.Edge {
	return &edge{Edge: g.DirectedGraph.NewEdge(from, to)}
}

type edge struct {
	graph.Edge
	attrs encoding.Attributes
}

func (e *edge) Attributes() []encoding.Attribute {
	return e.attrs.Attributes()
}

func (e *edge) SetAttribute(attr encoding.Attribute) error {
	return e.attrs.SetAttribute(attr)
}
