package graph

import (
	"github.com/2x3systems/gocanon/canon"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/encoding/graph6"
	"gonum.org/v1/gonum/graph/simple"
)

// Graph6 returns the graph6 form of this graph with vertex i mapped to graph6 node i.
//
// graph6 describes simple undirected graphs only, so a graph with self loops or an asymmetric
// adjacency is refused.
func (g *Rows) Graph6() (string, error) {
	if g.NumLoops() > 0 {
		return "", canon.ErrSelfLoop
	}
	if !g.IsSymmetric() {
		return "", canon.ErrAsymmetric
	}

	ug := simple.NewUndirectedGraph()
	for i := 0; i < g.N; i++ {
		ug.AddNode(simple.Node(i))
	}
	for i := 0; i < g.N; i++ {
		row := g.rows[i]
		for j := row.OneFrom(i + 1); j >= 0; j = row.OneFrom(j + 1) {
			ug.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
		}
	}

	return string(graph6.Encode(ug)), nil
}

// DecodeGraph6 reads a graph6 string into a new symmetric graph.
func DecodeGraph6(g6 string) (*Rows, error) {
	src := graph6.Graph(g6)
	if !graph6.IsValid(src) {
		return nil, errors.Wrapf(canon.ErrInvalidArgument, "invalid graph6 string %q", g6)
	}

	n := src.Nodes().Len()
	if n > canon.MaxVertices {
		return nil, errors.Wrapf(canon.ErrAllocation, "graph6 graph has %d vertices", n)
	}

	g := NewRows(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if src.HasEdgeBetween(int64(i), int64(j)) {
				g.AddEdge(i, j, false)
			}
		}
	}
	return g, nil
}
