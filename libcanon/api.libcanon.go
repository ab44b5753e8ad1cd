// Package libcanon computes canonical labelings and automorphism orbits of finite, optionally
// vertex-colored, undirected graphs.
//
// A call encodes a dense adjacency matrix into bit-packed rows, builds the initial ordered
// partition from the coloring, runs one canonical labeling search, and copies the labeling
// and orbits into caller-owned buffers. Graph wraps that call for use with streams, catalogs,
// and the scripting layer.
package libcanon

import (
	"sync"

	"github.com/2x3systems/gocanon/canon"
	"github.com/2x3systems/gocanon/libcanon/graph"
)

// Graph is a dense adjacency matrix with an optional vertex coloring and, once canonized,
// its canonical labeling, orbits, and canonical form.
//
// Vertex indices are zero-based; graph expressions number vertices from 1.
type Graph struct {
	n      int
	adj    []int32     // row-major n*n, nonzero = edge
	colors []int32     // nil when uncolored
	lab    []int32     // canonical labeling, valid when canonized
	orbits []int32     // orbit representatives, valid when canonized
	canong *graph.Rows // graph relabeled into canonical order, valid when canonized
	stats  canon.Stats

	canonized bool
}

var graphPool = sync.Pool{
	New: func() interface{} {
		return new(Graph)
	},
}

// Compile-time check
var _ canon.GraphState = (*Graph)(nil)
