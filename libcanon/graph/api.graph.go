// Package graph holds the bit-packed graph form consumed by the canonical labeling search.
//
// A graph on n vertices is n rows of canon.RowWords(n) words; bit j of row i is set iff
// vertex j is adjacent to vertex i.
package graph

import (
	"github.com/soniakeys/bits"
)

// Rows is a word-packed adjacency, one bit row per vertex.
type Rows struct {
	N    int // number of vertices
	M    int // words per row
	rows []bits.Bits
}
