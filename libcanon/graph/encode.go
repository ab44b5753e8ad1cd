package graph

import (
	"math/bits"
	"sync"

	"github.com/2x3systems/gocanon/canon"
	"github.com/pkg/errors"
	vbits "github.com/soniakeys/bits"
)

var rowsPool = sync.Pool{
	New: func() interface{} {
		return new(Rows)
	},
}

// NewRows returns a zeroed graph on n vertices, recycling a pooled instance when one is available.
// Call Reclaim() when the graph is no longer referenced.
func NewRows(n int) *Rows {
	g := rowsPool.Get().(*Rows)
	g.Reset(n)
	return g
}

// Reclaim recycles this instance into a pool for reuse.
// Caller asserts that no more references to this instance will persist.
func (g *Rows) Reclaim() {
	if g != nil {
		rowsPool.Put(g)
	}
}

// Reset sizes this graph for n vertices and clears all edges.
// The row stride is recomputed from n on every call.
func (g *Rows) Reset(n int) {
	g.N = n
	g.M = canon.RowWords(n)

	if cap(g.rows) < n {
		old := g.rows
		g.rows = make([]vbits.Bits, n)
		copy(g.rows, old[:cap(old)])
	} else {
		g.rows = g.rows[:n]
	}

	for i := range g.rows {
		row := &g.rows[i]
		if cap(row.Bits) < g.M {
			*row = vbits.New(n)
			continue
		}
		row.Num = n
		row.Bits = row.Bits[:g.M]
		for w := range row.Bits {
			row.Bits[w] = 0
		}
	}
}

// Encode converts a row-major n×n adjacency matrix into a new bit-packed graph.
//
// Every nonzero entry adj[i*n+j] sets bit j of row i, including diagonal entries (self loops).
// Symmetry is not enforced.
func Encode(n int, adj []int32) (*Rows, error) {
	if n < 0 {
		return nil, errors.Wrapf(canon.ErrInvalidArgument, "negative vertex count %d", n)
	}
	if len(adj) != n*n {
		return nil, errors.Wrapf(canon.ErrInvalidArgument, "adjacency has %d entries, expected %d", len(adj), n*n)
	}

	g := NewRows(n)
	for i := 0; i < n; i++ {
		row := g.rows[i]
		for j, a := range adj[i*n : (i+1)*n] {
			if a != 0 {
				row.SetBit(j, 1)
			}
		}
	}
	return g, nil
}

// Row returns the words of row i.
func (g *Rows) Row(i int) []uint64 {
	return g.rows[i].Bits
}

// HasEdge reports if bit j of row i is set.
func (g *Rows) HasEdge(i, j int) bool {
	return g.rows[i].Bit(j) == 1
}

// AddEdge sets bit j of row i and, unless directed is set, bit i of row j.
func (g *Rows) AddEdge(i, j int, directed bool) {
	g.rows[i].SetBit(j, 1)
	if !directed {
		g.rows[j].SetBit(i, 1)
	}
}

// Degree returns the number of bits set in row i.
func (g *Rows) Degree(i int) int {
	count := 0
	for _, word := range g.rows[i].Bits {
		count += bits.OnesCount64(word)
	}
	return count
}

// Neighbors returns the vertices set in row i, ascending.
func (g *Rows) Neighbors(i int) []int {
	row := g.rows[i]
	var nbrs []int
	for j := row.OneFrom(0); j >= 0; j = row.OneFrom(j + 1) {
		nbrs = append(nbrs, j)
	}
	return nbrs
}

// NumLoops returns the number of vertices with a self loop.
func (g *Rows) NumLoops() int {
	loops := 0
	for i := 0; i < g.N; i++ {
		loops += g.rows[i].Bit(i)
	}
	return loops
}

// NumEdges returns the number of vertex pairs i < j joined in either direction.
func (g *Rows) NumEdges() int {
	edges := 0
	for i := 0; i < g.N; i++ {
		row := g.rows[i]
		for j := row.OneFrom(i + 1); j >= 0; j = row.OneFrom(j + 1) {
			edges++
		}
		for j := 0; j < i; j++ {
			if row.Bit(j) == 1 && g.rows[j].Bit(i) == 0 {
				edges++
			}
		}
	}
	return edges
}

// IsSymmetric reports if bit j of row i equals bit i of row j for all i, j.
func (g *Rows) IsSymmetric() bool {
	for i := 0; i < g.N; i++ {
		row := g.rows[i]
		for j := row.OneFrom(0); j >= 0; j = row.OneFrom(j + 1) {
			if g.rows[j].Bit(i) == 0 {
				return false
			}
		}
	}
	return true
}

// Relabel writes into dst the graph whose vertex k is vertex lab[k] of g.
// dst is resized to g.N; lab must be a permutation of [0, g.N).
func (g *Rows) Relabel(lab []int32, dst *Rows) {
	n := g.N
	dst.Reset(n)

	inv := make([]int32, n)
	for k, v := range lab[:n] {
		inv[v] = int32(k)
	}

	for k, v := range lab[:n] {
		src := g.rows[v]
		dstRow := dst.rows[k]
		for j := src.OneFrom(0); j >= 0; j = src.OneFrom(j + 1) {
			dstRow.SetBit(int(inv[j]), 1)
		}
	}
}

// Compare orders two graphs with equal vertex counts row by row, word by word.
// Returns -1, 0, or 1.
func (g *Rows) Compare(h *Rows) int {
	if g.N != h.N {
		if g.N < h.N {
			return -1
		}
		return 1
	}
	for i := 0; i < g.N; i++ {
		a, b := g.rows[i].Bits, h.rows[i].Bits
		for w := range a {
			if a[w] != b[w] {
				if a[w] < b[w] {
					return -1
				}
				return 1
			}
		}
	}
	return 0
}

// CopyFrom makes g an exact copy of src.
func (g *Rows) CopyFrom(src *Rows) {
	g.Reset(src.N)
	for i := 0; i < src.N; i++ {
		copy(g.rows[i].Bits, src.rows[i].Bits)
	}
}

// AppendEncoding appends the vertex count, a symmetry flag, and the adjacency bits to the given buffer.
// A symmetric graph contributes only its upper triangle (diagonal included); otherwise every entry is written.
func (g *Rows) AppendEncoding(out []byte) []byte {
	n := g.N
	symmetric := g.IsSymmetric()
	out = append(out, byte(n>>8), byte(n))
	if symmetric {
		out = append(out, 0)
	} else {
		out = append(out, 1)
	}

	var acc byte
	nbits := 0
	for i := 0; i < n; i++ {
		row := g.rows[i]
		j0 := 0
		if symmetric {
			j0 = i
		}
		for j := j0; j < n; j++ {
			acc = acc<<1 | byte(row.Bit(j))
			nbits++
			if nbits == 8 {
				out = append(out, acc)
				acc, nbits = 0, 0
			}
		}
	}
	if nbits > 0 {
		out = append(out, acc<<(8-nbits))
	}
	return out
}

// CountIn returns the number of bits set in both row i and the given set of words.
func (g *Rows) CountIn(i int, set []uint64) int {
	count := 0
	for w, word := range g.rows[i].Bits {
		count += bits.OnesCount64(word & set[w])
	}
	return count
}
