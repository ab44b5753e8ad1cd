package libcanon

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/2x3systems/gocanon/canon"
	"github.com/2x3systems/gocanon/libcanon/graph"
	"github.com/2x3systems/gocanon/libcanon/partition"
	"github.com/pkg/errors"
)

// NewGraph returns a pooled Graph, a copy of Xsrc if given, otherwise empty (n = 0).
func NewGraph(Xsrc *Graph) *Graph {
	X := graphPool.Get().(*Graph)
	X.Init(Xsrc)
	return X
}

// NewGraphFromMatrix returns a Graph holding copies of the given adjacency matrix and coloring.
func NewGraphFromMatrix(n int, adj, colors []int32) (*Graph, error) {
	X := NewGraph(nil)
	if err := X.InitFromMatrix(n, adj, colors); err != nil {
		X.Reclaim()
		return nil, err
	}
	return X, nil
}

// NewGraphFromString returns a Graph parsed from a graph expression such as "1-2-3-1, 4:2".
func NewGraphFromString(graphExpr string) (*Graph, error) {
	X := NewGraph(nil)
	if err := X.InitFromString(graphExpr); err != nil {
		X.Reclaim()
		return nil, err
	}
	return X, nil
}

// NewGraphFromGraph6 returns an uncolored Graph read from its graph6 form.
func NewGraphFromGraph6(g6 string) (*Graph, error) {
	g, err := graph.DecodeGraph6(g6)
	if err != nil {
		return nil, err
	}
	defer g.Reclaim()

	X := NewGraph(nil)
	X.InitFromRows(g, nil)
	return X, nil
}

// Init resets X to a copy of Xsrc, or to the empty graph if Xsrc is nil.
func (X *Graph) Init(Xsrc *Graph) {
	X.canonized = false
	X.stats = canon.Stats{}

	if Xsrc == nil {
		X.n = 0
		X.adj = X.adj[:0]
		X.colors = nil
		X.lab = X.lab[:0]
		X.orbits = X.orbits[:0]
		return
	}

	X.n = Xsrc.n
	X.adj = append(X.adj[:0], Xsrc.adj...)
	X.colors = copyColors(X.colors, Xsrc.colors)
	X.lab = append(X.lab[:0], Xsrc.lab...)
	X.orbits = append(X.orbits[:0], Xsrc.orbits...)
	if Xsrc.canonized {
		if X.canong == nil {
			X.canong = graph.NewRows(0)
		}
		X.canong.CopyFrom(Xsrc.canong)
		X.stats = Xsrc.stats
		X.canonized = true
	}
}

func copyColors(dst, src []int32) []int32 {
	if src == nil {
		return nil
	}
	return append(dst[:0], src...)
}

// InitFromMatrix assigns X from an n×n row-major adjacency matrix and an optional coloring.
func (X *Graph) InitFromMatrix(n int, adj, colors []int32) error {
	switch {
	case n < 0:
		return errors.Wrapf(canon.ErrInvalidArgument, "negative vertex count %d", n)
	case n > canon.MaxVertices:
		return errors.Wrapf(canon.ErrAllocation, "%d vertices exceeds the limit of %d", n, canon.MaxVertices)
	case len(adj) != n*n:
		return errors.Wrapf(canon.ErrInvalidArgument, "adjacency has %d entries, expected %d", len(adj), n*n)
	case colors != nil && len(colors) != n:
		return errors.Wrapf(canon.ErrInvalidArgument, "coloring has %d entries, expected %d", len(colors), n)
	}

	X.Init(nil)
	X.n = n
	X.adj = append(X.adj, adj...)
	X.colors = copyColors(X.colors, colors)
	return nil
}

// InitFromRows assigns X from bit-packed rows and an optional coloring.
func (X *Graph) InitFromRows(g *graph.Rows, colors []int32) {
	X.Init(nil)
	X.n = g.N
	X.adj = growInt32(X.adj, g.N*g.N)
	for i := 0; i < g.N; i++ {
		for j := 0; j < g.N; j++ {
			if g.HasEdge(i, j) {
				X.adj[i*g.N+j] = 1
			}
		}
	}
	X.colors = copyColors(X.colors, colors)
}

// growInt32 returns buf resized to size with all entries zeroed.
func growInt32(buf []int32, size int) []int32 {
	if cap(buf) < size {
		return make([]int32, size)
	}
	buf = buf[:size]
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

func (X *Graph) NumVerts() int {
	return X.n
}

// Adjacency returns the row-major adjacency matrix; the caller must not modify it.
func (X *Graph) Adjacency() []int32 {
	return X.adj
}

// Colors returns the vertex coloring, or nil if X is uncolored.
func (X *Graph) Colors() []int32 {
	return X.colors
}

// Labeling returns the canonical labeling: Labeling()[k] is the vertex at canonical position k.
func (X *Graph) Labeling() ([]int32, error) {
	if !X.canonized {
		return nil, canon.ErrNotCanonized
	}
	return X.lab, nil
}

// Orbits returns the automorphism orbits: Orbits()[v] is the smallest vertex in v's orbit.
func (X *Graph) Orbits() ([]int32, error) {
	if !X.canonized {
		return nil, canon.ErrNotCanonized
	}
	return X.orbits, nil
}

// Stats returns the search stats of the call that canonized X.
func (X *Graph) Stats() canon.Stats {
	return X.stats
}

// IsCanonized reports if X holds a current canonical labeling.
func (X *Graph) IsCanonized() bool {
	return X.canonized
}

// Canonize computes X's canonical labeling and orbits through the process-wide Canonizer.
func (X *Graph) Canonize() error {
	return X.CanonizeWith(defaultCanonizer)
}

// CanonizeWith computes X's canonical labeling and orbits using the given Canonizer.
func (X *Graph) CanonizeWith(cz *Canonizer) error {
	if X.canonized {
		return nil
	}

	X.lab = growInt32(X.lab, X.n)
	X.orbits = growInt32(X.orbits, X.n)
	if X.canong == nil {
		X.canong = graph.NewRows(0)
	}

	if err := cz.Canonize(X.n, X.adj, X.colors, X.lab, X.orbits, X.canong); err != nil {
		return err
	}
	X.stats = cz.Stats()
	X.canonized = true
	return nil
}

// AppendCanonicKey appends X's certificate: the canonical form followed by the vertex colors
// in canonical order, run-length encoded. X is canonized first if needed.
//
// A nil coloring and an all-zero coloring produce the same key.
func (X *Graph) AppendCanonicKey(buf []byte) ([]byte, error) {
	if err := X.Canonize(); err != nil {
		return buf, err
	}

	buf = X.canong.AppendEncoding(buf)

	if X.n == 0 {
		return buf, nil
	}

	runColor := X.colorAt(0)
	runLen := 0
	for k := 0; k < X.n; k++ {
		c := X.colorAt(k)
		if c != runColor {
			buf = binary.AppendUvarint(buf, uint64(runLen))
			buf = binary.AppendVarint(buf, int64(runColor))
			runColor, runLen = c, 0
		}
		runLen++
	}
	buf = binary.AppendUvarint(buf, uint64(runLen))
	buf = binary.AppendVarint(buf, int64(runColor))
	return buf, nil
}

// colorAt returns the color of the vertex at canonical position k.
func (X *Graph) colorAt(k int) int32 {
	if X.colors == nil {
		return 0
	}
	return X.colors[X.lab[k]]
}

// CanonicGraph6 returns the graph6 form of X's canonical form.
func (X *Graph) CanonicGraph6() (string, error) {
	if err := X.Canonize(); err != nil {
		return "", err
	}
	return X.canong.Graph6()
}

func (X *Graph) GetInfo() canon.GraphInfo {
	info := canon.GraphInfo{
		NumVerts:  int32(X.n),
		NumColors: int32(partition.NumColors(X.n, X.colors)),
	}

	for i := 0; i < X.n; i++ {
		row := X.adj[i*X.n : (i+1)*X.n]
		if row[i] != 0 {
			info.NumLoops++
		}
		for j := i + 1; j < X.n; j++ {
			if row[j] != 0 || X.adj[j*X.n+i] != 0 {
				info.NumEdges++
			}
		}
	}

	if X.canonized {
		for v, rep := range X.orbits {
			if int(rep) == v {
				info.NumOrbits++
			}
		}
	}
	return info
}

func (X *Graph) MakeCopy() canon.GraphState {
	return NewGraph(X)
}

func (X *Graph) Reclaim() {
	if X != nil {
		graphPool.Put(X)
	}
}

var comma = []byte(",")

// Println writes X to stdout preceded by the given prefix.
func (X *Graph) Println(prefix string) {
	b := strings.Builder{}
	b.Grow(192)
	b.WriteString(prefix)
	X.WriteAsString(&b, canon.DefaultPrintOpts)
	fmt.Println(b.String())
}

// WriteAsString writes the sections of X selected by opts, each preceded by opts.Separator.
func (X *Graph) WriteAsString(out io.Writer, opts canon.PrintOpts) {
	sep := []byte(opts.Separator)
	if len(sep) == 0 {
		sep = comma
	}

	if len(opts.Label) > 0 {
		io.WriteString(out, opts.Label)
		out.Write(sep)
	}
	fmt.Fprintf(out, "n=%d", X.n)

	if opts.Graph {
		out.Write(sep)
		io.WriteString(out, "\"")
		X.WriteAsGraphExprStr(out)
		io.WriteString(out, "\"")
	}
	if opts.Matrix {
		out.Write(sep)
		X.WriteAsMatrixStr(out)
	}
	if opts.Canonic {
		out.Write(sep)
		if X.Canonize() != nil {
			io.WriteString(out, "lab=?")
		} else {
			fmt.Fprintf(out, "lab=%v%sorbits=%v", X.lab, sep, X.orbits)
		}
	}
	if opts.Graph6 {
		out.Write(sep)
		g6, err := X.CanonicGraph6()
		if err != nil {
			io.WriteString(out, "g6=?")
		} else {
			fmt.Fprintf(out, "g6=%s", g6)
		}
	}
}

// WriteAsMatrixStr writes the adjacency matrix in the form {{0,1},{1,0}}.
func (X *Graph) WriteAsMatrixStr(out io.Writer) {
	var buf [12]byte

	io.WriteString(out, "\"{")
	for i := 0; i < X.n; i++ {
		if i > 0 {
			out.Write(comma)
		}
		io.WriteString(out, "{")
		for j := 0; j < X.n; j++ {
			if j > 0 {
				out.Write(comma)
			}
			out.Write(PrintInt(buf[:], int64(X.adj[i*X.n+j])))
		}
		io.WriteString(out, "}")
	}
	io.WriteString(out, "}\"")
}

// String returns X as a graph expression.
func (X *Graph) String() string {
	b := strings.Builder{}
	X.WriteAsGraphExprStr(&b)
	return b.String()
}

// PrintInt prints the given integer in base 10, right justified in the buffer.
// Returns the tight-fitting slice of the output digits (a slice of []dst)
func PrintInt(dst []byte, val int64) []byte {
	neg := val < 0
	if neg {
		val = -val
	}
	i := len(dst)
	for {
		next := val / 10
		i--
		dst[i] = '0' + byte(val-10*next)
		val = next
		if val == 0 {
			break
		}
	}
	if neg {
		i--
		dst[i] = '-'
	}
	return dst[i:]
}

// CanonicGraph returns a new Graph holding X relabeled into canonical order:
// its vertex k is vertex Labeling()[k] of X, colors included.
func (X *Graph) CanonicGraph() (*Graph, error) {
	if err := X.Canonize(); err != nil {
		return nil, err
	}

	Xc := NewGraph(nil)
	Xc.InitFromRows(X.canong, nil)
	if X.colors != nil {
		Xc.colors = growInt32(Xc.colors, X.n)
		for k, v := range X.lab {
			Xc.colors[k] = X.colors[v]
		}
	}
	return Xc, nil
}
