package libcanon

import (
	"io"
	"math"
	"sort"

	"github.com/2x3systems/gocanon/canon"
	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"
)

// GraphExpr is a comma separated list of edge runs, e.g. "1-2-3-1, 4:2, 5^".
//
// Vertices are numbered from 1 and the vertex count is the largest ID named.
// "a-b" joins a and b, "^" adds a self loop, and ":c" (or ":-c") colors a vertex.
type GraphExpr struct {
	Runs []*EdgeRun `(@@ ("," @@)*)?`
}

type EdgeRun struct {
	StartVtx *Vtx   `@@`
	Next     []*Vtx `("-" @@)*`
}

type Vtx struct {
	ID    int64     `@Int`
	Loop  bool      `@"^"?`
	Color *VtxColor `@@?`
}

type VtxColor struct {
	Neg   bool  `":" @"-"?`
	Value int64 `@Int`
}

var parseGraphExpr = participle.MustBuild[GraphExpr]()

type graphBuilder struct {
	maxVtxID int
	edges    [][2]int
	loops    map[int]struct{}
	colors   map[int]int32
}

func (Xb *graphBuilder) tallyVtx(vtx *Vtx) (int, error) {
	if vtx.ID < 1 || vtx.ID > canon.MaxVertices {
		return 0, errors.Wrapf(canon.ErrBadVtxID, "vertex %d", vtx.ID)
	}
	vi := int(vtx.ID - 1)
	if Xb.maxVtxID < int(vtx.ID) {
		Xb.maxVtxID = int(vtx.ID)
	}

	if vtx.Loop {
		Xb.loops[vi] = struct{}{}
	}

	if vtx.Color != nil {
		val := vtx.Color.Value
		if vtx.Color.Neg {
			val = -val
		}
		if val < math.MinInt32 || val > math.MaxInt32 {
			return 0, errors.Wrapf(canon.ErrInvalidArgument, "vertex %d color %d is outside the int32 range", vtx.ID, val)
		}
		c := int32(val)
		if prev, exists := Xb.colors[vi]; exists && prev != c {
			return 0, errors.Wrapf(canon.ErrConflictingColor, "vertex %d has colors %d and %d", vtx.ID, prev, c)
		}
		Xb.colors[vi] = c
	}

	return vi, nil
}

func (Xb *graphBuilder) applyRun(run *EdgeRun) error {
	cur, err := Xb.tallyVtx(run.StartVtx)
	if err != nil {
		return err
	}

	for _, vtx := range run.Next {
		next, err := Xb.tallyVtx(vtx)
		if err != nil {
			return err
		}
		Xb.edges = append(Xb.edges, [2]int{cur, next})
		cur = next
	}
	return nil
}

// InitFromString assigns X from a graph expression.
// Edges are undirected; naming an edge a-a is the same as marking a with "^".
func (X *Graph) InitFromString(graphExpr string) error {
	Xexpr, err := parseGraphExpr.ParseString("", graphExpr)
	if err != nil {
		return errors.Wrap(canon.ErrBadGraphExpr, err.Error())
	}

	Xb := graphBuilder{
		loops:  make(map[int]struct{}),
		colors: make(map[int]int32),
	}
	for _, run := range Xexpr.Runs {
		if err = Xb.applyRun(run); err != nil {
			return err
		}
	}

	n := Xb.maxVtxID
	X.Init(nil)
	X.n = n
	X.adj = growInt32(X.adj, n*n)
	for _, e := range Xb.edges {
		a, b := e[0], e[1]
		X.adj[a*n+b] = 1
		X.adj[b*n+a] = 1
	}
	for vi := range Xb.loops {
		X.adj[vi*n+vi] = 1
	}

	if len(Xb.colors) > 0 {
		X.colors = growInt32(X.colors, n)
		for vi, c := range Xb.colors {
			X.colors[vi] = c
		}
	}
	return nil
}

// WriteAsGraphExprStr writes X as a graph expression that InitFromString reads back into X.
//
// Edges are chained into runs where possible. Every vertex appears at least once so the vertex
// count survives, and a vertex's loop and color are written at its first appearance.
// An edge present in only one direction of the adjacency is written as undirected.
func (X *Graph) WriteAsGraphExprStr(out io.Writer) {
	n := X.n
	var buf [32]byte
	var digits [12]byte

	// remaining[i] holds the neighbors j != i of i not yet written
	remaining := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if X.adj[i*n+j] != 0 || X.adj[j*n+i] != 0 {
				remaining[i] = append(remaining[i], j)
				remaining[j] = append(remaining[j], i)
			}
		}
	}

	written := make([]bool, n)
	printVtx := func(vi int) {
		s := append(buf[:0], PrintInt(digits[:], int64(vi+1))...)
		if !written[vi] {
			written[vi] = true
			if X.adj[vi*n+vi] != 0 {
				s = append(s, '^')
			}
			if X.colors != nil && X.colors[vi] != 0 {
				s = append(s, ':')
				s = append(s, PrintInt(digits[:], int64(X.colors[vi]))...)
			}
		}
		out.Write(s)
	}

	takeEdge := func(a, b int) {
		remaining[a] = removeVtx(remaining[a], b)
		remaining[b] = removeVtx(remaining[b], a)
	}

	needsBreak := false
	startRun := func(vi int) {
		if needsBreak {
			out.Write([]byte(", "))
		}
		needsBreak = true
		printVtx(vi)
	}

	for a := 0; a < n; a++ {
		for len(remaining[a]) > 0 {
			startRun(a)
			cur := a
			for len(remaining[cur]) > 0 {
				next := remaining[cur][0]
				takeEdge(cur, next)
				out.Write([]byte("-"))
				printVtx(next)
				cur = next
			}
		}
		if !written[a] {
			startRun(a)
		}
	}
}

// removeVtx removes v from the sorted list, keeping it sorted.
func removeVtx(list []int, v int) []int {
	i := sort.SearchInts(list, v)
	if i < len(list) && list[i] == v {
		list = append(list[:i], list[i+1:]...)
	}
	return list
}
