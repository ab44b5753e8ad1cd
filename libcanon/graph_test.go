package libcanon

import (
	"errors"
	"strings"
	"testing"

	"github.com/2x3systems/gocanon/canon"
	"github.com/stretchr/testify/require"
)

func TestGraphExpr(t *testing.T) {
	tests := []struct {
		expr   string
		n      int
		edges  [][2]int
		loops  []int
		colors []int32
	}{
		{"1", 1, nil, nil, nil},
		{"1-2", 2, [][2]int{{0, 1}}, nil, nil},
		{"1-2-3-1", 3, [][2]int{{0, 1}, {1, 2}, {2, 0}}, nil, nil},
		{"1-2, 4", 4, [][2]int{{0, 1}}, nil, nil},
		{"1^-2", 2, [][2]int{{0, 1}}, []int{0}, nil},
		{"1:2-2:-1, 3", 3, [][2]int{{0, 1}}, nil, []int32{2, -1, 0}},
		{"1-1", 1, nil, []int{0}, nil},
	}

	for _, test := range tests {
		t.Run(test.expr, func(t *testing.T) {
			X, err := NewGraphFromString(test.expr)
			require.NoError(t, err)
			defer X.Reclaim()

			want := adjFromEdges(test.n, test.edges)
			for _, vi := range test.loops {
				want[vi*test.n+vi] = 1
			}
			require.Equal(t, test.n, X.NumVerts())
			require.Equal(t, want, X.Adjacency())
			require.Equal(t, test.colors, X.Colors())
		})
	}
}

func TestEmptyGraphExpr(t *testing.T) {
	X, err := NewGraphFromString("")
	require.NoError(t, err)
	defer X.Reclaim()

	require.Zero(t, X.NumVerts())
	require.Empty(t, X.Adjacency())
	require.NoError(t, X.Canonize())
	require.Equal(t, "", X.String())
}

func TestGraphExprErrors(t *testing.T) {
	_, err := NewGraphFromString("1-")
	require.True(t, errors.Is(err, canon.ErrBadGraphExpr))

	_, err = NewGraphFromString("0-1")
	require.True(t, errors.Is(err, canon.ErrBadVtxID))

	_, err = NewGraphFromString("1:1-2, 1:2")
	require.True(t, errors.Is(err, canon.ErrConflictingColor))

	_, err = NewGraphFromString("1:4294967296-2")
	require.True(t, errors.Is(err, canon.ErrInvalidArgument))

	_, err = NewGraphFromString("1:-2147483649-2")
	require.True(t, errors.Is(err, canon.ErrInvalidArgument))

	X, err := NewGraphFromString("1:-2147483648-2:2147483647")
	require.NoError(t, err)
	require.Equal(t, []int32{-2147483648, 2147483647}, X.Colors())
	X.Reclaim()
}

func TestGraphExprRoundTrip(t *testing.T) {
	exprs := []string{
		"1-2-3-1, 4:2, 5^",
		"1-2-3-4-5-1, 1-3, 6",
		"1:-1-2:1-3:-1",
		"2-3",
	}

	for _, expr := range exprs {
		X, err := NewGraphFromString(expr)
		require.NoError(t, err)

		Y, err := NewGraphFromString(X.String())
		require.NoError(t, err, "re-reading %q", X.String())
		require.Equal(t, X.NumVerts(), Y.NumVerts())
		require.Equal(t, X.Adjacency(), Y.Adjacency())
		require.Equal(t, X.Colors(), Y.Colors())

		X.Reclaim()
		Y.Reclaim()
	}
}

func TestCanonicKeys(t *testing.T) {
	key := func(expr string) string {
		X, err := NewGraphFromString(expr)
		require.NoError(t, err)
		defer X.Reclaim()
		k, err := X.AppendCanonicKey(nil)
		require.NoError(t, err)
		return string(k)
	}

	// isomorphic
	require.Equal(t, key("1-2-3"), key("2-1-3"))
	require.Equal(t, key("1-2-3-4-1"), key("1-3-2-4-1"))
	require.Equal(t, key("1:1-2-3:1"), key("2:1-1-3:1"))

	// not isomorphic
	require.NotEqual(t, key("1-2-3"), key("1-2, 3"))
	require.NotEqual(t, key("1-2"), key("1^-2"))
	require.NotEqual(t, key("1:1-2"), key("1-2"))
	require.NotEqual(t, key("1:1-2"), key("1:2-2"))
	require.NotEqual(t, key("1-2"), key("1-2, 3"))

	// an all-zero coloring is no coloring
	X, err := NewGraphFromMatrix(2, []int32{0, 1, 1, 0}, []int32{0, 0})
	require.NoError(t, err)
	defer X.Reclaim()
	k, err := X.AppendCanonicKey(nil)
	require.NoError(t, err)
	require.Equal(t, key("1-2"), string(k))
}

func TestGraphInfo(t *testing.T) {
	X, err := NewGraphFromString("1-2-3-1, 4^:3")
	require.NoError(t, err)
	defer X.Reclaim()

	info := X.GetInfo()
	require.Equal(t, canon.GraphInfo{NumVerts: 4, NumEdges: 3, NumLoops: 1, NumColors: 2}, info)

	require.NoError(t, X.Canonize())
	require.Equal(t, int32(2), X.GetInfo().NumOrbits)
	require.Equal(t, float64(6), X.Stats().GroupSize())
}

func TestGraphCopy(t *testing.T) {
	X, err := NewGraphFromString("1-2-3, 3:1")
	require.NoError(t, err)
	defer X.Reclaim()

	_, err = X.Labeling()
	require.True(t, errors.Is(err, canon.ErrNotCanonized))

	require.NoError(t, X.Canonize())
	Y := X.MakeCopy().(*Graph)
	defer Y.Reclaim()

	require.True(t, Y.IsCanonized())
	xl, _ := X.Labeling()
	yl, _ := Y.Labeling()
	require.Equal(t, xl, yl)

	kx, _ := X.AppendCanonicKey(nil)
	ky, _ := Y.AppendCanonicKey(nil)
	require.Equal(t, kx, ky)
}

func TestWriteAsString(t *testing.T) {
	X, err := NewGraphFromString("1-2-3-1")
	require.NoError(t, err)
	defer X.Reclaim()

	b := strings.Builder{}
	X.WriteAsString(&b, canon.PrintOpts{
		Label:  "K3",
		Graph:  true,
		Matrix: true,
		Graph6: true,
	})
	require.Equal(t, `K3,n=3,"1-2-3-1","{{0,1,1},{1,0,1},{1,1,0}}",g6=Bw`, b.String())

	b.Reset()
	X.WriteAsString(&b, canon.PrintOpts{Canonic: true, Separator: "; "})
	require.True(t, strings.HasPrefix(b.String(), "n=3; lab=["))
	require.True(t, strings.HasSuffix(b.String(), "; orbits=[0 0 0]"))
}

func TestGraph6(t *testing.T) {
	X, err := NewGraphFromGraph6("Bw")
	require.NoError(t, err)
	defer X.Reclaim()
	require.Equal(t, triangle, X.Adjacency())

	g6, err := X.CanonicGraph6()
	require.NoError(t, err)
	require.Equal(t, "Bw", g6)

	L, err := NewGraphFromString("1^")
	require.NoError(t, err)
	defer L.Reclaim()
	_, err = L.CanonicGraph6()
	require.True(t, errors.Is(err, canon.ErrSelfLoop))
}

func TestPrintInt(t *testing.T) {
	var buf [12]byte
	require.Equal(t, "0", string(PrintInt(buf[:], 0)))
	require.Equal(t, "-42", string(PrintInt(buf[:], -42)))
	require.Equal(t, "32768", string(PrintInt(buf[:], 32768)))
}
