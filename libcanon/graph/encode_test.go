package graph

import (
	"errors"
	"testing"

	"github.com/2x3systems/gocanon/canon"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	adj := []int32{
		0, 1, 0,
		1, 1, 7,
		0, 7, 0,
	}
	g, err := Encode(3, adj)
	require.NoError(t, err)
	defer g.Reclaim()

	require.Equal(t, 3, g.N)
	require.Equal(t, 1, g.M)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			require.Equal(t, adj[i*3+j] != 0, g.HasEdge(i, j), "entry %d,%d", i, j)
		}
	}
	require.Equal(t, 1, g.NumLoops())
	require.Equal(t, 2, g.NumEdges())
	require.Equal(t, 3, g.Degree(1))
	require.Equal(t, []int{0, 1, 2}, g.Neighbors(1))
	require.True(t, g.IsSymmetric())
}

func TestEncodeEmpty(t *testing.T) {
	g, err := Encode(0, nil)
	require.NoError(t, err)
	require.Equal(t, 0, g.N)
	require.Equal(t, 0, g.M)
	g.Reclaim()
}

func TestEncodeInvalid(t *testing.T) {
	_, err := Encode(2, []int32{0, 1, 1})
	require.True(t, errors.Is(err, canon.ErrInvalidArgument))

	_, err = Encode(-1, nil)
	require.True(t, errors.Is(err, canon.ErrInvalidArgument))
}

func TestRowStride(t *testing.T) {
	for _, n := range []int{1, 63, 64, 65, 130} {
		g := NewRows(n)
		require.Equal(t, canon.RowWords(n), g.M)
		require.Len(t, g.Row(n-1), g.M)
		g.AddEdge(0, n-1, false)
		require.True(t, g.HasEdge(n-1, 0))
		g.Reclaim()
	}

	// A recycled instance must come back cleared
	g := NewRows(70)
	g.AddEdge(3, 69, false)
	g.Reset(5)
	require.Equal(t, 1, g.M)
	require.Equal(t, 0, g.NumEdges())
	g.Reclaim()
}

func TestAsymmetric(t *testing.T) {
	g, err := Encode(2, []int32{0, 1, 0, 0})
	require.NoError(t, err)
	defer g.Reclaim()

	require.False(t, g.IsSymmetric())
	require.Equal(t, 1, g.NumEdges())
	require.True(t, g.HasEdge(0, 1))
	require.False(t, g.HasEdge(1, 0))

	// The full matrix is kept so the two directions encode differently
	h, err := Encode(2, []int32{0, 0, 1, 0})
	require.NoError(t, err)
	defer h.Reclaim()
	require.NotEqual(t, g.AppendEncoding(nil), h.AppendEncoding(nil))
}

func TestRelabelCompare(t *testing.T) {
	// path 0-1-2
	g, err := Encode(3, []int32{
		0, 1, 0,
		1, 0, 1,
		0, 1, 0,
	})
	require.NoError(t, err)
	defer g.Reclaim()

	h := NewRows(0)
	defer h.Reclaim()

	// put the middle vertex first
	g.Relabel([]int32{1, 0, 2}, h)
	require.True(t, h.HasEdge(0, 1))
	require.True(t, h.HasEdge(0, 2))
	require.False(t, h.HasEdge(1, 2))
	require.NotEqual(t, 0, g.Compare(h))
	require.Equal(t, -g.Compare(h), h.Compare(g))

	c := NewRows(0)
	defer c.Reclaim()
	c.CopyFrom(h)
	require.Equal(t, 0, c.Compare(h))
	require.Equal(t, h.AppendEncoding(nil), c.AppendEncoding(nil))
}

func TestCountIn(t *testing.T) {
	g := NewRows(100)
	defer g.Reclaim()
	g.AddEdge(0, 1, false)
	g.AddEdge(0, 70, false)
	g.AddEdge(0, 99, false)

	set := make([]uint64, g.M)
	set[0] = 1 << 1
	set[1] = 1<<(70-64) | 1<<(98-64)
	require.Equal(t, 2, g.CountIn(0, set))
}
