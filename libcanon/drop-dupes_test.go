package libcanon

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/2x3systems/gocanon/canon"
	"github.com/stretchr/testify/require"
)

func TestDropDupes(t *testing.T) {
	dd := NewDropDupes(DropDupeOpts{PoolSz: 16})

	exprs := []struct {
		expr  string
		added bool
	}{
		{"1-2-3", true},
		{"3-1-2", false},
		{"1-2, 3", true},
		{"1-3, 2", false},
		{"1-2-3-1", true},
		{"1:1-2-3", true},
		{"1-2-3:1", false},
		{"1-2:1-3", true},
		{"1^-2-3", true},
	}

	for _, test := range exprs {
		X, err := NewGraphFromString(test.expr)
		require.NoError(t, err)
		require.Equal(t, test.added, dd.TryAddGraph(X), test.expr)
		X.Reclaim()
	}
	require.Equal(t, 6, dd.Len())

	dd.Reset()
	require.Zero(t, dd.Len())

	X, err := NewGraphFromString("2-3-1")
	require.NoError(t, err)
	defer X.Reclaim()
	require.True(t, dd.TryAddGraph(X))
}

func TestDropDupesRefusesBadGraph(t *testing.T) {
	dd := NewDropDupes(DropDupeOpts{})

	X := NewGraph(nil)
	defer X.Reclaim()
	X.n = 2
	X.adj = []int32{0, 1}

	require.False(t, dd.TryAddGraph(X))
	require.Zero(t, dd.Len())
}

func TestCanonizeAll(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	graphs := make([]*Graph, 40)
	for i := range graphs {
		n := 1 + rng.Intn(10)
		X, err := NewGraphFromMatrix(n, randomGraph(rng, n, 0.5), nil)
		require.NoError(t, err)
		graphs[i] = X
	}
	defer func() {
		for _, X := range graphs {
			X.Reclaim()
		}
	}()

	require.NoError(t, CanonizeAll(context.Background(), graphs, 4))

	for _, X := range graphs {
		require.True(t, X.IsCanonized())

		lab := make([]int32, X.NumVerts())
		orbits := make([]int32, X.NumVerts())
		require.NoError(t, ComputeCanonicalLabeling(X.NumVerts(), X.Adjacency(), nil, lab, orbits))

		xl, err := X.Labeling()
		require.NoError(t, err)
		xo, err := X.Orbits()
		require.NoError(t, err)
		require.Equal(t, lab, xl)
		require.Equal(t, orbits, xo)
	}
}

func TestCanonizeAllFailure(t *testing.T) {
	good, err := NewGraphFromString("1-2")
	require.NoError(t, err)
	defer good.Reclaim()

	bad := NewGraph(nil)
	defer bad.Reclaim()
	bad.n = 3
	bad.adj = []int32{0}

	err = CanonizeAll(context.Background(), []*Graph{good, bad}, 1)
	require.Error(t, err)
	require.True(t, errors.Is(err, canon.ErrInvalidArgument))
	require.Contains(t, err.Error(), "graph #1")
}

func TestCanonizeAllCancelled(t *testing.T) {
	X, err := NewGraphFromString("1-2-3")
	require.NoError(t, err)
	defer X.Reclaim()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, CanonizeAll(ctx, []*Graph{X}, 2), context.Canceled)
	require.False(t, X.IsCanonized())
}
