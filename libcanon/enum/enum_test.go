package enum

import (
	"context"
	"errors"
	"testing"

	"github.com/2x3systems/gocanon/canon"
	"github.com/2x3systems/gocanon/libcanon"
	"github.com/stretchr/testify/require"
)

func countClasses(t *testing.T, opts EnumOpts) int {
	stream, err := AllGraphs(context.Background(), opts)
	require.NoError(t, err)

	dd := libcanon.NewDropDupes(libcanon.DropDupeOpts{})
	count := stream.Canonize().AddTo(dd).PullAll()
	require.Equal(t, dd.Len(), count)
	return count
}

func TestUnlabeledGraphCounts(t *testing.T) {
	// OEIS A000088
	want := []int{1, 1, 2, 4, 11, 34, 156}
	for n := 0; n <= 6; n++ {
		require.Equal(t, want[n], countClasses(t, EnumOpts{NumVerts: n}), "n=%d", n)
	}
}

func TestLabeledGraphCount(t *testing.T) {
	stream, err := AllGraphs(context.Background(), EnumOpts{NumVerts: 4})
	require.NoError(t, err)
	require.Equal(t, 64, stream.PullAll())
}

func TestGraphsWithLoops(t *testing.T) {
	// OEIS A000666
	want := []int{1, 2, 6, 20}
	for n := 0; n <= 3; n++ {
		require.Equal(t, want[n], countClasses(t, EnumOpts{NumVerts: n, Loops: true}), "n=%d", n)
	}
}

func TestColoredEnumeration(t *testing.T) {
	// one vertex colored apart: rooted graphs on 3 vertices
	require.Equal(t, 6, countClasses(t, EnumOpts{NumVerts: 3, Colors: []int32{1, 0, 0}}))

	// all three colored apart: every labeled graph is its own class
	require.Equal(t, 8, countClasses(t, EnumOpts{NumVerts: 3, Colors: []int32{3, 2, 1}}))
}

func TestEnumErrors(t *testing.T) {
	_, err := AllGraphs(context.Background(), EnumOpts{NumVerts: -1})
	require.True(t, errors.Is(err, canon.ErrInvalidArgument))

	_, err = AllGraphs(context.Background(), EnumOpts{NumVerts: MaxVertices + 1})
	require.True(t, errors.Is(err, canon.ErrInvalidArgument))

	_, err = AllGraphs(context.Background(), EnumOpts{NumVerts: MaxVertices, Loops: true})
	require.True(t, errors.Is(err, canon.ErrInvalidArgument))

	_, err = AllGraphs(context.Background(), EnumOpts{NumVerts: 3, Colors: []int32{1}})
	require.True(t, errors.Is(err, canon.ErrInvalidArgument))
}

func TestEnumCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stream, err := AllGraphs(ctx, EnumOpts{NumVerts: 8})
	require.NoError(t, err)

	X := stream.PullGraph()
	require.NotNil(t, X)
	require.Equal(t, 8, X.NumVerts())
	X.Reclaim()

	cancel()
	require.Less(t, stream.PullAll(), 1<<28)
}
