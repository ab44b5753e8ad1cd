package canon_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/2x3systems/gocanon/canon"
	"github.com/2x3systems/gocanon/libcanon"
	"github.com/stretchr/testify/require"
)

type bufCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufCloser) Close() error {
	b.closed = true
	return nil
}

func graphsFor(t *testing.T, exprs ...string) []canon.GraphState {
	graphs := make([]canon.GraphState, len(exprs))
	for i, expr := range exprs {
		X, err := libcanon.NewGraphFromString(expr)
		require.NoError(t, err)
		graphs[i] = X
	}
	return graphs
}

func TestStreamPipeline(t *testing.T) {
	graphs := graphsFor(t, "1-2-3", "3-2-1", "1-2, 3", "1-2-3-1", "2-3-1-2")
	dd := libcanon.NewDropDupes(libcanon.DropDupeOpts{})

	out := &bufCloser{}
	count := canon.StreamGraphs(graphs).
		Canonize().
		AddTo(dd).
		Print(out, canon.PrintOpts{Label: "g", Graph: true}).
		PullAll()

	require.Equal(t, 3, count)
	require.True(t, out.closed)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, `g,000001,g,n=3,"1-2-3"`, lines[0])
	require.True(t, strings.HasPrefix(lines[2], "g,000003,"))

	// sources are copied, not consumed
	for _, X := range graphs {
		require.Equal(t, 3, X.NumVerts())
		X.Reclaim()
	}
}

func TestSelectFromStream(t *testing.T) {
	graphs := graphsFor(t, "1", "1-2", "1-2-3", "1-2-3-4", "1^-2")

	sel := canon.DefaultGraphSelector
	sel.Min.NumVerts = 2
	sel.Max.NumVerts = 3
	sel.Max.NumLoops = 0
	require.Equal(t, 2, canon.StreamGraphs(graphs).SelectFromStream(sel).PullAll())

	for _, X := range graphs {
		X.Reclaim()
	}
}

func TestStreamGraph(t *testing.T) {
	X, err := libcanon.NewGraphFromString("1-2")
	require.NoError(t, err)
	defer X.Reclaim()

	stream := canon.StreamGraph(X)
	Y := stream.PullGraph()
	require.NotNil(t, Y)
	require.NotSame(t, X, Y)
	require.Equal(t, X.GetInfo(), Y.GetInfo())
	Y.Reclaim()
	require.Zero(t, stream.PullAll())
}

func TestGraphSelector(t *testing.T) {
	sel := canon.DefaultGraphSelector
	require.True(t, sel.SelectsInfo(canon.GraphInfo{NumVerts: 5, NumEdges: 4}))

	sel.Max.NumEdges = 3
	require.False(t, sel.SelectsInfo(canon.GraphInfo{NumVerts: 5, NumEdges: 4}))

	sel.Min.NumOrbits = 1
	require.False(t, sel.SelectsInfo(canon.GraphInfo{NumVerts: 5, NumEdges: 2}))
}

func TestGraphInfoHeader(t *testing.T) {
	info := canon.GraphInfo{NumVerts: 300, NumEdges: 70000, NumLoops: 3, NumColors: 4, NumOrbits: 9}
	header := info.AppendGraphInfoHeader(nil)
	require.Len(t, header, canon.GraphInfoHeaderLen)

	var got canon.GraphInfo
	require.NoError(t, got.ReadGraphInfoHeader(header))
	info.NumOrbits = 0
	require.Equal(t, info, got)

	require.ErrorIs(t, got.ReadGraphInfoHeader(header[:4]), canon.ErrUnmarshal)

	small := canon.GraphInfo{NumVerts: 2, NumEdges: 1000}
	big := canon.GraphInfo{NumVerts: 3}
	require.Equal(t, -1, bytes.Compare(small.AppendGraphInfoHeader(nil), big.AppendGraphInfoHeader(nil)))
}

func TestPrintEmptyStream(t *testing.T) {
	out := &bufCloser{}
	require.Zero(t, canon.StreamGraphs(nil).Print(out, canon.PrintOpts{}).PullAll())
	require.True(t, out.closed)
	require.Zero(t, out.Len())
}

func TestPushPull(t *testing.T) {
	X, err := libcanon.NewGraphFromString("1-2-3")
	require.NoError(t, err)
	defer X.Reclaim()

	stream := canon.NewGraphStream()
	stream.PushGraph(X)
	stream.Close()

	out := &bufCloser{}
	require.Equal(t, 1, stream.Canonize().Print(out, canon.PrintOpts{}).PullAll())
	require.True(t, strings.HasPrefix(out.String(), ",000001,"))
}
