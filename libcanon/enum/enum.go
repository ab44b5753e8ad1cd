package enum

import (
	"context"

	"github.com/2x3systems/gocanon/canon"
	"github.com/2x3systems/gocanon/libcanon"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// AllGraphs returns a stream of every labeled graph selected by opts, in ascending order of edge mask.
// The stream closes once all graphs are sent or ctx is done.
func AllGraphs(ctx context.Context, opts EnumOpts) (*canon.GraphStream, error) {
	n := opts.NumVerts
	if n < 0 || n > MaxVertices {
		return nil, errors.Wrapf(canon.ErrInvalidArgument, "enumeration supports 0..%d vertices, got %d", MaxVertices, n)
	}
	if opts.Colors != nil && len(opts.Colors) != n {
		return nil, errors.Wrapf(canon.ErrInvalidArgument, "coloring has %d entries, expected %d", len(opts.Colors), n)
	}

	ew := newEdgeWalker(opts)
	if len(ew.pairs) > 62 {
		return nil, errors.Wrapf(canon.ErrInvalidArgument, "%d vertex pairs exceed the edge mask", len(ew.pairs))
	}
	stream := canon.NewGraphStream()

	go func() {
		defer stream.Close()

		count := 0
		for mask := uint64(0); mask < ew.numMasks; mask++ {
			X, err := ew.graphFor(mask)
			if err != nil {
				klog.Errorf("enum: %v", err)
				return
			}
			select {
			case stream.Outlet <- X:
				count++
			case <-ctx.Done():
				X.Reclaim()
				return
			}
		}
		klog.V(2).Infof("enum: emitted %d labeled graphs on %d vertices", count, n)
	}()

	return stream, nil
}

// edgeWalker maps each bit of an edge mask to a vertex pair (or a loop).
type edgeWalker struct {
	opts     EnumOpts
	pairs    [][2]int
	numMasks uint64
	adj      []int32
}

func newEdgeWalker(opts EnumOpts) *edgeWalker {
	n := opts.NumVerts
	ew := &edgeWalker{
		opts: opts,
		adj:  make([]int32, n*n),
	}
	for i := 0; i < n; i++ {
		if opts.Loops {
			ew.pairs = append(ew.pairs, [2]int{i, i})
		}
		for j := i + 1; j < n; j++ {
			ew.pairs = append(ew.pairs, [2]int{i, j})
		}
	}
	ew.numMasks = uint64(1) << len(ew.pairs)
	return ew
}

func (ew *edgeWalker) graphFor(mask uint64) (*libcanon.Graph, error) {
	n := ew.opts.NumVerts
	for i := range ew.adj {
		ew.adj[i] = 0
	}
	for bit, pair := range ew.pairs {
		if mask&(1<<bit) != 0 {
			a, b := pair[0], pair[1]
			ew.adj[a*n+b] = 1
			ew.adj[b*n+a] = 1
		}
	}
	return libcanon.NewGraphFromMatrix(n, ew.adj, ew.opts.Colors)
}
