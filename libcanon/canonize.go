package libcanon

import (
	"sync"

	"github.com/2x3systems/gocanon/canon"
	"github.com/2x3systems/gocanon/libcanon/graph"
	"github.com/2x3systems/gocanon/libcanon/partition"
	"github.com/2x3systems/gocanon/libcanon/search"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Canonizer is the context for canonical labeling calls.
//
// A Canonizer resets its oracle Options at the start of every call and keeps the Stats of the
// last call. Calls on one Canonizer are serialized; distinct Canonizers may run concurrently.
type Canonizer struct {
	mu    sync.Mutex
	opts  canon.Options
	stats canon.Stats
}

// NewCanonizer returns a Canonizer ready for use.
func NewCanonizer() *Canonizer {
	return &Canonizer{
		opts: canon.DefaultOptions,
	}
}

// defaultCanonizer backs the package-level entry points, so they run one at a time per process.
var defaultCanonizer = NewCanonizer()

// ComputeCanonicalLabeling computes the canonical labeling and automorphism orbits of the graph on n
// vertices given by the row-major adjacency matrix adj (n*n entries, nonzero = edge).
//
// colors is nil or holds one color per vertex; vertices are only ever mapped onto vertices of the
// same color. On success, labOut[k] is the vertex at canonical position k and orbitsOut[v] is the
// smallest vertex in v's orbit; labOut and orbitsOut must hold at least n entries.
//
// On error, labOut and orbitsOut are untouched.
// Calls are serialized through a process-wide Canonizer.
func ComputeCanonicalLabeling(n int, adj, colors, labOut, orbitsOut []int32) error {
	return defaultCanonizer.Canonize(n, adj, colors, labOut, orbitsOut, nil)
}

// ComputeOrbitsOnly is ComputeCanonicalLabeling for an uncolored graph, keeping only the orbits.
func ComputeOrbitsOnly(n int, adj, orbitsOut []int32) error {
	return defaultCanonizer.Orbits(n, adj, orbitsOut)
}

// LastStats returns the Stats of the most recent package-level call.
func LastStats() canon.Stats {
	return defaultCanonizer.Stats()
}

// Options returns the oracle Options of this Canonizer's most recent call.
func (cz *Canonizer) Options() canon.Options {
	cz.mu.Lock()
	defer cz.mu.Unlock()
	return cz.opts
}

// Stats returns the Stats of this Canonizer's most recent call.
func (cz *Canonizer) Stats() canon.Stats {
	cz.mu.Lock()
	defer cz.mu.Unlock()
	return cz.stats
}

// Orbits computes only the orbit array of an uncolored graph.
func (cz *Canonizer) Orbits(n int, adj, orbitsOut []int32) error {
	if err := validateArgs(n, adj, nil, orbitsOut, orbitsOut); err != nil {
		return err
	}

	lab, releaseLab := getInt32Slice(n)
	defer releaseLab()

	return cz.Canonize(n, adj, nil, lab, orbitsOut, nil)
}

// Canonize runs one canonical labeling call: encode, build the initial partition, search once, extract.
// If canong is non-nil, it receives the graph relabeled into canonical order.
func (cz *Canonizer) Canonize(n int, adj, colors, labOut, orbitsOut []int32, canong *graph.Rows) error {
	if err := validateArgs(n, adj, colors, labOut, orbitsOut); err != nil {
		return err
	}

	cz.mu.Lock()
	defer cz.mu.Unlock()

	cz.opts = canon.Options{
		GetCanon: true,
		Digraph:  false,
	}

	g, err := graph.Encode(n, adj)
	if err != nil {
		return err
	}
	defer g.Reclaim()

	if n > 0 && bool(klog.V(1)) && !g.IsSymmetric() {
		klog.Infof("canonize: adjacency on %d vertices is not symmetric; rows are read as given", n)
	}

	lab, releaseLab := getInt32Slice(n)
	defer releaseLab()
	ptn, releasePtn := getInt32Slice(n)
	defer releasePtn()
	orbits, releaseOrbits := getInt32Slice(n)
	defer releaseOrbits()
	workspace, releaseWorkspace := getWordSlice(canon.WorkspaceWordsPerRow * g.M)
	defer releaseWorkspace()

	if cz.opts.DefaultPtn, err = partition.Build(n, colors, lab, ptn); err != nil {
		return err
	}

	if err = search.Run(g, lab, ptn, orbits, &cz.opts, &cz.stats, workspace, canong); err != nil {
		return errors.Wrap(err, "canonical labeling search failed")
	}

	extract(n, lab, orbits, labOut, orbitsOut)

	klog.V(2).Infof("canonized n=%d: %d orbits, %d generators, |Aut|=%s, %d nodes",
		n, cz.stats.NumOrbits, cz.stats.NumGenerators, cz.stats.GroupSizeString(), cz.stats.NumNodes)
	return nil
}

// validateArgs checks every caller buffer against n before anything is acquired.
func validateArgs(n int, adj, colors, labOut, orbitsOut []int32) error {
	switch {
	case n < 0:
		return errors.Wrapf(canon.ErrInvalidArgument, "negative vertex count %d", n)
	case n > canon.MaxVertices:
		return errors.Wrapf(canon.ErrAllocation, "%d vertices exceeds the limit of %d", n, canon.MaxVertices)
	case len(adj) != n*n:
		return errors.Wrapf(canon.ErrInvalidArgument, "adjacency has %d entries, expected %d", len(adj), n*n)
	case colors != nil && len(colors) != n:
		return errors.Wrapf(canon.ErrInvalidArgument, "coloring has %d entries, expected %d", len(colors), n)
	case len(labOut) < n:
		return errors.Wrapf(canon.ErrInvalidArgument, "labeling buffer holds %d entries, expected %d", len(labOut), n)
	case len(orbitsOut) < n:
		return errors.Wrapf(canon.ErrInvalidArgument, "orbits buffer holds %d entries, expected %d", len(orbitsOut), n)
	}
	return nil
}

// extract copies the first n entries of the search outputs into the caller's buffers.
func extract(n int, lab, orbits, labOut, orbitsOut []int32) {
	copy(labOut[:n], lab[:n])
	copy(orbitsOut[:n], orbits[:n])
}
