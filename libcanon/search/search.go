// Package search computes a canonical labeling and the automorphism orbits of a graph with an
// initial ordered partition, by equitable refinement and individualization.
//
// The search tree is explored depth first. Each leaf is a discrete partition, i.e. a labeling;
// the canonical labeling is the leaf whose relabeled graph is greatest. Two leaves with equal
// relabeled graphs define an automorphism, which is kept as a generator and used to prune
// equivalent subtrees.
//
// Run holds no package state: concurrent calls on distinct arguments are safe.
package search

import (
	"github.com/2x3systems/gocanon/canon"
	"github.com/2x3systems/gocanon/libcanon/graph"
	"github.com/pkg/errors"
)

// Run canonizes g under the initial partition (lab, ptn).
//
// On return lab holds the canonical labeling (or the first leaf reached if opts.GetCanon is not set),
// orbits[v] holds the smallest vertex in v's orbit, and canong (if non-nil) holds g relabeled by lab.
// workspace must hold at least 2*canon.RowWords(g.N) words.
func Run(
	g *graph.Rows,
	lab, ptn, orbits []int32,
	opts *canon.Options,
	stats *canon.Stats,
	workspace []uint64,
	canong *graph.Rows,
) error {
	n := g.N
	m := g.M

	if len(lab) < n || len(ptn) < n || len(orbits) < n {
		return errors.Wrapf(canon.ErrInvalidArgument, "search buffers shorter than %d vertices", n)
	}
	if len(workspace) < 2*m {
		return errors.Wrapf(canon.ErrWorkspaceTooSmall, "have %d words, need %d", len(workspace), 2*m)
	}

	*stats = canon.Stats{GroupMantissa: 1}

	cells, err := initialCells(n, lab, ptn, opts.DefaultPtn)
	if err != nil {
		return err
	}

	s := &searcher{
		g:        g,
		n:        n,
		opts:     *opts,
		stats:    stats,
		splitSet: workspace[:m],
		reps:     workspace[m : 2*m],
		inQueue:  make([]bool, n),
		orbits:   newOrbitSet(n),
	}
	defer s.reclaim()

	if n > 0 {
		s.leafCanon = graph.NewRows(n)
		s.firstCanon = graph.NewRows(n)
		s.bestCanon = graph.NewRows(n)

		root := newPartition(n, cells)
		s.refine(root, root.cellStarts(nil))
		s.search(root, nil)
	}

	out := s.firstLab
	outCanon := s.firstCanon
	if s.opts.GetCanon {
		out = s.bestLab
		outCanon = s.bestCanon
	}
	copy(lab, out)
	for i := 0; i < n; i++ {
		ptn[i] = 0
	}
	for v := 0; v < n; v++ {
		orbits[v] = s.orbits.find(int32(v))
	}
	if canong != nil {
		if n > 0 {
			canong.CopyFrom(outCanon)
		} else {
			canong.Reset(0)
		}
	}

	stats.NumOrbits = s.orbits.count()
	stats.NumGenerators = len(s.gens)
	return nil
}

// initialCells reads the ordered partition encoded by (lab, ptn).
func initialCells(n int, lab, ptn []int32, defaultPtn bool) ([][]int32, error) {
	if n == 0 {
		return nil, nil
	}

	if defaultPtn {
		cell := make([]int32, n)
		for i := range cell {
			cell[i] = int32(i)
		}
		return [][]int32{cell}, nil
	}

	seen := make([]bool, n)
	var cells [][]int32
	start := 0
	for k := 0; k < n; k++ {
		v := lab[k]
		if v < 0 || int(v) >= n || seen[v] {
			return nil, errors.Wrapf(canon.ErrBadPartition, "lab[%d] = %d is not part of a permutation of %d vertices", k, v, n)
		}
		seen[v] = true

		switch ptn[k] {
		case 0:
			cell := make([]int32, k+1-start)
			copy(cell, lab[start:k+1])
			cells = append(cells, cell)
			start = k + 1
		case 1:
			if k == n-1 {
				return nil, errors.Wrap(canon.ErrBadPartition, "last cell is not terminated")
			}
		default:
			return nil, errors.Wrapf(canon.ErrBadPartition, "ptn[%d] = %d", k, ptn[k])
		}
	}
	return cells, nil
}

type searcher struct {
	g     *graph.Rows
	n     int
	opts  canon.Options
	stats *canon.Stats

	splitSet []uint64 // members of the current splitter cell, when wider than a row
	reps     []uint64 // orbit representatives of explored children
	splitter []int32  // vertices of the current splitter cell
	keys     []vtxKey // split keys of the cell being split
	queue    []int32  // starts of the splitter cells still to use
	inQueue  []bool   // inQueue[k] iff the cell starting at k is queued
	active   [1]int32 // splitter seed of a child node

	haveFirst  bool
	firstLab   []int32
	firstPath  []int32
	firstCanon *graph.Rows
	bestLab    []int32
	bestPath   []int32
	bestCanon  *graph.Rows
	leafCanon  *graph.Rows

	gens   [][]int32 // automorphisms found, gens[i][v] is the image of v
	orbits orbitSet
}

func (s *searcher) reclaim() {
	s.leafCanon.Reclaim()
	s.firstCanon.Reclaim()
	s.bestCanon.Reclaim()
	s.leafCanon, s.firstCanon, s.bestCanon = nil, nil, nil
}

// search explores the subtree rooted at the equitable partition p reached by individualizing path.
//
// It returns the level the search resumes at: the caller at level L keeps iterating its children
// iff the returned level is >= L, otherwise it returns the level unchanged.
func (s *searcher) search(p *partition, path []int32) int {
	level := len(path)
	s.stats.NumNodes++
	if level > s.stats.MaxLevel {
		s.stats.MaxLevel = level
	}

	target := p.firstNonSingleton()
	if target < 0 {
		return s.leaf(p.lab, path)
	}

	// children are visited in ascending vertex order; most nodes only ever visit the first
	cell := p.lab[target:p.cellEnd[target]]

	onFirstPath := !s.haveFirst || isPrefix(path, s.firstPath)

	// stabilizer orbits of path, grown as generators are found below this node
	var stab orbitSet
	stabGens := 0

	var explored []int32
	for v := nextAbove(cell, -1); v >= 0; v = nextAbove(cell, v) {
		if len(explored) > 0 && len(s.gens) > 0 {
			stab, stabGens = s.growStabilizer(stab, stabGens, path)
			if s.equivalentToExplored(stab, v, explored) {
				continue
			}
		}

		child := p.individualize(target, v)
		s.active[0] = int32(target)
		s.refine(child, s.active[:])

		resume := s.search(child, append(path[:level:level], v))
		explored = append(explored, v)
		if resume < level {
			return resume
		}
	}

	if onFirstPath && level < len(s.firstPath) {
		stab, _ = s.growStabilizer(stab, stabGens, path)
		s.stats.MultiplyGroupSize(stab.size(s.firstPath[level]))
	}

	return level - 1
}

// leaf compares the discrete partition lab against the first and best leaves.
func (s *searcher) leaf(lab, path []int32) int {
	level := len(path)
	s.stats.NumLeaves++

	s.g.Relabel(lab, s.leafCanon)

	if !s.haveFirst {
		s.haveFirst = true
		s.firstLab = lab
		s.firstPath = append([]int32(nil), path...)
		s.firstCanon.CopyFrom(s.leafCanon)
		s.bestLab = lab
		s.bestPath = s.firstPath
		s.bestCanon.CopyFrom(s.leafCanon)
		return level - 1
	}

	if s.leafCanon.Compare(s.firstCanon) == 0 {
		s.addAutomorphism(s.firstLab, lab)
		return commonPrefix(path, s.firstPath)
	}

	if !s.opts.GetCanon {
		return level - 1
	}

	switch s.leafCanon.Compare(s.bestCanon) {
	case 0:
		s.addAutomorphism(s.bestLab, lab)
		return commonPrefix(path, s.bestPath)
	case 1:
		s.bestLab = lab
		s.bestPath = append([]int32(nil), path...)
		s.bestCanon.CopyFrom(s.leafCanon)
		s.stats.CanUpdates++
	}

	return level - 1
}

// addAutomorphism records the automorphism taking from[k] to to[k] for all k.
func (s *searcher) addAutomorphism(from, to []int32) {
	gen := make([]int32, s.n)
	for k, v := range from {
		gen[v] = to[k]
	}
	for v, w := range gen {
		s.orbits.union(int32(v), w)
	}
	s.gens = append(s.gens, gen)
}

// equivalentToExplored reports if the stabilizer orbits stab join v with an explored child.
func (s *searcher) equivalentToExplored(stab orbitSet, v int32, explored []int32) bool {
	for w := range s.reps {
		s.reps[w] = 0
	}
	for _, u := range explored {
		r := stab.find(u)
		s.reps[r>>6] |= 1 << (uint(r) & 63)
	}
	r := stab.find(v)
	return s.reps[r>>6]&(1<<(uint(r)&63)) != 0
}

// growStabilizer merges into stab the generators from gens[from:] that fix every vertex of path.
// A nil stab starts from the trivial orbits. Returns stab and the number of generators merged so far.
func (s *searcher) growStabilizer(stab orbitSet, from int, path []int32) (orbitSet, int) {
	if stab == nil {
		stab = newOrbitSet(s.n)
	}
	for _, gen := range s.gens[from:] {
		fixes := true
		for _, p := range path {
			if gen[p] != p {
				fixes = false
				break
			}
		}
		if !fixes {
			continue
		}
		for v, w := range gen {
			stab.union(int32(v), w)
		}
	}
	return stab, len(s.gens)
}

// nextAbove returns the smallest vertex in cell greater than prev, or -1.
func nextAbove(cell []int32, prev int32) int32 {
	next := int32(-1)
	for _, v := range cell {
		if v > prev && (next < 0 || v < next) {
			next = v
		}
	}
	return next
}

func isPrefix(path, of []int32) bool {
	if len(path) > len(of) {
		return false
	}
	for i, v := range path {
		if of[i] != v {
			return false
		}
	}
	return true
}

func commonPrefix(a, b []int32) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}
