package search

import (
	"sort"
)

// partition is an ordered partition of the vertices.
// Its cells are the ranges lab[k:cellEnd[k]] for each cell start k; cellEnd is only meaningful at cell starts.
type partition struct {
	lab     []int32
	cellEnd []int32
	cells   int
}

// newPartition returns the partition of cells given in order.
func newPartition(n int, cells [][]int32) *partition {
	p := &partition{
		lab:     make([]int32, 0, n),
		cellEnd: make([]int32, n),
		cells:   len(cells),
	}
	for _, cell := range cells {
		start := len(p.lab)
		p.lab = append(p.lab, cell...)
		p.cellEnd[start] = int32(len(p.lab))
	}
	return p
}

func (p *partition) clone() *partition {
	return &partition{
		lab:     append([]int32(nil), p.lab...),
		cellEnd: append([]int32(nil), p.cellEnd...),
		cells:   p.cells,
	}
}

func (p *partition) isDiscrete() bool {
	return p.cells == len(p.lab)
}

// cellStarts appends the start of every cell, in order.
func (p *partition) cellStarts(starts []int32) []int32 {
	for k := 0; k < len(p.lab); k = int(p.cellEnd[k]) {
		starts = append(starts, int32(k))
	}
	return starts
}

// firstNonSingleton returns the start of the first cell holding more than one vertex, or -1.
func (p *partition) firstNonSingleton() int {
	for k := 0; k < len(p.lab); k = int(p.cellEnd[k]) {
		if int(p.cellEnd[k])-k > 1 {
			return k
		}
	}
	return -1
}

// individualize returns a copy of p with v split off the front of the cell starting at start.
func (p *partition) individualize(start int, v int32) *partition {
	c := p.clone()
	end := c.cellEnd[start]
	for i := start; i < int(end); i++ {
		if c.lab[i] == v {
			c.lab[i] = c.lab[start]
			c.lab[start] = v
			break
		}
	}
	c.cellEnd[start] = int32(start + 1)
	c.cellEnd[start+1] = end
	c.cells++
	return c
}

// refine splits the cells of p until p is equitable: for every pair of cells X, W,
// all vertices of X have the same number of neighbors in W.
//
// Only the cells starting at the positions in active are used as splitters at first; a cell
// that splits queues its pieces, all but the largest unless it was already queued. Pieces are
// ordered by ascending neighbor count, so the outcome depends only on the cell order and the
// graph, never on vertex numbering.
func (s *searcher) refine(p *partition, active []int32) {
	n := len(p.lab)
	queue := s.queue[:0]
	for _, k := range active {
		if !s.inQueue[k] {
			s.inQueue[k] = true
			queue = append(queue, k)
		}
	}

	head := 0
	for ; head < len(queue) && !p.isDiscrete(); head++ {
		start := queue[head]
		s.inQueue[start] = false

		// the splitter cell may itself split during this pass
		s.splitter = append(s.splitter[:0], p.lab[start:p.cellEnd[start]]...)
		s.loadSplitSet()

		for k := 0; k < n; {
			end := int(p.cellEnd[k])
			if end-k > 1 {
				queue = s.splitCell(p, k, end, queue)
			}
			k = end
		}
	}

	for _, k := range queue[head:] {
		s.inQueue[k] = false
	}
	s.queue = queue[:0]
}

func (s *searcher) loadSplitSet() {
	if len(s.splitter) <= s.g.M {
		return
	}
	for w := range s.splitSet {
		s.splitSet[w] = 0
	}
	for _, u := range s.splitter {
		s.splitSet[u>>6] |= 1 << (uint(u) & 63)
	}
}

// splitKey returns the number of neighbors v has in the current splitter (and, for digraphs,
// the number of splitter vertices pointing at v in the high word).
func (s *searcher) splitKey(v int32) int64 {
	var key int64
	if len(s.splitter) <= s.g.M {
		for _, u := range s.splitter {
			if s.g.HasEdge(int(v), int(u)) {
				key++
			}
		}
	} else {
		key = int64(s.g.CountIn(int(v), s.splitSet))
	}

	if s.opts.Digraph {
		in := 0
		for _, u := range s.splitter {
			if s.g.HasEdge(int(u), int(v)) {
				in++
			}
		}
		key |= int64(in) << 32
	}
	return key
}

type vtxKey struct {
	v   int32
	key int64
}

// splitCell divides the cell lab[start:end] by neighbor count into the current splitter,
// queueing the new pieces.
func (s *searcher) splitCell(p *partition, start, end int, queue []int32) []int32 {
	keys := s.keys[:0]
	uniform := true
	for _, v := range p.lab[start:end] {
		key := s.splitKey(v)
		keys = append(keys, vtxKey{v, key})
		if key != keys[0].key {
			uniform = false
		}
	}
	s.keys = keys
	if uniform {
		return queue
	}

	sort.SliceStable(keys, func(i, j int) bool { return keys[i].key < keys[j].key })
	for i, vk := range keys {
		p.lab[start+i] = vk.v
	}

	largest, largestLen := start, 0
	pieceStart := start
	for i := start + 1; i <= end; i++ {
		if i == end || keys[i-start].key != keys[pieceStart-start].key {
			p.cellEnd[pieceStart] = int32(i)
			if i-pieceStart > largestLen {
				largest, largestLen = pieceStart, i-pieceStart
			}
			if pieceStart > start {
				p.cells++
			}
			pieceStart = i
		}
	}

	wasQueued := s.inQueue[start]
	for k := start; k < end; k = int(p.cellEnd[k]) {
		if s.inQueue[k] || (!wasQueued && k == largest) {
			continue
		}
		s.inQueue[k] = true
		queue = append(queue, int32(k))
	}
	return queue
}

// orbitSet is a union-find over vertices whose roots are the smallest member of each class.
type orbitSet []int32

func newOrbitSet(n int) orbitSet {
	o := make(orbitSet, n)
	for i := range o {
		o[i] = int32(i)
	}
	return o
}

func (o orbitSet) find(v int32) int32 {
	for o[v] != v {
		o[v] = o[o[v]]
		v = o[v]
	}
	return v
}

func (o orbitSet) union(a, b int32) {
	ra, rb := o.find(a), o.find(b)
	switch {
	case ra < rb:
		o[rb] = ra
	case rb < ra:
		o[ra] = rb
	}
}

// size returns the number of vertices in v's class.
func (o orbitSet) size(v int32) int {
	r := o.find(v)
	count := 0
	for u := range o {
		if o.find(int32(u)) == r {
			count++
		}
	}
	return count
}

// count returns the number of classes.
func (o orbitSet) count() int {
	classes := 0
	for v := range o {
		if o[v] == int32(v) {
			classes++
		}
	}
	return classes
}
