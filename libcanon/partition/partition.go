// Package partition builds the initial ordered partition (lab, ptn) handed to the canonical labeling search.
//
// lab lists the vertices cell by cell; ptn[k] is 1 iff lab[k] and lab[k+1] are in the same cell,
// so ptn[n-1] is always 0.
package partition

import (
	"github.com/2x3systems/gocanon/canon"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/pkg/errors"
)

// Build fills lab and ptn for n vertices from an optional per-vertex coloring.
//
// With no coloring, all vertices form one cell in index order and defaultPtn is returned true.
// Otherwise vertices are grouped by ascending color; vertices sharing a color keep ascending
// index order, which is the result of a stable sort of (color, vertex) pairs by color.
func Build(n int, colors []int32, lab, ptn []int32) (defaultPtn bool, err error) {
	if n < 0 {
		return false, errors.Wrapf(canon.ErrInvalidArgument, "negative vertex count %d", n)
	}
	if len(lab) < n || len(ptn) < n {
		return false, errors.Wrapf(canon.ErrInvalidArgument, "partition buffers hold %d/%d entries, expected %d", len(lab), len(ptn), n)
	}

	if colors == nil {
		for i := 0; i < n; i++ {
			lab[i] = int32(i)
			ptn[i] = 1
		}
		if n > 0 {
			ptn[n-1] = 0
		}
		return true, nil
	}

	if len(colors) != n {
		return false, errors.Wrapf(canon.ErrInvalidArgument, "coloring has %d entries, expected %d", len(colors), n)
	}

	cells := colorCells(colors)

	k := 0
	it := cells.Iterator()
	for it.Next() {
		cell := it.Value().([]int32)
		for i, v := range cell {
			lab[k] = v
			if i < len(cell)-1 {
				ptn[k] = 1
			} else {
				ptn[k] = 0
			}
			k++
		}
	}

	return false, nil
}

// colorCells maps each color to the vertices carrying it, in ascending vertex order.
func colorCells(colors []int32) *redblacktree.Tree {
	cells := redblacktree.NewWith(int32Comparator)
	for v, c := range colors {
		var cell []int32
		if existing, found := cells.Get(c); found {
			cell = existing.([]int32)
		}
		cells.Put(c, append(cell, int32(v)))
	}
	return cells
}

func int32Comparator(a, b interface{}) int {
	ca, cb := a.(int32), b.(int32)
	switch {
	case ca < cb:
		return -1
	case ca > cb:
		return 1
	}
	return 0
}

// NumCells returns the number of cells described by ptn.
func NumCells(ptn []int32) int {
	cells := 0
	for _, p := range ptn {
		if p == 0 {
			cells++
		}
	}
	return cells
}

// NumColors returns the number of distinct values in colors, or 1 if colors is nil and n > 0.
func NumColors(n int, colors []int32) int {
	if n == 0 {
		return 0
	}
	if colors == nil {
		return 1
	}
	return colorCells(colors).Size()
}
