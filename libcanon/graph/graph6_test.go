package graph

import (
	"errors"
	"testing"

	"github.com/2x3systems/gocanon/canon"
	"github.com/stretchr/testify/require"
)

func TestGraph6(t *testing.T) {
	tests := []struct {
		name string
		n    int
		adj  []int32
		g6   string
	}{
		{"single vertex", 1, []int32{0}, "@"},
		{"single edge", 2, []int32{0, 1, 1, 0}, "A_"},
		{"triangle", 3, []int32{0, 1, 1, 1, 0, 1, 1, 1, 0}, "Bw"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g, err := Encode(test.n, test.adj)
			require.NoError(t, err)
			defer g.Reclaim()

			g6, err := g.Graph6()
			require.NoError(t, err)
			require.Equal(t, test.g6, g6)

			back, err := DecodeGraph6(g6)
			require.NoError(t, err)
			defer back.Reclaim()
			require.Equal(t, 0, back.Compare(g))
		})
	}
}

func TestGraph6Refused(t *testing.T) {
	loop, err := Encode(1, []int32{1})
	require.NoError(t, err)
	defer loop.Reclaim()
	_, err = loop.Graph6()
	require.True(t, errors.Is(err, canon.ErrSelfLoop))

	arc, err := Encode(2, []int32{0, 1, 0, 0})
	require.NoError(t, err)
	defer arc.Reclaim()
	_, err = arc.Graph6()
	require.True(t, errors.Is(err, canon.ErrAsymmetric))
}
