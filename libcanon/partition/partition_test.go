package partition

import (
	"errors"
	"testing"

	"github.com/2x3systems/gocanon/canon"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name       string
		colors     []int32
		lab        []int32
		ptn        []int32
		defaultPtn bool
	}{
		{
			name:       "uncolored",
			colors:     nil,
			lab:        []int32{0, 1, 2, 3},
			ptn:        []int32{1, 1, 1, 0},
			defaultPtn: true,
		},
		{
			name:   "ties keep vertex order",
			colors: []int32{2, 1, 2, 1},
			lab:    []int32{1, 3, 0, 2},
			ptn:    []int32{1, 0, 1, 0},
		},
		{
			name:   "negative and sparse colors",
			colors: []int32{5, -3, 100, 5},
			lab:    []int32{1, 0, 3, 2},
			ptn:    []int32{0, 1, 0, 0},
		},
		{
			name:   "all distinct",
			colors: []int32{3, 2, 1, 0},
			lab:    []int32{3, 2, 1, 0},
			ptn:    []int32{0, 0, 0, 0},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lab := make([]int32, 4)
			ptn := make([]int32, 4)
			defaultPtn, err := Build(4, test.colors, lab, ptn)
			require.NoError(t, err)
			require.Equal(t, test.defaultPtn, defaultPtn)
			require.Equal(t, test.lab, lab)
			require.Equal(t, test.ptn, ptn)
			require.Equal(t, NumColors(4, test.colors), NumCells(ptn))
		})
	}
}

func TestBuildEmpty(t *testing.T) {
	defaultPtn, err := Build(0, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, defaultPtn)
	require.Equal(t, 0, NumColors(0, nil))
}

func TestBuildInvalid(t *testing.T) {
	lab := make([]int32, 3)
	ptn := make([]int32, 3)

	_, err := Build(3, []int32{0, 1}, lab, ptn)
	require.True(t, errors.Is(err, canon.ErrInvalidArgument))

	_, err = Build(3, nil, lab[:2], ptn)
	require.True(t, errors.Is(err, canon.ErrInvalidArgument))
}
