package pycanon

import (
	"testing"

	"github.com/go-python/gpython/py"
	"github.com/stretchr/testify/require"
)

func TestLoadInt32s(t *testing.T) {
	vals, err := loadInt32s(py.Tuple{py.Int(0), py.Int(-5), py.Int(1<<31 - 1)})
	require.NoError(t, err)
	require.Equal(t, []int32{0, -5, 1<<31 - 1}, vals)

	_, err = loadInt32s(py.Tuple{py.Int(0), py.Int(1 << 32)})
	require.True(t, py.IsException(py.ValueError, err))

	_, err = loadInt32s(py.Tuple{py.Int(-1<<31 - 1)})
	require.True(t, py.IsException(py.ValueError, err))
}

func TestCanonicalLabelingRange(t *testing.T) {
	edge := py.Tuple{py.Int(0), py.Int(1), py.Int(1), py.Int(0)}

	// distinct colors that only differ past 32 bits must not merge into one cell
	_, err := py_CanonicalLabeling(nil, py.Tuple{py.Int(2), edge, py.Tuple{py.Int(0), py.Int(1 << 32)}})
	require.True(t, py.IsException(py.ValueError, err))

	// an adjacency entry of 1<<32 must not silently drop the edge
	wide := py.Tuple{py.Int(0), py.Int(1 << 32), py.Int(1 << 32), py.Int(0)}
	_, err = py_CanonicalLabeling(nil, py.Tuple{py.Int(2), wide})
	require.True(t, py.IsException(py.ValueError, err))

	res, err := py_CanonicalLabeling(nil, py.Tuple{py.Int(2), edge, py.Tuple{py.Int(0), py.Int(1)}})
	require.NoError(t, err)
	require.Equal(t, py.Tuple{py.Tuple{py.Int(0), py.Int(1)}, py.Tuple{py.Int(0), py.Int(1)}}, res)
}

func TestGroupSizeTuple(t *testing.T) {
	X, err := py_NewGraph(nil, py.Tuple{py.String("1-2-3-1")})
	require.NoError(t, err)

	size, err := py_Graph_GroupSize(X, nil)
	require.NoError(t, err)
	require.Equal(t, py.Tuple{py.Float(6), py.Int(0)}, size)
}
