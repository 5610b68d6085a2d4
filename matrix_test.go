package sos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNeighborMatrixFromDense_ClearsDiagonal(t *testing.T) {
	flat := []float64{
		9, 1, 2,
		3, 9, 4,
		5, 6, 9,
	}

	m, err := NeighborMatrixFromDense(flat, 3)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Zero(t, m.At(i, i))
	}
	assert.Equal(t, []float64{1, 2}, m.Neighbors(0))
	assert.Equal(t, []float64{3, 4}, m.Neighbors(1))
	assert.Equal(t, []float64{5, 6}, m.Neighbors(2))

	// The input is copied.
	assert.Equal(t, 9.0, flat[0])
}

func TestNeighborMatrixFromDense_LengthMismatch(t *testing.T) {
	_, err := NeighborMatrixFromDense(make([]float64, 8), 3)
	assert.Error(t, err)
}

func TestNeighborMatrix_NeighborsIsCopy(t *testing.T) {
	m, err := NeighborMatrixFromDense([]float64{0, 1, 1, 0}, 2)
	require.NoError(t, err)

	nb := m.Neighbors(0)
	nb[0] = 42
	assert.Equal(t, 1.0, m.At(0, 1))
}

func TestNeighborIndex_RoundTrip(t *testing.T) {
	const n = 6
	for i := 0; i < n; i++ {
		pos := 0
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			assert.Equal(t, pos, NeighborIndex(i, j), "NeighborIndex(%d, %d)", i, j)
			assert.Equal(t, j, NeighborID(i, pos), "NeighborID(%d, %d)", i, pos)
			pos++
		}
	}
}

func TestNeighborIndex_SelfPanics(t *testing.T) {
	assert.Panics(t, func() { NeighborIndex(2, 2) })
}

func TestNeighborMatrix_EmptyAccessPanics(t *testing.T) {
	m := NewNeighborMatrix(0)

	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Dense())
	assert.PanicsWithValue(t, mat.ErrRowAccess, func() { m.At(0, 0) })
	assert.PanicsWithValue(t, mat.ErrRowAccess, func() { m.Neighbors(0) })
}

func TestNeighborMatrix_SetRowKeepsDiagonal(t *testing.T) {
	m := NewNeighborMatrix(3)
	m.setRow(1, []float64{7, 8})

	assert.Equal(t, 7.0, m.At(1, 0))
	assert.Zero(t, m.At(1, 1))
	assert.Equal(t, 8.0, m.At(1, 2))

	d := m.Dense()
	r, c := d.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
}
