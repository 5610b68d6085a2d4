package sos

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NeighborMatrix holds one scalar per ordered pair of distinct points.
// It is stored as a dense n×n matrix whose diagonal is always zero and is
// skipped by every reduction, so row i read without its diagonal entry is
// point i's neighbor vector.
//
// The same layout carries distances, affinities and binding probabilities
// through the pipeline.
type NeighborMatrix struct {
	n     int
	dense *mat.Dense // nil when n == 0
}

// NewNeighborMatrix returns a zeroed matrix for n points.
func NewNeighborMatrix(n int) *NeighborMatrix {
	if n <= 0 {
		return &NeighborMatrix{}
	}
	return &NeighborMatrix{n: n, dense: mat.NewDense(n, n, nil)}
}

// NeighborMatrixFromDense wraps a flat row-major n×n matrix. The slice is
// copied and its diagonal is cleared.
func NeighborMatrixFromDense(flat []float64, n int) (*NeighborMatrix, error) {
	if n < 0 || len(flat) != n*n {
		return nil, fmt.Errorf("sos: matrix length %d does not match n*n = %d (n=%d)", len(flat), n*n, n)
	}
	m := NewNeighborMatrix(n)
	if n == 0 {
		return m, nil
	}
	copy(m.dense.RawMatrix().Data, flat)
	for i := 0; i < n; i++ {
		m.dense.Set(i, i, 0)
	}
	return m, nil
}

// Len returns the number of points.
func (m *NeighborMatrix) Len() int { return m.n }

// At returns the entry row i holds for point j. At(i, i) is always 0.
// Like Neighbors, it panics with mat.ErrRowAccess for an out-of-range i,
// including any i on an empty matrix.
func (m *NeighborMatrix) At(i, j int) float64 {
	if m.dense == nil {
		panic(mat.ErrRowAccess)
	}
	return m.dense.At(i, j)
}

// Neighbors returns a copy of point i's neighbor vector: n-1 entries ordered
// by ascending neighbor ID with i itself skipped.
func (m *NeighborMatrix) Neighbors(i int) []float64 {
	row := m.row(i)
	out := make([]float64, 0, m.n-1)
	out = append(out, row[:i]...)
	return append(out, row[i+1:]...)
}

// Dense returns a copy of the full n×n matrix, diagonal included.
func (m *NeighborMatrix) Dense() *mat.Dense {
	if m.dense == nil {
		return nil
	}
	return mat.DenseCopyOf(m.dense)
}

// NeighborIndex returns the position of point j in point i's neighbor vector.
// It panics if i == j.
func NeighborIndex(i, j int) int {
	switch {
	case j < i:
		return j
	case j > i:
		return j - 1
	default:
		panic("sos: a point is not its own neighbor")
	}
}

// NeighborID is the inverse of NeighborIndex: the ID of the point at position
// pos of point i's neighbor vector.
func NeighborID(i, pos int) int {
	if pos < i {
		return pos
	}
	return pos + 1
}

// row returns the backing storage of row i, diagonal included.
func (m *NeighborMatrix) row(i int) []float64 {
	if m.dense == nil {
		panic(mat.ErrRowAccess)
	}
	return m.dense.RawRowView(i)
}

// setRow writes a neighbor vector into row i and keeps the diagonal at zero.
func (m *NeighborMatrix) setRow(i int, neighbors []float64) {
	row := m.row(i)
	copy(row[:i], neighbors[:i])
	row[i] = 0
	copy(row[i+1:], neighbors[i:])
}
