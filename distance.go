package sos

import "gonum.org/v1/gonum/floats"

// DistanceMetric computes the dissimilarity between two feature vectors.
type DistanceMetric interface {
	Distance(a, b []float64) float64
}

// DistanceFunc adapts a plain function into a DistanceMetric.
type DistanceFunc func(a, b []float64) float64

func (f DistanceFunc) Distance(a, b []float64) float64 { return f(a, b) }

// EuclideanMetric computes the Euclidean (L2) distance.
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// ComputeDistanceMatrix computes the pairwise distances between all points.
// Each unordered pair is evaluated once and stored for both points, so the
// result is exactly symmetric. A nil metric means EuclideanMetric.
//
// Returns a *DimensionMismatchError if the points do not all share the first
// point's dimensionality.
func ComputeDistanceMatrix(data [][]float64, metric DistanceMetric) (*NeighborMatrix, error) {
	if err := checkDimensions(data); err != nil {
		return nil, err
	}
	if metric == nil {
		metric = EuclideanMetric{}
	}

	n := len(data)
	result := NewNeighborMatrix(n)
	for i := 0; i < n; i++ {
		fillDistanceRow(result, data, i, metric)
	}
	return result, nil
}

// fillDistanceRow computes dist(i, j) for every j > i and writes it to both
// (i, j) and (j, i).
func fillDistanceRow(m *NeighborMatrix, data [][]float64, i int, metric DistanceMetric) {
	for j := i + 1; j < m.n; j++ {
		d := metric.Distance(data[i], data[j])
		m.dense.Set(i, j, d)
		m.dense.Set(j, i, d)
	}
}

func checkDimensions(data [][]float64) error {
	if len(data) == 0 {
		return nil
	}
	dims := len(data[0])
	for i, row := range data {
		if len(row) != dims {
			return &DimensionMismatchError{Point: i, Expected: dims, Actual: len(row)}
		}
	}
	return nil
}
