package sos

import "gonum.org/v1/gonum/mat"

// ComputeOutlierProbabilities computes the SOS outlier probability of every
// point from the binding matrix:
//
//	score(k) = Π_{r≠k} (1 - binding(r, k))
//
// The product runs over every other point's opinion of k, so a point scores
// 1 when no other point binds to it. Returns scores in [0, 1] indexed by
// point ID.
func ComputeOutlierProbabilities(bind *NeighborMatrix) []float64 {
	return outlierProbabilities(bind, 1)
}

func outlierProbabilities(bind *NeighborMatrix, workers int) []float64 {
	n := bind.Len()
	scores := make([]float64, n)
	if n == 0 {
		return scores
	}

	// Row k of the transpose is column k of the binding matrix: what every
	// other point assigned to k.
	columns := mat.DenseCopyOf(bind.dense.T())

	forEachRow(n, workers, func(k int) {
		score := 1.0
		for r, b := range columns.RawRowView(k) {
			if r == k {
				continue
			}
			score *= min(max(1-b, 0), 1)
		}
		scores[k] = score
	})
	return scores
}
