package sos

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ComputeBindingProbabilities row-normalizes an affinity matrix so each
// point's neighbor vector becomes a probability distribution over the point
// it binds to. A row whose affinities sum to zero becomes uniform over the
// other n-1 points.
func ComputeBindingProbabilities(aff *NeighborMatrix) *NeighborMatrix {
	return bindingProbabilities(aff, 1, discardLogger())
}

func bindingProbabilities(aff *NeighborMatrix, workers int, logger *slog.Logger) *NeighborMatrix {
	n := aff.Len()
	bind := NewNeighborMatrix(n)
	if n == 0 {
		return bind
	}
	bind.dense.Copy(aff.dense)

	forEachRow(n, workers, func(i int) {
		row := bind.row(i)
		// The diagonal is zero and does not affect the sum.
		// Dividing keeps subnormal sums from caller-built matrices finite.
		if sum := floats.Sum(row); sum > 0 && !math.IsInf(sum, 0) {
			for j := range row {
				row[j] /= sum
			}
			return
		}
		if n > 1 {
			logFallback(logger, "binding", i, true)
			uniform := 1 / float64(n-1)
			for j := range row {
				row[j] = uniform
			}
		}
		row[i] = 0
	})
	return bind
}
