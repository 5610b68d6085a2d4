package sos

import "golang.org/x/sync/errgroup"

// ComputeDistanceMatrixParallel computes the pairwise distance matrix using
// multiple goroutines. numWorkers controls the degree of parallelism; if
// <= 1, it falls back to single-threaded ComputeDistanceMatrix.
//
// The result is bitwise identical to ComputeDistanceMatrix.
func ComputeDistanceMatrixParallel(data [][]float64, metric DistanceMetric, numWorkers int) (*NeighborMatrix, error) {
	if numWorkers <= 1 || len(data) <= 1 {
		return ComputeDistanceMatrix(data, metric)
	}
	if err := checkDimensions(data); err != nil {
		return nil, err
	}
	if metric == nil {
		metric = EuclideanMetric{}
	}

	result := NewNeighborMatrix(len(data))
	// Row i's worker owns every pair (i, j) with j > i, so the writes to
	// (i, j) and (j, i) never overlap with another worker's.
	forEachRow(len(data), numWorkers, func(i int) {
		fillDistanceRow(result, data, i, metric)
	})
	return result, nil
}

// forEachRow calls fn for every row in [0, n), one task per row, with at most
// numWorkers rows in flight. With numWorkers <= 1 it runs inline.
func forEachRow(n, numWorkers int, fn func(i int)) {
	if numWorkers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(numWorkers)

	for i := 0; i < n; i++ {
		// Go blocks while numWorkers rows are running.
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	// Row tasks never fail.
	_ = g.Wait()
}
