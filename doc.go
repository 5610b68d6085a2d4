// Package sos implements Stochastic Outlier Selection (SOS).
//
// SOS assigns every point an outlier probability in [0, 1] without a distance
// threshold or a cluster model. Each point spreads a unit of "binding"
// probability over the other points through a Gaussian kernel whose bandwidth
// is calibrated so the kernel's perplexity (its effective number of
// neighbors) matches a single user-chosen value. A point is an outlier when no
// other point binds to it.
//
// The pipeline has four stages, each exported on its own:
//
//	dist, _ := sos.ComputeDistanceMatrix(data, sos.EuclideanMetric{})
//	aff, _ := sos.ComputeAffinityMatrix(dist, perplexity, sos.DefaultMaxIterations)
//	bind := sos.ComputeBindingProbabilities(aff)
//	scores := sos.ComputeOutlierProbabilities(bind)
//
// Basic usage:
//
//	cfg := sos.DefaultConfig()
//	cfg.Perplexity = 10
//	result, err := sos.Detect(data, cfg)
//	// result.OutlierScores[i] is the outlier probability of point i
//	// result.Outliers(0.5) lists the points scoring above 0.5
//
// For precomputed dissimilarity matrices:
//
//	result, err := sos.DetectPrecomputed(distMatrix, n, cfg)
//
// # Neighbor vectors
//
// Every intermediate matrix is a [NeighborMatrix]: an n×n dense matrix whose
// diagonal is fixed at zero and skipped by all reductions. Row i, read with
// the diagonal removed, is point i's neighbor vector of length n-1 ordered by
// ascending point ID.
package sos
