package sos

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"
)

// Config controls SOS outlier detection.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Perplexity is the effective number of neighbors each point's kernel
	// weighs meaningfully. Higher values widen every neighborhood.
	// Must satisfy 1 <= Perplexity <= n-1 for n points. Default: 30.
	Perplexity float64

	// MaxIterations caps the per-point bandwidth binary search. A point that
	// does not converge keeps its best bandwidth and is reported in
	// Result.Unconverged. Must be >= 1. Default: DefaultMaxIterations.
	MaxIterations int

	// Tolerance is the accepted absolute difference between a point's
	// perplexity and Perplexity. Must be > 0. Default: DefaultTolerance.
	Tolerance float64

	// Metric is the dissimilarity between feature vectors. Ignored by
	// DetectPrecomputed. Default: EuclideanMetric.
	Metric DistanceMetric

	// Workers controls the number of goroutines used by every stage.
	// 0 means use runtime.NumCPU(); 1 runs sequentially. Default: 0 (auto).
	Workers int

	// Logger receives numerical degeneracy reports (unconverged searches,
	// zero-sum rows). nil discards them.
	Logger *slog.Logger
}

// Score pairs a point ID with its outlier probability.
type Score struct {
	ID          int
	Probability float64
}

// Result contains the output of SOS outlier detection.
type Result struct {
	// OutlierScores is the outlier probability of each point, in [0, 1].
	// Values near 0 mean some other point binds to it strongly; 1 means no
	// other point binds to it at all.
	OutlierScores []float64

	// Unconverged lists, in ascending order, the points whose bandwidth
	// search hit MaxIterations. Their scores are still computed from the
	// best bandwidth found.
	Unconverged []int
}

// Scores returns (ID, probability) pairs in ID order.
func (r *Result) Scores() []Score {
	out := make([]Score, len(r.OutlierScores))
	for i, s := range r.OutlierScores {
		out[i] = Score{ID: i, Probability: s}
	}
	return out
}

// Outliers returns the IDs of the points whose outlier probability exceeds
// threshold, in ascending order.
func (r *Result) Outliers(threshold float64) []int {
	var ids []int
	for i, s := range r.OutlierScores {
		if s > threshold {
			ids = append(ids, i)
		}
	}
	return ids
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Perplexity:    30,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		Metric:        EuclideanMetric{},
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = DefaultTolerance
	}
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = discardLogger()
	}
}

// validateConfig checks cfg against a data set of n points.
func validateConfig(cfg *Config, n int) error {
	if n < 2 {
		return fmt.Errorf("%w, got %d", ErrTooFewPoints, n)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: Workers must be >= 0, got %d", ErrInvalidConfig, cfg.Workers)
	}
	return validateSearch(n, cfg.Perplexity, cfg.Tolerance, cfg.MaxIterations)
}

// Detect computes the SOS outlier probability of every point.
// Each element is a point (float64 slice); all points must have the same
// dimensionality and finite values. Configuration errors are returned before
// any computation.
func Detect(data [][]float64, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg, len(data)); err != nil {
		return nil, err
	}
	if err := checkDimensions(data); err != nil {
		return nil, err
	}
	for i, row := range data {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &NonFiniteError{Point: i, Feature: j}
			}
		}
	}

	dist, err := ComputeDistanceMatrixParallel(data, cfg.Metric, cfg.Workers)
	if err != nil {
		return nil, err
	}
	return detectFromDistances(dist, cfg), nil
}

// DetectPrecomputed runs SOS on a precomputed dissimilarity matrix.
// distMatrix is a flat []float64 of length n*n in row-major order, where
// distMatrix[i*n+j] is the dissimilarity from point i to point j. The diagonal
// is ignored and off-diagonal entries must be finite and non-negative. The
// Config.Metric field is ignored.
func DetectPrecomputed(distMatrix []float64, n int, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg, n); err != nil {
		return nil, err
	}

	dist, err := NeighborMatrixFromDense(distMatrix, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j, d := range dist.row(i) {
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return nil, &NonFiniteError{Point: i, Feature: j}
			}
			if d < 0 {
				return nil, fmt.Errorf("sos: negative dissimilarity %v between points %d and %d", d, i, j)
			}
		}
	}
	return detectFromDistances(dist, cfg), nil
}

// DetectOutliers runs the full pipeline with the default iteration and
// tolerance settings and returns the outlier probability of each point,
// indexed by point ID.
func DetectOutliers(data [][]float64, perplexity float64) ([]float64, error) {
	cfg := DefaultConfig()
	cfg.Perplexity = perplexity
	result, err := Detect(data, cfg)
	if err != nil {
		return nil, err
	}
	return result.OutlierScores, nil
}

// detectFromDistances runs the pipeline from a validated distance matrix
// onward (affinity → binding → outlier probabilities).
func detectFromDistances(dist *NeighborMatrix, cfg Config) *Result {
	search := affinitySearch{
		perplexity:    cfg.Perplexity,
		tolerance:     cfg.Tolerance,
		maxIterations: cfg.MaxIterations,
		logger:        cfg.Logger,
	}
	aff, unconverged := search.run(dist, cfg.Workers)
	bind := bindingProbabilities(aff, cfg.Workers, cfg.Logger)
	scores := outlierProbabilities(bind, cfg.Workers)

	logSummary(cfg.Logger, dist.Len(), unconverged)
	return &Result{
		OutlierScores: scores,
		Unconverged:   unconverged,
	}
}
