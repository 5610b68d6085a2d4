package sos

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultMaxIterations caps the per-point bandwidth search.
	DefaultMaxIterations = 1000

	// DefaultTolerance is the accepted absolute difference between a row's
	// perplexity and the target perplexity.
	DefaultTolerance = 1e-10

	// maxBeta keeps the doubling phase of the search finite.
	maxBeta = 1e300

	// minNormalSum is the smallest normal float64. A row summing below it
	// holds subnormal affinities whose reciprocal overflows.
	minNormalSum = 0x1p-1022
)

// Calibration is the outcome of one point's bandwidth search.
type Calibration struct {
	// Beta is the kernel precision: affinity(i, j) = exp(-dist(i, j)² * Beta).
	Beta float64

	// Perplexity is the perplexity of the normalized affinity row at Beta.
	Perplexity float64

	// Iterations is the number of perplexity evaluations performed.
	Iterations int

	// Converged reports whether |Perplexity - target| < tolerance. When false,
	// Beta is the closest value seen before the iteration cap.
	Converged bool
}

// CalibrateBandwidth binary-searches the precision β of a Gaussian kernel so
// that the affinity distribution over distances has the target perplexity.
// distances is one point's neighbor distance vector.
//
// The search starts at β = 1 with bounds [0, +Inf). It doubles β until an
// upper bound is known and bisects after that. It stops once the perplexity
// is within tolerance of the target, or after maxIterations evaluations. It
// never fails: an unconverged search returns its best β with Converged unset.
func CalibrateBandwidth(distances []float64, perplexity, tolerance float64, maxIterations int) Calibration {
	if len(distances) == 0 {
		return Calibration{Beta: 1}
	}
	maxIterations = max(maxIterations, 1)

	sq := squared(distances)
	minSq := floats.Min(sq)
	p := make([]float64, len(sq))

	beta, lo, hi := 1.0, 0.0, math.Inf(1)
	var best Calibration
	bestDiff := math.Inf(1)
	for it := 1; it <= maxIterations; it++ {
		perp := rowPerplexity(sq, minSq, beta, p)
		diff := perp - perplexity
		if it == 1 || math.Abs(diff) < bestDiff {
			bestDiff = math.Abs(diff)
			best = Calibration{Beta: beta, Perplexity: perp}
		}
		best.Iterations = it
		if math.Abs(diff) < tolerance {
			best.Converged = true
			return best
		}

		if diff > 0 {
			// Kernel too wide.
			lo = beta
			if math.IsInf(hi, 1) {
				beta = math.Min(beta*2, maxBeta)
			} else {
				beta = (beta + hi) / 2
			}
		} else {
			hi = beta
			beta = (beta + lo) / 2
		}
	}
	return best
}

// rowPerplexity writes the normalized kernel row into p and returns its
// perplexity exp(H), H being the entropy in nats (equal to 2^H in bits).
// Exponents are shifted by the smallest squared distance so the row sum is
// at least 1.
func rowPerplexity(sq []float64, minSq, beta float64, p []float64) float64 {
	for j, s := range sq {
		p[j] = math.Exp(-(s - minSq) * beta)
	}
	floats.Scale(1/floats.Sum(p), p)
	return math.Exp(stat.Entropy(p))
}

func squared(distances []float64) []float64 {
	sq := make([]float64, len(distances))
	for j, d := range distances {
		sq[j] = d * d
	}
	return sq
}

// ComputeAffinityMatrix converts a distance matrix into unnormalized
// affinities exp(-dist² * β_i), calibrating β_i per point so each row has the
// given perplexity. The search uses DefaultTolerance and at most
// maxIterations steps per point.
//
// Returns ErrInvalidPerplexity unless 1 <= perplexity <= n-1.
func ComputeAffinityMatrix(dist *NeighborMatrix, perplexity float64, maxIterations int) (*NeighborMatrix, error) {
	if err := validateSearch(dist.Len(), perplexity, DefaultTolerance, maxIterations); err != nil {
		return nil, err
	}
	s := affinitySearch{
		perplexity:    perplexity,
		tolerance:     DefaultTolerance,
		maxIterations: maxIterations,
		logger:        discardLogger(),
	}
	aff, _ := s.run(dist, 1)
	return aff, nil
}

// affinitySearch carries the search settings shared by every row.
type affinitySearch struct {
	perplexity    float64
	tolerance     float64
	maxIterations int
	logger        *slog.Logger
}

// run fills the affinity matrix using up to workers goroutines and returns
// the IDs whose search did not converge, in ascending order.
func (s affinitySearch) run(dist *NeighborMatrix, workers int) (*NeighborMatrix, []int) {
	n := dist.Len()
	aff := NewNeighborMatrix(n)
	converged := make([]bool, n)
	forEachRow(n, workers, func(i int) {
		converged[i] = s.fillRow(dist, aff, i)
	})

	var unconverged []int
	for i, ok := range converged {
		if !ok {
			unconverged = append(unconverged, i)
		}
	}
	return aff, unconverged
}

// fillRow calibrates point i and writes its affinity row. It reports whether
// the search converged.
func (s affinitySearch) fillRow(dist, aff *NeighborMatrix, i int) bool {
	distances := dist.Neighbors(i)
	c := CalibrateBandwidth(distances, s.perplexity, s.tolerance, s.maxIterations)
	logCalibration(s.logger, i, c)

	row := make([]float64, len(distances))
	if fallback, uniform := affinityRow(squared(distances), c.Beta, row); fallback {
		logFallback(s.logger, "affinity", i, uniform)
	}
	aff.setRow(i, row)
	return c.Converged
}

// affinityRow writes exp(-sq[j] * beta) into out. If that underflows to a
// zero or subnormal sum the row is rewritten with exponents shifted by the smallest
// squared distance, which only rescales it. If even that is degenerate every
// affinity is set to 1.
func affinityRow(sq []float64, beta float64, out []float64) (fallback, uniform bool) {
	if len(sq) == 0 {
		return false, false
	}
	for j, s := range sq {
		out[j] = math.Exp(-s * beta)
	}
	if validSum(floats.Sum(out)) {
		return false, false
	}

	minSq := floats.Min(sq)
	for j, s := range sq {
		out[j] = math.Exp(-(s - minSq) * beta)
	}
	if validSum(floats.Sum(out)) {
		return true, false
	}

	for j := range out {
		out[j] = 1
	}
	return true, true
}

// validSum reports whether a row sum can be used as a normalizer without
// losing the row to subnormal precision or an overflowing reciprocal.
func validSum(sum float64) bool {
	return sum >= minNormalSum && !math.IsInf(sum, 0)
}

// validateSearch checks the bandwidth search settings against n points.
func validateSearch(n int, perplexity, tolerance float64, maxIterations int) error {
	if !(perplexity >= 1 && perplexity <= float64(n-1)) {
		return perplexityError(perplexity, n)
	}
	if maxIterations < 1 {
		return fmt.Errorf("%w: MaxIterations must be >= 1, got %d", ErrInvalidConfig, maxIterations)
	}
	if !(tolerance > 0) {
		return fmt.Errorf("%w: Tolerance must be > 0, got %v", ErrInvalidConfig, tolerance)
	}
	return nil
}
