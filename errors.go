package sos

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPerplexity is returned when the perplexity is outside [1, n-1].
	ErrInvalidPerplexity = errors.New("sos: invalid perplexity")

	// ErrTooFewPoints is returned when fewer than two points are supplied.
	ErrTooFewPoints = errors.New("sos: at least 2 points are required")

	// ErrInvalidConfig is returned for out-of-range Config fields other than
	// the perplexity.
	ErrInvalidConfig = errors.New("sos: invalid config")
)

// DimensionMismatchError indicates a point whose feature vector length differs
// from the first point's.
type DimensionMismatchError struct {
	Point    int
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("sos: point %d has %d features, expected %d", e.Point, e.Actual, e.Expected)
}

// NonFiniteError indicates a NaN or infinite input value. For precomputed
// dissimilarities Feature is the column of the offending entry.
type NonFiniteError struct {
	Point   int
	Feature int
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("sos: point %d has a non-finite value at index %d", e.Point, e.Feature)
}

func perplexityError(perplexity float64, n int) error {
	return fmt.Errorf("%w: %v not in [1, %d] for %d points", ErrInvalidPerplexity, perplexity, n-1, n)
}
