package sos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeOutlierProbabilities_HandComputed(t *testing.T) {
	bind, err := NeighborMatrixFromDense([]float64{
		0, 0.5, 0.5,
		1, 0, 0,
		0.25, 0.75, 0,
	}, 3)
	require.NoError(t, err)

	scores := ComputeOutlierProbabilities(bind)

	// Point 0: (1 - 1)(1 - 0.25) = 0
	assertFloat(t, "scores[0]", scores[0], 0, floatTol)
	// Point 1: (1 - 0.5)(1 - 0.75) = 0.125
	assertFloat(t, "scores[1]", scores[1], 0.125, floatTol)
	// Point 2: (1 - 0.5)(1 - 0) = 0.5
	assertFloat(t, "scores[2]", scores[2], 0.5, floatTol)
}

func TestComputeOutlierProbabilities_Unbound(t *testing.T) {
	// Nobody binds to point 2.
	bind, err := NeighborMatrixFromDense([]float64{
		0, 1, 0,
		1, 0, 0,
		0.5, 0.5, 0,
	}, 3)
	require.NoError(t, err)

	scores := ComputeOutlierProbabilities(bind)

	assert.Equal(t, 1.0, scores[2])
	assert.Zero(t, scores[0])
	assert.Zero(t, scores[1])
}

func TestComputeOutlierProbabilities_IgnoresOwnRow(t *testing.T) {
	// Point 0's own row must not affect its score.
	a, err := NeighborMatrixFromDense([]float64{
		0, 1, 0,
		0.5, 0, 0.5,
		0.5, 0.5, 0,
	}, 3)
	require.NoError(t, err)
	b, err := NeighborMatrixFromDense([]float64{
		0, 0, 1,
		0.5, 0, 0.5,
		0.5, 0.5, 0,
	}, 3)
	require.NoError(t, err)

	assert.Equal(t, ComputeOutlierProbabilities(a)[0], ComputeOutlierProbabilities(b)[0])
}

func TestComputeOutlierProbabilities_AllInRange(t *testing.T) {
	dist, err := ComputeDistanceMatrix(generateBenchData(80, 3), nil)
	require.NoError(t, err)
	aff, err := ComputeAffinityMatrix(dist, 12, DefaultMaxIterations)
	require.NoError(t, err)

	scores := ComputeOutlierProbabilities(ComputeBindingProbabilities(aff))

	require.Len(t, scores, 80)
	for i, s := range scores {
		if s < 0 || s > 1 {
			t.Errorf("scores[%d] = %f, expected in [0, 1]", i, s)
		}
	}
}

func TestComputeOutlierProbabilities_ClampsRoundingAboveOne(t *testing.T) {
	bind, err := NeighborMatrixFromDense([]float64{
		0, 1.0000000000000002,
		1.0000000000000002, 0,
	}, 2)
	require.NoError(t, err)

	for i, s := range ComputeOutlierProbabilities(bind) {
		assert.Zero(t, s, "scores[%d]", i)
	}
}

func TestComputeOutlierProbabilities_Empty(t *testing.T) {
	assert.Empty(t, ComputeOutlierProbabilities(NewNeighborMatrix(0)))
}

func assertFloat(t *testing.T, name string, got, want, eps float64) {
	t.Helper()
	if d := got - want; d > eps || d < -eps {
		t.Errorf("%s: got %f, want %f", name, got, want)
	}
}
