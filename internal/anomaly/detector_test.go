package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_InsufficientSamplesIsNoOpinion(t *testing.T) {
	detector := NewDetector(nil, nil)

	// Four grocery purchases is below the gate: a $5000 charge must still
	// come back as not anomalous with score zero.
	priors := []float64{45.20, 52.10, 48.00, 61.35}
	isAnomaly, score := detector.Evaluate(priors, 5000)

	assert.False(t, isAnomaly)
	assert.Zero(t, score)
}

func TestDetector_FlagsExtremeOutlier(t *testing.T) {
	detector := NewDetector(nil, nil)

	priors := []float64{45.20, 52.10, 48.00, 61.35, 50.75, 47.90, 55.00, 49.10}
	isAnomaly, score := detector.Evaluate(priors, 5000)

	assert.True(t, isAnomaly)
	assert.Negative(t, score)
}

func TestDetector_TypicalAmountIsInlier(t *testing.T) {
	detector := NewDetector(nil, nil)

	priors := []float64{45.20, 52.10, 48.00, 61.35, 50.75, 47.90, 55.00, 49.10}
	isAnomaly, _ := detector.Evaluate(priors, 50.00)

	assert.False(t, isAnomaly)
}

func TestForest_Deterministic(t *testing.T) {
	forest := NewForest()
	samples := []float64{10, 12, 11, 9, 13, 10.5, 11.5, 12.5, 9.5, 10}

	firstOutlier, firstScore := forest.Score(samples, 200)
	for i := 0; i < 5; i++ {
		outlier, score := forest.Score(samples, 200)
		assert.Equal(t, firstOutlier, outlier)
		assert.InDelta(t, firstScore, score, 1e-12)
	}
}

func TestForest_TooFewPoints(t *testing.T) {
	forest := NewForest()

	isOutlier, score := forest.Score(nil, 42)
	assert.False(t, isOutlier)
	assert.Zero(t, score)
}

func TestForest_LargeSampleSet(t *testing.T) {
	forest := NewForest()

	samples := make([]float64, 500)
	for i := range samples {
		samples[i] = 100 + float64(i%20)
	}

	isOutlier, _ := forest.Score(samples, 110)
	require.False(t, isOutlier)

	isOutlier, score := forest.Score(samples, 100000)
	assert.True(t, isOutlier)
	assert.Negative(t, score)
}
