package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentileInterpolation(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}

	assert.InDelta(t, 17.5, percentile(sorted, 0.25), 1e-9)
	assert.InDelta(t, 25.0, percentile(sorted, 0.5), 1e-9)
	assert.InDelta(t, 32.5, percentile(sorted, 0.75), 1e-9)
	assert.Equal(t, 10.0, percentile(sorted, 0))
	assert.Equal(t, 40.0, percentile(sorted, 1))
	assert.Equal(t, 5.0, percentile([]float64{5}, 0.5))
	assert.Equal(t, 0.0, percentile(nil, 0.5))
}

func TestBucketerEdgesStrictlyIncreasing(t *testing.T) {
	values := []float64{0, 0, 10, 20, 30, 40, 100}
	b := NewBucketer(values, []float64{0.25, 0.5, 0.75}, []string{"a", "b", "c", "d", "e"})
	require.NotNil(t, b)

	edges := b.Edges()
	for i := 1; i < len(edges); i++ {
		assert.Greater(t, edges[i], edges[i-1])
	}
	assert.Equal(t, 0.0, edges[0])
	assert.True(t, math.IsInf(edges[len(edges)-1], 1))

	// labels never outnumber intervals
	assert.LessOrEqual(t, len(b.Labels()), len(edges)-1)
}

func TestBucketerCollapsesDuplicatePercentiles(t *testing.T) {
	// every positive value identical: all three percentiles coincide
	values := []float64{0, 50, 50, 50, 50}
	b := NewBucketer(values, []float64{0.25, 0.5, 0.75}, []string{"a", "b", "c", "d", "e"})
	require.NotNil(t, b)

	// edges collapse to [0, 50, +Inf] leaving two coarse intervals
	require.Len(t, b.Edges(), 3)
	assert.Equal(t, []string{"a", "b"}, b.Labels())

	assert.Equal(t, "a", b.Label(50))
	assert.Equal(t, "b", b.Label(51))
	assert.Equal(t, "", b.Label(0))
}

func TestBucketerTruncatesLabelsFromTheTail(t *testing.T) {
	values := []float64{0, 10, 20, 30, 40}
	labels := []string{"none", "low", "medium", "high", "top"}
	b := NewBucketer(values, []float64{0.25, 0.5, 0.75}, labels)
	require.NotNil(t, b)

	// three distinct percentiles make four intervals; the fifth label is
	// never assigned
	assert.Equal(t, []string{"none", "low", "medium", "high"}, b.Labels())
	assert.Equal(t, "high", b.Label(1e9))
}

func TestBucketerNilWhenNothingPositive(t *testing.T) {
	assert.Nil(t, NewBucketer([]float64{0, 0, 0}, []float64{0.5}, []string{"a", "b"}))
	assert.Nil(t, NewBucketer(nil, []float64{0.5}, []string{"a", "b"}))
}

func TestBucketerIntervalBoundaries(t *testing.T) {
	values := []float64{10, 20, 30, 40}
	b := NewBucketer(values, []float64{0.5}, []string{"lower", "upper"})
	require.NotNil(t, b)
	// edges [0, 25, +Inf]

	assert.Equal(t, "", b.Label(0))
	assert.Equal(t, "lower", b.Label(0.01))
	assert.Equal(t, "lower", b.Label(25)) // right-closed
	assert.Equal(t, "upper", b.Label(25.01))
}
