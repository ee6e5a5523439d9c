package analysis

import (
	"math"
	"sort"
)

// Bucketer bins values into data-dependent intervals. Edges start at 0, keep
// only the strictly increasing computed percentiles and end at +Inf; when
// many rows share a value the degenerate percentiles collapse and the label
// list shrinks with the interval count. That coarsening is intentional.
type Bucketer struct {
	edges  []float64
	labels []string
}

// NewBucketer computes the requested quantiles over the strictly positive
// subset of values and builds the validated edge/label lists. Returns nil
// when no value is positive; callers then apply a constant label instead.
func NewBucketer(values []float64, quantiles []float64, labels []string) *Bucketer {
	positive := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			positive = append(positive, v)
		}
	}
	if len(positive) == 0 {
		return nil
	}
	sort.Float64s(positive)

	edges := []float64{0}
	last := 0.0
	for _, q := range quantiles {
		p := percentile(positive, q)
		if p > last {
			edges = append(edges, p)
			last = p
		}
	}
	edges = append(edges, math.Inf(1))

	intervals := len(edges) - 1
	if intervals < len(labels) {
		labels = labels[:intervals]
	}

	return &Bucketer{edges: edges, labels: labels}
}

// Edges exposes the validated bin edges (strictly increasing, 0 first,
// +Inf last).
func (b *Bucketer) Edges() []float64 {
	return b.edges
}

// Labels exposes the truncated label list; never longer than the interval
// count.
func (b *Bucketer) Labels() []string {
	return b.labels
}

// Label assigns v to its interval (edges[i], edges[i+1]]. Values at or below
// the first edge fall outside every interval and get no label.
func (b *Bucketer) Label(v float64) string {
	for i := 0; i < len(b.edges)-1 && i < len(b.labels); i++ {
		if v > b.edges[i] && v <= b.edges[i+1] {
			return b.labels[i]
		}
	}
	return ""
}

// percentile computes the q-th quantile (0..1) of sorted values with linear
// interpolation between closest ranks.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
