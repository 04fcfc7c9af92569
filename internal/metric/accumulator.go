package metric

import (
	"github.com/influxdata/tdigest"
)

/*
Accumulator is the running aggregate for one metric name.

Memory is O(1) relative to input size: exact count/sum/min/max plus a
t-digest for quantiles (compression 100, ~100 centroids). Raw values are
never buffered, so a multi-gigabyte input costs the same memory as a
ten-line one.

Merge is commutative and associative. Folding per-file accumulators in any
order yields identical counts; only the quantile approximation may differ
within digest tolerance.
*/
type Accumulator struct {
	name   string
	count  int64
	sum    float64
	min    float64
	max    float64
	digest *tdigest.TDigest
}

const digestCompression = 100

func NewAccumulator(name string) *Accumulator {
	return &Accumulator{
		name:   name,
		digest: tdigest.NewWithCompression(digestCompression),
	}
}

func (a *Accumulator) Name() string {
	return a.name
}

func (a *Accumulator) Count() int64 {
	return a.count
}

func (a *Accumulator) Sum() float64 {
	return a.sum
}

// Observe feeds one sample value.
func (a *Accumulator) Observe(value float64) {
	if a.count == 0 || value < a.min {
		a.min = value
	}
	if a.count == 0 || value > a.max {
		a.max = value
	}
	a.count++
	a.sum += value
	a.digest.Add(value, 1)
}

// Merge folds other into a. Both sides must carry the same metric name;
// other remains usable but must not be merged twice.
func (a *Accumulator) Merge(other *Accumulator) {
	if other == nil || other.count == 0 {
		return
	}
	if a.count == 0 || other.min < a.min {
		a.min = other.min
	}
	if a.count == 0 || other.max > a.max {
		a.max = other.max
	}
	a.count += other.count
	a.sum += other.sum
	a.digest.AddCentroidList(other.digest.Centroids())
}

// Finalize derives the output statistics. A zero-observation accumulator
// reports all zeros, never NaN.
func (a *Accumulator) Finalize() Stats {
	if a.count == 0 {
		return Stats{}
	}
	return Stats{
		Count: a.count,
		Sum:   a.sum,
		Avg:   a.sum / float64(a.count),
		Min:   a.min,
		Max:   a.max,
		P50:   a.digest.Quantile(0.50),
		P90:   a.digest.Quantile(0.90),
		P95:   a.digest.Quantile(0.95),
		P99:   a.digest.Quantile(0.99),
	}
}
