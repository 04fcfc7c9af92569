package metric

// Derived statistics for one metric name. All fields are zero when no
// sample was observed.
type Stats struct {
	Count int64
	Sum   float64
	Avg   float64
	Min   float64
	Max   float64
	P50   float64
	P90   float64
	P95   float64
	P99   float64
}

// Registry maps metric names to their accumulators. One Registry per
// file-scoped aggregation state; registries merge pairwise at fold time.
type Registry map[string]*Accumulator

func NewRegistry() Registry {
	return make(Registry)
}

// Observe routes one sample to the named accumulator, creating it on first use.
func (r Registry) Observe(name string, value float64) {
	acc, ok := r[name]
	if !ok {
		acc = NewAccumulator(name)
		r[name] = acc
	}
	acc.Observe(value)
}

// Merge folds every accumulator of other into r.
func (r Registry) Merge(other Registry) {
	for name, acc := range other {
		mine, ok := r[name]
		if !ok {
			r[name] = acc
			continue
		}
		mine.Merge(acc)
	}
}

// Sum returns the value sum for a metric name, 0 when absent.
func (r Registry) Sum(name string) float64 {
	if acc, ok := r[name]; ok {
		return acc.Sum()
	}
	return 0
}

// Stats finalizes one metric by name, returning zeros when absent.
func (r Registry) Stats(name string) Stats {
	if acc, ok := r[name]; ok {
		return acc.Finalize()
	}
	return Stats{}
}
