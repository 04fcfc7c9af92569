package timeutil

import "time"

/*
Range tracks the earliest and latest timestamps observed over a stream of
telemetry events.

Rules:
  - Events without a timestamp never touch the range. Defaulting a missing
    timestamp to wall-clock time corrupts duration math and is forbidden.
  - Extend and Union are commutative and associative, so ranges built from
    files processed in any order (or in parallel) agree exactly.
*/
type Range struct {
	start *time.Time
	end   *time.Time
}

func NewRange() Range {
	return Range{}
}

// Extend widens the range to include t. A nil t is ignored.
func (r *Range) Extend(t *time.Time) {
	if t == nil {
		return
	}
	if r.start == nil || t.Before(*r.start) {
		v := *t
		r.start = &v
	}
	if r.end == nil || t.After(*r.end) {
		v := *t
		r.end = &v
	}
}

// Union widens the range to cover other.
func (r *Range) Union(other Range) {
	r.Extend(other.start)
	r.Extend(other.end)
}

// IsZero reports whether no timestamped event has been observed.
func (r *Range) IsZero() bool {
	return r.start == nil
}

func (r *Range) Start() *time.Time {
	return r.start
}

func (r *Range) End() *time.Time {
	return r.end
}

// Duration returns end-start, or 0 when the range is empty.
func (r *Range) Duration() time.Duration {
	if r.start == nil || r.end == nil {
		return 0
	}
	return r.end.Sub(*r.start)
}
