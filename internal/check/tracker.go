package check

import (
	"fmt"
	"sort"
)

/*
Tracker aggregates named pass/fail counts.

Merge is additive per name, so per-file trackers fold in any order.
Finalize sorts ascending by success rate (worst first) to surface
regressions prominently.
*/
type Tracker struct {
	states map[string]*state
}

type state struct {
	total  int64
	passed int64
}

func NewTracker() *Tracker {
	return &Tracker{
		states: make(map[string]*state),
	}
}

// Record accumulates one pass/fail observation for the named check.
func (t *Tracker) Record(name string, passed bool) {
	s, ok := t.states[name]
	if !ok {
		s = &state{}
		t.states[name] = s
	}
	s.total++
	if passed {
		s.passed++
	}
}

// Merge folds other into t.
func (t *Tracker) Merge(other *Tracker) {
	if other == nil {
		return
	}
	for name, theirs := range other.states {
		mine, ok := t.states[name]
		if !ok {
			mine = &state{}
			t.states[name] = mine
		}
		mine.total += theirs.total
		mine.passed += theirs.passed
	}
}

// Finalize derives per-check results, worst success rate first. Ties break
// on name for deterministic output.
func (t *Tracker) Finalize() []Result {
	results := make([]Result, 0, len(t.states))
	for name, s := range t.states {
		results = append(results, Result{
			Name:        name,
			Total:       s.total,
			Passed:      s.passed,
			Failed:      s.total - s.passed,
			SuccessRate: successRate(s.passed, s.total),
		})
	}
	sort.Slice(results, func(i, j int) bool {
		ri := rate(results[i])
		rj := rate(results[j])
		if ri != rj {
			return ri < rj
		}
		return results[i].Name < results[j].Name
	})
	return results
}

// Summary aggregates all checks into one line.
func (t *Tracker) Summary() Result {
	var total, passed int64
	for _, s := range t.states {
		total += s.total
		passed += s.passed
	}
	return Result{
		Name:        "all checks",
		Total:       total,
		Passed:      passed,
		Failed:      total - passed,
		SuccessRate: successRate(passed, total),
	}
}

func rate(r Result) float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total)
}

func successRate(passed int64, total int64) string {
	if total == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(passed)/float64(total)*100)
}
