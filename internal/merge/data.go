package merge

import (
	"github.com/ShafaqShahid/LoadTestGMC/internal/check"
	"github.com/ShafaqShahid/LoadTestGMC/internal/config"
	"github.com/ShafaqShahid/LoadTestGMC/internal/errclass"
	"github.com/ShafaqShahid/LoadTestGMC/internal/event"
	"github.com/ShafaqShahid/LoadTestGMC/internal/metric"
	"github.com/ShafaqShahid/LoadTestGMC/internal/summary"
	"github.com/ShafaqShahid/LoadTestGMC/pkg/timeutil"
)

/*
fileState is the aggregation state for exactly one input file.

Each per-file worker owns its own fileState with no shared mutable state;
the single reduction phase folds them together without concurrent writers,
so no locking is needed as long as this ownership discipline is respected.
*/
type fileState struct {
	path        string
	metrics     metric.Registry
	classifier  *errclass.Classifier
	checks      *check.Tracker
	timeRange   timeutil.Range
	totalLines  int64
	validLines  int64
	contentHash string
	completed   bool
	skipped     bool
}

func newFileState(path string, cfg config.Config) *fileState {
	return &fileState{
		path:       path,
		metrics:    metric.NewRegistry(),
		classifier: errclass.NewClassifier(cfg.ErrorSampleCap(), cfg.URLTruncateLen()),
		checks:     check.NewTracker(),
		timeRange:  timeutil.NewRange(),
	}
}

// applyLine routes the parse outcome of one raw line into this state.
func (s *fileState) applyLine(events []event.Event, outcome event.Outcome) {
	if outcome == event.OutcomeInvalid {
		return
	}
	s.validLines++
	for i := range events {
		s.apply(&events[i])
	}
}

func (s *fileState) apply(ev *event.Event) {
	s.timeRange.Extend(ev.Timestamp())
	switch ev.Kind() {
	case event.KindCheck:
		s.checks.Record(ev.Name(), ev.Passed())
	case event.KindMetric:
		s.metrics.Observe(ev.Name(), ev.Value())
		if ev.Name() == event.MetricFailed {
			s.classifier.ObserveResponse(ev.Timestamp(), ev.Tags(), ev.Value() != 0)
		}
	}
}

// fold combines other into s. Commutative and associative up to quantile
// approximation; file-processing order never changes exact counts.
func (s *fileState) fold(other *fileState) {
	s.metrics.Merge(other.metrics)
	s.classifier.Merge(other.classifier)
	s.checks.Merge(other.checks)
	s.timeRange.Union(other.timeRange)
	s.totalLines += other.totalLines
	s.validLines += other.validLines
}

// MergeExecution is the terminal outcome of one merge run.
type MergeExecution struct {
	document       summary.Document
	processedFiles int
	skippedFiles   []string
	duplicateFiles []string
	cancelled      bool
}

func (m MergeExecution) Document() summary.Document {
	return m.document
}

func (m MergeExecution) ProcessedFiles() int {
	return m.processedFiles
}

func (m MergeExecution) SkippedFiles() []string {
	return m.skippedFiles
}

func (m MergeExecution) DuplicateFiles() []string {
	return m.duplicateFiles
}

// Cancelled reports whether the run was interrupted; the document then
// covers only what was read before cancellation.
func (m MergeExecution) Cancelled() bool {
	return m.cancelled
}
