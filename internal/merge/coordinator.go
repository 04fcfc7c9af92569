package merge

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ShafaqShahid/LoadTestGMC/internal/config"
	"github.com/ShafaqShahid/LoadTestGMC/internal/errclass"
	"github.com/ShafaqShahid/LoadTestGMC/internal/event"
	"github.com/ShafaqShahid/LoadTestGMC/internal/ingest"
	"github.com/ShafaqShahid/LoadTestGMC/internal/metadata"
	"github.com/ShafaqShahid/LoadTestGMC/internal/summary"
)

/*
 Coordinator is the sole control-plane authority of the merge.

 Guarantees:
 - Coordinator is the ONLY component that decides whether a file's state
   enters the final reduction.
 - Per-line and per-file problems are absorbed by the component that
   detects them; nothing below the coordinator aborts the merge.
 - The never-fail contract: zero valid lines across all inputs still
   yields a well-formed, all-zero Summary. No NaN, no undefined fields.
 - Cancellation returns the best-effort partial Summary computed so far
   rather than discarding progress.

 Ordering:
 - Within one file, lines are processed in file order.
 - Across files, no ordering is required: per-file folds are commutative
   and associative, so only quantile approximation can differ.

 Metadata emission is observational only and MUST NOT influence
 file scheduling, skipping, or merge termination.
*/

type Coordinator struct {
	cfg          config.Config
	parser       event.Parser
	ingestor     ingest.Ingestor
	metadataSink metadata.MetadataSink
	finalizer    metadata.MergeFinalizer
}

func NewCoordinator(cfg config.Config) Coordinator {
	recorder := metadata.NewRecorder("merge-coordinator")
	return NewCoordinatorWithDeps(cfg, &recorder, &recorder)
}

// NewCoordinatorWithDeps creates a Coordinator with injected metadata
// dependencies so tests can verify behavior without real infrastructure.
func NewCoordinatorWithDeps(
	cfg config.Config,
	finalizer metadata.MergeFinalizer,
	metadataSink metadata.MetadataSink,
) Coordinator {
	return Coordinator{
		cfg:          cfg,
		parser:       event.NewParser(),
		ingestor:     ingest.NewIngestor(cfg.MaxLineBytes(), cfg.ProgressEvery(), metadataSink),
		metadataSink: metadataSink,
		finalizer:    finalizer,
	}
}

// Merge streams every input through the parse pipeline, folds the per-file
// states, and emits the final Summary document. It never fails: unreadable
// files are skipped, malformed lines are counted, and cancellation yields a
// partial document.
func (c Coordinator) Merge(ctx context.Context, inputs []string) MergeExecution {
	mergeStart := time.Now()

	states := make([]*fileState, len(inputs))
	if c.cfg.Concurrency() > 1 && len(inputs) > 1 {
		c.processParallel(ctx, inputs, states)
	} else {
		for idx := range inputs {
			states[idx] = c.processFile(ctx, inputs[idx])
		}
	}

	agg, processed, skipped, duplicates := c.fold(states)

	doc := c.buildDocument(agg, len(inputs), processed, mergeStart)

	c.finalizer.RecordFinalMergeStats(
		processed,
		agg.totalLines,
		agg.validLines,
		doc.Summary.TotalRequests,
		doc.Summary.TotalErrors,
		time.Since(mergeStart),
	)

	return MergeExecution{
		document:       doc,
		processedFiles: processed,
		skippedFiles:   skipped,
		duplicateFiles: duplicates,
		cancelled:      ctx.Err() != nil,
	}
}

func (c Coordinator) processParallel(ctx context.Context, inputs []string, states []*fileState) {
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := c.cfg.Concurrency()
	if workers > len(inputs) {
		workers = len(inputs)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				states[idx] = c.processFile(ctx, inputs[idx])
			}
		}()
	}
	for idx := range inputs {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
}

// processFile streams one file into a fresh fileState. The state is owned
// by exactly one goroutine until the fold.
func (c Coordinator) processFile(ctx context.Context, path string) *fileState {
	ingestStart := time.Now()
	state := newFileState(path, c.cfg)

	result, err := c.ingestor.Stream(ctx, path, func(line []byte) {
		events, outcome := c.parser.Parse(line)
		state.applyLine(events, outcome)
	})
	if err != nil {
		// recoverable by contract: already recorded by the ingestor
		state.skipped = true
		return state
	}

	state.totalLines = result.TotalLines()
	state.contentHash = result.ContentHash()
	state.completed = result.Completed()

	c.metadataSink.RecordFileIngest(
		path,
		state.totalLines,
		state.validLines,
		state.contentHash,
		time.Since(ingestStart),
	)
	return state
}

// fold is the single reduction phase. It runs without concurrent writers.
// Inputs whose content hash was already folded are dropped so a re-listed
// artifact cannot double-count.
func (c Coordinator) fold(states []*fileState) (*fileState, int, []string, []string) {
	agg := newFileState("", c.cfg)
	seen := NewSet[string]()
	var processed int
	var skipped, duplicates []string

	for _, state := range states {
		if state == nil {
			continue
		}
		if state.skipped {
			skipped = append(skipped, state.path)
			continue
		}
		if state.contentHash != "" && seen.Contains(state.contentHash) {
			duplicates = append(duplicates, state.path)
			c.metadataSink.RecordError(
				time.Now(),
				"merge",
				"Coordinator.fold",
				metadata.CauseDuplicateInput,
				"duplicate input content, skipping",
				[]metadata.Attribute{
					metadata.NewAttr(metadata.AttrFile, state.path),
					metadata.NewAttr(metadata.AttrHash, state.contentHash),
				},
			)
			continue
		}
		if state.contentHash != "" {
			seen.Add(state.contentHash)
		}
		agg.fold(state)
		if state.completed {
			processed++
		}
	}
	return agg, processed, skipped, duplicates
}

func (c Coordinator) buildDocument(
	agg *fileState,
	totalFiles int,
	processedFiles int,
	mergeStart time.Time,
) summary.Document {
	report := agg.classifier.Finalize()
	durationStats := agg.metrics.Stats(event.MetricDuration)

	totalRequests := agg.classifier.Responses()
	if counted := int64(math.Round(agg.metrics.Sum(event.MetricRequests))); counted > totalRequests {
		// inputs that predate the failure metric only carry the request counter
		totalRequests = counted
	}
	totalErrors := report.Total

	c.verifyErrorInvariants(report, totalRequests)

	observedSeconds := agg.timeRange.Duration().Seconds()
	var requestsPerSecond float64
	if observedSeconds > 0 {
		requestsPerSecond = float64(totalRequests) / observedSeconds
	}

	doc := summary.Document{
		Metadata: summary.Metadata{
			TotalFiles:     totalFiles,
			ProcessedFiles: processedFiles,
			TotalLines:     agg.totalLines,
			ValidLines:     agg.validLines,
			MergeTimestamp: mergeStart.UTC().Format(time.RFC3339),
			RunID:          uuid.NewString(),
		},
		Summary: summary.Totals{
			TotalRequests:     totalRequests,
			TotalErrors:       totalErrors,
			ErrorRate:         formatErrorRate(totalErrors, totalRequests),
			AvgResponseTime:   round2(durationStats.Avg),
			P95ResponseTime:   round2(durationStats.P95),
			P99ResponseTime:   round2(durationStats.P99),
			RequestsPerSecond: round2(requestsPerSecond),
			TestDuration:      round2(observedSeconds),
			TotalIterations:   int64(math.Round(agg.metrics.Sum(event.MetricIterations))),
			DataReceived:      agg.metrics.Sum(event.MetricDataReceived),
			DataSent:          agg.metrics.Sum(event.MetricDataSent),
		},
		Performance: summary.Performance{
			Avg: round2(durationStats.Avg),
			Min: round2(durationStats.Min),
			Max: round2(durationStats.Max),
			P90: round2(durationStats.P90),
			P95: round2(durationStats.P95),
			P99: round2(durationStats.P99),
		},
		Checks: buildChecks(agg),
		Errors: buildErrors(report),
	}

	if !agg.timeRange.IsZero() {
		doc.Metadata.TestStartTime = agg.timeRange.Start().UTC().Format(time.RFC3339)
		doc.Metadata.TestEndTime = agg.timeRange.End().UTC().Format(time.RFC3339)
	}
	return doc
}

// verifyErrorInvariants cross-checks the derived error figures. Violations
// are recorded, never acted on; the classifier total stays canonical.
func (c Coordinator) verifyErrorInvariants(report errclass.Report, totalRequests int64) {
	var byTypeSum int64
	for _, tc := range report.ByType {
		byTypeSum += tc.Count
	}
	if byTypeSum != report.Total || report.Total > totalRequests {
		c.metadataSink.RecordError(
			time.Now(),
			"merge",
			"Coordinator.buildDocument",
			metadata.CauseInvariantViolation,
			fmt.Sprintf("error totals inconsistent: total=%d byTypeSum=%d requests=%d",
				report.Total, byTypeSum, totalRequests),
			nil,
		)
	}
}

func buildChecks(agg *fileState) summary.Checks {
	results := agg.checks.Finalize()
	out := make([]summary.CheckResult, 0, len(results))
	for _, r := range results {
		out = append(out, summary.CheckResult{
			Name:        r.Name,
			Total:       r.Total,
			Passed:      r.Passed,
			Failed:      r.Failed,
			SuccessRate: r.SuccessRate,
		})
	}
	all := agg.checks.Summary()
	return summary.Checks{
		Results: out,
		Summary: summary.CheckResult{
			Name:        all.Name,
			Total:       all.Total,
			Passed:      all.Passed,
			Failed:      all.Failed,
			SuccessRate: all.SuccessRate,
		},
	}
}

func buildErrors(report errclass.Report) summary.Errors {
	byType := make([]summary.ErrorTypeCount, 0, len(report.ByType))
	for _, tc := range report.ByType {
		byType = append(byType, summary.ErrorTypeCount{
			Type:       string(tc.Type),
			Count:      tc.Count,
			Percentage: tc.Percentage,
		})
	}
	samples := make([]summary.ErrorSample, 0, len(report.Samples))
	for i := range report.Samples {
		rec := &report.Samples[i]
		sample := summary.ErrorSample{
			Type:   string(rec.Category()),
			Status: rec.Status(),
			Method: rec.Method(),
			URL:    rec.URL(),
			Tags:   rec.Tags(),
		}
		if ts := rec.Timestamp(); ts != nil {
			sample.Timestamp = ts.UTC().Format(time.RFC3339)
		}
		samples = append(samples, sample)
	}
	return summary.Errors{
		Total:    report.Total,
		ByType:   byType,
		ByStatus: report.ByStatus,
		Samples:  samples,
	}
}

func formatErrorRate(totalErrors int64, totalRequests int64) string {
	if totalRequests == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(totalErrors)/float64(totalRequests)*100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
