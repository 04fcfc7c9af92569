package metadata

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

/*
Metadata Collected
- Per-file ingest outcomes (line counts, content hashes, durations)
- Periodic progress counts
- Written artifacts (summary document, history entries)
- Failure diagnostics

Determinism guarantees:
 - Metadata does not affect control flow
 - Errors do not reorder file processing
 - Output is stable given identical inputs

Metadata is write-only.
No component may read metadata to influence merge decisions.
*/

/*
Recorder captures structured merge events and writes them to stderr.
It must not:
- perform I/O decisions
- affect control flow
Ordering guarantees:
- Events are recorded synchronously in the order they are received by a single worker.
- No global ordering across per-file workers is guaranteed.
- Consumers MUST NOT assume total ordering across the merge.
- Ordering is provided for debuggability, not causality.
*/
type Recorder struct {
	workerId string
	logger   *log.Logger
}

// LogLevel represents severity of recorded lines.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var currentLevel int32 = int32(LevelInfo)

// SetLogLevel parses and sets the global log level.
func SetLogLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	atomic.StoreInt32(&currentLevel, int32(l))
}

func getLevel() LogLevel { return LogLevel(atomic.LoadInt32(&currentLevel)) }

func NewRecorder(workerId string) Recorder {
	return Recorder{
		workerId: workerId,
		logger:   log.New(os.Stderr, "", log.Ldate|log.Ltime),
	}
}

func (r *Recorder) logf(l LogLevel, format string, args ...interface{}) {
	if getLevel() > l {
		return
	}
	prefix := "INFO"
	switch l {
	case LevelDebug:
		prefix = "DEBUG"
	case LevelWarn:
		prefix = "WARN"
	case LevelError:
		prefix = "ERROR"
	}
	r.logger.Printf("[%s] [%s] %s", prefix, r.workerId, fmt.Sprintf(format, args...))
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	r.logf(LevelWarn, "%s: %s cause=%d err=%q%s", packageName, action, cause, errorString, formatAttrs(attrs))
}

func (r *Recorder) RecordFileIngest(
	path string,
	totalLines int64,
	validLines int64,
	contentHash string,
	duration time.Duration,
) {
	r.logf(LevelInfo, "ingested %s: lines=%d valid=%d hash=%s in %s", path, totalLines, validLines, shortHash(contentHash), duration)
}

func (r *Recorder) RecordProgress(path string, lines int64) {
	r.logf(LevelDebug, "progress %s: %d lines", path, lines)
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	r.logf(LevelInfo, "wrote %s artifact %s%s", kind, path, formatAttrs(attrs))
}

/*
RecordFinalMergeStats records a terminal, derived summary of a completed merge.

Contract:
  - MUST be called exactly once per merge execution.
  - MUST be called only after merge termination
    (all inputs consumed or coordinator cancellation).
  - MUST NOT be called during active merging.
  - The provided stats MUST be derived from coordinator state,
    not accumulated incrementally via the recorder.
  - Recorded stats MUST NOT influence control flow or file scheduling.
*/
func (r *Recorder) RecordFinalMergeStats(
	filesProcessed int,
	totalLines int64,
	validLines int64,
	totalRequests int64,
	totalErrors int64,
	duration time.Duration,
) {
	stats := mergeStats{
		filesProcessed: filesProcessed,
		totalLines:     totalLines,
		validLines:     validLines,
		totalRequests:  totalRequests,
		totalErrors:    totalErrors,
		durationMs:     duration.Milliseconds(),
	}

	r.logf(LevelInfo, "merge complete: files=%d lines=%d valid=%d requests=%d errors=%d in %dms",
		stats.filesProcessed, stats.totalLines, stats.validLines,
		stats.totalRequests, stats.totalErrors, stats.durationMs)
}

func formatAttrs(attrs []Attribute) string {
	if len(attrs) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, a := range attrs {
		sb.WriteString(fmt.Sprintf(" %s=%s", a.Key, a.Value))
	}
	return sb.String()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFileIngest(
		path string,
		totalLines int64,
		validLines int64,
		contentHash string,
		duration time.Duration,
	)
	RecordProgress(path string, lines int64)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

type MergeFinalizer interface {
	RecordFinalMergeStats(
		filesProcessed int,
		totalLines int64,
		validLines int64,
		totalRequests int64,
		totalErrors int64,
		duration time.Duration,
	)
}

// NoopSink, struct that implements metadata.MetadataSink but does nothing
// Coordinator (or Test) can decide whether to inject Recorder or NoopSink
// Purpose is to make metadata orthogonal

type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {

}

func (n *NoopSink) RecordFileIngest(
	path string,
	totalLines int64,
	validLines int64,
	contentHash string,
	duration time.Duration,
) {
}

func (n *NoopSink) RecordProgress(path string, lines int64) {}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}

func (n *NoopSink) RecordFinalMergeStats(
	filesProcessed int,
	totalLines int64,
	validLines int64,
	totalRequests int64,
	totalErrors int64,
	duration time.Duration,
) {
}
