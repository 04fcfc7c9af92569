package merge_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ShafaqShahid/LoadTestGMC/internal/config"
	"github.com/ShafaqShahid/LoadTestGMC/internal/merge"
	"github.com/ShafaqShahid/LoadTestGMC/internal/metadata"
	"github.com/ShafaqShahid/LoadTestGMC/internal/summary"
)

func defaultConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.WithDefault().Build()
	require.NoError(t, err)
	return cfg
}

func newCoordinator(t *testing.T, cfg config.Config) merge.Coordinator {
	t.Helper()
	noopSink := &metadata.NoopSink{}
	return merge.NewCoordinatorWithDeps(cfg, noopSink, noopSink)
}

func writeLines(t *testing.T, dir string, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func requestLine(ts string, status string, failed int, method string, url string) string {
	return `{"type":"Point","metric":"http_req_failed","data":{"time":"` + ts +
		`","value":` + strconv.Itoa(failed) + `,"tags":{"status":"` + status +
		`","method":"` + method + `","url":"` + url + `"}}}`
}

func durationLine(ts string, value string) string {
	return `{"type":"Point","metric":"http_req_duration","data":{"time":"` + ts +
		`","value":` + value + `,"tags":{"status":"200"}}}`
}

func checkLine(name string, passed int) string {
	return `{"metric":"checks","data":{"value":` + strconv.Itoa(passed) + `,"tags":{"check":"` + name + `"}}}`
}

// Two partial result files covering four requests, one of which failed with a
// 500. The merged document must agree with hand-computed figures.
func TestMerge_TwoFiles(t *testing.T) {
	dir := t.TempDir()
	f1 := writeLines(t, dir, "f1.ndjson",
		requestLine("2024-01-15T10:00:00Z", "200", 0, "GET", "https://gmc.example.com/login"),
		durationLine("2024-01-15T10:00:00Z", "120"),
		requestLine("2024-01-15T10:00:05Z", "500", 1, "POST", "https://gmc.example.com/checkout"),
	)
	f2 := writeLines(t, dir, "f2.ndjson",
		requestLine("2024-01-15T10:00:08Z", "200", 0, "GET", "https://gmc.example.com/products"),
		durationLine("2024-01-15T10:00:08Z", "80"),
		requestLine("2024-01-15T10:00:10Z", "200", 0, "GET", "https://gmc.example.com/cart"),
		"this line is not json",
	)

	coordinator := newCoordinator(t, defaultConfig(t))
	execution := coordinator.Merge(context.Background(), []string{f1, f2})

	doc := execution.Document()
	assert.Equal(t, 2, execution.ProcessedFiles())
	assert.Empty(t, execution.SkippedFiles())
	assert.False(t, execution.Cancelled())

	assert.Equal(t, 2, doc.Metadata.TotalFiles)
	assert.Equal(t, 2, doc.Metadata.ProcessedFiles)
	assert.Equal(t, int64(7), doc.Metadata.TotalLines)
	assert.Equal(t, int64(6), doc.Metadata.ValidLines)
	assert.Equal(t, "2024-01-15T10:00:00Z", doc.Metadata.TestStartTime)
	assert.Equal(t, "2024-01-15T10:00:10Z", doc.Metadata.TestEndTime)
	assert.NotEmpty(t, doc.Metadata.RunID)

	assert.Equal(t, int64(4), doc.Summary.TotalRequests)
	assert.Equal(t, int64(1), doc.Summary.TotalErrors)
	assert.Equal(t, "25.00%", doc.Summary.ErrorRate)
	assert.Equal(t, 100.0, doc.Summary.AvgResponseTime)
	assert.Equal(t, 0.4, doc.Summary.RequestsPerSecond)
	assert.Equal(t, 10.0, doc.Summary.TestDuration)

	assert.Equal(t, 80.0, doc.Performance.Min)
	assert.Equal(t, 120.0, doc.Performance.Max)

	require.Len(t, doc.Errors.ByType, 1)
	assert.Equal(t, "server_error_500", doc.Errors.ByType[0].Type)
	assert.Equal(t, int64(1), doc.Errors.ByType[0].Count)
	assert.Equal(t, "100.0", doc.Errors.ByType[0].Percentage)
	assert.Equal(t, int64(3), doc.Errors.ByStatus["200"])
	assert.Equal(t, int64(1), doc.Errors.ByStatus["500"])

	require.Len(t, doc.Errors.Samples, 1)
	assert.Equal(t, "500", doc.Errors.Samples[0].Status)
	assert.Equal(t, "POST", doc.Errors.Samples[0].Method)
	assert.Equal(t, "https://gmc.example.com/checkout", doc.Errors.Samples[0].URL)
}

func TestMerge_MissingFileIsSkipped(t *testing.T) {
	dir := t.TempDir()
	f1 := writeLines(t, dir, "f1.ndjson",
		requestLine("2024-01-15T10:00:00Z", "200", 0, "GET", "https://gmc.example.com/"),
	)
	missing := filepath.Join(dir, "f2.ndjson")
	f3 := writeLines(t, dir, "f3.ndjson",
		requestLine("2024-01-15T10:00:01Z", "200", 0, "GET", "https://gmc.example.com/"),
	)

	coordinator := newCoordinator(t, defaultConfig(t))
	execution := coordinator.Merge(context.Background(), []string{f1, missing, f3})

	doc := execution.Document()
	assert.Equal(t, 2, execution.ProcessedFiles())
	assert.Equal(t, []string{missing}, execution.SkippedFiles())
	assert.Equal(t, 3, doc.Metadata.TotalFiles)
	assert.Equal(t, 2, doc.Metadata.ProcessedFiles)
	assert.Equal(t, int64(2), doc.Summary.TotalRequests)
}

func TestMerge_AllMalformedFileStillProcessed(t *testing.T) {
	dir := t.TempDir()
	f1 := writeLines(t, dir, "f1.ndjson",
		"garbage",
		"{broken",
	)

	coordinator := newCoordinator(t, defaultConfig(t))
	execution := coordinator.Merge(context.Background(), []string{f1})

	doc := execution.Document()
	assert.Equal(t, 1, execution.ProcessedFiles())
	assert.Equal(t, int64(2), doc.Metadata.TotalLines)
	assert.Equal(t, int64(0), doc.Metadata.ValidLines)
	assert.Equal(t, int64(0), doc.Summary.TotalRequests)
	assert.Equal(t, "0.00%", doc.Summary.ErrorRate)
}

func TestMerge_NoInputsYieldsWellFormedZeroDocument(t *testing.T) {
	coordinator := newCoordinator(t, defaultConfig(t))
	execution := coordinator.Merge(context.Background(), nil)

	doc := execution.Document()
	assert.Equal(t, 0, doc.Metadata.TotalFiles)
	assert.Equal(t, int64(0), doc.Summary.TotalRequests)
	assert.Equal(t, int64(0), doc.Summary.TotalErrors)
	assert.Equal(t, "0.00%", doc.Summary.ErrorRate)
	assert.Equal(t, 0.0, doc.Summary.AvgResponseTime)
	assert.Equal(t, 0.0, doc.Summary.RequestsPerSecond)
	assert.Empty(t, doc.Metadata.TestStartTime)
	assert.Empty(t, doc.Metadata.TestEndTime)
	assert.NotNil(t, doc.Errors.ByType)
	assert.NotNil(t, doc.Checks.Results)
	assert.NotEmpty(t, doc.Metadata.MergeTimestamp)
}

func TestMerge_FileOrderDoesNotChangeCounts(t *testing.T) {
	dir := t.TempDir()
	f1 := writeLines(t, dir, "f1.ndjson",
		requestLine("2024-01-15T10:00:00Z", "200", 0, "GET", "https://gmc.example.com/"),
		requestLine("2024-01-15T10:00:01Z", "500", 1, "GET", "https://gmc.example.com/"),
		durationLine("2024-01-15T10:00:01Z", "50"),
	)
	f2 := writeLines(t, dir, "f2.ndjson",
		requestLine("2024-01-15T10:00:02Z", "200", 0, "GET", "https://gmc.example.com/"),
		durationLine("2024-01-15T10:00:02Z", "150"),
		checkLine("login successful", 1),
	)

	coordinator := newCoordinator(t, defaultConfig(t))
	forward := coordinator.Merge(context.Background(), []string{f1, f2}).Document()
	backward := coordinator.Merge(context.Background(), []string{f2, f1}).Document()

	assert.Equal(t, forward.Summary.TotalRequests, backward.Summary.TotalRequests)
	assert.Equal(t, forward.Summary.TotalErrors, backward.Summary.TotalErrors)
	assert.Equal(t, forward.Summary.ErrorRate, backward.Summary.ErrorRate)
	assert.Equal(t, forward.Metadata.ValidLines, backward.Metadata.ValidLines)
	assert.Equal(t, forward.Metadata.TestStartTime, backward.Metadata.TestStartTime)
	assert.Equal(t, forward.Metadata.TestEndTime, backward.Metadata.TestEndTime)
	assert.Equal(t, forward.Errors.ByType, backward.Errors.ByType)
	assert.Equal(t, forward.Errors.ByStatus, backward.Errors.ByStatus)
	assert.Equal(t, forward.Checks, backward.Checks)
}

func TestMerge_ParallelMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for i, name := range []string{"a.ndjson", "b.ndjson", "c.ndjson", "d.ndjson"} {
		ts := time.Date(2024, 1, 15, 10, 0, i, 0, time.UTC).Format(time.RFC3339)
		inputs = append(inputs, writeLines(t, dir, name,
			requestLine(ts, "200", 0, "GET", "https://gmc.example.com/"),
			durationLine(ts, "100"),
		))
	}

	seqCfg, err := config.WithDefault().WithConcurrency(1).Build()
	require.NoError(t, err)
	parCfg, err := config.WithDefault().WithConcurrency(4).Build()
	require.NoError(t, err)

	sequential := newCoordinator(t, seqCfg).Merge(context.Background(), inputs).Document()
	parallel := newCoordinator(t, parCfg).Merge(context.Background(), inputs).Document()

	assert.Equal(t, sequential.Summary.TotalRequests, parallel.Summary.TotalRequests)
	assert.Equal(t, sequential.Metadata.TotalLines, parallel.Metadata.TotalLines)
	assert.Equal(t, sequential.Metadata.ValidLines, parallel.Metadata.ValidLines)
	assert.Equal(t, sequential.Metadata.TestStartTime, parallel.Metadata.TestStartTime)
	assert.Equal(t, sequential.Metadata.TestEndTime, parallel.Metadata.TestEndTime)
	assert.Equal(t, sequential.Errors.ByStatus, parallel.Errors.ByStatus)
}

func TestMerge_DuplicateContentCountedOnce(t *testing.T) {
	dir := t.TempDir()
	line := requestLine("2024-01-15T10:00:00Z", "200", 0, "GET", "https://gmc.example.com/")
	f1 := writeLines(t, dir, "f1.ndjson", line)
	f2 := writeLines(t, dir, "copy-of-f1.ndjson", line)

	coordinator := newCoordinator(t, defaultConfig(t))
	execution := coordinator.Merge(context.Background(), []string{f1, f2})

	doc := execution.Document()
	assert.Equal(t, 1, execution.ProcessedFiles())
	assert.Equal(t, []string{f2}, execution.DuplicateFiles())
	assert.Equal(t, int64(1), doc.Summary.TotalRequests)
	assert.Equal(t, int64(1), doc.Metadata.TotalLines)
}

func TestMerge_CancelledContextYieldsPartialDocument(t *testing.T) {
	dir := t.TempDir()
	f1 := writeLines(t, dir, "f1.ndjson",
		requestLine("2024-01-15T10:00:00Z", "200", 0, "GET", "https://gmc.example.com/"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	coordinator := newCoordinator(t, defaultConfig(t))
	execution := coordinator.Merge(ctx, []string{f1})

	doc := execution.Document()
	assert.True(t, execution.Cancelled())
	assert.Equal(t, 0, execution.ProcessedFiles())
	assert.Equal(t, int64(0), doc.Summary.TotalRequests)
	assert.Equal(t, "0.00%", doc.Summary.ErrorRate)
}

func TestMerge_ChecksWorstFirst(t *testing.T) {
	dir := t.TempDir()
	f1 := writeLines(t, dir, "f1.ndjson",
		checkLine("login successful", 1),
		checkLine("login successful", 1),
		checkLine("cart updated", 1),
	)
	f2 := writeLines(t, dir, "f2.ndjson",
		checkLine("cart updated", 0),
		checkLine("login successful", 1),
	)

	coordinator := newCoordinator(t, defaultConfig(t))
	doc := coordinator.Merge(context.Background(), []string{f1, f2}).Document()

	require.Len(t, doc.Checks.Results, 2)
	assert.Equal(t, "cart updated", doc.Checks.Results[0].Name)
	assert.Equal(t, "50.0", doc.Checks.Results[0].SuccessRate)
	assert.Equal(t, "login successful", doc.Checks.Results[1].Name)
	assert.Equal(t, "100.0", doc.Checks.Results[1].SuccessRate)

	assert.Equal(t, "all checks", doc.Checks.Summary.Name)
	assert.Equal(t, int64(5), doc.Checks.Summary.Total)
	assert.Equal(t, int64(4), doc.Checks.Summary.Passed)
	assert.Equal(t, "80.0", doc.Checks.Summary.SuccessRate)
}

func TestMerge_ByTypeSumsToTotalErrors(t *testing.T) {
	dir := t.TempDir()
	f1 := writeLines(t, dir, "f1.ndjson",
		requestLine("2024-01-15T10:00:00Z", "500", 1, "GET", "https://gmc.example.com/"),
		requestLine("2024-01-15T10:00:01Z", "500", 1, "GET", "https://gmc.example.com/"),
		requestLine("2024-01-15T10:00:02Z", "404", 1, "GET", "https://gmc.example.com/"),
		requestLine("2024-01-15T10:00:03Z", "200", 0, "GET", "https://gmc.example.com/"),
	)

	coordinator := newCoordinator(t, defaultConfig(t))
	doc := coordinator.Merge(context.Background(), []string{f1}).Document()

	var byTypeSum int64
	for _, tc := range doc.Errors.ByType {
		byTypeSum += tc.Count
	}
	assert.Equal(t, doc.Errors.Total, byTypeSum)
	assert.Equal(t, doc.Summary.TotalErrors, doc.Errors.Total)
	assert.LessOrEqual(t, doc.Errors.Total, doc.Summary.TotalRequests)
}

// mockMetadataSink verifies observational calls without real infrastructure.
type mockMetadataSink struct {
	mock.Mock
}

func (m *mockMetadataSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.Called(observedAt, packageName, action, cause, details, attrs)
}

func (m *mockMetadataSink) RecordFileIngest(
	path string,
	totalLines int64,
	validLines int64,
	contentHash string,
	duration time.Duration,
) {
	m.Called(path, totalLines, validLines, contentHash, duration)
}

func (m *mockMetadataSink) RecordProgress(path string, lines int64) {
	m.Called(path, lines)
}

func (m *mockMetadataSink) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
	m.Called(kind, path, attrs)
}

func (m *mockMetadataSink) RecordFinalMergeStats(
	filesProcessed int,
	totalLines int64,
	validLines int64,
	totalRequests int64,
	totalErrors int64,
	duration time.Duration,
) {
	m.Called(filesProcessed, totalLines, validLines, totalRequests, totalErrors, duration)
}

func TestMerge_RecordsFinalStatsExactlyOnce(t *testing.T) {
	dir := t.TempDir()
	f1 := writeLines(t, dir, "f1.ndjson",
		requestLine("2024-01-15T10:00:00Z", "200", 0, "GET", "https://gmc.example.com/"),
	)

	sink := &mockMetadataSink{}
	sink.On("RecordFileIngest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	sink.On("RecordFinalMergeStats", 1, int64(1), int64(1), int64(1), int64(0), mock.Anything).Return().Once()

	coordinator := merge.NewCoordinatorWithDeps(defaultConfig(t), sink, sink)
	coordinator.Merge(context.Background(), []string{f1})

	sink.AssertExpectations(t)
}

func TestMerge_DuplicateInputRecordsCause(t *testing.T) {
	dir := t.TempDir()
	line := requestLine("2024-01-15T10:00:00Z", "200", 0, "GET", "https://gmc.example.com/")
	f1 := writeLines(t, dir, "f1.ndjson", line)
	f2 := writeLines(t, dir, "f2.ndjson", line)

	sink := &mockMetadataSink{}
	sink.On("RecordFileIngest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	sink.On("RecordFinalMergeStats", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	sink.On("RecordError",
		mock.Anything, "merge", "Coordinator.fold", metadata.CauseDuplicateInput,
		mock.Anything, mock.Anything,
	).Return().Once()

	coordinator := merge.NewCoordinatorWithDeps(defaultConfig(t), sink, sink)
	execution := coordinator.Merge(context.Background(), []string{f1, f2})

	sink.AssertExpectations(t)
	assert.Equal(t, []string{f2}, execution.DuplicateFiles())
}

func TestMerge_DocumentMatchesSummaryContractRoundTrip(t *testing.T) {
	dir := t.TempDir()
	f1 := writeLines(t, dir, "f1.ndjson",
		requestLine("2024-01-15T10:00:00Z", "200", 0, "GET", "https://gmc.example.com/"),
		durationLine("2024-01-15T10:00:00Z", "100"),
		checkLine("status is 200", 1),
	)

	coordinator := newCoordinator(t, defaultConfig(t))
	doc := coordinator.Merge(context.Background(), []string{f1}).Document()

	// the document must survive the sink round trip unchanged
	path := filepath.Join(dir, "summary.json")
	sink := summary.NewLocalSink(&metadata.NoopSink{})
	_, werr := sink.Write(path, doc)
	require.Nil(t, werr)

	raw, rerr := os.ReadFile(path)
	require.NoError(t, rerr)
	assert.Contains(t, string(raw), `"totalRequests": 1`)
	assert.Contains(t, string(raw), `"successRate": "100.0"`)
}
