package summary

/*
Document is the merged summary, the sole contract consumed by the external
report renderer.

It is produced exactly once per merge run and never mutated afterward.
Human-facing ratios are pre-formatted strings (errorRate "25.00%",
percentage/successRate "75.0") because the renderer prints them verbatim;
all other numbers stay numeric.
*/
type Document struct {
	Metadata    Metadata    `json:"metadata"`
	Summary     Totals      `json:"summary"`
	Performance Performance `json:"performance"`
	Checks      Checks      `json:"checks"`
	Errors      Errors      `json:"errors"`
}

type Metadata struct {
	TotalFiles     int    `json:"totalFiles"`
	ProcessedFiles int    `json:"processedFiles"`
	TotalLines     int64  `json:"totalLines"`
	ValidLines     int64  `json:"validLines"`
	MergeTimestamp string `json:"mergeTimestamp"`
	TestStartTime  string `json:"testStartTime,omitempty"`
	TestEndTime    string `json:"testEndTime,omitempty"`
	RunID          string `json:"runId,omitempty"`
}

type Totals struct {
	TotalRequests     int64   `json:"totalRequests"`
	TotalErrors       int64   `json:"totalErrors"`
	ErrorRate         string  `json:"errorRate"`
	AvgResponseTime   float64 `json:"avgResponseTime"`
	P95ResponseTime   float64 `json:"p95ResponseTime"`
	P99ResponseTime   float64 `json:"p99ResponseTime"`
	RequestsPerSecond float64 `json:"requestsPerSecond"`
	TestDuration      float64 `json:"testDuration"`
	TotalIterations   int64   `json:"totalIterations"`
	DataReceived      float64 `json:"dataReceived"`
	DataSent          float64 `json:"dataSent"`
}

type Performance struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type Checks struct {
	Results []CheckResult `json:"results"`
	Summary CheckResult   `json:"summary"`
}

type CheckResult struct {
	Name        string `json:"name"`
	Total       int64  `json:"total"`
	Passed      int64  `json:"passed"`
	Failed      int64  `json:"failed"`
	SuccessRate string `json:"successRate"`
}

type Errors struct {
	Total    int64            `json:"total"`
	ByType   []ErrorTypeCount `json:"byType"`
	ByStatus map[string]int64 `json:"byStatus"`
	Samples  []ErrorSample    `json:"samples"`
}

type ErrorTypeCount struct {
	Type       string `json:"type"`
	Count      int64  `json:"count"`
	Percentage string `json:"percentage"`
}

type ErrorSample struct {
	Timestamp string            `json:"timestamp,omitempty"`
	Type      string            `json:"type"`
	Status    string            `json:"status,omitempty"`
	Method    string            `json:"method,omitempty"`
	URL       string            `json:"url,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// Persistence

type WriteResult struct {
	path  string
	bytes int
}

func NewWriteResult(path string, bytes int) WriteResult {
	return WriteResult{
		path:  path,
		bytes: bytes,
	}
}

func (w *WriteResult) Path() string {
	return w.path
}

func (w *WriteResult) Bytes() int {
	return w.bytes
}
