package history

// Entry is one stored merge run, newest first in listings.
type Entry struct {
	RunID          string `json:"runId"`
	MergeTimestamp string `json:"mergeTimestamp"`
	TotalRequests  int64  `json:"totalRequests"`
	TotalErrors    int64  `json:"totalErrors"`
	ErrorRate      string `json:"errorRate"`
	ProcessedFiles int    `json:"processedFiles"`
}
