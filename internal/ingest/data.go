package ingest

// Result is the outcome of streaming one input file.
type Result struct {
	totalLines    int64
	overlongLines int64
	contentHash   string
	completed     bool
}

func NewResult(totalLines int64, overlongLines int64, contentHash string, completed bool) Result {
	return Result{
		totalLines:    totalLines,
		overlongLines: overlongLines,
		contentHash:   contentHash,
		completed:     completed,
	}
}

// TotalLines is the number of lines encountered, including discarded
// overlong ones.
func (r *Result) TotalLines() int64 {
	return r.totalLines
}

// OverlongLines is the number of lines discarded by the per-line byte cap.
func (r *Result) OverlongLines() int64 {
	return r.overlongLines
}

// ContentHash is the blake3 hex digest of the file's raw on-disk bytes.
// Empty unless the file was streamed to completion.
func (r *Result) ContentHash() string {
	return r.contentHash
}

// Completed reports whether the whole file was consumed (false after
// cancellation or a mid-file read failure).
func (r *Result) Completed() bool {
	return r.completed
}
