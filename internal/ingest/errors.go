package ingest

import (
	"fmt"

	"github.com/ShafaqShahid/LoadTestGMC/internal/metadata"
	"github.com/ShafaqShahid/LoadTestGMC/pkg/failure"
)

type IngestErrorCause string

const (
	ErrCauseOpenFailure       IngestErrorCause = "cannot open input"
	ErrCauseReadFailure       IngestErrorCause = "read failed"
	ErrCauseDecompressFailure IngestErrorCause = "corrupt compressed stream"
)

// IngestError is always recoverable: an unreadable input is skipped and the
// merge continues with reduced coverage.
type IngestError struct {
	Message string
	Path    string
	Cause   IngestErrorCause
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest error: %s: %s", e.Cause, e.Path)
}

func (e *IngestError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// mapIngestErrorToMetadataCause maps ingest-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapIngestErrorToMetadataCause(err *IngestError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseOpenFailure, ErrCauseReadFailure, ErrCauseDecompressFailure:
		return metadata.CauseFileUnreadable
	default:
		return metadata.CauseUnknown
	}
}
