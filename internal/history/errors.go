package history

import (
	"fmt"

	"github.com/ShafaqShahid/LoadTestGMC/pkg/failure"
)

type HistoryErrorCause string

const (
	ErrCauseOpenFailure   HistoryErrorCause = "cannot open history store"
	ErrCauseWriteFailure  HistoryErrorCause = "history write failed"
	ErrCauseReadFailure   HistoryErrorCause = "history read failed"
	ErrCauseDecodeFailure HistoryErrorCause = "history entry corrupt"
)

// HistoryError is always recoverable: the history store is a convenience on
// top of a completed merge and must never affect the exit code.
type HistoryError struct {
	Message string
	Cause   HistoryErrorCause
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("history error: %s", e.Cause)
}

func (e *HistoryError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
