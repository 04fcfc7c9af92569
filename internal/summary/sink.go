package summary

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ShafaqShahid/LoadTestGMC/internal/metadata"
	"github.com/ShafaqShahid/LoadTestGMC/pkg/failure"
	"github.com/ShafaqShahid/LoadTestGMC/pkg/fileutil"
)

/*
Responsibilities
- Persist the merged summary document as pretty-printed JSON

Output Characteristics
- Idempotent writes
- Overwrite-safe reruns
*/

type Sink interface {
	Write(path string, doc Document) (WriteResult, failure.ClassifiedError)
}

type LocalSink struct {
	metadataSink metadata.MetadataSink
}

func NewLocalSink(
	metadataSink metadata.MetadataSink,
) LocalSink {
	return LocalSink{
		metadataSink: metadataSink,
	}
}

func (s *LocalSink) Write(path string, doc Document) (WriteResult, failure.ClassifiedError) {
	writeResult, err := write(path, doc)
	if err != nil {
		var storageError *StorageError
		errors.As(err, &storageError)
		s.metadataSink.RecordError(
			time.Now(),
			"summary",
			"LocalSink.Write",
			mapStorageErrorToMetadataCause(storageError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrWritePath, storageError.Path),
			},
		)
		return WriteResult{}, storageError
	}
	s.metadataSink.RecordArtifact(
		metadata.ArtifactSummary,
		writeResult.Path(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrWritePath, writeResult.Path()),
			metadata.NewAttr(metadata.AttrRunID, doc.Metadata.RunID),
		},
	)
	return writeResult, nil
}

func write(path string, doc Document) (WriteResult, failure.ClassifiedError) {
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseEncodeFailure,
			Path:      path,
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fileutil.EnsureDir(dir); err != nil {
			return WriteResult{}, &StorageError{
				Message:   err.Error(),
				Retryable: false,
				Cause:     ErrCausePathError,
				Path:      dir,
			}
		}
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		cause := ErrCauseWriteFailure
		retryable := false
		// Check if it's a disk full error (ENOSPC)
		if errors.Is(err, syscall.ENOSPC) {
			cause = ErrCauseDiskFull
			retryable = true // disk full is retryable
		}
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: retryable,
			Cause:     cause,
			Path:      path,
		}
	}

	return NewWriteResult(path, len(content)), nil
}
