package ingest

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/ShafaqShahid/LoadTestGMC/internal/metadata"
	"github.com/ShafaqShahid/LoadTestGMC/pkg/failure"
	"github.com/ShafaqShahid/LoadTestGMC/pkg/hashutil"
)

/*
Responsibilities
- Stream one file's lines with constant memory
- Reassemble lines split across read-buffer boundaries, including a final
  line with no trailing newline
- Decompress .gz / .zst inputs transparently
- Hash the file's raw bytes incrementally for provenance and dedupe

Output Characteristics
- Restartable: streaming the same path again re-opens from the start
- A missing or unreadable file is a recoverable skip, never fatal
- Progress counts are observational only
*/

// LineHandler receives one raw line with the trailing newline removed. The
// slice is only valid for the duration of the call.
type LineHandler func(line []byte)

type Ingestor struct {
	maxLineBytes  int
	progressEvery int64
	metadataSink  metadata.MetadataSink
}

const (
	DefaultMaxLineBytes = 16 * 1024 * 1024
	readBufferSize      = 64 * 1024
	cancelCheckMask     = 1023
)

func NewIngestor(
	maxLineBytes int,
	progressEvery int64,
	metadataSink metadata.MetadataSink,
) Ingestor {
	if maxLineBytes < 1 {
		maxLineBytes = DefaultMaxLineBytes
	}
	return Ingestor{
		maxLineBytes:  maxLineBytes,
		progressEvery: progressEvery,
		metadataSink:  metadataSink,
	}
}

// Stream reads the file at path line by line, invoking handle for each line.
// On cancellation the partial Result is returned with Completed() false.
func (i *Ingestor) Stream(
	ctx context.Context,
	path string,
	handle LineHandler,
) (Result, failure.ClassifiedError) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, i.fail(&IngestError{
			Message: err.Error(),
			Path:    path,
			Cause:   ErrCauseOpenFailure,
		}, "Ingestor.Stream")
	}
	defer f.Close()

	hasher, err := hashutil.NewStreamingHasher(hashutil.HashAlgoBLAKE3)
	if err != nil {
		return Result{}, i.fail(&IngestError{
			Message: err.Error(),
			Path:    path,
			Cause:   ErrCauseOpenFailure,
		}, "Ingestor.Stream")
	}

	src, closeSrc, cerr := wrapDecompression(path, io.TeeReader(f, hasher))
	if cerr != nil {
		ingestErr := &IngestError{
			Message: cerr.Error(),
			Path:    path,
			Cause:   ErrCauseDecompressFailure,
		}
		return Result{}, i.fail(ingestErr, "Ingestor.Stream")
	}
	defer closeSrc()

	r := bufio.NewReaderSize(src, readBufferSize)

	var totalLines, overlongLines int64
	for {
		if totalLines&cancelCheckMask == 0 && ctx.Err() != nil {
			return NewResult(totalLines, overlongLines, "", false), nil
		}

		line, overlong, rerr := readLine(r, i.maxLineBytes)
		if rerr != nil && rerr != io.EOF {
			partial := NewResult(totalLines, overlongLines, "", false)
			return partial, i.fail(&IngestError{
				Message: rerr.Error(),
				Path:    path,
				Cause:   ErrCauseReadFailure,
			}, "Ingestor.Stream")
		}

		trimmed := trimEOL(line)
		switch {
		case overlong:
			totalLines++
			overlongLines++
		case rerr == nil || len(trimmed) > 0:
			// rerr == nil means a newline terminated the line; at EOF a
			// non-empty remainder is the final unterminated line.
			totalLines++
			handle(trimmed)
		}

		if i.progressEvery > 0 && totalLines > 0 && totalLines%i.progressEvery == 0 {
			i.metadataSink.RecordProgress(path, totalLines)
		}

		if rerr == io.EOF {
			return NewResult(totalLines, overlongLines, hashutil.SumToHex(hasher), true), nil
		}
	}
}

// readLine assembles one line across internal buffer boundaries. Lines
// longer than max are discarded but fully drained so the stream stays in
// sync.
func readLine(r *bufio.Reader, max int) ([]byte, bool, error) {
	var line []byte
	overlong := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !overlong {
			if len(line)+len(chunk) > max {
				overlong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return line, overlong, err
	}
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

// wrapDecompression selects a decompressor by file extension. Plain files
// pass through untouched.
func wrapDecompression(path string, raw io.Reader) (io.Reader, func(), error) {
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(raw)
		if err != nil {
			return nil, nil, err
		}
		return gz, func() { gz.Close() }, nil
	case strings.HasSuffix(path, ".zst"), strings.HasSuffix(path, ".zstd"):
		dec, err := zstd.NewReader(raw)
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	default:
		return raw, func() {}, nil
	}
}

func (i *Ingestor) fail(err *IngestError, action string) failure.ClassifiedError {
	i.metadataSink.RecordError(
		time.Now(),
		"ingest",
		action,
		mapIngestErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrFile, err.Path),
		},
	)
	return err
}
