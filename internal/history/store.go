package history

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"

	"github.com/ShafaqShahid/LoadTestGMC/internal/metadata"
	"github.com/ShafaqShahid/LoadTestGMC/internal/summary"
	"github.com/ShafaqShahid/LoadTestGMC/pkg/failure"
)

/*
Responsibilities
- Persist every merged summary for trend inspection across runs
- List recent runs, newest first

Characteristics
- Keys order by merge timestamp, so a reverse scan is a recency scan
- Payloads are zstd-compressed summary JSON
- Every failure is recoverable; history never changes the exit code
*/

const runKeyPrefix = "run/"

type Store struct {
	db           *badger.DB
	encoder      *zstd.Encoder
	decoder      *zstd.Decoder
	metadataSink metadata.MetadataSink
}

func Open(dir string, metadataSink metadata.MetadataSink) (*Store, failure.ClassifiedError) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's own logging is noise here

	db, err := badger.Open(opts)
	if err != nil {
		return nil, &HistoryError{Message: err.Error(), Cause: ErrCauseOpenFailure}
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, &HistoryError{Message: err.Error(), Cause: ErrCauseOpenFailure}
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, &HistoryError{Message: err.Error(), Cause: ErrCauseOpenFailure}
	}

	return &Store{
		db:           db,
		encoder:      encoder,
		decoder:      decoder,
		metadataSink: metadataSink,
	}, nil
}

func (s *Store) Close() {
	s.encoder.Close()
	s.decoder.Close()
	s.db.Close()
}

// Put stores one completed merge run keyed by merge timestamp and run ID.
func (s *Store) Put(doc summary.Document) failure.ClassifiedError {
	payload, err := json.Marshal(doc)
	if err != nil {
		return s.fail(&HistoryError{Message: err.Error(), Cause: ErrCauseWriteFailure}, "Store.Put")
	}
	compressed := s.encoder.EncodeAll(payload, nil)

	key := []byte(runKeyPrefix + doc.Metadata.MergeTimestamp + "/" + doc.Metadata.RunID)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, compressed)
	})
	if err != nil {
		return s.fail(&HistoryError{Message: err.Error(), Cause: ErrCauseWriteFailure}, "Store.Put")
	}

	s.metadataSink.RecordArtifact(
		metadata.ArtifactHistory,
		string(key),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrRunID, doc.Metadata.RunID),
		},
	)
	return nil
}

// Recent returns up to limit stored runs, newest first.
func (s *Store) Recent(limit int) ([]Entry, failure.ClassifiedError) {
	if limit < 1 {
		limit = 10
	}

	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(runKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// reverse iteration starts just past the prefix range
		seekKey := append([]byte(runKeyPrefix), 0xff)
		for it.Seek(seekKey); it.Valid() && len(entries) < limit; it.Next() {
			compressed, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			entry, derr := s.decodeEntry(compressed)
			if derr != nil {
				// one corrupt entry should not hide the rest
				s.fail(derr, "Store.Recent")
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(&HistoryError{Message: err.Error(), Cause: ErrCauseReadFailure}, "Store.Recent")
	}
	return entries, nil
}

func (s *Store) decodeEntry(compressed []byte) (Entry, *HistoryError) {
	payload, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return Entry{}, &HistoryError{Message: err.Error(), Cause: ErrCauseDecodeFailure}
	}
	var doc summary.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return Entry{}, &HistoryError{Message: err.Error(), Cause: ErrCauseDecodeFailure}
	}
	return Entry{
		RunID:          doc.Metadata.RunID,
		MergeTimestamp: doc.Metadata.MergeTimestamp,
		TotalRequests:  doc.Summary.TotalRequests,
		TotalErrors:    doc.Summary.TotalErrors,
		ErrorRate:      doc.Summary.ErrorRate,
		ProcessedFiles: doc.Metadata.ProcessedFiles,
	}, nil
}

func (s *Store) fail(err *HistoryError, action string) failure.ClassifiedError {
	s.metadataSink.RecordError(
		time.Now(),
		"history",
		action,
		metadata.CauseStorageFailure,
		err.Error(),
		nil,
	)
	return err
}
