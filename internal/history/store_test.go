package history_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShafaqShahid/LoadTestGMC/internal/history"
	"github.com/ShafaqShahid/LoadTestGMC/internal/metadata"
	"github.com/ShafaqShahid/LoadTestGMC/internal/summary"
	"github.com/ShafaqShahid/LoadTestGMC/pkg/failure"
)

func document(runID string, mergedAt time.Time, requests int64) summary.Document {
	return summary.Document{
		Metadata: summary.Metadata{
			ProcessedFiles: 2,
			MergeTimestamp: mergedAt.UTC().Format(time.RFC3339),
			RunID:          runID,
		},
		Summary: summary.Totals{
			TotalRequests: requests,
			TotalErrors:   1,
			ErrorRate:     "25.00%",
		},
	}
}

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(t.TempDir(), &metadata.NoopSink{})
	require.Nil(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestStore_PutAndRecent(t *testing.T) {
	store := openStore(t)

	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		doc := document(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Hour), int64(100+i))
		require.Nil(t, store.Put(doc))
	}

	entries, err := store.Recent(10)
	require.Nil(t, err)
	require.Len(t, entries, 3)

	// newest first
	assert.Equal(t, "run-2", entries[0].RunID)
	assert.Equal(t, "run-1", entries[1].RunID)
	assert.Equal(t, "run-0", entries[2].RunID)
	assert.Equal(t, int64(102), entries[0].TotalRequests)
	assert.Equal(t, "25.00%", entries[0].ErrorRate)
	assert.Equal(t, 2, entries[0].ProcessedFiles)
}

func TestStore_RecentHonorsLimit(t *testing.T) {
	store := openStore(t)

	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		doc := document(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Hour), int64(i))
		require.Nil(t, store.Put(doc))
	}

	entries, err := store.Recent(2)
	require.Nil(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "run-4", entries[0].RunID)
	assert.Equal(t, "run-3", entries[1].RunID)
}

func TestStore_RecentOnEmptyStore(t *testing.T) {
	store := openStore(t)

	entries, err := store.Recent(10)
	require.Nil(t, err)
	assert.Empty(t, entries)
}

func TestStore_PutSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := history.Open(dir, &metadata.NoopSink{})
	require.Nil(t, err)
	doc := document("run-persist", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), 42)
	require.Nil(t, store.Put(doc))
	store.Close()

	reopened, err := history.Open(dir, &metadata.NoopSink{})
	require.Nil(t, err)
	defer reopened.Close()

	entries, err := reopened.Recent(10)
	require.Nil(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "run-persist", entries[0].RunID)
	assert.Equal(t, int64(42), entries[0].TotalRequests)
}

func TestStore_OpenFailureIsRecoverable(t *testing.T) {
	// two concurrent opens of the same directory conflict on the lock file
	dir := t.TempDir()
	first, err := history.Open(dir, &metadata.NoopSink{})
	require.Nil(t, err)
	defer first.Close()

	second, err := history.Open(dir, &metadata.NoopSink{})
	require.NotNil(t, err)
	assert.Equal(t, failure.SeverityRecoverable, err.Severity())
	assert.Nil(t, second)
}
