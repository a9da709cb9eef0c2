package transcript_test

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/chatgraph/pkg/chatgraph/transcript"
)

// storeFactories runs the shared contract against each implementation.
func storeFactories(t *testing.T) map[string]func() transcript.Store {
	return map[string]func() transcript.Store{
		"memory": func() transcript.Store { return transcript.NewMemoryStore() },
		"sqlite": func() transcript.Store {
			s, err := transcript.NewSQLiteStore(":memory:")
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_AppendList(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()
			ctx := context.Background()

			ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
			require.NoError(t, store.Append(ctx, transcript.Entry{
				ID:        "fixed",
				Graph:     "chat",
				Question:  "q1",
				Response:  "r1",
				Duration:  1500 * time.Millisecond,
				Timestamp: ts,
			}))
			require.NoError(t, store.Append(ctx, transcript.Entry{
				Graph:    "chat",
				Question: "q2",
				Error:    "offline",
			}))

			entries, err := store.List(ctx, 0)
			require.NoError(t, err)
			require.Len(t, entries, 2)

			assert.Equal(t, "fixed", entries[0].ID)
			assert.Equal(t, "r1", entries[0].Response)
			assert.Equal(t, 1500*time.Millisecond, entries[0].Duration)
			assert.True(t, ts.Equal(entries[0].Timestamp))
			assert.False(t, entries[0].Failed())

			assert.Equal(t, "q2", entries[1].Question)
			assert.NotEmpty(t, entries[1].ID, "ID is generated")
			assert.False(t, entries[1].Timestamp.IsZero(), "timestamp is generated")
			assert.True(t, entries[1].Failed())
		})
	}
}

func TestStore_ListLimit(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()
			ctx := context.Background()

			for i := range 5 {
				require.NoError(t, store.Append(ctx, transcript.Entry{Question: fmt.Sprintf("q%d", i)}))
			}

			entries, err := store.List(ctx, 2)
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, "q3", entries[0].Question, "most recent entries, oldest first")
			assert.Equal(t, "q4", entries[1].Question)

			entries, err = store.List(ctx, 10)
			require.NoError(t, err)
			assert.Len(t, entries, 5)
		})
	}
}

func TestStore_Empty(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()

			entries, err := store.List(context.Background(), 0)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestStore_Closed(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			require.NoError(t, store.Close())
			assert.NoError(t, store.Close(), "close is idempotent")

			err := store.Append(context.Background(), transcript.Entry{Question: "q"})
			assert.ErrorIs(t, err, transcript.ErrStoreClosed)

			_, err = store.List(context.Background(), 0)
			assert.ErrorIs(t, err, transcript.ErrStoreClosed)
		})
	}
}

func TestStore_Concurrent(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()
			ctx := context.Background()

			const workers, perWorker = 10, 10
			var wg sync.WaitGroup
			for w := range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := range perWorker {
						assert.NoError(t, store.Append(ctx, transcript.Entry{Question: fmt.Sprintf("%d-%d", w, i)}))
						_, _ = store.List(ctx, 3)
					}
				}()
			}
			wg.Wait()

			entries, err := store.List(ctx, 0)
			require.NoError(t, err)
			assert.Len(t, entries, workers*perWorker)
		})
	}
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := transcript.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Append(ctx, transcript.Entry{}), context.Canceled)
	assert.Zero(t, store.Len())
}

func TestSQLiteStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.db")
	ctx := context.Background()

	first, err := transcript.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Append(ctx, transcript.Entry{Graph: "sentiment", Question: "hello", Response: "hi"}))
	require.NoError(t, first.Close())

	second, err := transcript.NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()

	entries, err := second.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sentiment", entries[0].Graph)
	assert.Equal(t, "hi", entries[0].Response)
}

func TestSQLiteStore_BadTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.db")
	ctx := context.Background()

	store, err := transcript.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, transcript.Entry{ID: "row-1", Question: "q", Response: "r"}))
	require.NoError(t, store.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `UPDATE interactions SET timestamp = 'yesterday'`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store, err = transcript.NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.List(ctx, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan interaction row-1")
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := transcript.NewSQLiteStore("/nonexistent/path/transcript.db")
	assert.Error(t, err)
}
