package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SaveAndHistory(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	groups := []GroupRecord{
		{Identity: "naive_promise.f", N: 3, Mean: 4, Variance: 0.5, StdDev: 0.7},
		{Identity: "static_step.f.2", N: 3, Mean: 1, Variance: 0.1, StdDev: 0.3},
	}

	id1, err := store.SaveSelection(ctx, SelectionRecord{
		ConfigKey: "cfg-a", Dir: "runs/1", Winner: "static_step.f.2", Mean: 1, Groups: 2, CreatedAt: base,
	}, groups)
	require.NoError(t, err)

	id2, err := store.SaveSelection(ctx, SelectionRecord{
		ConfigKey: "cfg-b", Dir: "runs/2", Winner: "naive_promise.f", Mean: 3, Groups: 1, CreatedAt: base.Add(time.Minute),
	}, groups[:1])
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	all, err := store.History(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "runs/2", all[0].Dir, "newest first")
	assert.Equal(t, "runs/1", all[1].Dir)
	assert.Equal(t, "static_step.f.2", all[1].Winner)
	assert.InDelta(t, 1.0, all[1].Mean, 1e-12)
	assert.Equal(t, 2, all[1].Groups)

	filtered, err := store.History(ctx, "cfg-a", 10)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, id1, filtered[0].ID)

	limited, err := store.History(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	stats, err := store.GroupStats(ctx, id1)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "naive_promise.f", stats[0].Identity)
	assert.Equal(t, 3, stats[0].N)
	assert.InDelta(t, 0.1, stats[1].Variance, 1e-12)
}

func TestSQLiteStore_DuplicateGroupRollsBack(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	dup := []GroupRecord{{Identity: "a.f", N: 1, Mean: 1}, {Identity: "a.f", N: 1, Mean: 1}}
	_, err := store.SaveSelection(ctx, SelectionRecord{ConfigKey: "k", Dir: "d", Winner: "a.f", Mean: 1, Groups: 2}, dup)
	require.Error(t, err)

	history, err := store.History(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, history, "failed save must not leave a selection behind")
}

func TestSQLiteStore_DefaultTimestamp(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Minute)
	_, err := store.SaveSelection(ctx, SelectionRecord{ConfigKey: "k", Dir: "d", Winner: "a.f", Mean: 1, Groups: 1}, nil)
	require.NoError(t, err)

	history, err := store.History(ctx, "k", 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].CreatedAt.After(before))
}
