// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wordhoard/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.HistoryConfig{DBPath: filepath.Join(t.TempDir(), "state", "history.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(id string, started time.Time) Run {
	return Run{
		ID:         id,
		StartedAt:  started,
		InputPath:  "data/Liste refaite v7.xlsx",
		Sheet:      "liste",
		OutputPath: "data/words.json",
		BackupPath: "data/words_backup_2026-10-19_14-03-22.json",
		Rows:       1420,
		Columns:    33,
		Records:    1418,
		Duration:   1530 * time.Millisecond,
		Status:     "ok",
	}
}

func TestRecordAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	started := time.Date(2026, 10, 19, 14, 3, 22, 123456789, time.UTC)

	want := sampleRun("6f1c2b7e-0000-4000-8000-000000000001", started)
	require.NoError(t, store.Record(ctx, want))

	got, err := store.Get(ctx, want.ID)
	require.NoError(t, err)
	assert.True(t, want.StartedAt.Equal(got.StartedAt))
	got.StartedAt = want.StartedAt
	assert.Equal(t, want, got)
}

func TestRecordFailedRun(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	r := Run{
		ID:         "failed-run",
		StartedAt:  time.Now(),
		InputPath:  "missing.xlsx",
		OutputPath: "words.json",
		Status:     "failed",
		Error:      "loading spreadsheet: open missing.xlsx: no such file or directory",
	}
	require.NoError(t, store.Record(ctx, r))

	got, err := store.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "failed", got.Status)
	assert.Equal(t, r.Error, got.Error)
	assert.Empty(t, got.BackupPath)
	assert.Zero(t, got.Records)
}

func TestRecordRejectsDuplicatesAndEmptyID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	r := sampleRun("dup", time.Now())
	require.NoError(t, store.Record(ctx, r))
	assert.Error(t, store.Record(ctx, r))

	r.ID = ""
	assert.Error(t, store.Record(ctx, r))
}

func TestGetUnknown(t *testing.T) {
	store := testStore(t)
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListNewestFirst(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, sampleRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Hour))))
	}

	runs, err := store.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-4", runs[0].ID)
	assert.Equal(t, "run-3", runs[1].ID)
	assert.Equal(t, "run-2", runs[2].ID)

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestListEmpty(t *testing.T) {
	runs, err := testStore(t).List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestReopenKeepsRuns(t *testing.T) {
	cfg := types.HistoryConfig{DBPath: filepath.Join(t.TempDir(), "history.db")}
	ctx := context.Background()

	store, err := NewStore(cfg)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, sampleRun("kept", time.Now())))
	require.NoError(t, store.Close())

	store, err = NewStore(cfg)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Get(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, 1418, got.Records)
}
