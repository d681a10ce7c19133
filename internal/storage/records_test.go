package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type steppingClock struct {
	now time.Time
}

func (clock *steppingClock) Now() time.Time {
	current := clock.now
	clock.now = clock.now.Add(time.Minute)
	return current
}

func openTestStore(t *testing.T, start time.Time) *RecordStore {
	t.Helper()
	clock := &steppingClock{now: start}
	store, err := OpenRecordStore(RecordsPath(filepath.Join(t.TempDir(), "data")), RecordOptions{Now: clock.Now})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSaveAndList(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 5, 6, 9, 0, 0, 0, time.Local)
	store := openTestStore(t, start)

	first, err := store.Save(ctx, "Write report", 25*time.Minute, 24*time.Minute+30*time.Second)
	require.NoError(t, err)
	second, err := store.Save(ctx, "  Review  ", 5*time.Minute, 6*time.Minute)
	require.NoError(t, err)

	_, err = uuid.Parse(first.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "Review", second.Name)

	records, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID, "newest first")
	assert.Equal(t, first.ID, records[1].ID)
	assert.Equal(t, 25*time.Minute, records[1].Duration)
	assert.Equal(t, 24*time.Minute+30*time.Second, records[1].ActualTime)
	assert.True(t, start.Equal(records[1].CreatedAt))
}

func TestSaveBlankNameUsesDefault(t *testing.T) {
	store := openTestStore(t, time.Now())

	for _, name := range []string{"", "   ", "\t\n"} {
		record, err := store.Save(context.Background(), name, time.Minute, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, DefaultRecordName, record.Name)
	}
}

func TestSaveRejectsNegativeTimes(t *testing.T) {
	store := openTestStore(t, time.Now())

	_, err := store.Save(context.Background(), "bad", -time.Second, time.Minute)
	assert.ErrorIs(t, err, ErrInvalidRecord)
	_, err = store.Save(context.Background(), "bad", time.Minute, -time.Second)
	assert.ErrorIs(t, err, ErrInvalidRecord)

	records, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSameTimestampKeepsInsertOrder(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	store, err := OpenRecordStore(filepath.Join(t.TempDir(), recordsFileName), RecordOptions{
		Now: func() time.Time { return fixed },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	older, err := store.Save(ctx, "a", time.Minute, time.Minute)
	require.NoError(t, err)
	newer, err := store.Save(ctx, "b", time.Minute, time.Minute)
	require.NoError(t, err)

	records, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newer.ID, records[0].ID)
	assert.Equal(t, older.ID, records[1].ID)
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, time.Now())
	saved, err := store.Save(ctx, "draft", time.Minute, 2*time.Minute)
	require.NoError(t, err)

	renamed, err := store.Rename(ctx, saved.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", renamed.Name)
	assert.Equal(t, saved.ActualTime, renamed.ActualTime)

	renamed, err = store.Rename(ctx, saved.ID, " ")
	require.NoError(t, err)
	assert.Equal(t, DefaultRecordName, renamed.Name)

	_, err = store.Rename(ctx, uuid.NewString(), "ghost")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, time.Now())
	keep, err := store.Save(ctx, "keep", time.Minute, time.Minute)
	require.NoError(t, err)
	drop, err := store.Save(ctx, "drop", time.Minute, time.Minute)
	require.NoError(t, err)

	deleted, err := store.Delete(ctx, drop.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, drop.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	records, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, keep.ID, records[0].ID)

	_, err = store.Get(ctx, drop.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, time.Now())
	for i := 0; i < 3; i++ {
		_, err := store.Save(ctx, "session", time.Minute, time.Minute)
		require.NoError(t, err)
	}

	require.NoError(t, store.Clear(ctx))
	records, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestToday(t *testing.T) {
	ctx := context.Background()
	location := time.FixedZone("test", 2*60*60)
	now := time.Date(2024, 5, 6, 12, 0, 0, 0, location)
	clock := now.Add(-24 * time.Hour)
	store, err := OpenRecordStore(filepath.Join(t.TempDir(), recordsFileName), RecordOptions{
		Now: func() time.Time { return clock },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Save(ctx, "yesterday", time.Minute, 10*time.Minute)
	require.NoError(t, err)
	clock = time.Date(2024, 5, 6, 0, 0, 0, 0, location)
	midnight, err := store.Save(ctx, "midnight", time.Minute, 5*time.Minute)
	require.NoError(t, err)
	clock = now
	noon, err := store.Save(ctx, "noon", time.Minute, 7*time.Minute)
	require.NoError(t, err)
	clock = time.Date(2024, 5, 7, 0, 0, 0, 0, location)
	_, err = store.Save(ctx, "tomorrow", time.Minute, time.Minute)
	require.NoError(t, err)

	summary, err := store.Today(ctx, now)
	require.NoError(t, err)
	require.Len(t, summary.Records, 2)
	assert.Equal(t, noon.ID, summary.Records[0].ID)
	assert.Equal(t, midnight.ID, summary.Records[1].ID)
	assert.Equal(t, 12*time.Minute, summary.Total)
}

func TestReopenKeepsRecords(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), recordsFileName)
	store, err := OpenRecordStore(path, RecordOptions{})
	require.NoError(t, err)
	saved, err := store.Save(ctx, "persisted", 25*time.Minute, 25*time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := OpenRecordStore(path, RecordOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	loaded, err := reopened.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", loaded.Name)
}
