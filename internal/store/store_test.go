package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs", "verbski.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStore_GetSet(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", "v1"))
	require.NoError(t, s.Set(ctx, "k", "v2"))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	require.NoError(t, s.Delete(ctx, "k"))
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_MutedPersists(t *testing.T) {
	s, path := openTestStore(t)

	muted, err := s.Muted()
	require.NoError(t, err)
	assert.False(t, muted)

	require.NoError(t, s.SetMuted(true))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close() //nolint:errcheck

	muted, err = reopened.Muted()
	require.NoError(t, err)
	assert.True(t, muted)

	v, _, err := reopened.Get(context.Background(), KeyAudioMuted)
	require.NoError(t, err)
	assert.Equal(t, "true", v)
}

func TestStore_DailyGoal(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	goal, err := s.DailyGoal(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultDailyGoal, goal)

	tests := []struct {
		set  int
		want int
	}{
		{10, 10},
		{0, MinDailyGoal},
		{99, MaxDailyGoal},
	}
	for _, tt := range tests {
		got, err := s.SetDailyGoal(ctx, tt.set)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)

		goal, err := s.DailyGoal(ctx)
		require.NoError(t, err)
		assert.Equal(t, tt.want, goal)
	}

	// Values written by something else are range checked on read.
	require.NoError(t, s.Set(ctx, KeyDailyGoal, "50"))
	goal, err = s.DailyGoal(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultDailyGoal, goal)

	require.NoError(t, s.Set(ctx, KeyDailyGoal, "lots"))
	goal, err = s.DailyGoal(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultDailyGoal, goal)
}

func TestStore_DailyProgress(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	today := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	n, err := s.DailyProgress(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for i := 1; i <= 3; i++ {
		n, err = s.RecordCorrect(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	v, _, err := s.Get(ctx, KeyDailyProgress)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2026-03-14","correct":3}`, v)

	tomorrow := today.Add(24 * time.Hour)
	n, err = s.DailyProgress(ctx, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = s.RecordCorrect(ctx, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Set(ctx, KeyDailyProgress, "{broken"))
	n, err = s.DailyProgress(ctx, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStore_ConcurrentWrites(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Set(ctx, fmt.Sprintf("key%d", i), fmt.Sprint(i))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	for i := range 20 {
		v, ok, err := s.Get(ctx, fmt.Sprintf("key%d", i))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprint(i), v)
	}
}
