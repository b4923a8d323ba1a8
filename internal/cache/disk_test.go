package cache

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDiskConfig(t *testing.T) DiskConfig {
	t.Helper()
	cfg := DefaultDiskConfig(t.TempDir())
	cfg.Capacity = 64 * 1024
	return cfg
}

func TestDiskCache_PutGet(t *testing.T) {
	dc, err := NewDiskCache(testDiskConfig(t))
	require.NoError(t, err)
	defer dc.Close() //nolint:errcheck

	value := bytes.Repeat([]byte("mp3"), 2000) // compressible
	require.NoError(t, dc.Put("k", value))

	got, ok := dc.Get("k")
	require.True(t, ok)
	assert.Equal(t, value, got)
	assert.Less(t, dc.Size(), int64(len(value)), "entry should be stored compressed")

	_, ok = dc.Get("missing")
	assert.False(t, ok)

	stats := dc.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.ItemCount)
}

func TestDiskCache_Persists(t *testing.T) {
	cfg := testDiskConfig(t)

	dc, err := NewDiskCache(cfg)
	require.NoError(t, err)
	require.NoError(t, dc.Put("k", []byte("clip bytes")))
	require.NoError(t, dc.Close())

	reopened, err := NewDiskCache(cfg)
	require.NoError(t, err)
	defer reopened.Close() //nolint:errcheck

	got, ok := reopened.Get("k")
	require.True(t, ok)
	assert.Equal(t, "clip bytes", string(got))
}

func TestDiskCache_MaxEntrySize(t *testing.T) {
	cfg := testDiskConfig(t)
	cfg.MaxEntrySize = 16
	dc, err := NewDiskCache(cfg)
	require.NoError(t, err)
	defer dc.Close() //nolint:errcheck

	err = dc.Put("big", make([]byte, 17))
	assert.True(t, errors.Is(err, ErrItemTooLarge))
	assert.False(t, dc.Contains("big"))
}

func TestDiskCache_EvictsToCapacity(t *testing.T) {
	cfg := testDiskConfig(t)
	cfg.Capacity = 100
	cfg.CompressionLevel = 0
	dc, err := NewDiskCache(cfg)
	require.NoError(t, err)
	defer dc.Close() //nolint:errcheck

	require.NoError(t, dc.Put("a", make([]byte, 40)))
	time.Sleep(time.Millisecond)
	require.NoError(t, dc.Put("b", make([]byte, 40)))
	require.NoError(t, dc.Put("c", make([]byte, 40)))

	assert.False(t, dc.Contains("a"))
	assert.True(t, dc.Contains("b"))
	assert.True(t, dc.Contains("c"))
	assert.LessOrEqual(t, dc.Size(), int64(100))
	assert.Equal(t, int64(1), dc.Stats().Evictions)
}

func TestDiskCache_RemoveOlderThan(t *testing.T) {
	dc, err := NewDiskCache(testDiskConfig(t))
	require.NoError(t, err)
	defer dc.Close() //nolint:errcheck

	require.NoError(t, dc.Put("old", []byte("x")))
	n := dc.RemoveOlderThan(time.Now().Add(time.Second))
	assert.Equal(t, 1, n)
	assert.False(t, dc.Contains("old"))
}

func TestDiskCache_Delete(t *testing.T) {
	dc, err := NewDiskCache(testDiskConfig(t))
	require.NoError(t, err)
	defer dc.Close() //nolint:errcheck

	require.NoError(t, dc.Put("k", []byte("x")))
	require.NoError(t, dc.Delete("k"))
	assert.False(t, dc.Contains("k"))
	assert.Equal(t, int64(0), dc.Size())
	require.NoError(t, dc.Delete("k"))
}

func TestClipKey(t *testing.T) {
	a := ClipKey("читаю", "voice", "model")
	assert.Len(t, a, 32)
	assert.Equal(t, a, ClipKey("читаю", "voice", "model"))
	assert.NotEqual(t, a, ClipKey("читаю", "other", "model"))
}
