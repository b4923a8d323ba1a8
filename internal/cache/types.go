package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity
	// or the per-entry size limit.
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrCacheCorrupted is returned when cache data cannot be decoded.
	ErrCacheCorrupted = errors.New("cache data corrupted")
)

// CacheStats holds cache performance metrics
type CacheStats struct {
	// Configuration
	Capacity int64 // Maximum entries (memory) or bytes (disk)

	// Current state
	Size      int64 // Current entries (memory) or bytes (disk)
	ItemCount int64 // Number of items in cache

	// Performance metrics
	Hits      int64   // Number of cache hits
	Misses    int64   // Number of cache misses
	Evictions int64   // Number of evictions
	HitRate   float64 // Calculated hit rate (hits / (hits + misses))

	LastEvict time.Time // Last eviction time
}

func (s *CacheStats) computeHitRate() {
	if s.Hits+s.Misses > 0 {
		s.HitRate = float64(s.Hits) / float64(s.Hits+s.Misses)
	}
}

// DiskConfig holds configuration for the disk cache.
type DiskConfig struct {
	Path             string        // Directory for cache files
	Capacity         int64         // Bytes
	MaxEntrySize     int64         // Larger entries are not persisted
	CompressionLevel int           // Zstd compression level (1-22, 0 disables)
	TTL              time.Duration // Entries older than this are pruned on open
}

// MaxEntrySize is the default per-entry limit of the disk cache.
const MaxEntrySize = 2 * 1024 * 1024

// DefaultDiskConfig returns default disk cache configuration
func DefaultDiskConfig(path string) DiskConfig {
	return DiskConfig{
		Path:             path,
		Capacity:         256 * 1024 * 1024, // 256MB
		MaxEntrySize:     MaxEntrySize,
		CompressionLevel: 3,
		TTL:              30 * 24 * time.Hour,
	}
}

// ClipKey derives a disk cache key from what the remote voice was asked
// to say.
func ClipKey(text, voice, model string) string {
	data := fmt.Sprintf("%s|%s|%s", text, voice, model)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16])
}
