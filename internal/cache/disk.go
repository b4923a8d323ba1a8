package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"
)

const indexFile = "cache.index"

// DiskCache is a byte-bounded persistent cache with optional zstd
// compression. It keeps fetched remote clips across sessions.
type DiskCache struct {
	basePath     string
	capacity     int64 // Maximum size in bytes
	maxEntrySize int64
	size         int64 // Current size in bytes

	// Compression
	encoder *zstd.Encoder
	decoder *zstd.Decoder

	// Index for fast lookups
	index map[string]*diskCacheEntry

	mu    sync.Mutex
	stats CacheStats
}

// diskCacheEntry represents an entry in the disk cache index
type diskCacheEntry struct {
	Key          string
	FilePath     string
	Size         int64 // Size on disk (compressed)
	OriginalSize int64 // Original size (uncompressed)
	Timestamp    time.Time
	LastAccess   time.Time
	Hits         int64
	Compressed   bool
}

// NewDiskCache opens or creates a disk cache in cfg.Path. Entries older
// than cfg.TTL are removed while opening.
func NewDiskCache(cfg DiskConfig) (*DiskCache, error) {
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	maxEntry := cfg.MaxEntrySize
	if maxEntry <= 0 {
		maxEntry = MaxEntrySize
	}

	dc := &DiskCache{
		basePath:     cfg.Path,
		capacity:     cfg.Capacity,
		maxEntrySize: maxEntry,
		index:        make(map[string]*diskCacheEntry),
		stats:        CacheStats{Capacity: cfg.Capacity},
	}

	if cfg.CompressionLevel > 0 {
		var err error
		dc.encoder, err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(cfg.CompressionLevel)))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		dc.decoder, err = zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
	}

	if err := dc.loadIndex(); err != nil {
		// Non-fatal: just start with empty index
		log.Warn("disk cache index unreadable, starting empty", "path", cfg.Path, "error", err)
		dc.index = make(map[string]*diskCacheEntry)
	}
	dc.calculateSize()

	if cfg.TTL > 0 {
		if n := dc.RemoveOlderThan(time.Now().Add(-cfg.TTL)); n > 0 {
			log.Debug("pruned expired clips", "count", n)
		}
	}

	log.Debug("disk cache opened",
		"path", cfg.Path,
		"entries", len(dc.index),
		"size", humanize.IBytes(uint64(dc.size)))
	return dc, nil
}

// Get retrieves a value from the disk cache.
func (dc *DiskCache) Get(key string) ([]byte, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	entry, ok := dc.index[key]
	if !ok {
		dc.stats.Misses++
		return nil, false
	}

	data, err := os.ReadFile(entry.FilePath)
	if err != nil {
		// File missing, forget it
		dc.dropEntry(entry)
		dc.stats.Misses++
		return nil, false
	}

	if entry.Compressed {
		if dc.decoder == nil {
			dc.dropEntry(entry)
			dc.stats.Misses++
			return nil, false
		}
		decompressed, err := dc.decoder.DecodeAll(data, nil)
		if err != nil {
			log.Warn("dropping corrupted clip", "key", key, "error", fmt.Errorf("%w: %w", ErrCacheCorrupted, err))
			dc.dropEntry(entry)
			dc.stats.Misses++
			return nil, false
		}
		data = decompressed
	}

	entry.LastAccess = time.Now()
	entry.Hits++
	dc.stats.Hits++
	return data, true
}

// Put stores a value in the disk cache.
func (dc *DiskCache) Put(key string, value []byte) error {
	originalSize := int64(len(value))
	if originalSize > dc.maxEntrySize {
		return fmt.Errorf("%w: %s exceeds %s", ErrItemTooLarge,
			humanize.IBytes(uint64(originalSize)), humanize.IBytes(uint64(dc.maxEntrySize)))
	}

	dataToWrite := value
	compressed := false
	if dc.encoder != nil && originalSize > 1024 { // Only compress if > 1KB
		if c := dc.encoder.EncodeAll(value, nil); len(c) < len(value) {
			dataToWrite = c
			compressed = true
		}
	}
	diskSize := int64(len(dataToWrite))

	dc.mu.Lock()
	defer dc.mu.Unlock()

	if diskSize > dc.capacity {
		return ErrItemTooLarge
	}

	if existing, ok := dc.index[key]; ok {
		dc.dropEntry(existing)
	}

	for dc.size+diskSize > dc.capacity && len(dc.index) > 0 {
		dc.evictOldest()
	}

	filePath := dc.generateFilePath(key)
	if err := writeFileAtomic(filePath, dataToWrite); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	now := time.Now()
	dc.index[key] = &diskCacheEntry{
		Key:          key,
		FilePath:     filePath,
		Size:         diskSize,
		OriginalSize: originalSize,
		Timestamp:    now,
		LastAccess:   now,
		Compressed:   compressed,
	}
	dc.size += diskSize

	log.Debug("clip cached",
		"key", key,
		"size", humanize.IBytes(uint64(originalSize)),
		"stored", humanize.IBytes(uint64(diskSize)))

	// A killed session keeps what it fetched.
	return dc.saveIndex()
}

// Delete removes an entry from the disk cache.
func (dc *DiskCache) Delete(key string) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	entry, ok := dc.index[key]
	if !ok {
		return nil
	}
	dc.dropEntry(entry)
	return dc.saveIndex()
}

// Contains checks if a key exists in the cache without updating access time.
func (dc *DiskCache) Contains(key string) bool {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	_, ok := dc.index[key]
	return ok
}

// Size returns the current cache size in bytes.
func (dc *DiskCache) Size() int64 {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return dc.size
}

// Stats returns cache statistics.
func (dc *DiskCache) Stats() CacheStats {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	stats := dc.stats
	stats.Size = dc.size
	stats.ItemCount = int64(len(dc.index))
	stats.computeHitRate()
	return stats
}

// RemoveOlderThan removes entries stored before cutoff.
func (dc *DiskCache) RemoveOlderThan(cutoff time.Time) int {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	removed := 0
	for _, entry := range dc.index {
		if entry.Timestamp.Before(cutoff) {
			dc.dropEntry(entry)
			removed++
		}
	}
	if removed > 0 {
		if err := dc.saveIndex(); err != nil {
			log.Warn("failed to save disk cache index", "error", err)
		}
	}
	return removed
}

// Close saves the index.
func (dc *DiskCache) Close() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.encoder != nil {
		dc.encoder.Close() //nolint:errcheck
	}
	if dc.decoder != nil {
		dc.decoder.Close()
	}
	return dc.saveIndex()
}

// dropEntry removes an entry and its file (must be called with lock held).
func (dc *DiskCache) dropEntry(entry *diskCacheEntry) {
	os.Remove(entry.FilePath) //nolint:errcheck
	delete(dc.index, entry.Key)
	dc.size -= entry.Size
}

// evictOldest removes the least recently used entry (must be called with lock held).
func (dc *DiskCache) evictOldest() {
	var oldest *diskCacheEntry
	for _, entry := range dc.index {
		if oldest == nil || entry.LastAccess.Before(oldest.LastAccess) {
			oldest = entry
		}
	}
	if oldest != nil {
		dc.dropEntry(oldest)
		dc.stats.Evictions++
		dc.stats.LastEvict = time.Now()
	}
}

func (dc *DiskCache) loadIndex() error {
	file, err := os.Open(filepath.Join(dc.basePath, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No index file yet
		}
		return err
	}
	defer file.Close() //nolint:errcheck

	return gob.NewDecoder(file).Decode(&dc.index)
}

func (dc *DiskCache) saveIndex() error {
	indexPath := filepath.Join(dc.basePath, indexFile)
	tempPath := indexPath + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	err = gob.NewEncoder(file).Encode(dc.index)
	closeErr := file.Close()

	if err != nil {
		os.Remove(tempPath) //nolint:errcheck
		return err
	}
	if closeErr != nil {
		os.Remove(tempPath) //nolint:errcheck
		return closeErr
	}
	return os.Rename(tempPath, indexPath)
}

func (dc *DiskCache) generateFilePath(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(dc.basePath, hex.EncodeToString(hash[:16])+".clip")
}

func (dc *DiskCache) calculateSize() {
	dc.size = 0
	for _, entry := range dc.index {
		dc.size += entry.Size
	}
}

// writeFileAtomic writes to a temp file first, then renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	closeErr := file.Close()

	if err != nil {
		os.Remove(tempPath) //nolint:errcheck
		return err
	}
	if closeErr != nil {
		os.Remove(tempPath) //nolint:errcheck
		return closeErr
	}
	return os.Rename(tempPath, path)
}
