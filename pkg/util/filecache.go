// FileCache gives read access to exported token files through memory maps.
//
// **Behavior:**
//   - Files are mapped read-only on first access and kept in an LRU cache
//   - Least recently used files are unmapped when MaxFiles is exceeded
//   - A file whose size or modification time changed is remapped on access
//   - If mmap fails, the file is read with os.ReadFile instead
//
// **Thread Safety:**
//   - View holds the cache lock for the duration of the callback, so a
//     mapping is never unmapped while a caller is still reading it
//   - Hits share a read lock; loads, evictions and Close take the write lock
package util

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edsrzf/mmap-go"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrCacheClosed is returned by View after Close.
var ErrCacheClosed = errors.New("file cache closed")

// FileCacheConfig controls FileCache behavior.
type FileCacheConfig struct {
	// MaxFiles bounds the number of mapped files. Zero uses the default.
	MaxFiles int

	// Logger for eviction and fallback messages. If nil, uses slog.Default().
	Logger *slog.Logger
}

// DefaultFileCacheConfig returns a config sized for a token export tree.
func DefaultFileCacheConfig() FileCacheConfig {
	return FileCacheConfig{MaxFiles: 256}
}

// MappedFile is one cached file.
type MappedFile struct {
	Path    string
	Data    mmap.MMap // nil for empty files
	Size    int64
	ModTime time.Time

	file     *os.File // nil for fallback entries
	fallback bool
}

func (mf *MappedFile) release() error {
	var errs []error
	if mf.Data != nil && !mf.fallback {
		if err := mf.Data.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmap %q: %w", mf.Path, err))
		}
	}
	if mf.file != nil {
		if err := mf.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %q: %w", mf.Path, err))
		}
	}
	mf.Data = nil
	return errors.Join(errs...)
}

// FileCacheStats tracks cache performance.
type FileCacheStats struct {
	FilesCached  int
	CacheHits    int64
	CacheMisses  int64
	Reloads      int64 // stale entries remapped
	Evictions    int64
	MmapFailures int64 // loads served by os.ReadFile
}

// FileCache is an LRU of memory-mapped files.
type FileCache struct {
	mu     sync.RWMutex
	cache  *lru.Cache[string, *MappedFile]
	closed bool
	logger *slog.Logger

	hits, misses, reloads, evictions, mmapFailures atomic.Int64
}

// NewFileCache creates a cache. Call Close to unmap every file.
func NewFileCache(config FileCacheConfig) *FileCache {
	if config.MaxFiles <= 0 {
		config.MaxFiles = DefaultFileCacheConfig().MaxFiles
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	fc := &FileCache{logger: config.Logger}
	cache, err := lru.NewWithEvict(config.MaxFiles, func(path string, mf *MappedFile) {
		fc.evictions.Add(1)
		if err := mf.release(); err != nil {
			fc.logger.Warn("Failed to release evicted file", "path", path, "error", err)
		}
	})
	if err != nil {
		// Only possible with a non-positive size, which is ruled out above.
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	fc.cache = cache
	return fc
}

// View calls fn with the contents of path. data is only valid until fn
// returns; copy anything that must outlive the call.
func (fc *FileCache) View(path string, fn func(data []byte) error) error {
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file %q: %w", path, err)
	}

	fc.mu.RLock()
	if fc.closed {
		fc.mu.RUnlock()
		return ErrCacheClosed
	}
	if mf, ok := fc.cache.Get(path); ok && fresh(mf, stat) {
		defer fc.mu.RUnlock()
		fc.hits.Add(1)
		return fn(mf.Data)
	}
	fc.mu.RUnlock()

	// Miss path: load and serve under the write lock.
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.closed {
		return ErrCacheClosed
	}
	// Another goroutine may have loaded it while we waited.
	mf, ok := fc.cache.Get(path)
	if !ok || !fresh(mf, stat) {
		if ok {
			fc.reloads.Add(1)
			fc.cache.Remove(path)
		}
		fc.misses.Add(1)
		mf, err = fc.load(path)
		if err != nil {
			return err
		}
		fc.cache.Add(path, mf)
	}
	return fn(mf.Data)
}

// ReadFile returns a copy of path's contents.
func (fc *FileCache) ReadFile(path string) ([]byte, error) {
	var out []byte
	err := fc.View(path, func(data []byte) error {
		out = append([]byte(nil), data...)
		return nil
	})
	return out, err
}

func fresh(mf *MappedFile, stat os.FileInfo) bool {
	return mf.Size == stat.Size() && mf.ModTime.Equal(stat.ModTime())
}

// load maps path, falling back to os.ReadFile. Must hold mu.Lock.
func (fc *FileCache) load(path string) (*MappedFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file %q: %w", path, err)
	}

	mf := &MappedFile{Path: path, Size: stat.Size(), ModTime: stat.ModTime()}

	// Zero-length files cannot be mapped.
	if stat.Size() == 0 {
		file.Close()
		return mf, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		fc.logger.Warn("mmap failed, using fallback", "file", path, "size", stat.Size(), "error", err)
		fc.mmapFailures.Add(1)
		file.Close()

		buf, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w", path, err, readErr)
		}
		mf.Data, mf.fallback = mmap.MMap(buf), true
		return mf, nil
	}

	mf.Data, mf.file = data, file
	return mf, nil
}

// Invalidate drops path from the cache.
func (fc *FileCache) Invalidate(path string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.cache.Remove(path)
}

// Size returns the number of cached files.
func (fc *FileCache) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.cache.Len()
}

// Stats returns current cache metrics.
func (fc *FileCache) Stats() FileCacheStats {
	return FileCacheStats{
		FilesCached:  fc.Size(),
		CacheHits:    fc.hits.Load(),
		CacheMisses:  fc.misses.Load(),
		Reloads:      fc.reloads.Load(),
		Evictions:    fc.evictions.Load(),
		MmapFailures: fc.mmapFailures.Load(),
	}
}

// Close unmaps every file. Later calls to View fail with ErrCacheClosed.
func (fc *FileCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.closed {
		return nil
	}
	fc.closed = true

	var errs []error
	for _, path := range fc.cache.Keys() {
		if mf, ok := fc.cache.Peek(path); ok {
			if err := mf.release(); err != nil {
				errs = append(errs, err)
			}
			mf.file = nil
		}
	}
	// Entries are already released; drop them without counting evictions.
	n := fc.evictions.Load()
	fc.cache.Purge()
	fc.evictions.Store(n)

	fc.logger.Debug("FileCache closed",
		"cache_hits", fc.hits.Load(),
		"cache_misses", fc.misses.Load(),
		"mmap_failures", fc.mmapFailures.Load())

	return errors.Join(errs...)
}
