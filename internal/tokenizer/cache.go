package tokenizer

import (
	"os"
	"sync"
	"time"

	"github.com/temirov/ctxdrop/internal/types"
)

type cacheEntry struct {
	modificationTime time.Time
	size             int64
	tokens           int
	err              error
}

// Cache memoizes per-file token counts keyed by path, modification time and size.
// A changed modification time or size invalidates the entry. Safe for concurrent use.
type Cache struct {
	counter Counter
	mutex   sync.Mutex
	entries map[string]cacheEntry
}

// NewCache returns an empty cache counting with counter.
func NewCache(counter Counter) *Cache {
	return &Cache{counter: counter, entries: make(map[string]cacheEntry)}
}

// Counter returns the counter the cache delegates to.
func (cache *Cache) Counter() Counter {
	return cache.counter
}

// Count returns the token count of the file at path, counting it only when no
// fresh cached result exists. Encoding failures are cached like counts;
// read failures are not.
func (cache *Cache) Count(path string) (int, error) {
	fileInfo, statErr := os.Stat(path)
	if statErr != nil {
		cache.Invalidate(path)
		return 0, &types.IOError{Path: path, Err: statErr}
	}

	cache.mutex.Lock()
	entry, found := cache.entries[path]
	cache.mutex.Unlock()
	if found && entry.size == fileInfo.Size() && entry.modificationTime.Equal(fileInfo.ModTime()) {
		return entry.tokens, entry.err
	}

	tokens, countErr := CountFile(cache.counter, path)
	if _, isReadFailure := countErr.(*types.IOError); isReadFailure {
		return 0, countErr
	}
	cache.mutex.Lock()
	cache.entries[path] = cacheEntry{
		modificationTime: fileInfo.ModTime(),
		size:             fileInfo.Size(),
		tokens:           tokens,
		err:              countErr,
	}
	cache.mutex.Unlock()
	return tokens, countErr
}

// Lookup returns the cached count for path without touching the filesystem.
func (cache *Cache) Lookup(path string) (int, bool) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	entry, found := cache.entries[path]
	if !found || entry.err != nil {
		return 0, false
	}
	return entry.tokens, true
}

// Invalidate drops the cached result for path.
func (cache *Cache) Invalidate(path string) {
	cache.mutex.Lock()
	delete(cache.entries, path)
	cache.mutex.Unlock()
}

// Reset drops every cached result.
func (cache *Cache) Reset() {
	cache.mutex.Lock()
	cache.entries = make(map[string]cacheEntry)
	cache.mutex.Unlock()
}
