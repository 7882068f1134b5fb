// Package file provides the JSON-file asset cache.
//
// The cache maps normalised source URLs to uploaded asset IDs and is
// rewritten whole on every put, so the file is always valid JSON even
// when a run is interrupted mid-write sequence. It is the resumability
// contract between runs.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hifiworks/sanity-migrate/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.AssetCache = (*Cache)(nil)

// Cache is a file-backed implementation of driven.AssetCache.
type Cache struct {
	mu       sync.RWMutex
	filePath string
	entries  map[string]driven.AssetCacheEntry
}

// New opens (or creates) the cache at filePath.
func New(filePath string) (*Cache, error) {
	c := &Cache{
		filePath: filePath,
		entries:  make(map[string]driven.AssetCacheEntry),
	}

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", filePath, err)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("parse cache %s: %w", filePath, err)
	}
	return c, nil
}

// Get returns the cached entry for a source URL.
func (c *Cache) Get(sourceURL string) (driven.AssetCacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[sourceURL]
	return entry, ok
}

// Put stores an entry and rewrites the cache file.
func (c *Cache) Put(sourceURL string, entry driven.AssetCacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[sourceURL] = entry
	return c.persist()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// persist rewrites the whole file. Caller holds the write lock.
func (c *Cache) persist() error {
	if dir := filepath.Dir(c.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := os.WriteFile(c.filePath, data, 0600); err != nil {
		return fmt.Errorf("write cache %s: %w", c.filePath, err)
	}
	return nil
}
