// Package cache implements the local key-value cache used for first-paint
// continuity, e.g. the last applied theme.
package cache

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// KV is a small synchronous string cache that survives process restarts.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// FileCache stores all keys as one JSON object in a file.
//
// A missing or unreadable file reads as an empty cache; the next Set rewrites it.
type FileCache struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

var _ KV = (*FileCache)(nil)

// NewFileCache creates a [FileCache] at path on fs. A nil fs uses the OS filesystem.
func NewFileCache(fs afero.Fs, path string) *FileCache {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileCache{fs: fs, path: path}
}

// Get returns the cached value for key.
func (c *FileCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.load()[key]
	return v, ok
}

// Set stores value under key, overwriting any previous value.
func (c *FileCache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.load()
	entries[key] = value

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := afero.WriteFile(c.fs, tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := c.fs.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("failed to replace cache: %w", err)
	}
	return nil
}

func (c *FileCache) load() map[string]string {
	entries := map[string]string{}

	data, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return map[string]string{}
	}
	return entries
}
