package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores entries as files under a directory, the default for
// CLI usage. Each entry file is one JSON header line followed by the raw
// payload, so cached solver output stays greppable on disk.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache in the given directory.
// The directory will be created if it doesn't exist.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// entryHeader is the first line of every entry file.
type entryHeader struct {
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	StoredAt  time.Time `json:"stored_at"`
}

// Get retrieves a value from the cache.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	sep := bytes.IndexByte(raw, '\n')
	if sep < 0 {
		// Truncated or foreign file - treat as miss
		_ = os.Remove(path)
		return nil, false, nil
	}

	var header entryHeader
	if err := json.Unmarshal(raw[:sep], &header); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}

	if !header.ExpiresAt.IsZero() && time.Now().After(header.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return raw[sep+1:], true, nil
}

// Set stores a value in the cache.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	header := entryHeader{StoredAt: time.Now().UTC()}
	if ttl > 0 {
		header.ExpiresAt = time.Now().Add(ttl)
	}

	headerData, err := json.Marshal(header)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	raw := append(append(headerData, '\n'), data...)
	return os.WriteFile(path, raw, 0644)
}

// Delete removes a value from the cache.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	path := c.path(key)
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// path converts a cache key to a file path.
// Uses a simple hash-based directory structure to avoid too many files in one dir.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	// Use first 2 chars as subdirectory for distribution
	subdir := hash[:2]
	filename := hash[2:] + ".entry"
	return filepath.Join(c.dir, subdir, filename)
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
