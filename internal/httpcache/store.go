package httpcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store keeps opaque blobs on disk keyed by sha256 of the cache key.
// Entries older than the TTL are treated as absent.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, ttl time.Duration) *Store {
	return &Store{dir: dir, ttl: ttl, now: time.Now}
}

// Dir returns the store root.
func (s *Store) Dir() string { return s.dir }

// path shards entries by the first two hex digits of their digest.
func (s *Store) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	digest := hex.EncodeToString(sum[:])
	return filepath.Join(s.dir, digest[:2], digest)
}

// Get returns the stored blob when it exists and has not expired.
func (s *Store) Get(key string) ([]byte, bool) {
	p := s.path(key)
	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	if s.now().Sub(info.ModTime()) >= s.ttl {
		return nil, false
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores a blob, replacing any previous entry atomically.
func (s *Store) Put(key string, data []byte) error {
	p := s.path(key)
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "entry_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close cache entry: %w", err)
	}
	if err := os.Rename(tmpPath, p); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("move cache entry: %w", err)
	}
	return nil
}

// Delete removes an entry if present.
func (s *Store) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
