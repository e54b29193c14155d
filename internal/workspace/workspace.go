package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/listbuilder/internal/logfields"
)

// Manager owns the persistent cache directory that holds the local clone
// and the HTTP response cache.
type Manager struct {
	dir string
}

// NewManager creates a manager rooted at cacheDir. Nothing is created until Create.
func NewManager(cacheDir string) *Manager {
	if cacheDir == "" {
		cacheDir = ".cache"
	}
	return &Manager{dir: cacheDir}
}

// Create ensures the cache directory exists.
func (m *Manager) Create() error {
	if err := os.MkdirAll(m.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	slog.Debug("Using persistent cache", logfields.Path(m.dir))
	return nil
}

// Dir returns the cache directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Ensure creates path, which must lie inside the cache directory.
func (m *Manager) Ensure(path string) error {
	rel, err := filepath.Rel(m.dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%s is outside the cache directory %s", path, m.dir)
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return nil
}

// Clean removes the cache directory. A missing directory is not an error.
func (m *Manager) Clean() error {
	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", m.dir, err)
	}
	slog.Info("Removed cache directory", logfields.Path(m.dir))
	return nil
}
