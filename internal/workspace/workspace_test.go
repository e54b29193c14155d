package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManager_CreateKeepsContent(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), ".cache")
	mgr := NewManager(cacheDir)

	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if mgr.Dir() != cacheDir {
		t.Errorf("Expected path %s, got: %s", cacheDir, mgr.Dir())
	}

	markerFile := filepath.Join(cacheDir, "marker.txt")
	if err := os.WriteFile(markerFile, []byte("persistent"), 0o600); err != nil {
		t.Fatalf("Failed to create marker file: %v", err)
	}

	// Second manager on the same directory sees the same content
	mgr2 := NewManager(cacheDir)
	if err := mgr2.Create(); err != nil {
		t.Fatalf("Second Create() failed: %v", err)
	}
	if _, err := os.Stat(markerFile); os.IsNotExist(err) {
		t.Errorf("Marker file was removed by second Create()")
	}
}

func TestManager_DefaultDir(t *testing.T) {
	if got := NewManager("").Dir(); got != ".cache" {
		t.Errorf("Expected .cache, got %s", got)
	}
}

func TestManager_Ensure(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), ".cache")
	mgr := NewManager(cacheDir)

	http := filepath.Join(cacheDir, "http", "v1")
	if err := mgr.Ensure(http); err != nil {
		t.Fatalf("Ensure() failed: %v", err)
	}
	if _, err := os.Stat(http); err != nil {
		t.Errorf("Ensure() did not create %s: %v", http, err)
	}

	outside := filepath.Join(filepath.Dir(cacheDir), "elsewhere")
	if err := mgr.Ensure(outside); err == nil {
		t.Fatal("expected error for a path outside the cache")
	}
	if _, err := os.Stat(outside); !os.IsNotExist(err) {
		t.Errorf("Ensure() created %s outside the cache", outside)
	}
}

func TestManager_Clean(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), ".cache")
	mgr := NewManager(cacheDir)

	// Nothing created yet
	if err := mgr.Clean(); err != nil {
		t.Fatalf("Clean() on missing dir failed: %v", err)
	}

	if err := mgr.Ensure(filepath.Join(cacheDir, "http")); err != nil {
		t.Fatalf("Ensure() failed: %v", err)
	}
	if err := mgr.Clean(); err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}
	if _, err := os.Stat(cacheDir); !os.IsNotExist(err) {
		t.Errorf("Cache directory still exists after Clean(): %s", cacheDir)
	}
}
