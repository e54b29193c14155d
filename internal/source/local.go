package source

import (
	"context"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/listbuilder/internal/foundation/errors"
)

// Local reads lists from a directory on disk, normally the lists directory
// of the local clone.
type Local struct {
	root string
}

// NewLocal creates a source rooted at the given lists directory.
func NewLocal(root string) *Local {
	return &Local{root: root}
}

// Root returns the lists directory.
func (l *Local) Root() string { return l.root }

func (l *Local) Mode() string { return "local" }

func (l *Local) Categories(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(l.root)
	if err != nil || !info.IsDir() {
		return nil, errors.NewError(errors.CategoryNotFound, "lists directory not found").
			WithCause(ErrListsDirNotFound).
			WithContext("path", l.root).
			Build()
	}
	return l.list(l.root)
}

func (l *Local) Files(ctx context.Context, category Entry) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := category.Path
	if dir == "" {
		dir = filepath.Join(l.root, category.Name)
	}
	return l.list(dir)
}

func (l *Local) Read(ctx context.Context, file Entry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return "", errors.FileSystemError("failed to read list file").
			WithCause(err).
			WithContext("path", file.Path).
			Build()
	}
	return string(data), nil
}

func (l *Local) list(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.FileSystemError("failed to read directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		t := TypeFile
		if de.IsDir() {
			t = TypeDir
		}
		entries = append(entries, Entry{Name: de.Name(), Type: t, Path: filepath.Join(dir, de.Name())})
	}
	return sortEntries(entries), nil
}
