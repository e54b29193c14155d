// Package source retrieves category listings and raw list files, either from
// the GitHub contents API or from a local clone of the content repository.
package source

import (
	"context"
	"errors"
	"slices"
	"strings"
)

// EntryType distinguishes files from directories.
type EntryType string

const (
	TypeFile EntryType = "file"
	TypeDir  EntryType = "dir"
)

// Entry is one item of a directory listing. URL and DownloadURL are only set
// by the remote source; Path only by the local one.
type Entry struct {
	Name        string    `json:"name"`
	Type        EntryType `json:"type"`
	Path        string    `json:"path"`
	URL         string    `json:"url,omitempty"`
	DownloadURL string    `json:"download_url,omitempty"`
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Type == TypeDir }

// Source lists categories and their files and reads file contents.
type Source interface {
	// Categories returns the top-level entries of the lists directory.
	Categories(ctx context.Context) ([]Entry, error)
	// Files returns the entries of one category directory.
	Files(ctx context.Context, category Entry) ([]Entry, error)
	// Read returns the raw text of a file entry.
	Read(ctx context.Context, file Entry) (string, error)
	// Mode names the fetch mode for logs ("local" or "remote").
	Mode() string
}

// ErrListsDirNotFound is returned when the local clone has no lists directory.
var ErrListsDirNotFound = errors.New("lists directory not found")

func sortEntries(entries []Entry) []Entry {
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return entries
}
