// Package bundle serializes compiled lists into the two UMD modules consumed
// by the site: the category map and the reverse lookup index.
package bundle

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"

	"git.home.luguber.info/inful/listbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/listbuilder/internal/lists"
	"git.home.luguber.info/inful/listbuilder/internal/logfields"
	"git.home.luguber.info/inful/listbuilder/internal/version"
)

//go:embed templates/*.js.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.js.tmpl"))

const (
	DefaultCategoryFile = "categoriesWithThings.js"
	DefaultIndexFile    = "thingIndex.js"
)

// Writer writes both bundles into Dir.
type Writer struct {
	Dir          string
	CategoryFile string
	IndexFile    string
}

type header struct {
	Name        string
	Version     string
	Fingerprint string
}

type categoriesView struct {
	header
	ThingList string
}

type indexView struct {
	header
	ThingCategories string
	ThingKV         string
}

// Write renders and writes both bundles, returning their paths.
func (w Writer) Write(data *lists.Data) ([]string, error) {
	categoryFile := w.CategoryFile
	if categoryFile == "" {
		categoryFile = DefaultCategoryFile
	}
	indexFile := w.IndexFile
	if indexFile == "" {
		indexFile = DefaultIndexFile
	}

	if err := os.MkdirAll(w.Dir, 0o750); err != nil {
		return nil, errors.FileSystemError("failed to create output directory").
			WithCause(err).
			WithContext("path", w.Dir).
			Build()
	}

	fingerprint := data.Fingerprint()

	catJS, err := RenderCategories(data, categoryFile, fingerprint)
	if err != nil {
		return nil, err
	}
	idxJS, err := RenderIndex(data, indexFile, fingerprint)
	if err != nil {
		return nil, err
	}

	paths := []string{filepath.Join(w.Dir, categoryFile), filepath.Join(w.Dir, indexFile)}
	for i, content := range [][]byte{catJS, idxJS} {
		if err := WriteFileAtomic(paths[i], content); err != nil {
			return nil, errors.BundleError("failed to write bundle").
				WithCause(err).
				WithContext("path", paths[i]).
				Build()
		}
		slog.Debug("Wrote bundle", logfields.Path(paths[i]))
	}
	return paths, nil
}

// RenderCategories renders the category map bundle.
func RenderCategories(data *lists.Data, name, fingerprint string) ([]byte, error) {
	tl, err := marshal(data.Categories)
	if err != nil {
		return nil, err
	}
	return render("categories.js.tmpl", categoriesView{
		header:    newHeader(name, fingerprint),
		ThingList: tl,
	})
}

// RenderIndex renders the reverse lookup bundle.
func RenderIndex(data *lists.Data, name, fingerprint string) ([]byte, error) {
	tc, err := marshal(data.Things)
	if err != nil {
		return nil, err
	}
	kv, err := marshal(data.Index)
	if err != nil {
		return nil, err
	}
	return render("index.js.tmpl", indexView{
		header:          newHeader(name, fingerprint),
		ThingCategories: tc,
		ThingKV:         kv,
	})
}

func newHeader(name, fingerprint string) header {
	return header{Name: name, Version: version.String(), Fingerprint: fingerprint}
}

func render(tmpl string, view any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, tmpl, view); err != nil {
		return nil, errors.BundleError("failed to render bundle").
			WithCause(err).
			WithContext("template", tmpl).
			Build()
	}
	return buf.Bytes(), nil
}

// marshal encodes v as two-space indented JSON with map keys sorted and
// without HTML or non-ASCII escaping.
func marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", errors.BundleError("failed to encode bundle data").WithCause(err).Build()
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// WriteFileAtomic writes content to a temp file in the target directory and
// renames it into place.
func WriteFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("move into place: %w", err)
	}
	return nil
}
