package build

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/listbuilder/internal/bundle"
	"git.home.luguber.info/inful/listbuilder/internal/clusters"
	"git.home.luguber.info/inful/listbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/listbuilder/internal/lists"
	"git.home.luguber.info/inful/listbuilder/internal/logfields"
	"git.home.luguber.info/inful/listbuilder/internal/metrics"
)

// Result describes a completed build.
type Result struct {
	Data  *lists.Data
	Paths []string
}

// Build fetches all lists and writes both bundles under outputDir.
func (p *Pipeline) Build(ctx context.Context, outputDir string, opts SourceOptions) (*Result, error) {
	data, err := p.Lists(ctx, opts)
	if err != nil {
		return nil, err
	}

	w := bundle.Writer{
		Dir:          p.BundleDir(outputDir),
		CategoryFile: p.cfg.Output.CategoryBundle,
		IndexFile:    p.cfg.Output.IndexBundle,
	}
	var paths []string
	if err := metrics.Stage(p.recorder, metrics.StageWrite, func() error {
		var werr error
		paths, werr = w.Write(data)
		return werr
	}); err != nil {
		return nil, err
	}

	for _, path := range paths {
		slog.Info("Wrote bundle", logfields.Path(path))
	}
	return &Result{Data: data, Paths: paths}, nil
}

// MergeOptions configures a cluster merge.
type MergeOptions struct {
	Input   string
	Output  string
	Compact bool
	Source  SourceOptions
}

// Merge refreshes the cluster block of Input from the list sources and
// writes the rewritten file to Output. It returns the number of clusters.
func (p *Pipeline) Merge(ctx context.Context, opts MergeOptions) (int, error) {
	raw, err := os.ReadFile(opts.Input)
	if err != nil {
		return 0, errors.FileSystemError("failed to read merge input").
			WithCause(err).
			WithContext("path", opts.Input).
			Build()
	}
	js := string(raw)

	block, err := clusters.Extract(js)
	if err != nil {
		if stderrors.Is(err, clusters.ErrBlockNotFound) {
			return 0, errors.ValidationError(fmt.Sprintf("%s has no allPromptDataMarkdown block", opts.Input)).
				WithCause(err).
				Build()
		}
		return 0, err
	}
	old := clusters.Parse(block.Markdown)
	slog.Debug("Parsed existing clusters", logfields.Count(old.Len()), logfields.Path(opts.Input))

	data, err := p.Lists(ctx, opts.Source)
	if err != nil {
		return 0, err
	}

	var merged *clusters.Set
	var out string
	if err := metrics.Stage(p.recorder, metrics.StageMerge, func() error {
		merged = clusters.Merge(old, data.Clusters())
		out = clusters.Replace(js, block, clusters.Render(merged, opts.Compact))
		return nil
	}); err != nil {
		return 0, err
	}
	p.recorder.SetClusterTotal(merged.Len())

	if err := metrics.Stage(p.recorder, metrics.StageWrite, func() error {
		return bundle.WriteFileAtomic(opts.Output, []byte(out))
	}); err != nil {
		return 0, errors.FileSystemError("failed to write merge output").
			WithCause(err).
			WithContext("path", opts.Output).
			Build()
	}

	slog.Info("Merged clusters", logfields.Count(merged.Len()), logfields.Path(opts.Output))
	return merged.Len(), nil
}
