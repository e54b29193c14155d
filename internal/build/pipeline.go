package build

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/listbuilder/internal/config"
	"git.home.luguber.info/inful/listbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/listbuilder/internal/git"
	"git.home.luguber.info/inful/listbuilder/internal/httpcache"
	"git.home.luguber.info/inful/listbuilder/internal/lists"
	"git.home.luguber.info/inful/listbuilder/internal/logfields"
	"git.home.luguber.info/inful/listbuilder/internal/metrics"
	"git.home.luguber.info/inful/listbuilder/internal/source"
	"git.home.luguber.info/inful/listbuilder/internal/workspace"
)

// SourceOptions selects the fetch mode.
type SourceOptions struct {
	// NoLocal forces the remote contents API instead of the local clone.
	NoLocal bool
	// Pull fast-forwards an existing clone before reading it.
	Pull bool
}

// Pipeline runs builds, discovery and merges for one configuration.
type Pipeline struct {
	cfg       *config.Config
	cache     *workspace.Manager
	recorder  metrics.Recorder
	prom      *metrics.PrometheusRecorder
	transport http.RoundTripper
	progress  io.Writer
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithTransport overrides the network transport beneath the HTTP cache.
func WithTransport(rt http.RoundTripper) Option {
	return func(p *Pipeline) { p.transport = rt }
}

// WithProgress sets a writer for git clone/pull progress.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) { p.progress = w }
}

// New creates a pipeline. A Prometheus recorder is installed when a metrics
// textfile is configured.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		cache:    workspace.NewManager(cfg.Cache.Dir),
		recorder: metrics.NoopRecorder{},
	}
	if cfg.Metrics.Textfile != "" {
		p.prom = metrics.NewPrometheusRecorder(prom.NewRegistry())
		p.recorder = p.prom
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() *config.Config { return p.cfg }

// Source prepares the configured source: the local clone (created on first
// use) or the cached remote API.
func (p *Pipeline) Source(ctx context.Context, opts SourceOptions) (source.Source, error) {
	if err := p.cache.Create(); err != nil {
		return nil, errors.FileSystemError("failed to prepare cache directory").WithCause(err).Build()
	}

	if opts.NoLocal {
		httpDir := p.cfg.HTTPCachePath()
		if err := p.cache.Ensure(httpDir); err != nil {
			return nil, errors.FileSystemError("failed to prepare HTTP cache").WithCause(err).Build()
		}
		store := httpcache.NewStore(httpDir, p.cfg.HTTPCacheTTL())
		transport := httpcache.NewTransport(p.transport, store, p.recorder)
		slog.Info("Using remote contents API", logfields.URL(p.cfg.Source.APIURL), logfields.Path(httpDir))
		return source.NewRemote(p.cfg.Source, transport.Client()), nil
	}

	client := git.NewClient(p.cfg.ClonePath()).WithProgress(p.progress)
	repo := git.RepositoryFromConfig(p.cfg)
	var err error
	if opts.Pull {
		_, err = client.Pull(ctx, repo)
	} else {
		_, err = client.EnsureClone(ctx, repo)
	}
	if err != nil {
		return nil, err
	}
	local := source.NewLocal(p.cfg.ListsPath())
	attrs := []any{logfields.Path(local.Root())}
	if head, herr := client.Head(); herr == nil {
		attrs = append(attrs, slog.String("commit", head[:8]))
	}
	slog.Info("Using local clone", attrs...)
	return local, nil
}

// Lists fetches and compiles every list.
func (p *Pipeline) Lists(ctx context.Context, opts SourceOptions) (*lists.Data, error) {
	var src source.Source
	if err := metrics.Stage(p.recorder, metrics.StageFetch, func() error {
		var err error
		src, err = p.Source(ctx, opts)
		return err
	}); err != nil {
		return nil, err
	}

	builder := lists.Builder{Suffix: p.cfg.Lists.Suffix, Blacklist: p.cfg.Lists.Blacklist}
	var data *lists.Data
	if err := metrics.Stage(p.recorder, metrics.StageBuild, func() error {
		var err error
		data, err = builder.Build(ctx, src)
		return err
	}); err != nil {
		return nil, err
	}

	categories, listCount, items := data.Counts()
	p.recorder.SetListTotals(categories, listCount, items)
	slog.Info("Compiled lists", logfields.Mode(src.Mode()),
		slog.Int("categories", categories), slog.Int("lists", listCount), slog.Int("items", items))
	return data, nil
}

// FlushMetrics writes the metrics textfile when one is configured.
func (p *Pipeline) FlushMetrics() error {
	if p.prom == nil {
		return nil
	}
	path := p.cfg.Metrics.Textfile
	if err := p.prom.WriteTextfile(path); err != nil {
		return errors.FileSystemError("failed to write metrics").WithCause(err).WithContext("path", path).Build()
	}
	slog.Debug("Wrote metrics", logfields.Path(path))
	return nil
}

// BundleDir returns the directory that receives the bundles for outputDir.
func (p *Pipeline) BundleDir(outputDir string) string {
	if outputDir == "" {
		outputDir = p.cfg.Output.Directory
	}
	return filepath.Join(outputDir, p.cfg.Output.JSDir)
}

// CleanCache removes the cache directory (clone and HTTP cache) and returns its path.
func (p *Pipeline) CleanCache() (string, error) {
	if err := p.cache.Clean(); err != nil {
		return "", errors.FileSystemError("failed to clean cache").WithCause(err).Build()
	}
	return p.cache.Dir(), nil
}
