package commands

import (
	"context"
	"time"

	"git.home.luguber.info/inful/listbuilder/internal/build"
	"git.home.luguber.info/inful/listbuilder/internal/git"
	"git.home.luguber.info/inful/listbuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	OutputDir string        `short:"o" name:"output-dir" help:"Directory that receives the js/ bundles" default:"build"`
	PullEvery time.Duration `name:"pull-every" help:"Pull the content repository on this interval (e.g. 10m); 0 disables"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	p, err := root.pipeline()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	cfg := p.Config()
	// Make sure the clone exists before watching it.
	if _, err := p.Source(ctx, build.SourceOptions{}); err != nil {
		return err
	}

	outDir := ResolveOutputDir(w.OutputDir, cfg)
	client := git.NewClient(cfg.ClonePath())
	repo := git.RepositoryFromConfig(cfg)

	watcher := &watch.Watcher{
		Dir: cfg.ListsPath(),
		Rebuild: func(ctx context.Context) error {
			_, err := p.Build(ctx, outDir, build.SourceOptions{})
			flush(p)
			return err
		},
		Pull: func(ctx context.Context) (bool, error) {
			return client.Pull(ctx, repo)
		},
		PullEvery: w.PullEvery,
	}
	g.printf("Watching %s (Ctrl+C to stop)\n", cfg.ListsPath())
	return watcher.Run(ctx)
}
