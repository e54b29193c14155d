package commands

import (
	"git.home.luguber.info/inful/listbuilder/internal/build"
	"git.home.luguber.info/inful/listbuilder/internal/config"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	OutputDir string `short:"o" name:"output-dir" help:"Directory that receives the js/ bundles" default:"build"`
	NoLocal   bool   `name:"no-local" help:"Use the remote contents API instead of a local clone"`
	Pull      bool   `help:"Update an existing local clone before building"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	p, err := root.pipeline()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	outDir := ResolveOutputDir(b.OutputDir, p.Config())
	if outDir == "" {
		outDir = config.DefaultOutputDir
	}

	res, err := p.Build(ctx, outDir, build.SourceOptions{NoLocal: b.NoLocal, Pull: b.Pull})
	flush(p)
	if err != nil {
		g.println("Build failed")
		return err
	}

	categories, lists, items := res.Data.Counts()
	g.printf("Built %d lists (%d items) in %d categories\n", lists, items, categories)
	for _, path := range res.Paths {
		g.printf("Wrote %s\n", path)
	}
	return nil
}
