package commands

import (
	"git.home.luguber.info/inful/listbuilder/internal/build"
	"git.home.luguber.info/inful/listbuilder/internal/lists"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	NoLocal bool `name:"no-local" help:"Use the remote contents API instead of a local clone"`
	Pull    bool `help:"Update an existing local clone first"`
}

func (d *DiscoverCmd) Run(g *Global, root *CLI) error {
	p, err := root.pipeline()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	data, err := p.Lists(ctx, build.SourceOptions{NoLocal: d.NoLocal, Pull: d.Pull})
	if err != nil {
		return err
	}

	category := ""
	data.Each(func(l *lists.List) {
		if l.Category != category {
			category = l.Category
			g.println(category + "/")
		}
		g.printf("  %-24s %4d  %s\n", l.Slug, len(l.Items), l.Title)
	})
	categories, count, items := data.Counts()
	g.printf("%d categories, %d lists, %d items\n", categories, count, items)
	return nil
}
