package commands

// CleanCmd implements the 'clean' command.
type CleanCmd struct{}

func (c *CleanCmd) Run(g *Global, root *CLI) error {
	p, err := root.pipeline()
	if err != nil {
		return err
	}
	dir, err := p.CleanCache()
	if err != nil {
		return err
	}
	g.printf("Removed %s\n", dir)
	return nil
}
