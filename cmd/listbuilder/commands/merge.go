package commands

import "git.home.luguber.info/inful/listbuilder/internal/build"

// MergeCmd implements the 'merge' command.
type MergeCmd struct {
	Input   string `required:"" type:"existingfile" help:"JavaScript file holding the allPromptDataMarkdown block"`
	Output  string `required:"" type:"path" help:"Where to write the rewritten file (may equal --input)"`
	Compact bool   `help:"Render terms without spaces or blank lines"`
	NoLocal bool   `name:"no-local" help:"Use the remote contents API instead of a local clone"`
	Pull    bool   `help:"Update an existing local clone before merging"`
}

func (m *MergeCmd) Run(g *Global, root *CLI) error {
	p, err := root.pipeline()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	n, err := p.Merge(ctx, build.MergeOptions{
		Input:   m.Input,
		Output:  m.Output,
		Compact: m.Compact,
		Source:  build.SourceOptions{NoLocal: m.NoLocal, Pull: m.Pull},
	})
	flush(p)
	if err != nil {
		g.println("Merge failed")
		return err
	}
	g.printf("Merged %d clusters into %s\n", n, m.Output)
	return nil
}
