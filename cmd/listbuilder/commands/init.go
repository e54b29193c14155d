package commands

import (
	"git.home.luguber.info/inful/listbuilder/internal/config"
	"git.home.luguber.info/inful/listbuilder/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.configPath()
	g.println("Initializing listbuilder project")
	g.printf("Writing configuration to %s\n", path)
	if err := config.Init(path, i.Force); err != nil {
		g.println("Initialization failed")
		return errors.ConfigError("failed to write configuration").WithCause(err).WithContext("path", path).Build()
	}
	g.println("initialized successfully")
	return nil
}
