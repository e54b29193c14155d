package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/listbuilder/cmd/listbuilder/commands"
	"git.home.luguber.info/inful/listbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/listbuilder/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Out: os.Stdout}

	parser := kong.Parse(cli,
		kong.Name("listbuilder"),
		kong.Description("Compile prompt word lists into JavaScript bundles and merge them into cluster data."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global.Logger = slog.Default()
	if err := parser.Run(global, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
