package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/wikilist/cmd/wikilist/commands"
	"git.home.luguber.info/inful/wikilist/internal/config"
	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
	"git.home.luguber.info/inful/wikilist/internal/version"
)

func main() {
	// .env files must be in the environment before kong resolves env-backed flags.
	if _, err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintln(os.Stderr, err) //nolint:forbidigo // pre-logging diagnostic
	}

	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("wikilist"),
		kong.Description("Keep the icon list wiki pages in sync with the icon catalog."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Out: os.Stdout}
	if err := parser.Run(global, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
	}
}
