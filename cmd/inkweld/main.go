package main

import (
	"github.com/alecthomas/kong"

	"github.com/inkweld/inkweld/cmd/inkweld/commands"
	_ "github.com/inkweld/inkweld/internal/plugin/builtin" // register builtin plugins
	"github.com/inkweld/inkweld/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("inkweld"),
		kong.Description("Assemble markdown sources and a project manifest into a styled document."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	err := ctx.Run(&commands.Global{}, cli)
	ctx.FatalIfErrorf(err)
}
