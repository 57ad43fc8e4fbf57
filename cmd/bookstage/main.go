package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bookstage/cmd/bookstage/commands"
	ferrors "git.home.luguber.info/inful/bookstage/internal/foundation/errors"
	"git.home.luguber.info/inful/bookstage/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("bookstage"),
		kong.Description("Stage generated code examples into the book and build it."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Exit(func(code int) {
			if code != 0 {
				code = ferrors.ExitUsage
			}
			os.Exit(code)
		}),
	)

	global := &commands.Global{Stdout: os.Stdout}
	if err := parser.Run(global, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
		return
	}
	os.Exit(global.ExitCode)
}
