package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/bookstage/internal/bookcheck"
	"git.home.luguber.info/inful/bookstage/internal/config"
	ferrors "git.home.luguber.info/inful/bookstage/internal/foundation/errors"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Book string `help:"Book markdown directory (default: book_dir from config)"`
	Dest string `help:"Asset destination root (default: dest from config)"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	book, dest := cfg.BookDir, cfg.Dest
	if c.Book != "" {
		book = c.Book
	}
	if c.Dest != "" {
		dest = c.Dest
	}
	for _, arg := range []struct{ flag, dir string }{{"--book", book}, {"--dest", dest}} {
		if arg.dir == "" {
			return ferrors.ValidationError(arg.flag + " is required").Build()
		}
		if info, err := os.Stat(arg.dir); err != nil || !info.IsDir() {
			return ferrors.NotFoundError("directory does not exist").WithContext("path", arg.dir).Build()
		}
	}

	refs, err := bookcheck.CheckReferences(book, dest)
	if err != nil {
		return ferrors.FileSystemError("reference check failed").WithCause(err).Build()
	}
	svgs, err := bookcheck.CheckSVGs(dest)
	if err != nil {
		return ferrors.FileSystemError("svg check failed").WithCause(err).Build()
	}

	out := g.stdout()
	problems := append(refs, svgs...) //nolint:gocritic // refs is not reused
	for _, p := range problems {
		fmt.Fprintln(out, p.String())
	}
	fmt.Fprintf(out, "check: %d problem(s)\n", len(problems))
	if len(problems) > 0 {
		g.exit(ferrors.ExitStagingFailed)
	}
	return nil
}
