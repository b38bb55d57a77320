package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	errfmt "github.com/robinvdvleuten/beanreport/errors"
)

type CheckCmd struct {
	File   FileOrStdin `help:"Ledger snapshot filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Format string      `help:"Output format for validation errors." enum:"text,json" default:"text" short:"f"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s := newSession(ctx, globals, "check", &cmd.File)
	defer s.close()

	l, result, err := s.ledger()
	if err != nil {
		return err
	}

	errs := l.Errors()
	if cmd.Format == formatJSON {
		_, _ = fmt.Fprintln(ctx.Stdout, errfmt.NewJSONFormatter().FormatAll(errs))
		if len(errs) > 0 {
			return NewCommandError(1)
		}
		return nil
	}

	if len(errs) > 0 {
		return s.fail(fmt.Sprintf("%d validation error(s) found", len(errs)), errs...)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed (%d entries, %d files)", len(result.Entries), 1+len(result.Includes)))

	return nil
}
