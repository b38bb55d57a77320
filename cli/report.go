package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/output"
	"github.com/robinvdvleuten/beanreport/view"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

type ReportCmd struct {
	File   FileOrStdin `help:"Ledger snapshot filename (use '-' for stdin)." arg:""`
	Scope  string      `help:"View to report on: all, year:YYYY, tag:ID or payee:ID." default:"all" short:"s"`
	Page   string      `help:"Page to print." enum:"balsheet,openbal,income,trial,conversions,positions" default:"balsheet" short:"p"`
	Format string      `help:"Output format." enum:"table,json" default:"table" short:"f"`
	Output string      `help:"Write the report to this file instead of stdout." type:"path" short:"o"`
}

func (cmd *ReportCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s := newSession(ctx, globals, "report "+cmd.Page, &cmd.File)
	defer s.close()

	_, v, err := s.view(cmd.Scope)
	if err != nil {
		return err
	}

	page, err := v.Page(cmd.Page)
	if err != nil {
		return err
	}
	return s.write(cmd.Output, cmd.Format, page)
}

type JournalCmd struct {
	File    FileOrStdin `help:"Ledger snapshot filename (use '-' for stdin)." arg:""`
	Account string      `help:"Account whose journal to print, including its sub-accounts. Omit for every account." arg:"" optional:""`
	Scope   string      `help:"View to report on: all, year:YYYY, tag:ID or payee:ID." default:"all" short:"s"`
	Format  string      `help:"Output format." enum:"table,json" default:"table" short:"f"`
	Output  string      `help:"Write the journal to this file instead of stdout." type:"path" short:"o"`
}

func (cmd *JournalCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s := newSession(ctx, globals, "journal", &cmd.File)
	defer s.close()

	l, v, err := s.view(cmd.Scope)
	if err != nil {
		return err
	}

	account := ast.Account(strings.ReplaceAll(strings.Trim(cmd.Account, "/"), "/", ":"))
	page, err := v.Journal(account, l.BalanceFailed)
	if errors.Is(err, view.ErrUnknownAccount) {
		return fmt.Errorf("no activity for %s in %s", account, v.Title())
	} else if err != nil {
		return err
	}
	return s.write(cmd.Output, cmd.Format, page)
}

type ViewsCmd struct {
	File   FileOrStdin `help:"Ledger snapshot filename (use '-' for stdin)." arg:""`
	Format string      `help:"Output format." enum:"table,json" default:"table" short:"f"`
}

func (cmd *ViewsCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s := newSession(ctx, globals, "views", &cmd.File)
	defer s.close()

	_, views, err := s.views()
	if err != nil {
		return err
	}

	links := views.Resolver().TableOfContents()
	if cmd.Format == formatJSON {
		return s.write("", formatJSON, links)
	}

	styles := output.NewStyles(ctx.Stdout)
	t := &textTable{header: []string{"Scope", "Title"}}
	for _, link := range links {
		t.rows = append(t.rows, []string{scopeOf(link.Key), link.Title})
	}
	t.style = func(_, col int, cell string) string {
		if col == 0 {
			return styles.FilePath(cell)
		}
		return cell
	}
	t.render(ctx.Stdout, styles)
	return nil
}

// scopeOf converts a view key into the command line scope that selects it,
// the inverse of view.KeyFromScope.
func scopeOf(key string) string {
	kind, param, _ := strings.Cut(strings.TrimPrefix(key, "/view/"), "/")
	if param == "" {
		return kind
	}
	return kind + ":" + param
}
