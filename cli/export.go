package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/natefinch/atomic"
	"go.uber.org/multierr"

	"github.com/robinvdvleuten/beanreport/ledger"
	"github.com/robinvdvleuten/beanreport/view"
)

type ExportCmd struct {
	File    FileOrStdin `help:"Ledger snapshot filename (use '-' for stdin)." arg:""`
	Output  string      `help:"Directory to write the pages to." type:"path" short:"o" required:""`
	Scope   []string    `help:"Views to export: all, year:YYYY, tag:ID or payee:ID. Defaults to every view." short:"s"`
	Preload int         `help:"Number of views built concurrently." default:"4"`
}

// Run writes <output>/<scope>/<page>.json for every page of every exported
// view, plus journal.json with the journal of the whole view. A view that
// cannot be built is reported and skipped.
func (cmd *ExportCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s := newSession(ctx, globals, "export", &cmd.File)
	defer s.close()

	l, views, err := s.views()
	if err != nil {
		return err
	}

	keys := views.Resolver().Keys()
	if len(cmd.Scope) > 0 {
		keys = keys[:0:0]
		for _, scope := range cmd.Scope {
			key, err := view.KeyFromScope(scope)
			if err != nil {
				return err
			}
			keys = append(keys, key)
		}
	} else if cmd.Preload > 0 {
		// Failures are reported per view below.
		_ = views.Preload(s.ctx, cmd.Preload)
	}

	var errs error
	written := 0
	for _, key := range keys {
		v, err := views.Get(s.ctx, key)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		n, err := exportView(l, v, filepath.Join(cmd.Output, filepath.FromSlash(strings.TrimPrefix(key, "/view/"))))
		written += n
		if err != nil {
			return err
		}
	}

	if errs != nil {
		return s.fail(fmt.Sprintf("%d view(s) could not be exported", len(multierr.Errors(errs))), multierr.Errors(errs)...)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Exported %d files to %s", written, pathStyle.Render(cmd.Output)))
	return nil
}

func exportView(l *ledger.Ledger, v *view.View, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	written := 0
	for _, name := range view.Pages {
		page, err := v.Page(name)
		if err != nil {
			return written, err
		}
		if err := writeJSONFile(filepath.Join(dir, name+".json"), page); err != nil {
			return written, err
		}
		written++
	}

	journal, err := v.Journal("", l.BalanceFailed)
	if err != nil {
		return written, err
	}
	if err := writeJSONFile(filepath.Join(dir, view.PageJournal+".json"), journal); err != nil {
		return written, err
	}
	return written + 1, nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
