package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/beanreport/output"
	"github.com/robinvdvleuten/beanreport/telemetry"
	"github.com/robinvdvleuten/beanreport/web"
)

type WebCmd struct {
	File    string `help:"Ledger snapshot file to serve." arg:""`
	Host    string `help:"Address to bind to." default:"127.0.0.1" env:"BEANREPORT_HOST"`
	Port    int    `help:"Port to listen on." default:"8080" env:"BEANREPORT_PORT"`
	Watch   bool   `help:"Reload the ledger when the file or its includes change." default:"true" negatable:"" env:"BEANREPORT_WATCH"`
	Preload int    `help:"Build every view after loading, this many at a time (0 builds views on first request)." default:"0" env:"BEANREPORT_PRELOAD"`
	Create  bool   `help:"Automatically create file if it doesn't exist (no confirmation prompt)." short:"c"`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if globals.Telemetry {
		collector := telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
		}()
	}

	ledgerFile, err := filepath.Abs(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if err := cmd.ensureFile(ctx, ledgerFile); err != nil {
		return err
	}

	version := Version
	if version == "" {
		version = "dev"
	}
	commitSHA := CommitSHA
	if commitSHA == "" {
		commitSHA = "local"
	}

	server := web.NewWithVersion(cmd.Port, ledgerFile, version, commitSHA)
	server.Host = cmd.Host
	server.WatchEnabled = cmd.Watch
	server.PreloadLimit = cmd.Preload

	printInfof(ctx.Stdout, "Starting server on http://%s:%d", server.Host, cmd.Port)
	printInfof(ctx.Stdout, "Serving ledger: %s", pathStyle.Render(ledgerFile))

	if cmd.Watch {
		printInfof(ctx.Stdout, "Watching for changes")
	}

	return server.Start(runCtx)
}

// ensureFile creates an empty ledger at path when it does not exist and the
// user agrees.
func (cmd *WebCmd) ensureFile(ctx *kong.Context, path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access file: %w", err)
	}

	shouldCreate := cmd.Create
	if !shouldCreate {
		confirmed, err := promptYesNo(fmt.Sprintf("File %q does not exist. Create it?", path))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		shouldCreate = confirmed
	}

	if !shouldCreate {
		return fmt.Errorf("file does not exist: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	if err := os.WriteFile(path, []byte("entries: []\n"), 0600); err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	printInfof(ctx.Stdout, "Created empty ledger file: %s", pathStyle.Render(path))
	return nil
}
