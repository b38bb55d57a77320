// Package cli implements the beanreport commands.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/natefinch/atomic"
	"golang.org/x/term"

	"github.com/robinvdvleuten/beanreport/ledger"
	"github.com/robinvdvleuten/beanreport/loader"
	"github.com/robinvdvleuten/beanreport/output"
	"github.com/robinvdvleuten/beanreport/telemetry"
	"github.com/robinvdvleuten/beanreport/view"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		successStyle.Render(successSymbol),
		message,
	)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		errorStyle.Render(errorSymbol),
		errorStyle.Render(message),
	)
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	formatted := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(w, "%s %s\n",
		infoStyle.Render(infoSymbol),
		formatted,
	)
}

// promptYesNo prompts the user with a yes/no question.
// Returns false by default if stdin is not a terminal.
func promptYesNo(question string) (bool, error) {
	if !isTerminal() {
		return false, nil
	}

	var confirm bool

	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	return confirm, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// FileOrStdin accepts either a file path or "-" for stdin.
// For stdin: Filename="<stdin>", Contents populated.
// For files: Filename set, Contents nil (read by loader).
type FileOrStdin struct {
	Filename string
	Contents []byte
}

// Decode implements kong.MapperValue.
func (f *FileOrStdin) Decode(ctx *kong.DecodeContext) error {
	var filename string
	if err := ctx.Scan.PopValueInto("filename", &filename); err != nil {
		return err
	}

	if filename == "-" || filename == "" {
		return f.readStdin()
	}

	if _, err := os.Stat(filename); err != nil {
		return err
	}
	f.Filename = filename
	f.Contents = nil

	return nil
}

// EnsureContents populates Contents from stdin if Filename is empty.
func (f *FileOrStdin) EnsureContents() error {
	if f.Filename == "" {
		return f.readStdin()
	}
	return nil
}

func (f *FileOrStdin) readStdin() error {
	contents, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read from stdin: %w", err)
	}
	f.Filename = "<stdin>"
	f.Contents = contents
	return nil
}

// GetSourceContent returns source content for error formatting.
func (f *FileOrStdin) GetSourceContent() ([]byte, error) {
	if f.Filename == "<stdin>" {
		return f.Contents, nil
	}
	return os.ReadFile(f.Filename)
}

// GetAbsoluteFilename returns the absolute path, or "<stdin>" for stdin.
func (f *FileOrStdin) GetAbsoluteFilename() string {
	if f.Filename == "<stdin>" {
		return f.Filename
	}
	absPath, err := filepath.Abs(f.Filename)
	if err != nil {
		return f.Filename
	}
	return absPath
}

// Load reads the snapshot using LoadBytes for stdin or Load for files.
func (f *FileOrStdin) Load(ctx context.Context, ldr *loader.Loader) (*loader.Result, error) {
	absFilename := f.GetAbsoluteFilename()

	if f.Filename == "<stdin>" {
		return ldr.LoadBytes(ctx, absFilename, f.Contents)
	}
	return ldr.Load(ctx, absFilename)
}

// session is the state shared by the reporting commands: the context with
// an optional timing collector and the loaded ledger.
type session struct {
	ctx    context.Context
	stdout io.Writer
	stderr io.Writer
	file   *FileOrStdin

	collector *telemetry.TimingCollector
	timer     telemetry.Timer
	once      sync.Once
}

// newSession starts a command named name. Call close once the command is
// done to print the timing report.
func newSession(kctx *kong.Context, globals *Globals, name string, file *FileOrStdin) *session {
	s := &session{
		ctx:    context.Background(),
		stdout: kctx.Stdout,
		stderr: kctx.Stderr,
		file:   file,
	}
	if globals.Telemetry {
		s.collector = telemetry.NewTimingCollector()
		s.ctx = telemetry.WithCollector(s.ctx, s.collector)
		s.timer = s.collector.Start(fmt.Sprintf("%s %s", name, filepath.Base(file.Filename)))
		s.ctx = telemetry.WithTimer(s.ctx, s.timer)
	}
	return s
}

func (s *session) close() {
	s.once.Do(func() {
		if s.collector != nil {
			s.timer.End()
			_, _ = fmt.Fprintln(s.stderr)
			s.collector.Report(s.stderr, output.NewStyles(s.stderr))
		}
	})
}

// fail renders errs with source context and returns the exit error.
func (s *session) fail(summary string, errs ...error) error {
	source, _ := s.file.GetSourceContent()
	renderer := NewErrorRenderer(s.file.GetAbsoluteFilename(), source)
	_, _ = fmt.Fprintln(s.stderr, renderer.RenderAll(errs))

	_, _ = fmt.Fprintln(s.stderr)
	printError(s.stderr, summary)

	s.close()
	return NewCommandError(1)
}

// ledger loads and processes the snapshot. Validation errors do not stop
// reporting; they are returned alongside the ledger.
func (s *session) ledger() (*ledger.Ledger, *loader.Result, error) {
	if err := s.file.EnsureContents(); err != nil {
		return nil, nil, err
	}

	ldr := loader.New(loader.WithFollowIncludes())
	result, err := s.file.Load(s.ctx, ldr)
	if err != nil {
		return nil, nil, s.fail("load error", splitErrors(err)...)
	}

	l := ledger.New()
	if err := l.Process(s.ctx, result.Entries, result.Options); err != nil {
		var validationErrors *ledger.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, nil, s.fail(err.Error())
		}
	}
	return l, result, nil
}

// views loads the ledger and indexes its views.
func (s *session) views() (*ledger.Ledger, *view.Views, error) {
	l, _, err := s.ledger()
	if err != nil {
		return nil, nil, err
	}

	views, err := view.NewViews(l.Entries(), l.Config())
	if err != nil {
		return nil, nil, s.fail("cannot identify views", err)
	}
	return l, views, nil
}

// view loads the ledger and builds the view of a command line scope.
func (s *session) view(scope string) (*ledger.Ledger, *view.View, error) {
	key, err := view.KeyFromScope(scope)
	if err != nil {
		return nil, nil, err
	}

	l, views, err := s.views()
	if err != nil {
		return nil, nil, err
	}

	v, err := views.Get(s.ctx, key)
	if err != nil {
		if errors.Is(err, view.ErrUnknownScope) {
			return nil, nil, err
		}
		return nil, nil, s.fail("cannot build view "+key, splitErrors(err)...)
	}
	return l, v, nil
}

// write prints page to stdout, or replaces the file at path with it.
func (s *session) write(path, format string, page any) error {
	var buf bytes.Buffer
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(page, "", "  ")
		if err != nil {
			return err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	default:
		target := s.stdout
		if path != "" {
			target = &buf
		}
		if err := renderPage(&buf, output.NewStyles(target), page); err != nil {
			return err
		}
	}

	if path == "" {
		_, err := buf.WriteTo(s.stdout)
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	printInfof(s.stderr, "Wrote %s", pathStyle.Render(path))
	return nil
}
