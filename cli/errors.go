package cli

import (
	"errors"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/multierr"

	errfmt "github.com/robinvdvleuten/beanreport/errors"
	"github.com/robinvdvleuten/beanreport/ledger"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	formatter *errfmt.TextFormatter
}

// NewErrorRenderer creates a renderer that takes the context of errors in
// filename from source. Errors in other files read them from disk.
func NewErrorRenderer(filename string, source []byte) *ErrorRenderer {
	return &ErrorRenderer{
		formatter: errfmt.NewTextFormatter(
			errfmt.WithSource(filename, source),
			errfmt.WithStyles(
				func(s string) string { return errorStyle.Render(s) },
				func(s string) string { return errContextStyle.Render(s) },
				func(s string) string { return errCaretStyle.Render(s) },
			),
		),
	}
}

// splitErrors flattens combined and collected errors into a list.
func splitErrors(err error) []error {
	var verr *ledger.ValidationErrors
	if errors.As(err, &verr) {
		return verr.Errors
	}
	return multierr.Errors(err)
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	return r.formatter.Format(err)
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	return r.formatter.FormatAll(errs)
}
