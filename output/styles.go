// Package output provides styling helpers for terminal output.
package output

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// ANSI palette indexes.
const (
	red     = "1"
	yellow  = "3"
	magenta = "5"
	cyan    = "6"
)

// Styles colours report cells and diagnostics for one writer. Writers that
// are not a terminal get plain text.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates a new Styles instance for the given writer.
func NewStyles(w io.Writer) *Styles {
	return &Styles{
		output: termenv.NewOutput(w),
	}
}

type paint struct {
	color string
	bold  bool
	faint bool
}

func (s *Styles) paint(text string, p paint) string {
	styled := s.output.String(text)
	if p.color != "" {
		styled = styled.Foreground(s.output.Color(p.color))
	}
	if p.bold {
		styled = styled.Bold()
	}
	if p.faint {
		styled = styled.Faint()
	}
	return styled.String()
}

// Error styles a failure such as a failed balance assertion.
func (s *Styles) Error(text string) string {
	return s.paint(text, paint{color: red, bold: true})
}

// Warning styles flagged entries.
func (s *Styles) Warning(text string) string {
	return s.paint(text, paint{color: yellow, bold: true})
}

// FilePath styles a file name.
func (s *Styles) FilePath(text string) string {
	return s.paint(text, paint{color: cyan})
}

// Account styles an account name.
func (s *Styles) Account(text string) string {
	return s.paint(text, paint{color: yellow})
}

// Amount styles a formatted number: red when negative, magenta otherwise.
func (s *Styles) Amount(text string) string {
	if strings.HasPrefix(strings.TrimSpace(text), "-") {
		return s.paint(text, paint{color: red})
	}
	return s.paint(text, paint{color: magenta})
}

// Keyword styles titles and table headers.
func (s *Styles) Keyword(text string) string {
	return s.paint(text, paint{bold: true})
}

// Dim styles secondary information such as table rules.
func (s *Styles) Dim(text string) string {
	return s.paint(text, paint{faint: true})
}

// Flag styles a journal row flag. Synthesized rows (padding, summaries,
// transfers) are dimmed and flagged rows are warnings.
func (s *Styles) Flag(flag string) string {
	switch flag {
	case "!":
		return s.Warning(flag)
	case "P", "S", "T", "C":
		return s.Dim(flag)
	}
	return flag
}

// Timing styles a duration of the telemetry report.
func (s *Styles) Timing(text string, slow bool) string {
	if slow {
		return s.paint(text, paint{color: red})
	}
	return s.Dim(text)
}
