// Package errors provides error formatting infrastructure for ledger errors.
// It separates error formatting from domain logic, allowing errors to be rendered in
// multiple formats (text, JSON) for different consumers (CLI, web server).
//
// The package defines a Formatter interface and provides two implementations:
//   - TextFormatter: Formats errors for command-line output in bean-check style
//   - JSONFormatter: Formats errors as structured JSON for APIs
//
// Domain-specific error types remain in their respective packages (e.g., ledger),
// while this package handles the presentation layer.
package errors

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/report"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

type positioned interface {
	GetPosition() ast.Location
}

type withEntry interface {
	GetEntry() ast.Directive
}

type withAccount interface {
	GetAccount() ast.Account
}

// TextFormatter formats errors for command-line output in bean-check style:
// the message, then the source lines around the error or a summary of the
// offending entry.
type TextFormatter struct {
	sources map[string][]byte
	noDisk  bool

	message func(string) string
	context func(string) string
	marker  func(string) string
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the content of filename, for files that cannot be read
// from disk such as stdin.
func WithSource(filename string, source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		if source != nil {
			tf.sources[filename] = source
		}
	}
}

// WithoutDisk restricts source context to the files given with WithSource.
func WithoutDisk() TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.noDisk = true
	}
}

// WithStyles styles the message, the context lines and the marker of the
// offending line.
func WithStyles(message, context, marker func(string) string) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.message = message
		tf.context = context
		tf.marker = marker
	}
}

func plain(s string) string { return s }

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{
		sources: make(map[string][]byte),
		message: plain,
		context: plain,
		marker:  plain,
	}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error in bean-check style.
func (tf *TextFormatter) Format(err error) string {
	var p positioned
	if stdErrors.As(err, &p) {
		if source := tf.source(p.GetPosition().Filename); source != nil {
			return tf.formatWithSourceContext(p.GetPosition(), err.Error(), source)
		}
	}

	var e withEntry
	if stdErrors.As(err, &e) && e.GetEntry() != nil {
		return tf.formatWithContext(err.Error(), e.GetEntry())
	}

	return tf.message(err.Error())
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))

		// Add blank line between errors (but not after the last one)
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

func (tf *TextFormatter) source(filename string) []byte {
	if filename == "" {
		return nil
	}
	if source, ok := tf.sources[filename]; ok {
		return source
	}
	if tf.noDisk {
		return nil
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		source = nil
	}
	tf.sources[filename] = source
	return source
}

// formatWithSourceContext shows the error message followed by the source
// lines around the error position, the offending line marked with ">".
func (tf *TextFormatter) formatWithSourceContext(pos ast.Location, message string, sourceContent []byte) string {
	var buf bytes.Buffer

	buf.WriteString(tf.message(message))
	buf.WriteString("\n\n")

	sourceLines := strings.Split(string(sourceContent), "\n")

	// Two lines before and one after the error line
	startLine := max(pos.Line-3, 0)
	endLine := min(pos.Line+1, len(sourceLines)-1)

	for i := startLine; i <= endLine; i++ {
		if i == pos.Line-1 { // pos.Line is 1-based, i is 0-based
			buf.WriteString(tf.marker(">"))
			buf.WriteString("  ")
		} else {
			buf.WriteString("   ")
		}
		buf.WriteString(tf.context(sourceLines[i]))
		buf.WriteByte('\n')
	}

	return buf.String()
}

// formatWithContext formats an error with a summary of its entry, for
// entries that were not read from a file such as generated paddings.
func (tf *TextFormatter) formatWithContext(message string, entry ast.Directive) string {
	var buf bytes.Buffer

	buf.WriteString(tf.message(message))
	buf.WriteString("\n\n")

	for _, line := range EntryLines(entry) {
		buf.WriteString("   ")
		buf.WriteString(tf.context(line))
		buf.WriteByte('\n')
	}

	return buf.String()
}

// EntryLines summarizes an entry in snapshot notation, one line per
// posting for transactions.
func EntryLines(entry ast.Directive) []string {
	date := ast.DateOf(entry).String()

	switch d := entry.(type) {
	case *ast.Transaction:
		header := fmt.Sprintf("%s %s", date, d.Flag)
		if d.Payee != "" {
			header += fmt.Sprintf(" %q", d.Payee)
		}
		header += fmt.Sprintf(" %q", d.Narration)
		lines := []string{header}
		for _, p := range d.Postings {
			line := fmt.Sprintf("  %s  %s", p.Account, report.FormatAmount(p.Units))
			if p.Cost != nil {
				line += fmt.Sprintf(" {%s}", report.FormatAmount(p.Cost.Amount))
			}
			if p.Price != nil {
				line += " @ " + report.FormatAmount(*p.Price)
			}
			lines = append(lines, line)
		}
		return lines

	case *ast.Balance:
		return []string{fmt.Sprintf("%s balance %s  %s", date, d.Account, report.FormatAmount(d.Amount))}

	case *ast.Pad:
		return []string{fmt.Sprintf("%s pad %s %s", date, d.Account, d.Source)}

	case *ast.Note:
		return []string{fmt.Sprintf("%s note %s %q", date, d.Account, d.Comment)}

	case *ast.Open:
		line := fmt.Sprintf("%s open %s", date, d.Account)
		if len(d.Currencies) > 0 {
			line += " " + strings.Join(d.Currencies, ",")
		}
		return []string{line}

	case *ast.Close:
		return []string{fmt.Sprintf("%s close %s", date, d.Account)}
	}

	return []string{fmt.Sprintf("%s %s", date, entry.Kind())}
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string                 `json:"type"`
	Message  string                 `json:"message"`
	Position *PositionJSON          `json:"position,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.ToJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.ToJSON(err))
	}
	return result
}

// ToJSON converts an error to ErrorJSON.
func (jf *JSONFormatter) ToJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}

	var p positioned
	if stdErrors.As(err, &p) {
		if pos := p.GetPosition(); pos.Filename != "" {
			errJSON.Position = &PositionJSON{Filename: pos.Filename, Line: pos.Line}
		}
	}

	details := make(map[string]interface{})
	var a withAccount
	if stdErrors.As(err, &a) {
		details["account"] = string(a.GetAccount())
	}
	var e withEntry
	if stdErrors.As(err, &e) && e.GetEntry() != nil {
		details["date"] = ast.DateOf(e.GetEntry()).String()
		details["kind"] = e.GetEntry().Kind().String()
	}
	if len(details) > 0 {
		errJSON.Details = details
	}

	return errJSON
}
