package ast

import "fmt"

// Location identifies where an entry was declared in the ledger snapshot.
// Synthesized entries (summaries, transfers) carry a zero Location.
type Location struct {
	Filename string
	Line     int // Line number (1-indexed)
}

// IsZero reports whether the location is unset.
func (l Location) IsZero() bool {
	return l.Filename == "" && l.Line == 0
}

// String returns "file:line", or just the line when no file is known.
func (l Location) String() string {
	if l.Filename != "" {
		return fmt.Sprintf("%s:%d", l.Filename, l.Line)
	}
	if l.Line > 0 {
		return fmt.Sprintf("%d", l.Line)
	}
	return ""
}
