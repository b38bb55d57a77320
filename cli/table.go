package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/beanreport/output"
	"github.com/robinvdvleuten/beanreport/view"
)

const columnGap = "  "

// textTable is a table of plain cells aligned by display width. Cells are
// styled after padding so escape sequences never count towards widths.
type textTable struct {
	header []string
	rows   [][]string

	// right marks right aligned columns.
	right map[int]bool

	// style styles a padded body cell, and may be nil.
	style func(row, col int, cell string) string
}

func (t *textTable) widths() []int {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	return widths
}

func (t *textTable) pad(col int, cell string, width int) string {
	if t.right[col] {
		return runewidth.FillLeft(cell, width)
	}
	return runewidth.FillRight(cell, width)
}

func (t *textTable) render(w io.Writer, styles *output.Styles) {
	widths := t.widths()
	last := len(widths) - 1

	cells := make([]string, len(widths))
	for i, h := range t.header {
		cells[i] = styles.Keyword(t.pad(i, h, widths[i]))
	}
	writeLine(w, cells[:len(t.header)])

	rule := make([]string, len(widths))
	for i, width := range widths {
		rule[i] = styles.Dim(strings.Repeat("─", width))
	}
	writeLine(w, rule)

	for r, row := range t.rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			padded := cell
			// Trailing blanks of the last column are noise.
			if i < last || t.right[i] {
				padded = t.pad(i, cell, widths[i])
			}
			if t.style != nil {
				padded = t.style(r, i, padded)
			}
			cells[i] = padded
		}
		writeLine(w, cells)
	}
}

func writeLine(w io.Writer, cells []string) {
	_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, columnGap), " "))
}

// renderTreePage prints the balance tables of a page. Accounts are indented
// by depth and show their last component.
func renderTreePage(w io.Writer, styles *output.Styles, page *view.TreePage) {
	_, _ = fmt.Fprintln(w, styles.Keyword(page.View))

	for _, table := range page.Tables {
		_, _ = fmt.Fprintln(w)

		t := &textTable{header: table.Header, right: make(map[int]bool)}
		for i := 1; i < len(table.Header)-1; i++ {
			t.right[i] = true
		}
		for _, row := range table.Rows {
			cells := []string{indentAccount(row.Account, row.Depth)}
			cells = append(cells, row.Amounts...)
			cells = append(cells, strings.Join(row.Other, ", "))
			t.rows = append(t.rows, cells)
		}
		t.style = func(_, col int, cell string) string {
			switch {
			case col == 0:
				return styles.Account(cell)
			case strings.TrimSpace(cell) != "":
				return styles.Amount(cell)
			}
			return cell
		}
		t.render(w, styles)
	}

	if len(page.NetIncome) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "%s %s\n", styles.Keyword("Net Income:"), styles.Amount(strings.Join(page.NetIncome, ", ")))
	}
}

func indentAccount(account string, depth int) string {
	name := account
	if i := strings.LastIndexByte(account, ':'); i >= 0 {
		name = account[i+1:]
	}
	return strings.Repeat("  ", depth) + name
}

// renderJournal prints a journal with one line per entry.
func renderJournal(w io.Writer, styles *output.Styles, page *view.JournalPage) {
	title := page.View
	if page.Account != "" {
		title += " / " + page.Account
	}
	_, _ = fmt.Fprintln(w, styles.Keyword(title))
	_, _ = fmt.Fprintln(w)

	t := &textTable{
		header: []string{"Date", "F", "Description", "Change", "Balance"},
		right:  map[int]bool{3: true, 4: true},
	}
	for _, entry := range page.Entries {
		flag := entry.Flag
		if flag == "" {
			flag = entry.Kind[:1]
		}
		t.rows = append(t.rows, []string{
			entry.Date,
			flag,
			entry.Description,
			strings.Join(entry.Change, ", "),
			strings.Join(entry.Balance, ", "),
		})
	}
	t.style = func(r, col int, cell string) string {
		entry := page.Entries[r]
		switch col {
		case 1:
			if entry.Kind == "CheckFail" {
				return styles.Error(cell)
			}
			return styles.Flag(cell)
		case 2:
			if entry.Warning {
				return styles.Warning(cell)
			}
		case 3, 4:
			return styles.Amount(cell)
		}
		return cell
	}
	t.render(w, styles)
}

// renderConversions prints the conversion transactions with one line per
// posting, followed by their total.
func renderConversions(w io.Writer, styles *output.Styles, page *view.ConversionsPage) {
	_, _ = fmt.Fprintln(w, styles.Keyword(page.View))
	_, _ = fmt.Fprintln(w)

	t := &textTable{
		header: []string{"Date", "Description", "Account", "Units", "Price"},
		right:  map[int]bool{3: true, 4: true},
	}
	for _, entry := range page.Entries {
		for i, p := range entry.Postings {
			date, description := "", ""
			if i == 0 {
				date, description = entry.Date, entry.Description
			}
			t.rows = append(t.rows, []string{date, description, p.Account, p.Units, p.Price})
		}
	}
	t.style = func(_, col int, cell string) string {
		switch col {
		case 2:
			return styles.Account(cell)
		case 3, 4:
			return styles.Amount(cell)
		}
		return cell
	}
	t.render(w, styles)

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%s %s\n", styles.Keyword("Total:"), styles.Amount(strings.Join(page.Total, ", ")))
}

// renderPositions prints the lots held at cost.
func renderPositions(w io.Writer, styles *output.Styles, page *view.PositionsPage) {
	_, _ = fmt.Fprintln(w, styles.Keyword(page.View))
	_, _ = fmt.Fprintln(w)

	t := &textTable{
		header: []string{"Units", "Cost"},
		right:  map[int]bool{1: true},
	}
	for _, pos := range page.Positions {
		t.rows = append(t.rows, []string{pos.Units, pos.Cost})
	}
	t.style = func(_, _ int, cell string) string { return styles.Amount(cell) }
	t.render(w, styles)
}

// renderPage prints any page that view.View.Page returns.
func renderPage(w io.Writer, styles *output.Styles, page any) error {
	switch p := page.(type) {
	case *view.TreePage:
		renderTreePage(w, styles, p)
	case *view.JournalPage:
		renderJournal(w, styles, p)
	case *view.ConversionsPage:
		renderConversions(w, styles, p)
	case *view.PositionsPage:
		renderPositions(w, styles, p)
	default:
		return fmt.Errorf("cannot render %T", page)
	}
	return nil
}
