package view

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/ledger"
)

// Filter selects the entries of a view.
type Filter interface {
	// Apply returns the entries of the view. When the view has an opening
	// boundary, hasBoundary is true and entries[:boundary] are the synthesized
	// opening entries.
	Apply(entries []ast.Directive, config *ledger.Config) (filtered []ast.Directive, boundary int, hasBoundary bool)

	// Title names the view.
	Title() string

	// checkOpen reports whether the view keeps the Open and Close directives
	// realization needs to check account lifetimes.
	checkOpen() bool
}

// All keeps every entry.
type All struct{}

func (All) Apply(entries []ast.Directive, _ *ledger.Config) ([]ast.Directive, int, bool) {
	return entries, 0, false
}

func (All) Title() string   { return "All Transactions" }
func (All) checkOpen() bool { return true }

// Year clamps the ledger to one calendar year. Income and expenses of earlier
// years are moved to the earnings account and the balances at the start of
// the year become opening entries.
type Year struct {
	Year int
}

func (y Year) Apply(entries []ast.Directive, config *ledger.Config) ([]ast.Directive, int, bool) {
	begin, end := ast.YearStart(y.Year), ast.YearStart(y.Year+1)
	clamped, index := ledger.Clamp(entries, begin, end, config.AccountTypes,
		config.EarningsAccount(), config.OpeningAccount())
	return clamped, index, true
}

func (y Year) Title() string   { return fmt.Sprintf("Year %4d", y.Year) }
func (y Year) checkOpen() bool { return true }

// Tag keeps the transactions carrying at least one of Tags.
type Tag struct {
	Tags []string
}

func (f Tag) Apply(entries []ast.Directive, _ *ledger.Config) ([]ast.Directive, int, bool) {
	var filtered []ast.Directive
	for _, txn := range ast.Transactions(entries) {
		if txn.HasAnyTag(f.Tags) {
			filtered = append(filtered, txn)
		}
	}
	return filtered, 0, false
}

func (f Tag) Title() string {
	quoted := make([]string, len(f.Tags))
	for i, tag := range f.Tags {
		quoted[i] = fmt.Sprintf("%q", tag)
	}
	return "Tag " + strings.Join(quoted, ", ")
}

func (Tag) checkOpen() bool { return false }

// Payee keeps the transactions of one payee.
type Payee struct {
	Payee string
}

func (f Payee) Apply(entries []ast.Directive, _ *ledger.Config) ([]ast.Directive, int, bool) {
	var filtered []ast.Directive
	for _, txn := range ast.Transactions(entries) {
		if txn.Payee == f.Payee {
			filtered = append(filtered, txn)
		}
	}
	return filtered, 0, false
}

func (f Payee) Title() string { return fmt.Sprintf("Payee %q", f.Payee) }
func (Payee) checkOpen() bool { return false }
