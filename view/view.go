// Package view builds the filtered projections of a ledger that the reports
// are computed from, and caches them per scope.
//
// A View realizes three account trees: the opening balances (for views with
// an opening boundary), the main tree of the filtered entries, and the closing
// tree in which the income and expenses of the period have been transferred
// to the net income account.
package view

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/ledger"
	"github.com/robinvdvleuten/beanreport/telemetry"
)

// View is an immutable, filtered projection of a ledger. It is safe for
// concurrent use.
type View struct {
	allEntries []ast.Directive
	config     *ledger.Config
	filter     Filter

	entries        []ast.Directive
	openingEntries []ast.Directive
	closingEntries []ast.Directive

	openingRealAccounts *ledger.RealAccount
	realAccounts        *ledger.RealAccount
	closingRealAccounts *ledger.RealAccount
}

// New builds the view of entries selected by filter. entries must be sorted
// and are never modified. A failure to realize any of the trees is returned
// and no view is built.
func New(ctx context.Context, entries []ast.Directive, config *ledger.Config, filter Filter) (*View, error) {
	timer := telemetry.StartTimer(ctx, "view "+filter.Title())
	defer timer.End()
	ctx = telemetry.WithTimer(ctx, timer)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v := &View{allEntries: entries, config: config, filter: filter}

	filterTimer := telemetry.StartTimer(ctx, "view.filter")
	filtered, boundary, hasBoundary := filter.Apply(entries, config)
	filterTimer.End()

	v.entries = filtered
	if hasBoundary && boundary > 0 {
		v.openingEntries = append([]ast.Directive{}, filtered[:boundary]...)
	}

	closeTimer := telemetry.StartTimer(ctx, "view.close")
	v.closingEntries = ledger.Transfer(filtered, nil, config.AccountTypes.IsIncomeStatement, config.NetIncomeAccount())
	closeTimer.End()

	// Only the filtered ledger entries are validated. The opening and closing
	// trees hold entries synthesized from balances.
	realize := func(name string, entries []ast.Directive, opts ...ledger.RealizeOption) (*ledger.RealAccount, error) {
		t := telemetry.StartTimer(ctx, "view.realize "+name)
		defer t.End()
		root, err := ledger.Realize(entries, config.AccountTypes, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %s entries: %w", filter.Title(), name, err)
		}
		return root, nil
	}

	var errs error
	var err error
	if v.openingEntries != nil {
		v.openingRealAccounts, err = realize("opening", v.openingEntries)
		errs = multierr.Append(errs, err)
	}
	var checks []ledger.RealizeOption
	if filter.checkOpen() {
		checks = append(checks, ledger.WithOpenChecks())
	}
	v.realAccounts, err = realize("main", v.entries, checks...)
	errs = multierr.Append(errs, err)
	v.closingRealAccounts, err = realize("closing", v.closingEntries)
	errs = multierr.Append(errs, err)

	if errs != nil {
		return nil, errs
	}
	return v, nil
}

// Title names the view.
func (v *View) Title() string { return v.filter.Title() }

// Filter returns the filter the view was built with.
func (v *View) Filter() Filter { return v.filter }

// Config returns the ledger configuration.
func (v *View) Config() *ledger.Config { return v.config }

// AllEntries returns the unfiltered ledger entries.
func (v *View) AllEntries() []ast.Directive { return v.allEntries }

// Entries returns the filtered entries, opening entries included.
func (v *View) Entries() []ast.Directive { return v.entries }

// OpeningEntries returns the synthesized opening entries, nil when the view
// has no opening boundary.
func (v *View) OpeningEntries() []ast.Directive { return v.openingEntries }

// ClosingEntries returns the entries with the net income transfer appended.
func (v *View) ClosingEntries() []ast.Directive { return v.closingEntries }

// OpeningRealAccounts returns the opening balances tree, nil when the view has
// no opening boundary.
func (v *View) OpeningRealAccounts() *ledger.RealAccount { return v.openingRealAccounts }

// RealAccounts returns the tree of the filtered entries.
func (v *View) RealAccounts() *ledger.RealAccount { return v.realAccounts }

// ClosingRealAccounts returns the tree after the net income transfer.
func (v *View) ClosingRealAccounts() *ledger.RealAccount { return v.closingRealAccounts }
