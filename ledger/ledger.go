// Package ledger turns a list of entries into a checked ledger snapshot and
// provides the accounting operations reports are built from: realizing the
// account tree, padding, balance checks, and the transfer and summarization
// steps used to clamp a ledger to a period.
//
// Example usage:
//
//	result, err := loader.New().Load(ctx, "main.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	l := ledger.New()
//	if err := l.Process(ctx, result.Entries, result.Options); err != nil {
//	    var verr *ledger.ValidationErrors
//	    if errors.As(err, &verr) {
//	        for _, e := range verr.Errors {
//	            fmt.Println(e)
//	        }
//	    }
//	}
package ledger

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/telemetry"
)

// Ledger is a processed snapshot: the sorted entries with paddings inserted,
// the configuration parsed from the options, and the validation errors found
// along the way. A Ledger is read-only after Process and safe to share.
type Ledger struct {
	entries []ast.Directive
	config  *Config
	errors  []error
	failed  map[*ast.Balance]bool
}

// New creates a new empty ledger
func New() *Ledger {
	return &Ledger{
		config: NewConfig(),
		failed: make(map[*ast.Balance]bool),
	}
}

// Process builds the snapshot from entries and options. Invalid options are
// fatal and leave the ledger empty. Validation errors (unknown or closed
// accounts, failed balance assertions, unused pads) are collected and
// returned together as *ValidationErrors; the snapshot is still usable.
func (l *Ledger) Process(ctx context.Context, entries []ast.Directive, options map[string][]string) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.process (%d entries)", len(entries)))
	defer timer.End()
	ctx = telemetry.WithTimer(ctx, timer)

	if err := ctx.Err(); err != nil {
		return err
	}

	config, err := ConfigFromOptions(options)
	if err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	sorted := slices.Clone(entries)
	ast.Sort(sorted)

	padTimer := telemetry.StartTimer(ctx, "ledger.pad")
	padded, errs := Pad(sorted)
	padTimer.End()

	if err := ctx.Err(); err != nil {
		return err
	}

	realizeTimer := telemetry.StartTimer(ctx, "ledger.realize")
	_, err = Realize(padded, config.AccountTypes, WithOpenChecks())
	realizeTimer.End()
	var verr *ValidationErrors
	if errors.As(err, &verr) {
		errs = append(errs, verr.Errors...)
	} else if err != nil {
		return err
	}

	checkTimer := telemetry.StartTimer(ctx, "ledger.check_balances")
	failed := make(map[*ast.Balance]bool)
	for _, err := range CheckBalances(padded) {
		var mismatch *BalanceMismatchError
		if errors.As(err, &mismatch) {
			failed[mismatch.Entry] = true
		}
		errs = append(errs, err)
	}
	checkTimer.End()

	l.entries = padded
	l.config = config
	l.errors = errs
	l.failed = failed

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// Entries returns the sorted entries, paddings included.
func (l *Ledger) Entries() []ast.Directive {
	return l.entries
}

// Config returns the configuration parsed from the options.
func (l *Ledger) Config() *Config {
	return l.config
}

// Errors returns all collected errors
func (l *Ledger) Errors() []error {
	return l.errors
}

// BalanceFailed reports whether the balance assertion did not hold.
func (l *Ledger) BalanceFailed(b *ast.Balance) bool {
	return l.failed[b]
}
