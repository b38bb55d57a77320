package ledger

import (
	"fmt"

	"github.com/robinvdvleuten/beanreport/ast"
)

// Error types for structural ledger errors

// ValidationErrors wraps multiple validation errors
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

// location formats "filename:line", falling back to the entry date for
// entries without a source file.
func location(entry ast.Directive) string {
	if pos := entry.Location(); pos.Filename != "" {
		return pos.String()
	}
	return ast.DateOf(entry).String()
}

// AccountNotOpenError is returned when an entry references an account that
// was never opened, or is used before its open date.
type AccountNotOpenError struct {
	Account ast.Account
	Entry   ast.Directive
}

func (e *AccountNotOpenError) Error() string {
	return fmt.Sprintf("%s: Invalid reference to unknown account '%s'", location(e.Entry), e.Account)
}

func (e *AccountNotOpenError) GetPosition() ast.Location { return e.Entry.Location() }
func (e *AccountNotOpenError) GetEntry() ast.Directive   { return e.Entry }
func (e *AccountNotOpenError) GetAccount() ast.Account   { return e.Account }

// AccountClosedError is returned when an entry is dated after the close date
// of an account it references.
type AccountClosedError struct {
	Account    ast.Account
	ClosedDate ast.Date
	Entry      ast.Directive
}

func (e *AccountClosedError) Error() string {
	return fmt.Sprintf("%s: Account %s was closed on %s", location(e.Entry), e.Account, e.ClosedDate)
}

func (e *AccountClosedError) GetPosition() ast.Location { return e.Entry.Location() }
func (e *AccountClosedError) GetEntry() ast.Directive   { return e.Entry }
func (e *AccountClosedError) GetAccount() ast.Account   { return e.Account }

// BalanceMismatchError is returned when a balance assertion does not hold.
type BalanceMismatchError struct {
	Expected ast.Amount
	Actual   ast.Amount
	Entry    *ast.Balance
}

func (e *BalanceMismatchError) Error() string {
	diff := e.Actual.Number.Sub(e.Expected.Number)
	return fmt.Sprintf("%s: Balance failed for '%s': expected %s != accumulated %s (%s too %s)",
		location(e.Entry), e.Entry.Account, e.Expected, e.Actual, diff.Abs(), moreOrLess(diff.IsPositive()))
}

func moreOrLess(more bool) string {
	if more {
		return "much"
	}
	return "little"
}

func (e *BalanceMismatchError) GetPosition() ast.Location { return e.Entry.Pos }
func (e *BalanceMismatchError) GetEntry() ast.Directive   { return e.Entry }
func (e *BalanceMismatchError) GetAccount() ast.Account   { return e.Entry.Account }

// UnusedPadError is returned for a pad that no balance assertion consumed.
type UnusedPadError struct {
	Entry *ast.Pad
}

func (e *UnusedPadError) Error() string {
	return fmt.Sprintf("%s: Unused Pad entry for '%s'", location(e.Entry), e.Entry.Account)
}

func (e *UnusedPadError) GetPosition() ast.Location { return e.Entry.Pos }
func (e *UnusedPadError) GetEntry() ast.Directive   { return e.Entry }
func (e *UnusedPadError) GetAccount() ast.Account   { return e.Entry.Account }
