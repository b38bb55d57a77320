package ledger

import (
	"github.com/robinvdvleuten/beanreport/ast"
)

// CheckBalances verifies every balance assertion against the units held by
// the asserted account and its descendants at the beginning of the
// assertion's date. Failures are returned as *BalanceMismatchError in entry
// order.
//
// Entries must be sorted, which places assertions before the transactions of
// their day.
func CheckBalances(entries []ast.Directive) []error {
	balances := make(runningBalances)
	var errs []error

	for _, entry := range entries {
		switch e := entry.(type) {
		case *ast.Transaction:
			balances.add(e)
		case *ast.Balance:
			actual := balances.units(e.Account, e.Amount.Currency)
			if !actual.Equal(e.Amount.Number) {
				errs = append(errs, &BalanceMismatchError{
					Expected: e.Amount,
					Actual:   ast.Amount{Number: actual, Currency: e.Amount.Currency},
					Entry:    e,
				})
			}
		}
	}
	return errs
}
