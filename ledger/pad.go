package ledger

import (
	"fmt"

	"github.com/robinvdvleuten/beanreport/ast"
)

// Pad inserts a padding transaction after every Pad directive for each
// currency of the first balance assertion that follows it on the padded
// account. The padding brings the account to the asserted amount from the
// pad's source account. Pads that never produce a padding are reported as
// *UnusedPadError.
//
// Entries must be sorted. The input is not modified.
func Pad(entries []ast.Directive) ([]ast.Directive, []error) {
	balances := make(runningBalances)
	active := make(map[ast.Account]*ast.Pad)
	padded := make(map[*ast.Pad]map[string]bool)
	insertions := make(map[*ast.Pad][]ast.Directive)
	var pads []*ast.Pad

	for _, entry := range entries {
		switch e := entry.(type) {
		case *ast.Transaction:
			balances.add(e)

		case *ast.Pad:
			active[e.Account] = e
			padded[e] = make(map[string]bool)
			pads = append(pads, e)

		case *ast.Balance:
			pad, ok := active[e.Account]
			if !ok || padded[pad][e.Amount.Currency] {
				continue
			}
			// One padding per currency; later assertions are checked as is.
			diff := e.Amount.Number.Sub(balances.units(e.Account, e.Amount.Currency))
			if diff.IsZero() {
				continue
			}
			amount := ast.Amount{Number: diff, Currency: e.Amount.Currency}
			txn := ast.NewTransaction(pad.Date, ast.FlagPadding, "",
				fmt.Sprintf("(Padding inserted for Balance of %s for difference %s)", e.Amount, amount),
				ast.NewPosting(pad.Account, amount),
				ast.NewPosting(pad.Source, amount.Neg()),
			)
			txn.Pos = pad.Pos
			balances.add(txn)
			insertions[pad] = append(insertions[pad], txn)
			padded[pad][e.Amount.Currency] = true
		}
	}

	var errs []error
	for _, pad := range pads {
		if len(padded[pad]) == 0 {
			errs = append(errs, &UnusedPadError{Entry: pad})
		}
	}

	if len(insertions) == 0 {
		return entries, errs
	}

	result := make([]ast.Directive, 0, len(entries)+len(insertions))
	for _, entry := range entries {
		result = append(result, entry)
		if pad, ok := entry.(*ast.Pad); ok {
			result = append(result, insertions[pad]...)
		}
	}
	return result, errs
}
