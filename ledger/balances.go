package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beanreport/ast"
)

// runningBalances tracks the inventory of every account while walking a
// sorted entry list.
type runningBalances map[ast.Account]*Inventory

func (b runningBalances) add(txn *ast.Transaction) {
	for _, posting := range txn.Postings {
		inv, ok := b[posting.Account]
		if !ok {
			inv = NewInventory()
			b[posting.Account] = inv
		}
		inv.AddPosition(posting.Position())
	}
}

// units returns the number of currency held by account and its descendants.
func (b runningBalances) units(account ast.Account, currency string) decimal.Decimal {
	total := decimal.Zero
	for name, inv := range b {
		if name.HasPrefix(account) {
			total = total.Add(inv.Units(currency))
		}
	}
	return total
}
