package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beanreport/ast"
)

func date(s string) ast.Date { return ast.MustDate(s) }

func amount(s string) ast.Amount { return ast.MustAmount(s) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func open(d string, account ast.Account) *ast.Open {
	return &ast.Open{Date: date(d), Account: account}
}

func closeAccount(d string, account ast.Account) *ast.Close {
	return &ast.Close{Date: date(d), Account: account}
}

func balance(d string, account ast.Account, amt string) *ast.Balance {
	return &ast.Balance{Date: date(d), Account: account, Amount: amount(amt)}
}

func pad(d string, account, source ast.Account) *ast.Pad {
	return &ast.Pad{Date: date(d), Account: account, Source: source}
}

func price(d, currency, amt string) *ast.Price {
	return &ast.Price{Date: date(d), Currency: currency, Amount: amount(amt)}
}

// txn builds a transaction moving amt from the second account to the first.
func txn(d, narration string, to, from ast.Account, amt string) *ast.Transaction {
	a := amount(amt)
	return ast.NewTransaction(date(d), ast.FlagOK, "", narration,
		ast.NewPosting(to, a),
		ast.NewPosting(from, a.Neg()),
	)
}

// atCost returns a posting of units held at a per-unit cost.
func atCost(account ast.Account, units, cost string) *ast.Posting {
	p := ast.NewPosting(account, amount(units))
	p.Cost = &ast.Cost{Amount: amount(cost)}
	return p
}

func sorted(entries ...ast.Directive) []ast.Directive {
	ast.Sort(entries)
	return entries
}
