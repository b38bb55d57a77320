package report

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

func txn(d, payee, narration string, postings ...*ast.Posting) *ast.Transaction {
	return ast.NewTransaction(date(d), ast.FlagOK, payee, narration, postings...)
}

func posting(account ast.Account, amt string) *ast.Posting {
	return ast.NewPosting(account, amount(amt))
}
