package view

import (
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/ledger"
)

func date(s string) ast.Date { return ast.MustDate(s) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func open(d string, account ast.Account) *ast.Open {
	return &ast.Open{Date: date(d), Account: account}
}

func txn(d, payee, narration string, tags []string, to, from ast.Account, amt string) *ast.Transaction {
	a := ast.MustAmount(amt)
	t := ast.NewTransaction(date(d), ast.FlagOK, payee, narration,
		ast.NewPosting(to, a),
		ast.NewPosting(from, a.Neg()),
	)
	t.Tags = tags
	return t
}

// household is a ledger spanning 2019 to 2021.
func household() []ast.Directive {
	entries := []ast.Directive{
		open("2019-01-01", "Assets:Bank"),
		open("2019-01-01", "Income:Salary"),
		open("2019-01-01", "Expenses:Food"),
		open("2019-01-01", "Expenses:Travel"),
		txn("2019-02-01", "Employer", "Salary", nil, "Assets:Bank", "Income:Salary", "1000 USD"),
		txn("2019-03-01", "Grocer", "Groceries", nil, "Expenses:Food", "Assets:Bank", "100 USD"),
		txn("2020-02-01", "Employer", "Salary", nil, "Assets:Bank", "Income:Salary", "1000 USD"),
		txn("2020-03-01", "Grocer", "Groceries", nil, "Expenses:Food", "Assets:Bank", "200 USD"),
		txn("2020-07-01", "Airline", "Flight", []string{"trip 2020"}, "Expenses:Travel", "Assets:Bank", "300 USD"),
		&ast.Note{Date: date("2020-07-02"), Account: "Expenses:Travel", Comment: "window seat"},
		txn("2021-02-01", "Employer", "Salary", nil, "Assets:Bank", "Income:Salary", "1000 USD"),
		txn("2021-07-01", "Hotel", "Room", []string{"trip 2021"}, "Expenses:Travel", "Assets:Bank", "150 USD"),
	}
	ast.Sort(entries)
	return entries
}

func config() *ledger.Config {
	cfg := ledger.NewConfig()
	cfg.OperatingCurrencies = []string{"USD"}
	return cfg
}
