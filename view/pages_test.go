package view

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/beanreport/ast"
)

func TestBalanceSheet(t *testing.T) {
	page := mustView(t, All{}).BalanceSheet()

	assert.Equal(t, "All Transactions", page.View)
	assert.Equal(t, PageBalanceSheet, page.Page)
	assert.Equal(t, 3, len(page.Tables))

	assets := page.Tables[0]
	assert.Equal(t, "Assets", assets.Root)
	assert.Equal(t, []string{"Account", "USD", "Other"}, assets.Header)
	assert.Equal(t, []TreeRow{
		{Account: "Assets", Depth: 0, IsParent: true, Amounts: []string{"2,250.00"}},
		{Account: "Assets:Bank", Depth: 1, Amounts: []string{"2,250.00"}},
	}, assets.Rows)

	liabilities := page.Tables[1]
	assert.Equal(t, []TreeRow{
		{Account: "Liabilities", Depth: 0, IsParent: true, Amounts: []string{""}},
	}, liabilities.Rows)

	equity := page.Tables[2]
	assert.Equal(t, []TreeRow{
		{Account: "Equity", Depth: 0, IsParent: true, Amounts: []string{"-2,250.00"}},
		{Account: "Equity:Earnings", Depth: 1, IsParent: true, Amounts: []string{"-2,250.00"}},
		{Account: "Equity:Earnings:Current", Depth: 2, Amounts: []string{"-2,250.00"}},
	}, equity.Rows)
}

func TestOpeningBalances(t *testing.T) {
	// Year 2019 holds the first entries, so nothing is summarized before it.
	for _, filter := range []Filter{All{}, Year{Year: 2019}} {
		page := mustView(t, filter).OpeningBalances()
		assert.Equal(t, 3, len(page.Tables))
		for _, table := range page.Tables {
			assert.Equal(t, 0, len(table.Rows))
			assert.Equal(t, []string{"Account", "USD", "Other"}, table.Header)
		}
	}

	page := mustView(t, Year{Year: 2020}).OpeningBalances()
	assert.Equal(t, TreeRow{Account: "Assets:Bank", Depth: 1, Amounts: []string{"900.00"}}, page.Tables[0].Rows[1])
}

func TestIncomeStatement(t *testing.T) {
	page := mustView(t, Year{Year: 2020}).IncomeStatement()

	assert.Equal(t, 2, len(page.Tables))
	assert.Equal(t, []TreeRow{
		{Account: "Income", Depth: 0, IsParent: true, Amounts: []string{"-1,000.00"}},
		{Account: "Income:Salary", Depth: 1, Amounts: []string{"-1,000.00"}},
	}, page.Tables[0].Rows)
	assert.Equal(t, []TreeRow{
		{Account: "Expenses", Depth: 0, IsParent: true, Amounts: []string{"500.00"}},
		{Account: "Expenses:Food", Depth: 1, Amounts: []string{"200.00"}},
		{Account: "Expenses:Travel", Depth: 1, Amounts: []string{"300.00"}},
	}, page.Tables[1].Rows)
	assert.Equal(t, []string{"-500.00 USD"}, page.NetIncome)
}

func TestTrialBalance(t *testing.T) {
	page := mustView(t, Payee{Payee: "Grocer"}).TrialBalance()

	assert.Equal(t, 1, len(page.Tables))
	var accounts []string
	for _, row := range page.Tables[0].Rows {
		accounts = append(accounts, row.Account)
	}
	assert.Equal(t, []string{"Assets", "Assets:Bank", "Equity", "Expenses", "Expenses:Food", "Income", "Liabilities"}, accounts)
}

func TestJournal(t *testing.T) {
	v := mustView(t, All{})

	page, err := v.Journal("Assets:Bank", nil)
	assert.NoError(t, err)
	assert.Equal(t, "Assets:Bank", page.Account)
	assert.Equal(t, 8, len(page.Entries))

	first := page.Entries[0]
	assert.Equal(t, "2019-01-01", first.Date)
	assert.Equal(t, "Open", first.Kind)
	assert.Equal(t, "Open Assets:Bank", first.Description)

	salary := page.Entries[1]
	assert.Equal(t, "Transaction", salary.Kind)
	assert.Equal(t, "Employer | Salary", salary.Description)
	assert.Equal(t, []string{"1,000.00 USD"}, salary.Change)
	assert.Equal(t, []string{"1,000.00 USD"}, salary.Balance)
	assert.Equal(t, []JournalPosting{
		{Account: "Assets:Bank", Units: "1,000.00 USD", Leg: true},
		{Account: "Income:Salary", Units: "-1,000.00 USD"},
	}, salary.Postings)

	assert.Equal(t, []string{"2,250.00 USD"}, page.Entries[7].Balance)

	all, err := v.Journal("", nil)
	assert.NoError(t, err)
	assert.True(t, len(all.Entries) > len(page.Entries))

	_, err = v.Journal("Assets:Nowhere", nil)
	assert.IsError(t, err, ErrUnknownAccount)
}

func TestJournalTransferRows(t *testing.T) {
	v := mustView(t, Year{Year: 2020})

	page, err := v.Journal("Equity", nil)
	assert.NoError(t, err)

	var kinds []string
	for _, entry := range page.Entries {
		if entry.Kind != "Open" {
			kinds = append(kinds, entry.Kind)
		}
	}
	assert.Equal(t, []string{"Summarize", "Summarize"}, kinds)
}

func TestConversionsAndPositions(t *testing.T) {
	cost := ast.MustAmount("50 USD")
	price := ast.MustAmount("52 USD")
	buy := ast.NewTransaction(date("2020-04-01"), ast.FlagOK, "Broker", "Buy",
		&ast.Posting{Account: "Assets:Broker", Units: ast.MustAmount("10 HOOL"), Cost: &ast.Cost{Amount: cost}, Price: &price},
		ast.NewPosting("Assets:Bank", ast.MustAmount("-500 USD")),
	)
	entries := append(household(), open("2019-01-01", "Assets:Broker"), buy)
	ast.Sort(entries)

	v, err := New(context.Background(), entries, config(), All{})
	assert.NoError(t, err)

	conversions := v.Conversions()
	assert.Equal(t, 1, len(conversions.Entries))
	assert.Equal(t, "Broker | Buy", conversions.Entries[0].Description)
	assert.Equal(t, JournalPosting{Account: "Assets:Broker", Units: "10.00 HOOL", Cost: "50.00 USD", Price: "52.00 USD"}, conversions.Entries[0].Postings[0])
	assert.Equal(t, []string{"10.00 HOOL {50.00 USD}", "-500.00 USD"}, conversions.Total)

	positions := v.Positions()
	assert.Equal(t, []PositionRow{{Units: "10.00 HOOL {50.00 USD}", Cost: "500.00 USD"}}, positions.Positions)

	sheet := v.BalanceSheet()
	assert.Equal(t, TreeRow{Account: "Assets:Broker", Depth: 1, Amounts: []string{"500.00"}}, sheet.Tables[0].Rows[2])
}

func TestPage(t *testing.T) {
	v := mustView(t, All{})
	for _, name := range Pages {
		t.Run(name, func(t *testing.T) {
			page, err := v.Page(name)
			assert.NoError(t, err)
			assert.NotZero(t, page)
		})
	}

	_, err := v.Page("nope")
	assert.IsError(t, err, ErrUnknownPage)
}
