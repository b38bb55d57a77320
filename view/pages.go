package view

import (
	"errors"
	"fmt"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/ledger"
	"github.com/robinvdvleuten/beanreport/report"
)

// Page names, the last path segment of a report.
const (
	PageBalanceSheet    = "balsheet"
	PageOpeningBalances = "openbal"
	PageIncome          = "income"
	PageTrial           = "trial"
	PageConversions     = "conversions"
	PagePositions       = "positions"
	PageJournal         = "journal"
)

// Pages lists the pages Page renders, in menu order.
var Pages = []string{
	PageBalanceSheet,
	PageOpeningBalances,
	PageIncome,
	PageTrial,
	PageConversions,
	PagePositions,
}

var (
	// ErrUnknownPage is returned for page names Page does not render.
	ErrUnknownPage = errors.New("unknown page")

	// ErrUnknownAccount is returned for journals of accounts the view does
	// not contain.
	ErrUnknownAccount = errors.New("unknown account")
)

// TreeRow is an account line of a balance table with formatted amounts.
type TreeRow struct {
	Account  string   `json:"account"`
	Depth    int      `json:"depth"`
	IsParent bool     `json:"is_parent,omitempty"`
	Amounts  []string `json:"amounts"`
	Other    []string `json:"other,omitempty"`
}

// TreeTable is the balance table of one account subtree.
type TreeTable struct {
	Root   string    `json:"root"`
	Header []string  `json:"header"`
	Rows   []TreeRow `json:"rows"`
}

// TreePage is a page made of balance tables.
type TreePage struct {
	View   string      `json:"view"`
	Page   string      `json:"page"`
	Tables []TreeTable `json:"tables"`

	// NetIncome is the total of the income statement, set on the income
	// page only.
	NetIncome []string `json:"net_income,omitempty"`
}

// JournalPosting is a formatted posting of a journal entry.
type JournalPosting struct {
	Account string `json:"account"`
	Flag    string `json:"flag,omitempty"`
	Units   string `json:"units"`
	Cost    string `json:"cost,omitempty"`
	Price   string `json:"price,omitempty"`
	Leg     bool   `json:"leg,omitempty"`
}

// JournalEntry is a formatted journal row.
type JournalEntry struct {
	Date        string           `json:"date"`
	Kind        string           `json:"kind"`
	Flag        string           `json:"flag,omitempty"`
	Warning     bool             `json:"warning,omitempty"`
	Description string           `json:"description"`
	Location    string           `json:"location,omitempty"`
	Change      []string         `json:"change,omitempty"`
	Balance     []string         `json:"balance"`
	Postings    []JournalPosting `json:"postings,omitempty"`
}

// JournalPage is the journal of an account and its descendants.
type JournalPage struct {
	View    string         `json:"view"`
	Account string         `json:"account"`
	Entries []JournalEntry `json:"entries"`
}

// ConversionEntry is a transaction converting between currencies.
type ConversionEntry struct {
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Postings    []JournalPosting `json:"postings"`
}

// ConversionsPage lists the conversions of a view and their total.
type ConversionsPage struct {
	View    string            `json:"view"`
	Page    string            `json:"page"`
	Entries []ConversionEntry `json:"entries"`
	Total   []string          `json:"total"`
}

// PositionRow is a position held at cost.
type PositionRow struct {
	Units string `json:"units"`
	Cost  string `json:"cost"`
}

// PositionsPage lists the positions held at cost at the end of a view.
type PositionsPage struct {
	View      string        `json:"view"`
	Page      string        `json:"page"`
	Positions []PositionRow `json:"positions"`
}

// Page renders one of Pages.
func (v *View) Page(name string) (any, error) {
	switch name {
	case PageBalanceSheet:
		return v.BalanceSheet(), nil
	case PageOpeningBalances:
		return v.OpeningBalances(), nil
	case PageIncome:
		return v.IncomeStatement(), nil
	case PageTrial:
		return v.TrialBalance(), nil
	case PageConversions:
		return v.Conversions(), nil
	case PagePositions:
		return v.Positions(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPage, name)
}

// BalanceSheet shows the balance sheet accounts of the closing tree, where
// the income of the period appears as net income under equity.
func (v *View) BalanceSheet() *TreePage {
	types := v.config.AccountTypes
	return v.treePage(PageBalanceSheet, v.closingRealAccounts, types.Assets, types.Liabilities, types.Equity)
}

// OpeningBalances shows the balance sheet at the start of the view. Views
// without an opening boundary have empty tables.
func (v *View) OpeningBalances() *TreePage {
	types := v.config.AccountTypes
	return v.treePage(PageOpeningBalances, v.openingRealAccounts, types.Assets, types.Liabilities, types.Equity)
}

// IncomeStatement shows the income and expenses of the view.
func (v *View) IncomeStatement() *TreePage {
	types := v.config.AccountTypes
	page := v.treePage(PageIncome, v.realAccounts, types.Income, types.Expenses)

	total := ledger.NewInventory()
	for _, root := range []string{types.Income, types.Expenses} {
		if node, ok := v.realAccounts.Get(ast.Account(root)); ok {
			total.AddInventory(node.Balance.Cost())
		}
	}
	page.NetIncome = report.FormatPositions(total)
	return page
}

// TrialBalance shows every account of the view.
func (v *View) TrialBalance() *TreePage {
	return v.treePage(PageTrial, v.realAccounts, "")
}

func (v *View) treePage(name string, root *ledger.RealAccount, starts ...string) *TreePage {
	page := &TreePage{View: v.Title(), Page: name, Tables: make([]TreeTable, len(starts))}
	currencies := v.config.OperatingCurrencies
	for i, start := range starts {
		var table report.BalanceTable
		if root != nil {
			table = report.TableOfBalances(root, ast.Account(start), currencies, v.config.AccountTypes)
		} else {
			table.Header = append(append([]string{"Account"}, currencies...), report.OtherColumn)
		}
		page.Tables[i] = treeTable(start, table, currencies)
	}
	return page
}

func treeTable(root string, table report.BalanceTable, currencies []string) TreeTable {
	rows := make([]TreeRow, len(table.Rows))
	for i, row := range table.Rows {
		amounts := make([]string, len(row.Amounts))
		for j, cell := range row.Amounts {
			amounts[j] = report.FormatCell(cell, currencies[j])
		}
		var other []string
		for _, pos := range row.Other {
			other = append(other, report.FormatPosition(pos))
		}
		rows[i] = TreeRow{
			Account:  string(row.Account),
			Depth:    row.Depth,
			IsParent: row.IsParent,
			Amounts:  amounts,
			Other:    other,
		}
	}
	return TreeTable{Root: root, Header: table.Header, Rows: rows}
}

// Journal lists the activity of account and its descendants with running
// balances. The empty account is the whole tree. failed marks balance
// assertions that did not hold and may be nil.
func (v *View) Journal(account ast.Account, failed func(*ast.Balance) bool) (*JournalPage, error) {
	node, ok := v.realAccounts.Get(account)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAccount, account)
	}

	rows, err := report.Journal(ledger.SubPostings(node), failed)
	if err != nil {
		return nil, err
	}

	page := &JournalPage{View: v.Title(), Account: string(account), Entries: make([]JournalEntry, len(rows))}
	for i, row := range rows {
		entry := JournalEntry{
			Date:        row.Date.String(),
			Kind:        row.Kind,
			Flag:        row.Flag,
			Warning:     row.Warning,
			Description: row.Description,
			Location:    row.Entry.Location().String(),
			Balance:     report.FormatPositions(row.Balance),
		}
		if row.Change != nil {
			entry.Change = report.FormatPositions(row.Change)
		}
		for _, p := range row.Postings {
			entry.Postings = append(entry.Postings, journalPosting(p))
		}
		page.Entries[i] = entry
	}
	return page, nil
}

func journalPosting(p report.JournalPosting) JournalPosting {
	posting := JournalPosting{
		Account: string(p.Account),
		Flag:    p.Flag,
		Units:   report.FormatAmount(p.Units),
		Leg:     p.Leg,
	}
	if p.Cost != nil {
		posting.Cost = report.FormatAmount(p.Cost.Amount)
	}
	if p.Price != nil {
		posting.Price = report.FormatAmount(*p.Price)
	}
	return posting
}

// Conversions lists the transactions of the view that convert between
// currencies.
func (v *View) Conversions() *ConversionsPage {
	conversions := report.ConversionEntries(v.entries)
	page := &ConversionsPage{
		View:    v.Title(),
		Page:    PageConversions,
		Entries: make([]ConversionEntry, len(conversions.Transactions)),
		Total:   report.FormatPositions(conversions.Total),
	}
	for i, txn := range conversions.Transactions {
		entry := ConversionEntry{Date: txn.Date.String(), Description: txn.Narration}
		if txn.Payee != "" {
			entry.Description = txn.Payee + " | " + txn.Narration
		}
		for _, p := range txn.Postings {
			entry.Postings = append(entry.Postings, journalPosting(report.JournalPosting{
				Account: p.Account,
				Units:   p.Units,
				Cost:    p.Cost,
				Price:   p.Price,
				Flag:    p.Flag,
			}))
		}
		page.Entries[i] = entry
	}
	return page
}

// Positions lists the lots held at cost at the end of the view.
func (v *View) Positions() *PositionsPage {
	held := report.Positions(v.entries)
	page := &PositionsPage{View: v.Title(), Page: PagePositions, Positions: make([]PositionRow, len(held))}
	for i, h := range held {
		page.Positions[i] = PositionRow{
			Units: report.FormatPosition(h.Position),
			Cost:  report.FormatAmount(h.Cost),
		}
	}
	return page
}
