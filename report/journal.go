package report

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/ledger"
)

// Row kinds of a journal beyond the entry kinds.
const (
	RowTransaction = "Transaction"
	RowPadding     = "Padding"
	RowSummarize   = "Summarize"
	RowTransfer    = "Transfer"
	RowCheckFail   = "CheckFail"
)

var flagRowKinds = map[string]string{
	ast.FlagPadding:   RowPadding,
	ast.FlagSummarize: RowSummarize,
	ast.FlagTransfer:  RowTransfer,
}

// JournalRow is one line of an account journal.
type JournalRow struct {
	Date        ast.Date
	Kind        string
	Flag        string
	Warning     bool
	Description string
	Change      *ledger.Inventory
	Balance     *ledger.Inventory
	Postings    []JournalPosting
	Entry       ast.Directive
}

// JournalPosting is a posting of a transaction row. Leg marks the postings
// that belong to the journal's account.
type JournalPosting struct {
	Account ast.Account
	Units   ast.Amount
	Cost    *ast.Cost
	Price   *ast.Amount
	Weight  ast.Amount
	Flag    string
	Warning bool
	Leg     bool
}

// Journal builds the rows of items with running balances. failed reports
// balance assertions that did not hold and may be nil.
func Journal(items []ast.Item, failed func(*ast.Balance) bool) ([]JournalRow, error) {
	balanceRows, err := CollectWithBalance(items)
	if err != nil {
		return nil, err
	}

	rows := make([]JournalRow, len(balanceRows))
	for i, br := range balanceRows {
		row := JournalRow{
			Date:    ast.DateOf(br.Entry),
			Kind:    br.Entry.Kind().String(),
			Change:  br.Change,
			Balance: br.Balance,
			Entry:   br.Entry,
		}

		switch e := br.Entry.(type) {
		case *ast.Transaction:
			row.Kind = RowTransaction
			if kind, ok := flagRowKinds[e.Flag]; ok {
				row.Kind = kind
			}
			row.Flag = e.Flag
			row.Warning = e.Flag == ast.FlagWarning
			row.Description = e.Narration
			if e.Payee != "" {
				row.Description = e.Payee + " | " + e.Narration
			}
			row.Postings = journalPostings(e, br.Postings)
		case *ast.Balance:
			if failed != nil && failed(e) {
				row.Kind = RowCheckFail
			}
			row.Description = fmt.Sprintf("Check %s has %s", e.Account, e.Amount)
		case *ast.Open:
			row.Description = "Open " + string(e.Account)
		case *ast.Close:
			row.Description = "Close " + string(e.Account)
		case *ast.Pad:
			row.Description = fmt.Sprintf("Pad %s from %s", e.Account, e.Source)
		case *ast.Note:
			row.Description = e.Comment
		case *ast.Event:
			row.Description = e.Type + ": " + e.Description
		case *ast.Price:
			row.Description = fmt.Sprintf("Price %s in %s", e.Currency, e.Amount)
		}
		rows[i] = row
	}
	return rows, nil
}

func journalPostings(txn *ast.Transaction, legs []*ast.Posting) []JournalPosting {
	postings := make([]JournalPosting, len(txn.Postings))
	for i, p := range txn.Postings {
		postings[i] = JournalPosting{
			Account: p.Account,
			Units:   p.Units,
			Cost:    p.Cost,
			Price:   p.Price,
			Weight:  p.Weight(),
			Flag:    p.Flag,
			Warning: p.Flag == ast.FlagWarning,
			Leg:     slices.Contains(legs, p),
		}
	}
	return postings
}

// EntryItems converts directives into journal items.
func EntryItems[D ast.Directive](entries []D) []ast.Item {
	items := make([]ast.Item, len(entries))
	for i, entry := range entries {
		items[i] = entry
	}
	return items
}
