package report

import (
	"errors"
	"fmt"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/ledger"
)

// ErrOrphanPosting is returned when a posting without a parent transaction is
// iterated.
var ErrOrphanPosting = errors.New("posting has no parent transaction")

// BalanceRow is one record of a BalanceIterator.
type BalanceRow struct {
	// Entry is the directive of the row. Postings are reported through their
	// parent transaction.
	Entry ast.Directive

	// Postings are the postings of Entry that were part of the input, in
	// input order. Nil when the input item was a directive.
	Postings []*ast.Posting

	// Change is the sum of Postings, nil when Postings is nil.
	Change *ledger.Inventory

	// Balance is the running balance after this row.
	Balance *ledger.Inventory
}

type bucketEntry struct {
	entry    ast.Directive
	postings []*ast.Posting
}

// BalanceIterator walks date ordered items accumulating the balance of their
// postings. Items sharing a date are grouped so that several postings of one
// transaction produce a single row. Use it like a bufio.Scanner:
//
//	it := report.IterateWithBalance(ledger.SubPostings(account))
//	for it.Next() {
//	    row := it.Row()
//	    ...
//	}
//	if err := it.Err(); err != nil {
//	    ...
//	}
//
// An iterator is single pass.
type BalanceIterator struct {
	items   []ast.Item
	next    int
	balance *ledger.Inventory

	bucket     []bucketEntry
	bucketDate ast.Date
	index      map[*ast.Transaction]int

	rows []BalanceRow
	row  BalanceRow
	err  error
}

// IterateWithBalance returns an iterator over items. Items must be in date
// order; out of order input yields rows but no meaningful balances.
func IterateWithBalance(items []ast.Item) *BalanceIterator {
	return &BalanceIterator{
		items:   items,
		balance: ledger.NewInventory(),
		index:   make(map[*ast.Transaction]int),
	}
}

// Next advances to the next row. It returns false at the end of the input or
// when an error stopped the iteration.
func (it *BalanceIterator) Next() bool {
	if len(it.rows) == 0 && it.err == nil {
		it.fill()
	}
	if len(it.rows) == 0 {
		it.row = BalanceRow{}
		return false
	}
	it.row = it.rows[0]
	it.rows = it.rows[1:]
	return true
}

// Row returns the current row.
func (it *BalanceIterator) Row() BalanceRow {
	return it.row
}

// Err returns the error that stopped the iteration, if any.
func (it *BalanceIterator) Err() error {
	return it.err
}

// fill buffers the items of the next date and flushes them into rows.
func (it *BalanceIterator) fill() {
	for it.next < len(it.items) {
		item := it.items[it.next]

		var entry ast.Directive
		var posting *ast.Posting
		switch item := item.(type) {
		case *ast.Posting:
			if item.Parent() == nil {
				it.err = fmt.Errorf("%w: %s %s", ErrOrphanPosting, item.Account, item.Units)
				it.bucket = nil
				return
			}
			entry, posting = item.Parent(), item
		case ast.Directive:
			entry = item
		}

		date := ast.DateOf(entry)
		if len(it.bucket) > 0 && !date.Equal(it.bucketDate) {
			break
		}
		it.bucketDate = date
		it.next++

		if posting == nil {
			it.bucket = append(it.bucket, bucketEntry{entry: entry})
			continue
		}
		txn := posting.Parent()
		if i, ok := it.index[txn]; ok {
			it.bucket[i].postings = append(it.bucket[i].postings, posting)
			continue
		}
		it.index[txn] = len(it.bucket)
		it.bucket = append(it.bucket, bucketEntry{entry: entry, postings: []*ast.Posting{posting}})
	}
	it.flush()
}

func (it *BalanceIterator) flush() {
	for _, b := range it.bucket {
		row := BalanceRow{Entry: b.entry, Postings: b.postings}
		if b.postings != nil {
			row.Change = ledger.NewInventory()
			for _, posting := range b.postings {
				row.Change.AddPosition(posting.Position())
				it.balance.AddPosition(posting.Position())
			}
		}
		row.Balance = it.balance.Clone()
		it.rows = append(it.rows, row)
	}
	it.bucket = it.bucket[:0]
	clear(it.index)
}

// CollectWithBalance runs an iterator over items to completion.
func CollectWithBalance(items []ast.Item) ([]BalanceRow, error) {
	var rows []BalanceRow
	it := IterateWithBalance(items)
	for it.Next() {
		rows = append(rows, it.Row())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
