package report

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/ledger"
)

// AllTags returns the sorted tags used by transactions.
func AllTags(entries []ast.Directive) []string {
	tags := make(map[string]bool)
	for _, txn := range ast.Transactions(entries) {
		for _, tag := range txn.Tags {
			tags[tag] = true
		}
	}
	return sortedKeys(tags)
}

// AllPayees returns the sorted non-empty payees of transactions.
func AllPayees(entries []ast.Directive) []string {
	payees := make(map[string]bool)
	for _, txn := range ast.Transactions(entries) {
		if txn.Payee != "" {
			payees[txn.Payee] = true
		}
	}
	return sortedKeys(payees)
}

// ActiveYears returns, in ascending order, the years with at least one entry.
func ActiveYears(entries []ast.Directive) []int {
	years := make(map[int]bool)
	for _, entry := range entries {
		years[ast.DateOf(entry).Year()] = true
	}
	result := maps.Keys(years)
	slices.Sort(result)
	return result
}

func sortedKeys(set map[string]bool) []string {
	keys := maps.Keys(set)
	slices.Sort(keys)
	return keys
}

// Conversions lists the transactions with a priced posting and their total.
type Conversions struct {
	Transactions []*ast.Transaction
	Total        *ledger.Inventory
}

// ConversionEntries returns the transactions that convert between currencies
// with the sum of their postings. A balanced ledger converts back and forth to
// a total that only holds the differences between prices.
func ConversionEntries(entries []ast.Directive) Conversions {
	var txns []*ast.Transaction
	var converted []ast.Directive
	for _, txn := range ast.Transactions(entries) {
		if txn.HasConversion() {
			txns = append(txns, txn)
			converted = append(converted, txn)
		}
	}
	return Conversions{Transactions: txns, Total: ledger.TotalBalance(converted)}
}

// HeldPosition is a position held at cost, or with an acquisition date.
type HeldPosition struct {
	Position ast.Position
	Cost     ast.Amount
}

// Positions returns the positions of the total balance of entries that carry a
// cost or a lot date, with their total cost.
func Positions(entries []ast.Directive) []HeldPosition {
	var held []HeldPosition
	for _, pos := range ledger.TotalBalance(entries).Positions() {
		if pos.Lot.Cost == nil && pos.Lot.Date == nil {
			continue
		}
		held = append(held, HeldPosition{Position: pos, Cost: pos.Cost()})
	}
	return held
}
