package report

import (
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/ledger"
)

// OtherColumn is the header of the residual column of a balance table.
const OtherColumn = "Other"

// BalanceTable is the table of balances of an account subtree.
type BalanceTable struct {
	// Header is "Account", the operating currencies, then OtherColumn.
	Header []string
	Rows   []TableRow
}

// TableRow is one account of a BalanceTable.
type TableRow struct {
	Account ast.Account

	// Depth is the distance from the table's start account, which has depth 0.
	Depth int

	// IsParent marks nodes that were never opened and only group children.
	IsParent bool

	// Amounts holds the balance at cost in each operating currency, in header
	// order. Invalid entries have no position in that currency.
	Amounts []decimal.NullDecimal

	// Other holds the positions not shown in an operating currency column.
	Other []ast.Position

	Node *ledger.RealAccount
}

// isActive reports whether an account has activity besides its Open.
func isActive(ra *ledger.RealAccount) bool {
	for _, item := range ra.Postings {
		if _, ok := item.(*ast.Open); !ok {
			return true
		}
	}
	return false
}

// MarkActive returns the set of nodes of the tree that are active or have an
// active descendant.
func MarkActive(root *ledger.RealAccount) map[*ledger.RealAccount]bool {
	active := make(map[*ledger.RealAccount]bool)
	markActive(root, active)
	return active
}

func markActive(ra *ledger.RealAccount, active map[*ledger.RealAccount]bool) bool {
	result := isActive(ra)
	for _, child := range ra.Children {
		if markActive(child, active) {
			result = true
		}
	}
	if result {
		active[ra] = true
	}
	return result
}

// TableOfBalances renders the subtree of root starting at start, depth first
// with parents before their children. Accounts without activity are left out
// except for the category roots, which are always listed. The unnamed root of
// the tree itself never gets a row.
//
// Each row splits its balance at cost into one cell per operating currency
// plus the remaining positions.
func TableOfBalances(root *ledger.RealAccount, start ast.Account, currencies []string, types ledger.AccountTypes) BalanceTable {
	header := make([]string, 0, len(currencies)+2)
	header = append(header, "Account")
	header = append(header, currencies...)
	header = append(header, OtherColumn)
	table := BalanceTable{Header: header}

	node, ok := root.Get(start)
	if !ok {
		return table
	}

	active := MarkActive(root)
	node.Walk(func(ra *ledger.RealAccount, depth int) bool {
		if ra.Name == "" {
			return true
		}
		if !active[ra] {
			if types.IsRoot(ra.Name) {
				table.Rows = append(table.Rows, balanceRow(ra, depth, currencies))
			}
			// Nothing below an inactive node is active either.
			return false
		}
		table.Rows = append(table.Rows, balanceRow(ra, depth, currencies))
		return true
	})
	return table
}

func balanceRow(ra *ledger.RealAccount, depth int, currencies []string) TableRow {
	row := TableRow{
		Account:  ra.Name,
		Depth:    depth,
		IsParent: ra.Open == nil,
		Amounts:  make([]decimal.NullDecimal, len(currencies)),
		Node:     ra,
	}

	cost := ra.Balance.Cost()
	for i, currency := range currencies {
		lot := ast.Lot{Currency: currency}
		if pos, ok := cost.Position(lot); ok {
			row.Amounts[i] = decimal.NullDecimal{Decimal: pos.Number, Valid: true}
			cost.AddPosition(pos.Neg())
		}
	}
	row.Other = cost.Positions()
	return row
}
