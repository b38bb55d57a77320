package report

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/ledger"
)

// defaultFraction is the number of decimals for currencies that go-money
// does not know, commodities included.
const defaultFraction = 2

// FormatNumber formats a number with thousands separators and the number of
// decimals customary for currency.
func FormatNumber(number decimal.Decimal, currency string) string {
	fraction := defaultFraction
	if cur := money.GetCurrency(currency); cur != nil {
		fraction = cur.Fraction
	}
	minor := number.Shift(int32(fraction)).Round(0).IntPart()
	return money.NewFormatter(fraction, ".", ",", "", "1").Format(minor)
}

// FormatCell formats an operating currency cell, blank when empty.
func FormatCell(cell decimal.NullDecimal, currency string) string {
	if !cell.Valid {
		return ""
	}
	return FormatNumber(cell.Decimal, currency)
}

// FormatAmount formats an amount as its number followed by the currency.
func FormatAmount(amount ast.Amount) string {
	return FormatNumber(amount.Number, amount.Currency) + " " + amount.Currency
}

// FormatPosition formats a position, appending its cost and lot date when
// held at cost.
func FormatPosition(pos ast.Position) string {
	units := FormatAmount(pos.Units())
	if pos.Lot.IsSimple() {
		return units
	}
	var parts []string
	if pos.Lot.Cost != nil {
		parts = append(parts, FormatAmount(*pos.Lot.Cost))
	}
	if pos.Lot.Date != nil {
		parts = append(parts, pos.Lot.Date.String())
	}
	return units + " {" + strings.Join(parts, ", ") + "}"
}

// FormatPositions formats every position of an inventory.
func FormatPositions(inv *ledger.Inventory) []string {
	positions := inv.Positions()
	formatted := make([]string, len(positions))
	for i, pos := range positions {
		formatted[i] = FormatPosition(pos)
	}
	return formatted
}

// FormatInventory lists the positions of an inventory separated by sep.
func FormatInventory(inv *ledger.Inventory, sep string) string {
	positions := inv.Positions()
	parts := make([]string, len(positions))
	for i, pos := range positions {
		parts[i] = pos.String()
	}
	return strings.Join(parts, sep)
}
