package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/beanreport/ast"
)

// Inventory is a collection of positions keyed by lot. Positions with equal
// lots merge; positions with different lots never do. Positions keep the order
// in which their lot was first added, and a position whose number reaches zero
// is removed.
//
// The zero value and a nil *Inventory are empty inventories for reading.
type Inventory struct {
	positions []ast.Position
}

// NewInventory creates a new inventory
func NewInventory() *Inventory {
	return &Inventory{}
}

// InventoryOf builds an inventory by adding the positions in order.
func InventoryOf(positions ...ast.Position) *Inventory {
	inv := NewInventory()
	for _, pos := range positions {
		inv.AddPosition(pos)
	}
	return inv
}

// AddPosition adds pos, merging it into the position holding the same lot.
func (inv *Inventory) AddPosition(pos ast.Position) {
	for i := range inv.positions {
		if inv.positions[i].Lot.Equal(pos.Lot) {
			number := inv.positions[i].Number.Add(pos.Number)
			if number.IsZero() {
				inv.positions = slices.Delete(inv.positions, i, i+1)
			} else {
				inv.positions[i].Number = number
			}
			return
		}
	}
	if pos.Number.IsZero() {
		return
	}
	inv.positions = append(inv.positions, pos)
}

// AddAmount adds units held without cost.
func (inv *Inventory) AddAmount(amount ast.Amount) {
	inv.AddPosition(ast.Position{Lot: ast.Lot{Currency: amount.Currency}, Number: amount.Number})
}

// AddInventory adds every position of other.
func (inv *Inventory) AddInventory(other *Inventory) {
	for _, pos := range other.Positions() {
		inv.AddPosition(pos)
	}
}

// Positions returns a copy of the positions.
func (inv *Inventory) Positions() []ast.Position {
	if inv == nil || len(inv.positions) == 0 {
		return nil
	}
	return slices.Clone(inv.positions)
}

// Position returns the position held under lot.
func (inv *Inventory) Position(lot ast.Lot) (ast.Position, bool) {
	if inv == nil {
		return ast.Position{}, false
	}
	for _, pos := range inv.positions {
		if pos.Lot.Equal(lot) {
			return pos, true
		}
	}
	return ast.Position{}, false
}

// Units returns the total number of currency held, summing all lots.
func (inv *Inventory) Units(currency string) decimal.Decimal {
	total := decimal.Zero
	if inv == nil {
		return total
	}
	for _, pos := range inv.positions {
		if pos.Lot.Currency == currency {
			total = total.Add(pos.Number)
		}
	}
	return total
}

// Cost returns a new inventory holding every position converted to its total
// cost. Positions without cost are carried as units.
func (inv *Inventory) Cost() *Inventory {
	result := NewInventory()
	for _, pos := range inv.Positions() {
		result.AddAmount(pos.Cost())
	}
	return result
}

// Neg returns a new inventory with every position negated.
func (inv *Inventory) Neg() *Inventory {
	result := NewInventory()
	for _, pos := range inv.Positions() {
		result.positions = append(result.positions, pos.Neg())
	}
	return result
}

// Clone returns an independent copy.
func (inv *Inventory) Clone() *Inventory {
	return &Inventory{positions: inv.Positions()}
}

// IsEmpty returns true if the inventory holds no positions
func (inv *Inventory) IsEmpty() bool {
	return inv == nil || len(inv.positions) == 0
}

// Len returns the number of positions.
func (inv *Inventory) Len() int {
	if inv == nil {
		return 0
	}
	return len(inv.positions)
}

// Currencies returns the sorted distinct currencies held.
func (inv *Inventory) Currencies() []string {
	var currencies []string
	for _, pos := range inv.Positions() {
		if !slices.Contains(currencies, pos.Lot.Currency) {
			currencies = append(currencies, pos.Lot.Currency)
		}
	}
	slices.Sort(currencies)
	return currencies
}

// Equal reports whether both inventories hold the same positions, ignoring
// order.
func (inv *Inventory) Equal(other *Inventory) bool {
	if inv.Len() != other.Len() {
		return false
	}
	for _, pos := range inv.Positions() {
		theirs, ok := other.Position(pos.Lot)
		if !ok || !theirs.Number.Equal(pos.Number) {
			return false
		}
	}
	return true
}

// String returns the positions joined by commas.
func (inv *Inventory) String() string {
	positions := inv.Positions()
	parts := make([]string, len(positions))
	for i, pos := range positions {
		parts[i] = pos.String()
	}
	return strings.Join(parts, ", ")
}
