package report

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/ledger"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		number   string
		currency string
		want     string
	}{
		{"1234.5", "USD", "1,234.50"},
		{"-1234567.891", "EUR", "-1,234,567.89"},
		{"0.004", "USD", "0.00"},
		{"1234.5", "JPY", "1,235"},
		{"12.3456", "HOOL", "12.35"},
	}

	for _, tt := range tests {
		t.Run(tt.number+" "+tt.currency, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(dec(tt.number), tt.currency))
		})
	}
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", FormatCell(decimal.NullDecimal{}, "USD"))
	assert.Equal(t, "5.00", FormatCell(decimal.NullDecimal{Decimal: dec("5"), Valid: true}, "USD"))
}

func TestFormatInventory(t *testing.T) {
	inv := ledger.NewInventory()
	inv.AddAmount(amount("5 USD"))
	inv.AddAmount(amount("2 EUR"))
	assert.Equal(t, "5 USD\n2 EUR", FormatInventory(inv, "\n"))
	assert.Equal(t, "", FormatInventory(nil, "\n"))
}

func TestFormatPosition(t *testing.T) {
	cost := amount("1234.5 USD")
	lotDate := date("2020-01-05")

	tests := []struct {
		name string
		pos  ast.Position
		want string
	}{
		{"Simple", ast.Position{Lot: ast.Lot{Currency: "USD"}, Number: dec("-1500")}, "-1,500.00 USD"},
		{"Cost", ast.Position{Lot: ast.Lot{Currency: "HOOL", Cost: &cost}, Number: dec("10")}, "10.00 HOOL {1,234.50 USD}"},
		{"CostAndDate", ast.Position{Lot: ast.Lot{Currency: "HOOL", Cost: &cost, Date: &lotDate}, Number: dec("1")}, "1.00 HOOL {1,234.50 USD, 2020-01-05}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPosition(tt.pos))
		})
	}

	inv := ledger.InventoryOf(tests[0].pos, tests[1].pos)
	assert.Equal(t, []string{"-1,500.00 USD", "10.00 HOOL {1,234.50 USD}"}, FormatPositions(inv))
	assert.Equal(t, 0, len(FormatPositions(nil)))
}
