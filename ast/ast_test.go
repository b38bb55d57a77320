package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestSort(t *testing.T) {
	day := MustDate("2024-01-01")
	txn := NewTransaction(day, FlagOK, "", "Coffee")
	closing := &Close{Date: day, Account: "Assets:Cash"}
	balance := &Balance{Date: day, Account: "Assets:Cash", Amount: MustAmount("0 USD")}
	open := &Open{Date: day, Account: "Assets:Cash"}
	earlier := &Note{Date: MustDate("2023-12-31"), Account: "Assets:Cash"}

	ds := []Directive{txn, closing, balance, open, earlier}
	assert.False(t, IsSorted(ds))

	Sort(ds)
	assert.True(t, IsSorted(ds))
	assert.Equal(t, []Directive{earlier, open, balance, txn, closing}, ds)
}

func TestSort_Stable(t *testing.T) {
	day := MustDate("2024-01-01")
	first := NewTransaction(day, FlagOK, "", "first")
	second := NewTransaction(day, FlagOK, "", "second")
	third := NewTransaction(day, FlagOK, "", "third")

	ds := []Directive{first, second, third}
	Sort(ds)
	assert.Equal(t, []Directive{first, second, third}, ds)
}

func TestTransaction_Postings(t *testing.T) {
	bank := NewPosting("Assets:Bank", MustAmount("100 USD"))
	salary := NewPosting("Income:Salary", MustAmount("-100 USD"))
	txn := NewTransaction(MustDate("2020-01-05"), FlagOK, "Employer", "Salary", bank, salary)

	assert.True(t, bank.Parent() == txn)
	assert.True(t, salary.Parent() == txn)
	assert.Equal(t, KindTransaction, txn.Kind())
	assert.Equal(t, "2020-01-05", ItemDate(bank).String())
	assert.Equal(t, []Account{"Assets:Bank", "Income:Salary"}, AccountsOf(txn))
	assert.False(t, txn.HasConversion())

	orphan := NewPosting("Assets:Bank", MustAmount("1 USD"))
	assert.True(t, orphan.Parent() == nil)
	assert.Equal(t, "", ItemDate(orphan).String())
}

func TestTransaction_Tags(t *testing.T) {
	txn := NewTransaction(MustDate("2020-01-05"), FlagOK, "", "Trip")
	txn.Tags = []string{"berlin-2020", "travel"}

	assert.True(t, txn.HasAnyTag([]string{"travel"}))
	assert.True(t, txn.HasAnyTag([]string{"other", "berlin-2020"}))
	assert.False(t, txn.HasAnyTag([]string{"other"}))
	assert.False(t, txn.HasAnyTag(nil))
}

func TestPosting_WeightAndPosition(t *testing.T) {
	lotDate := MustDate("2020-01-05")
	held := NewPosting("Assets:Broker", MustAmount("10 HOOL"))
	held.Cost = &Cost{Amount: MustAmount("50 USD"), Date: &lotDate}

	assert.True(t, held.Weight().Equal(MustAmount("500 USD")))
	pos := held.Position()
	assert.Equal(t, "HOOL", pos.Lot.Currency)
	assert.True(t, pos.Lot.Cost.Equal(MustAmount("50 USD")))
	assert.True(t, pos.Lot.Date.Equal(lotDate))

	price := MustAmount("1.25 USD")
	converted := NewPosting("Assets:Cash", MustAmount("-100 EUR"))
	converted.Price = &price
	assert.True(t, converted.Weight().Equal(MustAmount("-125 USD")))
	assert.True(t, converted.Position().Lot.IsSimple())

	txn := NewTransaction(lotDate, FlagOK, "", "Exchange", converted)
	assert.True(t, txn.HasConversion())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Open", KindOpen.String())
	assert.Equal(t, "Balance", KindBalance.String())
	assert.Equal(t, "Price", KindPrice.String())
	assert.Equal(t, "Unknown", Kind(42).String())
}

func TestMinMaxDates(t *testing.T) {
	ds := []Directive{
		&Open{Date: MustDate("2019-01-01"), Account: "Assets:Cash"},
		NewTransaction(MustDate("2020-03-01"), FlagOK, "", "a"),
		&Note{Date: MustDate("2021-06-01"), Account: "Assets:Cash"},
		&Close{Date: MustDate("2022-01-01"), Account: "Assets:Cash"},
	}

	first, last, ok := MinMaxDates(ds)
	assert.True(t, ok)
	assert.Equal(t, "2020-03-01", first.String())
	assert.Equal(t, "2021-06-01", last.String())

	_, _, ok = MinMaxDates(ds[:1])
	assert.False(t, ok)
}
