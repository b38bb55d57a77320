package view

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/beanreport/ast"
)

func TestFilterTitles(t *testing.T) {
	assert.Equal(t, "All Transactions", All{}.Title())
	assert.Equal(t, "Year 2020", Year{Year: 2020}.Title())
	assert.Equal(t, `Tag "trip 2020"`, Tag{Tags: []string{"trip 2020"}}.Title())
	assert.Equal(t, `Tag "a", "b"`, Tag{Tags: []string{"a", "b"}}.Title())
	assert.Equal(t, `Payee "Grocer"`, Payee{Payee: "Grocer"}.Title())
}

func TestFilterApply(t *testing.T) {
	entries := household()

	all, _, hasBoundary := All{}.Apply(entries, config())
	assert.False(t, hasBoundary)
	assert.Equal(t, len(entries), len(all))

	tagged, _, hasBoundary := Tag{Tags: []string{"trip 2020", "trip 2021"}}.Apply(entries, config())
	assert.False(t, hasBoundary)
	assert.Equal(t, 2, len(tagged))

	paid, _, _ := Payee{Payee: "Employer"}.Apply(entries, config())
	assert.Equal(t, 3, len(paid))
	for _, entry := range paid {
		assert.Equal(t, "Employer", entry.(*ast.Transaction).Payee)
	}

	none, _, _ := Payee{Payee: "Nobody"}.Apply(entries, config())
	assert.Equal(t, 0, len(none))

	year, boundary, hasBoundary := Year{Year: 2020}.Apply(entries, config())
	assert.True(t, hasBoundary)
	for _, entry := range year[boundary:] {
		assert.Equal(t, 2020, ast.DateOf(entry).Year())
	}
}
