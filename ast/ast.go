// Package ast declares the entries that make up a ledger snapshot.
//
// A ledger is a date ordered list of Directives: account lifetime markers
// (Open, Close), Transactions with their Postings, balance assertions, pads,
// notes, events and prices. Entries are immutable once built; filtering and
// summarizing produce new lists that share unchanged entries.
package ast

import (
	"golang.org/x/exp/slices"
)

// Directives is an ordered list of entries.
type Directives []Directive

// Sort orders directives by date. Entries on the same day are ordered Open,
// Balance, everything else, Close, and otherwise keep their relative order.
func Sort(ds []Directive) {
	slices.SortStableFunc(ds, compareDirectives)
}

// IsSorted reports whether ds is in Sort order.
func IsSorted(ds []Directive) bool {
	return slices.IsSortedFunc(ds, compareDirectives)
}

// compareDirectives compares two directives by date, then by kind priority.
func compareDirectives(a, b Directive) int {
	if c := a.date().Compare(b.date()); c != 0 {
		return c
	}
	return kindPriority(a) - kindPriority(b)
}

// kindPriority returns the processing priority for a directive on its day.
// Lower numbers come first.
func kindPriority(d Directive) int {
	switch d.(type) {
	case *Open:
		return 0 // accounts open before anything touches them
	case *Balance:
		return 1 // assertions hold at the beginning of the day
	case *Close:
		return 3
	default:
		return 2
	}
}

// Transactions returns the transactions among ds, in order.
func Transactions(ds []Directive) []*Transaction {
	var txns []*Transaction
	for _, d := range ds {
		if t, ok := d.(*Transaction); ok {
			txns = append(txns, t)
		}
	}
	return txns
}

// MinMaxDates returns the first and last dates of ds, skipping Open and Close
// markers. ok is false when nothing remains.
func MinMaxDates(ds []Directive) (first, last Date, ok bool) {
	for _, d := range ds {
		switch d.(type) {
		case *Open, *Close:
			continue
		}
		date := d.date()
		if !ok || date.Before(first) {
			first = date
		}
		if !ok || date.After(last) {
			last = date
		}
		ok = true
	}
	return first, last, ok
}
