package ast

import (
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Transaction flags.
const (
	FlagOK         = "*"
	FlagWarning    = "!"
	FlagPadding    = "P"
	FlagSummarize  = "S"
	FlagTransfer   = "T"
	FlagConversion = "C"
)

// Transaction moves amounts between accounts through its postings.
//
// Build transactions with NewTransaction or AddPostings so that every posting
// points back at its parent.
type Transaction struct {
	Pos       Location
	Date      Date
	Flag      string
	Payee     string
	Narration string
	Tags      []string
	Links     []string
	Postings  []*Posting
}

// NewTransaction returns a transaction owning the given postings.
func NewTransaction(date Date, flag, payee, narration string, postings ...*Posting) *Transaction {
	t := &Transaction{Date: date, Flag: flag, Payee: payee, Narration: narration}
	return t.AddPostings(postings...)
}

// AddPostings appends postings and links them to t. It returns t.
func (t *Transaction) AddPostings(postings ...*Posting) *Transaction {
	for _, p := range postings {
		p.parent = t
		t.Postings = append(t.Postings, p)
	}
	return t
}

func (*Transaction) item()                {}
func (t *Transaction) Kind() Kind         { return KindTransaction }
func (t *Transaction) Location() Location { return t.Pos }
func (t *Transaction) date() Date         { return t.Date }

// HasAnyTag reports whether the transaction carries at least one of tags.
func (t *Transaction) HasAnyTag(tags []string) bool {
	for _, tag := range t.Tags {
		if slices.Contains(tags, tag) {
			return true
		}
	}
	return false
}

// HasConversion reports whether any posting is priced in another currency.
func (t *Transaction) HasConversion() bool {
	for _, p := range t.Postings {
		if p.Price != nil {
			return true
		}
	}
	return false
}

// Posting is one leg of a Transaction.
type Posting struct {
	Account Account
	Units   Amount
	Cost    *Cost
	Price   *Amount
	Flag    string

	// parent is a non-owning back reference; the entry list owns the
	// transaction.
	parent *Transaction
}

// NewPosting returns a posting of units to account.
func NewPosting(account Account, units Amount) *Posting {
	return &Posting{Account: account, Units: units}
}

func (*Posting) item() {}

// Parent returns the transaction the posting belongs to.
func (p *Posting) Parent() *Transaction { return p.parent }

// Position returns the posting's units keyed by its lot.
func (p *Posting) Position() Position {
	lot := Lot{Currency: p.Units.Currency}
	if p.Cost != nil {
		cost := p.Cost.Amount
		lot.Cost = &cost
		lot.Date = p.Cost.Date
	}
	return Position{Lot: lot, Number: p.Units.Number}
}

// Weight returns the amount the posting contributes to the transaction
// balance: its cost when held at cost, its converted price when priced,
// otherwise its units.
func (p *Posting) Weight() Amount {
	if p.Cost != nil {
		return Amount{Number: p.Units.Number.Mul(p.Cost.Amount.Number), Currency: p.Cost.Amount.Currency}
	}
	if p.Price != nil {
		return Amount{Number: p.Units.Number.Mul(p.Price.Number), Currency: p.Price.Currency}
	}
	return p.Units
}

// IsZero reports whether the posting moves nothing.
func (p *Posting) IsZero() bool {
	return p.Units.Number.Equal(decimal.Zero)
}
