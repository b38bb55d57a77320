package ast

// Kind discriminates the entry variants.
type Kind int

const (
	KindOpen Kind = iota
	KindClose
	KindPad
	KindBalance
	KindTransaction
	KindEvent
	KindNote
	KindPrice
)

var kindNames = [...]string{
	KindOpen:        "Open",
	KindClose:       "Close",
	KindPad:         "Pad",
	KindBalance:     "Balance",
	KindTransaction: "Transaction",
	KindEvent:       "Event",
	KindNote:        "Note",
	KindPrice:       "Price",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Item is an element of an account's activity: either a Directive or a
// single *Posting standing in for its parent Transaction.
type Item interface {
	item()
}

// Directive is a dated ledger entry. The set of implementations is closed:
// Open, Close, Pad, Balance, Transaction, Event, Note and Price.
type Directive interface {
	Item
	Kind() Kind
	Location() Location
	date() Date
}

// DateOf returns the date of a directive.
func DateOf(d Directive) Date { return d.date() }

// ItemDate returns the date of an item, using the parent transaction for
// postings. Orphan postings have a zero date.
func ItemDate(it Item) Date {
	switch it := it.(type) {
	case *Posting:
		if it.parent == nil {
			return Date{}
		}
		return it.parent.Date
	case Directive:
		return it.date()
	}
	return Date{}
}

// AccountsOf returns the accounts a directive refers to. Transactions report
// one account per posting, in posting order.
func AccountsOf(d Directive) []Account {
	switch d := d.(type) {
	case *Open:
		return []Account{d.Account}
	case *Close:
		return []Account{d.Account}
	case *Pad:
		return []Account{d.Account, d.Source}
	case *Balance:
		return []Account{d.Account}
	case *Note:
		return []Account{d.Account}
	case *Transaction:
		accounts := make([]Account, len(d.Postings))
		for i, p := range d.Postings {
			accounts[i] = p.Account
		}
		return accounts
	}
	return nil
}

// Open declares an account from its date onwards, optionally constrained to a
// set of currencies.
type Open struct {
	Pos        Location
	Date       Date
	Account    Account
	Currencies []string
}

// Close marks the end of an account's lifetime. Postings dated after the close
// date are structural errors.
type Close struct {
	Pos     Location
	Date    Date
	Account Account
}

// Pad requests that Account be padded from Source up to the next balance
// assertion.
type Pad struct {
	Pos     Location
	Date    Date
	Account Account
	Source  Account
}

// Balance asserts the amount held by an account (and its descendants) at the
// beginning of its date.
type Balance struct {
	Pos     Location
	Date    Date
	Account Account
	Amount  Amount
}

// Event records the value of a named variable, like a location or employer.
type Event struct {
	Pos         Location
	Date        Date
	Type        string
	Description string
}

// Note attaches a dated comment to an account.
type Note struct {
	Pos     Location
	Date    Date
	Account Account
	Comment string
}

// Price records the price of a commodity in another currency.
type Price struct {
	Pos      Location
	Date     Date
	Currency string
	Amount   Amount
}

var (
	_ Directive = &Open{}
	_ Directive = &Close{}
	_ Directive = &Pad{}
	_ Directive = &Balance{}
	_ Directive = &Transaction{}
	_ Directive = &Event{}
	_ Directive = &Note{}
	_ Directive = &Price{}
)

func (*Open) item()    {}
func (*Close) item()   {}
func (*Pad) item()     {}
func (*Balance) item() {}
func (*Event) item()   {}
func (*Note) item()    {}
func (*Price) item()   {}

func (o *Open) Kind() Kind    { return KindOpen }
func (c *Close) Kind() Kind   { return KindClose }
func (p *Pad) Kind() Kind     { return KindPad }
func (b *Balance) Kind() Kind { return KindBalance }
func (e *Event) Kind() Kind   { return KindEvent }
func (n *Note) Kind() Kind    { return KindNote }
func (p *Price) Kind() Kind   { return KindPrice }

func (o *Open) Location() Location    { return o.Pos }
func (c *Close) Location() Location   { return c.Pos }
func (p *Pad) Location() Location     { return p.Pos }
func (b *Balance) Location() Location { return b.Pos }
func (e *Event) Location() Location   { return e.Pos }
func (n *Note) Location() Location    { return n.Pos }
func (p *Price) Location() Location   { return p.Pos }

func (o *Open) date() Date    { return o.Date }
func (c *Close) date() Date   { return c.Date }
func (p *Pad) date() Date     { return p.Date }
func (b *Balance) date() Date { return b.Date }
func (e *Event) date() Date   { return e.Date }
func (n *Note) date() Date    { return n.Date }
func (p *Price) date() Date   { return p.Date }
