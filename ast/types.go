package ast

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date is a calendar day in UTC. The zero Date is "unset".
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate parses a date in YYYY-MM-DD form.
func NewDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// MustDate is like NewDate but panics on malformed input. Intended for tests
// and constants.
func MustDate(s string) Date {
	d, err := NewDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewDateFromTime truncates t to its calendar day.
func NewDateFromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// YearStart returns January 1st of the given year.
func YearStart(year int) Date {
	return Date{time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// Compare returns -1, 0 or 1 depending on whether d is before, equal to or
// after other.
func (d Date) Compare(other Date) int {
	return d.Time.Compare(other.Time)
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.Time.After(other.Time) }

// Equal reports whether both dates denote the same day.
func (d Date) Equal(other Date) bool { return d.Time.Equal(other.Time) }

// Account is a colon separated hierarchical account name, for example
// Assets:US:BofA:Checking. The first component names the account category.
//
// Account identity is the name: two accounts are equal when their names are.
type Account string

// AccountSeparator separates the components of an account name.
const AccountSeparator = ":"

var accountComponent = regexp.MustCompile(`^[\p{Lu}\p{N}][\p{L}\p{N}\-]*$`)

// NewAccount validates and returns an account name. Every component must start
// with an uppercase letter or digit and may contain letters, digits and
// hyphens. A name needs at least two components.
func NewAccount(name string) (Account, error) {
	parts := strings.Split(name, AccountSeparator)
	if len(parts) < 2 {
		return "", fmt.Errorf("account must have at least two components: %q", name)
	}
	for _, part := range parts {
		if !accountComponent.MatchString(part) {
			return "", fmt.Errorf("invalid account component %q in %q", part, name)
		}
	}
	return Account(name), nil
}

// JoinAccount builds an account name out of components, skipping empty ones.
func JoinAccount(components ...string) Account {
	parts := make([]string, 0, len(components))
	for _, c := range components {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return Account(strings.Join(parts, AccountSeparator))
}

func (a Account) String() string { return string(a) }

// Components splits the name on the separator. The empty account has no
// components.
func (a Account) Components() []string {
	if a == "" {
		return nil
	}
	return strings.Split(string(a), AccountSeparator)
}

// Root returns the first component (the category name).
func (a Account) Root() string {
	root, _, _ := strings.Cut(string(a), AccountSeparator)
	return root
}

// Parent returns the name without its last component, or "" for a root.
func (a Account) Parent() Account {
	i := strings.LastIndex(string(a), AccountSeparator)
	if i < 0 {
		return ""
	}
	return a[:i]
}

// Leaf returns the last component.
func (a Account) Leaf() string {
	i := strings.LastIndex(string(a), AccountSeparator)
	return string(a[i+1:])
}

// Depth returns the number of components.
func (a Account) Depth() int {
	return len(a.Components())
}

// HasPrefix reports whether a equals prefix or is one of its descendants.
// The empty prefix matches every account.
func (a Account) HasPrefix(prefix Account) bool {
	if prefix == "" || a == prefix {
		return true
	}
	return strings.HasPrefix(string(a), string(prefix)+AccountSeparator)
}

// Amount is a signed decimal number of a currency or commodity.
type Amount struct {
	Number   decimal.Decimal
	Currency string
}

// NewAmount returns an Amount.
func NewAmount(number decimal.Decimal, currency string) Amount {
	return Amount{Number: number, Currency: currency}
}

// ParseAmount parses "NUMBER CURRENCY", for example "-12.50 USD".
func ParseAmount(s string) (Amount, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Amount{}, fmt.Errorf("invalid amount %q: expected \"NUMBER CURRENCY\"", s)
	}
	number, err := decimal.NewFromString(strings.ReplaceAll(fields[0], ",", ""))
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{Number: number, Currency: fields[1]}, nil
}

// MustAmount is like ParseAmount but panics on malformed input.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) String() string {
	return a.Number.String() + " " + a.Currency
}

// Neg returns the amount with its sign flipped.
func (a Amount) Neg() Amount {
	return Amount{Number: a.Number.Neg(), Currency: a.Currency}
}

// Equal compares numerically, so 1.0 USD equals 1 USD.
func (a Amount) Equal(other Amount) bool {
	return a.Currency == other.Currency && a.Number.Equal(other.Number)
}

// Cost is the per-unit acquisition cost of a posting, optionally dated.
type Cost struct {
	Amount Amount
	Date   *Date
}

// Lot is the key under which positions are held in an inventory: the currency
// plus the optional cost basis and acquisition date. Positions with different
// lots never merge.
type Lot struct {
	Currency string
	Cost     *Amount
	Date     *Date
}

// Equal compares lots structurally.
func (l Lot) Equal(other Lot) bool {
	if l.Currency != other.Currency {
		return false
	}
	if (l.Cost == nil) != (other.Cost == nil) {
		return false
	}
	if l.Cost != nil && !l.Cost.Equal(*other.Cost) {
		return false
	}
	if (l.Date == nil) != (other.Date == nil) {
		return false
	}
	return l.Date == nil || l.Date.Equal(*other.Date)
}

// IsSimple reports whether the lot carries neither cost nor date.
func (l Lot) IsSimple() bool {
	return l.Cost == nil && l.Date == nil
}

func (l Lot) String() string {
	if l.IsSimple() {
		return l.Currency
	}
	var parts []string
	if l.Cost != nil {
		parts = append(parts, l.Cost.String())
	}
	if l.Date != nil {
		parts = append(parts, l.Date.String())
	}
	return fmt.Sprintf("%s {%s}", l.Currency, strings.Join(parts, ", "))
}

// Position is a quantity of a lot.
type Position struct {
	Lot    Lot
	Number decimal.Decimal
}

// Units returns the position as a plain amount of its currency.
func (p Position) Units() Amount {
	return Amount{Number: p.Number, Currency: p.Lot.Currency}
}

// Cost returns the total cost of the position in the cost currency, or the
// units when the lot has no cost.
func (p Position) Cost() Amount {
	if p.Lot.Cost == nil {
		return p.Units()
	}
	return Amount{Number: p.Number.Mul(p.Lot.Cost.Number), Currency: p.Lot.Cost.Currency}
}

// Neg returns the position with its number negated.
func (p Position) Neg() Position {
	return Position{Lot: p.Lot, Number: p.Number.Neg()}
}

func (p Position) String() string {
	if p.Lot.IsSimple() {
		return p.Units().String()
	}
	return p.Number.String() + " " + p.Lot.String()
}
