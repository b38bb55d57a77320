package ledger

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/beanreport/ast"
)

// RealAccount is a node of the account tree built by Realize. The root node
// has an empty name; every other node is one account name component deeper
// than its parent.
//
// A RealAccount is read-only once Realize returns.
type RealAccount struct {
	Name ast.Account

	// Open is the directive that opened the account, nil for nodes that only
	// exist as parents of opened accounts.
	Open *ast.Open

	// Children are keyed by their leaf component.
	Children map[string]*RealAccount

	// Postings holds the node's own activity in entry order: the postings of
	// transactions plus the Open, Close, Balance, Pad and Note directives that
	// name the account.
	Postings []ast.Item

	// Balance is the sum of the node's own postings and all its descendants.
	Balance *Inventory
}

func newRealAccount(name ast.Account) *RealAccount {
	return &RealAccount{
		Name:     name,
		Children: make(map[string]*RealAccount),
		Balance:  NewInventory(),
	}
}

// Leaf returns the last component of the node's name.
func (ra *RealAccount) Leaf() string {
	return ra.Name.Leaf()
}

// Get looks up a descendant by full account name. The empty name returns ra
// itself when ra is the root.
func (ra *RealAccount) Get(name ast.Account) (*RealAccount, bool) {
	if !name.HasPrefix(ra.Name) {
		return nil, false
	}
	node := ra
	for _, component := range name.Components()[ra.Name.Depth():] {
		child, ok := node.Children[component]
		if !ok {
			return nil, false
		}
		node = child
	}
	if node.Name != name {
		return nil, false
	}
	return node, true
}

// SortedChildren returns the children ordered by name.
func (ra *RealAccount) SortedChildren() []*RealAccount {
	keys := maps.Keys(ra.Children)
	slices.Sort(keys)
	children := make([]*RealAccount, len(keys))
	for i, key := range keys {
		children[i] = ra.Children[key]
	}
	return children
}

// Walk visits ra and its descendants depth first, parents before children,
// children in name order. depth is 0 for ra. Returning false from fn skips
// the node's children.
func (ra *RealAccount) Walk(fn func(node *RealAccount, depth int) bool) {
	ra.walk(fn, 0)
}

func (ra *RealAccount) walk(fn func(*RealAccount, int) bool, depth int) {
	if !fn(ra, depth) {
		return
	}
	for _, child := range ra.SortedChildren() {
		child.walk(fn, depth+1)
	}
}

// SubPostings returns the postings of ra and all its descendants ordered by
// date. Items on the same date keep tree order.
func SubPostings(ra *RealAccount) []ast.Item {
	var items []ast.Item
	ra.Walk(func(node *RealAccount, _ int) bool {
		items = append(items, node.Postings...)
		return true
	})
	slices.SortStableFunc(items, func(a, b ast.Item) int {
		return ast.ItemDate(a).Compare(ast.ItemDate(b))
	})
	return items
}

type realizeOptions struct {
	checkOpen bool
}

// RealizeOption configures Realize.
type RealizeOption func(*realizeOptions)

// WithOpenChecks makes Realize fail when an entry references an account that
// is not open at the entry's date.
func WithOpenChecks() RealizeOption {
	return func(o *realizeOptions) {
		o.checkOpen = true
	}
}

// Realize builds the account tree of entries. Root nodes for every category in
// types always exist. Entries must be sorted.
//
// With WithOpenChecks, every posting or account directive on an account that
// was never opened, or that was closed before the entry date, is reported and
// Realize returns a *ValidationErrors instead of a tree. Summarize and transfer
// entries are synthesized from balances and are not checked.
func Realize(entries []ast.Directive, types AccountTypes, opts ...RealizeOption) (*RealAccount, error) {
	var options realizeOptions
	for _, opt := range opts {
		opt(&options)
	}

	root := newRealAccount("")
	for _, name := range types.Roots() {
		root.Children[name] = newRealAccount(ast.Account(name))
	}

	opened := make(map[ast.Account]bool)
	closed := make(map[ast.Account]ast.Date)
	var errs []error

	check := func(account ast.Account, entry ast.Directive) {
		if !options.checkOpen || synthesized(entry) {
			return
		}
		if !opened[account] {
			errs = append(errs, &AccountNotOpenError{Account: account, Entry: entry})
			return
		}
		if closeDate, ok := closed[account]; ok && closeDate.Before(ast.DateOf(entry)) {
			errs = append(errs, &AccountClosedError{Account: account, ClosedDate: closeDate, Entry: entry})
		}
	}

	for _, entry := range entries {
		switch e := entry.(type) {
		case *ast.Transaction:
			for _, posting := range e.Postings {
				check(posting.Account, e)
				node := root.ensure(posting.Account)
				node.Postings = append(node.Postings, posting)
				node.Balance.AddPosition(posting.Position())
			}
		case *ast.Open:
			opened[e.Account] = true
			node := root.ensure(e.Account)
			if node.Open == nil {
				node.Open = e
			}
			node.Postings = append(node.Postings, e)
		case *ast.Close:
			check(e.Account, e)
			closed[e.Account] = e.Date
			node := root.ensure(e.Account)
			node.Postings = append(node.Postings, e)
		case *ast.Balance, *ast.Note, *ast.Pad:
			for _, account := range ast.AccountsOf(e) {
				check(account, e)
				node := root.ensure(account)
				node.Postings = append(node.Postings, e)
			}
		case *ast.Event, *ast.Price:
			// Not attached to any account.
		}
	}

	if len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}

	root.rollUp()
	return root, nil
}

func synthesized(entry ast.Directive) bool {
	txn, ok := entry.(*ast.Transaction)
	return ok && (txn.Flag == ast.FlagSummarize || txn.Flag == ast.FlagTransfer)
}

// ensure returns the node for account, creating it and its parents.
func (ra *RealAccount) ensure(account ast.Account) *RealAccount {
	node := ra
	components := account.Components()
	for i, component := range components {
		child, ok := node.Children[component]
		if !ok {
			child = newRealAccount(ast.JoinAccount(components[:i+1]...))
			node.Children[component] = child
		}
		node = child
	}
	return node
}

// rollUp adds every child's balance into its parent, bottom up.
func (ra *RealAccount) rollUp() {
	for _, child := range ra.SortedChildren() {
		child.rollUp()
		ra.Balance.AddInventory(child.Balance)
	}
}

// TotalBalance sums the positions of every transaction posting in entries.
func TotalBalance(entries []ast.Directive) *Inventory {
	total := NewInventory()
	for _, txn := range ast.Transactions(entries) {
		for _, posting := range txn.Postings {
			total.AddPosition(posting.Position())
		}
	}
	return total
}
