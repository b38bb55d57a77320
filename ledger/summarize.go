package ledger

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/beanreport/ast"
)

// balanceByAccount sums transaction postings per account for the entries
// dated strictly before date (all entries when date is nil). It also returns
// the index of the first entry on or after date.
func balanceByAccount(entries []ast.Directive, date *ast.Date) (map[ast.Account]*Inventory, int) {
	balances := make(map[ast.Account]*Inventory)
	for i, entry := range entries {
		if date != nil && !ast.DateOf(entry).Before(*date) {
			return balances, i
		}
		txn, ok := entry.(*ast.Transaction)
		if !ok {
			continue
		}
		for _, posting := range txn.Postings {
			inv, ok := balances[posting.Account]
			if !ok {
				inv = NewInventory()
				balances[posting.Account] = inv
			}
			inv.AddPosition(posting.Position())
		}
	}
	return balances, len(entries)
}

// entriesFromBalances creates one transaction per non-empty account balance,
// in account order. Each transaction books the balance (negated when reverse
// is set) onto the account and its cost onto source.
func entriesFromBalances(balances map[ast.Account]*Inventory, date ast.Date, source ast.Account, reverse bool, flag, narration string) []ast.Directive {
	accounts := maps.Keys(balances)
	slices.Sort(accounts)

	var entries []ast.Directive
	for _, account := range accounts {
		balance := balances[account]
		if balance.IsEmpty() {
			continue
		}
		if reverse {
			balance = balance.Neg()
		}

		var postings []*ast.Posting
		for _, pos := range balance.Positions() {
			posting := ast.NewPosting(account, pos.Units())
			if pos.Lot.Cost != nil {
				posting.Cost = &ast.Cost{Amount: *pos.Lot.Cost, Date: pos.Lot.Date}
			}
			postings = append(postings, posting, ast.NewPosting(source, pos.Cost().Neg()))
		}
		entries = append(entries, ast.NewTransaction(date, flag, "", fmt.Sprintf(narration, account), postings...))
	}
	return entries
}

// openedAccounts returns the set of accounts opened in entries.
func openedAccounts(entries []ast.Directive) map[ast.Account]bool {
	opened := make(map[ast.Account]bool)
	for _, entry := range entries {
		if open, ok := entry.(*ast.Open); ok {
			opened[open.Account] = true
		}
	}
	return opened
}

// Transfer moves the balances of every account matching pred, accumulated
// before until, into account. With a nil until all entries are considered and
// the transfer is dated on the last entry; otherwise it is dated the day
// before until. Balance assertions after the transfer on transferred accounts
// are dropped since they can no longer hold. An Open for account is
// synthesized when the ledger never opens it.
//
// The input is not modified.
func Transfer(entries []ast.Directive, until *ast.Date, pred func(ast.Account) bool, account ast.Account) []ast.Directive {
	if len(entries) == 0 {
		return entries
	}

	balances, index := balanceByAccount(entries, until)
	for name := range balances {
		if !pred(name) {
			delete(balances, name)
		}
	}

	var date ast.Date
	if until != nil {
		date = until.AddDays(-1)
	} else {
		date = ast.DateOf(entries[len(entries)-1])
	}

	transfers := entriesFromBalances(balances, date, account, true, ast.FlagTransfer,
		"Transfer balance for '%s' (Transfer balance)")

	result := make([]ast.Directive, 0, len(entries)+len(transfers)+1)
	if len(transfers) > 0 && !openedAccounts(entries)[account] {
		result = append(result, &ast.Open{Date: ast.DateOf(entries[0]), Account: account})
	}
	result = append(result, entries[:index]...)
	result = append(result, transfers...)
	for _, entry := range entries[index:] {
		if balance, ok := entry.(*ast.Balance); ok {
			if _, transferred := balances[balance.Account]; transferred {
				continue
			}
		}
		result = append(result, entry)
	}
	return result
}

// openEntriesAt returns the Open directives dated before date whose account
// is not closed before date.
func openEntriesAt(entries []ast.Directive, date ast.Date) []ast.Directive {
	var opens []*ast.Open
	closed := make(map[ast.Account]bool)
	for _, entry := range entries {
		if !ast.DateOf(entry).Before(date) {
			break
		}
		switch e := entry.(type) {
		case *ast.Open:
			opens = append(opens, e)
		case *ast.Close:
			closed[e.Account] = true
		}
	}

	var result []ast.Directive
	for _, open := range opens {
		if !closed[open.Account] {
			result = append(result, open)
		}
	}
	return result
}

// lastPricesAt returns the most recent Price directive before date for every
// (commodity, quote currency) pair.
func lastPricesAt(entries []ast.Directive, date ast.Date) []ast.Directive {
	type pair struct{ base, quote string }
	last := make(map[pair]*ast.Price)
	var order []pair
	for _, entry := range entries {
		if !ast.DateOf(entry).Before(date) {
			break
		}
		price, ok := entry.(*ast.Price)
		if !ok {
			continue
		}
		key := pair{price.Currency, price.Amount.Currency}
		if _, seen := last[key]; !seen {
			order = append(order, key)
		}
		last[key] = price
	}

	result := make([]ast.Directive, len(order))
	for i, key := range order {
		result[i] = last[key]
	}
	return result
}

// Summarize replaces the entries before date by their summary: the Open
// directives still in effect, the last known prices and one opening balance
// transaction per account, dated the day before, booked against account. It
// returns the new list and the index of the first entry after the summary.
//
// The input is not modified.
func Summarize(entries []ast.Directive, date ast.Date, account ast.Account) ([]ast.Directive, int) {
	balances, index := balanceByAccount(entries, &date)
	summaryDate := date.AddDays(-1)

	summaries := entriesFromBalances(balances, summaryDate, account, false, ast.FlagSummarize,
		"Opening balance for '%s' (Summarization)")

	opens := openEntriesAt(entries, date)
	if len(summaries) > 0 && !openedAccounts(opens)[account] {
		opens = append(opens, &ast.Open{Date: summaryDate, Account: account})
	}

	before := make([]ast.Directive, 0, len(opens)+len(summaries))
	before = append(before, opens...)
	before = append(before, lastPricesAt(entries, date)...)
	before = append(before, summaries...)
	ast.Sort(before)

	result := make([]ast.Directive, 0, len(before)+len(entries)-index)
	result = append(result, before...)
	result = append(result, entries[index:]...)
	return result, len(before)
}

// Truncate drops the entries dated on or after date. The result shares the
// input's backing array but cannot grow into it.
func Truncate(entries []ast.Directive, date ast.Date) []ast.Directive {
	index := len(entries)
	for i, entry := range entries {
		if !ast.DateOf(entry).Before(date) {
			index = i
			break
		}
	}
	return entries[:index:index]
}

// Clamp restricts entries to [begin, end). Income statement balances from
// before begin are first transferred to earnings, then everything before begin
// is summarized into opening balances against opening. The returned index
// separates the summary from the entries of the period.
func Clamp(entries []ast.Directive, begin, end ast.Date, types AccountTypes, earnings, opening ast.Account) ([]ast.Directive, int) {
	entries = Transfer(entries, &begin, types.IsIncomeStatement, earnings)
	entries, index := Summarize(entries, begin, opening)
	entries = Truncate(entries, end)
	return entries, min(index, len(entries))
}
