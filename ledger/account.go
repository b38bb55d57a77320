package ledger

import (
	"github.com/robinvdvleuten/beanreport/ast"
)

// AccountType represents the category of an account
type AccountType int

const (
	AccountTypeUnknown AccountType = iota
	AccountTypeAssets
	AccountTypeLiabilities
	AccountTypeEquity
	AccountTypeIncome
	AccountTypeExpenses
)

// String returns the string representation of the account type
func (t AccountType) String() string {
	switch t {
	case AccountTypeAssets:
		return "Assets"
	case AccountTypeLiabilities:
		return "Liabilities"
	case AccountTypeEquity:
		return "Equity"
	case AccountTypeIncome:
		return "Income"
	case AccountTypeExpenses:
		return "Expenses"
	default:
		return "Unknown"
	}
}

// AccountTypes maps each category to the root component used for it in the
// ledger. Ledgers may rename the roots through the name_* options.
type AccountTypes struct {
	Assets      string
	Liabilities string
	Equity      string
	Income      string
	Expenses    string
}

// DefaultAccountTypes returns the standard English root names.
func DefaultAccountTypes() AccountTypes {
	return AccountTypes{
		Assets:      "Assets",
		Liabilities: "Liabilities",
		Equity:      "Equity",
		Income:      "Income",
		Expenses:    "Expenses",
	}
}

// Roots returns the root names in balance sheet then income statement order.
func (t AccountTypes) Roots() []string {
	return []string{t.Assets, t.Liabilities, t.Equity, t.Income, t.Expenses}
}

// Name returns the root name of a category.
func (t AccountTypes) Name(typ AccountType) string {
	switch typ {
	case AccountTypeAssets:
		return t.Assets
	case AccountTypeLiabilities:
		return t.Liabilities
	case AccountTypeEquity:
		return t.Equity
	case AccountTypeIncome:
		return t.Income
	case AccountTypeExpenses:
		return t.Expenses
	}
	return ""
}

// TypeOf returns the category of an account from its root component.
func (t AccountTypes) TypeOf(account ast.Account) AccountType {
	switch account.Root() {
	case t.Assets:
		return AccountTypeAssets
	case t.Liabilities:
		return AccountTypeLiabilities
	case t.Equity:
		return AccountTypeEquity
	case t.Income:
		return AccountTypeIncome
	case t.Expenses:
		return AccountTypeExpenses
	}
	return AccountTypeUnknown
}

// IsRoot reports whether account is exactly one of the category roots.
func (t AccountTypes) IsRoot(account ast.Account) bool {
	if account.Depth() != 1 {
		return false
	}
	return t.TypeOf(account) != AccountTypeUnknown
}

// IsBalanceSheet reports whether account belongs to Assets, Liabilities or
// Equity.
func (t AccountTypes) IsBalanceSheet(account ast.Account) bool {
	switch t.TypeOf(account) {
	case AccountTypeAssets, AccountTypeLiabilities, AccountTypeEquity:
		return true
	}
	return false
}

// IsIncomeStatement reports whether account belongs to Income or Expenses.
func (t AccountTypes) IsIncomeStatement(account ast.Account) bool {
	switch t.TypeOf(account) {
	case AccountTypeIncome, AccountTypeExpenses:
		return true
	}
	return false
}
