package ledger

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/robinvdvleuten/beanreport/ast"
)

// Config holds parsed ledger options.
type Config struct {
	Title               string
	OperatingCurrencies []string
	AccountTypes        AccountTypes

	// Equity sub-accounts, relative to the equity root.
	AccountEarnings  string
	AccountOpening   string
	AccountNetIncome string
}

// NewConfig creates a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Title:            "Beancount",
		AccountTypes:     DefaultAccountTypes(),
		AccountEarnings:  "Earnings:Previous",
		AccountOpening:   "Opening-Balances",
		AccountNetIncome: "Earnings:Current",
	}
}

// EarningsAccount is where income and expenses from before a period go.
func (c *Config) EarningsAccount() ast.Account {
	return ast.JoinAccount(c.AccountTypes.Equity, c.AccountEarnings)
}

// OpeningAccount balances the opening entries of a period.
func (c *Config) OpeningAccount() ast.Account {
	return ast.JoinAccount(c.AccountTypes.Equity, c.AccountOpening)
}

// NetIncomeAccount receives the income and expenses of the period when the
// books are closed.
func (c *Config) NetIncomeAccount() ast.Account {
	return ast.JoinAccount(c.AccountTypes.Equity, c.AccountNetIncome)
}

var currencyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9'._-]{0,22}[A-Z0-9]$|^[A-Z]$`)

// ConfigFromOptions parses an options map into a Config.
// Supports:
//   - title
//   - operating_currency (repeatable)
//   - name_assets, name_liabilities, name_equity, name_income, name_expenses
//   - account_earnings, account_opening, account_netincome
//
// Unknown options are ignored.
func ConfigFromOptions(options map[string][]string) (*Config, error) {
	cfg := NewConfig()

	if vals := options["title"]; len(vals) > 0 {
		cfg.Title = vals[0]
	}

	seen := make(map[string]bool)
	for _, val := range options["operating_currency"] {
		currency := strings.TrimSpace(val)
		if !currencyPattern.MatchString(currency) {
			return nil, fmt.Errorf("invalid operating_currency %q", val)
		}
		if seen[currency] {
			continue
		}
		seen[currency] = true
		cfg.OperatingCurrencies = append(cfg.OperatingCurrencies, currency)
	}

	names := []struct {
		option string
		target *string
	}{
		{"name_assets", &cfg.AccountTypes.Assets},
		{"name_liabilities", &cfg.AccountTypes.Liabilities},
		{"name_equity", &cfg.AccountTypes.Equity},
		{"name_income", &cfg.AccountTypes.Income},
		{"name_expenses", &cfg.AccountTypes.Expenses},
	}
	for _, n := range names {
		if vals := options[n.option]; len(vals) > 0 {
			*n.target = vals[0]
		}
	}

	roots := make(map[string]bool)
	for _, root := range cfg.AccountTypes.Roots() {
		// A root must be a valid first component of a two component account.
		if _, err := ast.NewAccount(root + ":X"); err != nil || strings.Contains(root, ast.AccountSeparator) {
			return nil, fmt.Errorf("invalid account root name %q", root)
		}
		if roots[root] {
			return nil, fmt.Errorf("duplicate account root name %q", root)
		}
		roots[root] = true
	}

	subaccounts := []struct {
		option string
		target *string
	}{
		{"account_earnings", &cfg.AccountEarnings},
		{"account_opening", &cfg.AccountOpening},
		{"account_netincome", &cfg.AccountNetIncome},
	}
	for _, s := range subaccounts {
		if vals := options[s.option]; len(vals) > 0 {
			*s.target = vals[0]
		}
		full := ast.JoinAccount(cfg.AccountTypes.Equity, *s.target)
		if _, err := ast.NewAccount(string(full)); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", s.option, *s.target, err)
		}
	}

	return cfg, nil
}

// contextKey is a private type to avoid key collisions in context.
type contextKey struct{}

// WithContext returns a new context with the Config attached.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ConfigFromContext retrieves the Config from context.
// Returns a default Config if not found.
func ConfigFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		return cfg
	}
	return NewConfig()
}
