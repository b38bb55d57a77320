// Large Snapshot Generator
//
// This tool generates a large ledger snapshot for performance testing and profiling.
// It creates realistic transactions spread over several years, tags and payees so
// that every kind of view has plenty of entries to iterate.
//
// Usage:
//
//	go run main.go > large.yaml
//	go run main.go 20000000 > large.yaml  # Specify target size in bytes
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
)

var (
	accounts = []string{
		"Assets:Bank:Checking",
		"Assets:Bank:Savings",
		"Assets:Brokerage:Cash",
		"Liabilities:CreditCard:Visa",
		"Liabilities:CreditCard:Amex",
		"Income:Salary",
		"Income:Bonus",
		"Income:Investments:Dividends",
		"Income:Investments:Interest",
		"Expenses:Food:Groceries",
		"Expenses:Food:Restaurant",
		"Expenses:Housing:Rent",
		"Expenses:Housing:Utilities",
		"Expenses:Transport:Gas",
		"Expenses:Transport:Transit",
		"Expenses:Shopping:Clothing",
		"Expenses:Shopping:Electronics",
		"Expenses:Entertainment:Movies",
		"Expenses:Entertainment:Concerts",
		"Expenses:Healthcare:Medical",
		"Expenses:Healthcare:Dental",
		"Expenses:Taxes:Federal",
		"Expenses:Taxes:State",
		"Expenses:Commissions",
		"Equity:Opening-Balances",
	}

	payees = []string{
		"Whole Foods", "Safeway", "Trader Joe's", "Costco",
		"Shell Gas", "Chevron", "BART", "Uber",
		"Landlord", "PG&E", "Comcast", "AT&T",
		"Amazon", "Target", "Best Buy", "Apple Store",
		"Netflix", "Spotify", "AMC Theaters",
		"Employer Inc", "Fidelity", "Vanguard",
	}

	narrations = []string{
		"Grocery shopping", "Fuel purchase", "Rent payment",
		"Salary deposit", "Stock purchase", "Utility bill",
		"Online purchase", "Restaurant dinner", "Coffee",
		"Monthly subscription", "Medical appointment",
		"Investment contribution", "Dividend payment",
		"Tax payment", "Insurance premium", "Gift",
	}

	tags = []string{
		"personal", "business", "vacation", "tax-deductible",
		"reimbursable", "investment", "savings",
	}

	links = []string{
		"invoice-2023-001", "receipt-march", "annual-review",
		"rebalance-q1", "tax-2023", "bonus-cycle",
	}

	currencies = []string{"USD", "EUR", "GBP", "CAD"}
	stocks     = []string{"AAPL", "MSFT", "GOOGL", "TSLA", "AMZN", "VTI", "VXUS"}
)

type posting struct {
	Account string `yaml:"account"`
	Units   string `yaml:"units"`
	Cost    string `yaml:"cost,omitempty"`
	Price   string `yaml:"price,omitempty"`
}

type entry struct {
	Date      string    `yaml:"date"`
	Open      string    `yaml:"open,omitempty"`
	Balance   string    `yaml:"balance,omitempty"`
	Price     string    `yaml:"price,omitempty"`
	Txn       string    `yaml:"txn,omitempty"`
	Amount    string    `yaml:"amount,omitempty"`
	Payee     string    `yaml:"payee,omitempty"`
	Narration string    `yaml:"narration,omitempty"`
	Tags      []string  `yaml:"tags,omitempty"`
	Links     []string  `yaml:"links,omitempty"`
	Postings  []posting `yaml:"postings,omitempty"`
}

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	w := bufio.NewWriter(os.Stdout)
	defer func() { _ = w.Flush() }()

	writeHeader(w)

	// Generate entries until we reach target size
	currentDate := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	bytesWritten := 0
	transactionCount := 0

	for bytesWritten < targetSize {
		var e entry

		// Mix different kinds of entries
		switch rand.Intn(10) {
		case 0, 1, 2, 3: // 40% - Simple transaction
			e = generateSimpleTransaction(currentDate)
			transactionCount++

		case 4, 5: // 20% - Investment transaction with cost
			e = generateInvestmentTransaction(currentDate)
			transactionCount++

		case 6: // 10% - Multi-currency transaction
			e = generateMultiCurrencyTransaction(currentDate)
			transactionCount++

		case 7: // 10% - Complex transaction with tags and links
			e = generateComplexTransaction(currentDate)
			transactionCount++

		case 8: // 10% - Balance assertion
			e = generateBalanceAssertion(currentDate)

		case 9: // 10% - Price entry
			e = generatePriceEntry(currentDate)
		}

		n, err := writeEntry(w, e)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		bytesWritten += n

		// Advance date by 0-2 days
		currentDate = currentDate.AddDate(0, 0, rand.Intn(3))
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d bytes with %d transactions\n", bytesWritten, transactionCount)
}

func writeHeader(w *bufio.Writer) {
	fmt.Fprintln(w, "# Large ledger snapshot for performance testing")
	fmt.Fprintln(w, "# Generated:", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, "options:")
	fmt.Fprintln(w, "  title: Performance Test Ledger")
	fmt.Fprintln(w, "  operating_currency: [USD, EUR]")
	fmt.Fprintln(w, "entries:")

	// Open all accounts
	for _, account := range accounts {
		fmt.Fprintf(w, "- {date: 2020-01-01, open: %s}\n", account)
	}
	for _, stock := range stocks {
		fmt.Fprintf(w, "- {date: 2020-01-01, open: Assets:Brokerage:%s}\n", stock)
	}
}

// writeEntry appends e as one item of the entries sequence.
func writeEntry(w *bufio.Writer, e entry) (int, error) {
	data, err := yaml.Marshal([]entry{e})
	if err != nil {
		return 0, err
	}
	return w.Write(data)
}

func generateSimpleTransaction(date time.Time) entry {
	amount := randAmount(10, 500)

	// Pick two accounts
	acc1 := accounts[rand.Intn(len(accounts))]
	acc2 := accounts[rand.Intn(len(accounts))]

	return entry{
		Date:      date.Format(time.DateOnly),
		Txn:       "*",
		Payee:     payees[rand.Intn(len(payees))],
		Narration: narrations[rand.Intn(len(narrations))],
		Postings: []posting{
			{Account: acc1, Units: usd(amount)},
			{Account: acc2, Units: usd(amount.Neg())},
		},
	}
}

func generateInvestmentTransaction(date time.Time) entry {
	stock := stocks[rand.Intn(len(stocks))]
	shares := decimal.NewFromInt(int64(rand.Intn(50) + 1))
	pricePerShare := randAmount(50, 500)
	commission := decimal.RequireFromString("9.99")
	total := shares.Mul(pricePerShare).Add(commission)

	return entry{
		Date:      date.Format(time.DateOnly),
		Txn:       "*",
		Payee:     "Fidelity",
		Narration: "Buy " + stock,
		Tags:      []string{"investment"},
		Postings: []posting{
			{Account: "Assets:Brokerage:Cash", Units: usd(total.Neg())},
			{Account: "Assets:Brokerage:" + stock, Units: shares.String() + " " + stock, Cost: usd(pricePerShare)},
			{Account: "Expenses:Commissions", Units: usd(commission)},
		},
	}
}

func generateMultiCurrencyTransaction(date time.Time) entry {
	amount := randAmount(100, 2000)
	currency := currencies[1+rand.Intn(len(currencies)-1)]
	exchangeRate := randAmount(1, 2)
	converted := amount.Mul(exchangeRate)

	return entry{
		Date:      date.Format(time.DateOnly),
		Txn:       "*",
		Narration: "Currency exchange",
		Postings: []posting{
			{Account: "Assets:Bank:Checking", Units: usd(amount.Neg()), Price: exchangeRate.StringFixed(2) + " " + currency},
			{Account: "Assets:Bank:Savings", Units: converted.String() + " " + currency},
		},
	}
}

func generateComplexTransaction(date time.Time) entry {
	amounts := []decimal.Decimal{
		randAmount(100, 500),
		randAmount(50, 200),
		randAmount(20, 100),
	}
	total := decimal.Sum(amounts[0], amounts[1:]...)

	return entry{
		Date:      date.Format(time.DateOnly),
		Txn:       "*",
		Payee:     payees[rand.Intn(len(payees))],
		Narration: narrations[rand.Intn(len(narrations))],
		Tags:      []string{tags[rand.Intn(len(tags))], tags[rand.Intn(len(tags))]},
		Links:     []string{links[rand.Intn(len(links))]},
		Postings: []posting{
			{Account: "Expenses:Food:Restaurant", Units: usd(amounts[0])},
			{Account: "Expenses:Food:Groceries", Units: usd(amounts[1])},
			{Account: "Expenses:Transport:Gas", Units: usd(amounts[2])},
			{Account: "Assets:Bank:Checking", Units: usd(total.Neg())},
		},
	}
}

func generateBalanceAssertion(date time.Time) entry {
	return entry{
		Date:    date.Format(time.DateOnly),
		Balance: accounts[rand.Intn(len(accounts))],
		Amount:  usd(randAmount(1000, 50000)),
	}
}

func generatePriceEntry(date time.Time) entry {
	return entry{
		Date:   date.Format(time.DateOnly),
		Price:  stocks[rand.Intn(len(stocks))],
		Amount: usd(randAmount(50, 500)),
	}
}

// Helper functions

func randAmount(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(min + rand.Float64()*(max-min)).Round(2)
}

func usd(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " USD"
}
