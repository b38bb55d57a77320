package errors

import (
	"encoding/json"
	stdErrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/ledger"
)

type positionalError struct {
	pos ast.Location
	msg string
}

func (e positionalError) Error() string             { return e.msg }
func (e positionalError) GetPosition() ast.Location { return e.pos }

const source = `entries:
  - {date: 2024-01-01, open: Assets:Cash}
  - {date: 2024-01-10, balance: Assets:Cash, amount: 10 USD}
  - {date: 2024-01-11, open: Expenses:Food}
`

func mismatch(filename string) *ledger.BalanceMismatchError {
	return &ledger.BalanceMismatchError{
		Expected: ast.MustAmount("10 USD"),
		Actual:   ast.MustAmount("0 USD"),
		Entry: &ast.Balance{
			Pos:     ast.Location{Filename: filename, Line: 3},
			Date:    ast.MustDate("2024-01-10"),
			Account: "Assets:Cash",
			Amount:  ast.MustAmount("10 USD"),
		},
	}
}

func TestTextFormatter_Format_WithSourceContext(t *testing.T) {
	tf := NewTextFormatter(WithSource("ledger.yaml", []byte(source)))

	output := tf.Format(mismatch("ledger.yaml"))
	lines := strings.Split(output, "\n")

	assert.Contains(t, lines[0], "ledger.yaml:3: Balance failed for 'Assets:Cash'")
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "   entries:", lines[2])
	assert.Equal(t, "     - {date: 2024-01-01, open: Assets:Cash}", lines[3])
	assert.Equal(t, ">    - {date: 2024-01-10, balance: Assets:Cash, amount: 10 USD}", lines[4])
	assert.Equal(t, "     - {date: 2024-01-11, open: Expenses:Food}", lines[5])
}

func TestTextFormatter_Format_ReadsFromDisk(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "ledger.yaml")
	assert.NoError(t, os.WriteFile(filename, []byte(source), 0o600))

	output := NewTextFormatter().Format(mismatch(filename))
	assert.Contains(t, output, ">    - {date: 2024-01-10")

	output = NewTextFormatter(WithoutDisk()).Format(mismatch(filename))
	assert.Contains(t, output, "   2024-01-10 balance Assets:Cash  10.00 USD")
}

func TestTextFormatter_Format_WithEntryContext(t *testing.T) {
	tf := NewTextFormatter()

	output := tf.Format(mismatch(""))
	assert.Contains(t, output, "2024-01-10: Balance failed for 'Assets:Cash'")
	assert.Contains(t, output, "\n\n   2024-01-10 balance Assets:Cash  10.00 USD\n")
}

func TestTextFormatter_Format_Plain(t *testing.T) {
	tf := NewTextFormatter()

	assert.Equal(t, "something went wrong", tf.Format(stdErrors.New("something went wrong")))

	// A position in an unknown file has no context to show.
	err := positionalError{pos: ast.Location{Filename: "missing.yaml", Line: 4}, msg: "missing.yaml:4: oops"}
	assert.Equal(t, "missing.yaml:4: oops", tf.Format(err))
}

func TestTextFormatter_WithStyles(t *testing.T) {
	brackets := func(s string) string { return "[" + s + "]" }
	tf := NewTextFormatter(
		WithSource("ledger.yaml", []byte(source)),
		WithStyles(strings.ToUpper, brackets, func(string) string { return "*" }),
	)

	output := tf.Format(mismatch("ledger.yaml"))
	assert.Contains(t, output, "BALANCE FAILED")
	assert.Contains(t, output, "*  [  - {date: 2024-01-10")
	assert.Contains(t, output, "   [entries:]")
}

func TestTextFormatter_FormatAll(t *testing.T) {
	tf := NewTextFormatter()
	assert.Equal(t, "", tf.FormatAll(nil))

	output := tf.FormatAll([]error{stdErrors.New("first"), stdErrors.New("second")})
	assert.Equal(t, "first\n\nsecond", output)
}

func TestEntryLines(t *testing.T) {
	date := ast.MustDate("2024-01-15")

	txn := ast.NewTransaction(date, "!", "", "Groceries",
		ast.NewPosting("Expenses:Food", ast.MustAmount("12.5 EUR")),
		ast.NewPosting("Assets:Cash", ast.MustAmount("-12.5 EUR")),
	)
	assert.Equal(t, []string{
		`2024-01-15 ! "Groceries"`,
		"  Expenses:Food  12.50 EUR",
		"  Assets:Cash  -12.50 EUR",
	}, EntryLines(txn))

	note := &ast.Note{Date: date, Account: "Assets:Cash", Comment: "counted"}
	assert.Equal(t, []string{`2024-01-15 note Assets:Cash "counted"`}, EntryLines(note))

	open := &ast.Open{Date: date, Account: "Assets:Cash"}
	assert.Equal(t, []string{"2024-01-15 open Assets:Cash"}, EntryLines(open))
}

func TestJSONFormatter_ToJSON(t *testing.T) {
	jf := NewJSONFormatter()

	errJSON := jf.ToJSON(mismatch("ledger.yaml"))
	assert.Equal(t, "*ledger.BalanceMismatchError", errJSON.Type)
	assert.Equal(t, &PositionJSON{Filename: "ledger.yaml", Line: 3}, errJSON.Position)
	assert.Equal(t, map[string]interface{}{
		"account": "Assets:Cash",
		"date":    "2024-01-10",
		"kind":    "Balance",
	}, errJSON.Details)

	errJSON = jf.ToJSON(stdErrors.New("plain"))
	assert.Equal(t, "plain", errJSON.Message)
	assert.Zero(t, errJSON.Position)
	assert.Zero(t, errJSON.Details)
}

func TestJSONFormatter_FormatAll(t *testing.T) {
	jf := NewJSONFormatter()

	assert.Equal(t, "[]", jf.FormatAll(nil))

	var decoded []ErrorJSON
	assert.NoError(t, json.Unmarshal([]byte(jf.FormatAll([]error{mismatch(""), stdErrors.New("plain")})), &decoded))
	assert.Equal(t, 2, len(decoded))
	assert.Zero(t, decoded[0].Position)
	assert.Equal(t, "Assets:Cash", decoded[0].Details["account"])
	assert.Equal(t, "plain", decoded[1].Message)

	assert.Contains(t, jf.Format(stdErrors.New("plain")), `"message":"plain"`)
}
