package loader

import (
	"bytes"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/beanreport/ast"
)

// File is the decoded content of a single snapshot file.
type File struct {
	Options  map[string][]string
	Includes []string
	Entries  []ast.Directive
}

// EntryError reports an entry that could not be decoded.
type EntryError struct {
	Pos ast.Location
	Err error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// GetPosition returns where the entry was declared.
func (e *EntryError) GetPosition() ast.Location { return e.Pos }

type document struct {
	Options yaml.Node   `yaml:"options"`
	Include []string    `yaml:"include"`
	Entries []yaml.Node `yaml:"entries"`
}

// date decodes "YYYY-MM-DD" scalars without going through YAML timestamps.
type date struct{ ast.Date }

func (d *date) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ast.NewDate(node.Value)
	if err != nil {
		return err
	}
	d.Date = parsed
	return nil
}

type amount struct{ ast.Amount }

func (a *amount) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ast.ParseAmount(node.Value)
	if err != nil {
		return err
	}
	a.Amount = parsed
	return nil
}

type rawPosting struct {
	Account string  `yaml:"account"`
	Units   amount  `yaml:"units"`
	Cost    *amount `yaml:"cost"`
	LotDate *date   `yaml:"lot_date"`
	Price   *amount `yaml:"price"`
	Flag    string  `yaml:"flag"`
}

// rawEntry holds the union of every entry kind's fields. Exactly one of the
// kind keys must be set.
type rawEntry struct {
	Date date `yaml:"date"`

	Open    *string `yaml:"open"`
	Close   *string `yaml:"close"`
	Balance *string `yaml:"balance"`
	Pad     *string `yaml:"pad"`
	Note    *string `yaml:"note"`
	Event   *string `yaml:"event"`
	Price   *string `yaml:"price"`
	Txn     *string `yaml:"txn"`

	Currencies  []string     `yaml:"currencies"`
	Amount      *amount      `yaml:"amount"`
	Source      string       `yaml:"source"`
	Comment     string       `yaml:"comment"`
	Description string       `yaml:"description"`
	Payee       string       `yaml:"payee"`
	Narration   string       `yaml:"narration"`
	Tags        []string     `yaml:"tags"`
	Links       []string     `yaml:"links"`
	Postings    []rawPosting `yaml:"postings"`
}

// Parse decodes one snapshot file. Every malformed entry is reported as an
// *EntryError; all of them are returned combined.
func Parse(filename string, r io.Reader) (*File, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	options, err := decodeOptions(&doc.Options)
	if err != nil {
		return nil, fmt.Errorf("%s:%d: options: %w", filename, doc.Options.Line, err)
	}

	file := &File{Options: options, Includes: doc.Include}
	var errs error
	for i := range doc.Entries {
		node := &doc.Entries[i]
		pos := ast.Location{Filename: filename, Line: node.Line}
		entry, err := decodeEntry(node, pos)
		if err != nil {
			errs = multierr.Append(errs, &EntryError{Pos: pos, Err: err})
			continue
		}
		file.Entries = append(file.Entries, entry)
	}
	if errs != nil {
		return nil, errs
	}
	return file, nil
}

// ParseBytes is Parse over an in-memory file.
func ParseBytes(filename string, data []byte) (*File, error) {
	return Parse(filename, bytes.NewReader(data))
}

// decodeOptions accepts scalar and sequence values.
func decodeOptions(node *yaml.Node) (map[string][]string, error) {
	options := make(map[string][]string)
	if node.Kind == 0 {
		return options, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		switch value.Kind {
		case yaml.ScalarNode:
			options[key] = append(options[key], value.Value)
		case yaml.SequenceNode:
			var values []string
			if err := value.Decode(&values); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			options[key] = append(options[key], values...)
		default:
			return nil, fmt.Errorf("%s: expected a string or a list of strings", key)
		}
	}
	return options, nil
}

func decodeEntry(node *yaml.Node, pos ast.Location) (ast.Directive, error) {
	var raw rawEntry
	if err := node.Decode(&raw); err != nil {
		return nil, err
	}
	if raw.Date.IsZero() {
		return nil, fmt.Errorf("missing date")
	}

	kinds := 0
	for _, key := range []*string{raw.Open, raw.Close, raw.Balance, raw.Pad, raw.Note, raw.Event, raw.Price, raw.Txn} {
		if key != nil {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, fmt.Errorf("expected exactly one of open, close, balance, pad, note, event, price or txn, found %d", kinds)
	}

	d := raw.Date.Date
	switch {
	case raw.Open != nil:
		account, err := ast.NewAccount(*raw.Open)
		if err != nil {
			return nil, err
		}
		return &ast.Open{Pos: pos, Date: d, Account: account, Currencies: raw.Currencies}, nil

	case raw.Close != nil:
		account, err := ast.NewAccount(*raw.Close)
		if err != nil {
			return nil, err
		}
		return &ast.Close{Pos: pos, Date: d, Account: account}, nil

	case raw.Balance != nil:
		account, err := ast.NewAccount(*raw.Balance)
		if err != nil {
			return nil, err
		}
		if raw.Amount == nil {
			return nil, fmt.Errorf("balance %s: missing amount", account)
		}
		return &ast.Balance{Pos: pos, Date: d, Account: account, Amount: raw.Amount.Amount}, nil

	case raw.Pad != nil:
		account, err := ast.NewAccount(*raw.Pad)
		if err != nil {
			return nil, err
		}
		source, err := ast.NewAccount(raw.Source)
		if err != nil {
			return nil, fmt.Errorf("pad source: %w", err)
		}
		return &ast.Pad{Pos: pos, Date: d, Account: account, Source: source}, nil

	case raw.Note != nil:
		account, err := ast.NewAccount(*raw.Note)
		if err != nil {
			return nil, err
		}
		return &ast.Note{Pos: pos, Date: d, Account: account, Comment: raw.Comment}, nil

	case raw.Event != nil:
		return &ast.Event{Pos: pos, Date: d, Type: *raw.Event, Description: raw.Description}, nil

	case raw.Price != nil:
		if raw.Amount == nil {
			return nil, fmt.Errorf("price %s: missing amount", *raw.Price)
		}
		return &ast.Price{Pos: pos, Date: d, Currency: *raw.Price, Amount: raw.Amount.Amount}, nil
	}

	return decodeTransaction(&raw, pos)
}

func decodeTransaction(raw *rawEntry, pos ast.Location) (*ast.Transaction, error) {
	flag := *raw.Txn
	if flag == "" {
		flag = ast.FlagOK
	}
	if len(raw.Postings) == 0 {
		return nil, fmt.Errorf("transaction without postings")
	}

	txn := ast.NewTransaction(raw.Date.Date, flag, raw.Payee, raw.Narration)
	txn.Pos = pos
	txn.Tags = raw.Tags
	txn.Links = raw.Links

	for i, rp := range raw.Postings {
		account, err := ast.NewAccount(rp.Account)
		if err != nil {
			return nil, fmt.Errorf("posting %d: %w", i+1, err)
		}
		if rp.Units.Currency == "" {
			return nil, fmt.Errorf("posting %d: missing units", i+1)
		}
		posting := ast.NewPosting(account, rp.Units.Amount)
		posting.Flag = rp.Flag
		if rp.Cost != nil {
			posting.Cost = &ast.Cost{Amount: rp.Cost.Amount}
			if rp.LotDate != nil {
				lotDate := rp.LotDate.Date
				posting.Cost.Date = &lotDate
			}
		} else if rp.LotDate != nil {
			return nil, fmt.Errorf("posting %d: lot_date without cost", i+1)
		}
		if rp.Price != nil {
			price := rp.Price.Amount
			posting.Price = &price
		}
		txn.AddPostings(posting)
	}
	return txn, nil
}
