package errors_test

import (
	"fmt"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/errors"
	"github.com/robinvdvleuten/beanreport/ledger"
)

// Example showing how to use TextFormatter for CLI output
func ExampleTextFormatter() {
	err := &ledger.AccountNotOpenError{
		Account: "Assets:Checking",
		Entry: &ast.Open{
			Date:    ast.MustDate("2024-01-01"),
			Account: "Assets:Checking",
		},
	}

	formatter := errors.NewTextFormatter()
	fmt.Print(formatter.Format(err))
	// Output:
	// 2024-01-01: Invalid reference to unknown account 'Assets:Checking'
	//
	//    2024-01-01 open Assets:Checking
}

// Example showing how to use JSONFormatter for API/web output
func ExampleJSONFormatter() {
	err := &ledger.AccountNotOpenError{
		Account: "Expenses:Food",
		Entry: &ast.Open{
			Pos:     ast.Location{Filename: "main.yaml", Line: 7},
			Date:    ast.MustDate("2024-01-01"),
			Account: "Expenses:Food",
		},
	}

	formatter := errors.NewJSONFormatter()
	fmt.Println(formatter.Format(err))
	// Output:
	// {"type":"*ledger.AccountNotOpenError","message":"main.yaml:7: Invalid reference to unknown account 'Expenses:Food'","position":{"filename":"main.yaml","line":7},"details":{"account":"Expenses:Food","date":"2024-01-01","kind":"Open"}}
}
