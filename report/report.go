// Package report computes the data behind the ledger pages: running balances
// over an account's activity, tables of balances over the account tree,
// journals, conversions, positions and the identifiers used to address tag and
// payee views.
//
// Everything here is a pure function of its inputs. Results are plain values
// that callers render as JSON or terminal tables.
package report
