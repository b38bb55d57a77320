package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	errfmt "github.com/robinvdvleuten/beanreport/errors"
	"github.com/robinvdvleuten/beanreport/view"
)

const household = `options:
  title: Household
  operating_currency: USD
entries:
  - {date: 2019-01-01, open: Assets:Bank}
  - {date: 2019-01-01, open: Income:Salary}
  - {date: 2019-01-01, open: Expenses:Food}
  - date: 2019-01-31
    txn: "*"
    payee: Employer
    narration: Salary
    postings:
      - {account: Assets:Bank, units: 1000 USD}
      - {account: Income:Salary, units: -1000 USD}
  - date: 2020-03-01
    txn: "*"
    payee: Grocer
    narration: Food
    tags: [groceries]
    postings:
      - {account: Expenses:Food, units: 200 USD}
      - {account: Assets:Bank, units: -200 USD}
  - {date: 2020-06-30, balance: Assets:Bank, amount: 800 USD}
`

func newTestServer(t *testing.T, content string) (*Server, string, http.Handler) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	server := New(8080, path)
	assert.NoError(t, server.reloadLedger(context.Background()))
	return server, path, server.setupRouter()
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestRedirects(t *testing.T) {
	_, _, router := newTestServer(t, household)

	tests := []struct {
		path     string
		location string
	}{
		{"/", "/toc"},
		{"/view/all", "/view/all/balsheet"},
		{"/view/all/", "/view/all/balsheet"},
		{"/view/year/2020/", "/view/year/2020/balsheet"},
		{"/view/all/journal", "/view/all/account/"},
		{"/view/payee/Grocer/journal", "/view/payee/Grocer/account/"},
	}
	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			rec := get(t, router, test.path)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, test.location, rec.Header().Get("Location"))
		})
	}
}

func TestTOC(t *testing.T) {
	_, _, router := newTestServer(t, household)

	rec := get(t, router, "/toc")
	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Title string      `json:"title"`
		Views []view.Link `json:"views"`
		Pages []string    `json:"pages"`
	}
	decode(t, rec, &response)

	assert.Equal(t, "Household", response.Title)
	assert.Equal(t, view.Pages, response.Pages)

	var keys []string
	for _, link := range response.Views {
		keys = append(keys, link.Key)
	}
	assert.Equal(t, []string{
		"/view/all",
		"/view/year/2020",
		"/view/year/2019",
		"/view/tag/groceries",
		"/view/payee/Employer",
		"/view/payee/Grocer",
	}, keys)
}

func TestPages(t *testing.T) {
	_, _, router := newTestServer(t, household)

	t.Run("BalanceSheet", func(t *testing.T) {
		rec := get(t, router, "/view/year/2020/balsheet")
		assert.Equal(t, http.StatusOK, rec.Code)

		var page view.TreePage
		decode(t, rec, &page)
		assert.Equal(t, "Year 2020", page.View)
		assert.Equal(t, view.PageBalanceSheet, page.Page)
		assert.Equal(t, "Assets", page.Tables[0].Root)
		assert.Equal(t, view.TreeRow{Account: "Assets:Bank", Depth: 1, Amounts: []string{"800.00"}}, page.Tables[0].Rows[1])
	})

	t.Run("IncomeStatement", func(t *testing.T) {
		rec := get(t, router, "/view/year/2020/income")
		assert.Equal(t, http.StatusOK, rec.Code)

		var page view.TreePage
		decode(t, rec, &page)
		assert.Equal(t, []string{"200.00 USD"}, page.NetIncome)
	})

	t.Run("EveryPage", func(t *testing.T) {
		for _, name := range view.Pages {
			rec := get(t, router, "/view/all/"+name)
			assert.Equal(t, http.StatusOK, rec.Code, name)
		}
	})

	t.Run("UnknownPage", func(t *testing.T) {
		rec := get(t, router, "/view/all/bogus")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestJournal(t *testing.T) {
	_, _, router := newTestServer(t, household)

	t.Run("Account", func(t *testing.T) {
		rec := get(t, router, "/view/all/account/Assets/Bank")
		assert.Equal(t, http.StatusOK, rec.Code)

		var page view.JournalPage
		decode(t, rec, &page)
		assert.Equal(t, "Assets:Bank", page.Account)
		assert.Equal(t, 4, len(page.Entries))
		last := page.Entries[len(page.Entries)-1]
		assert.Equal(t, "Balance", last.Kind)
		assert.Equal(t, []string{"800.00 USD"}, last.Balance)
	})

	t.Run("WholeLedger", func(t *testing.T) {
		rec := get(t, router, "/view/payee/Grocer/account/")
		assert.Equal(t, http.StatusOK, rec.Code)

		var page view.JournalPage
		decode(t, rec, &page)
		assert.Equal(t, "", page.Account)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		rec := get(t, router, "/view/all/account/Assets/Wallet")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUnknownScope(t *testing.T) {
	_, _, router := newTestServer(t, household)

	for _, path := range []string{
		"/view/tag/nope/balsheet",
		"/view/payee/Nobody/balsheet",
		"/view/year/20x0/balsheet",
		"/view/month/2020/balsheet",
	} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, router, path)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestViewConstructionFailure(t *testing.T) {
	server, _, router := newTestServer(t, household+`  - date: 2020-07-01
    txn: "*"
    payee: Bakery
    postings:
      - {account: Expenses:Bread, units: 5 USD}
      - {account: Assets:Bank, units: -5 USD}
`)

	for i := 0; i < 2; i++ {
		rec := get(t, router, "/view/all/balsheet")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Expenses:Bread")
	}

	rec := get(t, router, "/view/payee/Bakery/balsheet")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"/view/payee/Bakery"}, server.current().views.Cache().Keys())
}

func TestErrors(t *testing.T) {
	_, path, router := newTestServer(t, household+`  - {date: 2020-07-01, balance: Assets:Bank, amount: 900 USD}
`)

	rec := get(t, router, "/errors")
	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Errors []errfmt.ErrorJSON `json:"errors"`
	}
	decode(t, rec, &response)
	assert.Equal(t, 1, len(response.Errors))
	assert.Equal(t, &errfmt.PositionJSON{Filename: path, Line: 24}, response.Errors[0].Position)
	assert.Equal(t, "Assets:Bank", response.Errors[0].Details["account"])
	assert.Equal(t, "Balance", response.Errors[0].Details["kind"])

	rec = get(t, router, "/view/all/account/Assets/Bank")
	var page view.JournalPage
	decode(t, rec, &page)
	assert.Equal(t, "CheckFail", page.Entries[len(page.Entries)-1].Kind)
}

func TestStatus(t *testing.T) {
	server, path, router := newTestServer(t, household)
	server.Version = "1.2.3"

	// Build one view so it shows up as cached.
	assert.Equal(t, http.StatusOK, get(t, router, "/view/all/balsheet").Code)

	var status statusResponse
	decode(t, get(t, router, "/status"), &status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Equal(t, path, status.Root)
	assert.Equal(t, []string{}, status.Includes)
	assert.Equal(t, []string{"/view/all"}, status.CachedViews)
	assert.False(t, status.Stale)

	t.Run("StaleAfterFailedReload", func(t *testing.T) {
		assert.NoError(t, os.WriteFile(path, []byte("entries:\n  - {date: nope}\n"), 0o644))
		assert.Error(t, server.reloadLedger(context.Background()))

		var status statusResponse
		decode(t, get(t, router, "/status"), &status)
		assert.True(t, status.Stale)
		assert.Contains(t, status.ReloadError, "main.yaml:2")

		// The previous snapshot is still served.
		assert.Equal(t, http.StatusOK, get(t, router, "/view/year/2020/balsheet").Code)
	})

	t.Run("FreshAfterReload", func(t *testing.T) {
		assert.NoError(t, os.WriteFile(path, []byte(household), 0o644))
		assert.NoError(t, server.reloadLedger(context.Background()))

		var status statusResponse
		decode(t, get(t, router, "/status"), &status)
		assert.False(t, status.Stale)
		assert.Equal(t, 0, len(status.CachedViews))
	})
}

func TestPreload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(household), 0o644))

	server := New(8080, path)
	server.PreloadLimit = 2
	assert.NoError(t, server.reloadLedger(context.Background()))

	// Requests during the preload share its builds.
	router := server.setupRouter()
	assert.Equal(t, http.StatusOK, get(t, router, "/view/tag/groceries/trial").Code)
}

func TestBroadcast(t *testing.T) {
	server := New(8080, "")
	client := make(chan string, 1)
	server.sseClients[client] = struct{}{}

	server.broadcast("reload")
	assert.Equal(t, "reload", <-client)

	// Full buffers are skipped.
	server.broadcast("one")
	server.broadcast("two")
	assert.Equal(t, "one", <-client)
}
