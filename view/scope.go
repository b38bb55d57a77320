package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/report"
)

// ErrUnknownScope is returned for paths and scopes that name no view.
var ErrUnknownScope = errors.New("unknown view scope")

// Scope kinds, the second segment of a view path.
const (
	ScopeAll   = "all"
	ScopeYear  = "year"
	ScopeTag   = "tag"
	ScopePayee = "payee"
)

// pathDepth is the number of leading path segments that identify a view.
var pathDepth = map[string]int{
	ScopeAll:   2,
	ScopeYear:  3,
	ScopeTag:   3,
	ScopePayee: 3,
}

// KeyFromPath returns the cache key of a request path: its leading segments
// up to and including the scope parameter, for example "/view/year/2020"
// for "/view/year/2020/balsheet".
func KeyFromPath(path string) (string, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 || segments[0] != "view" {
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, path)
	}
	depth, ok := pathDepth[segments[1]]
	if !ok || len(segments) < depth || segments[depth-1] == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, path)
	}
	return "/" + strings.Join(segments[:depth], "/"), nil
}

// KeyFromScope converts a command line scope ("all", "year:2020", "tag:ID",
// "payee:ID") into a cache key.
func KeyFromScope(scope string) (string, error) {
	kind, param, hasParam := strings.Cut(scope, ":")
	depth, ok := pathDepth[kind]
	if !ok || hasParam != (depth == 3) || (hasParam && param == "") {
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}
	if !hasParam {
		return "/view/" + kind, nil
	}
	return "/view/" + kind + "/" + param, nil
}

// Resolver maps scope keys to filters. Tags and payees are addressed by the
// ids report.ComputeIDs derives from them.
type Resolver struct {
	tags   []report.IDPair
	payees []report.IDPair
	tagIDs map[string]string
	payIDs map[string]string
	years  []int
}

// NewResolver indexes the tags, payees and years of entries. It fails when
// tags or payees cannot be given unique ids.
func NewResolver(entries []ast.Directive) (*Resolver, error) {
	tags, err := report.ComputeIDs(report.AllTags(entries))
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	payees, err := report.ComputeIDs(report.AllPayees(entries))
	if err != nil {
		return nil, fmt.Errorf("payees: %w", err)
	}
	return &Resolver{
		tags:   tags,
		payees: payees,
		tagIDs: report.IDMap(tags),
		payIDs: report.IDMap(payees),
		years:  report.ActiveYears(entries),
	}, nil
}

// Resolve returns the filter of a cache key.
func (r *Resolver) Resolve(key string) (Filter, error) {
	segments := strings.Split(strings.Trim(key, "/"), "/")
	if len(segments) < 2 || segments[0] != "view" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, key)
	}

	switch {
	case segments[1] == ScopeAll && len(segments) == 2:
		return All{}, nil
	case len(segments) != 3:
	case segments[1] == ScopeYear:
		if isYear(segments[2]) {
			year, _ := strconv.Atoi(segments[2])
			return Year{Year: year}, nil
		}
	case segments[1] == ScopeTag:
		if tag, ok := r.tagIDs[segments[2]]; ok {
			return Tag{Tags: []string{tag}}, nil
		}
	case segments[1] == ScopePayee:
		if payee, ok := r.payIDs[segments[2]]; ok {
			return Payee{Payee: payee}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScope, key)
}

// isYear reports whether s is a four digit year without a leading zero, the
// only form TableOfContents produces.
func isYear(s string) bool {
	if len(s) != 4 || s[0] == '0' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Link is a view in the table of contents.
type Link struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// TableOfContents lists the views of the ledger: all entries, every active
// year starting with the most recent, then every tag and every payee.
func (r *Resolver) TableOfContents() []Link {
	links := []Link{{Key: "/view/all", Title: All{}.Title()}}
	for i := len(r.years) - 1; i >= 0; i-- {
		year := r.years[i]
		links = append(links, Link{Key: fmt.Sprintf("/view/year/%d", year), Title: Year{Year: year}.Title()})
	}
	for _, p := range r.tags {
		links = append(links, Link{Key: "/view/tag/" + p.ID, Title: Tag{Tags: []string{p.String}}.Title()})
	}
	for _, p := range r.payees {
		links = append(links, Link{Key: "/view/payee/" + p.ID, Title: Payee{Payee: p.String}.Title()})
	}
	return links
}

// Keys returns the keys of every view in the table of contents.
func (r *Resolver) Keys() []string {
	links := r.TableOfContents()
	keys := make([]string, len(links))
	for i, link := range links {
		keys[i] = link.Key
	}
	return keys
}
