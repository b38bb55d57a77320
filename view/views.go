package view

import (
	"context"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/ledger"
)

// Views serves the views of one ledger snapshot, building each on first use.
type Views struct {
	entries  []ast.Directive
	config   *ledger.Config
	resolver *Resolver
	cache    *Cache
}

// NewViews indexes a snapshot. entries must be sorted; neither entries nor
// config are modified afterwards.
func NewViews(entries []ast.Directive, config *ledger.Config) (*Views, error) {
	resolver, err := NewResolver(entries)
	if err != nil {
		return nil, err
	}
	return &Views{
		entries:  entries,
		config:   config,
		resolver: resolver,
		cache:    NewCache(),
	}, nil
}

// Get returns the view of key, building it when it is not cached yet. Keys
// that name no view fail with ErrUnknownScope.
func (s *Views) Get(ctx context.Context, key string) (*View, error) {
	filter, err := s.resolver.Resolve(key)
	if err != nil {
		return nil, err
	}
	return s.cache.GetOrCreate(key, func() (*View, error) {
		return New(ctx, s.entries, s.config, filter)
	})
}

// Preload builds every view of the table of contents, limit at a time.
func (s *Views) Preload(ctx context.Context, limit int) error {
	return s.cache.Preload(ctx, s.resolver.Keys(), limit, func(ctx context.Context, key string) (*View, error) {
		filter, err := s.resolver.Resolve(key)
		if err != nil {
			return nil, err
		}
		return New(ctx, s.entries, s.config, filter)
	})
}

// Entries returns the snapshot's entries.
func (s *Views) Entries() []ast.Directive { return s.entries }

// Config returns the snapshot's configuration.
func (s *Views) Config() *ledger.Config { return s.config }

// Resolver returns the scope resolver.
func (s *Views) Resolver() *Resolver { return s.resolver }

// Cache returns the view cache.
func (s *Views) Cache() *Cache { return s.cache }
