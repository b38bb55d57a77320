package view

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes views by scope key. Views are built at most once per key,
// even when several goroutines ask for the same key at the same time. Failed
// builds are not remembered. Nothing is ever evicted.
type Cache struct {
	mu    sync.RWMutex
	views map[string]*View
	group singleflight.Group
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{views: make(map[string]*View)}
}

// Get returns the view cached under key.
func (c *Cache) Get(key string) (*View, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.views[key]
	return v, ok
}

// GetOrCreate returns the view cached under key, calling factory to build it
// when missing. Concurrent calls for one key share a single factory call;
// calls for different keys build in parallel.
func (c *Cache) GetOrCreate(key string, factory func() (*View, error)) (*View, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Another flight may have stored the view since the lookup above.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := factory()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.views[key] = v
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*View), nil
}

// Len returns the number of cached views.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.views)
}

// Keys returns the sorted keys of the cached views.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	keys := maps.Keys(c.views)
	c.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// Preload builds the views of keys with at most limit builds running at once.
// All failures are returned combined; successful views stay cached.
func (c *Cache) Preload(ctx context.Context, keys []string, limit int, factory func(ctx context.Context, key string) (*View, error)) error {
	g := new(errgroup.Group)
	if limit > 0 {
		g.SetLimit(limit)
	}

	var mu sync.Mutex
	var errs error
	for _, key := range keys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := c.GetOrCreate(key, func() (*View, error) {
				return factory(ctx, key)
			})
			mu.Lock()
			errs = multierr.Append(errs, err)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return multierr.Append(errs, err)
	}
	return errs
}
