package client

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key identifies a cached query: an endpoint path plus its filters.
type Key struct {
	Path   string
	Params url.Values
}

// String renders the key as path?params with params sorted by name, so
// the same filters in any order share an entry.  Empty values are dropped.
func (k Key) String() string {
	clean := url.Values{}
	for name, vals := range k.Params {
		for _, v := range vals {
			if v != "" {
				clean.Add(name, v)
			}
		}
	}
	if len(clean) == 0 {
		return k.Path
	}
	return k.Path + "?" + clean.Encode()
}

// QueryCache holds the last settled response per key.  Concurrent fetches
// of one key share a single request, which outlives the cancellation of any
// one caller and is bounded by sharedFetchTimeout.
type QueryCache struct {
	mu      sync.Mutex
	entries map[string]any
	flight  singleflight.Group
}

func NewQueryCache() *QueryCache {
	return &QueryCache{entries: make(map[string]any)}
}

// Get returns the cached value for key.
func (q *QueryCache) Get(key Key) (any, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	v, ok := q.entries[key.String()]
	return v, ok
}

// Set stores v for key, replacing any earlier value.
func (q *QueryCache) Set(key Key, v any) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries[key.String()] = v
}

// Delete drops the entry for exactly key.
func (q *QueryCache) Delete(key Key) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.entries, key.String())
}

// Invalidate drops every entry whose key starts with prefix and returns how
// many were dropped.
func (q *QueryCache) Invalidate(prefix string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for k := range q.entries {
		if strings.HasPrefix(k, prefix) {
			delete(q.entries, k)
			n++
		}
	}
	return n
}

// Len reports the number of cached entries.
func (q *QueryCache) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// sharedFetchTimeout bounds a request shared by concurrent callers.
const sharedFetchTimeout = 15 * time.Second

// fetch returns the cached value for key or runs fn once for all
// concurrent callers and caches a successful result.  Failures are not
// cached.  A caller whose ctx ends stops waiting with ctx.Err(); the shared
// request carries on for the others.
func fetch[T any](ctx context.Context, q *QueryCache, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if q == nil {
		return fn(ctx)
	}
	if v, ok := q.Get(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}
	ch := q.flight.DoChan(key.String(), func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		t, err := fn(fctx)
		if err != nil {
			return nil, err
		}
		q.Set(key, t)
		return t, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
