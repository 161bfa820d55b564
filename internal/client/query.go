package client

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// QueryStore is the process-wide list cache. It is the only writer of cached
// pages; invalidation comes exclusively from the mutation layer.
//
// Concurrent fetches for the same key are collapsed into a single request.
// Invalidating a resource marks every entry whose key starts with that
// resource stale and refreshes the watchers bound to it.
type QueryStore struct {
	transport *Transport
	group     singleflight.Group

	mu       sync.Mutex
	entries  map[string]*cacheEntry
	watchers map[int]*watcher
	nextID   int
}

type cacheEntry struct {
	page  *Page
	stale bool
}

type watcher struct {
	resource string
	refresh  func(ctx context.Context)
}

// NewQueryStore creates a QueryStore backed by the given transport.
func NewQueryStore(t *Transport) *QueryStore {
	return &QueryStore{
		transport: t,
		entries:   make(map[string]*cacheEntry),
		watchers:  make(map[int]*watcher),
	}
}

// List returns one page of the named resource. Fresh cached pages are served
// without a network call; identical concurrent fetches share one request.
func (s *QueryStore) List(ctx context.Context, resource string, p Params) (*Page, error) {
	key := CacheKey(resource, p)

	s.mu.Lock()
	if e, ok := s.entries[key]; ok && !e.stale {
		page := e.page
		s.mu.Unlock()
		return page, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do(key, func() (any, error) {
		var page Page
		if err := s.transport.Do(ctx, http.MethodGet, "/"+resource, p.Values(), nil, &page); err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.entries[key] = &cacheEntry{page: &page}
		s.mu.Unlock()
		return &page, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Page), nil
}

// Invalidate marks every cached entry of the named resources stale and
// refreshes the live queries bound to them. Subsequent List calls for those
// resources hit the network again.
func (s *QueryStore) Invalidate(ctx context.Context, resources ...string) {
	s.mu.Lock()
	for key, e := range s.entries {
		for _, r := range resources {
			if strings.HasPrefix(key, r+"?") {
				e.stale = true
				break
			}
		}
	}
	var refresh []func(ctx context.Context)
	for _, w := range s.watchers {
		for _, r := range resources {
			if w.resource == r {
				refresh = append(refresh, w.refresh)
				break
			}
		}
	}
	s.mu.Unlock()

	for _, fn := range refresh {
		fn(ctx)
	}
}

// Watch registers a live query: refresh is called whenever the named
// resource is invalidated. The returned function cancels the registration;
// after it returns, refresh will not be called again.
func (s *QueryStore) Watch(resource string, refresh func(ctx context.Context)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = &watcher{resource: resource, refresh: refresh}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}
