package blobstore

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// CachingStore wraps a Store with an in-memory read cache. Writes go
// through to the backing store and update the cache; deletes invalidate.
//
// Intended for object-storage backends where repeated schema fetches
// (large IDD documents) dominate latency.
type CachingStore struct {
	backing Store

	mu    sync.RWMutex
	cache map[string][]byte
}

// NewCachingStore wraps the backing store with a read cache.
func NewCachingStore(backing Store) *CachingStore {
	return &CachingStore{
		backing: backing,
		cache:   make(map[string][]byte),
	}
}

// Fetch returns the cached document or fetches and caches it.
func (c *CachingStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	c.mu.RLock()
	data, ok := c.cache[name]
	c.mu.RUnlock()
	if ok {
		copied := make([]byte, len(data))
		copy(copied, data)
		return copied, nil
	}

	data, err := c.backing.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[name] = data
	c.mu.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

// Put writes through to the backing store and refreshes the cache entry.
func (c *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	if err := c.backing.Put(ctx, name, data); err != nil {
		return err
	}
	copied := make([]byte, len(data))
	copy(copied, data)

	c.mu.Lock()
	c.cache[name] = copied
	c.mu.Unlock()
	return nil
}

// Delete removes the document and invalidates its cache entry.
func (c *CachingStore) Delete(ctx context.Context, name string) error {
	if err := c.backing.Delete(ctx, name); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.cache, name)
	c.mu.Unlock()
	return nil
}

// List delegates to the backing store; listings are not cached.
func (c *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return c.backing.List(ctx, prefix)
}

// Prefetch warms the cache for the given names concurrently. A missing
// document fails the whole prefetch.
func (c *CachingStore) Prefetch(ctx context.Context, names ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			_, err := c.Fetch(ctx, name)
			return err
		})
	}
	return g.Wait()
}

// Invalidate drops every cached entry.
func (c *CachingStore) Invalidate() {
	c.mu.Lock()
	c.cache = make(map[string][]byte)
	c.mu.Unlock()
}
