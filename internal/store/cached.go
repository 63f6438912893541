package store

import (
	"context"
	"sync"
	"time"

	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/cache"
)

// Cached serves List from a snapshot cache and drops the snapshot after every write.
// Every write bumps gen; a List that started before a write never stores its snapshot.
type Cached[T any] struct {
	next  Repository[T]
	key   string
	ttl   time.Duration
	cache cache.Cache[string, []T]

	mu  sync.Mutex
	gen uint64
}

// NewCached wraps next. A ttl <= 0 returns next unchanged.
func NewCached[T any](next Repository[T], key string, ttl time.Duration) Repository[T] {
	if ttl <= 0 {
		return next
	}
	return &Cached[T]{
		next:  next,
		key:   key,
		ttl:   ttl,
		cache: cache.NewSimpleCache[string, []T](),
	}
}

func (c *Cached[T]) List(ctx context.Context) ([]T, error) {
	if snapshot, ok := c.cache.Get(c.key); ok {
		return append([]T(nil), snapshot...), nil
	}
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	records, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if gen == c.gen {
		c.cache.Set(c.key, append([]T(nil), records...), c.ttl)
	}
	c.mu.Unlock()
	return records, nil
}

// invalidate runs after the write reached the backend.
func (c *Cached[T]) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.cache.Delete(c.key)
}

func (c *Cached[T]) Create(ctx context.Context, rec T) (T, error) {
	defer c.invalidate()
	return c.next.Create(ctx, rec)
}

func (c *Cached[T]) Replace(ctx context.Context, rec T) (T, error) {
	defer c.invalidate()
	return c.next.Replace(ctx, rec)
}

func (c *Cached[T]) Delete(ctx context.Context, id int) error {
	defer c.invalidate()
	return c.next.Delete(ctx, id)
}
