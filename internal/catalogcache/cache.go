package catalogcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"edu-catalog/internal/domain"
	"edu-catalog/internal/kvstore"
	"edu-catalog/internal/logger"
)

const (
	ItemsKey     = "catalog_items_cache"
	TimestampKey = "catalog_cache_timestamp"

	// TTL is how long a written catalog is served without refetching.
	TTL = 30 * time.Minute
)

// Cache stores the last successful catalog fetch as two keys: the JSON item
// list and its write time in epoch milliseconds.
type Cache struct {
	store kvstore.Store
	ttl   time.Duration
	now   func() time.Time
	log   *logger.Logger
}

type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Cache) { c.log = logger.OrNop(l) }
}

func New(store kvstore.Store, opts ...Option) *Cache {
	c := &Cache{
		store: store,
		ttl:   TTL,
		now:   time.Now,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadIfValid returns the cached items only when both keys are present,
// parse cleanly, and were written less than TTL ago. Every failure is a miss.
func (c *Cache) ReadIfValid(ctx context.Context) ([]domain.EducationalItem, bool) {
	raw, ok, err := c.store.Get(ctx, ItemsKey)
	if err != nil {
		c.log.Warn("catalog cache read failed", "key", ItemsKey, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	tsRaw, ok, err := c.store.Get(ctx, TimestampKey)
	if err != nil {
		c.log.Warn("catalog cache read failed", "key", TimestampKey, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		c.log.Warn("catalog cache timestamp unparsable", "value", tsRaw, "error", err)
		return nil, false
	}
	if c.now().Sub(time.UnixMilli(ts)) >= c.ttl {
		return nil, false
	}

	items, err := decode(raw)
	if err != nil {
		c.log.Warn("catalog cache payload unparsable", "error", err)
		return nil, false
	}
	return items, true
}

// ReadStaleOrEmpty returns whatever item list is stored, ignoring its age.
// It never fails: absent or unreadable data yields an empty slice.
func (c *Cache) ReadStaleOrEmpty(ctx context.Context) []domain.EducationalItem {
	raw, ok, err := c.store.Get(ctx, ItemsKey)
	if err != nil {
		c.log.Warn("catalog cache stale read failed", "error", err)
		return []domain.EducationalItem{}
	}
	if !ok {
		return []domain.EducationalItem{}
	}
	items, err := decode(raw)
	if err != nil {
		c.log.Warn("catalog cache payload unparsable", "error", err)
		return []domain.EducationalItem{}
	}
	return items
}

// Write replaces the stored record with items stamped at the current time.
// Only a failure to store the items is returned. A failed timestamp write is
// logged and the old timestamp dropped, so ReadIfValid misses until the next
// successful Write while ReadStaleOrEmpty still sees the new items.
func (c *Cache) Write(ctx context.Context, items []domain.EducationalItem) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("catalogcache: encode items: %w", err)
	}
	if err := c.store.Set(ctx, ItemsKey, string(b)); err != nil {
		return fmt.Errorf("catalogcache: write items: %w", err)
	}
	ts := strconv.FormatInt(c.now().UnixMilli(), 10)
	if err := c.store.Set(ctx, TimestampKey, ts); err != nil {
		c.log.Warn("catalog cache timestamp write failed", "error", err)
		if rmErr := c.store.Remove(ctx, TimestampKey); rmErr != nil {
			c.log.Warn("catalog cache timestamp cleanup failed", "error", rmErr)
		}
	}
	return nil
}

// Clear removes both keys. Errors from either removal are returned together.
func (c *Cache) Clear(ctx context.Context) error {
	return errors.Join(
		c.store.Remove(ctx, ItemsKey),
		c.store.Remove(ctx, TimestampKey),
	)
}

func decode(raw string) ([]domain.EducationalItem, error) {
	var items []domain.EducationalItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.EducationalItem{}
	}
	return items, nil
}
