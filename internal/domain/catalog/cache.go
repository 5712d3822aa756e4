package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/janhq/chat-assistant/internal/infrastructure/metrics"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

const DefaultCacheTTL = 5 * time.Minute

// Cache is a read-through cache over a Source. A non-empty list is served for ttl after it
// was fetched; afterwards the next caller refreshes it. When a refresh fails the last good
// list is returned instead.
type Cache struct {
	source Source
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger

	mu        sync.RWMutex
	products  []Product
	fetchedAt time.Time

	group singleflight.Group
}

func NewCache(source Source, ttl time.Duration, log zerolog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{source: source, ttl: ttl, now: time.Now, log: log}
}

// WithClock replaces the time source, for tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Products returns the catalog, fetching it when the cached copy is empty or expired.
func (c *Cache) Products(ctx context.Context) ([]Product, error) {
	if products, ok := c.fresh(); ok {
		metrics.RecordCatalogCache("hit")
		return products, nil
	}

	result, err, _ := c.group.Do("products", func() (interface{}, error) {
		if products, ok := c.fresh(); ok {
			return products, nil
		}
		return c.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Product), nil
}

// Peek returns whatever is cached, expired or not, without fetching.
func (c *Cache) Peek() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.products)
}

func (c *Cache) fresh() ([]Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.products) == 0 || c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return clone(c.products), true
}

func (c *Cache) refresh(ctx context.Context) ([]Product, error) {
	products, err := c.source.FetchProducts(ctx)
	if err != nil {
		c.mu.RLock()
		stale := clone(c.products)
		c.mu.RUnlock()
		if len(stale) > 0 {
			metrics.RecordCatalogCache("stale")
			c.log.Warn().Err(err).Int("products", len(stale)).Msg("catalog refresh failed, serving stale products")
			return stale, nil
		}
		metrics.RecordCatalogCache("error")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to fetch product catalog")
	}

	metrics.RecordCatalogCache("miss")
	c.mu.Lock()
	c.products = clone(products)
	c.fetchedAt = c.now()
	c.mu.Unlock()
	c.log.Debug().Int("products", len(products)).Msg("catalog refreshed")
	return clone(products), nil
}

func clone(products []Product) []Product {
	if products == nil {
		return []Product{}
	}
	out := make([]Product, len(products))
	copy(out, products)
	return out
}
