package offers

import (
	"context"
	"sync"

	"campus-rentals/internal/models"

	"go.uber.org/zap"
)

// DefaultCacheCapacity is how many joined records survive for offline use.
const DefaultCacheCapacity = 10

// DurableStore is the persisted tier of the cache.
type DurableStore interface {
	SetOffers(ctx context.Context, records []models.OfferWithProperty) error
	GetOffers(ctx context.Context) ([]models.OfferWithProperty, error)
	DeleteOffers(ctx context.Context) error
}

// CacheStore keeps the most recently fetched records in memory and in a
// durable store. The two tiers are written one after the other and are not
// transactionally linked; while the process lives, memory wins.
type CacheStore struct {
	mu       sync.RWMutex
	records  []models.OfferWithProperty
	loaded   bool
	capacity int
	durable  DurableStore
	logger   *zap.Logger
}

// NewCacheStore creates a store holding at most capacity records. durable
// may be nil for a memory-only cache.
func NewCacheStore(capacity int, durable DurableStore, logger *zap.Logger) *CacheStore {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &CacheStore{
		capacity: capacity,
		durable:  durable,
		logger:   logger,
	}
}

func (c *CacheStore) Capacity() int {
	return c.capacity
}

// Put replaces the cache with the first Capacity records, in order.
func (c *CacheStore) Put(ctx context.Context, records []models.OfferWithProperty) error {
	n := len(records)
	if n > c.capacity {
		n = c.capacity
	}
	truncated := make([]models.OfferWithProperty, n)
	copy(truncated, records[:n])

	c.mu.Lock()
	c.records = truncated
	c.loaded = true
	c.mu.Unlock()

	if c.durable == nil {
		return nil
	}

	if err := c.durable.SetOffers(ctx, truncated); err != nil {
		c.logger.Error("failed to persist cached offers",
			zap.Int("count", n),
			zap.Error(err),
		)
		return err
	}

	c.logger.Debug("offers cached", zap.Int("count", n), zap.Int("input", len(records)))
	return nil
}

// Get returns the cached records, reading the durable tier when memory is
// cold. Missing or corrupt durable data reads as an empty cache.
func (c *CacheStore) Get(ctx context.Context) []models.OfferWithProperty {
	c.mu.RLock()
	if c.loaded {
		out := cloneRecords(c.records)
		c.mu.RUnlock()
		return out
	}
	c.mu.RUnlock()

	if c.durable == nil {
		return []models.OfferWithProperty{}
	}

	records, err := c.durable.GetOffers(ctx)
	if err != nil {
		c.logger.Debug("durable offer cache unavailable", zap.Error(err))
		return []models.OfferWithProperty{}
	}
	if len(records) > c.capacity {
		records = records[:c.capacity]
	}

	c.mu.Lock()
	// a Put that raced this read wins
	if !c.loaded {
		c.records = records
		c.loaded = true
	}
	out := cloneRecords(c.records)
	c.mu.Unlock()

	return out
}

// Clear empties both tiers.
func (c *CacheStore) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.records = nil
	c.loaded = true
	c.mu.Unlock()

	if c.durable == nil {
		return nil
	}

	if err := c.durable.DeleteOffers(ctx); err != nil {
		c.logger.Error("failed to clear durable offer cache", zap.Error(err))
		return err
	}

	return nil
}

func cloneRecords(records []models.OfferWithProperty) []models.OfferWithProperty {
	out := make([]models.OfferWithProperty, len(records))
	copy(out, records)
	return out
}
