package redis

import (
	"context"
	"time"

	"campus-rentals/internal/models"
)

const (
	// Cached offers are a durable fallback and never expire on their own.
	OffersCacheTTL      = 0
	RemoteReadWindowTTL = 1 * time.Minute
)

func OffersKey() string {
	return "offers:cached"
}

func RemoteReadsKey() string {
	return "ratelimit:docstore"
}

func (c *Cache) SetOffers(ctx context.Context, records []models.OfferWithProperty) error {
	return putJSON(ctx, c, OffersKey(), records, OffersCacheTTL)
}

func (c *Cache) GetOffers(ctx context.Context) ([]models.OfferWithProperty, error) {
	return loadJSON[[]models.OfferWithProperty](ctx, c, OffersKey())
}

func (c *Cache) DeleteOffers(ctx context.Context) error {
	return c.remove(ctx, OffersKey())
}

func (c *Cache) IncrementRemoteReads(ctx context.Context) (int64, error) {
	return c.incrWindow(ctx, RemoteReadsKey(), RemoteReadWindowTTL)
}

func (c *Cache) GetRemoteReads(ctx context.Context) (int64, error) {
	return c.counter(ctx, RemoteReadsKey())
}
