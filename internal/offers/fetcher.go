package offers

import (
	"context"
	"fmt"
	"time"

	"campus-rentals/internal/api/docstore"
	"campus-rentals/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const browseBatchKey = "browse"

// Source reads the two remote collections.
type Source interface {
	Offers(ctx context.Context) ([]docstore.Decoded[models.Offer], error)
	Properties(ctx context.Context) ([]docstore.Decoded[models.Property], error)
}

// ReadGuard is consulted once per batch before any remote read.
type ReadGuard func(ctx context.Context) error

// Fetcher reads offers and properties and joins them on idProperty.
type Fetcher struct {
	source  Source
	cache   *CacheStore
	guard   ReadGuard
	timeout time.Duration
	logger  *zap.Logger
	group   singleflight.Group
}

// NewFetcher creates a fetcher writing browse results through to cache.
// guard may be nil.
func NewFetcher(source Source, cache *CacheStore, guard ReadGuard, timeout time.Duration, logger *zap.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		source:  source,
		cache:   cache,
		guard:   guard,
		timeout: timeout,
		logger:  logger,
	}
}

// FetchAll returns every resolvable offer and replaces the cache with the
// first records of the result. Concurrent callers share one batch; a caller
// whose ctx ends stops waiting but the batch still completes.
func (f *Fetcher) FetchAll(ctx context.Context) ([]models.OfferWithProperty, error) {
	ch := f.group.DoChan(browseBatchKey, func() (interface{}, error) {
		batchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
		defer cancel()

		batchID := uuid.NewString()
		records, err := f.fetch(batchCtx, batchID, nil)
		if err != nil {
			return nil, err
		}

		if err := f.cache.Put(batchCtx, records); err != nil {
			f.logger.Warn("failed to write offers through to cache",
				zap.String("batch_id", batchID),
				zap.Error(err),
			)
		}

		return records, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneRecords(res.Val.([]models.OfferWithProperty)), nil
	}
}

// FetchByOwner returns the offers published by userID.
func (f *Fetcher) FetchByOwner(ctx context.Context, userID string) ([]models.OfferWithProperty, error) {
	return f.fetch(ctx, uuid.NewString(), func(o models.Offer) bool {
		return o.UserID == userID
	})
}

// FetchSaved returns the offers whose id is in ids, in fetch order.
func (f *Fetcher) FetchSaved(ctx context.Context, ids []string) ([]models.OfferWithProperty, error) {
	allowed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}

	return f.fetch(ctx, uuid.NewString(), func(o models.Offer) bool {
		_, ok := allowed[o.ID]
		return ok
	})
}

func (f *Fetcher) fetch(ctx context.Context, batchID string, keep func(models.Offer) bool) ([]models.OfferWithProperty, error) {
	if f.guard != nil {
		if err := f.guard(ctx); err != nil {
			f.logger.Warn("remote read refused",
				zap.String("batch_id", batchID),
				zap.Error(err),
			)
			return nil, err
		}
	}

	var (
		offers     []docstore.Decoded[models.Offer]
		properties []docstore.Decoded[models.Property]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		offers, err = f.source.Offers(gctx)
		if err != nil {
			return fmt.Errorf("fetch offers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		properties, err = f.source.Properties(gctx)
		if err != nil {
			return fmt.Errorf("fetch properties: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		f.logger.Error("fetch batch failed",
			zap.String("batch_id", batchID),
			zap.Error(err),
		)
		return nil, err
	}

	records := f.join(batchID, offers, properties, keep)

	f.logger.Info("fetch batch completed",
		zap.String("batch_id", batchID),
		zap.Int("offers", len(offers)),
		zap.Int("properties", len(properties)),
		zap.Int("joined", len(records)),
	)

	return records, nil
}

func (f *Fetcher) join(
	batchID string,
	offers []docstore.Decoded[models.Offer],
	properties []docstore.Decoded[models.Property],
	keep func(models.Offer) bool,
) []models.OfferWithProperty {
	byID := make(map[string]models.Property, len(properties))
	for _, p := range properties {
		if !p.Valid() {
			f.logger.Debug("property skipped",
				zap.String("batch_id", batchID),
				zap.String("document_id", p.DocumentID),
				zap.String("key", p.Key),
				zap.String("reason", p.Reason),
			)
			continue
		}

		id := docstore.NormalizeKeyString(p.Value.ID)
		if _, dup := byID[id]; dup {
			f.logger.Warn("duplicate property id, keeping first",
				zap.String("batch_id", batchID),
				zap.String("property_id", id),
				zap.String("document_id", p.DocumentID),
			)
			continue
		}
		byID[id] = p.Value
	}

	seen := make(map[string]struct{}, len(offers))
	records := make([]models.OfferWithProperty, 0, len(offers))

	for _, o := range offers {
		if !o.Valid() {
			f.logger.Debug("offer skipped",
				zap.String("batch_id", batchID),
				zap.String("document_id", o.DocumentID),
				zap.String("key", o.Key),
				zap.String("reason", o.Reason),
			)
			continue
		}

		offer := o.Value
		if keep != nil && !keep(offer) {
			continue
		}

		if _, dup := seen[offer.ID]; dup {
			f.logger.Warn("duplicate offer id, keeping first",
				zap.String("batch_id", batchID),
				zap.String("offer_id", offer.ID),
			)
			continue
		}

		property, ok := byID[docstore.NormalizeKeyString(offer.PropertyID)]
		if !ok {
			f.logger.Warn("property not found for offer",
				zap.String("batch_id", batchID),
				zap.String("offer_id", offer.ID),
				zap.String("property_id", offer.PropertyID),
			)
			continue
		}

		seen[offer.ID] = struct{}{}
		records = append(records, models.OfferWithProperty{
			ID:       offer.ID,
			Offer:    offer,
			Property: property,
		})
	}

	return records
}
