package offers

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-rentals/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type serviceFixture struct {
	gate   *Gate
	source *fakeSource
	cache  *CacheStore
	saved  *fakeSaved
	svc    *Service
}

func newServiceFixture(online bool, remote []models.OfferWithProperty) *serviceFixture {
	f := &serviceFixture{
		gate:   NewGate(online),
		source: sourceFor(remote),
		cache:  NewCacheStore(DefaultCacheCapacity, &fakeDurable{}, zap.NewNop()),
		saved:  newFakeSaved(),
	}
	fetcher := NewFetcher(f.source, f.cache, nil, time.Second, zap.NewNop())
	f.svc = NewService(f.gate, fetcher, f.cache, NewEvaluator(time.UTC), f.saved, zap.NewNop())
	return f
}

func priceCriteria(lo, hi float64) models.FilterCriteria {
	c := criteriaFor(availableFrom, availableUntil)
	c.MinPrice = lo
	c.MaxPrice = hi
	return c
}

func TestServiceRequiresSignedInUser(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(true, records(3))

	_, err := f.svc.OwnerOffers(ctx, "")
	assert.ErrorIs(t, err, ErrNotSignedIn)

	_, err = f.svc.SavedOffers(ctx, "")
	assert.ErrorIs(t, err, ErrNotSignedIn)

	assert.ErrorIs(t, f.svc.SaveOffer(ctx, "", "o00"), ErrNotSignedIn)
	assert.ErrorIs(t, f.svc.UnsaveOffer(ctx, "", "o00"), ErrNotSignedIn)

	_, err = f.svc.SavedAmong(ctx, "", records(1))
	assert.ErrorIs(t, err, ErrNotSignedIn)

	assert.Zero(t, f.saved.calls)
	assert.Zero(t, f.source.calls())
}

func TestServiceOfflineFiltersCache(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(false, nil)

	cached := []models.OfferWithProperty{
		record("a", 90, 5),
		record("b", 150, 5),
		record("c", 200, 5),
	}
	require.NoError(t, f.cache.Put(ctx, cached))

	got := f.svc.List(ctx, priceCriteria(100, 200))

	assert.True(t, got.FromCache)
	assert.True(t, models.EqualRecords([]models.OfferWithProperty{cached[1], cached[2]}, got.Offers))
	assert.Zero(t, f.source.calls())
}

func TestServiceOnlineListWritesThrough(t *testing.T) {
	ctx := context.Background()
	remote := records(12)
	f := newServiceFixture(true, remote)

	got := f.svc.List(ctx, models.FilterCriteria{})

	assert.False(t, got.FromCache)
	assert.True(t, models.EqualRecords(remote, got.Offers))
	assert.True(t, models.EqualRecords(remote[:10], f.cache.Get(ctx)))
}

func TestServiceFallsBackToCacheOnFetchError(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(true, records(5))
	f.source.offersErr = errors.New("remote unavailable")

	cached := records(2)
	require.NoError(t, f.cache.Put(ctx, cached))

	got := f.svc.List(ctx, models.FilterCriteria{})

	assert.True(t, got.FromCache)
	assert.True(t, models.EqualRecords(cached, got.Offers))
}

func TestServiceCriteriaNotAppliedReturnsEverything(t *testing.T) {
	f := newServiceFixture(true, records(4))

	c := priceCriteria(1000, 2000)
	c.Applied = false

	got := f.svc.List(context.Background(), c)
	assert.Len(t, got.Offers, 4)
}

func TestServiceRefresh(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(false, records(4))

	_, err := f.svc.Refresh(ctx)
	require.ErrorIs(t, err, ErrOffline)
	assert.Zero(t, f.source.calls())

	f.gate.Set(true)
	n, err := f.svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Len(t, f.cache.Get(ctx), 4)
}

func TestServiceOwnerOffers(t *testing.T) {
	ctx := context.Background()
	remote := records(3)
	remote[2].Offer.UserID = "u1"
	f := newServiceFixture(true, remote)

	got, err := f.svc.OwnerOffers(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, models.EqualRecords(remote[2:], got))

	f.gate.Set(false)
	got, err = f.svc.OwnerOffers(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestServiceSavedOffers(t *testing.T) {
	ctx := context.Background()
	remote := records(4)
	f := newServiceFixture(true, remote)

	require.NoError(t, f.svc.SaveOffer(ctx, "u1", remote[3].ID))
	require.NoError(t, f.svc.SaveOffer(ctx, "u1", remote[1].ID))

	got, err := f.svc.SavedOffers(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, models.EqualRecords([]models.OfferWithProperty{remote[1], remote[3]}, got))

	marks, err := f.svc.SavedAmong(ctx, "u1", remote)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{remote[1].ID: true, remote[3].ID: true}, marks)

	require.NoError(t, f.svc.UnsaveOffer(ctx, "u1", remote[3].ID))
	got, err = f.svc.SavedOffers(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, models.EqualRecords([]models.OfferWithProperty{remote[1]}, got))

	// cache is only written by browse
	assert.Empty(t, f.cache.Get(ctx))
}

func TestServiceSavedOffersWithoutSavesSkipsRemote(t *testing.T) {
	f := newServiceFixture(true, records(2))

	got, err := f.svc.SavedOffers(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, f.source.calls())
}

func TestServiceSaveRejectsEmptyOfferID(t *testing.T) {
	f := newServiceFixture(true, nil)
	assert.Error(t, f.svc.SaveOffer(context.Background(), "u1", ""))
	assert.Zero(t, f.saved.calls)
}
