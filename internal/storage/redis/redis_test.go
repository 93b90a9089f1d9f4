package redis

import (
	"context"
	"testing"
	"time"

	"campus-rentals/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewWithClient(client, zap.NewNop()), mr
}

func TestOffersRoundTrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	_, err := cache.GetOffers(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	records := []models.OfferWithProperty{
		{
			ID: "d_0",
			Offer: models.Offer{
				ID:            "d_0",
				PropertyID:    "5",
				InitialDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				FinalDate:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				PricePerMonth: 150,
				Type:          models.OfferTypeEntirePlace,
			},
			Property: models.Property{ID: "5", Title: "Loft", Photos: []string{"a.jpg"}},
		},
	}

	require.NoError(t, cache.SetOffers(ctx, records))
	assert.Zero(t, mr.TTL(OffersKey()), "cached offers must not expire")

	got, err := cache.GetOffers(ctx)
	require.NoError(t, err)
	assert.True(t, models.EqualRecords(records, got))

	require.NoError(t, cache.DeleteOffers(ctx))
	_, err = cache.GetOffers(ctx)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetOffersCorruptValue(t *testing.T) {
	cache, mr := newTestCache(t)

	require.NoError(t, mr.Set(OffersKey(), "{broken"))

	_, err := cache.GetOffers(context.Background())
	require.ErrorIs(t, err, ErrCorrupt)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRemoteReadsCounter(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	n, err := cache.GetRemoteReads(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	for i := 1; i <= 3; i++ {
		n, err = cache.IncrementRemoteReads(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}

	assert.Equal(t, RemoteReadWindowTTL, mr.TTL(RemoteReadsKey()))

	mr.FastForward(RemoteReadWindowTTL + time.Second)
	n, err = cache.GetRemoteReads(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
