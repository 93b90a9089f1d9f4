package offers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"campus-rentals/internal/api/docstore"
	"campus-rentals/internal/models"
)

var (
	availableFrom  = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	availableUntil = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
)

func record(id string, price float64, minutes int) models.OfferWithProperty {
	propertyID := "p-" + id
	return models.OfferWithProperty{
		ID: id,
		Offer: models.Offer{
			ID:            id,
			PropertyID:    propertyID,
			InitialDate:   availableFrom,
			FinalDate:     availableUntil,
			PricePerMonth: price,
			Type:          models.OfferTypeSharedRoom,
		},
		Property: models.Property{
			ID:                propertyID,
			Title:             "Room " + id,
			Photos:            []string{id + ".jpg"},
			MinutesFromCampus: minutes,
		},
	}
}

func records(n int) []models.OfferWithProperty {
	out := make([]models.OfferWithProperty, n)
	for i := range out {
		out[i] = record(fmt.Sprintf("o%02d", i), float64(100+i), 10)
	}
	return out
}

type fakeDurable struct {
	mu     sync.Mutex
	data   []byte
	setErr error
}

func (d *fakeDurable) SetOffers(_ context.Context, records []models.OfferWithProperty) error {
	if d.setErr != nil {
		return d.setErr
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.data = data
	d.mu.Unlock()
	return nil
}

func (d *fakeDurable) GetOffers(_ context.Context) ([]models.OfferWithProperty, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.data == nil {
		return nil, errors.New("key not found")
	}
	var out []models.OfferWithProperty
	if err := json.Unmarshal(d.data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *fakeDurable) DeleteOffers(_ context.Context) error {
	d.mu.Lock()
	d.data = nil
	d.mu.Unlock()
	return nil
}

type fakeSource struct {
	mu         sync.Mutex
	offers     []docstore.Decoded[models.Offer]
	properties []docstore.Decoded[models.Property]
	offersErr  error
	propsErr   error
	offerCalls int
	started    chan struct{}
	release    chan struct{}
}

func (s *fakeSource) Offers(ctx context.Context) ([]docstore.Decoded[models.Offer], error) {
	s.mu.Lock()
	s.offerCalls++
	s.mu.Unlock()

	if s.started != nil {
		select {
		case s.started <- struct{}{}:
		default:
		}
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return s.offers, s.offersErr
}

func (s *fakeSource) Properties(context.Context) ([]docstore.Decoded[models.Property], error) {
	return s.properties, s.propsErr
}

func (s *fakeSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offerCalls
}

// sourceFor exposes already joined records as raw decoded collections.
func sourceFor(recs []models.OfferWithProperty) *fakeSource {
	src := &fakeSource{}
	for _, r := range recs {
		src.offers = append(src.offers, docstore.Decoded[models.Offer]{Value: r.Offer, DocumentID: "d", Key: r.ID})
		src.properties = append(src.properties, docstore.Decoded[models.Property]{Value: r.Property, DocumentID: "p", Key: r.Property.ID})
	}
	return src
}

type fakeSaved struct {
	mu    sync.Mutex
	ids   map[string][]string
	calls int
	err   error
}

func newFakeSaved() *fakeSaved {
	return &fakeSaved{ids: make(map[string][]string)}
}

func (f *fakeSaved) SaveOffer(_ context.Context, userID, offerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.ids[userID] = append(f.ids[userID], offerID)
	return f.err
}

func (f *fakeSaved) UnsaveOffer(_ context.Context, userID, offerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	kept := f.ids[userID][:0]
	for _, id := range f.ids[userID] {
		if id != offerID {
			kept = append(kept, id)
		}
	}
	f.ids[userID] = kept
	return f.err
}

func (f *fakeSaved) GetSavedOfferIDs(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return append([]string(nil), f.ids[userID]...), f.err
}

func (f *fakeSaved) SavedAmong(_ context.Context, userID string, offerIDs []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	set := make(map[string]bool)
	for _, id := range f.ids[userID] {
		set[id] = true
	}
	var out []string
	for _, id := range offerIDs {
		if set[id] {
			out = append(out, id)
		}
	}
	return out, f.err
}

type fakePinger struct {
	mu  sync.Mutex
	err error
}

func (p *fakePinger) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *fakePinger) set(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}
