package offers

import (
	"context"
	"errors"
	"fmt"

	"campus-rentals/internal/models"

	"go.uber.org/zap"
)

var (
	// ErrNotSignedIn short-circuits operations scoped to a user.
	ErrNotSignedIn = errors.New("no signed-in user")
	ErrOffline     = errors.New("network unreachable")
)

// SavedStore persists which offers a user saved.
type SavedStore interface {
	SaveOffer(ctx context.Context, userID, offerID string) error
	UnsaveOffer(ctx context.Context, userID, offerID string) error
	GetSavedOfferIDs(ctx context.Context, userID string) ([]string, error)
	SavedAmong(ctx context.Context, userID string, offerIDs []string) ([]string, error)
}

// Listing is what the browse screen shows.
type Listing struct {
	Offers    []models.OfferWithProperty
	FromCache bool
}

// Service routes reads to the fetcher or the cache depending on the gate.
type Service struct {
	gate    *Gate
	fetcher *Fetcher
	cache   *CacheStore
	eval    *Evaluator
	saved   SavedStore
	logger  *zap.Logger
}

func NewService(gate *Gate, fetcher *Fetcher, cache *CacheStore, eval *Evaluator, saved SavedStore, logger *zap.Logger) *Service {
	return &Service{
		gate:    gate,
		fetcher: fetcher,
		cache:   cache,
		eval:    eval,
		saved:   saved,
		logger:  logger,
	}
}

// List returns the browse list, filtered when criteria are applied. Remote
// failures and offline mode both fall back to the cache.
func (s *Service) List(ctx context.Context, criteria models.FilterCriteria) Listing {
	listing := s.browse(ctx)
	if criteria.Applied {
		listing.Offers = s.eval.Apply(listing.Offers, criteria)
	}
	return listing
}

func (s *Service) browse(ctx context.Context) Listing {
	if !s.gate.Online() {
		s.logger.Debug("offline, serving cached offers")
		return Listing{Offers: s.cache.Get(ctx), FromCache: true}
	}

	records, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		s.logger.Warn("fetch failed, serving cached offers", zap.Error(err))
		return Listing{Offers: s.cache.Get(ctx), FromCache: true}
	}

	return Listing{Offers: records}
}

// Refresh re-reads the browse list so the cache is current.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	if !s.gate.Online() {
		return 0, ErrOffline
	}

	records, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return 0, err
	}

	return len(records), nil
}

// OwnerOffers lists the offers the user published. Offline or failed reads
// yield an empty list.
func (s *Service) OwnerOffers(ctx context.Context, userID string) ([]models.OfferWithProperty, error) {
	if userID == "" {
		return nil, ErrNotSignedIn
	}
	if !s.gate.Online() {
		return []models.OfferWithProperty{}, nil
	}

	records, err := s.fetcher.FetchByOwner(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to fetch owner offers",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return []models.OfferWithProperty{}, nil
	}

	return records, nil
}

// SavedOffers lists the offers the user saved. Offline or failed reads
// yield an empty list.
func (s *Service) SavedOffers(ctx context.Context, userID string) ([]models.OfferWithProperty, error) {
	if userID == "" {
		return nil, ErrNotSignedIn
	}
	if s.saved == nil || !s.gate.Online() {
		return []models.OfferWithProperty{}, nil
	}

	ids, err := s.saved.GetSavedOfferIDs(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load saved offer ids",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return []models.OfferWithProperty{}, nil
	}
	if len(ids) == 0 {
		return []models.OfferWithProperty{}, nil
	}

	records, err := s.fetcher.FetchSaved(ctx, ids)
	if err != nil {
		s.logger.Warn("failed to fetch saved offers",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return []models.OfferWithProperty{}, nil
	}

	return records, nil
}

func (s *Service) SaveOffer(ctx context.Context, userID, offerID string) error {
	if err := s.checkSavedScope(userID, offerID); err != nil {
		return err
	}
	return s.saved.SaveOffer(ctx, userID, offerID)
}

func (s *Service) UnsaveOffer(ctx context.Context, userID, offerID string) error {
	if err := s.checkSavedScope(userID, offerID); err != nil {
		return err
	}
	return s.saved.UnsaveOffer(ctx, userID, offerID)
}

// SavedAmong marks which of records the user saved.
func (s *Service) SavedAmong(ctx context.Context, userID string, records []models.OfferWithProperty) (map[string]bool, error) {
	if userID == "" {
		return nil, ErrNotSignedIn
	}
	if s.saved == nil {
		return map[string]bool{}, nil
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}

	saved, err := s.saved.SavedAmong(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[string]bool, len(saved))
	for _, id := range saved {
		out[id] = true
	}
	return out, nil
}

func (s *Service) checkSavedScope(userID, offerID string) error {
	if userID == "" {
		return ErrNotSignedIn
	}
	if offerID == "" {
		return fmt.Errorf("offer id is empty")
	}
	if s.saved == nil {
		return fmt.Errorf("saved offers are not configured")
	}
	return nil
}
