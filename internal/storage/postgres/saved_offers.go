package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

func (s *Store) SaveOffer(ctx context.Context, userID, offerID string) error {
	query := `
		INSERT INTO user_saved_offers (user_id, offer_id, saved_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (user_id, offer_id) DO NOTHING
	`

	_, err := s.sess.
		InsertBySql(query, userID, offerID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to save offer",
			zap.String("user_id", userID),
			zap.String("offer_id", offerID),
			zap.Error(err),
		)
		return fmt.Errorf("save offer: %w", err)
	}

	s.logger.Info("offer saved",
		zap.String("user_id", userID),
		zap.String("offer_id", offerID),
	)

	return nil
}

func (s *Store) UnsaveOffer(ctx context.Context, userID, offerID string) error {
	result, err := s.sess.
		DeleteFrom("user_saved_offers").
		Where("user_id = ? AND offer_id = ?", userID, offerID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to unsave offer",
			zap.String("user_id", userID),
			zap.String("offer_id", offerID),
			zap.Error(err),
		)
		return fmt.Errorf("unsave offer: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()

	s.logger.Info("offer unsaved",
		zap.String("user_id", userID),
		zap.String("offer_id", offerID),
		zap.Int64("count", rowsAffected),
	)

	return nil
}

func (s *Store) IsOfferSaved(ctx context.Context, userID, offerID string) (bool, error) {
	var count int

	err := s.sess.
		Select("COUNT(*)").
		From("user_saved_offers").
		Where("user_id = ? AND offer_id = ?", userID, offerID).
		LoadOneContext(ctx, &count)

	if err != nil {
		s.logger.Error("failed to check if offer is saved",
			zap.String("user_id", userID),
			zap.String("offer_id", offerID),
			zap.Error(err),
		)
		return false, fmt.Errorf("is offer saved: %w", err)
	}

	return count > 0, nil
}

// GetSavedOfferIDs returns the user's saved offer ids, oldest first.
func (s *Store) GetSavedOfferIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string

	_, err := s.sess.
		Select("offer_id").
		From("user_saved_offers").
		Where("user_id = ?", userID).
		OrderBy("saved_at").
		LoadContext(ctx, &ids)

	if err != nil {
		s.logger.Error("failed to get saved offer ids",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get saved offer ids: %w", err)
	}

	return ids, nil
}

// SavedAmong returns which of offerIDs the user has saved.
func (s *Store) SavedAmong(ctx context.Context, userID string, offerIDs []string) ([]string, error) {
	if len(offerIDs) == 0 {
		return []string{}, nil
	}

	var saved []string

	_, err := s.sess.
		Select("offer_id").
		From("user_saved_offers").
		Where("user_id = ? AND offer_id = ANY(?)", userID, pq.Array(offerIDs)).
		LoadContext(ctx, &saved)

	if err != nil {
		s.logger.Error("failed to get saved offers among ids",
			zap.String("user_id", userID),
			zap.Int("total_offers", len(offerIDs)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("saved among: %w", err)
	}

	s.logger.Debug("saved offers among ids",
		zap.String("user_id", userID),
		zap.Int("total", len(offerIDs)),
		zap.Int("saved", len(saved)),
	)

	return saved, nil
}

func (s *Store) CountSavedOffers(ctx context.Context, userID string) (int, error) {
	var count int

	err := s.sess.
		Select("COUNT(*)").
		From("user_saved_offers").
		Where("user_id = ?", userID).
		LoadOneContext(ctx, &count)

	if err != nil {
		s.logger.Error("failed to count saved offers",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return 0, fmt.Errorf("count saved offers: %w", err)
	}

	return count, nil
}
