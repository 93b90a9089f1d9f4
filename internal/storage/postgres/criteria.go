package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"campus-rentals/internal/models"

	"go.uber.org/zap"
)

const upsertSettingQuery = `
	INSERT INTO user_filters (profile_id, filter_type, filter_value, updated_at)
	VALUES (?, ?, ?, NOW())
	ON CONFLICT (profile_id, filter_type)
	DO UPDATE SET
		filter_value = EXCLUDED.filter_value,
		updated_at   = NOW()
`

// SaveCriteria replaces every persisted criteria value of the profile in
// one transaction.
func (s *Store) SaveCriteria(ctx context.Context, profileID string, criteria models.FilterCriteria) error {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.RollbackUnlessCommitted()

	settings := criteria.Settings()

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, filterType := range keys {
		_, err := tx.
			InsertBySql(upsertSettingQuery, profileID, filterType, settings[filterType]).
			ExecContext(ctx)
		if err != nil {
			s.logger.Error("failed to save criteria setting",
				zap.String("profile_id", profileID),
				zap.String("filter_type", filterType),
				zap.Error(err),
			)
			return fmt.Errorf("save criteria setting %s: %w", filterType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit criteria: %w", err)
	}

	s.logger.Info("criteria saved",
		zap.String("profile_id", profileID),
		zap.Bool("applied", criteria.Applied),
	)

	return nil
}

func (s *Store) GetCriteriaSettings(ctx context.Context, profileID string) ([]models.CriteriaSetting, error) {
	var settings []models.CriteriaSetting

	_, err := s.sess.
		Select("profile_id", "filter_type", "filter_value", "updated_at").
		From("user_filters").
		Where("profile_id = ?", profileID).
		OrderBy("filter_type").
		LoadContext(ctx, &settings)

	if err != nil {
		s.logger.Error("failed to get criteria settings",
			zap.String("profile_id", profileID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get criteria settings: %w", err)
	}

	return settings, nil
}

// LoadCriteria returns the persisted criteria, or the defaults for any value
// never saved.
func (s *Store) LoadCriteria(ctx context.Context, profileID string, now time.Time, loc *time.Location) (models.FilterCriteria, error) {
	settings, err := s.GetCriteriaSettings(ctx, profileID)
	if err != nil {
		return models.DefaultCriteria(now), err
	}

	settingsMap := make(map[string]string, len(settings))
	for _, setting := range settings {
		settingsMap[setting.FilterType] = setting.FilterValue
	}

	return models.CriteriaFromSettings(settingsMap, now, loc), nil
}

func (s *Store) ClearCriteria(ctx context.Context, profileID string) error {
	result, err := s.sess.
		DeleteFrom("user_filters").
		Where("profile_id = ?", profileID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to clear criteria",
			zap.String("profile_id", profileID),
			zap.Error(err),
		)
		return fmt.Errorf("clear criteria: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()

	s.logger.Info("criteria cleared",
		zap.String("profile_id", profileID),
		zap.Int64("count", rowsAffected),
	)

	return nil
}
