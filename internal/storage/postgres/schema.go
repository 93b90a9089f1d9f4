package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS user_filters (
		profile_id   TEXT        NOT NULL,
		filter_type  TEXT        NOT NULL,
		filter_value TEXT        NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (profile_id, filter_type)
	)`,
	`CREATE TABLE IF NOT EXISTS user_saved_offers (
		user_id  TEXT        NOT NULL,
		offer_id TEXT        NOT NULL,
		saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, offer_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_saved_offers_user ON user_saved_offers (user_id, saved_at)`,
}

// EnsureSchema creates the tables the store relies on.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			s.logger.Error("failed to apply schema statement",
				zap.Int("statement", i),
				zap.Error(err),
			)
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}

	s.logger.Info("schema ensured", zap.Int("statements", len(schema)))
	return nil
}
