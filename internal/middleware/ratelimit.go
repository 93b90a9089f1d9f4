package middleware

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	MaxRemoteReadsPerMinute = 60
)

// ReadCounter tracks remote reads in a shared one-minute window.
type ReadCounter interface {
	GetRemoteReads(ctx context.Context) (int64, error)
	IncrementRemoteReads(ctx context.Context) (int64, error)
}

// RemoteReadGuard returns a check that fails once limit reads were made in
// the current window. Counter errors never block a read.
func RemoteReadGuard(counter ReadCounter, limit int64, logger *zap.Logger) func(ctx context.Context) error {
	if limit <= 0 {
		limit = MaxRemoteReadsPerMinute
	}

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		count, err := counter.GetRemoteReads(ctx)
		if err != nil {
			logger.Error("failed to check remote read limit", zap.Error(err))
			return nil
		}

		if count >= limit {
			logger.Warn("remote read limit exceeded",
				zap.Int64("count", count),
				zap.Int64("limit", limit),
			)
			return fmt.Errorf("remote read limit exceeded: %d requests", count)
		}

		if _, err := counter.IncrementRemoteReads(ctx); err != nil {
			logger.Error("failed to increment remote read counter", zap.Error(err))
		}

		return nil
	}
}
