package scheduler

import (
	"context"
	"errors"
	"time"

	"campus-rentals/internal/middleware"
	"campus-rentals/internal/offers"

	"go.uber.org/zap"
)

// Syncer re-reads the remote collections and refreshes the cache.
type Syncer interface {
	Refresh(ctx context.Context) (int, error)
}

// Refresher keeps the cache current while online. It refreshes on every
// interval and once more whenever connectivity comes back.
type Refresher struct {
	syncer   Syncer
	gate     *offers.Gate
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

func New(syncer Syncer, gate *offers.Gate, interval, timeout time.Duration, logger *zap.Logger) *Refresher {
	return &Refresher{
		syncer:   syncer,
		gate:     gate,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

func (r *Refresher) Start(ctx context.Context) {
	defer middleware.Recover(r.logger, "refresher")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	changes, unsubscribe := r.gate.Subscribe()
	defer unsubscribe()

	r.logger.Info("offer refresher started",
		zap.Duration("interval", r.interval),
	)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("offer refresher stopped")
			return
		case online := <-changes:
			if online {
				r.logger.Info("back online, refreshing offers")
				r.refresh(ctx)
			}
		case <-ticker.C:
			if r.gate.Online() {
				r.refresh(ctx)
			}
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.syncer.Refresh(refreshCtx)
	if err != nil {
		if errors.Is(err, offers.ErrOffline) {
			r.logger.Debug("skipping refresh while offline")
			return
		}
		r.logger.Error("failed to refresh offers", zap.Error(err))
		return
	}

	r.logger.Info("offers refreshed", zap.Int("count", n))
}
