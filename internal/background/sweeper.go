package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/mwhitfield/storefront/internal/session"
)

// Sweeper periodically evicts expired sessions from the registry. Stores
// with native TTL expiry (Redis) don't need one; the in-process map does.
type Sweeper struct {
	registry session.Sweepable
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewSweeper creates a session sweeper.
func NewSweeper(registry session.Sweepable, logger *slog.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		registry: registry,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep task.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on startup
	s.runSweep(ctx)

	for {
		select {
		case <-ticker.C:
			s.runSweep(ctx)
		case <-s.stopCh:
			s.logger.Info("session sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("session sweeper context cancelled")
			return
		}
	}
}

func (s *Sweeper) runSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	evicted := s.registry.Sweep(sweepCtx)
	if evicted > 0 {
		s.logger.Info("expired session sweep completed", slog.Int("evicted", evicted))
	}
}

// Stop signals the sweeper to stop.
func (s *Sweeper) Stop() {
	close(s.stopCh)
}
