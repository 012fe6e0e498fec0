// Package janitor runs periodic housekeeping against the token store.
package janitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const defaultInterval = time.Hour

// ExpiredTokenPruner deletes access tokens whose expiry has passed.
type ExpiredTokenPruner interface {
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

// Pruner calls PruneExpired on a fixed interval until its context is cancelled.
type Pruner struct {
	store    ExpiredTokenPruner
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewPruner creates a Pruner. If interval <= 0, defaultInterval is used.
func NewPruner(store ExpiredTokenPruner, interval time.Duration, log zerolog.Logger) *Pruner {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Pruner{store: store, interval: interval, log: log, now: time.Now}
}

// Start launches the worker goroutine. The returned channel is closed once the
// worker has stopped.
func (p *Pruner) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.run(ctx)
	}()
	return done
}

func (p *Pruner) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PruneOnce(ctx)
		}
	}
}

// PruneOnce runs a single pass and logs its outcome.
func (p *Pruner) PruneOnce(ctx context.Context) {
	n, err := p.store.PruneExpired(ctx, p.now())
	if err != nil {
		p.log.Error().Err(err).Msg("expired token pruning failed")
		return
	}
	if n > 0 {
		p.log.Info().Int64("count", n).Msg("pruned expired access tokens")
	}
}
