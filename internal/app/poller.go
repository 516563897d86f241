package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/notedrop/notedrop/internal/catalog"
	"github.com/notedrop/notedrop/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
	probeTimeout        = 5 * time.Second
)

// calculateBackoff doubles the interval for every consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

// StartPoller launches a background goroutine that probes the backend and
// records each result in the store. It returns immediately; the returned
// channel closes once the goroutine has exited after ctx is cancelled.
func StartPoller(ctx context.Context, store *state.Store, pinger catalog.Pinger, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			probe(ctx, store, pinger, logger)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
	return done
}

func probe(ctx context.Context, store *state.Store, pinger catalog.Pinger, logger *zap.Logger) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	err := pinger.Ping(probeCtx)
	if ctx.Err() != nil {
		return
	}
	before := store.Snapshot().Network()
	store.RecordProbe(err)
	if err != nil {
		logger.Debug("backend probe failed", zap.Error(err))
	}
	if after := store.Snapshot().Network(); after != before {
		logger.Info("network status changed",
			zap.Stringer("from", before),
			zap.Stringer("to", after),
		)
	}
}
