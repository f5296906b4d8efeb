package service

import (
	"context"
	"time"

	"resume-parser/internal/domain"
)

// SessionReaper expires staged sessions that were never confirmed.
type SessionReaper struct {
	store    domain.SessionStore
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	logger   domain.Logger
}

func NewSessionReaper(store domain.SessionStore, ttl, interval time.Duration, logger domain.Logger) *SessionReaper {
	return &SessionReaper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// Enabled reports whether a positive TTL and interval are configured.
func (r *SessionReaper) Enabled() bool {
	return r.ttl > 0 && r.interval > 0
}

// Run reaps on every tick until ctx is cancelled. It returns at once when disabled.
func (r *SessionReaper) Run(ctx context.Context) {
	if !r.Enabled() {
		r.logger.Debug("Session reaper disabled")
		return
	}
	r.logger.Info("Session reaper started", "ttl", r.ttl.String(), "interval", r.interval.String())

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Session reaper stopped")
			return
		case <-ticker.C:
			r.ReapOnce(ctx)
		}
	}
}

// ReapOnce expires every session staged more than ttl ago.
func (r *SessionReaper) ReapOnce(ctx context.Context) int {
	n, err := r.store.Expire(ctx, r.now().Add(-r.ttl))
	if err != nil {
		r.logger.Error("Session reap failed", err)
	}
	if n > 0 {
		r.logger.Info("Expired abandoned sessions", "count", n)
	}
	return n
}
