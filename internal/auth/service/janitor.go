package service

import (
	"context"
	"time"

	"github.com/resumekit/resumekit-backend/internal/auth/repository"
	"github.com/resumekit/resumekit-backend/pkg/logger"
)

// SessionJanitor periodically deletes expired and revoked sessions
type SessionJanitor struct {
	sessions *repository.SessionRepository
	interval time.Duration
	logger   *logger.Logger
	cancel   context.CancelFunc
}

// NewSessionJanitor creates a janitor that runs every interval
func NewSessionJanitor(sessions *repository.SessionRepository, interval time.Duration, log *logger.Logger) *SessionJanitor {
	return &SessionJanitor{
		sessions: sessions,
		interval: interval,
		logger:   log.WithComponent("session-janitor"),
	}
}

// Start runs one sweep immediately and then one per tick in a background goroutine
func (j *SessionJanitor) Start(ctx context.Context) {
	ctx, j.cancel = context.WithCancel(ctx)

	go func() {
		j.Sweep(ctx)

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				j.logger.Info().Msg("session janitor stopped")
				return
			case <-ticker.C:
				j.Sweep(ctx)
			}
		}
	}()
}

// Stop stops the janitor goroutine
func (j *SessionJanitor) Stop() {
	if j.cancel != nil {
		j.cancel()
	}
}

// Sweep deletes dead sessions once
func (j *SessionJanitor) Sweep(ctx context.Context) {
	removed, err := j.sessions.CleanExpired(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to clean expired sessions")
		return
	}
	if removed > 0 {
		j.logger.Info().Int64("removed", removed).Msg("cleaned expired sessions")
	}
}
