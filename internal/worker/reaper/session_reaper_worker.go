package reaper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/map-editor/internal/worker"
)

// Expirer - хранилище сессий с истечением по времени неактивности
type Expirer interface {
	Expire(ttl time.Duration) int
}

// SessionReaperWorker периодически удаляет неактивные сессии редактора
type SessionReaperWorker struct {
	*worker.BaseWorker
	sessions Expirer
	ttl      time.Duration
	interval time.Duration
}

// NewSessionReaperWorker создает новый SessionReaperWorker
func NewSessionReaperWorker(sessions Expirer, ttl, interval time.Duration, logger *zap.Logger) *SessionReaperWorker {
	return &SessionReaperWorker{
		BaseWorker: worker.NewBaseWorker("editor-session-reaper", "", logger),
		sessions:   sessions,
		ttl:        ttl,
		interval:   interval,
	}
}

// Start запускает воркер
func (w *SessionReaperWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SessionReaperWorker",
		zap.Duration("ttl", w.ttl),
		zap.Duration("interval", w.interval))

	for w.Pause(ctx, w.interval) {
		if removed := w.sessions.Expire(w.ttl); removed > 0 {
			logger.Info("Expired idle sessions", zap.Int("count", removed))
		}
	}

	if ctx.Err() != nil {
		logger.Info("Context cancelled")
		return ctx.Err()
	}
	logger.Info("Worker stopped")
	return nil
}
