package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/geofusion-service/internal/worker"
)

const (
	// DefaultSessionTTL - сессия без запросов дольше этого срока удаляется
	DefaultSessionTTL = 30 * time.Minute
	// DefaultSweepInterval - период прохода janitor
	DefaultSweepInterval = time.Minute
)

// SessionEvictor удаляет простаивающие сессии
type SessionEvictor interface {
	EvictIdle(ttl time.Duration) int
}

// JanitorWorker периодически вычищает сессии, которые давно не использовались
type JanitorWorker struct {
	*worker.BaseWorker
	evictor SessionEvictor
	ttl     time.Duration
}

// NewJanitorWorker создает воркер очистки сессий
func NewJanitorWorker(evictor SessionEvictor, ttl, interval time.Duration, logger *zap.Logger) *JanitorWorker {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &JanitorWorker{
		BaseWorker: worker.NewBaseWorker("session-janitor", interval, logger),
		evictor:    evictor,
		ttl:        ttl,
	}
}

// Start запускает цикл очистки до Stop или отмены контекста
func (w *JanitorWorker) Start(ctx context.Context) error {
	w.Logger().Info("Starting session janitor",
		zap.Duration("ttl", w.ttl),
		zap.Duration("interval", w.Interval()))

	ticker := time.NewTicker(w.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-w.StopChan():
			w.Logger().Info("Worker stopped")
			return nil
		case <-ctx.Done():
			w.Logger().Info("Context cancelled")
			return ctx.Err()
		case <-ticker.C:
			w.SweepOnce()
		}
	}
}

// SweepOnce выполняет один проход очистки и возвращает число удаленных сессий
func (w *JanitorWorker) SweepOnce() int {
	evicted := w.evictor.EvictIdle(w.ttl)
	if evicted > 0 {
		w.Logger().Info("Idle sessions evicted", zap.Int("count", evicted))
	} else {
		w.Logger().Debug("No idle sessions")
	}
	return evicted
}
