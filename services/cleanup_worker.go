package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akinalp/eihracat/repository"
)

// CleanupWorker, periyodik bakım işleri: süresi dolmuş oturumlar, reset token'ları
// ve (auditRetention > 0 ise) eski audit kayıtları silinir.
//
// İlk tur hemen çalışır, sonra interval aralığında tekrarlar.
// main.go graceful shutdown sırasında Stop() çağırır.
type CleanupWorker interface {
	Start()
	// Stop, goroutine bitene kadar bekler. Birden fazla çağrılabilir.
	Stop()
	// RunOnce, tek bir temizlik turunu senkron çalıştırır (CLI ve testler).
	RunOnce(ctx context.Context)
}

type cleanupWorker struct {
	sessions repository.SessionRepository
	resets   repository.PasswordResetRepository
	audit    AuditService
	log      *zap.Logger
	now      clock

	interval       time.Duration
	auditRetention time.Duration

	mu       sync.Mutex
	started  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewCleanupWorker, constructor.
//
// interval: production'da 1 saat. auditRetention: 0 ise audit kayıtlarına dokunulmaz.
func NewCleanupWorker(
	sessions repository.SessionRepository,
	resets repository.PasswordResetRepository,
	audit AuditService,
	log *zap.Logger,
	interval time.Duration,
	auditRetention time.Duration,
) CleanupWorker {
	return &cleanupWorker{
		sessions:       sessions,
		resets:         resets,
		audit:          audit,
		log:            log,
		now:            systemClock,
		interval:       interval,
		auditRetention: auditRetention,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

func (w *cleanupWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true

	w.log.Info("cleanup worker starting", zap.Duration("interval", w.interval))

	go func() {
		defer close(w.doneCh)

		w.runWithTimeout()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.runWithTimeout()
			case <-w.stopCh:
				w.log.Info("cleanup worker stopped")
				return
			}
		}
	}()
}

func (w *cleanupWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })

	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if started {
		<-w.doneCh
	}
}

func (w *cleanupWorker) runWithTimeout() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	w.RunOnce(ctx)
}

func (w *cleanupWorker) RunOnce(ctx context.Context) {
	now := w.now()

	sessions, err := w.sessions.DeleteExpired(ctx, now)
	if err != nil {
		w.log.Error("failed to purge expired sessions", zap.Error(err))
	}

	resets, err := w.resets.DeleteExpired(ctx, now)
	if err != nil {
		w.log.Error("failed to purge expired reset tokens", zap.Error(err))
	}

	var audits int64
	if w.auditRetention > 0 {
		audits, err = w.audit.PurgeBefore(ctx, now.Add(-w.auditRetention))
		if err != nil {
			w.log.Error("failed to purge audit logs", zap.Error(err))
		}
	}

	if sessions > 0 || resets > 0 || audits > 0 {
		w.log.Info("cleanup finished",
			zap.Int64("sessions", sessions),
			zap.Int64("reset_tokens", resets),
			zap.Int64("audit_logs", audits),
		)
	}
}
