package app

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/service"
	"go.uber.org/zap"
)

// Auditor часть AuditService, нужная планировщику
type Auditor interface {
	Audit(ctx context.Context) ([]service.Violation, error)
}

// Scheduler периодически запускает аудит инвариантов обмена
type Scheduler struct {
	auditor  Auditor
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewScheduler создаёт планировщик; interval <= 0 отключает аудит
func NewScheduler(auditor Auditor, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		auditor:  auditor,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновый аудит
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Background audit disabled")
		close(s.done)
		return
	}

	s.logger.Info("Starting background audit", zap.Duration("interval", s.interval))
	go s.runAuditTask(ctx)
}

// Stop останавливает аудит и ждёт завершения текущего прохода.
// Вызывать только после Start.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	<-s.done
}

func (s *Scheduler) runAuditTask(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-s.stopChan:
			s.logger.Info("Audit task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Audit task cancelled")
			return
		}
	}
}

// RunOnce выполняет один проход аудита и возвращает число нарушений
func (s *Scheduler) RunOnce(ctx context.Context) int {
	violations, err := s.auditor.Audit(ctx)
	if err != nil {
		s.logger.Error("Audit failed", zap.Error(err))
		return 0
	}

	if len(violations) > 0 {
		s.logger.Warn("Audit completed with violations", zap.Int("violations", len(violations)))
	} else {
		s.logger.Debug("Audit completed")
	}
	return len(violations)
}
