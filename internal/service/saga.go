package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// saga накапливает компенсирующие действия для уже применённых записей
// и выполняет их в обратном порядке, если следующий шаг не удался.
type saga struct {
	name   string
	logger *zap.Logger
	steps  []compensation
}

type compensation struct {
	name string
	undo func(ctx context.Context) error
}

func newSaga(name string, logger *zap.Logger) *saga {
	return &saga{name: name, logger: logger}
}

// onRollback регистрирует откат для только что применённого шага
func (s *saga) onRollback(name string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, compensation{name: name, undo: undo})
}

// rollback откатывает шаги и возвращает cause, дополненную ошибками компенсации.
// Вид ошибки всегда определяется cause. Отмена контекста вызывающего
// не прерывает откат.
func (s *saga) rollback(ctx context.Context, cause error) error {
	ctx = context.WithoutCancel(ctx)

	errs := []error{cause}
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.undo(ctx); err != nil {
			s.logger.Error("Compensation failed",
				zap.String("operation", s.name),
				zap.String("step", step.name),
				zap.NamedError("cause", cause),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("compensate %s: %v", step.name, err))
			continue
		}
		s.logger.Debug("Compensation applied",
			zap.String("operation", s.name),
			zap.String("step", step.name),
		)
	}
	s.steps = nil

	if len(errs) == 1 {
		return cause
	}
	return errors.Join(errs...)
}
