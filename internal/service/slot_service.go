package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/slotstate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ограничения на название слота
const (
	SlotTitleMaxLength = 200
)

type SlotService struct {
	slots  SlotStore
	logger *zap.Logger
}

func NewSlotService(slots SlotStore, logger *zap.Logger) *SlotService {
	return &SlotService{
		slots:  slots,
		logger: logger,
	}
}

// CreateSlot создаёт новый слот владельца в статусе BUSY
func (s *SlotService) CreateSlot(ctx context.Context, ownerID, title string, start, end time.Time) (*model.Slot, error) {
	title = strings.TrimSpace(title)

	if ownerID == "" {
		return nil, model.NewError(model.KindInvalidInput, "owner is required")
	}
	if title == "" {
		return nil, model.NewError(model.KindInvalidInput, "title is required")
	}
	if utf8.RuneCountInString(title) > SlotTitleMaxLength {
		return nil, model.NewError(model.KindInvalidInput, "title is longer than %d characters", SlotTitleMaxLength)
	}
	if start.IsZero() || end.IsZero() {
		return nil, model.NewError(model.KindInvalidInput, "start and end time are required")
	}
	if !end.After(start) {
		return nil, model.NewError(model.KindInvalidInput, "end time must be after start time")
	}

	slot := &model.Slot{
		Title:     title,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		OwnerID:   ownerID,
		Status:    model.SlotStatusBusy,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}

	s.logger.Info("Slot created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("owner_id", ownerID),
		zap.Time("start_time", slot.StartTime),
	)

	return slot, nil
}

// GetSlot получает слот по ID
func (s *SlotService) GetSlot(ctx context.Context, slotID uuid.UUID) (*model.Slot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	return slot, nil
}

// OpenForExchange открывает слот для обмена (BUSY -> SWAPPABLE)
func (s *SlotService) OpenForExchange(ctx context.Context, slotID uuid.UUID, ownerID string) (*model.Slot, error) {
	return s.transition(ctx, slotID, ownerID, "open", slotstate.OpenForExchange)
}

// CloseForExchange снимает слот с обмена (SWAPPABLE -> BUSY)
func (s *SlotService) CloseForExchange(ctx context.Context, slotID uuid.UUID, ownerID string) (*model.Slot, error) {
	return s.transition(ctx, slotID, ownerID, "close", slotstate.CloseForExchange)
}

func (s *SlotService) transition(
	ctx context.Context,
	slotID uuid.UUID,
	ownerID string,
	action string,
	fn func(model.Slot, string) (model.Slot, error),
) (*model.Slot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}

	next, err := fn(*slot, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.slots.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("%s slot: %w", action, err)
	}

	s.logger.Info("Slot status changed",
		zap.String("slot_id", slotID.String()),
		zap.String("owner_id", ownerID),
		zap.String("status", string(next.Status)),
	)

	return &next, nil
}

// DeleteSlot удаляет слот владельца; заблокированный заявкой слот удалить нельзя
func (s *SlotService) DeleteSlot(ctx context.Context, slotID uuid.UUID, ownerID string) error {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return fmt.Errorf("get slot: %w", err)
	}

	if err := slotstate.CanDelete(*slot, ownerID); err != nil {
		return err
	}

	if err := s.slots.Delete(ctx, slotID, slot.Version); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	s.logger.Info("Slot deleted",
		zap.String("slot_id", slotID.String()),
		zap.String("owner_id", ownerID),
	)

	return nil
}

// ListOwnSlots возвращает все слоты пользователя
func (s *SlotService) ListOwnSlots(ctx context.Context, ownerID string) ([]*model.Slot, error) {
	slots, err := s.slots.FindByOwner(ctx, ownerID, nil)
	if err != nil {
		return nil, fmt.Errorf("list own slots: %w", err)
	}
	return slots, nil
}

// ListSwappable возвращает открытые для обмена слоты других пользователей
func (s *SlotService) ListSwappable(ctx context.Context, excludingOwnerID string) ([]*model.Slot, error) {
	slots, err := s.slots.FindSwappable(ctx, excludingOwnerID)
	if err != nil {
		return nil, fmt.Errorf("list swappable slots: %w", err)
	}
	return slots, nil
}

// ListOwnSwappable возвращает собственные слоты пользователя, открытые для обмена
func (s *SlotService) ListOwnSwappable(ctx context.Context, ownerID string) ([]*model.Slot, error) {
	status := model.SlotStatusSwappable
	slots, err := s.slots.FindByOwner(ctx, ownerID, &status)
	if err != nil {
		return nil, fmt.Errorf("list own swappable slots: %w", err)
	}
	return slots, nil
}
