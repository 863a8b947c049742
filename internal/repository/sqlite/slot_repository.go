package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Freeeeeet/slot_swapper/internal/clock"
	"github.com/Freeeeeet/slot_swapper/internal/model"
)

type SlotRepository struct {
	db    *gorm.DB
	clock clock.Clock
}

// Create сохраняет новый слот
func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	if !slot.Status.Valid() {
		return model.NewError(model.KindInvalidInput, "unknown slot status %q", slot.Status)
	}
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}

	now := r.clock.Now()
	row := slotRow{
		ID:        slot.ID.String(),
		Title:     slot.Title,
		StartTime: slot.StartTime.UTC(),
		EndTime:   slot.EndTime.UTC(),
		OwnerID:   slot.OwnerID,
		Status:    string(slot.Status),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	slot.Version = 1
	slot.CreatedAt = now
	slot.UpdatedAt = now
	return nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	var row slotRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id.String()).Error
	if err != nil {
		if notFound(err) {
			return nil, model.NewError(model.KindNotFound, "slot %s not found", id)
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}
	return toSlot(row)
}

// Update записывает слот, если его версия не изменилась с момента чтения
func (r *SlotRepository) Update(ctx context.Context, slot *model.Slot) error {
	if !slot.Status.Valid() {
		return model.NewError(model.KindInvalidInput, "unknown slot status %q", slot.Status)
	}

	now := r.clock.Now()
	result := r.db.WithContext(ctx).
		Model(&slotRow{}).
		Where("id = ? AND version = ?", slot.ID.String(), slot.Version).
		Updates(map[string]any{
			"title":      slot.Title,
			"start_time": slot.StartTime.UTC(),
			"end_time":   slot.EndTime.UTC(),
			"owner_id":   slot.OwnerID,
			"status":     string(slot.Status),
			"version":    slot.Version + 1,
			"updated_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("update slot %s: %w", slot.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return r.staleWrite(ctx, slot.ID, slot.Version)
	}

	slot.Version++
	slot.UpdatedAt = now
	return nil
}

// Delete удаляет слот указанной версии; заблокированные слоты не удаляются
func (r *SlotRepository) Delete(ctx context.Context, id uuid.UUID, version int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND version = ? AND status <> ?", id.String(), version, string(model.SlotStatusSwapPending)).
		Delete(&slotRow{})
	if result.Error != nil {
		return fmt.Errorf("delete slot: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Version != version {
		return model.NewError(model.KindConflict, "slot %s version is %d, expected %d", id, current.Version, version)
	}
	return model.NewError(model.KindInvalidTransition, "slot %s is locked by a pending exchange", id)
}

// FindByOwner возвращает слоты владельца, опционально с фильтром по статусу
func (r *SlotRepository) FindByOwner(ctx context.Context, ownerID string, status *model.SlotStatus) ([]*model.Slot, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if status != nil {
		q = q.Where("status = ?", string(*status))
	}
	return r.list(q, "find slots by owner")
}

// FindSwappable возвращает открытые для обмена слоты всех, кроме excludingOwnerID
func (r *SlotRepository) FindSwappable(ctx context.Context, excludingOwnerID string) ([]*model.Slot, error) {
	q := r.db.WithContext(ctx).
		Where("status = ? AND owner_id <> ?", string(model.SlotStatusSwappable), excludingOwnerID)
	return r.list(q, "find swappable slots")
}

// FindByStatus возвращает все слоты в указанном статусе
func (r *SlotRepository) FindByStatus(ctx context.Context, status model.SlotStatus) ([]*model.Slot, error) {
	q := r.db.WithContext(ctx).Where("status = ?", string(status))
	return r.list(q, "find slots by status")
}

func (r *SlotRepository) list(q *gorm.DB, op string) ([]*model.Slot, error) {
	var rows []slotRow
	if err := q.Order("start_time, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slots := make([]*model.Slot, 0, len(rows))
	for _, row := range rows {
		slot, err := toSlot(row)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func (r *SlotRepository) staleWrite(ctx context.Context, id uuid.UUID, version int64) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return model.NewError(model.KindConflict, "slot %s version is %d, expected %d", id, current.Version, version)
}
