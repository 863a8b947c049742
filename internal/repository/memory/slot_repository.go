// Package memory implements the slot and exchange stores in process memory.
// Used by the memory storage driver and by service tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Freeeeeet/slot_swapper/internal/clock"
	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/google/uuid"
)

type SlotRepository struct {
	mu    sync.RWMutex
	slots map[uuid.UUID]model.Slot
	clock clock.Clock
}

func NewSlotRepository(clk clock.Clock) *SlotRepository {
	return &SlotRepository{
		slots: make(map[uuid.UUID]model.Slot),
		clock: clk,
	}
}

// Create сохраняет новый слот, заполняя ID, версию и метки времени
func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	if !slot.Status.Valid() {
		return model.NewError(model.KindInvalidInput, "unknown slot status %q", slot.Status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	if _, exists := r.slots[slot.ID]; exists {
		return model.NewError(model.KindConflict, "slot %s already exists", slot.ID)
	}

	now := r.clock.Now()
	slot.Version = 1
	slot.CreatedAt = now
	slot.UpdatedAt = now
	r.slots[slot.ID] = *slot

	return nil
}

// GetByID получает копию слота по ID
func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slot, ok := r.slots[id]
	if !ok {
		return nil, model.NewError(model.KindNotFound, "slot %s not found", id)
	}
	return &slot, nil
}

// Update записывает слот, если его версия не изменилась с момента чтения
func (r *SlotRepository) Update(ctx context.Context, slot *model.Slot) error {
	if !slot.Status.Valid() {
		return model.NewError(model.KindInvalidInput, "unknown slot status %q", slot.Status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.slots[slot.ID]
	if !ok {
		return model.NewError(model.KindNotFound, "slot %s not found", slot.ID)
	}
	if current.Version != slot.Version {
		return model.NewError(model.KindConflict, "slot %s version is %d, expected %d", slot.ID, current.Version, slot.Version)
	}

	next := *slot
	next.Version = current.Version + 1
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = r.clock.Now()
	r.slots[slot.ID] = next
	*slot = next

	return nil
}

// Delete удаляет слот указанной версии; заблокированные слоты не удаляются
func (r *SlotRepository) Delete(ctx context.Context, id uuid.UUID, version int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.slots[id]
	if !ok {
		return model.NewError(model.KindNotFound, "slot %s not found", id)
	}
	if current.Version != version {
		return model.NewError(model.KindConflict, "slot %s version is %d, expected %d", id, current.Version, version)
	}
	if current.Status == model.SlotStatusSwapPending {
		return model.NewError(model.KindInvalidTransition, "slot %s is locked by a pending exchange", id)
	}

	delete(r.slots, id)
	return nil
}

// FindByOwner возвращает слоты владельца, опционально с фильтром по статусу
func (r *SlotRepository) FindByOwner(ctx context.Context, ownerID string, status *model.SlotStatus) ([]*model.Slot, error) {
	return r.filter(func(s model.Slot) bool {
		return s.OwnerID == ownerID && (status == nil || s.Status == *status)
	}), nil
}

// FindSwappable возвращает открытые для обмена слоты всех, кроме excludingOwnerID
func (r *SlotRepository) FindSwappable(ctx context.Context, excludingOwnerID string) ([]*model.Slot, error) {
	return r.filter(func(s model.Slot) bool {
		return s.Status == model.SlotStatusSwappable && s.OwnerID != excludingOwnerID
	}), nil
}

// FindByStatus возвращает все слоты в указанном статусе
func (r *SlotRepository) FindByStatus(ctx context.Context, status model.SlotStatus) ([]*model.Slot, error) {
	return r.filter(func(s model.Slot) bool {
		return s.Status == status
	}), nil
}

func (r *SlotRepository) filter(match func(model.Slot) bool) []*model.Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slots := make([]*model.Slot, 0)
	for _, s := range r.slots {
		if match(s) {
			slot := s
			slots = append(slots, &slot)
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].StartTime.Equal(slots[j].StartTime) {
			return slots[i].StartTime.Before(slots[j].StartTime)
		}
		return slots[i].ID.String() < slots[j].ID.String()
	})

	return slots
}
