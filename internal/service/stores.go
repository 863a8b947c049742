package service

import (
	"context"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/google/uuid"
)

// SlotStore хранилище слотов.
//
// Update и Delete условны по Version: если версия в хранилище ушла вперёд,
// возвращается model.ErrConflict; если записи нет, model.ErrNotFound.
// При успешном Update версия переданного слота увеличивается.
type SlotStore interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error)
	Update(ctx context.Context, slot *model.Slot) error
	Delete(ctx context.Context, id uuid.UUID, version int64) error
	FindByOwner(ctx context.Context, ownerID string, status *model.SlotStatus) ([]*model.Slot, error)
	FindSwappable(ctx context.Context, excludingOwnerID string) ([]*model.Slot, error)
	FindByStatus(ctx context.Context, status model.SlotStatus) ([]*model.Slot, error)
}

// ExchangeStore хранилище заявок на обмен. Контракт версий тот же, что у SlotStore.
type ExchangeStore interface {
	Create(ctx context.Context, req *model.ExchangeRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ExchangeRequest, error)
	Update(ctx context.Context, req *model.ExchangeRequest) error
	FindByParticipant(ctx context.Context, userID string) ([]*model.ExchangeRequest, error)
	FindPending(ctx context.Context, userID string) ([]*model.ExchangeRequest, error)
	FindAllPending(ctx context.Context) ([]*model.ExchangeRequest, error)
}
