package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const slotColumns = `id, title, start_time, end_time, owner_id, status, version, created_at, updated_at`

type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новый слот
func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	if !slot.Status.Valid() {
		return model.NewError(model.KindInvalidInput, "unknown slot status %q", slot.Status)
	}
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}

	query := `
		INSERT INTO slots (id, title, start_time, end_time, owner_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING version, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		slot.ID,
		slot.Title,
		slot.StartTime,
		slot.EndTime,
		slot.OwnerID,
		slot.Status,
	).Scan(&slot.Version, &slot.CreatedAt, &slot.UpdatedAt)

	if err != nil {
		return base.MapError(err, "create slot")
	}

	slot.CreatedAt = slot.CreatedAt.UTC()
	slot.UpdatedAt = slot.UpdatedAt.UTC()
	return nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`

	slot, err := scanSlot(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.NewError(model.KindNotFound, "slot %s not found", id)
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// Update записывает слот, если его версия в БД совпадает с прочитанной
func (r *SlotRepository) Update(ctx context.Context, slot *model.Slot) error {
	if !slot.Status.Valid() {
		return model.NewError(model.KindInvalidInput, "unknown slot status %q", slot.Status)
	}

	query := `
		UPDATE slots
		SET title = $3, start_time = $4, end_time = $5, owner_id = $6, status = $7,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		slot.ID,
		slot.Version,
		slot.Title,
		slot.StartTime,
		slot.EndTime,
		slot.OwnerID,
		slot.Status,
	).Scan(&slot.Version, &slot.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return r.staleWrite(ctx, slot.ID, slot.Version)
		}
		return base.MapError(err, "update slot %s", slot.ID)
	}

	slot.UpdatedAt = slot.UpdatedAt.UTC()
	return nil
}

// Delete удаляет слот указанной версии; заблокированные слоты не удаляются
func (r *SlotRepository) Delete(ctx context.Context, id uuid.UUID, version int64) error {
	query := `
		DELETE FROM slots
		WHERE id = $1 AND version = $2 AND status <> 'SWAP_PENDING'
	`

	affected, err := r.ExecAffected(ctx, query, id, version)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if affected > 0 {
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
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE owner_id = $1
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY start_time, id
	`

	return r.list(ctx, "find slots by owner", query, ownerID, statusArg)
}

// FindSwappable возвращает открытые для обмена слоты всех, кроме excludingOwnerID
func (r *SlotRepository) FindSwappable(ctx context.Context, excludingOwnerID string) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE status = 'SWAPPABLE'
		  AND owner_id <> $1
		ORDER BY start_time, id
	`

	return r.list(ctx, "find swappable slots", query, excludingOwnerID)
}

// FindByStatus возвращает все слоты в указанном статусе
func (r *SlotRepository) FindByStatus(ctx context.Context, status model.SlotStatus) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE status = $1
		ORDER BY start_time, id
	`

	return r.list(ctx, "find slots by status", query, string(status))
}

func (r *SlotRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Slot, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	slots := make([]*model.Slot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return slots, nil
}

// staleWrite различает удалённый слот и слот с продвинувшейся версией
func (r *SlotRepository) staleWrite(ctx context.Context, id uuid.UUID, version int64) error {
	var current int64
	err := r.QueryRow(ctx, `SELECT version FROM slots WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if base.IsNotFound(err) {
			return model.NewError(model.KindNotFound, "slot %s not found", id)
		}
		return fmt.Errorf("check slot version: %w", err)
	}
	return model.NewError(model.KindConflict, "slot %s version is %d, expected %d", id, current, version)
}

func scanSlot(row pgx.Row) (*model.Slot, error) {
	var slot model.Slot
	var status string
	err := row.Scan(
		&slot.ID,
		&slot.Title,
		&slot.StartTime,
		&slot.EndTime,
		&slot.OwnerID,
		&status,
		&slot.Version,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.Status = model.SlotStatus(status)
	slot.StartTime = slot.StartTime.UTC()
	slot.EndTime = slot.EndTime.UTC()
	slot.CreatedAt = slot.CreatedAt.UTC()
	slot.UpdatedAt = slot.UpdatedAt.UTC()
	return &slot, nil
}
