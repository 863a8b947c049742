package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Freeeeeet/slot_swapper/internal/clock"
	"github.com/Freeeeeet/slot_swapper/internal/model"
)

type ExchangeRepository struct {
	db    *gorm.DB
	clock clock.Clock
}

// Create сохраняет новую заявку
func (r *ExchangeRepository) Create(ctx context.Context, req *model.ExchangeRequest) error {
	if !req.Status.Valid() {
		return model.NewError(model.KindInvalidInput, "unknown exchange status %q", req.Status)
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	now := r.clock.Now()
	row := exchangeRow{
		ID:          req.ID.String(),
		RequesterID: req.RequesterID,
		ReceiverID:  req.ReceiverID,
		MySlotID:    req.MySlotID.String(),
		TheirSlotID: req.TheirSlotID.String(),
		Status:      string(req.Status),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.WrapError(model.KindConflict, err, "slot already has a pending exchange request")
		}
		return fmt.Errorf("create exchange request: %w", err)
	}

	req.Version = 1
	req.CreatedAt = now
	req.UpdatedAt = now
	return nil
}

// GetByID получает заявку по ID
func (r *ExchangeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ExchangeRequest, error) {
	var row exchangeRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id.String()).Error
	if err != nil {
		if notFound(err) {
			return nil, model.NewError(model.KindNotFound, "exchange request %s not found", id)
		}
		return nil, fmt.Errorf("get exchange request by id: %w", err)
	}
	return toExchange(row)
}

// Update записывает статус заявки, если её версия не изменилась с момента чтения
func (r *ExchangeRepository) Update(ctx context.Context, req *model.ExchangeRequest) error {
	if !req.Status.Valid() {
		return model.NewError(model.KindInvalidInput, "unknown exchange status %q", req.Status)
	}

	now := r.clock.Now()
	result := r.db.WithContext(ctx).
		Model(&exchangeRow{}).
		Where("id = ? AND version = ?", req.ID.String(), req.Version).
		Updates(map[string]any{
			"status":     string(req.Status),
			"version":    req.Version + 1,
			"updated_at": now,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.WrapError(model.KindConflict, result.Error, "slot already has a pending exchange request")
		}
		return fmt.Errorf("update exchange request %s: %w", req.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		current, err := r.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		return model.NewError(model.KindConflict, "exchange request %s version is %d, expected %d", req.ID, current.Version, req.Version)
	}

	req.Version++
	req.UpdatedAt = now
	return nil
}

// FindByParticipant возвращает заявки пользователя, новые первыми
func (r *ExchangeRepository) FindByParticipant(ctx context.Context, userID string) ([]*model.ExchangeRequest, error) {
	q := r.db.WithContext(ctx).
		Where("requester_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id")
	return r.list(q, "find exchanges by participant")
}

// FindPending возвращает ожидающие заявки пользователя
func (r *ExchangeRepository) FindPending(ctx context.Context, userID string) ([]*model.ExchangeRequest, error) {
	q := r.db.WithContext(ctx).
		Where("status = ?", string(model.ExchangeStatusPending)).
		Where("requester_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id")
	return r.list(q, "find pending exchanges")
}

// FindAllPending возвращает все ожидающие заявки, старые первыми
func (r *ExchangeRepository) FindAllPending(ctx context.Context) ([]*model.ExchangeRequest, error) {
	q := r.db.WithContext(ctx).
		Where("status = ?", string(model.ExchangeStatusPending)).
		Order("created_at, id")
	return r.list(q, "find all pending exchanges")
}

func (r *ExchangeRepository) list(q *gorm.DB, op string) ([]*model.ExchangeRequest, error) {
	var rows []exchangeRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	requests := make([]*model.ExchangeRequest, 0, len(rows))
	for _, row := range rows {
		req, err := toExchange(row)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}
