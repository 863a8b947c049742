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

const exchangeColumns = `id, requester_id, receiver_id, my_slot_id, their_slot_id, status, version, created_at, updated_at`

type ExchangeRepository struct {
	*base.Repository
}

func NewExchangeRepository(pool *pgxpool.Pool) *ExchangeRepository {
	return &ExchangeRepository{Repository: base.NewRepository(pool)}
}

// Create сохраняет новую заявку. Вторая ожидающая заявка на тот же слот
// отклоняется уникальным индексом и возвращается как Conflict.
func (r *ExchangeRepository) Create(ctx context.Context, req *model.ExchangeRequest) error {
	if !req.Status.Valid() {
		return model.NewError(model.KindInvalidInput, "unknown exchange status %q", req.Status)
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	query := `
		INSERT INTO exchange_requests (id, requester_id, receiver_id, my_slot_id, their_slot_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING version, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		req.ID,
		req.RequesterID,
		req.ReceiverID,
		req.MySlotID,
		req.TheirSlotID,
		req.Status,
	).Scan(&req.Version, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return base.MapError(err, "create exchange request")
	}

	req.CreatedAt = req.CreatedAt.UTC()
	req.UpdatedAt = req.UpdatedAt.UTC()
	return nil
}

// GetByID получает заявку по ID
func (r *ExchangeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ExchangeRequest, error) {
	query := `SELECT ` + exchangeColumns + ` FROM exchange_requests WHERE id = $1`

	req, err := scanExchange(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.NewError(model.KindNotFound, "exchange request %s not found", id)
		}
		return nil, fmt.Errorf("get exchange request by id: %w", err)
	}

	return req, nil
}

// Update записывает заявку, если её версия в БД совпадает с прочитанной
func (r *ExchangeRepository) Update(ctx context.Context, req *model.ExchangeRequest) error {
	if !req.Status.Valid() {
		return model.NewError(model.KindInvalidInput, "unknown exchange status %q", req.Status)
	}

	query := `
		UPDATE exchange_requests
		SET status = $3, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at
	`

	err := r.QueryRow(ctx, query, req.ID, req.Version, req.Status).Scan(&req.Version, &req.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return r.staleWrite(ctx, req.ID, req.Version)
		}
		return base.MapError(err, "update exchange request %s", req.ID)
	}

	req.UpdatedAt = req.UpdatedAt.UTC()
	return nil
}

// FindByParticipant возвращает заявки пользователя, новые первыми
func (r *ExchangeRepository) FindByParticipant(ctx context.Context, userID string) ([]*model.ExchangeRequest, error) {
	query := `
		SELECT ` + exchangeColumns + `
		FROM exchange_requests
		WHERE requester_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC, id
	`

	return r.list(ctx, "find exchanges by participant", query, userID)
}

// FindPending возвращает ожидающие заявки пользователя
func (r *ExchangeRepository) FindPending(ctx context.Context, userID string) ([]*model.ExchangeRequest, error) {
	query := `
		SELECT ` + exchangeColumns + `
		FROM exchange_requests
		WHERE status = 'PENDING'
		  AND (requester_id = $1 OR receiver_id = $1)
		ORDER BY created_at DESC, id
	`

	return r.list(ctx, "find pending exchanges", query, userID)
}

// FindAllPending возвращает все ожидающие заявки, старые первыми
func (r *ExchangeRepository) FindAllPending(ctx context.Context) ([]*model.ExchangeRequest, error) {
	query := `
		SELECT ` + exchangeColumns + `
		FROM exchange_requests
		WHERE status = 'PENDING'
		ORDER BY created_at, id
	`

	return r.list(ctx, "find all pending exchanges", query)
}

func (r *ExchangeRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.ExchangeRequest, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	requests := make([]*model.ExchangeRequest, 0)
	for rows.Next() {
		req, err := scanExchange(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exchange request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return requests, nil
}

func (r *ExchangeRepository) staleWrite(ctx context.Context, id uuid.UUID, version int64) error {
	var current int64
	err := r.QueryRow(ctx, `SELECT version FROM exchange_requests WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if base.IsNotFound(err) {
			return model.NewError(model.KindNotFound, "exchange request %s not found", id)
		}
		return fmt.Errorf("check exchange request version: %w", err)
	}
	return model.NewError(model.KindConflict, "exchange request %s version is %d, expected %d", id, current, version)
}

func scanExchange(row pgx.Row) (*model.ExchangeRequest, error) {
	var req model.ExchangeRequest
	var status string
	err := row.Scan(
		&req.ID,
		&req.RequesterID,
		&req.ReceiverID,
		&req.MySlotID,
		&req.TheirSlotID,
		&status,
		&req.Version,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.Status = model.ExchangeStatus(status)
	req.CreatedAt = req.CreatedAt.UTC()
	req.UpdatedAt = req.UpdatedAt.UTC()
	return &req, nil
}
