package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Freeeeeet/slot_swapper/internal/clock"
	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/google/uuid"
)

type ExchangeRepository struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]model.ExchangeRequest
	clock    clock.Clock
}

func NewExchangeRepository(clk clock.Clock) *ExchangeRepository {
	return &ExchangeRepository{
		requests: make(map[uuid.UUID]model.ExchangeRequest),
		clock:    clk,
	}
}

// Create сохраняет новую заявку
func (r *ExchangeRepository) Create(ctx context.Context, req *model.ExchangeRequest) error {
	if !req.Status.Valid() {
		return model.NewError(model.KindInvalidInput, "unknown exchange status %q", req.Status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if _, exists := r.requests[req.ID]; exists {
		return model.NewError(model.KindConflict, "exchange request %s already exists", req.ID)
	}

	now := r.clock.Now()
	req.Version = 1
	req.CreatedAt = now
	req.UpdatedAt = now
	r.requests[req.ID] = *req

	return nil
}

// GetByID получает копию заявки по ID
func (r *ExchangeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ExchangeRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, model.NewError(model.KindNotFound, "exchange request %s not found", id)
	}
	return &req, nil
}

// Update записывает заявку, если её версия не изменилась с момента чтения
func (r *ExchangeRepository) Update(ctx context.Context, req *model.ExchangeRequest) error {
	if !req.Status.Valid() {
		return model.NewError(model.KindInvalidInput, "unknown exchange status %q", req.Status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.requests[req.ID]
	if !ok {
		return model.NewError(model.KindNotFound, "exchange request %s not found", req.ID)
	}
	if current.Version != req.Version {
		return model.NewError(model.KindConflict, "exchange request %s version is %d, expected %d", req.ID, current.Version, req.Version)
	}

	next := *req
	next.Version = current.Version + 1
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = r.clock.Now()
	r.requests[req.ID] = next
	*req = next

	return nil
}

// FindByParticipant возвращает заявки пользователя, новые первыми
func (r *ExchangeRepository) FindByParticipant(ctx context.Context, userID string) ([]*model.ExchangeRequest, error) {
	return r.filter(func(req model.ExchangeRequest) bool {
		return req.Involves(userID)
	}, true), nil
}

// FindPending возвращает ожидающие заявки пользователя
func (r *ExchangeRepository) FindPending(ctx context.Context, userID string) ([]*model.ExchangeRequest, error) {
	return r.filter(func(req model.ExchangeRequest) bool {
		return req.IsPending() && req.Involves(userID)
	}, true), nil
}

// FindAllPending возвращает все ожидающие заявки, старые первыми
func (r *ExchangeRepository) FindAllPending(ctx context.Context) ([]*model.ExchangeRequest, error) {
	return r.filter(func(req model.ExchangeRequest) bool {
		return req.IsPending()
	}, false), nil
}

func (r *ExchangeRepository) filter(match func(model.ExchangeRequest) bool, newestFirst bool) []*model.ExchangeRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requests := make([]*model.ExchangeRequest, 0)
	for _, req := range r.requests {
		if match(req) {
			found := req
			requests = append(requests, &found)
		}
	}

	sort.Slice(requests, func(i, j int) bool {
		a, b := requests[i], requests[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if newestFirst {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	return requests
}
