package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/clock"
	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ViolationKind string

const (
	// Слот в SWAP_PENDING, но ни одна ожидающая заявка на него не ссылается
	ViolationOrphanedLock ViolationKind = "orphaned_lock"
	// На слот ссылаются две и более ожидающие заявки
	ViolationDoubleCommitted ViolationKind = "double_committed"
	// Ожидающая заявка ссылается на слот, который не заблокирован
	ViolationUnlockedPending ViolationKind = "unlocked_pending"
)

type Violation struct {
	Kind       ViolationKind
	SlotID     uuid.UUID
	RequestIDs []uuid.UUID
	Detail     string
}

// defaultAuditGrace пропускает записи моложе этого возраста: между блокировкой
// слотов и записью заявки состояние законно расходится.
const defaultAuditGrace = time.Minute

// AuditService только читает хранилища и сообщает о нарушениях инвариантов.
// Ничего не исправляет.
type AuditService struct {
	slots     SlotStore
	exchanges ExchangeStore
	clock     clock.Clock
	grace     time.Duration
	logger    *zap.Logger
}

type AuditOption func(*AuditService)

// WithAuditGrace переопределяет окно, в котором свежие записи не проверяются
func WithAuditGrace(d time.Duration) AuditOption {
	return func(s *AuditService) {
		if d >= 0 {
			s.grace = d
		}
	}
}

func NewAuditService(slots SlotStore, exchanges ExchangeStore, clk clock.Clock, logger *zap.Logger, opts ...AuditOption) *AuditService {
	svc := &AuditService{
		slots:     slots,
		exchanges: exchanges,
		clock:     clk,
		grace:     defaultAuditGrace,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Audit проверяет все ожидающие заявки и заблокированные слоты
func (s *AuditService) Audit(ctx context.Context) ([]Violation, error) {
	pending, err := s.exchanges.FindAllPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("find pending exchanges: %w", err)
	}
	locked, err := s.slots.FindByStatus(ctx, model.SlotStatusSwapPending)
	if err != nil {
		return nil, fmt.Errorf("find locked slots: %w", err)
	}

	cutoff := s.clock.Now().Add(-s.grace)

	refs := make(map[uuid.UUID][]uuid.UUID)
	for _, req := range pending {
		refs[req.MySlotID] = append(refs[req.MySlotID], req.ID)
		refs[req.TheirSlotID] = append(refs[req.TheirSlotID], req.ID)
	}

	var violations []Violation

	for slotID, ids := range refs {
		if len(ids) > 1 {
			violations = append(violations, Violation{
				Kind:       ViolationDoubleCommitted,
				SlotID:     slotID,
				RequestIDs: ids,
				Detail:     fmt.Sprintf("slot is referenced by %d pending requests", len(ids)),
			})
		}
	}

	lockedSet := make(map[uuid.UUID]struct{}, len(locked))
	for _, slot := range locked {
		lockedSet[slot.ID] = struct{}{}
		if len(refs[slot.ID]) == 0 && slot.UpdatedAt.Before(cutoff) {
			violations = append(violations, Violation{
				Kind:   ViolationOrphanedLock,
				SlotID: slot.ID,
				Detail: fmt.Sprintf("slot locked since %s without a pending request", slot.UpdatedAt.Format(time.RFC3339)),
			})
		}
	}

	for slotID, ids := range refs {
		if _, ok := lockedSet[slotID]; ok {
			continue
		}
		v, err := s.checkUnlocked(ctx, slotID, ids, cutoff)
		if err != nil {
			return nil, err
		}
		if v != nil {
			violations = append(violations, *v)
		}
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Kind != violations[j].Kind {
			return violations[i].Kind < violations[j].Kind
		}
		return violations[i].SlotID.String() < violations[j].SlotID.String()
	})

	for _, v := range violations {
		s.logger.Warn("Invariant violation detected",
			zap.String("kind", string(v.Kind)),
			zap.String("slot_id", v.SlotID.String()),
			zap.Int("requests", len(v.RequestIDs)),
			zap.String("detail", v.Detail),
		)
	}

	return violations, nil
}

func (s *AuditService) checkUnlocked(ctx context.Context, slotID uuid.UUID, ids []uuid.UUID, cutoff time.Time) (*Violation, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if errors.Is(err, model.ErrNotFound) {
		return &Violation{
			Kind:       ViolationUnlockedPending,
			SlotID:     slotID,
			RequestIDs: ids,
			Detail:     "slot of a pending request does not exist",
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	// Слот мог только что смениться в ходе accept/reject/cancel
	if !slot.UpdatedAt.Before(cutoff) {
		return nil, nil
	}
	return &Violation{
		Kind:       ViolationUnlockedPending,
		SlotID:     slotID,
		RequestIDs: ids,
		Detail:     fmt.Sprintf("slot of a pending request is %s", slot.Status),
	}, nil
}
