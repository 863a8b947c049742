package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/slotstate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExchangeCoordinator проводит обмен слотами поверх двух хранилищ.
// Собственного состояния не хранит: все решения принимаются условными
// записями по версиям, частично применённые операции откатываются.
type ExchangeCoordinator struct {
	slots     SlotStore
	exchanges ExchangeStore
	logger    *zap.Logger
}

func NewExchangeCoordinator(slots SlotStore, exchanges ExchangeStore, logger *zap.Logger) *ExchangeCoordinator {
	return &ExchangeCoordinator{
		slots:     slots,
		exchanges: exchanges,
		logger:    logger,
	}
}

// Propose создаёт заявку на обмен mySlot (слот инициатора) на theirSlot
func (c *ExchangeCoordinator) Propose(ctx context.Context, requesterID string, mySlotID, theirSlotID uuid.UUID) (*model.ExchangeRequest, error) {
	if requesterID == "" {
		return nil, model.NewError(model.KindInvalidInput, "requester is required")
	}
	if mySlotID == uuid.Nil || theirSlotID == uuid.Nil {
		return nil, model.NewError(model.KindInvalidInput, "both slot ids are required")
	}
	if mySlotID == theirSlotID {
		return nil, model.NewError(model.KindInvalidInput, "cannot exchange a slot with itself")
	}

	mySlot, err := c.slots.GetByID(ctx, mySlotID)
	if err != nil {
		return nil, fmt.Errorf("get my slot: %w", err)
	}
	theirSlot, err := c.slots.GetByID(ctx, theirSlotID)
	if err != nil {
		return nil, fmt.Errorf("get their slot: %w", err)
	}

	if !mySlot.IsOwnedBy(requesterID) {
		return nil, model.NewError(model.KindUnauthorized, "slot %s is not owned by %s", mySlotID, requesterID)
	}
	if theirSlot.IsOwnedBy(requesterID) {
		return nil, model.NewError(model.KindInvalidInput, "slot %s already belongs to %s", theirSlotID, requesterID)
	}
	if mySlot.Status != model.SlotStatusSwappable || theirSlot.Status != model.SlotStatusSwappable {
		return nil, model.NewError(model.KindInvalidState,
			"both slots must be %s (have %s and %s)", model.SlotStatusSwappable, mySlot.Status, theirSlot.Status)
	}

	lockedMine, err := slotstate.LockForExchange(*mySlot)
	if err != nil {
		return nil, err
	}
	lockedTheirs, err := slotstate.LockForExchange(*theirSlot)
	if err != nil {
		return nil, err
	}

	// Сначала блокируем оба слота, только потом создаём заявку:
	// условная запись по версии закрывает гонку между чтением и записью.
	sg := newSaga("propose", c.logger)
	if err := c.commitSlot(ctx, sg, lockedMine, *mySlot); err != nil {
		return nil, sg.rollback(ctx, lockFailed(mySlotID, err))
	}
	if err := c.commitSlot(ctx, sg, lockedTheirs, *theirSlot); err != nil {
		return nil, sg.rollback(ctx, lockFailed(theirSlotID, err))
	}

	req := &model.ExchangeRequest{
		RequesterID: requesterID,
		ReceiverID:  theirSlot.OwnerID,
		MySlotID:    mySlotID,
		TheirSlotID: theirSlotID,
		Status:      model.ExchangeStatusPending,
	}
	if err := c.exchanges.Create(ctx, req); err != nil {
		return nil, sg.rollback(ctx, fmt.Errorf("create exchange request: %w", err))
	}

	c.logger.Info("Exchange proposed",
		zap.String("request_id", req.ID.String()),
		zap.String("requester_id", req.RequesterID),
		zap.String("receiver_id", req.ReceiverID),
		zap.String("my_slot_id", mySlotID.String()),
		zap.String("their_slot_id", theirSlotID.String()),
	)

	return req, nil
}

// Accept принимает заявку: владельцы слотов меняются местами
func (c *ExchangeCoordinator) Accept(ctx context.Context, requestID uuid.UUID, actorID string) (*model.ExchangeRequest, error) {
	return c.resolve(ctx, requestID, actorID, acceptResolution)
}

// Reject отклоняет заявку: оба слота снова доступны для обмена
func (c *ExchangeCoordinator) Reject(ctx context.Context, requestID uuid.UUID, actorID string) (*model.ExchangeRequest, error) {
	return c.resolve(ctx, requestID, actorID, rejectResolution)
}

// Cancel отзывает заявку её инициатором
func (c *ExchangeCoordinator) Cancel(ctx context.Context, requestID uuid.UUID, actorID string) (*model.ExchangeRequest, error) {
	return c.resolve(ctx, requestID, actorID, cancelResolution)
}

// ListExchanges возвращает все заявки, где пользователь инициатор или получатель
func (c *ExchangeCoordinator) ListExchanges(ctx context.Context, participantID string) ([]*model.ExchangeRequest, error) {
	requests, err := c.exchanges.FindByParticipant(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}
	return requests, nil
}

// ListPending возвращает только ожидающие ответа заявки пользователя
func (c *ExchangeCoordinator) ListPending(ctx context.Context, participantID string) ([]*model.ExchangeRequest, error) {
	requests, err := c.exchanges.FindPending(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("list pending exchanges: %w", err)
	}
	return requests, nil
}

// resolution описывает завершение заявки: кто вправе действовать,
// как меняются слоты и в какой статус переходит заявка.
type resolution struct {
	action  string
	role    string
	status  model.ExchangeStatus
	actorOf func(req *model.ExchangeRequest) string
	apply   func(mine, theirs model.Slot) (model.Slot, model.Slot, error)
}

var (
	acceptResolution = resolution{
		action:  "accept",
		role:    "receiver",
		status:  model.ExchangeStatusAccepted,
		actorOf: func(req *model.ExchangeRequest) string { return req.ReceiverID },
		apply:   slotstate.FinalizeAccept,
	}
	rejectResolution = resolution{
		action:  "reject",
		role:    "receiver",
		status:  model.ExchangeStatusRejected,
		actorOf: func(req *model.ExchangeRequest) string { return req.ReceiverID },
		apply:   releaseBoth,
	}
	cancelResolution = resolution{
		action:  "cancel",
		role:    "requester",
		status:  model.ExchangeStatusCancelled,
		actorOf: func(req *model.ExchangeRequest) string { return req.RequesterID },
		apply:   releaseBoth,
	}
)

func releaseBoth(mine, theirs model.Slot) (model.Slot, model.Slot, error) {
	mine, err := slotstate.ReleaseToSwappable(mine)
	if err != nil {
		return mine, theirs, err
	}
	theirs, err = slotstate.ReleaseToSwappable(theirs)
	if err != nil {
		return mine, theirs, err
	}
	return mine, theirs, nil
}

// resolve общий путь accept/reject/cancel. Порядок записей одинаков
// для всех трёх (mySlot, theirSlot, заявка), поэтому конкурентные попытки
// завершить одну заявку сериализуются на версии mySlot.
func (c *ExchangeCoordinator) resolve(ctx context.Context, requestID uuid.UUID, actorID string, res resolution) (*model.ExchangeRequest, error) {
	req, err := c.exchanges.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get exchange request: %w", err)
	}
	if !req.IsPending() {
		return nil, model.NewError(model.KindAlreadyResolved, "exchange request %s is already %s", req.ID, req.Status)
	}
	if res.actorOf(req) != actorID {
		return nil, model.NewError(model.KindUnauthorized, "only the %s may %s exchange request %s", res.role, res.action, req.ID)
	}

	mine, theirs, err := c.loadLockedPair(ctx, req)
	if err != nil {
		return nil, c.explainUnlocked(ctx, req, err)
	}

	nextMine, nextTheirs, err := res.apply(*mine, *theirs)
	if err != nil {
		return nil, model.WrapError(model.KindInvalidState, err, "%s exchange request %s", res.action, req.ID)
	}

	sg := newSaga(res.action, c.logger)
	if err := c.commitSlot(ctx, sg, nextMine, *mine); err != nil {
		return nil, sg.rollback(ctx, fmt.Errorf("%s: update slot %s: %w", res.action, mine.ID, err))
	}
	if err := c.commitSlot(ctx, sg, nextTheirs, *theirs); err != nil {
		return nil, sg.rollback(ctx, fmt.Errorf("%s: update slot %s: %w", res.action, theirs.ID, err))
	}

	resolved := *req
	resolved.Status = res.status
	if err := c.exchanges.Update(ctx, &resolved); err != nil {
		return nil, sg.rollback(ctx, fmt.Errorf("%s: update exchange request: %w", res.action, err))
	}

	c.logger.Info("Exchange resolved",
		zap.String("request_id", resolved.ID.String()),
		zap.String("status", string(resolved.Status)),
		zap.String("actor_id", actorID),
	)

	return &resolved, nil
}

// loadLockedPair загружает оба слота заявки и проверяет что они в том
// состоянии, в котором их оставил Propose. Любое расхождение означает
// нарушение инварианта и не исправляется.
func (c *ExchangeCoordinator) loadLockedPair(ctx context.Context, req *model.ExchangeRequest) (*model.Slot, *model.Slot, error) {
	mine, err := c.loadLocked(ctx, req, req.MySlotID, req.RequesterID)
	if err != nil {
		return nil, nil, err
	}
	theirs, err := c.loadLocked(ctx, req, req.TheirSlotID, req.ReceiverID)
	if err != nil {
		return nil, nil, err
	}
	return mine, theirs, nil
}

func (c *ExchangeCoordinator) loadLocked(ctx context.Context, req *model.ExchangeRequest, slotID uuid.UUID, ownerID string) (*model.Slot, error) {
	slot, err := c.slots.GetByID(ctx, slotID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.WrapError(model.KindInvalidState, err, "slot %s of pending exchange %s is missing", slotID, req.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot.Status != model.SlotStatusSwapPending {
		return nil, model.NewError(model.KindInvalidState,
			"slot %s of pending exchange %s is %s, want %s", slotID, req.ID, slot.Status, model.SlotStatusSwapPending)
	}
	if !slot.IsOwnedBy(ownerID) {
		return nil, model.NewError(model.KindInvalidState,
			"slot %s of pending exchange %s changed owner to %s", slotID, req.ID, slot.OwnerID)
	}
	return slot, nil
}

// explainUnlocked отличает заявку, которую параллельно уже завершили
// (слоты законно сменили статус), от настоящего нарушения инварианта.
func (c *ExchangeCoordinator) explainUnlocked(ctx context.Context, req *model.ExchangeRequest, err error) error {
	if model.KindOf(err) != model.KindInvalidState {
		return err
	}

	fresh, ferr := c.exchanges.GetByID(ctx, req.ID)
	if ferr == nil && !fresh.IsPending() {
		return model.NewError(model.KindAlreadyResolved, "exchange request %s is already %s", fresh.ID, fresh.Status)
	}

	c.logger.Error("Exchange invariant violated",
		zap.String("request_id", req.ID.String()),
		zap.Error(err),
	)
	return err
}

// commitSlot записывает next (версия прочитанного prior) и регистрирует
// откат к prior поверх новой версии.
func (c *ExchangeCoordinator) commitSlot(ctx context.Context, sg *saga, next, prior model.Slot) error {
	if err := c.slots.Update(ctx, &next); err != nil {
		return err
	}

	written := next.Version
	sg.onRollback("restore slot "+prior.ID.String(), func(ctx context.Context) error {
		restore := prior
		restore.Version = written
		return c.slots.Update(ctx, &restore)
	})
	return nil
}

// lockFailed превращает проигранную гонку за слот в SlotNoLongerAvailable
func lockFailed(slotID uuid.UUID, err error) error {
	if errors.Is(err, model.ErrConflict) || errors.Is(err, model.ErrNotFound) {
		return model.WrapError(model.KindSlotNoLongerAvailable, err, "slot %s is no longer available", slotID)
	}
	return fmt.Errorf("lock slot %s: %w", slotID, err)
}
