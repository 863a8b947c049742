// Package storetest проверяет общий контракт хранилищ слотов и заявок.
// Каждый драйвер (memory, sqlite, postgres) прогоняет один и тот же набор.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/service"
)

// Stores пара хранилищ одного драйвера
type Stores struct {
	Slots     service.SlotStore
	Exchanges service.ExchangeStore
}

// Factory создаёт пустые хранилища для одного подтеста
type Factory func(t *testing.T) Stores

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// Run прогоняет весь контракт
func Run(t *testing.T, newStores Factory) {
	t.Run("slot create and get", func(t *testing.T) { testSlotCreateGet(t, newStores(t)) })
	t.Run("slot conditional update", func(t *testing.T) { testSlotConditionalUpdate(t, newStores(t)) })
	t.Run("slot concurrent update", func(t *testing.T) { testSlotConcurrentUpdate(t, newStores(t)) })
	t.Run("slot delete", func(t *testing.T) { testSlotDelete(t, newStores(t)) })
	t.Run("slot queries", func(t *testing.T) { testSlotQueries(t, newStores(t)) })
	t.Run("unknown status", func(t *testing.T) { testUnknownStatus(t, newStores(t)) })
	t.Run("exchange lifecycle", func(t *testing.T) { testExchangeLifecycle(t, newStores(t)) })
}

func newSlot(owner string, status model.SlotStatus, offset time.Duration) *model.Slot {
	return &model.Slot{
		Title:     owner + " meeting",
		StartTime: base.Add(offset),
		EndTime:   base.Add(offset + time.Hour),
		OwnerID:   owner,
		Status:    status,
	}
}

func testSlotCreateGet(t *testing.T, s Stores) {
	ctx := context.Background()
	slot := newSlot("alice", model.SlotStatusBusy, 0)
	require.NoError(t, s.Slots.Create(ctx, slot))
	require.NotEqual(t, uuid.Nil, slot.ID)
	assert.EqualValues(t, 1, slot.Version)
	assert.False(t, slot.CreatedAt.IsZero())

	got, err := s.Slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, slot.ID, got.ID)
	assert.Equal(t, "alice meeting", got.Title)
	assert.Equal(t, "alice", got.OwnerID)
	assert.Equal(t, model.SlotStatusBusy, got.Status)
	assert.EqualValues(t, 1, got.Version)
	assert.True(t, got.StartTime.Equal(slot.StartTime))
	assert.True(t, got.EndTime.Equal(slot.EndTime))
	assert.Equal(t, time.UTC, got.StartTime.Location())

	_, err = s.Slots.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func testSlotConditionalUpdate(t *testing.T, s Stores) {
	ctx := context.Background()
	slot := newSlot("alice", model.SlotStatusBusy, 0)
	require.NoError(t, s.Slots.Create(ctx, slot))

	first, err := s.Slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	second, err := s.Slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)

	first.Status = model.SlotStatusSwappable
	first.OwnerID = "bob"
	require.NoError(t, s.Slots.Update(ctx, first))
	assert.EqualValues(t, 2, first.Version)

	second.Title = "stale"
	assert.ErrorIs(t, s.Slots.Update(ctx, second), model.ErrConflict)

	stored, err := s.Slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", stored.OwnerID)
	assert.Equal(t, model.SlotStatusSwappable, stored.Status)
	assert.Equal(t, "alice meeting", stored.Title)
	assert.EqualValues(t, 2, stored.Version)

	ghost := newSlot("alice", model.SlotStatusBusy, 0)
	ghost.ID = uuid.New()
	ghost.Version = 1
	assert.ErrorIs(t, s.Slots.Update(ctx, ghost), model.ErrNotFound)
}

func testSlotConcurrentUpdate(t *testing.T, s Stores) {
	const writers = 8
	ctx := context.Background()
	slot := newSlot("alice", model.SlotStatusSwappable, 0)
	require.NoError(t, s.Slots.Create(ctx, slot))

	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			next := *slot
			next.Status = model.SlotStatusSwapPending
			errs[i] = s.Slots.Update(ctx, &next)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, model.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	stored, err := s.Slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stored.Version)
}

func testSlotDelete(t *testing.T, s Stores) {
	ctx := context.Background()

	locked := newSlot("alice", model.SlotStatusSwapPending, 0)
	require.NoError(t, s.Slots.Create(ctx, locked))
	assert.ErrorIs(t, s.Slots.Delete(ctx, locked.ID, locked.Version), model.ErrInvalidTransition)

	busy := newSlot("alice", model.SlotStatusBusy, time.Hour)
	require.NoError(t, s.Slots.Create(ctx, busy))
	assert.ErrorIs(t, s.Slots.Delete(ctx, busy.ID, busy.Version+1), model.ErrConflict)
	require.NoError(t, s.Slots.Delete(ctx, busy.ID, busy.Version))

	_, err := s.Slots.GetByID(ctx, busy.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, s.Slots.Delete(ctx, busy.ID, busy.Version), model.ErrNotFound)
}

func testSlotQueries(t *testing.T, s Stores) {
	ctx := context.Background()
	mk := func(owner string, status model.SlotStatus, offset time.Duration) *model.Slot {
		slot := newSlot(owner, status, offset)
		require.NoError(t, s.Slots.Create(ctx, slot))
		return slot
	}

	late := mk("alice", model.SlotStatusSwappable, 3*time.Hour)
	early := mk("alice", model.SlotStatusSwappable, time.Hour)
	mk("alice", model.SlotStatusBusy, 2*time.Hour)
	bob := mk("bob", model.SlotStatusSwappable, 0)
	bobLocked := mk("bob", model.SlotStatusSwapPending, 0)

	all, err := s.Slots.FindByOwner(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	status := model.SlotStatusSwappable
	own, err := s.Slots.FindByOwner(ctx, "alice", &status)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, early.ID, own[0].ID)
	assert.Equal(t, late.ID, own[1].ID)

	market, err := s.Slots.FindSwappable(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, market, 1)
	assert.Equal(t, bob.ID, market[0].ID)

	locked, err := s.Slots.FindByStatus(ctx, model.SlotStatusSwapPending)
	require.NoError(t, err)
	require.Len(t, locked, 1)
	assert.Equal(t, bobLocked.ID, locked[0].ID)

	none, err := s.Slots.FindByOwner(ctx, "nobody", nil)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testUnknownStatus(t *testing.T, s Stores) {
	ctx := context.Background()
	assert.ErrorIs(t, s.Slots.Create(ctx, newSlot("alice", "FREE", 0)), model.ErrInvalidInput)

	slot := newSlot("alice", model.SlotStatusBusy, 0)
	require.NoError(t, s.Slots.Create(ctx, slot))
	slot.Status = "BOOKED"
	assert.ErrorIs(t, s.Slots.Update(ctx, slot), model.ErrInvalidInput)

	req := &model.ExchangeRequest{RequesterID: "a", ReceiverID: "b", MySlotID: uuid.New(), TheirSlotID: uuid.New(), Status: "OPEN"}
	assert.ErrorIs(t, s.Exchanges.Create(ctx, req), model.ErrInvalidInput)
}

func testExchangeLifecycle(t *testing.T, s Stores) {
	ctx := context.Background()

	req := &model.ExchangeRequest{
		RequesterID: "alice",
		ReceiverID:  "bob",
		MySlotID:    uuid.New(),
		TheirSlotID: uuid.New(),
		Status:      model.ExchangeStatusPending,
	}
	require.NoError(t, s.Exchanges.Create(ctx, req))
	require.NotEqual(t, uuid.Nil, req.ID)
	assert.EqualValues(t, 1, req.Version)

	other := &model.ExchangeRequest{
		RequesterID: "carol",
		ReceiverID:  "dave",
		MySlotID:    uuid.New(),
		TheirSlotID: uuid.New(),
		Status:      model.ExchangeStatusPending,
	}
	require.NoError(t, s.Exchanges.Create(ctx, other))

	got, err := s.Exchanges.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.MySlotID, got.MySlotID)
	assert.Equal(t, req.TheirSlotID, got.TheirSlotID)
	assert.Equal(t, "bob", got.ReceiverID)
	assert.Equal(t, model.ExchangeStatusPending, got.Status)

	for _, user := range []string{"alice", "bob"} {
		found, err := s.Exchanges.FindByParticipant(ctx, user)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, req.ID, found[0].ID)

		pending, err := s.Exchanges.FindPending(ctx, user)
		require.NoError(t, err)
		assert.Len(t, pending, 1)
	}

	allPending, err := s.Exchanges.FindAllPending(ctx)
	require.NoError(t, err)
	assert.Len(t, allPending, 2)

	stale, err := s.Exchanges.GetByID(ctx, req.ID)
	require.NoError(t, err)

	got.Status = model.ExchangeStatusAccepted
	require.NoError(t, s.Exchanges.Update(ctx, got))
	assert.EqualValues(t, 2, got.Version)

	stale.Status = model.ExchangeStatusCancelled
	assert.ErrorIs(t, s.Exchanges.Update(ctx, stale), model.ErrConflict)

	resolved, err := s.Exchanges.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExchangeStatusAccepted, resolved.Status)

	pending, err := s.Exchanges.FindPending(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, pending)

	history, err := s.Exchanges.FindByParticipant(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = s.Exchanges.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)

	ghost := *resolved
	ghost.ID = uuid.New()
	assert.ErrorIs(t, s.Exchanges.Update(ctx, &ghost), model.ErrNotFound)
}
