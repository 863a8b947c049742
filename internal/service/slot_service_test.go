package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/slot_swapper/internal/model"
)

func TestSlotService_CreateSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	msk := time.FixedZone("MSK", 3*60*60)
	start := time.Date(2025, 3, 11, 10, 0, 0, 0, msk)

	slot, err := env.slotService.CreateSlot(ctx, "x", "  Стендап  ", start, start.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "Стендап", slot.Title)
	assert.Equal(t, model.SlotStatusBusy, slot.Status)
	assert.Equal(t, "x", slot.OwnerID)
	assert.Equal(t, time.UTC, slot.StartTime.Location())
	assert.True(t, slot.StartTime.Equal(start))
	assert.EqualValues(t, 1, slot.Version)

	tests := []struct {
		name       string
		owner      string
		title      string
		start, end time.Time
	}{
		{name: "no owner", owner: "", title: "t", start: start, end: start.Add(time.Hour)},
		{name: "blank title", owner: "x", title: "   ", start: start, end: start.Add(time.Hour)},
		{name: "long title", owner: "x", title: strings.Repeat("я", SlotTitleMaxLength+1), start: start, end: start.Add(time.Hour)},
		{name: "zero start", owner: "x", title: "t", end: start},
		{name: "end before start", owner: "x", title: "t", start: start, end: start.Add(-time.Minute)},
		{name: "empty interval", owner: "x", title: "t", start: start, end: start},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.slotService.CreateSlot(ctx, tt.owner, tt.title, tt.start, tt.end)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}

	_, err = env.slotService.CreateSlot(ctx, "x", strings.Repeat("я", SlotTitleMaxLength), start, start.Add(time.Hour))
	assert.NoError(t, err, "limit counts characters, not bytes")
}

func TestSlotService_OpenAndClose(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	slot := env.seedSlot(t, "x", model.SlotStatusBusy)

	_, err := env.slotService.OpenForExchange(ctx, slot.ID, "y")
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	opened, err := env.slotService.OpenForExchange(ctx, slot.ID, "x")
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusSwappable, opened.Status)

	_, err = env.slotService.OpenForExchange(ctx, slot.ID, "x")
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	closed, err := env.slotService.CloseForExchange(ctx, slot.ID, "x")
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusBusy, closed.Status)
	assert.Equal(t, model.SlotStatusBusy, env.slot(t, slot.ID).Status)

	_, err = env.slotService.OpenForExchange(ctx, uuid.New(), "x")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSlotService_LockedSlotIsFrozen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s1 := env.seedSlot(t, "x", model.SlotStatusSwappable)
	s2 := env.seedSlot(t, "y", model.SlotStatusSwappable)
	_, err := env.coordinator.Propose(ctx, "x", s1.ID, s2.ID)
	require.NoError(t, err)

	_, err = env.slotService.CloseForExchange(ctx, s1.ID, "x")
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	_, err = env.slotService.OpenForExchange(ctx, s1.ID, "x")
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.ErrorIs(t, env.slotService.DeleteSlot(ctx, s1.ID, "x"), model.ErrInvalidTransition)

	assert.Equal(t, model.SlotStatusSwapPending, env.slot(t, s1.ID).Status)
}

func TestSlotService_ConcurrentTransitionConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	slot := env.seedSlot(t, "x", model.SlotStatusBusy)

	// между чтением и записью слот изменил кто-то другой
	env.slots.updateHook = func(call int, s *model.Slot) error {
		if call == 1 {
			other := env.slot(t, s.ID)
			other.Title = "renamed"
			require.NoError(t, env.slots.SlotStore.Update(ctx, other))
		}
		return nil
	}

	_, err := env.slotService.OpenForExchange(ctx, slot.ID, "x")
	assert.ErrorIs(t, err, model.ErrConflict)
	assert.Equal(t, model.SlotStatusBusy, env.slot(t, slot.ID).Status)
}

func TestSlotService_DeleteSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	slot := env.seedSlot(t, "x", model.SlotStatusSwappable)

	assert.ErrorIs(t, env.slotService.DeleteSlot(ctx, slot.ID, "y"), model.ErrUnauthorized)
	require.NoError(t, env.slotService.DeleteSlot(ctx, slot.ID, "x"))

	_, err := env.slotService.GetSlot(ctx, slot.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, env.slotService.DeleteSlot(ctx, slot.ID, "x"), model.ErrNotFound)
}

func TestSlotService_Listings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedSlot(t, "x", model.SlotStatusBusy)
	mineOpen := env.seedSlot(t, "x", model.SlotStatusSwappable)
	theirsOpen := env.seedSlot(t, "y", model.SlotStatusSwappable)
	env.seedSlot(t, "y", model.SlotStatusBusy)

	own, err := env.slotService.ListOwnSlots(ctx, "x")
	require.NoError(t, err)
	assert.Len(t, own, 2)

	ownOpen, err := env.slotService.ListOwnSwappable(ctx, "x")
	require.NoError(t, err)
	require.Len(t, ownOpen, 1)
	assert.Equal(t, mineOpen.ID, ownOpen[0].ID)

	market, err := env.slotService.ListSwappable(ctx, "x")
	require.NoError(t, err)
	require.Len(t, market, 1)
	assert.Equal(t, theirsOpen.ID, market[0].ID)

	everyone, err := env.slotService.ListSwappable(ctx, "")
	require.NoError(t, err)
	assert.Len(t, everyone, 2)
}
