package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/slot_swapper/internal/clock"
	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/repository/storetest"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storetest.Stores {
		clk := clock.NewFixed(now)
		return storetest.Stores{
			Slots:     NewSlotRepository(clk),
			Exchanges: NewExchangeRepository(clk),
		}
	})
}

func TestSlotRepository_TimestampsFromClock(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository(clock.NewFixed(now))

	slot := &model.Slot{OwnerID: "alice", Status: model.SlotStatusBusy}
	require.NoError(t, repo.Create(ctx, slot))
	assert.Equal(t, now, slot.CreatedAt)
	assert.Equal(t, now, slot.UpdatedAt)

	later := NewSlotRepository(clock.NewFixed(now.Add(time.Hour)))
	later.slots = repo.slots

	stored, err := later.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	stored.Status = model.SlotStatusSwappable
	require.NoError(t, later.Update(ctx, stored))
	assert.Equal(t, now, stored.CreatedAt, "created_at is preserved")
	assert.Equal(t, now.Add(time.Hour), stored.UpdatedAt)
}

func TestSlotRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository(clock.NewFixed(now))

	slot := &model.Slot{OwnerID: "alice", Status: model.SlotStatusBusy}
	require.NoError(t, repo.Create(ctx, slot))

	got, err := repo.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	got.OwnerID = "mallory"

	again, err := repo.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.OwnerID)
}
