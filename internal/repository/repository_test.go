package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/repository/storetest"
	"github.com/Freeeeeet/slot_swapper/internal/testutil"
)

func TestPostgresContract(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)

	storetest.Run(t, func(t *testing.T) storetest.Stores {
		testutil.TruncateAll(t, context.Background(), pool)
		return storetest.Stores{
			Slots:     NewSlotRepository(pool),
			Exchanges: NewExchangeRepository(pool),
		}
	})
}

func TestExchangeRepository_SinglePendingPerSlot(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)
	repo := NewExchangeRepository(pool)

	slotID := uuid.New()
	first := &model.ExchangeRequest{
		RequesterID: "alice", ReceiverID: "bob",
		MySlotID: uuid.New(), TheirSlotID: slotID,
		Status: model.ExchangeStatusPending,
	}
	require.NoError(t, repo.Create(ctx, first))

	second := &model.ExchangeRequest{
		RequesterID: "carol", ReceiverID: "bob",
		MySlotID: uuid.New(), TheirSlotID: slotID,
		Status: model.ExchangeStatusPending,
	}
	assert.ErrorIs(t, repo.Create(ctx, second), model.ErrConflict)

	first.Status = model.ExchangeStatusRejected
	require.NoError(t, repo.Update(ctx, first))

	second.ID = uuid.Nil
	assert.NoError(t, repo.Create(ctx, second), "resolved request frees the slot")
}

func TestSlotRepository_IntervalCheck(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)
	repo := NewSlotRepository(pool)

	slot := &model.Slot{Title: "broken", OwnerID: "alice", Status: model.SlotStatusBusy}
	assert.ErrorIs(t, repo.Create(ctx, slot), model.ErrInvalidInput)
}
