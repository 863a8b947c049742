package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/slot_swapper/internal/clock"
	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/repository/storetest"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "slots.db"), clock.NewFixed(now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storetest.Stores {
		db := openTestDB(t)
		return storetest.Stores{Slots: db.Slots(), Exchanges: db.Exchanges()}
	})
}

func TestOpen_ReopensExistingDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "slots.db")

	db, err := Open(ctx, path, clock.NewFixed(now))
	require.NoError(t, err)
	slot := &model.Slot{Title: "retro", OwnerID: "alice", Status: model.SlotStatusBusy, StartTime: now, EndTime: now.Add(time.Hour)}
	require.NoError(t, db.Slots().Create(ctx, slot))
	require.NoError(t, db.Close())

	reopened, err := Open(ctx, path, clock.NewFixed(now))
	require.NoError(t, err)
	defer reopened.Close()

	require.NoError(t, reopened.Ping(ctx))
	got, err := reopened.Slots().GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, "retro", got.Title)
}

func TestExchangeRepository_SinglePendingPerSlot(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t).Exchanges()

	slotID := uuid.New()
	first := &model.ExchangeRequest{
		RequesterID: "alice", ReceiverID: "bob",
		MySlotID: slotID, TheirSlotID: uuid.New(),
		Status: model.ExchangeStatusPending,
	}
	require.NoError(t, repo.Create(ctx, first))

	second := &model.ExchangeRequest{
		RequesterID: "alice", ReceiverID: "carol",
		MySlotID: slotID, TheirSlotID: uuid.New(),
		Status: model.ExchangeStatusPending,
	}
	assert.ErrorIs(t, repo.Create(ctx, second), model.ErrConflict)

	first.Status = model.ExchangeStatusCancelled
	require.NoError(t, repo.Update(ctx, first))

	second.ID = uuid.Nil
	assert.NoError(t, repo.Create(ctx, second))
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "", clock.NewSystem())
	assert.Error(t, err)
}
