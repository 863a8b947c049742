package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_swapper/internal/clock"
	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/repository/memory"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	slots       *faultySlotStore
	exchanges   *faultyExchangeStore
	coordinator *ExchangeCoordinator
	slotService *SlotService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clk := clock.NewFixed(testNow)
	slots := &faultySlotStore{SlotStore: memory.NewSlotRepository(clk)}
	exchanges := &faultyExchangeStore{ExchangeStore: memory.NewExchangeRepository(clk)}
	logger := zap.NewNop()

	return &testEnv{
		slots:       slots,
		exchanges:   exchanges,
		coordinator: NewExchangeCoordinator(slots, exchanges, logger),
		slotService: NewSlotService(slots, logger),
	}
}

// seedSlot создаёт слот сразу в нужном статусе в обход сервиса
func (e *testEnv) seedSlot(t *testing.T, owner string, status model.SlotStatus) *model.Slot {
	t.Helper()
	slot := &model.Slot{
		Title:     owner + " slot",
		StartTime: testNow.Add(time.Hour),
		EndTime:   testNow.Add(2 * time.Hour),
		OwnerID:   owner,
		Status:    status,
	}
	require.NoError(t, e.slots.SlotStore.Create(context.Background(), slot))
	return slot
}

func (e *testEnv) slot(t *testing.T, id uuid.UUID) *model.Slot {
	t.Helper()
	slot, err := e.slots.SlotStore.GetByID(context.Background(), id)
	require.NoError(t, err)
	return slot
}

func (e *testEnv) request(t *testing.T, id uuid.UUID) *model.ExchangeRequest {
	t.Helper()
	req, err := e.exchanges.ExchangeStore.GetByID(context.Background(), id)
	require.NoError(t, err)
	return req
}

// faultySlotStore позволяет вмешаться в запись слотов
type faultySlotStore struct {
	SlotStore

	mu         sync.Mutex
	updates    int
	updateHook func(call int, slot *model.Slot) error
}

func (f *faultySlotStore) Update(ctx context.Context, slot *model.Slot) error {
	f.mu.Lock()
	f.updates++
	call, hook := f.updates, f.updateHook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(call, slot); err != nil {
			return err
		}
	}
	return f.SlotStore.Update(ctx, slot)
}

func (f *faultySlotStore) failUpdates(calls ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = 0
	f.updateHook = func(call int, slot *model.Slot) error {
		for _, c := range calls {
			if c == call {
				return model.NewError(model.KindConflict, "injected conflict on update %d", call)
			}
		}
		return nil
	}
}

type faultyExchangeStore struct {
	ExchangeStore

	createErr error
	updateErr error
}

func (f *faultyExchangeStore) Create(ctx context.Context, req *model.ExchangeRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.ExchangeStore.Create(ctx, req)
}

func (f *faultyExchangeStore) Update(ctx context.Context, req *model.ExchangeRequest) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.ExchangeStore.Update(ctx, req)
}

// barrierSlotStore задерживает первые parties чтений target до тех пор,
// пока все они не состоятся: все участники видят одну и ту же версию.
type barrierSlotStore struct {
	SlotStore

	target  uuid.UUID
	parties int32
	arrived atomic.Int32
	release chan struct{}
}

func newBarrierSlotStore(inner SlotStore, target uuid.UUID, parties int32) *barrierSlotStore {
	return &barrierSlotStore{SlotStore: inner, target: target, parties: parties, release: make(chan struct{})}
}

func (b *barrierSlotStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	slot, err := b.SlotStore.GetByID(ctx, id)
	if id != b.target {
		return slot, err
	}

	n := b.arrived.Add(1)
	if n == b.parties {
		close(b.release)
	}
	if n <= b.parties {
		<-b.release
	}
	return slot, err
}
