package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_swapper/internal/clock"
	"github.com/Freeeeeet/slot_swapper/internal/model"
)

func (e *testEnv) seedRequest(t *testing.T, mySlot, theirSlot uuid.UUID) *model.ExchangeRequest {
	t.Helper()
	req := &model.ExchangeRequest{
		RequesterID: "x",
		ReceiverID:  "y",
		MySlotID:    mySlot,
		TheirSlotID: theirSlot,
		Status:      model.ExchangeStatusPending,
	}
	require.NoError(t, e.exchanges.ExchangeStore.Create(context.Background(), req))
	return req
}

func (e *testEnv) auditor(now time.Time, opts ...AuditOption) *AuditService {
	return NewAuditService(e.slots, e.exchanges, clock.NewFixed(now), zap.NewNop(), opts...)
}

func TestAudit_CleanState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	violations, err := env.auditor(testNow).Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, violations)

	s1 := env.seedSlot(t, "x", model.SlotStatusSwappable)
	s2 := env.seedSlot(t, "y", model.SlotStatusSwappable)
	_, err = env.coordinator.Propose(ctx, "x", s1.ID, s2.ID)
	require.NoError(t, err)
	env.seedSlot(t, "z", model.SlotStatusBusy)

	violations, err = env.auditor(testNow.Add(time.Hour)).Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestAudit_DetectsViolations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	healthyA := env.seedSlot(t, "x", model.SlotStatusSwapPending)
	healthyB := env.seedSlot(t, "y", model.SlotStatusSwapPending)
	env.seedRequest(t, healthyA.ID, healthyB.ID)

	orphan := env.seedSlot(t, "x", model.SlotStatusSwapPending)

	double := env.seedSlot(t, "y", model.SlotStatusSwapPending)
	e := env.seedSlot(t, "x", model.SlotStatusSwapPending)
	f := env.seedSlot(t, "z", model.SlotStatusSwapPending)
	r2 := env.seedRequest(t, e.ID, double.ID)
	r3 := env.seedRequest(t, f.ID, double.ID)

	unlocked := env.seedSlot(t, "x", model.SlotStatusBusy)
	v := env.seedSlot(t, "y", model.SlotStatusSwapPending)
	r4 := env.seedRequest(t, unlocked.ID, v.ID)

	missing := uuid.New()
	w := env.seedSlot(t, "y", model.SlotStatusSwapPending)
	env.seedRequest(t, missing, w.ID)

	violations, err := env.auditor(testNow.Add(2 * time.Minute)).Audit(ctx)
	require.NoError(t, err)
	require.Len(t, violations, 4)

	assert.Equal(t, ViolationDoubleCommitted, violations[0].Kind)
	assert.Equal(t, double.ID, violations[0].SlotID)
	assert.ElementsMatch(t, []uuid.UUID{r2.ID, r3.ID}, violations[0].RequestIDs)

	assert.Equal(t, ViolationOrphanedLock, violations[1].Kind)
	assert.Equal(t, orphan.ID, violations[1].SlotID)

	unlockedSlots := map[uuid.UUID][]uuid.UUID{}
	for _, v := range violations[2:] {
		assert.Equal(t, ViolationUnlockedPending, v.Kind)
		unlockedSlots[v.SlotID] = v.RequestIDs
	}
	assert.Equal(t, []uuid.UUID{r4.ID}, unlockedSlots[unlocked.ID])
	assert.Contains(t, unlockedSlots, missing)

	// аудит ничего не исправляет
	assert.Equal(t, model.SlotStatusSwapPending, env.slot(t, orphan.ID).Status)
	assert.Equal(t, model.SlotStatusBusy, env.slot(t, unlocked.ID).Status)
}

func TestAudit_GraceWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedSlot(t, "x", model.SlotStatusSwapPending)
	unlocked := env.seedSlot(t, "x", model.SlotStatusBusy)
	locked := env.seedSlot(t, "y", model.SlotStatusSwapPending)
	env.seedRequest(t, unlocked.ID, locked.ID)

	fresh, err := env.auditor(testNow.Add(30 * time.Second)).Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, fresh, "records inside the grace window are skipped")

	strict, err := env.auditor(testNow.Add(30*time.Second), WithAuditGrace(0)).Audit(ctx)
	require.NoError(t, err)
	assert.Len(t, strict, 2)

	stale, err := env.auditor(testNow.Add(10*time.Minute), WithAuditGrace(5*time.Minute)).Audit(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 2)
}
