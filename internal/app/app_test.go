package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Freeeeeet/slot_swapper/internal/clock"
	"github.com/Freeeeeet/slot_swapper/internal/config"
	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/service"
)

type countingAuditor struct {
	calls      atomic.Int32
	violations []service.Violation
	err        error
}

func (a *countingAuditor) Audit(ctx context.Context) ([]service.Violation, error) {
	a.calls.Add(1)
	return a.violations, a.err
}

func TestScheduler_RunsPeriodically(t *testing.T) {
	auditor := &countingAuditor{}
	s := NewScheduler(auditor, 10*time.Millisecond, zap.NewNop())
	s.Start(context.Background())

	assert.Eventually(t, func() bool { return auditor.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()

	calls := auditor.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, auditor.calls.Load(), "no audits after Stop")
}

func TestScheduler_Disabled(t *testing.T) {
	auditor := &countingAuditor{}
	s := NewScheduler(auditor, 0, zap.NewNop())
	s.Start(context.Background())
	s.Stop()
	assert.Zero(t, auditor.calls.Load())
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(&countingAuditor{}, time.Hour, zap.NewNop())
	s.Start(ctx)
	cancel()
	s.Stop()
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(&countingAuditor{violations: make([]service.Violation, 3)}, 0, zap.NewNop())
	assert.Equal(t, 3, s.RunOnce(context.Background()))

	failing := NewScheduler(&countingAuditor{err: errors.New("store down")}, 0, zap.NewNop())
	assert.Zero(t, failing.RunOnce(context.Background()))
}

func TestOpenStorage_LocalDrivers(t *testing.T) {
	ctx := context.Background()
	for _, cfg := range []*config.Config{
		{StorageDriver: config.DriverMemory},
		{StorageDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "slots.db")},
	} {
		t.Run(cfg.StorageDriver, func(t *testing.T) {
			storage, err := OpenStorage(ctx, cfg, clock.NewSystem(), true, zap.NewNop())
			require.NoError(t, err)
			defer storage.Close()

			require.NoError(t, storage.Ping(ctx))

			slot := &model.Slot{Title: "sync", OwnerID: "alice", Status: model.SlotStatusBusy,
				StartTime: time.Now(), EndTime: time.Now().Add(time.Hour)}
			require.NoError(t, storage.Slots.Create(ctx, slot))
			_, err = storage.Slots.GetByID(ctx, slot.ID)
			require.NoError(t, err)
		})
	}

	_, err := OpenStorage(ctx, &config.Config{StorageDriver: "mongo"}, clock.NewSystem(), false, zap.NewNop())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		logger, err := NewLogger(env, "")
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}

	logger, err := NewLogger("development", "warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = NewLogger("production", "loud")
	assert.Error(t, err)
}
