package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestManager(ttl time.Duration) (*Manager, *time.Time) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	m := NewManager(ttl)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestManager_Dialog(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	const user = int64(42)

	assert.Equal(t, StateNone, m.GetState(user))

	m.SetState(user, StateNewSlotTitle)
	assert.Equal(t, StateNewSlotTitle, m.GetState(user))

	start := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	m.Advance(user, StateNewSlotEnd, SlotDraft{Title: "Standup", Start: start})
	assert.Equal(t, StateNewSlotEnd, m.GetState(user))
	assert.Equal(t, SlotDraft{Title: "Standup", Start: start}, m.Draft(user))

	m.ClearState(user)
	assert.Equal(t, StateNone, m.GetState(user))
	assert.Equal(t, SlotDraft{}, m.Draft(user))
}

func TestManager_SetNoneRemoves(t *testing.T) {
	m, _ := newTestManager(time.Hour)

	m.Advance(1, StateNewSlotStart, SlotDraft{Title: "x"})
	m.SetState(1, StateNone)

	assert.Equal(t, StateNone, m.GetState(1))
	assert.Empty(t, m.states)
}

func TestManager_Expiry(t *testing.T) {
	m, now := newTestManager(10 * time.Minute)

	m.SetState(1, StateNewSlotTitle)
	*now = now.Add(5 * time.Minute)
	m.SetState(2, StateNewSlotTitle)

	*now = now.Add(6 * time.Minute)
	assert.Equal(t, StateNone, m.GetState(1), "idle dialog expires")
	assert.Equal(t, StateNewSlotTitle, m.GetState(2))

	assert.Equal(t, 1, m.Cleanup())
	assert.Len(t, m.states, 1)
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			m.SetState(id, StateNewSlotTitle)
			m.Advance(id, StateNewSlotStart, SlotDraft{Title: "t"})
			_ = m.GetState(id)
			_ = m.Draft(id)
			m.ClearState(id)
		}(int64(i % 5))
	}
	wg.Wait()
}
