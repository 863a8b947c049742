package slotstate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/slot_swapper/internal/model"
)

func slot(owner string, status model.SlotStatus) model.Slot {
	return model.Slot{ID: uuid.New(), Title: "standup", OwnerID: owner, Status: status, Version: 3}
}

func TestOwnerTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fn       func(model.Slot, string) (model.Slot, error)
		from     model.SlotStatus
		user     string
		want     model.SlotStatus
		wantKind model.ErrorKind
	}{
		{"open busy slot", OpenForExchange, model.SlotStatusBusy, "alice", model.SlotStatusSwappable, ""},
		{"open by stranger", OpenForExchange, model.SlotStatusBusy, "bob", model.SlotStatusBusy, model.KindUnauthorized},
		{"open swappable slot", OpenForExchange, model.SlotStatusSwappable, "alice", model.SlotStatusSwappable, model.KindInvalidTransition},
		{"open pending slot", OpenForExchange, model.SlotStatusSwapPending, "alice", model.SlotStatusSwapPending, model.KindInvalidTransition},
		{"close swappable slot", CloseForExchange, model.SlotStatusSwappable, "alice", model.SlotStatusBusy, ""},
		{"close by stranger", CloseForExchange, model.SlotStatusSwappable, "bob", model.SlotStatusSwappable, model.KindUnauthorized},
		{"close pending slot", CloseForExchange, model.SlotStatusSwapPending, "alice", model.SlotStatusSwapPending, model.KindInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := slot("alice", tt.from)
			out, err := tt.fn(in, tt.user)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, model.KindOf(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, out.Status)
			assert.Equal(t, in.Version, out.Version, "transitions never touch the version")
			assert.Equal(t, tt.from, in.Status, "input value is not mutated")
		})
	}
}

func TestLockForExchange(t *testing.T) {
	t.Parallel()

	out, err := LockForExchange(slot("alice", model.SlotStatusSwappable))
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusSwapPending, out.Status)

	for _, st := range []model.SlotStatus{model.SlotStatusBusy, model.SlotStatusSwapPending} {
		_, err := LockForExchange(slot("alice", st))
		assert.ErrorIs(t, err, model.ErrInvalidTransition, "from %s", st)
	}
}

func TestFinalizeAccept(t *testing.T) {
	t.Parallel()

	t.Run("swaps owners", func(t *testing.T) {
		a := slot("alice", model.SlotStatusSwapPending)
		b := slot("bob", model.SlotStatusSwapPending)

		gotA, gotB, err := FinalizeAccept(a, b)
		require.NoError(t, err)
		assert.Equal(t, "bob", gotA.OwnerID)
		assert.Equal(t, "alice", gotB.OwnerID)
		assert.Equal(t, model.SlotStatusBusy, gotA.Status)
		assert.Equal(t, model.SlotStatusBusy, gotB.Status)
		assert.Equal(t, a.ID, gotA.ID)
		assert.Equal(t, b.ID, gotB.ID)
	})

	t.Run("rejects unlocked slot on either side", func(t *testing.T) {
		locked := slot("alice", model.SlotStatusSwapPending)
		open := slot("bob", model.SlotStatusSwappable)

		_, _, err := FinalizeAccept(locked, open)
		assert.ErrorIs(t, err, model.ErrInvalidTransition)

		gotA, gotB, err := FinalizeAccept(open, locked)
		assert.ErrorIs(t, err, model.ErrInvalidTransition)
		assert.Equal(t, "bob", gotA.OwnerID, "owners untouched on failure")
		assert.Equal(t, "alice", gotB.OwnerID)
	})
}

func TestReleaseToSwappable(t *testing.T) {
	t.Parallel()

	out, err := ReleaseToSwappable(slot("alice", model.SlotStatusSwapPending))
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusSwappable, out.Status)
	assert.Equal(t, "alice", out.OwnerID)

	_, err = ReleaseToSwappable(slot("alice", model.SlotStatusSwappable))
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestCanDelete(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CanDelete(slot("alice", model.SlotStatusBusy), "alice"))
	assert.NoError(t, CanDelete(slot("alice", model.SlotStatusSwappable), "alice"))
	assert.ErrorIs(t, CanDelete(slot("alice", model.SlotStatusSwapPending), "alice"), model.ErrInvalidTransition)
	assert.ErrorIs(t, CanDelete(slot("alice", model.SlotStatusBusy), "bob"), model.ErrUnauthorized)
}
