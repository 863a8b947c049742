package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("get slot: %w", NewError(KindNotFound, "slot %d not found", 7))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, "get slot: slot 7 not found", err.Error())
}

func TestWrapError_KeepsCause(t *testing.T) {
	cause := NewError(KindConflict, "version advanced")
	err := WrapError(KindSlotNoLongerAvailable, cause, "slot is gone")

	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, KindSlotNoLongerAvailable, KindOf(err), "outermost kind wins")
	assert.Equal(t, "slot is gone: version advanced", err.Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(nil))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindUnauthorized, KindOf(fmt.Errorf("wrapped: %w", ErrUnauthorized)))
}

func TestStatusValid(t *testing.T) {
	for _, s := range []SlotStatus{SlotStatusBusy, SlotStatusSwappable, SlotStatusSwapPending} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, SlotStatus("BOOKED").Valid())

	for _, s := range []ExchangeStatus{ExchangeStatusPending, ExchangeStatusAccepted, ExchangeStatusRejected, ExchangeStatusCancelled} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ExchangeStatus("").Valid())
}
