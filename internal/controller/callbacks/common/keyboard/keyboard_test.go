package keyboard

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/slot_swapper/internal/model"
)

func TestExchangeButtons(t *testing.T) {
	req := &model.ExchangeRequest{
		ID:          uuid.New(),
		RequesterID: "100",
		ReceiverID:  "200",
		Status:      model.ExchangeStatusPending,
	}

	receiver := ExchangeButtons(req, "200")
	require.Len(t, receiver, 2)
	assert.Equal(t, AcceptPrefix+req.ID.String(), receiver[0].CallbackData)
	assert.Equal(t, RejectPrefix+req.ID.String(), receiver[1].CallbackData)

	requester := ExchangeButtons(req, "100")
	require.Len(t, requester, 1)
	assert.Equal(t, WithdrawPrefix+req.ID.String(), requester[0].CallbackData)

	assert.Empty(t, ExchangeButtons(req, "300"))

	req.Status = model.ExchangeStatusAccepted
	assert.Empty(t, ExchangeButtons(req, "200"))
}

func TestSlotButtons(t *testing.T) {
	slot := &model.Slot{ID: uuid.New(), Status: model.SlotStatusBusy}
	require.Len(t, SlotButtons(slot), 1)
	assert.Equal(t, OpenPrefix+slot.ID.String(), SlotButtons(slot)[0].CallbackData)

	slot.Status = model.SlotStatusSwappable
	assert.Equal(t, ClosePrefix+slot.ID.String(), SlotButtons(slot)[0].CallbackData)

	slot.Status = model.SlotStatusSwapPending
	assert.Empty(t, SlotButtons(slot))
}

func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	for _, prefix := range []string{AcceptPrefix, RejectPrefix, WithdrawPrefix, OpenPrefix, ClosePrefix} {
		assert.LessOrEqual(t, len(data(prefix, uuid.New())), 64)
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	assert.True(t, b.Empty())

	b.Row().Row(Button("a", "x"), Button("b", "y"))
	assert.False(t, b.Empty())

	markup, ok := b.Build().(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Len(t, markup.InlineKeyboard[0], 2)
}

func TestMarkup_NilWithoutButtons(t *testing.T) {
	assert.Nil(t, Markup())
	assert.Nil(t, NewBuilder().Row().Build())
	assert.NotNil(t, Markup(Button("a", "x")))
}
