package slots

import (
	"context"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type transitionFunc func(ctx context.Context, slotID uuid.UUID, ownerID string) (*model.Slot, error)

// HandleOpen открывает слот для обмена
func HandleOpen(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	transition(ctx, b, callback, h, "🟢 Слот открыт для обмена", h.SlotService.OpenForExchange)
}

// HandleClose снимает слот с обмена
func HandleClose(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	transition(ctx, b, callback, h, "🔴 Слот снят с обмена", h.SlotService.CloseForExchange)
}

func transition(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	done string,
	fn transitionFunc,
) {
	slotID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	userID := common.UserID(&callback.From)
	slot, err := fn(ctx, slotID, userID)
	if err != nil {
		if common.IsInternal(err) {
			h.Logger.Error("Failed to change slot status",
				zap.String("slot_id", slotID.String()),
				zap.String("user_id", userID),
				zap.Error(err))
		}
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, done)

	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		return
	}
	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      formatting.FormatSlot(slot),
	}
	params.ReplyMarkup = keyboard.Markup(keyboard.SlotButtons(slot)...)
	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.Logger.Warn("Failed to edit slot message", zap.Error(err))
	}
}
