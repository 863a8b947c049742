package exchanges

import (
	"context"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type resolveFunc func(ctx context.Context, requestID uuid.UUID, actorID string) (*model.ExchangeRequest, error)

// HandleAccept принимает входящую заявку
func HandleAccept(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	resolve(ctx, b, callback, h, "accept", "✅ Обмен состоялся", h.Exchanges.Accept)
}

// HandleReject отклоняет входящую заявку
func HandleReject(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	resolve(ctx, b, callback, h, "reject", "🚫 Заявка отклонена", h.Exchanges.Reject)
}

// HandleWithdraw отзывает собственную заявку
func HandleWithdraw(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	resolve(ctx, b, callback, h, "withdraw", "↩️ Заявка отозвана", h.Exchanges.Cancel)
}

func resolve(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	action string,
	done string,
	fn resolveFunc,
) {
	requestID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	userID := common.UserID(&callback.From)
	req, err := fn(ctx, requestID, userID)
	if err != nil {
		if common.IsInternal(err) {
			h.Logger.Error("Failed to resolve exchange",
				zap.String("action", action),
				zap.String("request_id", requestID.String()),
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
	_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      done + "\n\n" + formatting.FormatExchange(req, userID),
	})
	if err != nil {
		h.Logger.Warn("Failed to edit exchange message", zap.Error(err))
	}
}
