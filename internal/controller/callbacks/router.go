package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/exchanges"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/slots"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	switch {
	case strings.HasPrefix(data, keyboard.AcceptPrefix):
		exchanges.HandleAccept(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.RejectPrefix):
		exchanges.HandleReject(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.WithdrawPrefix):
		exchanges.HandleWithdraw(ctx, b, callback, h)

	case strings.HasPrefix(data, keyboard.OpenPrefix):
		slots.HandleOpen(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.ClosePrefix):
		slots.HandleClose(ctx, b, callback, h)

	case data == "noop":
		common.AnswerCallback(ctx, b, callback.ID, "")

	default:
		h.Logger.Warn("Unknown callback data",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
	}
}
