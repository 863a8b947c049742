package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common/formatting"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// parseCommand разбирает "/propose@slot_bot a b" -> ("propose", [a b])
func parseCommand(text string) (string, []string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	name := strings.TrimPrefix(fields[0], "/")
	name, _, _ = strings.Cut(name, "@")
	if name == "" {
		return "", nil, false
	}
	return strings.ToLower(name), fields[1:], true
}

// parseIDs разбирает ровно n UUID из аргументов команды
func parseIDs(args []string, n int) ([]uuid.UUID, bool) {
	if len(args) != n {
		return nil, false
	}
	ids := make([]uuid.UUID, 0, n)
	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// parseEnd разбирает окончание слота: полная дата или только время в день начала
func parseEnd(start time.Time, input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if t, err := time.ParseInLocation(formatting.TimeLayout, input, time.UTC); err == nil {
		return time.Date(start.Year(), start.Month(), start.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
	}
	return formatting.ParseDateTime(input)
}

// chatIDOf возвращает чат для личных сообщений пользователю Telegram.
// Пользователи HTTP API не имеют числового ID, им уведомления не шлются.
func chatIDOf(userID string) (int64, bool) {
	id, err := strconv.ParseInt(userID, 10, 64)
	return id, err == nil && id > 0
}

// replyError отправляет пользователю текст ошибки; внутренние ошибки логируются
func (h *Handlers) replyError(ctx context.Context, b *bot.Bot, msg *models.Message, op string, err error) {
	if common.IsInternal(err) {
		h.logger.Error("Command failed",
			zap.String("op", op),
			zap.Int64("telegram_id", msg.From.ID),
			zap.Error(err))
	}
	h.sendMessage(ctx, b, msg.Chat.ID, common.ErrorMessage(err), nil)
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// notify отправляет уведомление второму участнику обмена, если это пользователь Telegram
func (h *Handlers) notify(ctx context.Context, b *bot.Bot, userID, text string, markup models.ReplyMarkup) {
	chatID, ok := chatIDOf(userID)
	if !ok {
		return
	}
	h.sendMessage(ctx, b, chatID, text, markup)
}
