package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// handlePropose создаёт заявку на обмен и уведомляет получателя
func (h *Handlers) handlePropose(ctx context.Context, b *bot.Bot, msg *models.Message, args []string) {
	ids, ok := parseIDs(args, 2)
	if !ok {
		h.sendMessage(ctx, b, msg.Chat.ID, "❌ Использование: /propose <id вашего слота> <id чужого слота>", nil)
		return
	}

	userID := common.UserID(msg.From)
	req, err := h.exchanges.Propose(ctx, userID, ids[0], ids[1])
	if err != nil {
		h.replyError(ctx, b, msg, "propose exchange", err)
		return
	}

	h.sendMessage(ctx, b, msg.Chat.ID, "📤 Заявка отправлена!\n\n"+formatting.FormatExchange(req, userID),
		keyboard.Markup(keyboard.ExchangeButtons(req, userID)...))

	h.notify(ctx, b, req.ReceiverID, "📥 Вам предложили обмен!\n\n"+formatting.FormatExchange(req, req.ReceiverID),
		keyboard.Markup(keyboard.ExchangeButtons(req, req.ReceiverID)...))
}

// handleRequests показывает заявки пользователя: ожидающие с кнопками, остальные списком
func (h *Handlers) handleRequests(ctx context.Context, b *bot.Bot, msg *models.Message, _ []string) {
	userID := common.UserID(msg.From)

	requests, err := h.exchanges.ListExchanges(ctx, userID)
	if err != nil {
		h.replyError(ctx, b, msg, "list exchanges", err)
		return
	}
	if len(requests) == 0 {
		h.sendMessage(ctx, b, msg.Chat.ID, "📭 У вас нет заявок на обмен.", nil)
		return
	}

	pending := 0
	for _, req := range requests {
		if req.IsPending() {
			pending++
		}
	}
	h.sendMessage(ctx, b, msg.Chat.ID, formatPendingSummary(len(requests), pending), nil)

	for _, req := range requests {
		h.sendMessage(ctx, b, msg.Chat.ID, formatting.FormatExchange(req, userID),
			keyboard.Markup(keyboard.ExchangeButtons(req, userID)...))
	}
}

func (h *Handlers) handleAccept(ctx context.Context, b *bot.Bot, msg *models.Message, args []string) {
	h.resolveCommand(ctx, b, msg, args, "/accept <id заявки>", "✅ Обмен состоялся", h.exchanges.Accept)
}

func (h *Handlers) handleReject(ctx context.Context, b *bot.Bot, msg *models.Message, args []string) {
	h.resolveCommand(ctx, b, msg, args, "/reject <id заявки>", "🚫 Заявка отклонена", h.exchanges.Reject)
}

func (h *Handlers) handleWithdraw(ctx context.Context, b *bot.Bot, msg *models.Message, args []string) {
	h.resolveCommand(ctx, b, msg, args, "/withdraw <id заявки>", "↩️ Заявка отозвана", h.exchanges.Cancel)
}

func (h *Handlers) resolveCommand(
	ctx context.Context,
	b *bot.Bot,
	msg *models.Message,
	args []string,
	usage string,
	done string,
	fn func(ctx context.Context, requestID uuid.UUID, actorID string) (*model.ExchangeRequest, error),
) {
	ids, ok := parseIDs(args, 1)
	if !ok {
		h.sendMessage(ctx, b, msg.Chat.ID, "❌ Использование: "+usage, nil)
		return
	}

	userID := common.UserID(msg.From)
	req, err := fn(ctx, ids[0], userID)
	if err != nil {
		h.replyError(ctx, b, msg, "resolve exchange", err)
		return
	}

	h.sendMessage(ctx, b, msg.Chat.ID, done+"\n\n"+formatting.FormatExchange(req, userID), nil)

	counterpart := req.RequesterID
	if userID == req.RequesterID {
		counterpart = req.ReceiverID
	}
	h.notify(ctx, b, counterpart, "🔔 Заявка обновлена\n\n"+formatting.FormatExchange(req, counterpart), nil)
}

func formatPendingSummary(total, pending int) string {
	return fmt.Sprintf("🔁 У вас %d %s, ожидают ответа: %d", total, formatting.PluralizeRequests(total), pending)
}
