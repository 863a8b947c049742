package handlers

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/slot_swapper/internal/controller/state"
	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// handleMySlots показывает слоты пользователя с кнопками смены статуса
func (h *Handlers) handleMySlots(ctx context.Context, b *bot.Bot, msg *models.Message, _ []string) {
	slots, err := h.slotService.ListOwnSlots(ctx, common.UserID(msg.From))
	if err != nil {
		h.replyError(ctx, b, msg, "list own slots", err)
		return
	}

	if len(slots) == 0 {
		h.sendMessage(ctx, b, msg.Chat.ID, "📭 У вас пока нет слотов.\n\nСоздайте первый: /newslot", nil)
		return
	}

	h.sendMessage(ctx, b, msg.Chat.ID, formatting.FormatSlotList("📅 Ваши слоты", slots), nil)
	for _, slot := range slots {
		buttons := keyboard.SlotButtons(slot)
		if len(buttons) == 0 {
			continue
		}
		h.sendMessage(ctx, b, msg.Chat.ID, formatting.FormatSlot(slot), keyboard.Markup(buttons...))
	}
}

// handleSwappable показывает чужие слоты, открытые для обмена
func (h *Handlers) handleSwappable(ctx context.Context, b *bot.Bot, msg *models.Message, _ []string) {
	userID := common.UserID(msg.From)

	market, err := h.slotService.ListSwappable(ctx, userID)
	if err != nil {
		h.replyError(ctx, b, msg, "list swappable slots", err)
		return
	}
	if len(market) == 0 {
		h.sendMessage(ctx, b, msg.Chat.ID, "📭 Сейчас нет слотов, открытых для обмена.", nil)
		return
	}

	text := formatting.FormatSlotList("🔁 Доступны для обмена", market)

	own, err := h.slotService.ListOwnSwappable(ctx, userID)
	if err != nil {
		h.replyError(ctx, b, msg, "list own swappable slots", err)
		return
	}
	if len(own) == 0 {
		text += "\nЧтобы предложить обмен, сначала откройте свой слот: /open <id>"
	} else {
		text += "\nПредложить обмен: /propose <ваш id> <id слота>\n\n" + formatting.FormatSlotList("Ваши открытые слоты", own)
	}
	h.sendMessage(ctx, b, msg.Chat.ID, text, nil)
}

func (h *Handlers) handleOpen(ctx context.Context, b *bot.Bot, msg *models.Message, args []string) {
	h.slotCommand(ctx, b, msg, args, "/open <id слота>", "🟢 Слот открыт для обмена", h.slotService.OpenForExchange)
}

func (h *Handlers) handleClose(ctx context.Context, b *bot.Bot, msg *models.Message, args []string) {
	h.slotCommand(ctx, b, msg, args, "/close <id слота>", "🔴 Слот снят с обмена", h.slotService.CloseForExchange)
}

func (h *Handlers) slotCommand(
	ctx context.Context,
	b *bot.Bot,
	msg *models.Message,
	args []string,
	usage string,
	done string,
	fn func(ctx context.Context, slotID uuid.UUID, ownerID string) (*model.Slot, error),
) {
	ids, ok := parseIDs(args, 1)
	if !ok {
		h.sendMessage(ctx, b, msg.Chat.ID, "❌ Использование: "+usage, nil)
		return
	}

	slot, err := fn(ctx, ids[0], common.UserID(msg.From))
	if err != nil {
		h.replyError(ctx, b, msg, "change slot status", err)
		return
	}
	h.sendMessage(ctx, b, msg.Chat.ID, done+"\n\n"+formatting.FormatSlot(slot), nil)
}

func (h *Handlers) handleDelete(ctx context.Context, b *bot.Bot, msg *models.Message, args []string) {
	ids, ok := parseIDs(args, 1)
	if !ok {
		h.sendMessage(ctx, b, msg.Chat.ID, "❌ Использование: /delete <id слота>", nil)
		return
	}

	if err := h.slotService.DeleteSlot(ctx, ids[0], common.UserID(msg.From)); err != nil {
		h.replyError(ctx, b, msg, "delete slot", err)
		return
	}
	h.sendMessage(ctx, b, msg.Chat.ID, "🗑 Слот удалён", nil)
}

// handleNewSlot начинает диалог создания слота
func (h *Handlers) handleNewSlot(ctx context.Context, b *bot.Bot, msg *models.Message, _ []string) {
	h.stateManager.SetState(msg.From.ID, state.StateNewSlotTitle)
	h.sendMessage(ctx, b, msg.Chat.ID,
		"➕ Создание слота\n\nШаг 1 из 3: Введите название слота:\n\nДля отмены: /cancel", nil)
}

func (h *Handlers) handleNewSlotTitleStep(ctx context.Context, b *bot.Bot, msg *models.Message) {
	title := strings.TrimSpace(msg.Text)
	if title == "" || utf8.RuneCountInString(title) > service.SlotTitleMaxLength {
		h.sendMessage(ctx, b, msg.Chat.ID,
			"❌ Название должно быть непустым и не длиннее 200 символов.\n\nПопробуйте ещё раз:", nil)
		return
	}

	h.stateManager.Advance(msg.From.ID, state.StateNewSlotStart, state.SlotDraft{Title: title})
	h.sendMessage(ctx, b, msg.Chat.ID,
		"✅ Название: "+title+"\n\nШаг 2 из 3: Введите начало в формате ДД.ММ.ГГГГ ЧЧ:ММ (UTC):", nil)
}

func (h *Handlers) handleNewSlotStartStep(ctx context.Context, b *bot.Bot, msg *models.Message) {
	start, err := formatting.ParseDateTime(strings.TrimSpace(msg.Text))
	if err != nil {
		h.sendMessage(ctx, b, msg.Chat.ID,
			"❌ Неверный формат. Пример: 10.03.2025 09:00\n\nПопробуйте ещё раз:", nil)
		return
	}

	draft := h.stateManager.Draft(msg.From.ID)
	draft.Start = start
	h.stateManager.Advance(msg.From.ID, state.StateNewSlotEnd, draft)
	h.sendMessage(ctx, b, msg.Chat.ID,
		"✅ Начало: "+formatting.FormatDateTime(start)+
			"\n\nШаг 3 из 3: Введите окончание (ЧЧ:ММ или ДД.ММ.ГГГГ ЧЧ:ММ, UTC):", nil)
}

func (h *Handlers) handleNewSlotEndStep(ctx context.Context, b *bot.Bot, msg *models.Message) {
	draft := h.stateManager.Draft(msg.From.ID)

	end, err := parseEnd(draft.Start, msg.Text)
	if err != nil {
		h.sendMessage(ctx, b, msg.Chat.ID,
			"❌ Неверный формат. Пример: 10:30 или 10.03.2025 10:30\n\nПопробуйте ещё раз:", nil)
		return
	}
	if !end.After(draft.Start) {
		h.sendMessage(ctx, b, msg.Chat.ID, "❌ Окончание должно быть позже начала.\n\nПопробуйте ещё раз:", nil)
		return
	}

	slot, err := h.slotService.CreateSlot(ctx, common.UserID(msg.From), draft.Title, draft.Start, end)
	if err != nil {
		h.stateManager.ClearState(msg.From.ID)
		h.replyError(ctx, b, msg, "create slot", err)
		return
	}

	h.stateManager.ClearState(msg.From.ID)
	h.sendMessage(ctx, b, msg.Chat.ID, "✅ Слот создан!\n\n"+formatting.FormatSlot(slot),
		keyboard.Markup(keyboard.SlotButtons(slot)...))
}
