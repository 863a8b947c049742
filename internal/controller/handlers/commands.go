package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/slot_swapper/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleMessage точка входа для всех текстовых сообщений: команды и шаги диалогов
func (h *Handlers) HandleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}

	name, args, isCommand := parseCommand(msg.Text)
	if !isCommand {
		h.handleDialogStep(ctx, b, msg)
		return
	}

	cmd, ok := h.commands[name]
	if !ok {
		h.sendMessage(ctx, b, msg.Chat.ID, "❓ Неизвестная команда. Используйте /help", nil)
		return
	}

	// Любая команда, кроме самих шагов диалога, прерывает незавершённый диалог
	if name != "newslot" {
		h.stateManager.ClearState(msg.From.ID)
	}

	h.logger.Debug("Command received",
		zap.String("command", name),
		zap.Int64("telegram_id", msg.From.ID))

	cmd(ctx, b, msg, args)
}

func (h *Handlers) handleStart(ctx context.Context, b *bot.Bot, msg *models.Message, _ []string) {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = msg.From.Username
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это бот для обмена слотами в календаре. Создайте слот, откройте его для обмена "+
			"и предложите обмен на чужой открытый слот.\n\n"+
			"Ваш ID: %d\n\n"+
			"Начните с /newslot или /swappable. Все команды: /help",
		name, msg.From.ID,
	)
	h.sendMessage(ctx, b, msg.Chat.ID, welcomeText, nil)
}

func (h *Handlers) handleHelp(ctx context.Context, b *bot.Bot, msg *models.Message, _ []string) {
	h.sendMessage(ctx, b, msg.Chat.ID, helpText, nil)
}

// handleCancel прерывает текущий диалог
func (h *Handlers) handleCancel(ctx context.Context, b *bot.Bot, msg *models.Message, _ []string) {
	// HandleMessage уже сбросил состояние; здесь только подтверждаем
	h.sendMessage(ctx, b, msg.Chat.ID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.", nil)
}

// handleDialogStep обрабатывает текст в зависимости от состояния пользователя
func (h *Handlers) handleDialogStep(ctx context.Context, b *bot.Bot, msg *models.Message) {
	switch h.stateManager.GetState(msg.From.ID) {
	case state.StateNewSlotTitle:
		h.handleNewSlotTitleStep(ctx, b, msg)
	case state.StateNewSlotStart:
		h.handleNewSlotStartStep(ctx, b, msg)
	case state.StateNewSlotEnd:
		h.handleNewSlotEndStep(ctx, b, msg)
	default:
		h.sendMessage(ctx, b, msg.Chat.ID, "Используйте /help для просмотра доступных команд.", nil)
	}
}
