package controller

import (
	"context"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks"
	"github.com/Freeeeeet/slot_swapper/internal/controller/handlers"
	"github.com/Freeeeeet/slot_swapper/internal/controller/state"
	"github.com/Freeeeeet/slot_swapper/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Незавершённый диалог создания слота сбрасывается после этого времени
const dialogTTL = 30 * time.Minute

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	stateManager    *state.Manager
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	slotService *service.SlotService,
	exchanges *service.ExchangeCoordinator,
	logger *zap.Logger,
) *BotController {
	stateManager := state.NewManager(dialogTTL)

	return &BotController{
		bot:             botInstance,
		handlers:        handlers.NewHandlers(slotService, exchanges, stateManager, logger),
		callbackHandler: callbacks.NewHandler(slotService, exchanges, logger),
		stateManager:    stateManager,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Команды и шаги диалогов разбирает один обработчик, порядок сопоставления не важен
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "myslots", Description: "📅 Мои слоты"},
		{Command: "newslot", Description: "➕ Создать слот"},
		{Command: "swappable", Description: "🔁 Слоты, доступные для обмена"},
		{Command: "requests", Description: "📨 Мои заявки на обмен"},
		{Command: "cancel", Description: "❌ Прервать текущий диалог"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")

	go c.expireDialogs(ctx)
	c.bot.Start(ctx)

	c.logger.Info("Bot stopped")
	return nil
}

func (c *BotController) expireDialogs(ctx context.Context) {
	ticker := time.NewTicker(dialogTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.stateManager.Cleanup(); n > 0 {
				c.logger.Debug("Expired bot dialogs", zap.Int("count", n))
			}
		}
	}
}
