package handlers

import (
	"context"

	"github.com/Freeeeeet/slot_swapper/internal/controller/state"
	"github.com/Freeeeeet/slot_swapper/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	slotService  *service.SlotService
	exchanges    *service.ExchangeCoordinator
	stateManager *state.Manager
	logger       *zap.Logger
	commands     map[string]commandFunc
}

// commandFunc обработчик команды; args - слова после имени команды
type commandFunc func(ctx context.Context, b *bot.Bot, msg *models.Message, args []string)

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	slotService *service.SlotService,
	exchanges *service.ExchangeCoordinator,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	h := &Handlers{
		slotService:  slotService,
		exchanges:    exchanges,
		stateManager: stateManager,
		logger:       logger,
	}
	h.commands = map[string]commandFunc{
		"start":     h.handleStart,
		"help":      h.handleHelp,
		"cancel":    h.handleCancel,
		"myslots":   h.handleMySlots,
		"newslot":   h.handleNewSlot,
		"open":      h.handleOpen,
		"close":     h.handleClose,
		"delete":    h.handleDelete,
		"swappable": h.handleSwappable,
		"propose":   h.handlePropose,
		"requests":  h.handleRequests,
		"accept":    h.handleAccept,
		"reject":    h.handleReject,
		"withdraw":  h.handleWithdraw,
	}
	return h
}
