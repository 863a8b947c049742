package callbacktypes

import (
	"github.com/Freeeeeet/slot_swapper/internal/service"
	"go.uber.org/zap"
)

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	SlotService *service.SlotService
	Exchanges   *service.ExchangeCoordinator
	Logger      *zap.Logger
}
