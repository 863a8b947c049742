package keyboard

import (
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"

	"github.com/Freeeeeet/slot_swapper/internal/model"
)

// Префиксы callback data; за префиксом следует UUID
const (
	AcceptPrefix   = "accept:"
	RejectPrefix   = "reject:"
	WithdrawPrefix = "withdraw:"
	OpenPrefix     = "open:"
	ClosePrefix    = "close:"
)

func data(prefix string, id uuid.UUID) string {
	return prefix + id.String()
}

// ExchangeButtons кнопки действий над заявкой, доступные пользователю viewer
func ExchangeButtons(req *model.ExchangeRequest, viewer string) []models.InlineKeyboardButton {
	if !req.IsPending() {
		return nil
	}
	switch viewer {
	case req.ReceiverID:
		return []models.InlineKeyboardButton{
			Button("✅ Принять", data(AcceptPrefix, req.ID)),
			Button("🚫 Отклонить", data(RejectPrefix, req.ID)),
		}
	case req.RequesterID:
		return []models.InlineKeyboardButton{
			Button("↩️ Отозвать", data(WithdrawPrefix, req.ID)),
		}
	}
	return nil
}

// SlotButtons кнопка смены статуса собственного слота
func SlotButtons(slot *model.Slot) []models.InlineKeyboardButton {
	switch slot.Status {
	case model.SlotStatusBusy:
		return []models.InlineKeyboardButton{Button("🟢 Открыть для обмена", data(OpenPrefix, slot.ID))}
	case model.SlotStatusSwappable:
		return []models.InlineKeyboardButton{Button("🔴 Снять с обмена", data(ClosePrefix, slot.ID))}
	}
	return nil
}
