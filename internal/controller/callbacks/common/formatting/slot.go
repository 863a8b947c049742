package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/slot_swapper/internal/model"
)

// FormatSlot форматирует слот для списка
func FormatSlot(slot *model.Slot) string {
	return fmt.Sprintf("%s %s\n📅 %s\n🆔 %s",
		GetSlotStatusDisplay(slot.Status).Emoji,
		slot.Title,
		FormatPeriod(slot.StartTime, slot.EndTime),
		slot.ID,
	)
}

// FormatSlotList форматирует список слотов с заголовком
func FormatSlotList(header string, slots []*model.Slot) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%d %s):\n", header, len(slots), PluralizeSlots(len(slots))))
	for _, slot := range slots {
		sb.WriteString("\n")
		sb.WriteString(FormatSlot(slot))
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatExchange форматирует заявку на обмен с точки зрения пользователя viewer
func FormatExchange(req *model.ExchangeRequest, viewer string) string {
	direction := "📤 Исходящая"
	if req.ReceiverID == viewer {
		direction = "📥 Входящая"
	}

	return fmt.Sprintf("%s заявка\n📊 Статус: %s\n🔁 Слот инициатора: %s\n🎯 Запрошенный слот: %s\n📅 Создана: %s\n🆔 %s",
		direction,
		GetExchangeStatusDisplay(req.Status),
		req.MySlotID,
		req.TheirSlotID,
		FormatDateTime(req.CreatedAt),
		req.ID,
	)
}
