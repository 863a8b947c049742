package formatting

import "github.com/Freeeeeet/slot_swapper/internal/model"

// StatusDisplay emoji и текст для отображения статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

func (d StatusDisplay) String() string {
	return d.Emoji + " " + d.Text
}

// GetSlotStatusDisplay возвращает emoji и текст для статуса слота
func GetSlotStatusDisplay(status model.SlotStatus) StatusDisplay {
	displays := map[model.SlotStatus]StatusDisplay{
		model.SlotStatusBusy:        {"🔴", "Занят"},
		model.SlotStatusSwappable:   {"🟢", "Открыт для обмена"},
		model.SlotStatusSwapPending: {"⏳", "Ожидает обмена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetExchangeStatusDisplay возвращает emoji и текст для статуса заявки
func GetExchangeStatusDisplay(status model.ExchangeStatus) StatusDisplay {
	displays := map[model.ExchangeStatus]StatusDisplay{
		model.ExchangeStatusPending:   {"⏳", "Ожидает ответа"},
		model.ExchangeStatusAccepted:  {"✅", "Принята"},
		model.ExchangeStatusRejected:  {"🚫", "Отклонена"},
		model.ExchangeStatusCancelled: {"❌", "Отозвана"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}
