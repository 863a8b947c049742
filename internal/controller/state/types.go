package state

import "time"

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Состояния для создания слота
	StateNewSlotTitle UserState = "new_slot_title"
	StateNewSlotStart UserState = "new_slot_start"
	StateNewSlotEnd   UserState = "new_slot_end"
)

// SlotDraft данные создаваемого слота, собранные на предыдущих шагах
type SlotDraft struct {
	Title string
	Start time.Time
}

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State     UserState
	Draft     SlotDraft
	UpdatedAt time.Time
}
