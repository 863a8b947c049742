package model

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusBusy        SlotStatus = "BUSY"         // Обычный слот, не участвует в обмене
	SlotStatusSwappable   SlotStatus = "SWAPPABLE"    // Владелец открыл слот для обмена
	SlotStatusSwapPending SlotStatus = "SWAP_PENDING" // Заблокирован активной заявкой на обмен
)

// Valid проверяет что статус входит в допустимое множество
func (s SlotStatus) Valid() bool {
	switch s {
	case SlotStatusBusy, SlotStatusSwappable, SlotStatusSwapPending:
		return true
	}
	return false
}

type Slot struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	OwnerID   string     `json:"owner_id"`
	Status    SlotStatus `json:"status"`
	Version   int64      `json:"version"` // токен оптимистичной блокировки
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsOwnedBy проверяет принадлежность слота пользователю
func (s *Slot) IsOwnedBy(userID string) bool {
	return s.OwnerID == userID
}
