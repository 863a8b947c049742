package model

import (
	"time"

	"github.com/google/uuid"
)

type ExchangeStatus string

const (
	ExchangeStatusPending   ExchangeStatus = "PENDING"   // Ожидает ответа получателя
	ExchangeStatusAccepted  ExchangeStatus = "ACCEPTED"  // Принята, владельцы слотов поменялись
	ExchangeStatusRejected  ExchangeStatus = "REJECTED"  // Отклонена получателем
	ExchangeStatusCancelled ExchangeStatus = "CANCELLED" // Отозвана инициатором
)

// Valid проверяет что статус входит в допустимое множество
func (s ExchangeStatus) Valid() bool {
	switch s {
	case ExchangeStatusPending, ExchangeStatusAccepted, ExchangeStatusRejected, ExchangeStatusCancelled:
		return true
	}
	return false
}

// ExchangeRequest is a proposal to swap ownership of MySlot (offered by the
// requester) and TheirSlot (owned by the receiver at creation time).
type ExchangeRequest struct {
	ID          uuid.UUID      `json:"id"`
	RequesterID string         `json:"requester_id"`
	ReceiverID  string         `json:"receiver_id"` // владелец TheirSlot на момент создания заявки
	MySlotID    uuid.UUID      `json:"my_slot_id"`
	TheirSlotID uuid.UUID      `json:"their_slot_id"`
	Status      ExchangeStatus `json:"status"`
	Version     int64          `json:"version"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// IsPending checks if request is still open
func (r *ExchangeRequest) IsPending() bool {
	return r.Status == ExchangeStatusPending
}

// Involves checks if the user is the requester or the receiver
func (r *ExchangeRequest) Involves(userID string) bool {
	return r.RequesterID == userID || r.ReceiverID == userID
}

// References checks if the request points at the slot from either side
func (r *ExchangeRequest) References(slotID uuid.UUID) bool {
	return r.MySlotID == slotID || r.TheirSlotID == slotID
}
