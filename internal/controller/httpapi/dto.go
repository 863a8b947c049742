package httpapi

import (
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/model"
)

type slotResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Owner     string    `json:"owner"`
	Status    string    `json:"status"`
	Version   int64     `json:"version"`
}

type exchangeResponse struct {
	ID          string    `json:"id"`
	Requester   string    `json:"requester"`
	Receiver    string    `json:"receiver"`
	MySlotID    string    `json:"mySlotId"`
	TheirSlotID string    `json:"theirSlotId"`
	Status      string    `json:"status"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
}

type createSlotRequest struct {
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type proposeRequest struct {
	MySlotID    string `json:"mySlotId"`
	TheirSlotID string `json:"theirSlotId"`
}

type slotEnvelope struct {
	Slot slotResponse `json:"slot"`
}

type slotsEnvelope struct {
	Slots []slotResponse `json:"slots"`
}

type exchangeEnvelope struct {
	Message string           `json:"message"`
	Request exchangeResponse `json:"request"`
}

type exchangesEnvelope struct {
	Requests []exchangeResponse `json:"requests"`
}

func toSlotResponse(s *model.Slot) slotResponse {
	return slotResponse{
		ID:        s.ID.String(),
		Title:     s.Title,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Owner:     s.OwnerID,
		Status:    string(s.Status),
		Version:   s.Version,
	}
}

func toSlotsResponse(slots []*model.Slot) slotsEnvelope {
	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotResponse(s))
	}
	return slotsEnvelope{Slots: out}
}

func toExchangeResponse(r *model.ExchangeRequest) exchangeResponse {
	return exchangeResponse{
		ID:          r.ID.String(),
		Requester:   r.RequesterID,
		Receiver:    r.ReceiverID,
		MySlotID:    r.MySlotID.String(),
		TheirSlotID: r.TheirSlotID.String(),
		Status:      string(r.Status),
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
	}
}
