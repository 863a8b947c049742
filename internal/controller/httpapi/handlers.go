package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 16

func (s *Server) handleCreateSlot(w http.ResponseWriter, r *http.Request) {
	var body createSlotRequest
	if !decodeBody(w, r, &body) {
		return
	}

	slot, err := s.slots.CreateSlot(r.Context(), currentUser(r), body.Title, body.StartTime, body.EndTime)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, slotEnvelope{Slot: toSlotResponse(slot)})
}

func (s *Server) handleListOwnSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := s.slots.ListOwnSlots(r.Context(), currentUser(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSlotsResponse(slots))
}

func (s *Server) handleOpenSlot(w http.ResponseWriter, r *http.Request) {
	s.slotTransition(w, r, s.slots.OpenForExchange)
}

func (s *Server) handleCloseSlot(w http.ResponseWriter, r *http.Request) {
	s.slotTransition(w, r, s.slots.CloseForExchange)
}

func (s *Server) slotTransition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, slotID uuid.UUID, ownerID string) (*model.Slot, error),
) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	slot, err := fn(r.Context(), id, currentUser(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slotEnvelope{Slot: toSlotResponse(slot)})
}

func (s *Server) handleDeleteSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.slots.DeleteSlot(r.Context(), id, currentUser(r)); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSwappable(w http.ResponseWriter, r *http.Request) {
	slots, err := s.slots.ListSwappable(r.Context(), currentUser(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSlotsResponse(slots))
}

func (s *Server) handleListOwnSwappable(w http.ResponseWriter, r *http.Request) {
	slots, err := s.slots.ListOwnSwappable(r.Context(), currentUser(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSlotsResponse(slots))
}

func (s *Server) handlePropose(w http.ResponseWriter, r *http.Request) {
	var body proposeRequest
	if !decodeBody(w, r, &body) {
		return
	}

	mySlot, err := uuid.Parse(body.MySlotID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "mySlotId must be a UUID")
		return
	}
	theirSlot, err := uuid.Parse(body.TheirSlotID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "theirSlotId must be a UUID")
		return
	}

	req, err := s.exchanges.Propose(r.Context(), currentUser(r), mySlot, theirSlot)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, exchangeEnvelope{Message: "Swap request sent", Request: toExchangeResponse(req)})
}

func (s *Server) handleListExchanges(w http.ResponseWriter, r *http.Request) {
	list := s.exchanges.ListExchanges
	if r.URL.Query().Get("status") == string(model.ExchangeStatusPending) {
		list = s.exchanges.ListPending
	}

	requests, err := list(r.Context(), currentUser(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]exchangeResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toExchangeResponse(req))
	}
	writeJSON(w, http.StatusOK, exchangesEnvelope{Requests: out})
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	s.resolveExchange(w, r, "Swap accepted", s.exchanges.Accept)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	s.resolveExchange(w, r, "Swap rejected", s.exchanges.Reject)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.resolveExchange(w, r, "Swap request cancelled", s.exchanges.Cancel)
}

func (s *Server) resolveExchange(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	fn func(ctx context.Context, requestID uuid.UUID, actorID string) (*model.ExchangeRequest, error),
) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req, err := fn(r.Context(), id, currentUser(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exchangeEnvelope{Message: message, Request: toExchangeResponse(req)})
}

func currentUser(r *http.Request) string {
	user, _ := UserFromContext(r.Context())
	return user
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, fmt.Sprintf("invalid id %q", raw))
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody читает JSON-тело ровно одного объекта без лишних полей
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body: "+err.Error())
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "request body must contain a single JSON object")
		return false
	}
	return true
}
