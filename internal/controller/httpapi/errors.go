package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"go.uber.org/zap"
)

// Коды ошибок транспорта; ошибки домена используют model.ErrorKind
const (
	codeUnauthenticated    = "unauthenticated"
	codeRateLimited        = "rate_limited"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidID          = "invalid_id"
	codeNotFound           = "not_found"
	codeMethodNotAllowed   = "method_not_allowed"
	codeUnavailable        = "unavailable"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func statusForKind(kind model.ErrorKind) int {
	switch kind {
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindUnauthorized:
		return http.StatusForbidden
	case model.KindInvalidInput:
		return http.StatusBadRequest
	case model.KindInvalidTransition,
		model.KindInvalidState,
		model.KindConflict,
		model.KindAlreadyResolved,
		model.KindSlotNoLongerAvailable:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeDomainError отдаёт ошибку сервиса; внутренние детали клиенту не раскрываются
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	kind := model.KindOf(err)
	status := statusForKind(kind)

	if status == http.StatusInternalServerError {
		requestLogger(r, s.logger).Error("Request failed", zap.Error(err))
		writeError(w, status, string(model.KindInternal), "internal error")
		return
	}

	writeError(w, status, string(kind), err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(v)
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal"}`))
		return
	}
	_, _ = w.Write(payload)
}
