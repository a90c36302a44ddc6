package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse is the standard error envelope for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the standard envelope for operations whose result is
// a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Log.Error("response encode failed", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respond(w, status, ErrorResponse{Error: message})
}

// internalError logs the real error but returns a generic message to the
// client.
func (h *Handler) internalError(w http.ResponseWriter, err error) {
	h.Log.Error("internal error", zap.Error(err))
	h.respondError(w, http.StatusInternalServerError, "internal server error")
}

// decode reads JSON from the request body into dst. Returns false and
// writes a 400 response if parsing fails.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}
