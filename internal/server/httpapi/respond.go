// Package httpapi exposes the backend over HTTP: routing, auth middleware,
// request parsing and the JSON response shapes of the public API.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ndenisov/showcase/internal/common"
)

// messageResponse is the error/confirmation shape of the older endpoint
// family: {"message": "..."}.
type messageResponse struct {
	Message string `json:"message"`
}

// envelope is the response shape of the newer endpoint family
// (gallery, contact): {"success": ..., ...}.
type envelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Count      *int   `json:"count,omitempty"`
	Data       any    `json:"data,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func writeEnvelopeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Message: msg})
}

// errorStatus maps service errors onto HTTP status codes and user-facing
// messages. Authorization failures intentionally map to 401, matching the
// public API contract. Upstream failures surface their message with a 500.
func errorStatus(err error, notFoundMsg string) (int, string) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, common.ErrConflict):
		return http.StatusBadRequest, "already exists"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, notFoundMsg
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Not authorized"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
