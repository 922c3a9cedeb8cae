package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/etnz/hfledger"
)

// Envelope wraps every response.
type Envelope struct {
	Data     any      `json:"data,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, data any, warnings []string) {
	writeJSON(w, status, Envelope{Data: data, Warnings: warnings})
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, Envelope{Error: err.Error()})
}

// statusOf maps ledger errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, hfledger.ErrInvalidAmount), errors.Is(err, hfledger.ErrUnknownKind), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, hfledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, hfledger.ErrUnsupportedOperation):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
