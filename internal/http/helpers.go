package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cashout/internal/auth"
	"cashout/internal/core"
	"cashout/internal/session"
	"cashout/internal/store"
)

// maxBodyBytes caps request bodies; a full week document is a few KB.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps domain errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message; the real error is already
// logged by the service layer.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNoTenant), errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, "invalid registration input")
	case errors.Is(err, store.ErrUserExists):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, core.ErrBadWeekID):
		writeError(w, http.StatusBadRequest, "malformed week identifier")
	case errors.Is(err, core.ErrBadWeekShape):
		writeError(w, http.StatusUnprocessableEntity, "week must have exactly 7 days")
	case errors.Is(err, store.ErrLedgerNotFound):
		writeError(w, http.StatusNotFound, "week not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
