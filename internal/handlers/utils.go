package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/salesdesk/apiserver/internal/services"
	"github.com/salesdesk/apiserver/internal/store"
)

type contextKey string

const contextIdentityKey contextKey = "identity"

// Identity is the authenticated caller, carried in the request context by
// the auth middleware. There is no ambient session state anywhere else.
type Identity struct {
	UserID int
	Name   string
	Email  string
	Admin  bool
}

func identityFromContext(ctx context.Context) (Identity, error) {
	identity, ok := ctx.Value(contextIdentityKey).(Identity)
	if !ok || identity.UserID < 1 {
		return Identity{}, errors.New("missing identity")
	}
	return identity, nil
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps service-layer failures onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
