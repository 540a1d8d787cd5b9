package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/salesdesk/apiserver/internal/services"
)

// UsersHandler exposes account administration. Every route is admin-only.
type UsersHandler struct {
	credentials *services.CredentialService
}

func NewUsersHandler(credentials *services.CredentialService) *UsersHandler {
	return &UsersHandler{credentials: credentials}
}

// UsersRouter registers user administration routes on the given router.
func UsersRouter(r chi.Router, credentials *services.CredentialService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewUsersHandler(credentials)

	r.Use(authMiddleware, RequireAdmin)
	r.Get("/", handler.List)
	r.Post("/", handler.Create)
	r.Delete("/{id}", handler.Delete)
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.credentials.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.credentials.Create(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.credentials.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": id})
}
