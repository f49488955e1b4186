package handler

import (
	"net/http"

	"github.com/msomdec/finledger/internal/service"
)

// UserHandler serves identity management.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeList(w, "Users retrieved.", toUserDTOs(users))
}

// GET /users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "User retrieved.", toUserDTO(user))
}

// POST /users
// Request:  {"email":"...","password":"...","displayName":"...","role":"ADMIN"}
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req identityRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	user, err := h.users.Create(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "User created.", toUserDTO(user))
}

// DELETE /users/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "User deleted.", nil)
}

// HandleMe returns the caller's own identity.
// GET /me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Me(r.Context(), principal(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Current user.", toUserDTO(user))
}
