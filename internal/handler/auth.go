package handler

import (
	"net/http"

	"github.com/msomdec/finledger/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleLogin exchanges credentials for a token.
// POST /auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"data":{"token":"..."}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Login successful.", TokenDTO{Token: token})
}

// HandleRegister creates an identity and returns a token for it.
// POST /auth/register
// Request:  {"email":"...","password":"...","displayName":"...","role":"USER"}
// Response: {"data":{"token":"..."}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req identityRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, _, err := h.auth.Register(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Registration successful.", TokenDTO{Token: token})
}

// HandleTest is an unauthenticated liveness probe for the auth endpoints.
// GET /auth/test
func (h *AuthHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "Auth endpoint reachable.", nil)
}
