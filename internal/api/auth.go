package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/shramba/internal/account"
	"github.com/erazemk/shramba/internal/auth"
	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/store"
)

// AuthHandler handles account endpoints.
type AuthHandler struct {
	Accounts  *account.Directory
	Tokens    *store.Tokens
	JWTSecret string
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token,omitempty"`
	User    model.Identity `json:"user"`
}

// Signup handles POST /api/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.Accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		domainError(w, r, err, "signup failed")
		return
	}

	slog.Info("account registered", "user", id.Name)
	jsonResponse(w, http.StatusCreated, identityResponse{Message: "Signup successful", User: id})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "email and password required")
		return
	}

	id, err := h.Accounts.Authenticate(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, model.ErrNotFound):
		jsonError(w, http.StatusUnauthorized, "user not found")
		return
	case errors.Is(err, model.ErrWrongCredential):
		slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "wrong password")
		return
	case err != nil:
		domainError(w, r, err, "login error")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("user logged in", "user", id.Name, "role", id.Role)
	jsonResponse(w, http.StatusOK, identityResponse{Message: "Login successful", Token: token, User: id})
}

// Logout handles POST /api/logout by revoking the caller's token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.Tokens.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		slog.Error("revoking token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to log out")
		return
	}

	slog.Info("user logged out", "user", claims.Name)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}
