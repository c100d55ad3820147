package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/shramba/internal/account"
)

// UsersHandler handles account management endpoints (admin only).
type UsersHandler struct {
	Accounts *account.Directory
}

type updateUserRequest struct {
	Role string `json:"role"`
}

func userID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Accounts.List(r.Context())
	if err != nil {
		domainError(w, r, err, "failed to list users")
		return
	}
	jsonResponse(w, http.StatusOK, users)
}

// Update handles PUT /api/users/{id}. Only the role can be changed; the
// user has to log in again for it to take effect.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Accounts.SetRole(r.Context(), id, req.Role)
	if err != nil {
		domainError(w, r, err, "failed to update user")
		return
	}

	slog.Info("user role updated", "user", caller(r.Context()).Name, "target_user", user.Name, "new_role", user.Role)
	jsonResponse(w, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	self := caller(r.Context())
	if self.UserID == id {
		jsonError(w, http.StatusBadRequest, "cannot delete yourself")
		return
	}

	if err := h.Accounts.Delete(r.Context(), id); err != nil {
		domainError(w, r, err, "failed to delete user")
		return
	}

	slog.Info("user deleted", "user", self.Name, "deleted_user_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
