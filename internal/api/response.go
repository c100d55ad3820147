package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/shramba/internal/model"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// domainError maps an error from the core to a response. Store failures
// are logged and reported without detail.
func domainError(w http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonResponse(w, http.StatusBadRequest, map[string]any{
			"error":  "invalid or missing fields: " + strings.Join(ve.Fields, ", "),
			"fields": ve.Fields,
		})
	case errors.Is(err, model.ErrInvalidID):
		jsonError(w, http.StatusBadRequest, "invalid id")
	case errors.Is(err, model.ErrNotFound):
		jsonError(w, http.StatusNotFound, "not found")
	case errors.Is(err, model.ErrDuplicateEmail):
		jsonError(w, http.StatusConflict, "email already in use")
	default:
		slog.ErrorContext(r.Context(), internalMsg, "error", err, "path", r.URL.Path)
		jsonError(w, http.StatusInternalServerError, internalMsg)
	}
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(target)
}
