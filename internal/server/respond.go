package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/locksum/locksum/internal/common"
)

// errorResponse is the error body shape: {"detail": "..."}.
type errorResponse struct {
	Detail string `json:"detail"`
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondDetail writes an error body with the given status and message.
func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, errorResponse{Detail: detail})
}

// respondError maps an application error to an HTTP status. User-facing
// errors surface their message; everything else becomes an opaque 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var userErr *common.UserError

	switch {
	case errors.Is(err, common.ErrInvalidCredentials), errors.Is(err, common.ErrInvalidToken):
		respondDetail(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, common.ErrNotFound):
		respondDetail(w, http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrDuplicateEntry):
		respondDetail(w, http.StatusBadRequest, "Duplicate entry")
	case errors.As(err, &userErr):
		respondDetail(w, http.StatusBadRequest, userErr.UserMessage)
	default:
		slog.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		respondDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON parses a request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.NewUserError("Invalid request body", err)
	}
	return nil
}
