package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/tropicaldog17/engage/internal/errors"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Attempted *int64 `json:"attempted,omitempty"`
	Available *int64 `json:"available,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var (
		verr         *apperrors.ErrValidation
		notFound     *apperrors.ErrNotFound
		insufficient *apperrors.ErrInsufficientBalance
		outOfStock   *apperrors.ErrOutOfStock
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: notFound.Error()})
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:     "insufficient balance",
			Attempted: &insufficient.Attempted,
			Available: &insufficient.Available,
		})
	case errors.As(err, &outOfStock):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: outOfStock.Error()})
	case errors.Is(err, apperrors.ErrInvalidTransition), errors.Is(err, apperrors.ErrDuplicateAction):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &apperrors.ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &apperrors.ErrValidation{Field: key, Message: "must be a non-negative integer"}
	}
	return n, nil
}
