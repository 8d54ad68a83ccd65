package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ametow/leakgate/internal/domain"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusForError maps internal failure kinds to HTTP status codes:
// 400 invalid request, 502 upstream failure, 500 everything else.
func StatusForError(err error) int {
	var statusErr *domain.UpstreamStatusError
	switch {
	case errors.Is(err, domain.ErrEmptyQuery), errors.Is(err, domain.ErrInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUpstreamUnavailable), errors.As(err, &statusErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody builds the JSON error envelope. Every branch is bounded and
// none of them can carry the upstream token.
func ErrorBody(err error) map[string]any {
	var statusErr *domain.UpstreamStatusError
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return map[string]any{"error": "Missing 'query' field in request body."}
	case errors.Is(err, domain.ErrInvalidBody):
		return map[string]any{"error": "Invalid JSON. Expected application/json with 'query' field."}
	case errors.Is(err, domain.ErrMissingToken):
		return map[string]any{"error": "Server misconfiguration: missing LEAK_API_TOKEN"}
	case errors.As(err, &statusErr):
		return map[string]any{
			"error":       "Upstream returned non-200",
			"status_code": statusErr.StatusCode,
			"text":        statusErr.Body,
		}
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return map[string]any{
			"error":  "Upstream request failed",
			"detail": err.Error(),
		}
	default:
		return map[string]any{
			"error":  "Internal server error",
			"detail": err.Error(),
		}
	}
}

// WriteError renders err as a JSON response and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	status := StatusForError(err)
	WriteJSON(w, status, ErrorBody(err))
	return status
}
