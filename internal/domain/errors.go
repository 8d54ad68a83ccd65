package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyQuery   = errors.New("query is required")
	ErrInvalidBody  = errors.New("invalid request body")
	ErrMissingToken = errors.New("upstream token is not configured")

	// ErrUpstreamUnavailable marks transport-level failures (connection
	// refused, timeout) on the single upstream attempt.
	ErrUpstreamUnavailable = errors.New("upstream request failed")
)

// MaxErrorBodyLength bounds how much of an upstream error body is carried
// back to the caller.
const MaxErrorBodyLength = 1000

// UpstreamStatusError is returned when the upstream API answers with a
// non-success HTTP status. Body is truncated on construction so the full
// upstream payload never reaches a response.
type UpstreamStatusError struct {
	StatusCode int
	Body       string
}

func NewUpstreamStatusError(statusCode int, body string) *UpstreamStatusError {
	if r := []rune(body); len(r) > MaxErrorBodyLength {
		body = string(r[:MaxErrorBodyLength]) + "…"
	}
	return &UpstreamStatusError{StatusCode: statusCode, Body: body}
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}
