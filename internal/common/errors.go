// Package common defines shared constants, sentinel errors and response helpers
// used by both the HTTP tier and the account service. Callers should use
// errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("resource conflict")

	// Request validation errors.
	ErrBadRequest = errors.New("bad request")

	// ErrInvalidIdentifier is returned when an account id cannot be parsed.
	// It belongs to the bad-request class but is distinct from not-found.
	ErrInvalidIdentifier = fmt.Errorf("%w: invalid identifier", ErrBadRequest)

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Throttling.
	ErrTooManyRequests = errors.New("too many requests")

	// ErrUpstreamUnavailable reports a transport failure talking to the account service.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err carries a PostgreSQL unique violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), IsUniqueViolation(err):
		return http.StatusConflict
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
