package model

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error codes for API responses
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeDatabase     = "DATABASE_ERROR"
)

// APIError is the error type returned by services and repositories.
// Code classifies the failure; Err carries the underlying cause for
// database and internal errors.
type APIError struct {
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error.
func (e *APIError) Status() int {
	switch e.Code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to send across the API
// boundary. Database and internal errors are reduced to a generic
// message; their detail stays in server-side logs.
func (e *APIError) PublicMessage() string {
	switch e.Code {
	case ErrCodeDatabase:
		return "database error"
	case ErrCodeInternal:
		return "internal server error"
	default:
		return e.Message
	}
}

// NewNotFound creates a not-found error.
func NewNotFound(format string, args ...any) *APIError {
	return &APIError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewBadRequest creates a validation error.
func NewBadRequest(format string, args ...any) *APIError {
	return &APIError{Code: ErrCodeBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NewUnauthorized creates an authentication error.
func NewUnauthorized(format string, args ...any) *APIError {
	return &APIError{Code: ErrCodeUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// NewForbidden creates an authorization error.
func NewForbidden(format string, args ...any) *APIError {
	return &APIError{Code: ErrCodeForbidden, Message: fmt.Sprintf(format, args...)}
}

// NewConflict creates a uniqueness-conflict error.
func NewConflict(format string, args ...any) *APIError {
	return &APIError{Code: ErrCodeConflict, Message: fmt.Sprintf(format, args...)}
}

// NewInternal wraps an unexpected failure.
func NewInternal(err error) *APIError {
	return &APIError{Code: ErrCodeInternal, Message: "internal server error", Err: err}
}

// NewDatabaseError wraps a storage failure.
func NewDatabaseError(err error) *APIError {
	return &APIError{Code: ErrCodeDatabase, Message: "database error", Err: err}
}

// Postgres error code for unique-constraint violations.
const uniqueViolationCode = "23505"

// Known unique constraints, mapped to the field named in the conflict
// message.
var uniqueConstraintFields = map[string]string{
	"users_email_key":    "email",
	"users_username_key": "username",
}

// MapDBError classifies a storage error. Unique-constraint violations
// become Conflict errors naming the violated field; everything else is a
// Database error carrying the cause.
func MapDBError(err error) *APIError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		if field, ok := uniqueConstraintFields[pgErr.ConstraintName]; ok {
			return NewConflict("%s already in use", field)
		}
		return NewConflict("duplicate value violates constraint %s", pgErr.ConstraintName)
	}
	return NewDatabaseError(err)
}

// AsAPIError extracts an APIError from an error chain, falling back to
// an internal error so callers always get a classified failure.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewInternal(err)
}
