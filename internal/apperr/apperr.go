package apperr

import (
	"errors"
	"net/http"
)

// Code classifies an error for API-layer mapping.
type Code string

const (
	CodeValidation       Code = "VALIDATION"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeForbidden        Code = "FORBIDDEN"
	CodeNotFound         Code = "NOT_FOUND"
	CodeConflict         Code = "CONFLICT"
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"
)

// Error is a typed outcome produced at component boundaries. The API layer
// maps it to a status code and user-visible message; nothing is retried
// internally.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Status returns the HTTP status for the error's code.
func (e *Error) Status() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *Error       { return &Error{Code: CodeValidation, Message: msg} }
func Unauthenticated(msg string) *Error  { return &Error{Code: CodeUnauthenticated, Message: msg} }
func Forbidden(msg string) *Error        { return &Error{Code: CodeForbidden, Message: msg} }
func NotFound(msg string) *Error         { return &Error{Code: CodeNotFound, Message: msg} }
func Conflict(msg string) *Error         { return &Error{Code: CodeConflict, Message: msg} }
func StoreUnavailable(msg string) *Error { return &Error{Code: CodeStoreUnavailable, Message: msg} }

// From returns err as an *Error when it is one, or wraps it as a
// store-level failure otherwise.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return StoreUnavailable("store operation failed")
}
