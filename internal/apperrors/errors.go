package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates the caller could not be authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrSessionUnavailable indicates that no identity could be established from
// the presented session. Fatal to the current resolve; the user is sent back
// to sign-in.
var ErrSessionUnavailable = errors.New("session unavailable")

// ErrSchemaMismatch indicates a write referenced a column the live schema does
// not have. The profiles schema evolves independently of this code, so writers
// retry with a minimal, schema-stable column set when they see this.
var ErrSchemaMismatch = errors.New("schema mismatch")

// ErrRecoveryFailed indicates the signup recovery could not synthesize a
// profile row even after the degraded-insert fallback. Retryable: the
// underlying identity is left intact.
var ErrRecoveryFailed = errors.New("signup recovery failed, please try signing in again")

// AppError carries an HTTP status code alongside a message, for handlers that
// serialize errors straight into responses.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with an explicit status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message, Err: ErrUnauthorized}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

func NewInternalServerError(message string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message}
}

func NewGatewayTimeoutError(message string) *AppError {
	return &AppError{Code: http.StatusGatewayTimeout, Message: message}
}
