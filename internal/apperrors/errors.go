package apperrors

import (
	"context"
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

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates valid credentials that do not grant access to the resource.
var ErrForbidden = errors.New("forbidden")

// ErrQuotaExceeded indicates the caller has used up its daily request quota.
var ErrQuotaExceeded = errors.New("daily quota exceeded")

// ErrStoreUnavailable indicates that a backing store could not be reached.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrStoreTimeout indicates that a backing store did not answer within its deadline.
var ErrStoreTimeout = errors.New("store timeout")

// ErrNonInvertibleRate indicates a base rate of zero was found where a division by it is required.
var ErrNonInvertibleRate = errors.New("non-invertible rate")

// ErrUnknownPlan indicates a plan identifier outside the known plan table.
var ErrUnknownPlan = errors.New("unknown plan")

// StatusClientClosedRequest is reported when the caller went away before a response was ready.
const StatusClientClosedRequest = 499

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationError returns an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewStoreError returns an AppError wrapping both the given kind sentinel and the underlying cause.
func NewStoreError(kind error, message string, cause error) *AppError {
	return &AppError{Code: http.StatusServiceUnavailable, Message: message, Err: errors.Join(kind, cause)}
}

// QuotaExceededError is returned when a request is rejected by the daily limiter.
type QuotaExceededError struct {
	RetryAfterSeconds int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily quota exceeded, retry after %d seconds", e.RetryAfterSeconds)
}

func (e *QuotaExceededError) Unwrap() error {
	return ErrQuotaExceeded
}

// HTTPStatus maps an error to the status code returned to API callers.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrNonInvertibleRate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrStoreTimeout), errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
