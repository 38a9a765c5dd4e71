package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeAmountNotPositive marks a flexible contribution of zero or less.
	// Rejecting those is a product rule, not a storage limit.
	ErrCodeAmountNotPositive ErrorCode = "AMOUNT_NOT_POSITIVE"
	ErrCodeConflict          ErrorCode = "CONFLICT"
	ErrCodeTooManyRequests   ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// AppError is the only error kind handlers translate into HTTP responses.
// Fields carries per-field validation messages, keyed by request field name.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Fields     map[string]string
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// NotFound, Validation and Conflict are shorthands for the domain outcomes
// services report most often.
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message)
}

// Internal wraps an unexpected failure. The message is safe to show to clients.
func Internal(err error) *AppError {
	return Wrap(err, ErrCodeInternal, "An unexpected error occurred")
}

// ValidationFields builds a validation error carrying per-field messages.
func ValidationFields(message string, fields map[string]string) *AppError {
	e := New(ErrCodeValidation, message)
	e.Fields = fields
	return e
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeAmountNotPositive:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == ErrCodeNotFound
}

func IsValidation(err error) bool {
	appErr, ok := As(err)
	return ok && (appErr.Code == ErrCodeValidation || appErr.Code == ErrCodeAmountNotPositive)
}

func IsConflict(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == ErrCodeConflict
}

var (
	ErrCollectionNotFound  = NotFound("Collection not found")
	ErrContributorNotFound = NotFound("Contributor not found")
	ErrCollectionInactive  = Validation("This collection is no longer accepting contributions")
	ErrDeadlinePassed      = Validation("The deadline for this collection has passed")
	ErrAlreadyContributed  = Conflict("You have already contributed to this collection")
	ErrAlreadyConfirmed    = Conflict("Payment already confirmed")
	ErrPaymentNotConfirmed = Validation("Payment not yet confirmed")
	ErrNoPaidContributors  = Validation("No payments have been confirmed yet")
	ErrWithdrawalRequested = Conflict("Withdrawal already requested for this collection")
)
