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

// ErrConflict indicates the resource is in a state that does not allow the operation.
var ErrConflict = errors.New("conflict")

// ErrForbidden indicates the actor lacks the role or branch scope for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates that no valid actor could be resolved for the request.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal is a generic internal failure.
var ErrInternal = errors.New("internal error")

// Business rule violations. Each wraps one of the generic categories above so
// handlers can map them with errors.Is.
var (
	ErrInsufficientBalance = fmt.Errorf("insufficient float balance: %w", ErrValidation)
	ErrAccountNotFound     = fmt.Errorf("float account %w", ErrNotFound)
	ErrAccountInactive     = fmt.Errorf("float account is inactive: %w", ErrValidation)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrReversalNotFound    = fmt.Errorf("reversal request %w", ErrNotFound)
	ErrAlreadyReversed     = fmt.Errorf("transaction already reversed: %w", ErrConflict)
	ErrAlreadyDisbursed    = fmt.Errorf("transaction already disbursed: %w", ErrConflict)
	ErrInvalidTransition   = fmt.Errorf("status transition not allowed: %w", ErrConflict)
	ErrAlreadyReviewed     = fmt.Errorf("reversal request already reviewed: %w", ErrConflict)
)

// Ledger-side failures. These never reach a caller as a failed operation;
// they are logged and leave a pending ledger effect behind.
var (
	ErrMappingNotFound  = errors.New("no GL mapping with both debit and credit legs")
	ErrPostingImbalance = errors.New("journal entries do not balance")
	ErrPersistence      = errors.New("persistence failure")
	ErrEffectInFlight   = fmt.Errorf("ledger effect is being posted elsewhere: %w", ErrConflict)
)

// AppError carries an HTTP-equivalent status alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
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

// NewAppError creates an AppError. A 500 code additionally marks the error as
// a persistence failure so callers can test for it with errors.Is.
func NewAppError(code int, message string, err error) *AppError {
	if code == http.StatusInternalServerError {
		if err == nil {
			err = ErrPersistence
		} else if !errors.Is(err, ErrPersistence) {
			err = fmt.Errorf("%w: %w", ErrPersistence, err)
		}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a 404 AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// HTTPStatus maps an error to the status code the API layer should return.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
