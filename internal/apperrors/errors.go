package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("resource state conflict")

// ErrForbidden indicates the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInsufficientBalance indicates a ledger debit was requested for more than
// the customer's current balance. Raised inside the repository transaction so
// the balance check and the debit are one unit.
var ErrInsufficientBalance = errors.New("insufficient ledger balance")

// ErrReversalNotFound indicates the ledger entry backing a payment could not
// be located during removal. The removal itself still commits; callers flag
// this as a data-integrity warning instead of blocking the operator.
var ErrReversalNotFound = errors.New("ledger entry for reversal not found")

// AppError wraps a lower-level error with a status code and a message suitable
// for surfacing to the caller. Repositories use it to annotate database failures.
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

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches apperrors.ErrNotFound via errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
