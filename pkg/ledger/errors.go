package ledger

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this package matches exactly one
// of them with errors.Is.
var (
	ErrValidation    = errors.New("ledger: validation failed")
	ErrConflict      = errors.New("ledger: conflict")
	ErrNotFound      = errors.New("ledger: not found")
	ErrState         = errors.New("ledger: invalid state")
	ErrConfiguration = errors.New("ledger: configuration error")
)

// Specific failures, each wrapping its category.
var (
	ErrDuplicateAccount    = fmt.Errorf("%w: account code already exists", ErrConflict)
	ErrDuplicateBook       = fmt.Errorf("%w: book year already exists", ErrConflict)
	ErrAccountNotFound     = fmt.Errorf("%w: account", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("%w: transaction", ErrNotFound)
	ErrBookNotFound        = fmt.Errorf("%w: book", ErrNotFound)
	ErrAccountClosed       = fmt.Errorf("%w: account is closed", ErrState)
	ErrTransactionCanceled = fmt.Errorf("%w: transaction is canceled", ErrState)
	ErrIllegalTransition   = fmt.Errorf("%w: illegal status transition", ErrState)
	ErrMissingExchangeRate = fmt.Errorf("%w: no exchange rate", ErrConfiguration)
)

// ValidationError represents malformed construction input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ledger: invalid %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a construction-time validation failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsConflict reports whether err is a uniqueness conflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsNotFound reports whether err is an unknown id, code or year.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsState reports whether err is a rejected state transition or posting.
func IsState(err error) bool { return errors.Is(err, ErrState) }

// IsConfiguration reports whether err stems from the engine configuration.
func IsConfiguration(err error) bool { return errors.Is(err, ErrConfiguration) }
