package invoice

import (
	"errors"
	"fmt"
)

// Common invoice errors
var (
	// ErrInvoiceNotFound is returned when an invoice id is not in the store.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrItemNotFound is returned when a line item id is not on the invoice.
	ErrItemNotFound = errors.New("invoice item not found")

	// ErrUnknownField is returned when an edit names a field that cannot be
	// set directly. Derived fields (amount, totalAmount) are never settable.
	ErrUnknownField = errors.New("unknown or read-only field")

	// ErrInvalidStatus is returned for a status label outside the known four.
	ErrInvalidStatus = errors.New("invalid invoice status")

	// ErrInvalidDate is returned when a date field cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
)

// OperationError wraps errors with the invoice operation that failed.
type OperationError struct {
	// Op is the operation that failed (e.g., "Save", "Delete").
	Op string

	// InvoiceID is the invoice the operation targeted, if any.
	InvoiceID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	if e.InvoiceID != "" {
		return fmt.Sprintf("invoice: %s %s failed: %v", e.Op, e.InvoiceID, e.Err)
	}
	return fmt.Sprintf("invoice: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, invoiceID string, err error) *OperationError {
	return &OperationError{Op: op, InvoiceID: invoiceID, Err: err}
}

// ValidationError represents a rejected user-supplied value.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap exposes the sentinel the validation failure corresponds to, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
