package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error unwraps to exactly one of them, so callers can classify
// a failure with errors.Is without knowing the concrete message.
var (
	// ErrValidation marks malformed or constraint-violating input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a reference to a record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrReferenced marks a delete of a record that other records depend on.
	ErrReferenced = errors.New("record is referenced")

	// ErrConfiguration marks a missing deployment precondition.
	ErrConfiguration = errors.New("configuration missing")
)

// Error is a domain failure with a short message that is safe to show to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewValidationError creates a validation failure with a formatted message.
func NewValidationError(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

var (
	// ErrFreeBalanceOutOfLimit is returned when a write would leave free balance negative.
	ErrFreeBalanceOutOfLimit = &Error{Kind: ErrValidation, Message: "Free balance out of limit!"}

	// ErrIBANLength is returned when the generated IBAN would not be 28 characters long.
	ErrIBANLength = &Error{Kind: ErrValidation, Message: "IBAN number should have 28 characters!"}

	ErrNegativeDebit   = &Error{Kind: ErrValidation, Message: "Debit must be greater than or equal to 0."}
	ErrNegativePercent = &Error{Kind: ErrValidation, Message: "Percent must be greater than or equal to 0."}

	// ErrInvalidOperationType is returned for any type other than Deposit or Withdrawal.
	ErrInvalidOperationType = &Error{Kind: ErrValidation, Message: "Type operation must be 1 (Deposit) or 2 (Withdrawal)."}

	ErrInvalidOperationValue = &Error{Kind: ErrValidation, Message: "Value operation must be greater than 0."}

	// ErrAccountTypeCodeExists is returned when an account type code is already taken.
	ErrAccountTypeCodeExists = &Error{Kind: ErrValidation, Message: "Account type with this code already exists."}

	// ErrIBANExists is reported when an account already has an IBAN or another account holds it.
	ErrIBANExists = &Error{Kind: ErrValidation, Message: "IBAN number already exists."}

	// ErrBalanceOutOfLimit is returned when a balance no longer fits the money column.
	ErrBalanceOutOfLimit = &Error{Kind: ErrValidation, Message: "Balance out of limit."}

	// ErrRecordReferenced is returned when a delete is blocked by dependent records.
	ErrRecordReferenced = &Error{Kind: ErrReferenced, Message: "Deletion impossible. This record has referenced data!"}

	ErrAccountNotFound     = &Error{Kind: ErrNotFound, Message: "Account not found."}
	ErrCustomerNotFound    = &Error{Kind: ErrNotFound, Message: "Customer not found."}
	ErrAccountTypeNotFound = &Error{Kind: ErrNotFound, Message: "Account type not found."}
	ErrParameterNotFound   = &Error{Kind: ErrNotFound, Message: "Parameter not found."}

	// ErrParameterMissing is returned when IBAN generation runs without bank parameters.
	ErrParameterMissing = &Error{Kind: ErrConfiguration, Message: "Bank parameters are not configured."}
)
