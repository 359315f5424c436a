package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	postalCodePattern      = regexp.MustCompile(`^[0-9]{2}-[0-9]{3}$`)
	peselPattern           = regexp.MustCompile(`^[0-9]{11}$`)
	accountTypeCodePattern = regexp.MustCompile(`^[a-zA-Z]-[0-9]{2}$`)
	subaccountPattern      = regexp.MustCompile(`^[0-9]{6}$`)
	countryCodePattern     = regexp.MustCompile(`^[a-zA-Z]{2}$`)
	bankNumberPattern      = regexp.MustCompile(`^[0-9]{8}$`)

	// Money columns are NUMERIC(12,2), rates NUMERIC(4,2).
	moneyLimit   = decimal.New(1, 10)
	percentLimit = decimal.NewFromInt(100)
)

// CustomerInput carries the writable customer fields.
type CustomerInput struct {
	FirstName      string
	LastName       string
	Street         string
	House          string
	Apartment      string
	PostalCode     string
	City           string
	Pesel          string
	BirthDate      time.Time
	BirthCity      string
	Identification string
	Avatar         string
}

// Validate checks field formats and upper-cases the identification code.
func (in *CustomerInput) Validate() error {
	required := []struct {
		name  string
		value string
		max   int
	}{
		{"First name", in.FirstName, 100},
		{"Last name", in.LastName, 100},
		{"Street", in.Street, 100},
		{"House", in.House, 10},
		{"City", in.City, 100},
		{"Birth city", in.BirthCity, 100},
		{"Identification", in.Identification, 9},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return NewValidationError("%s is required.", f.name)
		}
		if utf8.RuneCountInString(f.value) > f.max {
			return NewValidationError("%s must have at most %d characters.", f.name, f.max)
		}
	}
	if utf8.RuneCountInString(in.Apartment) > 10 {
		return NewValidationError("Apartment must have at most 10 characters.")
	}
	if !postalCodePattern.MatchString(in.PostalCode) {
		return NewValidationError("Postal code must match NN-NNN.")
	}
	if !peselPattern.MatchString(in.Pesel) {
		return NewValidationError("PESEL must have 11 digits.")
	}
	if in.BirthDate.IsZero() {
		return NewValidationError("Birth date is required.")
	}
	in.Identification = strings.ToUpper(in.Identification)
	return nil
}

// AccountTypeInput carries the fields of a new account type.
type AccountTypeInput struct {
	Code        string
	Description string
	Subaccount  string
	Percent     decimal.Decimal
}

// Validate checks field formats and upper-cases the code.
func (in *AccountTypeInput) Validate() error {
	if !accountTypeCodePattern.MatchString(in.Code) {
		return NewValidationError("Code must match L-NN, e.g. S-01.")
	}
	update := AccountTypeUpdate{Description: in.Description, Subaccount: in.Subaccount, Percent: in.Percent}
	if err := update.Validate(); err != nil {
		return err
	}
	in.Code = strings.ToUpper(in.Code)
	return nil
}

// AccountTypeUpdate carries the fields that may change on an existing account type.
// The code is immutable once created.
type AccountTypeUpdate struct {
	Description string
	Subaccount  string
	Percent     decimal.Decimal
}

// Validate checks field formats.
func (in *AccountTypeUpdate) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return NewValidationError("Description is required.")
	}
	if utf8.RuneCountInString(in.Description) > 100 {
		return NewValidationError("Description must have at most 100 characters.")
	}
	if !subaccountPattern.MatchString(in.Subaccount) {
		return NewValidationError("Subaccount must have 6 digits.")
	}
	return validatePercent(in.Percent)
}

// CreateAccountInput carries the fields of a new account. A nil Percent takes the
// account type's default rate.
type CreateAccountInput struct {
	Debit         decimal.Decimal
	Percent       *decimal.Decimal
	AccountTypeID int64
	CustomerID    int64
}

// Validate checks amounts and references.
func (in *CreateAccountInput) Validate() error {
	if in.AccountTypeID <= 0 {
		return NewValidationError("Account type is required.")
	}
	if in.CustomerID <= 0 {
		return NewValidationError("Customer is required.")
	}
	if err := validateMoney("Debit", in.Debit); err != nil {
		return err
	}
	if in.Percent != nil {
		return validatePercent(*in.Percent)
	}
	return nil
}

// UpdateAccountInput carries the fields that may change on an existing account.
// Balance is not writable through this path. A nil field keeps its stored value.
type UpdateAccountInput struct {
	Debit   *decimal.Decimal
	Percent *decimal.Decimal
}

// Validate checks the amounts that are set.
func (in *UpdateAccountInput) Validate() error {
	if in.Debit != nil {
		if err := validateMoney("Debit", *in.Debit); err != nil {
			return err
		}
	}
	if in.Percent != nil {
		return validatePercent(*in.Percent)
	}
	return nil
}

// OperationInput is a caller-requested movement. Value is always positive; the sign
// is derived from Type.
type OperationInput struct {
	Type  OperationType
	Value decimal.Decimal
}

// Validate accepts only deposits and withdrawals of a positive value.
func (in *OperationInput) Validate() error {
	if in.Type != OperationDeposit && in.Type != OperationWithdrawal {
		return ErrInvalidOperationType
	}
	if !in.Value.IsPositive() {
		return ErrInvalidOperationValue
	}
	return validateMoney("Value operation", in.Value)
}

// SignedValue returns the value with the sign of the operation type.
func (in *OperationInput) SignedValue() decimal.Decimal {
	if in.Type == OperationWithdrawal {
		return in.Value.Neg()
	}
	return in.Value
}

// ParameterInput carries the writable bank parameters.
type ParameterInput struct {
	CountryCode string
	BankNumber  string
}

// Validate checks formats and upper-cases the country code.
func (in *ParameterInput) Validate() error {
	if !countryCodePattern.MatchString(in.CountryCode) {
		return NewValidationError("Country code must have 2 letters.")
	}
	if !bankNumberPattern.MatchString(in.BankNumber) {
		return NewValidationError("Bank number must have 8 digits.")
	}
	in.CountryCode = strings.ToUpper(in.CountryCode)
	return nil
}

// validateMoney checks that a value is non-negative, has at most 2 decimal places
// and fits the money column.
func validateMoney(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		if field == "Debit" {
			return ErrNegativeDebit
		}
		return NewValidationError("%s must be greater than or equal to 0.", field)
	}
	if !v.Equal(v.Truncate(2)) {
		return NewValidationError("%s must have at most 2 decimal places.", field)
	}
	if v.GreaterThanOrEqual(moneyLimit) {
		return NewValidationError("%s is too large.", field)
	}
	return nil
}

func validatePercent(v decimal.Decimal) error {
	if v.IsNegative() {
		return ErrNegativePercent
	}
	if !v.Equal(v.Truncate(2)) {
		return NewValidationError("Percent must have at most 2 decimal places.")
	}
	if v.GreaterThanOrEqual(percentLimit) {
		return NewValidationError("Percent must be lower than 100.")
	}
	return nil
}
