package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a bank client. A customer owns zero or more accounts and cannot be
// removed while any account still references it.
type Customer struct {
	ID              int64     // Database identifier, embedded in generated IBANs
	FirstName       string    // Given name
	LastName        string    // Family name
	Street          string    // Street of the postal address
	House           string    // House number
	Apartment       string    // Apartment number (optional)
	PostalCode      string    // Postal code in NN-NNN form
	City            string    // City of the postal address
	Pesel           string    // 11-digit national identification number
	BirthDate       time.Time // Date of birth (date only)
	BirthCity       string    // City of birth
	Identification  string    // Identity document number, stored upper-cased
	Avatar          string    // Reference to an avatar image (optional)
	CreatedAt       time.Time // Timestamp when the customer was registered
	CreatedEmployee string    // Employee who registered the customer
}

// AccountType is a product template shared by many accounts.
type AccountType struct {
	ID          int64           // Database identifier
	Code        string          // Unique code in L-NN form, stored upper-cased
	Description string          // Human-readable product name
	Subaccount  string          // 6-digit routing segment embedded in IBANs
	Percent     decimal.Decimal // Default interest rate for new accounts, in percent
}

// Account is the ledger entity. FreeBalance always equals Balance + Debit and is
// never negative after a posted operation.
type Account struct {
	ID              int64           // Database identifier, embedded in the IBAN
	NumberIBAN      string          // 28-character IBAN, empty until generated
	Balance         decimal.Decimal // Current ledger balance (may be negative within Debit)
	Debit           decimal.Decimal // Authorized overdraft amount, never negative
	FreeBalance     decimal.Decimal // Spendable ceiling: Balance + Debit
	Percent         decimal.Decimal // Interest rate in percent (1.25 means 1.25%)
	AccountTypeID   int64           // Product template of the account
	CustomerID      int64           // Owner of the account
	CreatedAt       time.Time       // Timestamp when the account was opened
	CreatedEmployee string          // Employee who opened the account
}

// OperationType identifies the kind of a journal entry.
type OperationType int

const (
	// OperationDeposit credits the account.
	OperationDeposit OperationType = 1

	// OperationWithdrawal debits the account; its value is stored negative.
	OperationWithdrawal OperationType = 2

	// OperationInterest is posted only by the interest run.
	OperationInterest OperationType = 3
)

// String returns the display name of the operation type.
func (t OperationType) String() string {
	switch t {
	case OperationDeposit:
		return "Deposit"
	case OperationWithdrawal:
		return "Withdrawal"
	case OperationInterest:
		return "Interest"
	default:
		return "Unknown"
	}
}

// Operation is an immutable journal entry describing one posted monetary movement.
type Operation struct {
	ID           int64           // Database identifier
	AccountID    int64           // Account the movement was posted to
	Type         OperationType   // Deposit, Withdrawal or Interest
	Value        decimal.Decimal // Signed value (withdrawals are negative)
	BalanceAfter decimal.Decimal // Account balance right after the movement
	CreatedAt    time.Time       // Timestamp when the movement was posted
	Employee     string          // Employee (or system actor) who posted it
}

// Parameter holds institution-wide constants used by IBAN generation.
type Parameter struct {
	ID          int64  // Database identifier
	CountryCode string // 2-letter country code, stored upper-cased
	BankNumber  string // 8-digit bank number
}

// LogStatus is the outcome recorded for a monitored call.
type LogStatus string

const (
	LogStatusSuccess LogStatus = "Success"
	LogStatusFailed  LogStatus = "Failed"
)

// LogEntry is one record of the activity log written for every monitored call.
type LogEntry struct {
	ID        int64
	Action    string    // Action name, e.g. "New operation"
	Function  string    // Handler that served the call
	Duration  float64   // Duration in seconds
	Data      string    // Request payload, truncated
	User      string    // Acting user
	Status    LogStatus // Success or Failed
	CreatedAt time.Time
}

// NewOperation creates a journal entry for a movement posted now.
func NewOperation(accountID int64, opType OperationType, value, balanceAfter decimal.Decimal, employee string, now time.Time) *Operation {
	return &Operation{
		AccountID:    accountID,
		Type:         opType,
		Value:        value,
		BalanceAfter: balanceAfter,
		CreatedAt:    now,
		Employee:     employee,
	}
}

// Ledger returns the balance triad of the account.
func (a *Account) Ledger() Ledger {
	return Ledger{
		Balance:     a.Balance,
		Debit:       a.Debit,
		FreeBalance: a.FreeBalance,
	}
}

// applyLedger copies a validated triad onto the account.
func (a *Account) applyLedger(l Ledger) {
	a.Balance = l.Balance
	a.Debit = l.Debit
	a.FreeBalance = l.FreeBalance
}
