package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Page limits a list query.
type Page struct {
	Limit  int
	Offset int
}

// CustomerFilter narrows a customer listing.
type CustomerFilter struct {
	Search   string // Prefix of PESEL or identification
	LastName string // Case-insensitive substring of the last name
	Desc     bool   // Order by last name descending
	Page     Page
}

// AccountTypeFilter narrows an account type listing.
type AccountTypeFilter struct {
	Search string // Case-insensitive prefix of the code
	Desc   bool   // Order by code descending
	Page   Page
}

// AccountFilter narrows an account listing.
type AccountFilter struct {
	NumberIBAN string // Substring of the IBAN
	Page       Page
}

// OperationFilter narrows an account's operation history.
type OperationFilter struct {
	Type  *OperationType
	Value *decimal.Decimal
	Date  *time.Time // Calendar day of the operation
	Page  Page
}

// LogFilter narrows the activity log.
type LogFilter struct {
	Date   *time.Time // Calendar day of the entry
	User   string     // Case-insensitive substring of the user
	Status string     // Case-insensitive prefix of the status
	Page   Page
}

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	// Create persists a new customer and sets its ID.
	Create(ctx context.Context, customer *Customer) error

	// GetByID returns ErrCustomerNotFound if the customer doesn't exist.
	GetByID(ctx context.Context, id int64) (*Customer, error)

	// List returns one page of matching customers and the total match count.
	List(ctx context.Context, filter CustomerFilter) ([]*Customer, int, error)

	Update(ctx context.Context, customer *Customer) error

	// Delete returns ErrRecordReferenced while any account references the customer.
	Delete(ctx context.Context, id int64) error
}

// AccountTypeRepository defines data access for account types.
type AccountTypeRepository interface {
	// Create returns ErrAccountTypeCodeExists for a duplicate code.
	Create(ctx context.Context, accountType *AccountType) error
	GetByID(ctx context.Context, id int64) (*AccountType, error)
	List(ctx context.Context, filter AccountTypeFilter) ([]*AccountType, int, error)
	Update(ctx context.Context, accountType *AccountType) error

	// Delete returns ErrRecordReferenced while any account references the type.
	Delete(ctx context.Context, id int64) error
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error

	// GetByID returns ErrAccountNotFound if the account doesn't exist.
	GetByID(ctx context.Context, id int64) (*Account, error)

	// Lock reads the account and holds a row lock until the transaction ends.
	// Must be called within a transaction context.
	Lock(ctx context.Context, id int64) (*Account, error)

	// LockEligibleForInterest locks every account with positive balance and positive
	// rate, in ascending id order. Must be called within a transaction context.
	LockEligibleForInterest(ctx context.Context) ([]*Account, error)

	List(ctx context.Context, filter AccountFilter) ([]*Account, int, error)

	// Update persists the IBAN, balance triad and rate of the account.
	Update(ctx context.Context, account *Account) error

	// Delete returns ErrRecordReferenced while any operation references the account.
	Delete(ctx context.Context, id int64) error
}

// OperationRepository defines data access for the append-only operation journal.
type OperationRepository interface {
	// Create appends a journal entry and sets its ID.
	Create(ctx context.Context, operation *Operation) error

	// ListByAccount returns one page of the account's history, newest first.
	ListByAccount(ctx context.Context, accountID int64, filter OperationFilter) ([]*Operation, int, error)
}

// ParameterRepository defines data access for bank parameters.
type ParameterRepository interface {
	// First returns the oldest parameter row, or nil if there is none.
	First(ctx context.Context) (*Parameter, error)
	Create(ctx context.Context, param *Parameter) error
	GetByID(ctx context.Context, id int64) (*Parameter, error)
	List(ctx context.Context) ([]*Parameter, error)
	Update(ctx context.Context, param *Parameter) error
}

// ActivityLogRepository defines data access for the activity log.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *LogEntry) error
	List(ctx context.Context, filter LogFilter) ([]*LogEntry, int, error)
}

// TransactionManager defines the interface for managing database transactions.
// This abstraction allows the service layer to work with transactions
// without being coupled to a specific database implementation.
type TransactionManager interface {
	// WithTransaction executes the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// Otherwise, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher publishes domain events to external systems (e.g. RabbitMQ).
type EventPublisher interface {
	PublishOperationPosted(ctx context.Context, operation *Operation) error
}
