package httpapi

import (
	"context"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

// BackOffice is the set of back-office commands and queries served over HTTP.
// It is satisfied by *domain.BackOffice.
type BackOffice interface {
	ActivityRecorder

	CreateCustomer(ctx context.Context, in domain.CustomerInput, employee string) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, in domain.CustomerInput) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]*domain.Customer, int, error)
	DeleteCustomer(ctx context.Context, id int64) error

	CreateAccountType(ctx context.Context, in domain.AccountTypeInput) (*domain.AccountType, error)
	UpdateAccountType(ctx context.Context, id int64, in domain.AccountTypeUpdate) (*domain.AccountType, error)
	GetAccountType(ctx context.Context, id int64) (*domain.AccountType, error)
	ListAccountTypes(ctx context.Context, filter domain.AccountTypeFilter) ([]*domain.AccountType, int, error)
	DeleteAccountType(ctx context.Context, id int64) error

	CreateAccount(ctx context.Context, in domain.CreateAccountInput, employee string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, id int64, in domain.UpdateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, int, error)
	DeleteAccount(ctx context.Context, id int64) error
	GenerateIBAN(ctx context.Context, id int64) (*domain.Account, bool, error)

	PostOperation(ctx context.Context, accountID int64, in domain.OperationInput, employee string) (*domain.Account, error)
	ListOperations(ctx context.Context, accountID int64, filter domain.OperationFilter) ([]*domain.Operation, int, error)
	RunInterest(ctx context.Context, employee string) (domain.InterestResult, error)

	ListParameters(ctx context.Context) ([]*domain.Parameter, error)
	GetParameter(ctx context.Context, id int64) (*domain.Parameter, error)
	UpdateParameter(ctx context.Context, id int64, in domain.ParameterInput) (*domain.Parameter, error)

	ListActivity(ctx context.Context, filter domain.LogFilter) ([]*domain.LogEntry, int, error)
}
