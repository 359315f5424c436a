package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

const dateLayout = "2006-01-02"

// CustomerRequest is the body of customer create and update.
type CustomerRequest struct {
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"required,max=100"`
	Street         string `json:"street" validate:"required,max=100"`
	House          string `json:"house" validate:"required,max=10"`
	Apartment      string `json:"apartment" validate:"max=10"`
	PostalCode     string `json:"postal_code" validate:"required"`
	City           string `json:"city" validate:"required,max=100"`
	Pesel          string `json:"pesel" validate:"required"`
	BirthDate      string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	BirthCity      string `json:"birth_city" validate:"required,max=100"`
	Identification string `json:"identification" validate:"required,max=9"`
	Avatar         string `json:"avatar" validate:"omitempty,max=255"`
}

func (r *CustomerRequest) toInput() domain.CustomerInput {
	// The datetime tag has already checked the layout
	birth, _ := time.Parse(dateLayout, r.BirthDate)
	return domain.CustomerInput{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Street:         r.Street,
		House:          r.House,
		Apartment:      r.Apartment,
		PostalCode:     r.PostalCode,
		City:           r.City,
		Pesel:          r.Pesel,
		BirthDate:      birth,
		BirthCity:      r.BirthCity,
		Identification: r.Identification,
		Avatar:         r.Avatar,
	}
}

type CustomerResponse struct {
	ID              int64  `json:"id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Street          string `json:"street"`
	House           string `json:"house"`
	Apartment       string `json:"apartment"`
	PostalCode      string `json:"postal_code"`
	City            string `json:"city"`
	Pesel           string `json:"pesel"`
	BirthDate       string `json:"birth_date"`
	BirthCity       string `json:"birth_city"`
	Identification  string `json:"identification"`
	Avatar          string `json:"avatar"`
	CreatedDate     string `json:"created_date"`
	CreatedEmployee string `json:"created_employee"`
}

func newCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Street:          c.Street,
		House:           c.House,
		Apartment:       c.Apartment,
		PostalCode:      c.PostalCode,
		City:            c.City,
		Pesel:           c.Pesel,
		BirthDate:       c.BirthDate.Format(dateLayout),
		BirthCity:       c.BirthCity,
		Identification:  c.Identification,
		Avatar:          c.Avatar,
		CreatedDate:     c.CreatedAt.UTC().Format(time.RFC3339),
		CreatedEmployee: c.CreatedEmployee,
	}
}

// AccountTypeRequest is the body of account type create. Code is ignored on update.
type AccountTypeRequest struct {
	Code        string          `json:"code"`
	Description string          `json:"description" validate:"required,max=100"`
	Subaccount  string          `json:"subaccount" validate:"required"`
	Percent     decimal.Decimal `json:"percent"`
}

type AccountTypeResponse struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Subaccount  string `json:"subaccount"`
	Percent     string `json:"percent"`
}

func newAccountTypeResponse(t *domain.AccountType) AccountTypeResponse {
	return AccountTypeResponse{
		ID:          t.ID,
		Code:        t.Code,
		Description: t.Description,
		Subaccount:  t.Subaccount,
		Percent:     t.Percent.StringFixed(2),
	}
}

// CreateAccountRequest is the body of account create. Balance and free balance are
// derived and cannot be supplied.
type CreateAccountRequest struct {
	Debit         decimal.Decimal  `json:"debit"`
	Percent       *decimal.Decimal `json:"percent"`
	AccountTypeID int64            `json:"account_type" validate:"required,gt=0"`
	CustomerID    int64            `json:"customer" validate:"required,gt=0"`
}

// UpdateAccountRequest is the body of account update.
// Omitted fields keep their stored values.
type UpdateAccountRequest struct {
	Debit   *decimal.Decimal `json:"debit,omitempty"`
	Percent *decimal.Decimal `json:"percent,omitempty"`
}

type AccountResponse struct {
	ID              int64  `json:"id"`
	NumberIBAN      string `json:"number_iban"`
	Balance         string `json:"balance"`
	Debit           string `json:"debit"`
	FreeBalance     string `json:"free_balance"`
	Percent         string `json:"percent"`
	AccountType     int64  `json:"account_type"`
	Customer        int64  `json:"customer"`
	CreatedDate     string `json:"created_date"`
	CreatedEmployee string `json:"created_employee"`
}

func newAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:              a.ID,
		NumberIBAN:      a.NumberIBAN,
		Balance:         a.Balance.StringFixed(2),
		Debit:           a.Debit.StringFixed(2),
		FreeBalance:     a.FreeBalance.StringFixed(2),
		Percent:         a.Percent.StringFixed(2),
		AccountType:     a.AccountTypeID,
		Customer:        a.CustomerID,
		CreatedDate:     a.CreatedAt.UTC().Format(time.RFC3339),
		CreatedEmployee: a.CreatedEmployee,
	}
}

// OperationRequest is the body of a new deposit or withdrawal.
type OperationRequest struct {
	TypeOperation  int             `json:"type_operation" validate:"required"`
	ValueOperation decimal.Decimal `json:"value_operation"`
}

type OperationResponse struct {
	ID                    int64  `json:"id"`
	Account               int64  `json:"account"`
	TypeOperation         int    `json:"type_operation"`
	TypeName              string `json:"type_name"`
	ValueOperation        string `json:"value_operation"`
	BalanceAfterOperation string `json:"balance_after_operation"`
	OperationDate         string `json:"operation_date"`
	Employee              string `json:"employee"`
}

func newOperationResponse(op *domain.Operation) OperationResponse {
	return OperationResponse{
		ID:                    op.ID,
		Account:               op.AccountID,
		TypeOperation:         int(op.Type),
		TypeName:              op.Type.String(),
		ValueOperation:        op.Value.StringFixed(2),
		BalanceAfterOperation: op.BalanceAfter.StringFixed(2),
		OperationDate:         op.CreatedAt.UTC().Format(time.RFC3339),
		Employee:              op.Employee,
	}
}

// InterestResponse reports an interest run.
type InterestResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type ParameterRequest struct {
	CountryCode string `json:"country_code" validate:"required"`
	BankNumber  string `json:"bank_number" validate:"required"`
}

type ParameterResponse struct {
	ID          int64  `json:"id"`
	CountryCode string `json:"country_code"`
	BankNumber  string `json:"bank_number"`
}

func newParameterResponse(p *domain.Parameter) ParameterResponse {
	return ParameterResponse{ID: p.ID, CountryCode: p.CountryCode, BankNumber: p.BankNumber}
}

type LogEntryResponse struct {
	ID       int64   `json:"id"`
	Action   string  `json:"action"`
	Function string  `json:"function"`
	Duration float64 `json:"duration"`
	Data     string  `json:"data"`
	User     string  `json:"user_log"`
	Status   string  `json:"status_log"`
	Date     string  `json:"date_log"`
}

func newLogEntryResponse(e *domain.LogEntry) LogEntryResponse {
	return LogEntryResponse{
		ID:       e.ID,
		Action:   e.Action,
		Function: e.Function,
		Duration: e.Duration,
		Data:     e.Data,
		User:     e.User,
		Status:   string(e.Status),
		Date:     e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
