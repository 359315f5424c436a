package domain

import (
	"context"
	"fmt"
)

// CreateCustomer registers a new customer.
func (s *BackOffice) CreateCustomer(ctx context.Context, in CustomerInput, employee string) (*Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	customer := &Customer{CreatedAt: s.now(), CreatedEmployee: employee}
	in.applyTo(customer)

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

// UpdateCustomer replaces the writable fields of a customer.
func (s *BackOffice) UpdateCustomer(ctx context.Context, id int64, in CustomerInput) (*Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	in.applyTo(customer)

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *BackOffice) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

func (s *BackOffice) ListCustomers(ctx context.Context, filter CustomerFilter) ([]*Customer, int, error) {
	return s.customers.List(ctx, filter)
}

// DeleteCustomer removes a customer that owns no accounts.
func (s *BackOffice) DeleteCustomer(ctx context.Context, id int64) error {
	return s.customers.Delete(ctx, id)
}

func (in *CustomerInput) applyTo(c *Customer) {
	c.FirstName = in.FirstName
	c.LastName = in.LastName
	c.Street = in.Street
	c.House = in.House
	c.Apartment = in.Apartment
	c.PostalCode = in.PostalCode
	c.City = in.City
	c.Pesel = in.Pesel
	c.BirthDate = in.BirthDate
	c.BirthCity = in.BirthCity
	c.Identification = in.Identification
	c.Avatar = in.Avatar
}

// CreateAccountType registers a new product template.
func (s *BackOffice) CreateAccountType(ctx context.Context, in AccountTypeInput) (*AccountType, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	accountType := &AccountType{
		Code:        in.Code,
		Description: in.Description,
		Subaccount:  in.Subaccount,
		Percent:     in.Percent,
	}
	if err := s.accountTypes.Create(ctx, accountType); err != nil {
		return nil, fmt.Errorf("failed to create account type: %w", err)
	}
	return accountType, nil
}

// UpdateAccountType changes description, subaccount and default rate. Existing
// accounts keep their own rate.
func (s *BackOffice) UpdateAccountType(ctx context.Context, id int64, in AccountTypeUpdate) (*AccountType, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	accountType, err := s.accountTypes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account type: %w", err)
	}
	accountType.Description = in.Description
	accountType.Subaccount = in.Subaccount
	accountType.Percent = in.Percent

	if err := s.accountTypes.Update(ctx, accountType); err != nil {
		return nil, fmt.Errorf("failed to update account type: %w", err)
	}
	return accountType, nil
}

func (s *BackOffice) GetAccountType(ctx context.Context, id int64) (*AccountType, error) {
	accountType, err := s.accountTypes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account type: %w", err)
	}
	return accountType, nil
}

func (s *BackOffice) ListAccountTypes(ctx context.Context, filter AccountTypeFilter) ([]*AccountType, int, error) {
	return s.accountTypes.List(ctx, filter)
}

// DeleteAccountType removes a template that no account uses.
func (s *BackOffice) DeleteAccountType(ctx context.Context, id int64) error {
	return s.accountTypes.Delete(ctx, id)
}

// ListParameters returns every parameter row.
func (s *BackOffice) ListParameters(ctx context.Context) ([]*Parameter, error) {
	return s.parameters.List(ctx)
}

func (s *BackOffice) GetParameter(ctx context.Context, id int64) (*Parameter, error) {
	param, err := s.parameters.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get parameter: %w", err)
	}
	return param, nil
}

// UpdateParameter changes the bank parameters. Later IBAN generations use the new
// values; IBANs already assigned are not rewritten.
func (s *BackOffice) UpdateParameter(ctx context.Context, id int64, in ParameterInput) (*Parameter, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	param, err := s.parameters.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get parameter: %w", err)
	}
	param.CountryCode = in.CountryCode
	param.BankNumber = in.BankNumber

	if err := s.parameters.Update(ctx, param); err != nil {
		return nil, fmt.Errorf("failed to update parameter: %w", err)
	}
	s.params.refresh(*param)
	return param, nil
}

// EnsureParameter loads the first parameter row into the store, creating it from
// defaults when the table is empty.
func (s *BackOffice) EnsureParameter(ctx context.Context, defaults ParameterInput) (*Parameter, error) {
	param, err := s.parameters.First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load parameters: %w", err)
	}
	if param == nil {
		if err := defaults.Validate(); err != nil {
			return nil, err
		}
		param = &Parameter{CountryCode: defaults.CountryCode, BankNumber: defaults.BankNumber}
		if err := s.parameters.Create(ctx, param); err != nil {
			return nil, fmt.Errorf("failed to create parameters: %w", err)
		}
	}
	s.params.Set(*param)
	return param, nil
}

// RecordActivity appends an entry to the activity log.
func (s *BackOffice) RecordActivity(ctx context.Context, entry *LogEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	return s.activityLog.Create(ctx, entry)
}

func (s *BackOffice) ListActivity(ctx context.Context, filter LogFilter) ([]*LogEntry, int, error) {
	return s.activityLog.List(ctx, filter)
}
