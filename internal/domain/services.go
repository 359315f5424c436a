package domain

import (
	"context"
	"fmt"
	"time"
)

// Repositories groups the data access dependencies of BackOffice.
type Repositories struct {
	Customers    CustomerRepository
	AccountTypes AccountTypeRepository
	Accounts     AccountRepository
	Operations   OperationRepository
	Parameters   ParameterRepository
	ActivityLog  ActivityLogRepository
}

// InterestResult reports one interest run.
type InterestResult struct {
	Count int // Number of accounts that received interest
}

// Message returns the human-readable summary of the run.
func (r InterestResult) Message() string {
	if r.Count == 0 {
		return "No accounts to be recounted."
	}
	return fmt.Sprintf("Interest for %d account(s) has been recounted.", r.Count)
}

// BackOffice handles the business logic of the bank back office.
// Every ledger-mutating method runs inside a single transaction, so a balance change
// and its journal entry are committed or rolled back together.
type BackOffice struct {
	customers    CustomerRepository
	accountTypes AccountTypeRepository
	accounts     AccountRepository
	operations   OperationRepository
	parameters   ParameterRepository
	activityLog  ActivityLogRepository
	txManager    TransactionManager
	params       *ParameterStore
	// Optional event publisher to emit operation.posted events
	eventPublisher EventPublisher
	now            func() time.Time
}

// NewBackOffice creates a new instance of BackOffice.
// Pass nil for eventPublisher if no events should be emitted.
func NewBackOffice(repos Repositories, txManager TransactionManager, params *ParameterStore, eventPublisher EventPublisher) *BackOffice {
	return &BackOffice{
		customers:      repos.Customers,
		accountTypes:   repos.AccountTypes,
		accounts:       repos.Accounts,
		operations:     repos.Operations,
		parameters:     repos.Parameters,
		activityLog:    repos.ActivityLog,
		txManager:      txManager,
		params:         params,
		eventPublisher: eventPublisher,
		now:            time.Now,
	}
}

// CreateAccount opens an account for an existing customer and account type.
// Balance starts at zero and free balance equals the granted debit.
func (s *BackOffice) CreateAccount(ctx context.Context, in CreateAccountInput, employee string) (*Account, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ledger, err := OpenLedger(in.Debit)
	if err != nil {
		return nil, err
	}

	var account *Account
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		accountType, err := s.accountTypes.GetByID(txCtx, in.AccountTypeID)
		if err != nil {
			return fmt.Errorf("failed to get account type: %w", err)
		}
		if _, err := s.customers.GetByID(txCtx, in.CustomerID); err != nil {
			return fmt.Errorf("failed to get customer: %w", err)
		}

		percent := accountType.Percent
		if in.Percent != nil {
			percent = *in.Percent
		}

		account = &Account{
			Percent:         percent,
			AccountTypeID:   accountType.ID,
			CustomerID:      in.CustomerID,
			CreatedAt:       s.now(),
			CreatedEmployee: employee,
		}
		account.applyLedger(ledger)

		if err := s.accounts.Create(txCtx, account); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// UpdateAccount changes debit and/or rate; omitted fields keep their stored values.
// Free balance is recomputed from the current balance and the update is rejected
// if it would become negative.
func (s *BackOffice) UpdateAccount(ctx context.Context, id int64, in UpdateAccountInput) (*Account, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var account *Account
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		acc, err := s.accounts.Lock(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to lock account: %w", err)
		}

		debit := acc.Debit
		if in.Debit != nil {
			debit = *in.Debit
		}
		ledger, err := acc.Ledger().WithDebit(debit)
		if err != nil {
			return err
		}
		acc.applyLedger(ledger)
		if in.Percent != nil {
			acc.Percent = *in.Percent
		}

		if err := s.accounts.Update(txCtx, acc); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		account = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount returns a single account.
func (s *BackOffice) GetAccount(ctx context.Context, id int64) (*Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// ListAccounts returns one page of accounts and the total match count.
func (s *BackOffice) ListAccounts(ctx context.Context, filter AccountFilter) ([]*Account, int, error) {
	return s.accounts.List(ctx, filter)
}

// DeleteAccount removes an account that has no journal entries.
func (s *BackOffice) DeleteAccount(ctx context.Context, id int64) error {
	return s.accounts.Delete(ctx, id)
}

// GenerateIBAN assigns an IBAN to an account that has none. The boolean result is
// false when the account already had an IBAN; the existing one is never overwritten.
func (s *BackOffice) GenerateIBAN(ctx context.Context, id int64) (*Account, bool, error) {
	var (
		account   *Account
		generated bool
	)
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		acc, err := s.accounts.Lock(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to lock account: %w", err)
		}
		account = acc
		if acc.NumberIBAN != "" {
			return nil
		}

		param, err := s.params.Current()
		if err != nil {
			return err
		}

		accountType, err := s.accountTypes.GetByID(txCtx, acc.AccountTypeID)
		if err != nil {
			return fmt.Errorf("failed to get account type: %w", err)
		}

		iban, err := GenerateIBAN(param, accountType.Subaccount, acc.ID, acc.CustomerID)
		if err != nil {
			return err
		}
		acc.NumberIBAN = iban

		if err := s.accounts.Update(txCtx, acc); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		generated = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return account, generated, nil
}

// PostOperation posts a deposit or withdrawal.
//
// The operation is executed atomically within a database transaction:
// 1. Lock the account to serialize postings on it
// 2. Apply the signed value to the balance triad
// 3. Reject if free balance would become negative
// 4. Update the account
// 5. Append the journal entry
// 6. Commit transaction
//
// Returns the refreshed account.
func (s *BackOffice) PostOperation(ctx context.Context, accountID int64, in OperationInput, employee string) (*Account, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	signed := in.SignedValue()

	var (
		account   *Account
		operation *Operation
	)
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		acc, err := s.accounts.Lock(txCtx, accountID)
		if err != nil {
			return fmt.Errorf("failed to lock account: %w", err)
		}

		ledger, err := acc.Ledger().Post(signed)
		if err != nil {
			return err
		}
		acc.applyLedger(ledger)

		if err := s.accounts.Update(txCtx, acc); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}

		operation = NewOperation(acc.ID, in.Type, signed, ledger.Balance, employee, s.now())
		if err := s.operations.Create(txCtx, operation); err != nil {
			return fmt.Errorf("failed to create operation: %w", err)
		}

		account = acc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(operation)
	return account, nil
}

// ListOperations returns one page of an account's history, newest first.
func (s *BackOffice) ListOperations(ctx context.Context, accountID int64, filter OperationFilter) ([]*Operation, int, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, 0, fmt.Errorf("failed to get account: %w", err)
	}
	return s.operations.ListByAccount(ctx, accountID, filter)
}

// RunInterest accrues interest once on every account with positive balance and
// positive rate. The whole batch is one transaction: a failure on any account rolls
// back every account of the run. Accounts are locked in ascending id order.
func (s *BackOffice) RunInterest(ctx context.Context, employee string) (InterestResult, error) {
	var (
		result     InterestResult
		operations []*Operation
	)
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		accounts, err := s.accounts.LockEligibleForInterest(txCtx)
		if err != nil {
			return fmt.Errorf("failed to lock accounts: %w", err)
		}

		now := s.now()
		for _, acc := range accounts {
			interest := Interest(acc.Balance, acc.Percent)
			ledger, err := acc.Ledger().Post(interest)
			if err != nil {
				return fmt.Errorf("account %d: %w", acc.ID, err)
			}
			acc.applyLedger(ledger)

			if err := s.accounts.Update(txCtx, acc); err != nil {
				return fmt.Errorf("failed to update account %d: %w", acc.ID, err)
			}

			op := NewOperation(acc.ID, OperationInterest, interest, ledger.Balance, employee, now)
			if err := s.operations.Create(txCtx, op); err != nil {
				return fmt.Errorf("failed to create interest operation for account %d: %w", acc.ID, err)
			}
			operations = append(operations, op)
		}
		result.Count = len(accounts)
		return nil
	})
	if err != nil {
		return InterestResult{}, err
	}

	s.publish(operations...)
	return result, nil
}

// publish emits operation.posted events after commit, in the background. The
// publisher logs its own failures.
func (s *BackOffice) publish(operations ...*Operation) {
	if s.eventPublisher == nil || len(operations) == 0 {
		return
	}
	go func(ops []*Operation) {
		for _, op := range ops {
			_ = s.eventPublisher.PublishOperationPosted(context.Background(), op)
		}
	}(operations)
}
