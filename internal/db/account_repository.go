package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

const accountColumns = `id, number_iban, balance, debit, free_balance, percent,
	account_type_id, customer_id, created_at, created_employee`

// AccountRepository implements domain.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		pool: pool,
	}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account domain.Account
		iban    *string
	)
	err := row.Scan(
		&account.ID,
		&iban,
		&account.Balance,
		&account.Debit,
		&account.FreeBalance,
		&account.Percent,
		&account.AccountTypeID,
		&account.CustomerID,
		&account.CreatedAt,
		&account.CreatedEmployee,
	)
	if err != nil {
		return nil, err
	}
	if iban != nil {
		account.NumberIBAN = *iban
	}
	return &account, nil
}

// Create persists a new account and sets its ID.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (
			number_iban, balance, debit, free_balance, percent,
			account_type_id, customer_id, created_at, created_employee
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := conn(ctx, r.pool).QueryRow(ctx, query,
		nullIfEmpty(account.NumberIBAN),
		account.Balance,
		account.Debit,
		account.FreeBalance,
		account.Percent,
		account.AccountTypeID,
		account.CustomerID,
		account.CreatedAt,
		account.CreatedEmployee,
	).Scan(&account.ID)
	if err != nil {
		return r.mapWriteError(err, "failed to create account")
	}
	return nil
}

// GetByID retrieves an account by its identifier.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// Lock acquires a pessimistic lock on the account for the duration of the transaction.
// This method MUST be called within a transaction context.
// Uses SELECT ... FOR UPDATE to lock the row.
func (r *AccountRepository) Lock(ctx context.Context, id int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	account, err := scanAccount(conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	return account, nil
}

// LockEligibleForInterest locks all accounts with positive balance and positive rate.
// Rows are locked in ascending id order.
// This method MUST be called within a transaction context.
func (r *AccountRepository) LockEligibleForInterest(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE balance > 0 AND percent > 0
		ORDER BY id
		FOR UPDATE`

	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	return accounts, nil
}

// List returns one page of accounts ordered by id, and the total match count.
func (r *AccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, int, error) {
	var c conditions
	if filter.NumberIBAN != "" {
		c.add(`number_iban ILIKE '%%' || $%d::text || '%%'`, escapeLike(filter.NumberIBAN))
	}

	q := conn(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	limit, args := c.page(filter.Page)
	rows, err := q.Query(ctx, `SELECT `+accountColumns+` FROM accounts`+c.where()+` ORDER BY id`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, total, nil
}

// Update persists the IBAN, balance triad and rate of an existing account.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET number_iban = $2,
		    balance = $3,
		    debit = $4,
		    free_balance = $5,
		    percent = $6
		WHERE id = $1
	`

	result, err := conn(ctx, r.pool).Exec(ctx, query,
		account.ID,
		nullIfEmpty(account.NumberIBAN),
		account.Balance,
		account.Debit,
		account.FreeBalance,
		account.Percent,
	)
	if err != nil {
		return r.mapWriteError(err, "failed to update account")
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// Delete removes an account. Accounts with journal entries cannot be deleted.
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	result, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return domain.ErrRecordReferenced
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) mapWriteError(err error, msg string) error {
	switch pgErrorCode(err) {
	case uniqueViolation:
		return domain.ErrIBANExists
	case checkViolation:
		return domain.ErrFreeBalanceOutOfLimit
	case numericOutOfRange:
		return domain.ErrBalanceOutOfLimit
	case foreignKeyViolation:
		return domain.NewValidationError("Customer or account type does not exist.")
	}
	return fmt.Errorf("%s: %w", msg, err)
}
