package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

const accountTypeColumns = `id, code, description, subaccount, percent`

// AccountTypeRepository implements domain.AccountTypeRepository using PostgreSQL.
type AccountTypeRepository struct {
	pool *pgxpool.Pool
}

func NewAccountTypeRepository(pool *pgxpool.Pool) *AccountTypeRepository {
	return &AccountTypeRepository{pool: pool}
}

func scanAccountType(row pgx.Row) (*domain.AccountType, error) {
	var t domain.AccountType
	if err := row.Scan(&t.ID, &t.Code, &t.Description, &t.Subaccount, &t.Percent); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persists a new account type. Codes are unique.
func (r *AccountTypeRepository) Create(ctx context.Context, t *domain.AccountType) error {
	query := `
		INSERT INTO account_types (code, description, subaccount, percent)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := conn(ctx, r.pool).QueryRow(ctx, query, t.Code, t.Description, t.Subaccount, t.Percent).Scan(&t.ID)
	if err != nil {
		if pgErrorCode(err) == uniqueViolation {
			return domain.ErrAccountTypeCodeExists
		}
		return fmt.Errorf("failed to create account type: %w", err)
	}
	return nil
}

func (r *AccountTypeRepository) GetByID(ctx context.Context, id int64) (*domain.AccountType, error) {
	query := `SELECT ` + accountTypeColumns + ` FROM account_types WHERE id = $1`

	t, err := scanAccountType(conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountTypeNotFound
		}
		return nil, fmt.Errorf("failed to get account type: %w", err)
	}
	return t, nil
}

// List filters by code prefix and orders by code.
func (r *AccountTypeRepository) List(ctx context.Context, filter domain.AccountTypeFilter) ([]*domain.AccountType, int, error) {
	var c conditions
	if filter.Search != "" {
		c.add(`code ILIKE $%d::text || '%%'`, escapeLike(filter.Search))
	}

	order := ` ORDER BY code`
	if filter.Desc {
		order = ` ORDER BY code DESC`
	}

	q := conn(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM account_types`+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count account types: %w", err)
	}

	limit, args := c.page(filter.Page)
	rows, err := q.Query(ctx, `SELECT `+accountTypeColumns+` FROM account_types`+c.where()+order+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list account types: %w", err)
	}
	defer rows.Close()

	types := make([]*domain.AccountType, 0)
	for rows.Next() {
		t, err := scanAccountType(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan account type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list account types: %w", err)
	}
	return types, total, nil
}

// Update persists description, subaccount and rate. The code never changes.
func (r *AccountTypeRepository) Update(ctx context.Context, t *domain.AccountType) error {
	query := `
		UPDATE account_types
		SET description = $2, subaccount = $3, percent = $4
		WHERE id = $1
	`

	result, err := conn(ctx, r.pool).Exec(ctx, query, t.ID, t.Description, t.Subaccount, t.Percent)
	if err != nil {
		return fmt.Errorf("failed to update account type: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAccountTypeNotFound
	}
	return nil
}

func (r *AccountTypeRepository) Delete(ctx context.Context, id int64) error {
	result, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM account_types WHERE id = $1`, id)
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return domain.ErrRecordReferenced
		}
		return fmt.Errorf("failed to delete account type: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAccountTypeNotFound
	}
	return nil
}
