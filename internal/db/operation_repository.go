package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

const operationColumns = `id, account_id, type_operation, value_operation,
	balance_after_operation, operation_date, employee`

// OperationRepository implements domain.OperationRepository using PostgreSQL.
// Journal rows are only ever inserted.
type OperationRepository struct {
	pool *pgxpool.Pool
}

// NewOperationRepository creates a new OperationRepository.
func NewOperationRepository(pool *pgxpool.Pool) *OperationRepository {
	return &OperationRepository{
		pool: pool,
	}
}

func scanOperation(row pgx.Row) (*domain.Operation, error) {
	var (
		op     domain.Operation
		opType int16
	)
	err := row.Scan(
		&op.ID,
		&op.AccountID,
		&opType,
		&op.Value,
		&op.BalanceAfter,
		&op.CreatedAt,
		&op.Employee,
	)
	if err != nil {
		return nil, err
	}
	op.Type = domain.OperationType(opType)
	return &op, nil
}

// Create appends a journal entry and sets its ID.
func (r *OperationRepository) Create(ctx context.Context, op *domain.Operation) error {
	query := `
		INSERT INTO operations (
			account_id, type_operation, value_operation,
			balance_after_operation, operation_date, employee
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := conn(ctx, r.pool).QueryRow(ctx, query,
		op.AccountID,
		int16(op.Type),
		op.Value,
		op.BalanceAfter,
		op.CreatedAt,
		op.Employee,
	).Scan(&op.ID)
	if err != nil {
		switch pgErrorCode(err) {
		case foreignKeyViolation:
			return domain.ErrAccountNotFound
		case numericOutOfRange:
			return domain.ErrBalanceOutOfLimit
		}
		return fmt.Errorf("failed to create operation: %w", err)
	}
	return nil
}

// ListByAccount returns one page of the account's history, newest first.
func (r *OperationRepository) ListByAccount(ctx context.Context, accountID int64, filter domain.OperationFilter) ([]*domain.Operation, int, error) {
	var c conditions
	c.add(`account_id = $%d`, accountID)
	if filter.Type != nil {
		c.add(`type_operation = $%d`, int16(*filter.Type))
	}
	if filter.Value != nil {
		c.add(`value_operation = $%d`, *filter.Value)
	}
	if filter.Date != nil {
		c.add(`operation_date::date = $%d::date`, *filter.Date)
	}

	q := conn(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM operations`+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count operations: %w", err)
	}

	limit, args := c.page(filter.Page)
	rows, err := q.Query(ctx, `SELECT `+operationColumns+` FROM operations`+c.where()+` ORDER BY id DESC`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	operations := make([]*domain.Operation, 0)
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan operation: %w", err)
		}
		operations = append(operations, op)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list operations: %w", err)
	}
	return operations, total, nil
}
