package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Operation is one archived journal entry.
type Operation struct {
	OperationID   int64
	AccountID     int64
	TypeOperation uint8
	TypeName      string
	Value         decimal.Decimal
	BalanceAfter  decimal.Decimal
	Employee      string
	PostedAt      time.Time
	EventID       string
}

// OperationStore persists archived operations.
type OperationStore interface {
	InsertOperation(ctx context.Context, op *Operation) error
}

// OperationRepository handles archived operations in ClickHouse
type OperationRepository struct {
	db *ClickHouseClient
}

// NewOperationRepository creates a new operation repository
func NewOperationRepository(db *ClickHouseClient) *OperationRepository {
	return &OperationRepository{db: db}
}

// InsertOperation inserts an archived operation. Inserting the same operation twice is
// harmless; the table keeps one row per operation after merges.
func (r *OperationRepository) InsertOperation(ctx context.Context, op *Operation) error {
	query := `
		INSERT INTO operations (
			operation_id, account_id, type_operation, type_name,
			value, balance_after, employee, posted_at, event_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := r.db.Conn().Exec(ctx, query,
		op.OperationID,
		op.AccountID,
		op.TypeOperation,
		op.TypeName,
		op.Value,
		op.BalanceAfter,
		op.Employee,
		op.PostedAt,
		op.EventID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert operation %d: %w", op.OperationID, err)
	}
	return nil
}
