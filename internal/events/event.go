package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

// EventTypeOperationPosted is the eventType of OperationPostedEvent.
const EventTypeOperationPosted = "operation.posted"

// OperationPostedEvent is the payload published after a journal entry is committed.
type OperationPostedEvent struct {
	EventID        string `json:"eventId"`
	EventType      string `json:"eventType"`
	EventTimestamp string `json:"eventTimestamp"`
	OperationID    int64  `json:"operationId"`
	AccountID      int64  `json:"accountId"`
	TypeOperation  int    `json:"typeOperation"` // 1 Deposit, 2 Withdrawal, 3 Interest
	TypeName       string `json:"typeName"`
	Value          string `json:"value"` // Signed decimal with 2 places, e.g. "-50.00"
	BalanceAfter   string `json:"balanceAfter"`
	Employee       string `json:"employee"`
	Timestamp      string `json:"timestamp"` // RFC 3339 posting time
}

// NewOperationPostedEvent builds the event for a committed operation.
func NewOperationPostedEvent(op *domain.Operation, now time.Time) OperationPostedEvent {
	return OperationPostedEvent{
		EventID:        uuid.NewString(),
		EventType:      EventTypeOperationPosted,
		EventTimestamp: now.UTC().Format(time.RFC3339),
		OperationID:    op.ID,
		AccountID:      op.AccountID,
		TypeOperation:  int(op.Type),
		TypeName:       op.Type.String(),
		Value:          op.Value.StringFixed(2),
		BalanceAfter:   op.BalanceAfter.StringFixed(2),
		Employee:       op.Employee,
		Timestamp:      op.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Validate checks the fields consumers rely on.
func (e *OperationPostedEvent) Validate() error {
	if e.EventType != EventTypeOperationPosted {
		return fmt.Errorf("unexpected event type: %q", e.EventType)
	}
	if e.OperationID <= 0 {
		return fmt.Errorf("operation ID is required")
	}
	if e.AccountID <= 0 {
		return fmt.Errorf("account ID is required")
	}
	if domain.OperationType(e.TypeOperation).String() == "Unknown" {
		return fmt.Errorf("unknown operation type: %d", e.TypeOperation)
	}
	if _, err := decimal.NewFromString(e.Value); err != nil {
		return fmt.Errorf("invalid value %q: %w", e.Value, err)
	}
	if _, err := decimal.NewFromString(e.BalanceAfter); err != nil {
		return fmt.Errorf("invalid balance after %q: %w", e.BalanceAfter, err)
	}
	if _, err := time.Parse(time.RFC3339, e.Timestamp); err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}
	return nil
}
