package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/events"
)

// MockOperationStore is a mock implementation of the store for testing
type MockOperationStore struct {
	operations []*Operation
	err        error
}

func (m *MockOperationStore) InsertOperation(ctx context.Context, op *Operation) error {
	if m.err != nil {
		return m.err
	}
	m.operations = append(m.operations, op)
	return nil
}

func newTestConsumer(store OperationStore) *Consumer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Consumer{store: store, logger: logger}
}

func interestEventBody(t *testing.T) []byte {
	t.Helper()
	event := events.NewOperationPostedEvent(&domain.Operation{
		ID:           10,
		AccountID:    3,
		Type:         domain.OperationInterest,
		Value:        decimal.RequireFromString("1.25"),
		BalanceAfter: decimal.RequireFromString("101.25"),
		CreatedAt:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Employee:     "system",
	}, time.Now())
	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return body
}

func TestHandleMessage_Success(t *testing.T) {
	store := &MockOperationStore{}
	consumer := newTestConsumer(store)

	if err := consumer.handleMessage(context.Background(), interestEventBody(t)); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}

	if len(store.operations) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(store.operations))
	}
	op := store.operations[0]
	if op.OperationID != 10 || op.AccountID != 3 {
		t.Errorf("ids = %d/%d", op.OperationID, op.AccountID)
	}
	if op.TypeOperation != 3 || op.TypeName != "Interest" {
		t.Errorf("type = %d/%s", op.TypeOperation, op.TypeName)
	}
	if !op.Value.Equal(decimal.RequireFromString("1.25")) || !op.BalanceAfter.Equal(decimal.RequireFromString("101.25")) {
		t.Errorf("value = %s, balance after = %s", op.Value, op.BalanceAfter)
	}
	if !op.PostedAt.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("posted at = %s", op.PostedAt)
	}
	if op.EventID == "" {
		t.Error("expected event ID")
	}
}

func TestHandleMessage_InvalidPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{{`},
		{"wrong event type", `{"eventType":"transfer.completed","operationId":1,"accountId":1,"typeOperation":1,"value":"1","balanceAfter":"1","timestamp":"2025-03-01T00:00:00Z"}`},
		{"missing account", `{"eventType":"operation.posted","operationId":1,"typeOperation":1,"value":"1","balanceAfter":"1","timestamp":"2025-03-01T00:00:00Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockOperationStore{}
			err := newTestConsumer(store).handleMessage(context.Background(), []byte(tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !isPoison(err) {
				t.Errorf("expected poison error, got %v", err)
			}
			if len(store.operations) != 0 {
				t.Errorf("expected nothing stored, got %d", len(store.operations))
			}
		})
	}
}

func TestHandleMessage_StoreFailureIsRetryable(t *testing.T) {
	storeErr := errors.New("clickhouse unavailable")
	consumer := newTestConsumer(&MockOperationStore{err: storeErr})

	err := consumer.handleMessage(context.Background(), interestEventBody(t))
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if isPoison(err) {
		t.Error("store failures must be requeued, not dropped")
	}
}
