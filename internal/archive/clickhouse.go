package archive

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/config"
)

// ReplacingMergeTree collapses redelivered events with the same key.
const createOperationsTable = `
	CREATE TABLE IF NOT EXISTS operations (
		operation_id   Int64,
		account_id     Int64,
		type_operation UInt8,
		type_name      LowCardinality(String),
		value          Decimal(12, 2),
		balance_after  Decimal(12, 2),
		employee       String,
		posted_at      DateTime64(3, 'UTC'),
		event_id       String
	)
	ENGINE = ReplacingMergeTree
	ORDER BY (account_id, operation_id)
`

// ClickHouseClient wraps the ClickHouse driver connection
type ClickHouseClient struct {
	conn driver.Conn
}

// NewClickHouseClient creates a new ClickHouse client with the given configuration
func NewClickHouseClient(ctx context.Context, cfg config.ClickHouseConfig) (*ClickHouseClient, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Host},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseClient{conn: conn}, nil
}

// EnsureSchema creates the archive table if it does not exist.
func (c *ClickHouseClient) EnsureSchema(ctx context.Context) error {
	if err := c.conn.Exec(ctx, createOperationsTable); err != nil {
		return fmt.Errorf("failed to create operations table: %w", err)
	}
	return nil
}

// Conn returns the underlying ClickHouse connection
func (c *ClickHouseClient) Conn() driver.Conn {
	return c.conn
}

// Close closes the ClickHouse connection
func (c *ClickHouseClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
