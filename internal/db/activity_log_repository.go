package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

// ActivityLogRepository implements domain.ActivityLogRepository using PostgreSQL.
type ActivityLogRepository struct {
	pool *pgxpool.Pool
}

func NewActivityLogRepository(pool *pgxpool.Pool) *ActivityLogRepository {
	return &ActivityLogRepository{pool: pool}
}

func (r *ActivityLogRepository) Create(ctx context.Context, e *domain.LogEntry) error {
	query := `
		INSERT INTO activity_log (action, handler, duration, data, user_log, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := conn(ctx, r.pool).QueryRow(ctx, query,
		e.Action, e.Function, e.Duration, e.Data, e.User, string(e.Status), e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to create log entry: %w", err)
	}
	return nil
}

// List returns one page of entries, newest first.
func (r *ActivityLogRepository) List(ctx context.Context, filter domain.LogFilter) ([]*domain.LogEntry, int, error) {
	var c conditions
	if filter.Date != nil {
		c.add(`created_at::date = $%d::date`, *filter.Date)
	}
	if filter.User != "" {
		c.add(`user_log ILIKE '%%' || $%d::text || '%%'`, escapeLike(filter.User))
	}
	if filter.Status != "" {
		c.add(`status ILIKE $%d::text || '%%'`, escapeLike(filter.Status))
	}

	q := conn(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM activity_log`+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count log entries: %w", err)
	}

	limit, args := c.page(filter.Page)
	rows, err := q.Query(ctx, `
		SELECT id, action, handler, duration, data, user_log, status, created_at
		FROM activity_log`+c.where()+` ORDER BY created_at DESC, id DESC`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list log entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.LogEntry, 0)
	for rows.Next() {
		var (
			e      domain.LogEntry
			status string
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.Function, &e.Duration, &e.Data, &e.User, &status, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan log entry: %w", err)
		}
		e.Status = domain.LogStatus(status)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list log entries: %w", err)
	}
	return entries, total, nil
}
