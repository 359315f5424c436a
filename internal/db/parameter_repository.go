package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

// ParameterRepository implements domain.ParameterRepository using PostgreSQL.
type ParameterRepository struct {
	pool *pgxpool.Pool
}

func NewParameterRepository(pool *pgxpool.Pool) *ParameterRepository {
	return &ParameterRepository{pool: pool}
}

// First returns the oldest parameter row, or nil if the table is empty.
func (r *ParameterRepository) First(ctx context.Context) (*domain.Parameter, error) {
	var p domain.Parameter
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT id, country_code, bank_number FROM parameters ORDER BY id LIMIT 1`,
	).Scan(&p.ID, &p.CountryCode, &p.BankNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get parameters: %w", err)
	}
	return &p, nil
}

func (r *ParameterRepository) Create(ctx context.Context, p *domain.Parameter) error {
	err := conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO parameters (country_code, bank_number) VALUES ($1, $2) RETURNING id`,
		p.CountryCode, p.BankNumber,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create parameters: %w", err)
	}
	return nil
}

func (r *ParameterRepository) GetByID(ctx context.Context, id int64) (*domain.Parameter, error) {
	var p domain.Parameter
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT id, country_code, bank_number FROM parameters WHERE id = $1`, id,
	).Scan(&p.ID, &p.CountryCode, &p.BankNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrParameterNotFound
		}
		return nil, fmt.Errorf("failed to get parameters: %w", err)
	}
	return &p, nil
}

func (r *ParameterRepository) List(ctx context.Context) ([]*domain.Parameter, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT id, country_code, bank_number FROM parameters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list parameters: %w", err)
	}
	defer rows.Close()

	params := make([]*domain.Parameter, 0)
	for rows.Next() {
		var p domain.Parameter
		if err := rows.Scan(&p.ID, &p.CountryCode, &p.BankNumber); err != nil {
			return nil, fmt.Errorf("failed to scan parameters: %w", err)
		}
		params = append(params, &p)
	}
	return params, rows.Err()
}

func (r *ParameterRepository) Update(ctx context.Context, p *domain.Parameter) error {
	result, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE parameters SET country_code = $2, bank_number = $3 WHERE id = $1`,
		p.ID, p.CountryCode, p.BankNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update parameters: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrParameterNotFound
	}
	return nil
}
