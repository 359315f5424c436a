package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

const customerColumns = `id, first_name, last_name, street, house, apartment, postal_code,
	city, pesel, birth_date, birth_city, identification, avatar, created_at, created_employee`

// CustomerRepository implements domain.CustomerRepository using PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Street,
		&c.House,
		&c.Apartment,
		&c.PostalCode,
		&c.City,
		&c.Pesel,
		&c.BirthDate,
		&c.BirthCity,
		&c.Identification,
		&c.Avatar,
		&c.CreatedAt,
		&c.CreatedEmployee,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `
		INSERT INTO customers (
			first_name, last_name, street, house, apartment, postal_code, city,
			pesel, birth_date, birth_city, identification, avatar, created_at, created_employee
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	err := conn(ctx, r.pool).QueryRow(ctx, query,
		c.FirstName, c.LastName, c.Street, c.House, c.Apartment, c.PostalCode, c.City,
		c.Pesel, c.BirthDate, c.BirthCity, c.Identification, c.Avatar, c.CreatedAt, c.CreatedEmployee,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomer(conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// List filters by PESEL or identification prefix and last name substring, ordered by
// last name.
func (r *CustomerRepository) List(ctx context.Context, filter domain.CustomerFilter) ([]*domain.Customer, int, error) {
	var c conditions
	if filter.Search != "" {
		c.add(`(pesel LIKE $%[1]d::text || '%%' OR identification ILIKE $%[1]d::text || '%%')`, escapeLike(filter.Search))
	}
	if filter.LastName != "" {
		c.add(`last_name ILIKE '%%' || $%d::text || '%%'`, escapeLike(filter.LastName))
	}

	order := ` ORDER BY last_name, id`
	if filter.Desc {
		order = ` ORDER BY last_name DESC, id DESC`
	}

	q := conn(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	limit, args := c.page(filter.Page)
	rows, err := q.Query(ctx, `SELECT `+customerColumns+` FROM customers`+c.where()+order+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]*domain.Customer, 0)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, total, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `
		UPDATE customers
		SET first_name = $2, last_name = $3, street = $4, house = $5, apartment = $6,
		    postal_code = $7, city = $8, pesel = $9, birth_date = $10, birth_city = $11,
		    identification = $12, avatar = $13
		WHERE id = $1
	`

	result, err := conn(ctx, r.pool).Exec(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Street, c.House, c.Apartment,
		c.PostalCode, c.City, c.Pesel, c.BirthDate, c.BirthCity,
		c.Identification, c.Avatar,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	result, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return domain.ErrRecordReferenced
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}
