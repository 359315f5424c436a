package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

func TestConditions(t *testing.T) {
	tests := []struct {
		name      string
		build     func(c *conditions)
		page      domain.Page
		wantWhere string
		wantPage  string
		wantArgs  int
	}{
		{
			name:      "empty",
			build:     func(c *conditions) {},
			wantWhere: "",
			wantPage:  "",
		},
		{
			name: "two clauses with page",
			build: func(c *conditions) {
				c.add(`account_id = $%d`, int64(1))
				c.add(`type_operation = $%d`, int16(2))
			},
			page:      domain.Page{Limit: 20, Offset: 40},
			wantWhere: " WHERE account_id = $1 AND type_operation = $2",
			wantPage:  " LIMIT $3 OFFSET $4",
			wantArgs:  4,
		},
		{
			name: "repeated placeholder",
			build: func(c *conditions) {
				c.add(`(pesel LIKE $%[1]d::text || '%%' OR identification ILIKE $%[1]d::text || '%%')`, "900")
			},
			page:      domain.Page{Limit: 5},
			wantWhere: " WHERE (pesel LIKE $1::text || '%' OR identification ILIKE $1::text || '%')",
			wantPage:  " LIMIT $2",
			wantArgs:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c conditions
			tt.build(&c)
			if got := c.where(); got != tt.wantWhere {
				t.Errorf("where() = %q, want %q", got, tt.wantWhere)
			}
			page, args := c.page(tt.page)
			if page != tt.wantPage {
				t.Errorf("page() = %q, want %q", page, tt.wantPage)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("len(args) = %d, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Errorf("escapeLike() = %q", got)
	}
}

func TestPgErrorCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: foreignKeyViolation})
	if got := pgErrorCode(err); got != foreignKeyViolation {
		t.Errorf("pgErrorCode() = %q, want %q", got, foreignKeyViolation)
	}
	if got := pgErrorCode(errors.New("plain")); got != "" {
		t.Errorf("pgErrorCode() = %q, want empty", got)
	}
}

func TestAccountRepository_MapWriteError(t *testing.T) {
	r := &AccountRepository{}
	tests := []struct {
		name string
		code string
		want error
	}{
		{"duplicate iban", uniqueViolation, domain.ErrIBANExists},
		{"free balance check", checkViolation, domain.ErrFreeBalanceOutOfLimit},
		{"balance overflow", numericOutOfRange, domain.ErrBalanceOutOfLimit},
		{"missing reference", foreignKeyViolation, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.mapWriteError(fmt.Errorf("exec: %w", &pgconn.PgError{Code: tt.code}), "failed to update account")
			if !errors.Is(err, tt.want) {
				t.Errorf("mapWriteError() = %v, want %v", err, tt.want)
			}
		})
	}

	err := r.mapWriteError(errors.New("connection reset"), "failed to update account")
	if errors.Is(err, domain.ErrValidation) {
		t.Errorf("unexpected validation error for unknown failure: %v", err)
	}
}
