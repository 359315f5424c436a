package db_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/db"
	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

// TestBackOfficeOnPostgres runs the ledger commands against a real PostgreSQL
// container and checks the persisted state, the row locking and the reference
// protection.
func TestBackOfficeOnPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	postgresContainer, dbURL := startPostgresContainer(t, ctx)
	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	}()

	pool, err := db.NewPool(ctx, dbURL, db.PoolOptions{})
	if err != nil {
		t.Fatalf("failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool.Pool); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	// Migrations must be re-runnable.
	if err := db.Migrate(ctx, pool.Pool); err != nil {
		t.Fatalf("failed to re-run migrations: %v", err)
	}

	logger := logrus.New()
	svc := domain.NewBackOffice(domain.Repositories{
		Customers:    db.NewCustomerRepository(pool.Pool),
		AccountTypes: db.NewAccountTypeRepository(pool.Pool),
		Accounts:     db.NewAccountRepository(pool.Pool),
		Operations:   db.NewOperationRepository(pool.Pool),
		Parameters:   db.NewParameterRepository(pool.Pool),
		ActivityLog:  db.NewActivityLogRepository(pool.Pool),
	}, db.NewTransactionManager(pool.Pool, logger), domain.NewParameterStore(nil), nil)

	if _, err := svc.EnsureParameter(ctx, domain.ParameterInput{CountryCode: "PL", BankNumber: "10101397"}); err != nil {
		t.Fatalf("EnsureParameter: %v", err)
	}

	customer, err := svc.CreateCustomer(ctx, domain.CustomerInput{
		FirstName:      "Anna",
		LastName:       "Nowak",
		Street:         "Dluga",
		House:          "5",
		PostalCode:     "31-147",
		City:           "Krakow",
		Pesel:          "85020212345",
		BirthDate:      time.Date(1985, 2, 2, 0, 0, 0, 0, time.UTC),
		BirthCity:      "Krakow",
		Identification: "xyz987654",
	}, "admin")
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	accType, err := svc.CreateAccountType(ctx, domain.AccountTypeInput{
		Code: "s-01", Description: "Savings", Subaccount: "000001", Percent: decimal.RequireFromString("1.25"),
	})
	if err != nil {
		t.Fatalf("CreateAccountType: %v", err)
	}
	if accType.Code != "S-01" {
		t.Errorf("code = %q, want S-01", accType.Code)
	}
	_, err = svc.CreateAccountType(ctx, domain.AccountTypeInput{
		Code: "S-01", Description: "Duplicate", Subaccount: "000002", Percent: decimal.Zero,
	})
	if !errors.Is(err, domain.ErrAccountTypeCodeExists) {
		t.Errorf("expected ErrAccountTypeCodeExists, got %v", err)
	}

	account, err := svc.CreateAccount(ctx, domain.CreateAccountInput{
		Debit: decimal.RequireFromString("1000"), AccountTypeID: accType.ID, CustomerID: customer.ID,
	}, "admin")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	t.Run("postings", func(t *testing.T) {
		acc, err := svc.PostOperation(ctx, account.ID, domain.OperationInput{
			Type: domain.OperationDeposit, Value: decimal.RequireFromString("100"),
		}, "admin")
		if err != nil {
			t.Fatalf("deposit: %v", err)
		}
		if acc.FreeBalance.StringFixed(2) != "1100.00" {
			t.Errorf("free balance = %s, want 1100.00", acc.FreeBalance.StringFixed(2))
		}

		_, err = svc.PostOperation(ctx, account.ID, domain.OperationInput{
			Type: domain.OperationWithdrawal, Value: decimal.RequireFromString("1100.01"),
		}, "admin")
		if !errors.Is(err, domain.ErrFreeBalanceOutOfLimit) {
			t.Fatalf("expected ErrFreeBalanceOutOfLimit, got %v", err)
		}

		stored, err := svc.GetAccount(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetAccount: %v", err)
		}
		if stored.Balance.StringFixed(2) != "100.00" {
			t.Errorf("balance = %s, want 100.00 after rejected withdrawal", stored.Balance.StringFixed(2))
		}
	})

	t.Run("concurrent postings serialize on the row lock", func(t *testing.T) {
		const workers = 10
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.PostOperation(ctx, account.ID, domain.OperationInput{
					Type: domain.OperationDeposit, Value: decimal.RequireFromString("10"),
				}, "admin")
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("concurrent deposit: %v", err)
			}
		}

		stored, _ := svc.GetAccount(ctx, account.ID)
		if stored.Balance.StringFixed(2) != "200.00" {
			t.Errorf("balance = %s, want 200.00", stored.Balance.StringFixed(2))
		}
	})

	t.Run("interest run", func(t *testing.T) {
		result, err := svc.RunInterest(ctx, "system")
		if err != nil {
			t.Fatalf("RunInterest: %v", err)
		}
		if result.Count != 1 {
			t.Errorf("count = %d, want 1", result.Count)
		}

		stored, _ := svc.GetAccount(ctx, account.ID)
		if stored.Balance.StringFixed(2) != "202.50" {
			t.Errorf("balance = %s, want 202.50", stored.Balance.StringFixed(2))
		}

		interestType := domain.OperationInterest
		ops, total, err := svc.ListOperations(ctx, account.ID, domain.OperationFilter{Type: &interestType})
		if err != nil {
			t.Fatalf("ListOperations: %v", err)
		}
		if total != 1 || ops[0].Value.StringFixed(2) != "2.50" || ops[0].BalanceAfter.StringFixed(2) != "202.50" {
			t.Errorf("interest operations = %d, first = %+v", total, ops[0])
		}
	})

	t.Run("generate IBAN", func(t *testing.T) {
		acc, generated, err := svc.GenerateIBAN(ctx, account.ID)
		if err != nil {
			t.Fatalf("GenerateIBAN: %v", err)
		}
		want := fmt.Sprintf("PL10101397000001%d%0*d", acc.ID, 12-len(fmt.Sprint(acc.ID)), customer.ID)
		if !generated || acc.NumberIBAN != want {
			t.Errorf("IBAN = %q (generated %v), want %q", acc.NumberIBAN, generated, want)
		}

		_, generated, err = svc.GenerateIBAN(ctx, account.ID)
		if err != nil || generated {
			t.Errorf("second GenerateIBAN: generated=%v err=%v", generated, err)
		}

		accounts, total, err := svc.ListAccounts(ctx, domain.AccountFilter{NumberIBAN: "10101397"})
		if err != nil || total != 1 || accounts[0].ID != account.ID {
			t.Errorf("ListAccounts by IBAN: total=%d err=%v", total, err)
		}
	})

	t.Run("reference protection", func(t *testing.T) {
		if err := svc.DeleteCustomer(ctx, customer.ID); !errors.Is(err, domain.ErrRecordReferenced) {
			t.Errorf("delete customer: expected ErrRecordReferenced, got %v", err)
		}
		if err := svc.DeleteAccountType(ctx, accType.ID); !errors.Is(err, domain.ErrRecordReferenced) {
			t.Errorf("delete account type: expected ErrRecordReferenced, got %v", err)
		}
		if err := svc.DeleteAccount(ctx, account.ID); !errors.Is(err, domain.ErrRecordReferenced) {
			t.Errorf("delete account: expected ErrRecordReferenced, got %v", err)
		}
		if err := svc.DeleteAccount(ctx, 999999); !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("delete missing account: expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("customer search", func(t *testing.T) {
		customers, total, err := svc.ListCustomers(ctx, domain.CustomerFilter{Search: "XYZ", Page: domain.Page{Limit: 10}})
		if err != nil || total != 1 || customers[0].ID != customer.ID {
			t.Errorf("search by identification: total=%d err=%v", total, err)
		}
		_, total, err = svc.ListCustomers(ctx, domain.CustomerFilter{LastName: "kow"})
		if err != nil || total != 0 {
			t.Errorf("search by last name: total=%d err=%v", total, err)
		}
	})

	t.Run("activity log", func(t *testing.T) {
		entry := &domain.LogEntry{
			Action: domain.ActionRunInterest.String(), Function: "runInterest", Duration: 0.01,
			Data: "{}", User: "admin", Status: domain.LogStatusSuccess,
		}
		if err := svc.RecordActivity(ctx, entry); err != nil {
			t.Fatalf("RecordActivity: %v", err)
		}
		entries, total, err := svc.ListActivity(ctx, domain.LogFilter{Status: "succ", User: "adm"})
		if err != nil || total != 1 || entries[0].Action != "Interest counting" {
			t.Errorf("ListActivity: total=%d err=%v", total, err)
		}
	})
}

// startPostgresContainer starts a PostgreSQL testcontainer and returns the connection URL.
func startPostgresContainer(t *testing.T, ctx context.Context) (testcontainers.Container, string) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:15",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get postgres host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get postgres port: %v", err)
	}

	return container, fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())
}
