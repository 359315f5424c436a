package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOpenLedger(t *testing.T) {
	tests := []struct {
		name    string
		debit   string
		want    Ledger
		wantErr error
	}{
		{
			name:  "zero debit",
			debit: "0",
			want:  Ledger{Balance: dec("0"), Debit: dec("0"), FreeBalance: dec("0")},
		},
		{
			name:  "positive debit",
			debit: "1000",
			want:  Ledger{Balance: dec("0"), Debit: dec("1000"), FreeBalance: dec("1000")},
		},
		{
			name:    "negative debit",
			debit:   "-1",
			wantErr: ErrNegativeDebit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OpenLedger(dec(tt.debit))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertLedger(t, got, tt.want)
		})
	}
}

func TestLedgerPost(t *testing.T) {
	tests := []struct {
		name    string
		start   Ledger
		signed  string
		want    Ledger
		wantErr error
	}{
		{
			name:   "deposit",
			start:  Ledger{Balance: dec("0"), Debit: dec("1000"), FreeBalance: dec("1000")},
			signed: "100",
			want:   Ledger{Balance: dec("100"), Debit: dec("1000"), FreeBalance: dec("1100")},
		},
		{
			name:   "withdrawal into overdraft",
			start:  Ledger{Balance: dec("0"), Debit: dec("1000"), FreeBalance: dec("1000")},
			signed: "-50",
			want:   Ledger{Balance: dec("-50"), Debit: dec("1000"), FreeBalance: dec("950")},
		},
		{
			name:   "withdrawal to exactly zero free balance",
			start:  Ledger{Balance: dec("100"), Debit: dec("1000"), FreeBalance: dec("1100")},
			signed: "-1100",
			want:   Ledger{Balance: dec("-1000"), Debit: dec("1000"), FreeBalance: dec("0")},
		},
		{
			name:    "withdrawal beyond limit",
			start:   Ledger{Balance: dec("100"), Debit: dec("1000"), FreeBalance: dec("1100")},
			signed:  "-1100.01",
			wantErr: ErrFreeBalanceOutOfLimit,
		},
		{
			name:    "withdrawal without debit",
			start:   Ledger{Balance: dec("10"), Debit: dec("0"), FreeBalance: dec("10")},
			signed:  "-10.01",
			wantErr: ErrFreeBalanceOutOfLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.start.Post(dec(tt.signed))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertLedger(t, got, tt.want)
		})
	}
}

func TestLedgerWithDebit(t *testing.T) {
	start := Ledger{Balance: dec("-200"), Debit: dec("500"), FreeBalance: dec("300")}

	got, err := start.WithDebit(dec("200"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertLedger(t, got, Ledger{Balance: dec("-200"), Debit: dec("200"), FreeBalance: dec("0")})

	if _, err := start.WithDebit(dec("199.99")); !errors.Is(err, ErrFreeBalanceOutOfLimit) {
		t.Errorf("expected ErrFreeBalanceOutOfLimit, got %v", err)
	}
	if _, err := start.WithDebit(dec("-1")); !errors.Is(err, ErrNegativeDebit) {
		t.Errorf("expected ErrNegativeDebit, got %v", err)
	}
}

func TestInterest(t *testing.T) {
	tests := []struct {
		balance string
		percent string
		want    string
	}{
		{"100", "1.25", "1.25"},
		{"1000", "1.25", "12.50"},
		{"0.40", "1.25", "0.01"}, // 0.005 rounds half away from zero
		{"0.39", "1.25", "0.00"},
		{"12345.67", "3.5", "432.10"},
	}

	for _, tt := range tests {
		t.Run(tt.balance+"@"+tt.percent, func(t *testing.T) {
			got := Interest(dec(tt.balance), dec(tt.percent))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("Interest(%s, %s) = %s, want %s", tt.balance, tt.percent, got, tt.want)
			}
		})
	}
}

func assertLedger(t *testing.T, got, want Ledger) {
	t.Helper()
	if !got.Balance.Equal(want.Balance) || !got.Debit.Equal(want.Debit) || !got.FreeBalance.Equal(want.FreeBalance) {
		t.Errorf("ledger = {%s %s %s}, want {%s %s %s}",
			got.Balance, got.Debit, got.FreeBalance,
			want.Balance, want.Debit, want.FreeBalance)
	}
	if !got.FreeBalance.Equal(got.Balance.Add(got.Debit)) {
		t.Errorf("free balance %s != balance %s + debit %s", got.FreeBalance, got.Balance, got.Debit)
	}
}
