package domain

import "github.com/shopspring/decimal"

// Ledger is the balance triad of an account. Values produced by OpenLedger,
// WithDebit and Post always satisfy FreeBalance == Balance + Debit.
type Ledger struct {
	Balance     decimal.Decimal
	Debit       decimal.Decimal
	FreeBalance decimal.Decimal
}

// OpenLedger returns the triad of a new account: zero balance and free balance equal
// to the granted debit. Any client-supplied free balance is ignored.
func OpenLedger(debit decimal.Decimal) (Ledger, error) {
	if debit.IsNegative() {
		return Ledger{}, ErrNegativeDebit
	}
	return Ledger{
		Balance:     decimal.Zero,
		Debit:       debit,
		FreeBalance: debit,
	}, nil
}

// WithDebit recomputes the triad for a changed debit. Balance is carried over unchanged.
func (l Ledger) WithDebit(debit decimal.Decimal) (Ledger, error) {
	if debit.IsNegative() {
		return Ledger{}, ErrNegativeDebit
	}
	next := Ledger{
		Balance:     l.Balance,
		Debit:       debit,
		FreeBalance: l.Balance.Add(debit),
	}
	if next.FreeBalance.IsNegative() {
		return Ledger{}, ErrFreeBalanceOutOfLimit
	}
	return next, nil
}

// Post applies a signed movement. The balance itself may go negative as long as the
// debit covers it; only a negative free balance is rejected.
func (l Ledger) Post(signed decimal.Decimal) (Ledger, error) {
	balance := l.Balance.Add(signed)
	next := Ledger{
		Balance:     balance,
		Debit:       l.Debit,
		FreeBalance: balance.Add(l.Debit),
	}
	if next.FreeBalance.IsNegative() {
		return Ledger{}, ErrFreeBalanceOutOfLimit
	}
	return next, nil
}

// Interest computes round(balance * percent / 100, 2), rounding half away from zero.
func Interest(balance, percent decimal.Decimal) decimal.Decimal {
	return balance.Mul(percent).Shift(-2).Round(2)
}
