package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/bookkeeping/pkg/config"
)

// dec parses a decimal literal.
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newTestEngine returns an engine on a CHF config with USD at 0.92.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.Standard()
	cfg.ExchangeRates = map[string]decimal.Decimal{"USD": dec("0.92")}
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

// mustAccount creates an account or fails the test.
func mustAccount(t *testing.T, e *Engine, typ AccountType, code int, name string, balance string) *Account {
	t.Helper()
	acc, err := e.CreateAccount(typ, code, name, nil, dec(balance))
	if err != nil {
		t.Fatalf("CreateAccount(%d) error = %v", code, err)
	}
	return acc
}

// mustTx creates a CHF transaction or fails the test.
func mustTx(t *testing.T, e *Engine, id int, side Side, code int, amount string, bookingType BookingType) *Transaction {
	t.Helper()
	tx, err := e.CreateTransaction(id, side, code, "", dec(amount), "CHF", bookingType)
	if err != nil {
		t.Fatalf("CreateTransaction(%d) error = %v", id, err)
	}
	return tx
}

// assertBalance compares an account balance.
func assertBalance(t *testing.T, acc *Account, want string) {
	t.Helper()
	if !acc.Balance().Equal(dec(want)) {
		t.Errorf("account %d balance = %s, want %s", acc.Code(), acc.Balance(), want)
	}
}

// assertLogInvariant checks balance == initial + adjustments + signed log sum.
func assertLogInvariant(t *testing.T, acc *Account) {
	t.Helper()
	sum := acc.InitialBalance().Add(acc.Adjustments())
	for _, entry := range acc.TransactionLog() {
		sum = sum.Add(entry.Signed())
	}
	if !sum.Equal(acc.Balance()) {
		t.Errorf("account %d: balance %s != initial + log %s", acc.Code(), acc.Balance(), sum)
	}
}
