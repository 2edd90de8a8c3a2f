package ledger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Account code bounds, inclusive.
const (
	MinAccountCode = 1
	MaxAccountCode = 9999
)

// LogEntry records one transaction leg applied to an account. Entries are
// never modified after they are appended.
type LogEntry struct {
	TransactionID     int             `json:"transactionId"`
	TransactionSide   Side            `json:"transactionSide"`
	ConvertedAmount   decimal.Decimal `json:"convertedAmount"`
	OriginalAmount    decimal.Decimal `json:"originalAmount"`
	OriginalCurrency  string          `json:"originalCurrency"`
	TransactionStatus Status          `json:"transactionStatus"`
}

// Signed returns the converted amount with the sign it contributed to the
// balance: positive for Soll, negative for Haben.
func (e LogEntry) Signed() decimal.Decimal {
	if e.TransactionSide == Haben {
		return e.ConvertedAmount.Neg()
	}
	return e.ConvertedAmount
}

// Account is a coded ledger balance. Its balance changes only through
// AddTransaction and Increment.
type Account struct {
	typ            AccountType
	code           int
	name           string
	aliases        []string
	initialBalance decimal.Decimal
	adjustments    decimal.Decimal
	balance        decimal.Decimal
	closed         bool
	fullyBooked    bool
	log            []LogEntry
}

// NewAccount validates its input and returns an open account.
func NewAccount(typ AccountType, code int, name string, aliases []string, balance decimal.Decimal) (*Account, error) {
	if !typ.IsValid() {
		return nil, invalid("type", "%q must be one of %v", typ, AccountTypes)
	}
	if code < MinAccountCode || code > MaxAccountCode {
		return nil, invalid("code", "%d must be an integer between %d and %d", code, MinAccountCode, MaxAccountCode)
	}
	if strings.TrimSpace(name) == "" {
		return nil, invalid("name", "must not be empty")
	}

	return &Account{
		typ:            typ,
		code:           code,
		name:           name,
		aliases:        slices.Clone(aliases),
		initialBalance: balance,
		balance:        balance,
	}, nil
}

// Type returns the account category.
func (a *Account) Type() AccountType { return a.typ }

// Code returns the unique account code.
func (a *Account) Code() int { return a.code }

// Name returns the display name.
func (a *Account) Name() string { return a.name }

// Aliases returns a copy of the alternate names.
func (a *Account) Aliases() []string { return slices.Clone(a.aliases) }

// SetAliases replaces the alternate names as a whole.
func (a *Account) SetAliases(aliases []string) {
	a.aliases = slices.Clone(aliases)
}

// Balance returns the current balance in the engine's default currency.
func (a *Account) Balance() decimal.Decimal { return a.balance }

// InitialBalance returns the balance the account was opened with.
func (a *Account) InitialBalance() decimal.Decimal { return a.initialBalance }

// Adjustments returns the sum of all Increment calls.
func (a *Account) Adjustments() decimal.Decimal { return a.adjustments }

// IsClosed reports whether postings are currently rejected.
func (a *Account) IsClosed() bool { return a.closed }

// Close rejects further postings.
func (a *Account) Close() { a.closed = true }

// Reopen accepts postings again.
func (a *Account) Reopen() { a.closed = false }

// IsFullyBookedForYear reports the year-end marker.
func (a *Account) IsFullyBookedForYear() bool { return a.fullyBooked }

// MarkFullyBookedForYear sets the year-end marker. There is no inverse.
func (a *Account) MarkFullyBookedForYear() { a.fullyBooked = true }

// TransactionLog returns a copy of the applied legs in application order.
func (a *Account) TransactionLog() []LogEntry { return slices.Clone(a.log) }

// Increment adjusts the balance without writing a log entry. It is meant for
// corrections outside the posting path.
func (a *Account) Increment(amount decimal.Decimal) {
	a.adjustments = a.adjustments.Add(amount)
	a.balance = a.balance.Add(amount)
}

// AddTransaction applies tx converted by exchangeRate and appends a log entry.
// Soll adds to the balance, Haben subtracts.
func (a *Account) AddTransaction(tx *Transaction, exchangeRate decimal.Decimal) error {
	if a.closed {
		return fmt.Errorf("%w: cannot add transaction %d to account %d", ErrAccountClosed, tx.ID(), a.code)
	}
	if tx.IsCanceled() {
		return fmt.Errorf("%w: cannot add transaction %d to account %d", ErrTransactionCanceled, tx.ID(), a.code)
	}

	entry := LogEntry{
		TransactionID:     tx.ID(),
		TransactionSide:   tx.Side(),
		ConvertedAmount:   tx.Amount().Mul(exchangeRate),
		OriginalAmount:    tx.Amount(),
		OriginalCurrency:  tx.Currency(),
		TransactionStatus: tx.Status(),
	}
	a.balance = a.balance.Add(entry.Signed())
	a.log = append(a.log, entry)
	return nil
}

// AccountRef is the read-only view handed to account pickers.
type AccountRef struct {
	Code    int      `json:"code"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// Ref returns the picker view of a.
func (a *Account) Ref() AccountRef {
	return AccountRef{Code: a.code, Name: a.name, Aliases: a.Aliases()}
}

// AccountSnapshot is the serialized form of an Account.
type AccountSnapshot struct {
	Type               AccountType     `json:"type"`
	Code               int             `json:"code"`
	Name               string          `json:"name"`
	Aliases            []string        `json:"aliases"`
	Balance            decimal.Decimal `json:"balance"`
	Closed             bool            `json:"closed"`
	FullyBookedForYear bool            `json:"fullyBookedForYear"`
	TransactionLog     []LogEntry      `json:"transactionLog"`
}

// Snapshot returns the serialized form of a.
func (a *Account) Snapshot() AccountSnapshot {
	aliases := a.Aliases()
	if aliases == nil {
		aliases = []string{}
	}
	log := a.TransactionLog()
	if log == nil {
		log = []LogEntry{}
	}
	return AccountSnapshot{
		Type:               a.typ,
		Code:               a.code,
		Name:               a.name,
		Aliases:            aliases,
		Balance:            a.balance,
		Closed:             a.closed,
		FullyBookedForYear: a.fullyBooked,
		TransactionLog:     log,
	}
}
