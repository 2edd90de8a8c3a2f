package ledger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/bookkeeping/pkg/config"
)

// Engine owns all accounts, transactions and books and is the only component
// that applies transactions to accounts.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger

	books        []*Book
	accounts     []*Account
	byCode       map[int]*Account
	transactions []*Transaction
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug events. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an empty engine. A nil cfg selects config.Standard().
// The configuration is copied and never changes afterwards.
func NewEngine(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Standard()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	e := &Engine{
		cfg:    cfg.Clone(),
		logger: slog.Default(),
		byCode: make(map[int]*Account),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *config.Config { return e.cfg.Clone() }

// DefaultCurrency returns the currency balances are kept in.
func (e *Engine) DefaultCurrency() string { return e.cfg.DefaultCurrency }

// ExchangeRate returns the factor converting currency into the default
// currency.
func (e *Engine) ExchangeRate(currency string) (decimal.Decimal, error) {
	if currency == e.cfg.DefaultCurrency {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := e.cfg.Rate(currency)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w for currency %s (default %s)", ErrMissingExchangeRate, currency, e.cfg.DefaultCurrency)
	}
	return rate, nil
}

// Accounts

// CreateAccount registers a new account. The code must not be in use.
func (e *Engine) CreateAccount(typ AccountType, code int, name string, aliases []string, balance decimal.Decimal) (*Account, error) {
	if _, exists := e.byCode[code]; exists {
		return nil, fmt.Errorf("%w: account with code %d already exists", ErrDuplicateAccount, code)
	}
	acc, err := NewAccount(typ, code, name, aliases, balance)
	if err != nil {
		return nil, err
	}

	e.accounts = append(e.accounts, acc)
	e.byCode[code] = acc
	e.logger.Debug("account created", "code", code, "type", typ, "name", name)
	return acc, nil
}

// AccountByCode looks up an account.
func (e *Engine) AccountByCode(code int) (*Account, bool) {
	acc, ok := e.byCode[code]
	return acc, ok
}

// Account looks up an account and fails with a not-found error.
func (e *Engine) Account(code int) (*Account, error) {
	acc, ok := e.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: code %d", ErrAccountNotFound, code)
	}
	return acc, nil
}

// Accounts returns all accounts in creation order.
func (e *Engine) Accounts() []*Account { return slices.Clone(e.accounts) }

// AccountRefs returns the {code, name, aliases} view of all accounts.
func (e *Engine) AccountRefs() []AccountRef {
	refs := make([]AccountRef, 0, len(e.accounts))
	for _, acc := range e.accounts {
		refs = append(refs, acc.Ref())
	}
	return refs
}

// Transactions

// CreateTransaction registers a draft leg. Neither id uniqueness nor the
// account code is checked; both surface at booking time. An empty currency
// means the default currency and an empty booking type means Buchung.
func (e *Engine) CreateTransaction(id int, side Side, accountCode int, description string, amount decimal.Decimal, currency string, bookingType BookingType) (*Transaction, error) {
	if currency == "" {
		currency = e.cfg.DefaultCurrency
	}
	if bookingType == "" {
		bookingType = Buchung
	}
	tx, err := NewTransaction(id, side, accountCode, description, amount, currency, bookingType)
	if err != nil {
		return nil, err
	}
	e.transactions = append(e.transactions, tx)
	return tx, nil
}

// Transaction returns the first transaction created with id.
func (e *Engine) Transaction(id int) (*Transaction, error) {
	for _, tx := range e.transactions {
		if tx.ID() == id {
			return tx, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrTransactionNotFound, id)
}

// Transactions returns all transactions in creation order.
func (e *Engine) Transactions() []*Transaction { return slices.Clone(e.transactions) }

// BookTransaction applies the transaction to its account, converted into the
// default currency. Booking the same id twice applies it twice.
//
// Nothing is rolled back on failure: the status update of step three stays
// even when the account lookup or rate resolution fails afterwards.
func (e *Engine) BookTransaction(id int) (*Transaction, error) {
	tx, err := e.Transaction(id)
	if err != nil {
		return nil, err
	}
	if err := e.book(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// book applies tx itself, bypassing the id lookup.
func (e *Engine) book(tx *Transaction) error {
	id := tx.ID()
	if tx.IsCanceled() {
		return fmt.Errorf("%w: cannot book transaction %d", ErrTransactionCanceled, id)
	}
	if err := tx.Book(); err != nil {
		return err
	}

	acc, err := e.Account(tx.AccountCode())
	if err != nil {
		return fmt.Errorf("booking transaction %d: %w", id, err)
	}
	rate, err := e.ExchangeRate(tx.Currency())
	if err != nil {
		return err
	}
	if err := acc.AddTransaction(tx, rate); err != nil {
		return err
	}

	e.logger.Debug("transaction booked",
		"id", id,
		"account", acc.Code(),
		"side", tx.Side(),
		"amount", tx.Amount().String(),
		"currency", tx.Currency(),
		"rate", rate.String(),
	)
	return nil
}

// CancelTransaction blocks future bookings of id. Effects already applied to
// an account stay in place.
func (e *Engine) CancelTransaction(id int) (*Transaction, error) {
	tx, err := e.Transaction(id)
	if err != nil {
		return nil, err
	}
	tx.Cancel()
	e.logger.Debug("transaction canceled", "id", id)
	return tx, nil
}

// TransactionStatus returns the status of id.
func (e *Engine) TransactionStatus(id int) (Status, error) {
	tx, err := e.Transaction(id)
	if err != nil {
		return "", err
	}
	return tx.Status(), nil
}

// PerformBuchung creates a Soll leg with id idBase and a Haben leg with id
// idBase+1 and books both in that order. If the Haben leg fails the Soll leg
// stays booked.
func (e *Engine) PerformBuchung(idBase, sollCode, habenCode int, amount decimal.Decimal, currency, description string) ([]*Transaction, error) {
	soll, err := e.CreateTransaction(idBase, Soll, sollCode, description, amount, currency, Buchung)
	if err != nil {
		return nil, err
	}
	haben, err := e.CreateTransaction(idBase+1, Haben, habenCode, description, amount, currency, Buchung)
	if err != nil {
		return nil, err
	}

	if err := e.book(soll); err != nil {
		return nil, err
	}
	if err := e.book(haben); err != nil {
		return []*Transaction{soll}, err
	}
	return []*Transaction{soll, haben}, nil
}

// ReverseTransaction books a Rückbuchung with id reversalID that undoes the
// economic effect of id: opposite side, same account, amount and currency.
// The original transaction is left untouched. The new leg is booked even when
// reversalID is already taken by an earlier transaction.
func (e *Engine) ReverseTransaction(id, reversalID int) (*Transaction, error) {
	orig, err := e.Transaction(id)
	if err != nil {
		return nil, err
	}
	rev, err := e.CreateTransaction(
		reversalID,
		orig.Side().Opposite(),
		orig.AccountCode(),
		fmt.Sprintf("Reverse of Tx %d", id),
		orig.Amount(),
		orig.Currency(),
		Rueckbuchung,
	)
	if err != nil {
		return nil, err
	}
	if err := e.book(rev); err != nil {
		return nil, err
	}
	return rev, nil
}

// Books

// CreateBook registers an open book for year. A year can be registered only
// once; a second CreateBook or AddBook for it fails with ErrDuplicateBook
// instead of adding a parallel book.
func (e *Engine) CreateBook(year int) (*Book, error) {
	b, err := NewBook(year)
	if err != nil {
		return nil, err
	}
	if err := e.AddBook(b); err != nil {
		return nil, err
	}
	return b, nil
}

// AddBook registers an existing book. Years are unique per engine and every
// referenced account code must exist.
func (e *Engine) AddBook(b *Book) error {
	if _, err := e.Book(b.Year()); err == nil {
		return fmt.Errorf("%w: %d", ErrDuplicateBook, b.Year())
	}
	for _, code := range b.codes {
		if _, err := e.Account(code); err != nil {
			return fmt.Errorf("adding book %d: %w", b.Year(), err)
		}
	}
	e.books = append(e.books, b)
	return nil
}

// Book returns the book for year.
func (e *Engine) Book(year int) (*Book, error) {
	for _, b := range e.books {
		if b.Year() == year {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: year %d", ErrBookNotFound, year)
}

// Books returns all books in creation order.
func (e *Engine) Books() []*Book { return slices.Clone(e.books) }

// AddAccountToBook references an existing account from the book for year.
func (e *Engine) AddAccountToBook(year, code int) error {
	b, err := e.Book(year)
	if err != nil {
		return err
	}
	if _, err := e.Account(code); err != nil {
		return err
	}
	b.AddAccount(code)
	return nil
}

// CloseBook closes the book for year and marks its accounts fully booked.
func (e *Engine) CloseBook(year int) error {
	b, err := e.Book(year)
	if err != nil {
		return err
	}
	if err := b.Close(e); err != nil {
		return err
	}
	e.logger.Debug("book closed", "year", year, "accounts", len(b.codes))
	return nil
}

// ReopenBook reopens the book for year. Account markers are not cleared.
func (e *Engine) ReopenBook(year int) error {
	b, err := e.Book(year)
	if err != nil {
		return err
	}
	b.Reopen()
	return nil
}

// Snapshot

// Snapshot is the full serialized engine state.
type Snapshot struct {
	Config       *config.Config        `json:"config"`
	Books        []BookSnapshot        `json:"books"`
	Accounts     []AccountSnapshot     `json:"accounts"`
	Transactions []TransactionSnapshot `json:"transactions"`
}

// Snapshot captures the complete engine state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Config:       e.cfg.Clone(),
		Books:        make([]BookSnapshot, 0, len(e.books)),
		Accounts:     make([]AccountSnapshot, 0, len(e.accounts)),
		Transactions: make([]TransactionSnapshot, 0, len(e.transactions)),
	}
	for _, b := range e.books {
		s.Books = append(s.Books, b.Snapshot())
	}
	for _, acc := range e.accounts {
		s.Accounts = append(s.Accounts, acc.Snapshot())
	}
	for _, tx := range e.transactions {
		s.Transactions = append(s.Transactions, tx.Snapshot())
	}
	return s
}

// MarshalJSON encodes the engine as its Snapshot.
func (e *Engine) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Snapshot())
}
