package ledger

import (
	"fmt"
	"slices"
)

// AccountResolver resolves account codes to the accounts an Engine owns.
type AccountResolver interface {
	AccountByCode(code int) (*Account, bool)
}

// Book groups accounts for one fiscal year. It stores account codes only; the
// accounts themselves are owned by the Engine.
type Book struct {
	year   int
	closed bool
	codes  []int
}

// NewBook returns an open book for year.
func NewBook(year int) (*Book, error) {
	if year < 0 {
		return nil, invalid("year", "%d must be a non-negative integer", year)
	}
	return &Book{year: year}, nil
}

// Year returns the fiscal year.
func (b *Book) Year() int { return b.year }

// IsClosed reports whether the year has been closed.
func (b *Book) IsClosed() bool { return b.closed }

// AccountCodes returns the referenced codes in insertion order.
func (b *Book) AccountCodes() []int { return slices.Clone(b.codes) }

// AddAccount appends a reference. Duplicates and closed accounts are not
// checked.
func (b *Book) AddAccount(code int) {
	b.codes = append(b.codes, code)
}

// Close closes the book and marks every referenced account fully booked for
// the year, in insertion order.
func (b *Book) Close(accounts AccountResolver) error {
	for _, code := range b.codes {
		if _, ok := accounts.AccountByCode(code); !ok {
			return fmt.Errorf("%w: code %d referenced by book %d", ErrAccountNotFound, code, b.year)
		}
	}
	b.closed = true
	for _, code := range b.codes {
		acc, _ := accounts.AccountByCode(code)
		acc.MarkFullyBookedForYear()
	}
	return nil
}

// Reopen clears the book's closed flag. Accounts stay marked fully booked.
func (b *Book) Reopen() { b.closed = false }

// BookSnapshot is the serialized form of a Book.
type BookSnapshot struct {
	Year     int   `json:"year"`
	Closed   bool  `json:"closed"`
	Accounts []int `json:"accounts"`
}

// Snapshot returns the serialized form of b.
func (b *Book) Snapshot() BookSnapshot {
	codes := b.AccountCodes()
	if codes == nil {
		codes = []int{}
	}
	return BookSnapshot{Year: b.year, Closed: b.closed, Accounts: codes}
}
