package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Transaction is a single ledger leg. Everything except its status is fixed at
// construction. Applying it to an account is the Engine's job.
type Transaction struct {
	id          int
	side        Side
	accountCode int
	description string
	amount      decimal.Decimal
	currency    string
	bookingType BookingType
	status      Status
}

// NewTransaction validates its input and returns a leg in status booked.
// The account code is not resolved here; the Engine does that when booking.
func NewTransaction(id int, side Side, accountCode int, description string, amount decimal.Decimal, currency string, bookingType BookingType) (*Transaction, error) {
	if !side.IsValid() {
		return nil, invalid("transactionSide", "%q must be one of %v", side, Sides)
	}
	if currency == "" {
		return nil, invalid("currency", "must not be empty")
	}
	if !bookingType.IsValid() {
		return nil, invalid("bookingType", "%q must be one of %v", bookingType, BookingTypes)
	}

	return &Transaction{
		id:          id,
		side:        side,
		accountCode: accountCode,
		description: description,
		amount:      amount,
		currency:    currency,
		bookingType: bookingType,
		status:      StatusBooked,
	}, nil
}

// ID returns the caller-supplied identifier.
func (t *Transaction) ID() int { return t.id }

// Side returns Soll or Haben.
func (t *Transaction) Side() Side { return t.side }

// AccountCode returns the code of the target account.
func (t *Transaction) AccountCode() int { return t.accountCode }

// Description returns the free-text description.
func (t *Transaction) Description() string { return t.description }

// Amount returns the amount in the transaction's own currency.
func (t *Transaction) Amount() decimal.Decimal { return t.amount }

// Currency returns the currency code of Amount.
func (t *Transaction) Currency() string { return t.currency }

// BookingType returns the posting category.
func (t *Transaction) BookingType() BookingType { return t.bookingType }

// Status returns the current lifecycle state.
func (t *Transaction) Status() Status { return t.status }

// IsCanceled reports whether the leg was canceled.
func (t *Transaction) IsCanceled() bool { return t.status == StatusCanceled }

// Transition moves the transaction to status to. Re-entering the current
// status is a no-op. A canceled transaction can never become booked again.
func (t *Transaction) Transition(to Status) error {
	switch to {
	case StatusBooked:
		if t.status == StatusCanceled {
			return fmt.Errorf("%w: transaction %d %s -> %s", ErrIllegalTransition, t.id, t.status, to)
		}
	case StatusCanceled:
	default:
		return invalid("status", "unknown status %q", to)
	}
	t.status = to
	return nil
}

// Book marks the transaction as booked.
func (t *Transaction) Book() error { return t.Transition(StatusBooked) }

// Cancel marks the transaction as canceled. It never fails and does not undo
// any balance effect already applied to an account.
func (t *Transaction) Cancel() {
	_ = t.Transition(StatusCanceled)
}

// TransactionSnapshot is the serialized form of a Transaction.
type TransactionSnapshot struct {
	ID              int             `json:"id"`
	TransactionSide Side            `json:"transactionSide"`
	AccountCode     int             `json:"accountCode"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	BookingType     BookingType     `json:"bookingType"`
	Status          Status          `json:"status"`
}

// Snapshot returns the serialized form of t.
func (t *Transaction) Snapshot() TransactionSnapshot {
	return TransactionSnapshot{
		ID:              t.id,
		TransactionSide: t.side,
		AccountCode:     t.accountCode,
		Description:     t.description,
		Amount:          t.amount,
		Currency:        t.currency,
		BookingType:     t.bookingType,
		Status:          t.status,
	}
}
