// Package ledger implements the double-entry bookkeeping core: accounts,
// transaction legs, fiscal-year books and the engine that books legs onto
// accounts.
//
// An Engine is not safe for concurrent use. Callers sharing one across
// goroutines must serialise every call themselves.
package ledger

// AccountType is the category of a ledger account.
type AccountType string

const (
	Aktiv   AccountType = "Aktiv"   // asset
	Passiv  AccountType = "Passiv"  // liability
	Aufwand AccountType = "Aufwand" // expense
	Ertrag  AccountType = "Ertrag"  // revenue
)

// AccountTypes lists the accepted account types in canonical order.
var AccountTypes = []AccountType{Aktiv, Passiv, Aufwand, Ertrag}

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Aktiv, Passiv, Aufwand, Ertrag:
		return true
	}
	return false
}

// Side is the posting side of a transaction leg.
type Side string

const (
	Soll  Side = "Soll"  // debit-like, increases the balance
	Haben Side = "Haben" // credit-like, decreases the balance
)

// Sides lists the accepted transaction sides.
var Sides = []Side{Soll, Haben}

// IsValid reports whether s is Soll or Haben.
func (s Side) IsValid() bool {
	return s == Soll || s == Haben
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Soll {
		return Haben
	}
	return Soll
}

// BookingType classifies the posting a leg belongs to.
type BookingType string

const (
	Buchung            BookingType = "Buchung"
	Sammelbuchung      BookingType = "Sammelbuchung"
	Splitsammelbuchung BookingType = "Splitsammelbuchung"
	Rueckbuchung       BookingType = "Rückbuchung"
)

// BookingTypes lists the accepted booking types.
var BookingTypes = []BookingType{Buchung, Sammelbuchung, Splitsammelbuchung, Rueckbuchung}

// IsValid reports whether b is a known booking type.
func (b BookingType) IsValid() bool {
	switch b {
	case Buchung, Sammelbuchung, Splitsammelbuchung, Rueckbuchung:
		return true
	}
	return false
}

// Status is the lifecycle state of a transaction. "booked" means not
// canceled; it says nothing about whether the leg was applied to an account.
type Status string

const (
	StatusBooked   Status = "booked"
	StatusCanceled Status = "canceled"
)
