// Package journal replays a YAML journal of accounts, books and postings
// against an engine.
package journal

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/shunichi-ikebuchi/bookkeeping/pkg/ledger"
	"github.com/shunichi-ikebuchi/bookkeeping/pkg/templates"
)

// Journal represents a journal file.
type Journal struct {
	Config   string    `yaml:"config"`   // bookkeeping config file or "standard-config"
	Template string    `yaml:"template"` // chart of accounts to preload
	Accounts []Account `yaml:"accounts"`
	Books    []Book    `yaml:"books"`
	Entries  []Entry   `yaml:"entries"`
}

// Account declares an account to create.
type Account struct {
	Type    ledger.AccountType `yaml:"type"`
	Code    int                `yaml:"code"`
	Name    string             `yaml:"name"`
	Aliases []string           `yaml:"aliases"`
	Balance decimal.Decimal    `yaml:"balance"`
}

// Book declares a fiscal-year book and the accounts it references.
type Book struct {
	Year     int   `yaml:"year"`
	Accounts []int `yaml:"accounts"`
}

// Transaction declares a single leg. Book applies it right away.
type Transaction struct {
	ID          int                `yaml:"id"`
	Side        ledger.Side        `yaml:"side"`
	Account     int                `yaml:"account"`
	Description string             `yaml:"description"`
	Amount      decimal.Decimal    `yaml:"amount"`
	Currency    string             `yaml:"currency"`
	Type        ledger.BookingType `yaml:"type"`
	Book        bool               `yaml:"book"`
}

// Buchung declares a standard two-legged posting.
type Buchung struct {
	ID          int             `yaml:"id"`
	Soll        int             `yaml:"soll"`
	Haben       int             `yaml:"haben"`
	Amount      decimal.Decimal `yaml:"amount"`
	Currency    string          `yaml:"currency"`
	Description string          `yaml:"description"`
}

// Reversal declares a Rückbuchung of ID booked under As.
type Reversal struct {
	ID int `yaml:"id"`
	As int `yaml:"as"`
}

// Entry is one journal step. Exactly one field must be set.
type Entry struct {
	Transaction   *Transaction `yaml:"transaction"`
	Buchung       *Buchung     `yaml:"buchung"`
	Book          *int         `yaml:"book"`
	Cancel        *int         `yaml:"cancel"`
	Reverse       *Reversal    `yaml:"reverse"`
	CloseBook     *int         `yaml:"closeBook"`
	ReopenBook    *int         `yaml:"reopenBook"`
	CloseAccount  *int         `yaml:"closeAccount"`
	ReopenAccount *int         `yaml:"reopenAccount"`
}

// Kind names the step an entry describes, or "" if none or several are set.
func (e Entry) Kind() string {
	kinds := map[string]bool{
		"transaction":   e.Transaction != nil,
		"buchung":       e.Buchung != nil,
		"book":          e.Book != nil,
		"cancel":        e.Cancel != nil,
		"reverse":       e.Reverse != nil,
		"closeBook":     e.CloseBook != nil,
		"reopenBook":    e.ReopenBook != nil,
		"closeAccount":  e.CloseAccount != nil,
		"reopenAccount": e.ReopenAccount != nil,
	}

	kind := ""
	for name, set := range kinds {
		if !set {
			continue
		}
		if kind != "" {
			return ""
		}
		kind = name
	}
	return kind
}

// Load reads a journal file.
func Load(path string) (*Journal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a journal document and checks every entry names one step.
func Parse(data []byte) (*Journal, error) {
	var j Journal
	if err := yaml.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	for i, entry := range j.Entries {
		if entry.Kind() == "" {
			return nil, fmt.Errorf("entry %d: exactly one step must be set", i)
		}
	}
	return &j, nil
}

// Stats summarises a replay.
type Stats struct {
	Accounts int
	Books    int
	Entries  int
}

// Replay applies the journal to e in file order: template, accounts, books,
// then entries. It stops at the first failure; everything before it stays
// applied.
func (j *Journal) Replay(e *ledger.Engine) (Stats, error) {
	var stats Stats

	if j.Template != "" {
		chart, err := templates.Load(j.Template)
		if err != nil {
			return stats, err
		}
		if err := chart.Apply(e); err != nil {
			return stats, err
		}
		stats.Accounts += len(chart.Entries)
	}

	for _, acc := range j.Accounts {
		if _, err := e.CreateAccount(acc.Type, acc.Code, acc.Name, acc.Aliases, acc.Balance); err != nil {
			return stats, fmt.Errorf("account %d: %w", acc.Code, err)
		}
		stats.Accounts++
	}

	for _, b := range j.Books {
		if _, err := e.CreateBook(b.Year); err != nil {
			return stats, fmt.Errorf("book %d: %w", b.Year, err)
		}
		for _, code := range b.Accounts {
			if err := e.AddAccountToBook(b.Year, code); err != nil {
				return stats, fmt.Errorf("book %d: %w", b.Year, err)
			}
		}
		stats.Books++
	}

	for i, entry := range j.Entries {
		if err := apply(e, entry); err != nil {
			return stats, fmt.Errorf("entry %d (%s): %w", i, entry.Kind(), err)
		}
		stats.Entries++
	}

	return stats, nil
}

func apply(e *ledger.Engine, entry Entry) error {
	switch {
	case entry.Transaction != nil:
		t := entry.Transaction
		tx, err := e.CreateTransaction(t.ID, t.Side, t.Account, t.Description, t.Amount, t.Currency, t.Type)
		if err != nil {
			return err
		}
		if t.Book {
			_, err = e.BookTransaction(tx.ID())
		}
		return err
	case entry.Buchung != nil:
		b := entry.Buchung
		_, err := e.PerformBuchung(b.ID, b.Soll, b.Haben, b.Amount, b.Currency, b.Description)
		return err
	case entry.Book != nil:
		_, err := e.BookTransaction(*entry.Book)
		return err
	case entry.Cancel != nil:
		_, err := e.CancelTransaction(*entry.Cancel)
		return err
	case entry.Reverse != nil:
		_, err := e.ReverseTransaction(entry.Reverse.ID, entry.Reverse.As)
		return err
	case entry.CloseBook != nil:
		return e.CloseBook(*entry.CloseBook)
	case entry.ReopenBook != nil:
		return e.ReopenBook(*entry.ReopenBook)
	case entry.CloseAccount != nil:
		acc, err := e.Account(*entry.CloseAccount)
		if err != nil {
			return err
		}
		acc.Close()
		return nil
	case entry.ReopenAccount != nil:
		acc, err := e.Account(*entry.ReopenAccount)
		if err != nil {
			return err
		}
		acc.Reopen()
		return nil
	}
	return fmt.Errorf("empty entry")
}
