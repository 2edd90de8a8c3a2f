package journal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/bookkeeping/pkg/ledger"
)

const sampleJournal = `
accounts:
  - { type: Aktiv, code: 1020, name: Bank, aliases: [Post], balance: 1000 }
  - { type: Ertrag, code: 3200, name: Handelserlöse }
  - { type: Aufwand, code: 4000, name: Materialaufwand }
books:
  - { year: 2025, accounts: [1020, 3200] }
entries:
  - buchung: { id: 1, soll: 1020, haben: 3200, amount: 200, description: Verkauf }
  - transaction: { id: 3, side: Soll, account: 4000, description: Import, amount: 100, currency: USD, book: true }
  - cancel: 3
  - reverse: { id: 1, as: 10 }
  - closeBook: 2025
`

func newEngine(t *testing.T) *ledger.Engine {
	t.Helper()
	e, err := ledger.NewEngine(nil)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func balance(t *testing.T, e *ledger.Engine, code int) decimal.Decimal {
	t.Helper()
	acc, err := e.Account(code)
	if err != nil {
		t.Fatal(err)
	}
	return acc.Balance()
}

func TestReplay(t *testing.T) {
	j, err := Parse([]byte(sampleJournal))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	e := newEngine(t)
	stats, err := j.Replay(e)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if stats.Accounts != 3 || stats.Books != 1 || stats.Entries != 5 {
		t.Errorf("stats = %+v", stats)
	}

	tests := []struct {
		code int
		want string
	}{
		{1020, "1000"},
		{3200, "-200"},
		{4000, "92"},
	}
	for _, tt := range tests {
		if got := balance(t, e, tt.code); !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("balance(%d) = %s, want %s", tt.code, got, tt.want)
		}
	}

	status, err := e.TransactionStatus(3)
	if err != nil || status != ledger.StatusCanceled {
		t.Errorf("status(3) = %s, %v", status, err)
	}

	rev, err := e.Transaction(10)
	if err != nil {
		t.Fatal(err)
	}
	if rev.BookingType() != ledger.Rueckbuchung || rev.Side() != ledger.Haben {
		t.Errorf("reversal = %s %s", rev.BookingType(), rev.Side())
	}

	book, _ := e.Book(2025)
	if !book.IsClosed() {
		t.Error("book 2025 should be closed")
	}
	bank, _ := e.Account(1020)
	if !bank.IsFullyBookedForYear() {
		t.Error("bank should be fully booked")
	}
}

func TestReplayStopsAtFirstFailure(t *testing.T) {
	doc := `
accounts:
  - { type: Aktiv, code: 1000, name: Kasse }
entries:
  - transaction: { id: 5, side: Soll, account: 1000, amount: 10 }
  - cancel: 5
  - book: 5
  - closeAccount: 1000
`
	j, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	e := newEngine(t)
	stats, err := j.Replay(e)
	if !errors.Is(err, ledger.ErrTransactionCanceled) {
		t.Fatalf("Replay() error = %v, want ErrTransactionCanceled", err)
	}
	if !strings.Contains(err.Error(), "entry 2 (book)") {
		t.Errorf("error %q does not name the failing entry", err)
	}
	if stats.Entries != 2 {
		t.Errorf("applied entries = %d, want 2", stats.Entries)
	}

	kasse, _ := e.Account(1000)
	if kasse.IsClosed() {
		t.Error("entries after the failure must not be applied")
	}
}

func TestReplayWithTemplate(t *testing.T) {
	doc := `
template: standard
entries:
  - buchung: { id: 1, soll: 1000, haben: 3200, amount: 50 }
  - closeAccount: 1000
  - buchung: { id: 3, soll: 1000, haben: 3200, amount: 50 }
`
	j, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	e := newEngine(t)
	_, err = j.Replay(e)
	if !errors.Is(err, ledger.ErrAccountClosed) {
		t.Fatalf("Replay() error = %v, want ErrAccountClosed", err)
	}
	if got := balance(t, e, 1000); !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Kasse = %s, want 50", got)
	}
}

func TestReplayKeepsAmountPrecision(t *testing.T) {
	doc := `
accounts:
  - { type: Aktiv, code: 1020, name: Bank, balance: 0.000000000000000001 }
  - { type: Passiv, code: 2800, name: Eigenkapital }
entries:
  - buchung: { id: 1, soll: 1020, haben: 2800, amount: 12345678901234567.89 }
  - transaction: { id: 3, side: Haben, account: 1020, amount: "0.10", book: true }
`
	j, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	e := newEngine(t)
	if _, err := j.Replay(e); err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	want := decimal.RequireFromString("12345678901234567.790000000000000001")
	if got := balance(t, e, 1020); !got.Equal(want) {
		t.Errorf("Bank = %s, want %s", got, want)
	}
	if got := balance(t, e, 2800); !got.Equal(decimal.RequireFromString("-12345678901234567.89")) {
		t.Errorf("Eigenkapital = %s", got)
	}
}

func TestParseRejectsMalformedAmount(t *testing.T) {
	doc := "entries:\n  - buchung: { id: 1, soll: 1, haben: 2, amount: zehn }\n"
	if _, err := Parse([]byte(doc)); err == nil {
		t.Error("Parse() expected error for non-numeric amount")
	}
}

func TestParseRejectsAmbiguousEntries(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty entry", "entries:\n  - {}\n"},
		{"two steps", "entries:\n  - { cancel: 1, book: 1 }\n"},
		{"invalid yaml", "entries: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("Parse() expected error")
			}
		})
	}
}

func TestEntryKind(t *testing.T) {
	year := 2025
	tests := []struct {
		entry Entry
		want  string
	}{
		{Entry{CloseBook: &year}, "closeBook"},
		{Entry{Reverse: &Reversal{ID: 1, As: 2}}, "reverse"},
		{Entry{Buchung: &Buchung{}}, "buchung"},
		{Entry{}, ""},
		{Entry{CloseBook: &year, ReopenBook: &year}, ""},
	}

	for _, tt := range tests {
		if got := tt.entry.Kind(); got != tt.want {
			t.Errorf("Kind() = %q, want %q", got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2025.yaml")
	if err := os.WriteFile(path, []byte(sampleJournal), 0644); err != nil {
		t.Fatal(err)
	}
	j, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(j.Entries) != 5 {
		t.Errorf("entries = %d, want 5", len(j.Entries))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) expected error")
	}
}
