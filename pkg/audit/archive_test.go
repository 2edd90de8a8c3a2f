package audit

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/bookkeeping/pkg/ledger"
)

func openTestArchive(t *testing.T) (*Connection, *Archive) {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "audit", "audit.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, NewArchive(conn)
}

func sampleSnapshot(t *testing.T) ledger.Snapshot {
	t.Helper()
	e, err := ledger.NewEngine(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.CreateAccount(ledger.Aktiv, 1020, "Bank", nil, decimal.NewFromInt(1000)); err != nil {
		t.Fatal(err)
	}
	if _, err := e.CreateAccount(ledger.Ertrag, 3200, "Handelserlöse", []string{"Verkauf"}, decimal.Zero); err != nil {
		t.Fatal(err)
	}
	if _, err := e.PerformBuchung(1, 1020, 3200, decimal.NewFromInt(100), "USD", "Export"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.PerformBuchung(3, 1020, 3200, decimal.NewFromInt(50), "", "Inland"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.CreateBook(2025); err != nil {
		t.Fatal(err)
	}
	return e.Snapshot()
}

func TestRecordSnapshot(t *testing.T) {
	_, archive := openTestArchive(t)
	snap := sampleSnapshot(t)

	id, err := archive.RecordSnapshot("journals/2025.yaml", snap)
	if err != nil {
		t.Fatalf("RecordSnapshot() error = %v", err)
	}

	record, err := archive.GetSnapshot(id)
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if record == nil {
		t.Fatal("GetSnapshot() returned nil")
	}
	if record.Source != "journals/2025.yaml" || record.DefaultCurrency != "CHF" {
		t.Errorf("record = %+v", record)
	}
	if record.AccountCount != 2 || record.TransactionCount != 4 || record.BookCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/4/1", record.AccountCount, record.TransactionCount, record.BookCount)
	}

	missing, err := archive.GetSnapshot(id + 1)
	if err != nil || missing != nil {
		t.Errorf("GetSnapshot(missing) = %v, %v", missing, err)
	}
}

func TestBalancesAndPostings(t *testing.T) {
	_, archive := openTestArchive(t)
	id, err := archive.RecordSnapshot("test", sampleSnapshot(t))
	if err != nil {
		t.Fatal(err)
	}

	balances, err := archive.Balances(id)
	if err != nil {
		t.Fatalf("Balances() error = %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("balances = %d, want 2", len(balances))
	}
	want := map[int]string{1020: "1142", 3200: "-142"}
	for _, b := range balances {
		if !b.Balance.Equal(decimal.RequireFromString(want[b.AccountCode])) {
			t.Errorf("balance(%d) = %s, want %s", b.AccountCode, b.Balance, want[b.AccountCode])
		}
	}
	if balances[0].AccountCode != 1020 || balances[0].AccountType != string(ledger.Aktiv) {
		t.Errorf("first balance = %+v", balances[0])
	}

	postings, err := archive.Postings(id, 3200)
	if err != nil {
		t.Fatalf("Postings() error = %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("postings = %d, want 2", len(postings))
	}
	first := postings[0]
	if first.TransactionID != 2 || first.Side != ledger.Haben || first.OriginalCurrency != "USD" {
		t.Errorf("first posting = %+v", first)
	}
	if !first.ConvertedAmount.Equal(decimal.NewFromInt(92)) || !first.OriginalAmount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("amounts = %s / %s", first.ConvertedAmount, first.OriginalAmount)
	}
	if postings[1].Seq != 1 || postings[1].Status != ledger.StatusBooked {
		t.Errorf("second posting = %+v", postings[1])
	}
}

func TestLoadSnapshot(t *testing.T) {
	_, archive := openTestArchive(t)
	snap := sampleSnapshot(t)
	id, err := archive.RecordSnapshot("test", snap)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := archive.LoadSnapshot(id)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if len(loaded.Accounts) != len(snap.Accounts) || len(loaded.Transactions) != len(snap.Transactions) {
		t.Errorf("loaded %d accounts / %d transactions", len(loaded.Accounts), len(loaded.Transactions))
	}
	if loaded.Config.DefaultCurrency != "CHF" {
		t.Errorf("config currency = %s", loaded.Config.DefaultCurrency)
	}

	if _, err := archive.LoadSnapshot(id + 10); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("LoadSnapshot(missing) error = %v, want ErrNotFound", err)
	}
}

func TestGetStats(t *testing.T) {
	_, archive := openTestArchive(t)

	stats, err := archive.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalSnapshots != 0 || stats.LastRecorded.Valid {
		t.Errorf("empty stats = %+v", stats)
	}

	snap := sampleSnapshot(t)
	for i := 0; i < 2; i++ {
		if _, err := archive.RecordSnapshot("test", snap); err != nil {
			t.Fatal(err)
		}
	}

	stats, err = archive.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSnapshots != 2 || stats.TotalPostings != 8 {
		t.Errorf("stats = %+v, want 2 snapshots and 8 postings", stats)
	}
	if !stats.LastRecorded.Valid {
		t.Error("LastRecorded should be set")
	}
}
