package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/bookkeeping/pkg/ledger"
)

// SnapshotRecord represents an archived snapshot header.
type SnapshotRecord struct {
	ID               int64
	Source           string
	DefaultCurrency  string
	AccountCount     int
	TransactionCount int
	BookCount        int
	RecordedAt       time.Time
}

// BalanceRecord represents an account balance at snapshot time.
type BalanceRecord struct {
	AccountCode int
	AccountType string
	Name        string
	Balance     decimal.Decimal
	Closed      bool
	FullyBooked bool
}

// PostingRecord represents one archived account log entry.
type PostingRecord struct {
	AccountCode      int
	Seq              int
	TransactionID    int
	Side             ledger.Side
	ConvertedAmount  decimal.Decimal
	OriginalAmount   decimal.Decimal
	OriginalCurrency string
	Status           ledger.Status
}

// Archive manages archived snapshots.
type Archive struct {
	conn *Connection
	db   *sql.DB
}

// NewArchive creates a new Archive instance.
func NewArchive(conn *Connection) *Archive {
	return &Archive{conn: conn, db: conn.db}
}

// RecordSnapshot stores snap with its balances and postings in one database
// transaction and returns the snapshot id.
func (a *Archive) RecordSnapshot(source string, snap ledger.Snapshot) (int64, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	var snapshotID int64
	err = a.conn.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO snapshots (source, default_currency, account_count, transaction_count, book_count, payload)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			source,
			snap.Config.DefaultCurrency,
			len(snap.Accounts),
			len(snap.Transactions),
			len(snap.Books),
			string(payload),
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
		snapshotID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get snapshot id: %w", err)
		}

		for _, acc := range snap.Accounts {
			if _, err := tx.Exec(`
				INSERT INTO account_balances (snapshot_id, account_code, account_type, name, balance, closed, fully_booked)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`,
				snapshotID,
				acc.Code,
				string(acc.Type),
				acc.Name,
				acc.Balance.String(),
				acc.Closed,
				acc.FullyBookedForYear,
			); err != nil {
				return fmt.Errorf("failed to insert balance of account %d: %w", acc.Code, err)
			}

			for seq, entry := range acc.TransactionLog {
				if _, err := tx.Exec(`
					INSERT INTO postings (snapshot_id, account_code, seq, transaction_id, side, converted_amount, original_amount, original_currency, status)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				`,
					snapshotID,
					acc.Code,
					seq,
					entry.TransactionID,
					string(entry.TransactionSide),
					entry.ConvertedAmount.String(),
					entry.OriginalAmount.String(),
					entry.OriginalCurrency,
					string(entry.TransactionStatus),
				); err != nil {
					return fmt.Errorf("failed to insert posting %d of account %d: %w", seq, acc.Code, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return snapshotID, nil
}

// GetSnapshot retrieves a snapshot header by id.
// Returns nil if no such snapshot exists.
func (a *Archive) GetSnapshot(id int64) (*SnapshotRecord, error) {
	query := `
		SELECT id, source, default_currency, account_count, transaction_count, book_count, recorded_at
		FROM snapshots
		WHERE id = ?
	`

	var record SnapshotRecord
	err := a.db.QueryRow(query, id).Scan(
		&record.ID,
		&record.Source,
		&record.DefaultCurrency,
		&record.AccountCount,
		&record.TransactionCount,
		&record.BookCount,
		&record.RecordedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return &record, nil
}

// LoadSnapshot decodes the archived snapshot payload.
func (a *Archive) LoadSnapshot(id int64) (*ledger.Snapshot, error) {
	var payload string
	err := a.db.QueryRow(`SELECT payload FROM snapshots WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot %d: %w", id, ledger.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot payload: %w", err)
	}

	var snap ledger.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot payload: %w", err)
	}
	return &snap, nil
}

// Balances retrieves the account balances of a snapshot ordered by code.
func (a *Archive) Balances(snapshotID int64) ([]BalanceRecord, error) {
	query := `
		SELECT account_code, account_type, name, balance, closed, fully_booked
		FROM account_balances
		WHERE snapshot_id = ?
		ORDER BY account_code
	`

	rows, err := a.db.Query(query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	defer rows.Close()

	var records []BalanceRecord
	for rows.Next() {
		var record BalanceRecord
		var balance string
		if err := rows.Scan(
			&record.AccountCode,
			&record.AccountType,
			&record.Name,
			&balance,
			&record.Closed,
			&record.FullyBooked,
		); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		if record.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("invalid balance %q for account %d: %w", balance, record.AccountCode, err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Postings retrieves the archived log entries of one account in application
// order.
func (a *Archive) Postings(snapshotID int64, accountCode int) ([]PostingRecord, error) {
	query := `
		SELECT account_code, seq, transaction_id, side, converted_amount, original_amount, original_currency, status
		FROM postings
		WHERE snapshot_id = ? AND account_code = ?
		ORDER BY seq
	`

	rows, err := a.db.Query(query, snapshotID, accountCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get postings: %w", err)
	}
	defer rows.Close()

	var records []PostingRecord
	for rows.Next() {
		var record PostingRecord
		var side, status, converted, original string
		if err := rows.Scan(
			&record.AccountCode,
			&record.Seq,
			&record.TransactionID,
			&side,
			&converted,
			&original,
			&record.OriginalCurrency,
			&status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		record.Side = ledger.Side(side)
		record.Status = ledger.Status(status)
		if record.ConvertedAmount, err = decimal.NewFromString(converted); err != nil {
			return nil, fmt.Errorf("invalid converted amount %q: %w", converted, err)
		}
		if record.OriginalAmount, err = decimal.NewFromString(original); err != nil {
			return nil, fmt.Errorf("invalid original amount %q: %w", original, err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Stats represents archive statistics.
type Stats struct {
	TotalSnapshots int
	TotalPostings  int
	LastRecorded   sql.NullString
}

// GetStats retrieves archive statistics.
func (a *Archive) GetStats() (*Stats, error) {
	var stats Stats

	err := a.db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&stats.TotalSnapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot count: %w", err)
	}

	err = a.db.QueryRow(`SELECT COUNT(*) FROM postings`).Scan(&stats.TotalPostings)
	if err != nil {
		return nil, fmt.Errorf("failed to get posting count: %w", err)
	}

	err = a.db.QueryRow(`SELECT MAX(recorded_at) FROM snapshots`).Scan(&stats.LastRecorded)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last recorded time: %w", err)
	}

	return &stats, nil
}
