// Package audit archives exported engine snapshots in SQLite so that balances
// and applied postings can be inspected after a run. The archive is write-only
// from the engine's point of view; engine state is never restored from it.
package audit

import "database/sql"

// Schema defines the SQL statements to create database tables.
const Schema = `
-- One row per exported engine snapshot
CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,              -- journal file or other origin
    default_currency TEXT NOT NULL,
    account_count INTEGER NOT NULL,
    transaction_count INTEGER NOT NULL,
    book_count INTEGER NOT NULL,
    payload TEXT NOT NULL,             -- full snapshot JSON
    recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Account balances at snapshot time
CREATE TABLE IF NOT EXISTS account_balances (
    snapshot_id INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
    account_code INTEGER NOT NULL,
    account_type TEXT NOT NULL,
    name TEXT NOT NULL,
    balance TEXT NOT NULL,             -- decimal string, default currency
    closed INTEGER NOT NULL,
    fully_booked INTEGER NOT NULL,
    PRIMARY KEY (snapshot_id, account_code)
);

-- Applied postings, one per account log entry, in application order
CREATE TABLE IF NOT EXISTS postings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    snapshot_id INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
    account_code INTEGER NOT NULL,
    seq INTEGER NOT NULL,
    transaction_id INTEGER NOT NULL,
    side TEXT NOT NULL,                -- 'Soll' or 'Haben'
    converted_amount TEXT NOT NULL,
    original_amount TEXT NOT NULL,
    original_currency TEXT NOT NULL,
    status TEXT NOT NULL,
    UNIQUE(snapshot_id, account_code, seq)
);

CREATE INDEX IF NOT EXISTS idx_postings_account
    ON postings(snapshot_id, account_code);
`

func initializeSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
