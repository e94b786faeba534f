package ledger

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/zttl/internal/apperr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS renames (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	old_title  TEXT NOT NULL,
	new_id     TEXT NOT NULL,
	run_id     TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_renames_new_id ON renames(new_id);
`

// SQLite keeps the ledger in a renames table ordered by insertion sequence.
type SQLite struct {
	conn  *sql.DB
	runID string
}

// OpenSQLite opens (or creates) the database at dsn and applies the schema.
func OpenSQLite(dsn, runID string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("ledger: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger: apply schema: %w", err)
	}
	return &SQLite{conn: conn, runID: runID}, nil
}

// Append inserts one row.
func (l *SQLite) Append(oldTitle, newID string) error {
	_, err := l.conn.Exec(`INSERT INTO renames (old_title, new_id, run_id) VALUES (?, ?, ?)`,
		oldTitle, newID, l.runID)
	if err != nil {
		return fmt.Errorf("ledger: append: %w", err)
	}
	return nil
}

// LoadAll replays rows in insertion order. A row with an empty identifier
// fails the load.
func (l *SQLite) LoadAll() (map[string]string, error) {
	rows, err := l.conn.Query(`SELECT seq, old_title, new_id FROM renames ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("ledger: load: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var (
			seq      int64
			old, nid string
		)
		if err := rows.Scan(&seq, &old, &nid); err != nil {
			return nil, fmt.Errorf("ledger: scan: %w", err)
		}
		if nid == "" {
			return nil, fmt.Errorf("ledger: row %d: empty identifier: %w", seq, apperr.ErrLedgerCorrupt)
		}
		out[old] = nid
	}
	return out, rows.Err()
}

// Close closes the underlying database connection.
func (l *SQLite) Close() error {
	return l.conn.Close()
}
