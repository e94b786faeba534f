// Package ledger records completed renames so they can be replayed into link
// text. Entries are only ever appended.
package ledger

import "fmt"

// Drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Separator sits between the old title and the new identifier on each line of
// the text ledger.
const Separator = " -> "

// Store is an append-only rename ledger.
type Store interface {
	// Append durably records that oldTitle was renamed to newID.
	Append(oldTitle, newID string) error
	// LoadAll returns old title -> identifier. When an old title occurs more
	// than once the latest entry wins.
	LoadAll() (map[string]string, error)
	Close() error
}

// Verify both backends satisfy Store at compile time.
var (
	_ Store = (*File)(nil)
	_ Store = (*SQLite)(nil)
)

// Open opens the ledger at path with the named driver. runID tags entries
// for backends that can store it.
func Open(driver, path, runID string) (Store, error) {
	switch driver {
	case DriverFile, "":
		return OpenFile(path)
	case DriverSQLite:
		return OpenSQLite(path, runID)
	default:
		return nil, fmt.Errorf("ledger: unknown driver %q", driver)
	}
}
