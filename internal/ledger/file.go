package ledger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/zttl/internal/apperr"
)

// File is the text ledger: one `<old> -> <new>` line per entry.
type File struct {
	path string
	f    *os.File
}

// OpenFile opens path for appending, creating it if needed. The handle stays
// open until Close.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ledger: mkdir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("ledger: open %s: %w", path, err)
	}
	return &File{path: path, f: f}, nil
}

// Path returns the ledger file location.
func (l *File) Path() string {
	return l.path
}

// Append writes one line and syncs it to disk.
func (l *File) Append(oldTitle, newID string) error {
	if _, err := l.f.WriteString(oldTitle + Separator + newID + "\n"); err != nil {
		return fmt.Errorf("ledger: append: %w", err)
	}
	if err := l.f.Sync(); err != nil {
		return fmt.Errorf("ledger: fsync: %w", err)
	}
	return nil
}

// LoadAll reads the whole file. Any line without the separator fails the load.
func (l *File) LoadAll() (map[string]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open %s: %w", l.path, err)
	}
	defer f.Close()
	return parse(f.Name(), bufio.NewScanner(f))
}

func parse(name string, sc *bufio.Scanner) (map[string]string, error) {
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := make(map[string]string)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")
		// Identifiers never contain the separator, so the last one splits.
		i := strings.LastIndex(line, Separator)
		if i < 0 {
			return nil, fmt.Errorf("ledger: %s:%d: missing %q: %w", name, lineNo, Separator, apperr.ErrLedgerCorrupt)
		}
		out[line[:i]] = strings.TrimSpace(line[i+len(Separator):])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ledger: read %s: %w", name, err)
	}
	return out, nil
}

// Close closes the append handle.
func (l *File) Close() error {
	return l.f.Close()
}
