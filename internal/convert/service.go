// Package convert renames vault notes to timestamp identifiers and replays
// the renames into wikilinks.
package convert

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/starford/zttl/internal/apperr"
	"github.com/starford/zttl/internal/ledger"
	"github.com/starford/zttl/internal/models"
	"github.com/starford/zttl/internal/parser"
	"github.com/starford/zttl/internal/storage"
	"github.com/starford/zttl/internal/zettel"
)

// Failure is a file that could not be processed.
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Report summarises one pipeline pass.
type Report struct {
	Renamed  []models.Rename `json:"renamed"`
	Skipped  int             `json:"skipped"`
	Relinked []string        `json:"relinked"`
	Failed   []Failure       `json:"failed"`
}

// Err returns a non-nil error when any file failed.
func (r *Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("convert: %d file(s) failed", len(r.Failed))
}

func (r *Report) fail(path string, err error) {
	r.Failed = append(r.Failed, Failure{Path: path, Error: err.Error()})
}

// Service coordinates storage and ledger operations.
type Service struct {
	store  storage.Provider
	ledger ledger.Store
	filter zettel.Filter
	logger *slog.Logger
}

// NewService creates a new conversion service.
func NewService(store storage.Provider, l ledger.Store, filter zettel.Filter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, ledger: l, filter: filter, logger: logger}
}

// Run renames every eligible note, then rewrites links using the full ledger.
func (s *Service) Run() (*Report, error) {
	report, err := s.WalkAndRename()
	if err != nil {
		return report, err
	}
	relinked, err := s.RelinkVault()
	if err != nil {
		return report, err
	}
	report.Relinked = relinked.Relinked
	report.Failed = append(report.Failed, relinked.Failed...)
	return report, nil
}

// Rename converts a single note: header injection, then the move to
// `<id>.md`. Content is rewritten before the move so an interrupted rename
// leaves the new header under the old name and never the reverse.
func (s *Service) Rename(path string) (models.Rename, error) {
	if !s.filter.IsMarkdown(path) {
		return models.Rename{}, fmt.Errorf("convert: %s: %w", path, apperr.ErrNotMarkdown)
	}

	data, err := s.store.Read(path)
	if err != nil {
		return models.Rename{}, err
	}
	title := zettel.Title(path)

	// A header naming this title as its alias means an earlier run wrote the
	// content but did not finish the move. A header id equal to the title is
	// a note converted with an empty slug that the name check cannot recognise.
	if h, ok := parser.ParseHeader(data); ok {
		switch {
		case h.ID == title:
			return models.Rename{}, fmt.Errorf("convert: %s: %w", path, apperr.ErrConverted)
		case zettel.IsIdentifier(h.ID) && slices.Contains(h.Aliases, title):
			return s.move(path, title, h.ID)
		}
		return models.Rename{}, fmt.Errorf("convert: %s: id %q: %w", path, h.ID, apperr.ErrHeaderPresent)
	}

	created, err := s.store.Created(path)
	if err != nil {
		return models.Rename{}, err
	}
	id := zettel.Normalize(title, zettel.Timestamp(created))
	newPath := siblingPath(path, id)

	exists, err := s.store.Exists(newPath)
	if err != nil {
		return models.Rename{}, err
	}
	if exists {
		return models.Rename{}, fmt.Errorf("convert: %s: target %s: %w", path, newPath, apperr.ErrAlreadyExists)
	}

	header := parser.Header{ID: id, Aliases: []string{title}}
	if err := s.store.Write(path, parser.Inject(header, data)); err != nil {
		return models.Rename{}, err
	}
	return s.move(path, title, id)
}

func (s *Service) move(path, title, id string) (models.Rename, error) {
	newPath := siblingPath(path, id)
	if err := s.store.Move(path, newPath); err != nil {
		return models.Rename{}, err
	}
	return models.Rename{OldTitle: title, NewID: id, OldPath: path, NewPath: newPath}, nil
}

func siblingPath(path, id string) string {
	return filepath.Join(filepath.Dir(path), zettel.FileName(id))
}

// WalkAndRename renames every eligible, unconverted note and appends each
// rename to the ledger. A failed note is logged and skipped; a failed ledger
// append stops the walk.
func (s *Service) WalkAndRename() (*Report, error) {
	files, err := s.store.List("")
	if err != nil {
		return &Report{}, err
	}

	report := &Report{}
	for _, f := range files {
		if !s.filter.Match(f.Path) {
			continue
		}
		if zettel.IsConverted(zettel.Title(f.Path)) {
			report.Skipped++
			continue
		}

		r, err := s.Rename(f.Path)
		if errors.Is(err, apperr.ErrConverted) {
			report.Skipped++
			continue
		}
		if errors.Is(err, apperr.ErrHeaderPresent) {
			s.logger.Info("convert: header present, skipped", slog.String("path", f.Path), slog.String("error", err.Error()))
			report.Skipped++
			continue
		}
		if err != nil {
			s.logger.Warn("convert: rename failed", slog.String("path", f.Path), slog.String("error", err.Error()))
			report.fail(f.Path, err)
			continue
		}
		if err := s.ledger.Append(r.OldTitle, r.NewID); err != nil {
			return report, fmt.Errorf("convert: record %s: %w", r.NewPath, err)
		}
		s.logger.Info("convert: renamed",
			slog.String("path", r.OldPath),
			slog.String("new_path", r.NewPath),
			slog.String("id", r.NewID))
		report.Renamed = append(report.Renamed, r)
	}
	return report, nil
}

// RelinkVault rewrites wikilinks inside every renamed note using the whole
// ledger. A ledger that fails to load aborts before any file is touched.
func (s *Service) RelinkVault() (*Report, error) {
	table, err := s.ledger.LoadAll()
	if err != nil {
		return &Report{}, fmt.Errorf("relink: load ledger: %w", err)
	}

	targets := make(map[string]struct{}, len(table))
	for _, id := range table {
		targets[id] = struct{}{}
	}
	rw := parser.NewRewriter(table)

	files, err := s.store.List("")
	if err != nil {
		return &Report{}, err
	}

	report := &Report{}
	for _, f := range files {
		if !s.filter.Match(f.Path) {
			continue
		}
		if _, ok := targets[zettel.Title(f.Path)]; !ok {
			continue
		}
		changed, err := s.relinkFile(rw, f.Path)
		if err != nil {
			s.logger.Warn("relink: update failed", slog.String("path", f.Path), slog.String("error", err.Error()))
			report.fail(f.Path, err)
			continue
		}
		if changed {
			s.logger.Info("relink: updated", slog.String("path", f.Path))
			report.Relinked = append(report.Relinked, f.Path)
		}
	}
	return report, nil
}

func (s *Service) relinkFile(rw *parser.Rewriter, path string) (bool, error) {
	data, err := s.store.Read(path)
	if err != nil {
		return false, err
	}
	out, changed := rw.Rewrite(string(data))
	if !changed {
		return false, nil
	}
	if err := s.store.Write(path, []byte(out)); err != nil {
		return false, err
	}
	return true, nil
}

// Lookup returns the identifier recorded for oldTitle.
func (s *Service) Lookup(oldTitle string) (string, bool, error) {
	table, err := s.ledger.LoadAll()
	if err != nil {
		return "", false, err
	}
	id, ok := table[oldTitle]
	return id, ok, nil
}

// Renames returns the full ledger table.
func (s *Service) Renames() (map[string]string, error) {
	return s.ledger.LoadAll()
}
