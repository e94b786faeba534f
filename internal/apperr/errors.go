package apperr

import "errors"

var (
	ErrNotMarkdown   = errors.New("not a markdown file")
	ErrLedgerCorrupt = errors.New("ledger corrupt")
	ErrAlreadyExists = errors.New("already exists")
	ErrHeaderPresent = errors.New("metadata header already present")
	ErrConverted     = errors.New("already converted")
)
