// Package models defines the domain types for zttl.
package models

import "time"

// NoteFile is a lightweight representation of a vault file returned by list
// operations.
type NoteFile struct {
	Path      string    `json:"path"` // relative to the vault root
	UpdatedAt time.Time `json:"updated_at"`
}

// Rename is one completed note conversion.
type Rename struct {
	OldTitle string `json:"old_title"`
	NewID    string `json:"new_id"`
	OldPath  string `json:"old_path"`
	NewPath  string `json:"new_path"`
}
