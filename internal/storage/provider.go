// Package storage defines the vault file-system abstraction.
package storage

import (
	"time"

	"github.com/starford/zttl/internal/models"
)

// Provider is the interface for vault file operations.
// All paths are relative to the vault root.
type Provider interface {
	// List returns every regular file under dir.
	List(dir string) ([]models.NoteFile, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the content of path, keeping its mode bits.
	Write(path string, content []byte) error
	// Move renames oldPath to newPath. It fails with apperr.ErrAlreadyExists
	// instead of replacing an existing file.
	Move(oldPath, newPath string) error
	// Exists reports whether path exists.
	Exists(path string) (bool, error)
	// Created returns the creation time the file system records for path.
	Created(path string) (time.Time, error)
}
