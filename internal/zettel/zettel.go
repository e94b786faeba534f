// Package zettel derives timestamp-prefixed identifiers from note titles and
// recognises names that already follow that convention.
package zettel

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Extension is the extension given to every converted note.
const Extension = ".md"

var (
	convertedRe  = regexp.MustCompile(`^\d{10}-[a-zA-Z0-9-]+$`)
	identifierRe = regexp.MustCompile(`^\d{10}-[a-zA-Z0-9-]*$`)
	strippedRe   = regexp.MustCompile(`[^a-zA-Z0-9 ]`)
	separators   = strings.NewReplacer("_", " ", "-", " ")
)

// Normalize builds the identifier `<timestamp>-<slug>` for title.
//
// Leading and trailing spaces are not trimmed and become hyphens in the slug.
// A title with no usable characters yields an identifier ending in a bare
// hyphen.
func Normalize(title, timestamp string) string {
	slug := separators.Replace(title)
	slug = strippedRe.ReplaceAllString(slug, "")
	slug = strings.ToLower(slug)
	slug = strings.ReplaceAll(slug, " ", "-")
	return timestamp + "-" + slug
}

// IsConverted reports whether name already matches the identifier convention.
func IsConverted(name string) bool {
	return convertedRe.MatchString(name)
}

// IsIdentifier reports whether id could have been produced by Normalize,
// including the degenerate form with an empty slug that IsConverted rejects.
func IsIdentifier(id string) bool {
	return identifierRe.MatchString(id)
}

// Timestamp formats t as zero-padded Unix seconds.
func Timestamp(t time.Time) string {
	return fmt.Sprintf("%010d", t.Unix())
}

// Title returns the base name of path without its extension.
func Title(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FileName returns the note file name for id.
func FileName(id string) string {
	return id + Extension
}

// Filter decides which vault files take part in conversion.
type Filter struct {
	// Extensions lists accepted extensions including the leading dot.
	// Matching is case-sensitive.
	Extensions []string
	// Exclude rejects any file name containing this substring. Empty disables it.
	Exclude string
}

// DefaultFilter accepts .md files whose names do not contain "excalidraw".
func DefaultFilter() Filter {
	return Filter{Extensions: []string{Extension}, Exclude: "excalidraw"}
}

// IsMarkdown reports whether name carries one of the accepted extensions.
func (f Filter) IsMarkdown(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range f.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Excluded reports whether name contains the exclusion substring.
func (f Filter) Excluded(name string) bool {
	return f.Exclude != "" && strings.Contains(filepath.Base(name), f.Exclude)
}

// Match reports whether name is a markdown file that is not excluded.
func (f Filter) Match(name string) bool {
	return f.IsMarkdown(name) && !f.Excluded(name)
}
