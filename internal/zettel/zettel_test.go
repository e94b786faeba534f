package zettel

import (
	"testing"
	"time"
)

func TestNormalize_Basic(t *testing.T) {
	got := Normalize("My Note", "1700000000")
	if got != "1700000000-my-note" {
		t.Errorf("Normalize = %q, want %q", got, "1700000000-my-note")
	}
}

func TestNormalize_SeparatorsAndSymbols(t *testing.T) {
	cases := map[string]string{
		"snake_case_title":   "1700000000-snake-case-title",
		"Already-Hyphenated": "1700000000-already-hyphenated",
		"What? (Draft) #2":   "1700000000-what-draft-2",
		"Café au lait":       "1700000000-caf-au-lait",
		" padded ":           "1700000000--padded-",
		"a  b":               "1700000000-a--b",
	}
	for title, want := range cases {
		if got := Normalize(title, "1700000000"); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", title, got, want)
		}
	}
}

func TestNormalize_DegenerateSlug(t *testing.T) {
	got := Normalize("!!!", "1700000000")
	if got != "1700000000-" {
		t.Errorf("Normalize = %q, want bare trailing hyphen", got)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	a := Normalize("Some Title", "1234567890")
	b := Normalize("Some Title", "1234567890")
	if a != b {
		t.Errorf("Normalize not deterministic: %q vs %q", a, b)
	}
}

func TestNormalize_ResultIsConverted(t *testing.T) {
	titles := []string{"My Note", "x", "_", " leading", "UPPER lower 123", "a-b_c d"}
	for _, title := range titles {
		id := Normalize(title, "1700000000")
		if !IsConverted(id) {
			t.Errorf("IsConverted(Normalize(%q)) = false for %q", title, id)
		}
	}
}

func TestIsConverted(t *testing.T) {
	cases := map[string]bool{
		"1700000000-my-note":   true,
		"1700000000-A1":        true,
		"1700000000-":          false,
		"170000000-short":      false,
		"17000000000-long-id":  false,
		"My Note":              false,
		"1700000000-has space": false,
		"1700000000_under":     false,
		"sketch-excalidraw":    false,
	}
	for name, want := range cases {
		if got := IsConverted(name); got != want {
			t.Errorf("IsConverted(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestTimestamp(t *testing.T) {
	if got := Timestamp(time.Unix(1700000000, 999)); got != "1700000000" {
		t.Errorf("Timestamp = %q", got)
	}
	if got := Timestamp(time.Unix(42, 0)); got != "0000000042" {
		t.Errorf("Timestamp = %q, want zero padded", got)
	}
}

func TestTitle(t *testing.T) {
	if got := Title("dir/sub/My Note.md"); got != "My Note" {
		t.Errorf("Title = %q", got)
	}
	if got := Title("v1.2 notes.md"); got != "v1.2 notes" {
		t.Errorf("Title = %q, want only the last extension stripped", got)
	}
}

func TestFilter(t *testing.T) {
	f := DefaultFilter()
	cases := map[string]bool{
		"note.md":              true,
		"dir/note.md":          true,
		"note.MD":              false,
		"note.txt":             false,
		"sketch-excalidraw.md": false,
		"Sketch-Excalidraw.md": true,
		"excalidraw/inside.md": true,
		"rename_cache.txt":     false,
	}
	for name, want := range cases {
		if got := f.Match(name); got != want {
			t.Errorf("Match(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestFilter_EmptyExclude(t *testing.T) {
	f := Filter{Extensions: []string{".md"}}
	if !f.Match("sketch-excalidraw.md") {
		t.Error("empty exclude should not reject anything")
	}
}

func TestIsIdentifier(t *testing.T) {
	if !IsIdentifier("1700000000-") {
		t.Error("empty slug should still be an identifier")
	}
	if !IsIdentifier("1700000000-my-note") {
		t.Error("regular identifier rejected")
	}
	if IsIdentifier("custom-id") || IsIdentifier("1700000000 x") {
		t.Error("non-identifiers accepted")
	}
}
