// Package parser reads and writes the metadata header of a note and rewrites
// the wikilinks in its body.
package parser

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

const delim = "---"

// Header is the leading metadata block of a converted note.
type Header struct {
	ID      string   `yaml:"id"`
	Aliases []string `yaml:"aliases"`
}

// Serialize renders the header in the fixed wire format, followed by the blank
// line that separates it from the body. Aliases are written verbatim.
func (h Header) Serialize() string {
	var b strings.Builder
	b.WriteString(delim + "\n")
	b.WriteString("id: " + h.ID + "\n")
	b.WriteString("aliases:\n")
	for _, a := range h.Aliases {
		b.WriteString(" - " + a + "\n")
	}
	b.WriteString(delim + "\n\n")
	return b.String()
}

// Inject prepends the serialized header to body.
func Inject(h Header, body []byte) []byte {
	head := h.Serialize()
	out := make([]byte, 0, len(head)+len(body))
	out = append(out, head...)
	return append(out, body...)
}

// ParseHeader returns the id carried by a leading frontmatter block.
// ok is false when data has no frontmatter or the block has no id.
func ParseHeader(data []byte) (h Header, ok bool) {
	block, found := frontmatterBlock(data)
	if !found {
		return Header{}, false
	}
	if err := yaml.Unmarshal(block, &h); err != nil {
		// Aliases are written unquoted and may not be valid YAML; the id line
		// is still recoverable.
		h = Header{ID: scanID(block)}
	}
	h.ID = strings.TrimSpace(h.ID)
	return h, h.ID != ""
}

// frontmatterBlock returns the YAML between a leading --- line and the next
// --- line.
func frontmatterBlock(data []byte) ([]byte, bool) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim+"\n")) && !bytes.HasPrefix(trimmed, []byte(delim+"\r\n")) {
		return nil, false
	}
	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, false
	}
	return rest[:idx], true
}

func scanID(block []byte) string {
	for _, line := range strings.Split(string(block), "\n") {
		key, val, found := strings.Cut(strings.TrimSpace(line), ":")
		if found && strings.TrimSpace(key) == "id" {
			return strings.Trim(strings.TrimSpace(val), `"'`)
		}
	}
	return ""
}
