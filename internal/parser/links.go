package parser

import (
	"regexp"
	"sort"
)

// Rewriter replaces wikilinks to renamed notes with links to their identifiers.
type Rewriter struct {
	rules []rule
}

type rule struct {
	oldTitle string
	newID    string
	re       *regexp.Regexp
}

// NewRewriter compiles one rule per entry of table (old title -> identifier).
// Rules are applied in old-title order so output does not depend on map
// iteration.
func NewRewriter(table map[string]string) *Rewriter {
	titles := make([]string, 0, len(table))
	for old := range table {
		titles = append(titles, old)
	}
	sort.Strings(titles)

	rules := make([]rule, 0, len(titles))
	for _, old := range titles {
		rules = append(rules, rule{
			oldTitle: old,
			newID:    table[old],
			re:       linkPattern(old),
		})
	}
	return &Rewriter{rules: rules}
}

// linkPattern matches [[title]] and [[title|alias]], case-insensitively, with
// title taken literally. The alias, when present, is captured in group 1.
func linkPattern(title string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\[\[` + regexp.QuoteMeta(title) + `(?:\|([^\]]+))?\]\]`)
}

// Rewrite applies every rule to body. A link that already has an alias keeps
// it; a bare link gets the old title as its alias.
func (r *Rewriter) Rewrite(body string) (string, bool) {
	out := body
	for _, ru := range r.rules {
		out = ru.apply(out)
	}
	return out, out != body
}

func (ru rule) apply(body string) string {
	return ru.re.ReplaceAllStringFunc(body, func(m string) string {
		alias := ru.oldTitle
		if sub := ru.re.FindStringSubmatch(m); len(sub) > 1 && sub[1] != "" {
			alias = sub[1]
		}
		return "[[" + ru.newID + "|" + alias + "]]"
	})
}

// Len returns the number of rules.
func (r *Rewriter) Len() int {
	return len(r.rules)
}
