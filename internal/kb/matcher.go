package kb

import "strings"

// keywordRule routes common paraphrases to a category when no question matches.
// Rules are checked in order; the first category whose tokens appear wins.
type keywordRule struct {
	tokens   []string
	category string
}

var keywordRules = []keywordRule{
	{tokens: []string{"split", "group"}, category: "Groups"},
	{tokens: []string{"export", "csv"}, category: "Data"},
	{tokens: []string{"delete"}, category: "Accounts"},
}

// Matcher maps free-text input to a catalog entry before any AI call is made.
type Matcher struct {
	catalog *Catalog
}

func NewMatcher(catalog *Catalog) *Matcher {
	return &Matcher{catalog: catalog}
}

// Match normalizes the input and tries, in order: containment against every
// question (either direction), then the keyword→category fallback. A false
// result means the caller should fall through to the AI gateway.
func (m *Matcher) Match(input string) (FaqEntry, bool) {
	t := strings.ToLower(strings.TrimSpace(input))
	if t == "" {
		return FaqEntry{}, false
	}
	for _, e := range m.catalog.entries {
		q := strings.ToLower(e.Question)
		if strings.Contains(q, t) || strings.Contains(t, q) {
			return e, true
		}
	}
	for _, rule := range keywordRules {
		for _, tok := range rule.tokens {
			if strings.Contains(t, tok) {
				return m.catalog.firstInCategory(rule.category)
			}
		}
	}
	return FaqEntry{}, false
}
