package kb

import "strings"

// FaqEntry is a single curated question/answer pair. Entries are immutable
// after the catalog is built; the question text is the entry's identity.
type FaqEntry struct {
	Category  string   `json:"category"`
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	Followups []string `json:"followups,omitempty"`
}

// Catalog holds the FAQ entries in display order.
type Catalog struct {
	entries []FaqEntry
}

func NewCatalog(entries []FaqEntry) *Catalog {
	own := make([]FaqEntry, len(entries))
	copy(own, entries)
	return &Catalog{entries: own}
}

// Default returns the built-in SpendWise assistant catalog.
func Default() *Catalog {
	return NewCatalog([]FaqEntry{
		{
			Category:  "Basics",
			Question:  "How do I add an expense?",
			Answer:    "Use the Add Expense card: fill amount, description and date, then click Add Expense.",
			Followups: []string{"Can I split this expense?", "How do I edit an expense?"},
		},
		{
			Category:  "Groups",
			Question:  "How do I split an expense with my group?",
			Answer:    "When creating an expense as a group owner, the system will split it across members automatically.",
			Followups: []string{"How are remainders handled?", "Can I edit the split?"},
		},
		{
			Category:  "Data",
			Question:  "How can I export my data?",
			Answer:    "Reports export is planned. For now, use a DB dump or query your database directly.",
			Followups: []string{"Which tables to export?", "Is there CSV export?"},
		},
		{
			Category:  "Accounts",
			Question:  "How do I delete an entry?",
			Answer:    "Click Delete on the entry in Recent lists — deletions are permanent.",
			Followups: []string{"Can I recover deleted items?"},
		},
		{
			Category:  "Summary",
			Question:  "What is Net in the summary?",
			Answer:    "Net = Total Income - Total Expense + Total Investment for the selected period.",
			Followups: []string{"How is monthly income included?"},
		},
		{
			Category:  "Groups",
			Question:  "How do I invite members to my group?",
			Answer:    "Use the Add User form while signed in as a group owner to add members to your group.",
			Followups: []string{"How to remove a member?"},
		},
		{
			Category:  "Auth",
			Question:  "Why was I logged out?",
			Answer:    "Tokens may expire or be cleared; re-sign-in to restore your session.",
			Followups: []string{"How long are tokens valid?"},
		},
	})
}

// All returns the entries in catalog order.
func (c *Catalog) All() []FaqEntry {
	out := make([]FaqEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// ByCategory returns entries whose category or question contains the query,
// case-insensitively. An empty query returns everything.
func (c *Catalog) ByCategory(query string) []FaqEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.All()
	}
	var out []FaqEntry
	for _, e := range c.entries {
		if strings.Contains(strings.ToLower(e.Category), q) || strings.Contains(strings.ToLower(e.Question), q) {
			out = append(out, e)
		}
	}
	return out
}

// ByQuestion looks up an entry by its exact question text.
func (c *Catalog) ByQuestion(question string) (FaqEntry, bool) {
	for _, e := range c.entries {
		if e.Question == question {
			return e, true
		}
	}
	return FaqEntry{}, false
}

func (c *Catalog) firstInCategory(category string) (FaqEntry, bool) {
	for _, e := range c.entries {
		if e.Category == category {
			return e, true
		}
	}
	return FaqEntry{}, false
}
