package analytics

import (
	"fmt"
	"sort"

	"astra-assistant/internal/session"
)

// Compute reduces an event log into per-key occurrence counts. Always
// recomputed on demand; event logs are small and bounded by user interaction.
func Compute(events []session.Event) map[string]int {
	counts := make(map[string]int)
	for _, ev := range events {
		if ev.Key == "" {
			continue
		}
		counts[ev.Key]++
	}
	return counts
}

// Report summarizes one identity's usage for the daily report job.
type Report struct {
	Identity    string
	TotalEvents int
	ByType      map[session.EventType]int
	ByKey       map[string]int
}

func BuildReport(identity string, events []session.Event) *Report {
	r := &Report{
		Identity: session.Normalize(identity),
		ByType:   make(map[session.EventType]int),
		ByKey:    Compute(events),
	}
	for _, ev := range events {
		r.TotalEvents++
		r.ByType[ev.Type]++
	}
	return r
}

// Summary renders a plain-text digest suitable for the log.
func (r *Report) Summary() string {
	s := fmt.Sprintf("Astra usage for %s: %d events (faq_click=%d, faq_used=%d, faq_followup=%d, ai_query=%d)",
		r.Identity, r.TotalEvents,
		r.ByType[session.EventFaqClick], r.ByType[session.EventFaqUsed],
		r.ByType[session.EventFaqFollowup], r.ByType[session.EventAIQuery])

	keys := make([]string, 0, len(r.ByKey))
	for k := range r.ByKey {
		keys = append(keys, k)
	}
	// highest counts first, ties by key for stable output
	sort.Slice(keys, func(i, j int) bool {
		if r.ByKey[keys[i]] != r.ByKey[keys[j]] {
			return r.ByKey[keys[i]] > r.ByKey[keys[j]]
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		s += fmt.Sprintf("\n- %s: %d", k, r.ByKey[k])
	}
	return s
}
