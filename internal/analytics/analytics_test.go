package analytics

import (
	"strings"
	"testing"
	"time"

	"astra-assistant/internal/session"
)

func TestComputeEmpty(t *testing.T) {
	if counts := Compute(nil); len(counts) != 0 {
		t.Fatalf("expected empty mapping, got %v", counts)
	}
}

func TestComputeCountsByKey(t *testing.T) {
	ts := time.Now().UTC()
	var events []session.Event
	for i := 0; i < 3; i++ {
		events = append(events, session.Event{Type: session.EventFaqUsed, Key: "faq:How do I add an expense?", Timestamp: ts})
	}
	events = append(events,
		session.Event{Type: session.EventAIQuery, Key: "ai:what is compound interest", Timestamp: ts},
		session.Event{Type: session.EventFaqFollowup, Key: "followup:Can I split this expense?", Timestamp: ts},
		session.Event{Type: session.EventFaqClick, Key: "", Timestamp: ts}, // keyless events are skipped
	)

	counts := Compute(events)
	if len(counts) != 3 {
		t.Fatalf("expected 3 keys, got %v", counts)
	}
	if counts["faq:How do I add an expense?"] != 3 {
		t.Fatalf("expected count 3, got %d", counts["faq:How do I add an expense?"])
	}
	if counts["ai:what is compound interest"] != 1 {
		t.Fatalf("expected count 1, got %d", counts["ai:what is compound interest"])
	}
}

func TestReportSummary(t *testing.T) {
	ts := time.Now().UTC()
	events := []session.Event{
		{Type: session.EventFaqClick, Key: "faq:q1", Timestamp: ts},
		{Type: session.EventFaqUsed, Key: "faq:q1", Timestamp: ts},
		{Type: session.EventFaqUsed, Key: "faq:q1", Timestamp: ts},
		{Type: session.EventAIQuery, Key: "ai:something", Timestamp: ts},
	}
	r := BuildReport("", events)
	if r.Identity != session.GuestIdentity {
		t.Fatalf("identity not normalized: %q", r.Identity)
	}
	if r.TotalEvents != 4 {
		t.Fatalf("expected 4 events, got %d", r.TotalEvents)
	}
	if r.ByType[session.EventFaqUsed] != 2 {
		t.Fatalf("expected 2 faq_used, got %d", r.ByType[session.EventFaqUsed])
	}

	sum := r.Summary()
	if !strings.Contains(sum, "4 events") || !strings.Contains(sum, "faq:q1: 3") {
		t.Fatalf("unexpected summary: %q", sum)
	}
	// highest count listed first
	if strings.Index(sum, "faq:q1") > strings.Index(sum, "ai:something") {
		t.Fatalf("keys not sorted by count: %q", sum)
	}
}
