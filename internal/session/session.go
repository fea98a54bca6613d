package session

import "time"

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Source marks where an assistant answer came from. Rate-limit and failure
// substitutions stay unmarked; they are system text, not real answers.
type Source string

const (
	SourceFAQ Source = "faq"
	SourceAI  Source = "ai"
)

// Message is one transcript line. Messages are immutable once appended and
// transcript order is append order.
type Message struct {
	Sender    Sender    `json:"from"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"ts"`
	Followups []string  `json:"followups,omitempty"`
	Source    Source    `json:"source,omitempty"`
}

type EventType string

const (
	EventFaqClick    EventType = "faq_click"
	EventFaqUsed     EventType = "faq_used"
	EventFaqFollowup EventType = "faq_followup"
	EventAIQuery     EventType = "ai_query"
)

// Event is one usage-analytics record. Key is the aggregation dimension,
// e.g. "faq:<question>" or "ai:<question prefix>".
type Event struct {
	Type      EventType `json:"type"`
	Key       string    `json:"key"`
	Question  string    `json:"q"`
	Timestamp time.Time `json:"ts"`
}

// Greeting seeds a fresh conversation for an identity with no stored history.
const Greeting = "Hi, I'm Astra — your SpendWise assistant. Try the suggestions below or ask a question."

// GuestIdentity namespaces unauthenticated sessions so they never collide
// with a signed-in user's data.
const GuestIdentity = "guest"

// Normalize maps an empty identity to the guest namespace.
func Normalize(identity string) string {
	if identity == "" {
		return GuestIdentity
	}
	return identity
}

func HistoryKey(identity string) string { return "history:" + Normalize(identity) }
func EventsKey(identity string) string  { return "events:" + Normalize(identity) }

// Store persists per-identity conversation history and analytics events.
// Loads fail open: missing or corrupt data yields a usable default, never an
// error. Implementations must be safe for concurrent use.
type Store interface {
	// LoadHistory returns the stored transcript, or a single greeting
	// message when nothing (readable) is stored.
	LoadHistory(identity string) []Message
	// SaveHistory overwrites the stored transcript for the identity.
	SaveHistory(identity string, history []Message) error
	LoadEvents(identity string) []Event
	AppendEvent(identity string, event Event) error
	// ClearEvents drops the event log only; history is untouched.
	ClearEvents(identity string) error
}

// GreetingHistory is the default transcript for a fresh identity.
func GreetingHistory() []Message {
	return []Message{{Sender: SenderAssistant, Text: Greeting, Timestamp: time.Now().UTC()}}
}
