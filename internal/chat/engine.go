package chat

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"astra-assistant/internal/analytics"
	"astra-assistant/internal/gateway"
	"astra-assistant/internal/kb"
	"astra-assistant/internal/session"
)

// Delays tunes the simulated typing latency. Zero values make the engine
// fully deterministic for tests.
type Delays struct {
	ReplyBase        time.Duration // free-text FAQ answers
	ReplyJitter      time.Duration
	SuggestionBase   time.Duration // suggestion-chip clicks
	SuggestionJitter time.Duration
	FollowupPause    time.Duration // pause before a followup auto-send
}

func DefaultDelays() Delays {
	return Delays{
		ReplyBase:        600 * time.Millisecond,
		ReplyJitter:      700 * time.Millisecond,
		SuggestionBase:   500 * time.Millisecond,
		SuggestionJitter: 600 * time.Millisecond,
		FollowupPause:    120 * time.Millisecond,
	}
}

// turn is one queued answer resolution. entry is set for suggestion clicks,
// which bypass the matcher.
type turn struct {
	text  string
	entry *kb.FaqEntry
}

// Engine routes one identity's questions to the FAQ catalog or the AI
// gateway and owns that identity's transcript. Turns are resolved by a
// single worker in FIFO order, so a submission made while another turn is
// awaiting its answer is queued, never interleaved.
type Engine struct {
	identity  string
	authToken string
	matcher   *kb.Matcher
	gw        gateway.Gateway
	store     session.Store
	delays    Delays
	rng       *rand.Rand
	ctx       context.Context
	cancel    context.CancelFunc

	mu      sync.Mutex
	history []session.Message
	open    bool
	typing  bool

	queue    chan turn
	wg       sync.WaitGroup
	onAppend func(session.Message)
}

func New(identity string, catalog *kb.Catalog, gw gateway.Gateway, store session.Store, delays Delays) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	id := session.Normalize(identity)
	e := &Engine{
		identity: id,
		matcher:  kb.NewMatcher(catalog),
		gw:       gw,
		store:    store,
		delays:   delays,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		ctx:      ctx,
		cancel:   cancel,
		history:  store.LoadHistory(id),
		queue:    make(chan turn, 64),
	}
	go e.run()
	return e
}

// SetAuthToken sets the bearer credential forwarded to the AI gateway.
func (e *Engine) SetAuthToken(token string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.authToken = token
}

// SetOnAppend registers a callback invoked after every appended message.
// Push-style shells (Telegram) use it to deliver assistant replies.
func (e *Engine) SetOnAppend(fn func(session.Message)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onAppend = fn
}

func (e *Engine) Open() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open = true
}

func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open = false
}

func (e *Engine) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

// Typing reports whether an answer is currently being resolved.
func (e *Engine) Typing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.typing
}

// Messages returns a copy of the transcript in append order.
func (e *Engine) Messages() []session.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]session.Message, len(e.history))
	copy(out, e.history)
	return out
}

// Submit routes a free-text question. Empty or whitespace-only input is
// ignored. The user message is appended synchronously; the answer resolves
// on the worker.
func (e *Engine) Submit(text string) {
	t := strings.TrimSpace(text)
	if t == "" {
		return
	}
	e.append(session.Message{Sender: session.SenderUser, Text: t, Timestamp: time.Now().UTC()})
	e.enqueue(turn{text: t})
}

// ClickFaqSuggestion answers a known catalog entry directly, bypassing the
// matcher: user echo and faq_click now, answer and faq_used after the
// suggestion delay.
func (e *Engine) ClickFaqSuggestion(entry kb.FaqEntry) {
	e.append(session.Message{Sender: session.SenderUser, Text: entry.Question, Timestamp: time.Now().UTC()})
	e.recordEvent(session.EventFaqClick, "faq:"+entry.Question, entry.Question)
	e.enqueue(turn{text: entry.Question, entry: &entry})
}

// ClickFollowup records the followup click, waits for the input field to
// visually populate, then submits the suggestion as free text. The followup
// event always precedes the submit's own events.
func (e *Engine) ClickFollowup(text string) {
	t := strings.TrimSpace(text)
	if t == "" {
		return
	}
	e.recordEvent(session.EventFaqFollowup, "followup:"+t, t)
	time.Sleep(e.delays.FollowupPause)
	e.Submit(t)
}

// Stats recomputes usage counts from the stored event log.
func (e *Engine) Stats() map[string]int {
	return analytics.Compute(e.Events())
}

// Events returns the stored analytics log for this identity.
func (e *Engine) Events() []session.Event {
	return e.store.LoadEvents(e.identity)
}

func (e *Engine) ClearStats() {
	if err := e.store.ClearEvents(e.identity); err != nil {
		log.Printf("failed to clear events for %s: %v", e.identity, err)
	}
}

// Wait blocks until every queued turn has resolved.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Shutdown stops the worker. Queued turns are dropped; any in-flight AI call
// is cancelled.
func (e *Engine) Shutdown() {
	e.cancel()
	close(e.queue)
}

func (e *Engine) enqueue(t turn) {
	e.wg.Add(1)
	e.queue <- t
}

func (e *Engine) run() {
	for t := range e.queue {
		e.resolve(t)
		e.wg.Done()
	}
}

func (e *Engine) resolve(t turn) {
	e.setTyping(true)
	defer e.setTyping(false)

	if t.entry != nil {
		e.sleep(e.delay(e.delays.SuggestionBase, e.delays.SuggestionJitter))
		e.append(session.Message{
			Sender:    session.SenderAssistant,
			Text:      t.entry.Answer,
			Timestamp: time.Now().UTC(),
			Followups: t.entry.Followups,
			Source:    session.SourceFAQ,
		})
		e.recordEvent(session.EventFaqUsed, "faq:"+t.entry.Question, t.entry.Question)
		return
	}

	if entry, ok := e.matcher.Match(t.text); ok {
		e.sleep(e.delay(e.delays.ReplyBase, e.delays.ReplyJitter))
		e.recordEvent(session.EventFaqUsed, "faq:"+entry.Question, entry.Question)
		e.append(session.Message{
			Sender:    session.SenderAssistant,
			Text:      entry.Answer,
			Timestamp: time.Now().UTC(),
			Followups: entry.Followups,
			Source:    session.SourceFAQ,
		})
		return
	}

	// no catalog hit, pay for the AI call
	e.mu.Lock()
	token := e.authToken
	e.mu.Unlock()
	ans := e.gw.Ask(e.ctx, t.text, token)
	msg := session.Message{Sender: session.SenderAssistant, Text: ans.Text, Timestamp: time.Now().UTC()}
	if ans.Kind == gateway.KindSuccess {
		msg.Source = session.SourceAI
	}
	e.append(msg)
	e.recordEvent(session.EventAIQuery, "ai:"+truncate(t.text, 50), t.text)
}

// append adds a message to the transcript and persists the full history.
// Persistence is best effort; the in-memory session keeps working. The save
// happens under the same lock as the append, so snapshots reach the store in
// transcript order even when caller and worker append concurrently.
func (e *Engine) append(msg session.Message) {
	e.mu.Lock()
	e.history = append(e.history, msg)
	snapshot := make([]session.Message, len(e.history))
	copy(snapshot, e.history)
	fn := e.onAppend
	if err := e.store.SaveHistory(e.identity, snapshot); err != nil {
		log.Printf("failed to persist history for %s: %v", e.identity, err)
	}
	e.mu.Unlock()

	if fn != nil {
		fn(msg)
	}
}

func (e *Engine) recordEvent(typ session.EventType, key, question string) {
	ev := session.Event{Type: typ, Key: key, Question: question, Timestamp: time.Now().UTC()}
	if err := e.store.AppendEvent(e.identity, ev); err != nil {
		log.Printf("failed to record %s event for %s: %v", typ, e.identity, err)
	}
}

func (e *Engine) setTyping(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.typing = v
}

func (e *Engine) delay(base, jitter time.Duration) time.Duration {
	d := base
	if jitter > 0 {
		e.mu.Lock()
		d += time.Duration(e.rng.Int63n(int64(jitter)))
		e.mu.Unlock()
	}
	return d
}

func (e *Engine) sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
