package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps one JSON file per identity key under a data directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, strings.ReplaceAll(key, ":", "_")+".json")
}

func (s *FileStore) LoadHistory(identity string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var history []Message
	if !s.readJSON(HistoryKey(identity), &history) {
		return GreetingHistory()
	}
	return history
}

func (s *FileStore) SaveHistory(identity string, history []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(HistoryKey(identity), history)
}

func (s *FileStore) LoadEvents(identity string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadEventsUnlocked(identity)
}

func (s *FileStore) AppendEvent(identity string, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := append(s.loadEventsUnlocked(identity), event)
	return s.writeJSON(EventsKey(identity), events)
}

func (s *FileStore) ClearEvents(identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(EventsKey(identity))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove events: %w", err)
	}
	return nil
}

// EventIdentities lists every identity that has a stored event log.
func (s *FileStore) EventIdentities() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "events_") && strings.HasSuffix(name, ".json") {
			out = append(out, strings.TrimSuffix(strings.TrimPrefix(name, "events_"), ".json"))
		}
	}
	return out
}

func (s *FileStore) loadEventsUnlocked(identity string) []Event {
	var events []Event
	if !s.readJSON(EventsKey(identity), &events) {
		return nil
	}
	return events
}

// readJSON reports whether the key existed and decoded cleanly; corrupt data
// counts as absent.
func (s *FileStore) readJSON(key string, v interface{}) bool {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false
	}
	return true
}

func (s *FileStore) writeJSON(key string, v interface{}) error {
	f, err := os.OpenFile(s.path(key), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open write: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
