package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"astra-assistant/internal/chat"
)

// Server exposes the widget operations over HTTP for the web shell.
// Identity comes from the X-User-ID header (guest otherwise); a bearer token
// is forwarded to the AI gateway.
type Server struct {
	manager   *chat.Manager
	server    *http.Server
	port      int
	startTime time.Time
}

func NewServer(manager *chat.Manager, port int) *Server {
	return &Server{
		manager:   manager,
		port:      port,
		startTime: time.Now(),
	}
}

// Handler builds the route table. Split out so tests can drive it through
// httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/assistant/open", s.handleOpen)
	mux.HandleFunc("/api/assistant/close", s.handleClose)
	mux.HandleFunc("/api/assistant/messages", s.handleMessages)
	mux.HandleFunc("/api/assistant/ask", s.handleAsk)
	mux.HandleFunc("/api/assistant/faq", s.handleFaqClick)
	mux.HandleFunc("/api/assistant/faqs", s.handleFaqList)
	mux.HandleFunc("/api/assistant/followup", s.handleFollowup)
	mux.HandleFunc("/api/assistant/stats", s.handleStats)
	mux.HandleFunc("/api/assistant/stats/clear", s.handleStatsClear)
	return mux
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Printf("🌐 Starting Astra assistant server on http://localhost:%d", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// engineFor resolves the caller's engine and refreshes its gateway token.
func (s *Server) engineFor(r *http.Request) *chat.Engine {
	e, _ := s.manager.Engine(r.Header.Get("X-User-ID"))
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		e.SetAuthToken(strings.TrimPrefix(auth, "Bearer "))
	}
	return e
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.engineFor(r).Open()
	writeJSON(w, http.StatusOK, map[string]string{"status": "open"})
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.engineFor(r).Close()
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	e := s.engineFor(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": e.Messages(),
		"typing":   e.Typing(),
		"open":     e.IsOpen(),
	})
}

type textRequest struct {
	Text     string `json:"text"`
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		// empty submissions are silently ignored by the engine too
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}
	s.engineFor(r).Submit(req.Text)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) handleFaqClick(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	entry, ok := s.manager.Catalog().ByQuestion(req.Question)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown faq question"})
		return
	}
	s.engineFor(r).ClickFaqSuggestion(entry)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) handleFaqList(w http.ResponseWriter, r *http.Request) {
	entries := s.manager.Catalog().ByCategory(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]interface{}{"faqs": entries})
}

func (s *Server) handleFollowup(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}
	s.engineFor(r).ClickFollowup(req.Text)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"counts": s.engineFor(r).Stats()})
}

func (s *Server) handleStatsClear(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.engineFor(r).ClearStats()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
