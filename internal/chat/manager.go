package chat

import (
	"sync"

	"astra-assistant/internal/gateway"
	"astra-assistant/internal/kb"
	"astra-assistant/internal/session"
)

// Manager hands out one engine per identity. Shells (web, telegram, mcp)
// share a manager so an identity always maps to a single writer.
type Manager struct {
	catalog *kb.Catalog
	gw      gateway.Gateway
	store   session.Store
	delays  Delays

	mu      sync.Mutex
	engines map[string]*Engine
}

func NewManager(catalog *kb.Catalog, gw gateway.Gateway, store session.Store, delays Delays) *Manager {
	return &Manager{
		catalog: catalog,
		gw:      gw,
		store:   store,
		delays:  delays,
		engines: make(map[string]*Engine),
	}
}

// Engine returns the identity's engine, creating it on first access.
// created reports whether this call instantiated it.
func (m *Manager) Engine(identity string) (e *Engine, created bool) {
	id := session.Normalize(identity)
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.engines[id]; ok {
		return e, false
	}
	e = New(id, m.catalog, m.gw, m.store, m.delays)
	m.engines[id] = e
	return e, true
}

func (m *Manager) Catalog() *kb.Catalog { return m.catalog }

// Shutdown stops every engine worker.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.engines {
		e.Shutdown()
	}
	m.engines = make(map[string]*Engine)
}
