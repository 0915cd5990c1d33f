package sessionstore

import (
	"context"
	"sync"

	"product-download-layer/internal/domain"
	"product-download-layer/internal/ports"
)

// Memory keeps shop sessions in process memory. Restarting the server
// drops every session and forces shops back through OAuth; that is the
// intended lifecycle for this store.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// NewMemory creates an empty in-memory session store.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]domain.Session)}
}

var _ ports.SessionStore = (*Memory)(nil)

func (m *Memory) Get(_ context.Context, shop string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[shop]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *Memory) Set(_ context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.Shop] = *session
	return nil
}

func (m *Memory) Delete(_ context.Context, shop string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, shop)
	return nil
}

func (m *Memory) Active(_ context.Context, shop string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[shop]
	return ok, nil
}
