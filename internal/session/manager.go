// internal/session/manager.go
// One UI session per browser: credential plus the live root controller

package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/imadgeboyega/kiekky-web/internal/api"
	"github.com/imadgeboyega/kiekky-web/internal/metrics"
	"github.com/imadgeboyega/kiekky-web/internal/navigation"
)

// RootFactory builds the root controller for a signed-in user.
type RootFactory func(cred api.Session) *navigation.Root

// Session is the state of one browser.
type Session struct {
	ID         string
	Credential api.Session
	Root       *navigation.Root

	lastSeen time.Time
}

// Manager owns the in-memory sessions. Tokens go through the TokenStore;
// view state lives only in memory and is rebuilt empty after a restart.
type Manager struct {
	store   TokenStore
	ttl     time.Duration
	newRoot RootFactory
	logger  *log.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(store TokenStore, ttl time.Duration, newRoot RootFactory, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		store:    store,
		ttl:      ttl,
		newRoot:  newRoot,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session for a freshly obtained token.
func (m *Manager) Create(ctx context.Context, token string) (*Session, error) {
	id := uuid.New().String()
	if err := m.store.Save(ctx, id, token, m.ttl); err != nil {
		return nil, err
	}

	cred := api.NewSession(token)
	s := &Session{ID: id, Credential: cred, Root: m.newRoot(cred), lastSeen: m.now()}

	m.mu.Lock()
	m.sessions[id] = s
	n := len(m.sessions)
	m.mu.Unlock()
	metrics.SetActiveSessions(n)

	return s, nil
}

// Get returns the session for id, rebuilding it from the token store when it
// is not held in memory.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	now := m.now()

	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok && now.Sub(s.lastSeen) >= m.ttl {
		delete(m.sessions, id)
		ok = false
	}
	if ok {
		s.lastSeen = now
	}
	m.mu.Unlock()

	if ok {
		err := m.store.Touch(ctx, id, m.ttl)
		switch {
		case errors.Is(err, ErrNotFound):
			// logged out through another instance sharing the store
			m.forget(id)
			return nil, ErrNotFound
		case err != nil:
			m.logger.Printf("⚠️  Failed to refresh session %s: %v", id, err)
		}
		return s, nil
	}

	token, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	cred := api.NewSession(token)
	s = &Session{ID: id, Credential: cred, Root: m.newRoot(cred), lastSeen: now}

	m.mu.Lock()
	// another request may have rebuilt it meanwhile
	if existing, found := m.sessions[id]; found {
		s = existing
	} else {
		m.sessions[id] = s
	}
	n := len(m.sessions)
	m.mu.Unlock()
	metrics.SetActiveSessions(n)

	return s, nil
}

// Logout forgets the session everywhere.
func (m *Manager) Logout(ctx context.Context, id string) error {
	m.forget(id)

	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("logout %s: %w", id, err)
	}
	return nil
}

func (m *Manager) forget(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()
	metrics.SetActiveSessions(n)
}

// Cleanup evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Cleanup() int {
	now := m.now()

	m.mu.Lock()
	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) >= m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	if mem, ok := m.store.(*MemoryTokenStore); ok {
		mem.Purge()
	}
	metrics.SetActiveSessions(n)
	return removed
}

// Len is the number of sessions held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run evicts idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := m.Cleanup(); removed > 0 {
				m.logger.Printf("🧹 Evicted %d idle sessions", removed)
			}
		}
	}
}
