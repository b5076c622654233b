package tracking

import (
	"context"
	"errors"
	"strings"
	"sync"

	"routeguide/internal/domain/route"

	"github.com/google/uuid"
)

var (
	ErrInvalidRequest = errors.New("invalid tracking request")
	ErrSessionNotIdle = errors.New("tracking session already started")
)

// Manager owns at most one session per page. Starting a new session on a page
// stops the previous one.
type Manager struct {
	ctx   context.Context
	cfg   Config
	deps  Deps
	newID func() string

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(ctx context.Context, cfg Config, deps Deps) *Manager {
	return &Manager{
		ctx:      ctx,
		cfg:      cfg,
		deps:     deps,
		newID:    uuid.NewString,
		sessions: make(map[string]*Session),
	}
}

// Start registers a session for pageID and runs it in the background.
func (m *Manager) Start(pageID string, path route.Path, origin route.Coordinate) (*Session, error) {
	s, err := m.register(pageID, path, origin)
	if err != nil {
		return nil, err
	}
	go func() {
		_ = s.Run()
	}()
	return s, nil
}

func (m *Manager) register(pageID string, path route.Path, origin route.Coordinate) (*Session, error) {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" || len(path) == 0 {
		return nil, ErrInvalidRequest
	}
	s := NewSession(m.ctx, m.newID(), pageID, path, origin, m.cfg, m.deps)

	m.mu.Lock()
	prev := m.sessions[pageID]
	m.sessions[pageID] = s
	m.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	return s, nil
}

func (m *Manager) Session(pageID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[strings.TrimSpace(pageID)]
	return s, ok
}

func (m *Manager) StopAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()
	for _, s := range sessions {
		s.Stop()
	}
}
