package budget

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// ErrSessionNotFound is returned for an unknown or deleted session id.
var ErrSessionNotFound = errors.New("budget session not found")

type session struct {
	mu     sync.Mutex
	budget *Budget
}

// Sessions holds one isolated Budget per session id. The registry is shared
// between requests; each budget is only touched under its own lock.
type Sessions struct {
	mu         sync.RWMutex
	sessions   map[string]*session
	defaultBDI decimal.Decimal
}

// NewSessions creates an empty registry whose budgets default to defaultBDI.
func NewSessions(defaultBDI decimal.Decimal) *Sessions {
	return &Sessions{sessions: make(map[string]*session), defaultBDI: defaultBDI}
}

// Create starts a new budget and returns its id. A nil bdi uses the registry default.
func (s *Sessions) Create(bdi *decimal.Decimal) string {
	d := s.defaultBDI
	if bdi != nil {
		d = *bdi
	}
	id := uuid.New().String()

	s.mu.Lock()
	s.sessions[id] = &session{budget: New(d)}
	s.mu.Unlock()
	return id
}

// With runs fn on the budget for id while holding that budget's lock.
func (s *Sessions) With(id string, fn func(*Budget) error) error {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return eris.Wrapf(ErrSessionNotFound, "budget: session %s", id)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.budget)
}

// Delete forgets the session. Deleting an unknown id is an error.
func (s *Sessions) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return eris.Wrapf(ErrSessionNotFound, "budget: session %s", id)
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
