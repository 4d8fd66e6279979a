package services

import (
	"adforge/internal/models"
	"sync"

	"go.uber.org/atomic"
)

// Op is a pure transformation of the session collection. Returning the input
// slice unchanged marks the call as a no-op.
type Op func(sessions []models.Session) []models.Session

// Listener receives every committed collection in commit order.
type Listener func(revision uint64, sessions []models.Session)

type SessionStoreInterface interface {
	Snapshot() []models.Session
	Revision() uint64
	Len() int
	Apply(op Op) bool
	Replace(sessions []models.Session)
	Subscribe(l Listener)
}

// SessionStore holds the authoritative collection. Readers get the current
// slice without copying; writers never mutate a published slice.
type SessionStore struct {
	mu        sync.RWMutex
	notifyMu  sync.Mutex
	sessions  []models.Session
	revision  atomic.Uint64
	listeners []Listener
}

func NewSessionStore() SessionStoreInterface {
	return &SessionStore{sessions: []models.Session{}}
}

func (s *SessionStore) Snapshot() []models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions
}

func (s *SessionStore) Revision() uint64 {
	return s.revision.Load()
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Apply runs op against the current collection and publishes the result.
// Listeners are called after the swap, outside the write lock, in the same
// order the writes were committed. A writer queued behind a slow listener
// waits on notifyMu only, so readers are never held up by it.
func (s *SessionStore) Apply(op Op) bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	before := s.sessions
	after := op(before)
	if sameSlice(before, after) {
		s.mu.Unlock()
		return false
	}
	if after == nil {
		after = []models.Session{}
	}
	s.sessions = after
	rev := s.revision.Inc()
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l(rev, after)
	}
	return true
}

// Replace installs a restored collection without notifying listeners.
func (s *SessionStore) Replace(sessions []models.Session) {
	if sessions == nil {
		sessions = []models.Session{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = sessions
	s.revision.Inc()
}

func (s *SessionStore) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func sameSlice(a, b []models.Session) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
