package chat

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Session is the conversation of one user. Turns are only ever appended.
type Session struct {
	id string

	mtx        sync.Mutex
	turns      []Turn
	lastActive time.Time
}

// NewSession creates an empty session
func NewSession(id string) *Session {
	return &Session{
		id:         id,
		lastActive: time.Now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Append adds a turn at the end of the conversation
func (s *Session) Append(t Turn) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.turns = append(s.turns, t)
	s.lastActive = time.Now()
}

// Turns returns a copy of the conversation, oldest first
func (s *Session) Turns() []Turn {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	turns := make([]Turn, len(s.turns))
	copy(turns, s.turns)
	return turns
}

func (s *Session) Len() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.turns)
}

func (s *Session) touch() {
	s.mtx.Lock()
	s.lastActive = time.Now()
	s.mtx.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.lastActive
}

// Sessions holds the live sessions of the process, keyed by id
type Sessions struct {
	sessions map[string]*Session
	mtx      sync.RWMutex
}

func NewSessions() *Sessions {
	return &Sessions{
		sessions: map[string]*Session{},
	}
}

// Get returns the session with the given id, creating it if needed
func (s *Sessions) Get(id string) *Session {
	id = strings.TrimSpace(id)

	s.mtx.RLock()
	session, ok := s.sessions[id]
	if ok {
		// touched before unlocking so Prune cannot drop it in between
		session.touch()
	}
	s.mtx.RUnlock()
	if ok {
		return session
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if session, ok := s.sessions[id]; ok {
		session.touch()
		return session
	}

	session = NewSession(id)
	s.sessions[id] = session
	return session
}

// Prune drops sessions that have been idle since before cutoff and
// returns how many were dropped
func (s *Sessions) Prune(cutoff time.Time) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	pruned := 0
	for id, session := range s.sessions {
		if session.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			pruned++
		}
	}
	return pruned
}

func (s *Sessions) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return len(s.sessions)
}

// IDs returns the ids of the live sessions, sorted
func (s *Sessions) IDs() []string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
