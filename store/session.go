// ABOUTME: In-memory session store with TTL cleanup and capacity limits
// ABOUTME: Thread-safe storage for diagram sessions and their collapsed-subgraph state

package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clusterlens/clusterlens/flowchart"
)

// Session is one diagram being viewed: its source, the parsed structure, and
// which subgraphs the viewer has collapsed.
type Session struct {
	ID         string
	Source     string
	Model      *flowchart.Model
	Collapsed  map[string]bool
	CreatedAt  time.Time
	LastAccess time.Time
}

type SessionStore struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
	ttl         time.Duration
}

// NewSessionStore creates a session store with the given capacity and TTL.
func NewSessionStore(maxSessions int, ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		ttl:         ttl,
	}
}

// Create parses the source and stores a new session. The collapsed set starts
// with every top-level subgraph collapsed, so large diagrams open as an
// overview. Parsing never fails; unrecognized input yields a session whose
// model has no subgraphs.
func (s *SessionStore) Create(source string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check capacity
	if len(s.sessions) >= s.maxSessions {
		// Evict oldest session
		var oldestID string
		var oldestTime time.Time
		for id, sess := range s.sessions {
			if oldestTime.IsZero() || sess.LastAccess.Before(oldestTime) {
				oldestID = id
				oldestTime = sess.LastAccess
			}
		}
		delete(s.sessions, oldestID)
	}

	model := flowchart.Parse(source)
	now := time.Now()
	sess := &Session{
		ID:         uuid.New().String(),
		Source:     source,
		Model:      model,
		Collapsed:  defaultCollapsed(model),
		CreatedAt:  now,
		LastAccess: now,
	}

	s.sessions[sess.ID] = sess
	return sess
}

// Get retrieves a session by ID and updates its LastAccess time.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}

	sess.LastAccess = time.Now()
	return sess, true
}

// SetSource replaces a session's source, reparses, and resets the collapsed
// set to the new top-level subgraphs. Collapse state never survives a source
// change since the old ids may no longer exist.
func (s *SessionStore) SetSource(id, source string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}

	sess.Source = source
	sess.Model = flowchart.Parse(source)
	sess.Collapsed = defaultCollapsed(sess.Model)
	sess.LastAccess = time.Now()
	return sess, true
}

// Toggle flips the collapsed state of one subgraph id and reports the new
// state. Unknown subgraph ids toggle harmlessly; the rewriter ignores
// collapsed ids with no matching subgraph.
func (s *SessionStore) Toggle(id, subgraphID string) (collapsed, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, found := s.sessions[id]
	if !found {
		return false, false
	}

	sess.LastAccess = time.Now()
	if sess.Collapsed[subgraphID] {
		delete(sess.Collapsed, subgraphID)
		return false, true
	}
	sess.Collapsed[subgraphID] = true
	return true, true
}

// Rendered returns the session's source with its collapsed subgraphs rewritten
// to placeholder nodes.
func (s *SessionStore) Rendered(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return "", false
	}

	sess.LastAccess = time.Now()
	return sess.Model.Rewrite(sess.Collapsed), true
}

// Cleanup removes sessions idle longer than the TTL.
func (s *SessionStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.LastAccess.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// StartCleanup starts a background cleanup goroutine and returns a stop function.
func (s *SessionStore) StartCleanup(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func defaultCollapsed(m *flowchart.Model) map[string]bool {
	collapsed := make(map[string]bool)
	for _, sg := range m.TopLevel() {
		collapsed[sg.ID] = true
	}
	return collapsed
}
