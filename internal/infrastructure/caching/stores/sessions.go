// Package stores provides in-memory stores for per-client state
package stores

import (
	"sort"
	"sync"
	"time"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/session"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/metrics"
)

// SessionsStore holds the live view state of every connected client, keyed
// by client ID.
type SessionsStore struct {
	sessions    map[string]*session.Session
	maxSessions int
	mu          sync.RWMutex
	logger      *logging.ChanneledLogger
	metrics     *metrics.Collector
}

// NewSessionsStore creates a new sessions store. maxSessions <= 0 means no cap.
func NewSessionsStore(maxSessions int, logger *logging.ChanneledLogger, collector *metrics.Collector) *SessionsStore {
	if logger != nil {
		logger.Session().Info("Initializing sessions store", "maxSessions", maxSessions)
	}
	return &SessionsStore{
		sessions:    make(map[string]*session.Session),
		maxSessions: maxSessions,
		logger:      logger,
		metrics:     collector,
	}
}

// Get returns the live session of a client and marks it active.
func (ss *SessionsStore) Get(clientID string) (*session.Session, bool) {
	ss.mu.RLock()
	s, exists := ss.sessions[clientID]
	ss.mu.RUnlock()

	if !exists {
		return nil, false
	}
	s.Touch()
	return s, true
}

// Put stores a session, replacing any previous one for the same client. When
// the store is full the least recently active sessions are dropped first.
// The IDs of dropped sessions are returned so their resources can be released.
func (ss *SessionsStore) Put(s *session.Session) []string {
	ss.mu.Lock()
	ss.sessions[s.ID] = s
	var evicted []string
	if ss.maxSessions > 0 && len(ss.sessions) > ss.maxSessions {
		evicted = ss.evictOldestLocked(len(ss.sessions)-ss.maxSessions, s.ID)
	}
	count := len(ss.sessions)
	ss.mu.Unlock()

	ss.metrics.SetLiveSessions(count)
	if ss.logger != nil {
		ss.logger.WithSession(logging.ChannelSession, s.ID).Debug("Session stored", "liveSessions", count)
		if len(evicted) > 0 {
			ss.logger.Session().Warn("Session cap reached, evicted oldest sessions", "evicted", len(evicted))
		}
	}
	return evicted
}

// Delete removes a client's session. It reports whether one existed.
func (ss *SessionsStore) Delete(clientID string) bool {
	ss.mu.Lock()
	_, exists := ss.sessions[clientID]
	delete(ss.sessions, clientID)
	count := len(ss.sessions)
	ss.mu.Unlock()

	ss.metrics.SetLiveSessions(count)
	return exists
}

// EvictIdle drops every session idle for longer than ttl and returns their
// client IDs.
func (ss *SessionsStore) EvictIdle(ttl time.Duration) []string {
	cutoff := time.Now().Add(-ttl)

	ss.mu.Lock()
	var evicted []string
	for id, s := range ss.sessions {
		if s.LastActivity().Before(cutoff) {
			delete(ss.sessions, id)
			evicted = append(evicted, id)
		}
	}
	count := len(ss.sessions)
	ss.mu.Unlock()

	ss.metrics.SetLiveSessions(count)
	sort.Strings(evicted)
	return evicted
}

// Count returns the number of live sessions.
func (ss *SessionsStore) Count() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// OldestActivity returns the last-activity time of the idlest session.
func (ss *SessionsStore) OldestActivity() (time.Time, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	var oldest time.Time
	found := false
	for _, s := range ss.sessions {
		if at := s.LastActivity(); !found || at.Before(oldest) {
			oldest = at
			found = true
		}
	}
	return oldest, found
}

func (ss *SessionsStore) evictOldestLocked(n int, keep string) []string {
	type entry struct {
		id string
		at time.Time
	}
	entries := make([]entry, 0, len(ss.sessions))
	for id, s := range ss.sessions {
		if id == keep {
			continue
		}
		entries = append(entries, entry{id: id, at: s.LastActivity()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].at.Before(entries[j].at) })

	evicted := make([]string, 0, n)
	for i := 0; i < n && i < len(entries); i++ {
		delete(ss.sessions, entries[i].id)
		evicted = append(evicted, entries[i].id)
	}
	return evicted
}
