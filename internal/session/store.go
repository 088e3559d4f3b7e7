package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
)

// DefaultTTL is how long an untouched session lives.
const DefaultTTL = 12 * time.Hour

// Store keeps every live session in memory.
type Store struct {
	ttl     time.Duration
	factory DashboardFactory
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates a Store. Sessions idle for longer than ttl are dropped.
func NewStore(ttl time.Duration, factory DashboardFactory, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:      ttl,
		factory:  factory,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session on the landing view.
func (st *Store) Create() *Session {
	now := st.now()
	s := newSession(xid.New().String(), now, st.factory)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	st.logger.Debug("session created", slog.String("session", s.ID))
	return s
}

// Get returns a live session and marks it as recently used. An expired
// session is removed and reported as missing.
func (st *Store) Get(id string) (*Session, bool) {
	now := st.now()

	st.mu.Lock()
	s, ok := st.sessions[id]
	expired := ok && s.idleSince(now) > st.ttl
	if expired {
		delete(st.sessions, id)
	}
	st.mu.Unlock()

	if expired {
		st.release(s)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	s.touch(now)
	return s, true
}

// Delete drops a session and everything it holds.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		st.release(s)
	}
}

func (st *Store) release(s *Session) {
	if err := s.release(); err != nil {
		st.logger.Warn("failed to close session dashboard",
			slog.String("session", s.ID),
			slog.String("error", err.Error()),
		)
	}
}

// Len is the number of sessions currently held, expired or not.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (st *Store) Sweep() int {
	now := st.now()

	var expired []*Session
	st.mu.Lock()
	for id, s := range st.sessions {
		if s.idleSince(now) > st.ttl {
			delete(st.sessions, id)
			expired = append(expired, s)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		st.release(s)
	}
	return len(expired)
}

// Run sweeps on every tick until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				st.logger.Info("expired sessions removed",
					slog.Int("removed", n),
					slog.Int("remaining", st.Len()),
				)
			}
		}
	}
}
