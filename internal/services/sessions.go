package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Sessions is the in-memory registry of live sessions. Nothing is persisted:
// a session's locations are discarded when it is deleted or evicted.
type Sessions struct {
	deps        SessionDeps
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessions(deps SessionDeps, idleTimeout time.Duration) *Sessions {
	return &Sessions{
		deps:        deps,
		idleTimeout: idleTimeout,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

// Create starts a new empty session.
func (r *Sessions) Create() *Session {
	id := uuid.NewString()
	s := NewSession(id, r.deps)
	s.now = r.now
	s.touch()

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	slog.Info("session created", "session_id", id)
	return s
}

func (r *Sessions) Get(id string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete closes the session, canceling any outstanding search, and forgets it.
func (r *Sessions) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	s.Close()
	slog.Info("session closed", "session_id", id)
	return nil
}

func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle closes sessions inactive for longer than the idle timeout and
// returns how many were removed. A zero idle timeout disables eviction.
func (r *Sessions) EvictIdle() int {
	if r.idleTimeout <= 0 {
		return 0
	}

	cutoff := r.now().Add(-r.idleTimeout)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
		slog.Info("session evicted", "session_id", s.ID)
	}
	return len(idle)
}

// RunJanitor evicts idle sessions every interval until ctx ends.
func (r *Sessions) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 || r.idleTimeout <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(); n > 0 {
				slog.Debug("idle sessions evicted", "count", n, "remaining", r.Len())
			}
		}
	}
}

// CloseAll closes every session. Used on shutdown.
func (r *Sessions) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
