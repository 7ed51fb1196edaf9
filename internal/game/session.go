package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is a single player's in-progress game.
type Session struct {
	ID           string
	PlayerID     string
	StartedAt    time.Time
	LastActivity time.Time
	CurrentRound int
	Active       bool
}

// SessionStats is a read-only snapshot for observability. Durations are
// reported in milliseconds to match the public API.
type SessionStats struct {
	SessionID             string     `json:"sessionId"`
	PlayerID              string     `json:"playerId"`
	CurrentRound          int        `json:"currentRound"`
	SessionDuration       int64      `json:"sessionDuration"`
	TimeSinceLastActivity int64      `json:"timeSinceLastActivity"`
	CurrentConfig         GameConfig `json:"currentConfig"`
	IsActive              bool       `json:"isActive"`
}

// Registry owns all session state. A single mutex serializes every mutation
// so overlapping updates for the same session cannot lose writes; sessions
// for different players still proceed without coordination beyond the map
// access itself.
type Registry struct {
	maxInactive time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	configs  map[string]GameConfig
	now      func() time.Time
}

func NewRegistry(maxInactive time.Duration) *Registry {
	return &Registry{
		maxInactive: maxInactive,
		sessions:    make(map[string]*Session),
		configs:     make(map[string]GameConfig),
		now:         time.Now,
	}
}

// Create allocates a session with a fresh v4 UUID (crypto/rand backed) and
// the catalog default configuration.
func (r *Registry) Create(playerID string) (string, GameConfig) {
	id := uuid.NewString()
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[id] = &Session{
		ID:           id,
		PlayerID:     playerID,
		StartedAt:    now,
		LastActivity: now,
		CurrentRound: 1,
		Active:       true,
	}
	cfg := DefaultConfig()
	r.configs[id] = cfg
	return id, cfg
}

// Get returns the session if it exists and has not exceeded the inactivity
// window. Expiry is checked lazily: an expired session is ended here, on
// access, and reported absent.
func (r *Registry) Get(id string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.getLocked(id)
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// TouchActivity refreshes the activity timestamp. A newRound greater than
// the stored round advances it; stale or out-of-order rounds never regress
// the counter. Pass 0 to touch without a round.
func (r *Registry) TouchActivity(id string, newRound int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	s.LastActivity = r.now()
	if newRound > s.CurrentRound {
		s.CurrentRound = newRound
	}
	return true
}

// Config returns the session's current configuration, applying the same
// lazy expiry as Get.
func (r *Registry) Config(id string) (GameConfig, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.getLocked(id); !ok {
		return GameConfig{}, false
	}
	cfg, ok := r.configs[id]
	return cfg, ok
}

// SetConfig replaces the session's configuration and touches activity.
// Ownership transfers wholesale; configs are never merged.
func (r *Registry) SetConfig(id string, cfg GameConfig) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.getLocked(id)
	if !ok {
		return false
	}
	r.configs[id] = cfg
	s.LastActivity = r.now()
	return true
}

// End removes the session and its configuration. Reports whether a session
// existed; ending an already-removed session is a no-op, which keeps the
// sweep and lazy expiry from racing destructively.
func (r *Registry) End(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.endLocked(id)
}

func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Stats returns an observability snapshot, absent for unknown or expired
// sessions.
func (r *Registry) Stats(id string) (SessionStats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.getLocked(id)
	if !ok {
		return SessionStats{}, false
	}
	now := r.now()
	return SessionStats{
		SessionID:             s.ID,
		PlayerID:              s.PlayerID,
		CurrentRound:          s.CurrentRound,
		SessionDuration:       now.Sub(s.StartedAt).Milliseconds(),
		TimeSinceLastActivity: now.Sub(s.LastActivity).Milliseconds(),
		CurrentConfig:         r.configs[id],
		IsActive:              s.Active,
	}, true
}

// SweepExpired ends every session past the inactivity window and returns how
// many were removed. Intended to run on a background timer so memory stays
// bounded without client traffic.
func (r *Registry) SweepExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if r.now().Sub(s.LastActivity) > r.maxInactive {
			r.endLocked(id)
			n++
		}
	}
	return n
}

func (r *Registry) getLocked(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if r.now().Sub(s.LastActivity) > r.maxInactive {
		r.endLocked(id)
		return nil, false
	}
	return s, true
}

func (r *Registry) endLocked(id string) bool {
	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	s.Active = false
	delete(r.sessions, id)
	delete(r.configs, id)
	return true
}
