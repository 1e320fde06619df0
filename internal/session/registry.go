package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cognisys-ai/verbal-insights/internal/genai"
)

// DefaultIdleTTL is how long an untouched session survives before the
// janitor drops it.
const DefaultIdleTTL = 2 * time.Hour

// Registry tracks live sessions in memory and supports graceful draining:
// once draining starts, new sessions are rejected while existing ones keep
// working until the server shuts down.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	draining bool
	idleTTL  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRegistry creates a registry and starts its idle-sweep janitor.
func NewRegistry(idleTTL time.Duration) *Registry {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	r := &Registry{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		stop:     make(chan struct{}),
	}
	go r.janitor()
	return r
}

// Create registers a new session. Returns false when the registry is
// draining and no new sessions are accepted. The draining check and the map
// insert are performed atomically under the mutex.
func (r *Registry) Create(mode genai.Mode) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.draining {
		return nil, false
	}
	s := newSession(uuid.NewString(), mode)
	r.sessions[s.ID] = s
	return s, true
}

// janitor periodically drops sessions idle past the TTL.
func (r *Registry) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case now := <-ticker.C:
			r.sweep(now)
		}
	}
}

func (r *Registry) sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if now.Sub(s.idleSince()) > r.idleTTL {
			delete(r.sessions, id)
		}
	}
}

// Get returns the session with the given ID.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Delete removes a session.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// StartDraining rejects all future Create calls. Safe to call concurrently
// with Create; the mutex ensures no session slips through afterwards.
func (r *Registry) StartDraining() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draining = true
}

// IsDraining reports whether the registry is in draining mode.
func (r *Registry) IsDraining() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draining
}

// Close stops the janitor.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
}
