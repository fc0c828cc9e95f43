package game

import "sync"

// Registry owns one session per room. Injected, not global, so tests can
// build isolated instances.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) get(channel string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[channel]
	if !ok {
		s = newSession(channel)
		r.sessions[channel] = s
	}
	return s
}

func (r *Registry) peek(channel string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[channel]
}
