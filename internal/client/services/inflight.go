package services

import "sync"

// InFlight lets at most one call per key run at a time.
type InFlight struct {
	mu      sync.Mutex
	running map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{running: make(map[string]struct{})}
}

// Do runs fn unless another call with the same key is still running, in
// which case it returns ErrInFlight immediately.
func (g *InFlight) Do(key string, fn func() error) error {
	g.mu.Lock()
	if _, busy := g.running[key]; busy {
		g.mu.Unlock()
		return ErrInFlight
	}
	g.running[key] = struct{}{}
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.running, key)
		g.mu.Unlock()
	}()
	return fn()
}

// Busy reports whether a call with key is running.
func (g *InFlight) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.running[key]
	return ok
}
