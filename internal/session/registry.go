package session

import (
	"log"
	"sync"
	"time"

	"beeb/backend/internal/discovery"
	"beeb/backend/internal/models"
	"beeb/backend/internal/resolver"
)

// Registry holds the live session controllers, keyed by the anonymous id
// carried in the session token. Purely in-memory: a restart forgets
// everything, which is the intended lifecycle.
type Registry struct {
	pool       []models.Profile
	resolver   resolver.Resolver
	draw       discovery.DrawFunc
	replyDelay time.Duration

	mu       sync.Mutex
	sessions map[string]*Controller
}

func NewRegistry(pool []models.Profile, res resolver.Resolver, draw discovery.DrawFunc, replyDelay time.Duration) *Registry {
	return &Registry{
		pool:       pool,
		resolver:   res,
		draw:       draw,
		replyDelay: replyDelay,
		sessions:   make(map[string]*Controller),
	}
}

// GetOrCreate returns the controller for id, creating a fresh one at the
// onboarding view on first contact.
func (r *Registry) GetOrCreate(id string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.sessions[id]; ok {
		return c
	}
	c := NewController(id, r.pool, r.resolver, r.draw, r.replyDelay)
	r.sessions[id] = c
	log.Printf("session %s created", id)
	return c
}

// Get returns the controller for id, if one exists.
func (r *Registry) Get(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.sessions[id]
	return c, ok
}

// Remove tears a session down and forgets it (logout surface of account
// deletion).
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	c, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		c.Close()
		log.Printf("session %s removed", id)
	}
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
