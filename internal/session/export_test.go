package session

import (
	"beeb/backend/internal/discovery"
	"beeb/backend/internal/models"
)

// SeedUser installs a finished profile and seeds the engine directly, so
// tests can start at the swipe view without walking the onboarding flow.
func (c *Controller) SeedUser(user *models.UserProfile) {
	c.mu.Lock()
	c.user = user
	c.engine = discovery.NewEngine(user, c.pool, c.resolver, c.draw)
	c.view = ViewSwipe
	c.mu.Unlock()
}
