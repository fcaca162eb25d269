package session

import (
	"errors"
	"sync"
	"time"

	"beeb/backend/internal/audio"
	"beeb/backend/internal/chatsession"
	"beeb/backend/internal/discovery"
	"beeb/backend/internal/models"
	"beeb/backend/internal/onboarding"
	"beeb/backend/internal/resolver"
)

// View names the single active screen of a session. Exactly one view is
// active at a time; they never stack.
type View string

const (
	ViewOnboarding View = "onboarding"
	ViewSwipe      View = "swipe"
	ViewMatch      View = "match"
	ViewChat       View = "chat"
)

var (
	ErrWrongView    = errors.New("action not available on the active view")
	ErrUnknownMatch = errors.New("profile is not in the match list")
)

// Controller owns one client session end to end: the onboarding flow, the
// user profile it produces, the discovery engine, the match list, and the
// celebration/chat targets. It is the only mutator of that state.
type Controller struct {
	id         string
	pool       []models.Profile
	resolver   resolver.Resolver
	draw       discovery.DrawFunc
	replyDelay time.Duration

	// One capture device per session; the mutually exclusive views keep at
	// most one capture session open on it.
	device   *audio.PipeDevice
	recorder *audio.Recorder
	player   *audio.Player

	mu          sync.Mutex
	view        View
	flow        *onboarding.Flow
	user        *models.UserProfile
	engine      *discovery.Engine
	matches     []models.Profile
	celebration *models.Profile
	chat        *chatsession.Session
}

func NewController(id string, pool []models.Profile, res resolver.Resolver, draw discovery.DrawFunc, replyDelay time.Duration) *Controller {
	device := audio.NewPipeDevice()
	recorder := audio.NewRecorder(device)
	return &Controller{
		id:         id,
		pool:       pool,
		resolver:   res,
		draw:       draw,
		replyDelay: replyDelay,
		device:     device,
		recorder:   recorder,
		player:     audio.NewPlayer(),
		view:       ViewOnboarding,
		flow:       onboarding.NewFlow(id, res, recorder),
	}
}

// ID returns the session's anonymous id.
func (c *Controller) ID() string { return c.id }

// View returns the active screen.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Device exposes the capture device so the transport can push audio chunks.
func (c *Controller) Device() *audio.PipeDevice { return c.device }

// Onboarding returns the flow while onboarding is the active view.
func (c *Controller) Onboarding() (*onboarding.Flow, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view != ViewOnboarding {
		return nil, ErrWrongView
	}
	return c.flow, nil
}

// CompleteOnboarding assembles the user profile, seeds the discovery engine
// with the filtered pool, and hands control to the swipe view.
func (c *Controller) CompleteOnboarding() (*models.UserProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view != ViewOnboarding {
		return nil, ErrWrongView
	}

	user, err := c.flow.Complete()
	if err != nil {
		return nil, err
	}
	c.user = user
	c.engine = discovery.NewEngine(user, c.pool, c.resolver, c.draw)
	c.view = ViewSwipe
	return user, nil
}

// User returns the profile built by onboarding, nil before completion.
func (c *Controller) User() *models.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Discovery returns the engine while swiping is the active view.
func (c *Controller) Discovery() (*discovery.Engine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view != ViewSwipe {
		return nil, ErrWrongView
	}
	return c.engine, nil
}

// AdvanceCard runs the overloaded primary action. A match appends to the
// match list and switches to the celebration view.
func (c *Controller) AdvanceCard() (discovery.Event, models.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view != ViewSwipe {
		return 0, models.Profile{}, ErrWrongView
	}

	event, candidate, err := c.engine.Advance()
	if err != nil {
		return 0, models.Profile{}, err
	}
	if event == discovery.EventMatched {
		c.matches = append(c.matches, candidate)
		c.celebration = &candidate
		c.view = ViewMatch
	}
	return event, candidate, nil
}

// PassCard advances past the current candidate without evaluating a match.
func (c *Controller) PassCard() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view != ViewSwipe {
		return ErrWrongView
	}
	return c.engine.Pass()
}

// Celebration returns the profile on the match screen, if any.
func (c *Controller) Celebration() (models.Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.celebration == nil {
		return models.Profile{}, false
	}
	return *c.celebration, true
}

// DismissCelebration leaves the match screen, advancing the cursor past the
// matched candidate. With openChat it drops straight into the voice thread.
func (c *Controller) DismissCelebration(openChat bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view != ViewMatch || c.celebration == nil {
		return ErrWrongView
	}

	match := *c.celebration
	c.celebration = nil
	// Ignore exhaustion: the matched card may have been the last one.
	_ = c.engine.Pass()

	if openChat {
		c.chat = chatsession.NewSession(match, c.recorder, c.player, c.replyDelay)
		c.view = ViewChat
		return nil
	}
	c.view = ViewSwipe
	return nil
}

// Matches returns the accumulated match list in match order.
func (c *Controller) Matches() []models.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Profile, len(c.matches))
	copy(out, c.matches)
	return out
}

// OpenChat starts a voice thread with an existing match from the swipe view.
func (c *Controller) OpenChat(matchID string) (*chatsession.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view != ViewSwipe {
		return nil, ErrWrongView
	}
	for _, m := range c.matches {
		if m.ID == matchID {
			c.chat = chatsession.NewSession(m, c.recorder, c.player, c.replyDelay)
			c.view = ViewChat
			return c.chat, nil
		}
	}
	return nil, ErrUnknownMatch
}

// Chat returns the open voice thread.
func (c *Controller) Chat() (*chatsession.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view != ViewChat || c.chat == nil {
		return nil, ErrWrongView
	}
	return c.chat, nil
}

// CloseChat discards the thread and returns to the swipe view at the next
// candidate.
func (c *Controller) CloseChat() error {
	c.mu.Lock()
	if c.view != ViewChat || c.chat == nil {
		c.mu.Unlock()
		return ErrWrongView
	}
	chat := c.chat
	c.chat = nil
	c.view = ViewSwipe
	c.mu.Unlock()

	chat.Close()
	return nil
}

// Logout destroys the user profile and all transient state and returns the
// session to onboarding.
func (c *Controller) Logout() {
	c.mu.Lock()
	engine := c.engine
	chat := c.chat
	c.user = nil
	c.engine = nil
	c.chat = nil
	c.matches = nil
	c.celebration = nil
	c.flow = onboarding.NewFlow(c.id, c.resolver, c.recorder)
	c.view = ViewOnboarding
	c.mu.Unlock()

	if chat != nil {
		chat.Close()
	}
	if engine != nil {
		engine.Close()
	}
	c.recorder.Discard()
	c.player.Stop()
}

// DeleteAccount is the erasure path. With no persistence behind the session
// it is logout plus forgetting the session entirely (handled by the
// registry).
func (c *Controller) DeleteAccount() {
	c.Logout()
}

// Close tears the whole session down, releasing any open capture stream.
func (c *Controller) Close() {
	c.Logout()
}
