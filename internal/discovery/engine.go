package discovery

import (
	"context"
	"errors"
	"sync"

	"beeb/backend/internal/config"
	"beeb/backend/internal/models"
	"beeb/backend/internal/resolver"
)

// CardState tracks the mystery-mode phase of the current candidate.
// Every new candidate starts Hidden; Reveal is one-way.
type CardState int

const (
	CardHidden CardState = iota
	CardRevealed
)

// Event is the outcome of the overloaded primary action.
type Event int

const (
	// EventRevealed: the card was Hidden and is now Revealed. No match
	// evaluation happened.
	EventRevealed Event = iota
	// EventMatched: the like draw cleared the threshold.
	EventMatched
	// EventPassed: the like draw failed; the cursor advanced as if passed.
	EventPassed
)

var (
	ErrNoCandidate       = errors.New("no candidate at cursor")
	ErrNotRevealed       = errors.New("photos locked until revealed")
	ErrSynthesisInFlight = errors.New("audio synthesis already in progress")
	ErrEngineClosed      = errors.New("discovery engine closed")
)

// DrawFunc supplies the uniform [0,1) value for a like evaluation.
// Injectable so tests can pin the draw.
type DrawFunc func() float64

// Engine walks the filtered candidate list and runs the reveal-then-like
// interaction. The match list itself is owned by the session controller;
// the engine only reports outcomes.
type Engine struct {
	resolver resolver.Resolver
	draw     DrawFunc

	mu         sync.Mutex
	candidates []models.Profile
	cursor     int
	state      CardState
	photoIndex int

	audioCache map[string]string
	loading    map[string]bool
	closed     bool
}

// FilterPool derives the candidate list: pool entries whose gender is in the
// user's audience, minus the user themself. Order is the pool's order;
// applying the filter again yields the same list.
func FilterPool(user *models.UserProfile, pool []models.Profile) []models.Profile {
	out := make([]models.Profile, 0, len(pool))
	for _, p := range pool {
		if p.ID == user.ID {
			continue
		}
		if user.Wants(p.Gender) {
			out = append(out, p)
		}
	}
	return out
}

func NewEngine(user *models.UserProfile, pool []models.Profile, res resolver.Resolver, draw DrawFunc) *Engine {
	return &Engine{
		resolver:   res,
		draw:       draw,
		candidates: FilterPool(user, pool),
		audioCache: make(map[string]string),
		loading:    make(map[string]bool),
	}
}

// Current returns the candidate at the cursor, or false when the list is
// exhausted.
func (e *Engine) Current() (models.Profile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cursor >= len(e.candidates) {
		return models.Profile{}, false
	}
	return e.candidates[e.cursor], true
}

// State returns the current candidate's card state.
func (e *Engine) State() CardState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Exhausted reports whether the cursor ran past the candidate list.
func (e *Engine) Exhausted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor >= len(e.candidates)
}

// Remaining returns how many candidates are left from the cursor on.
func (e *Engine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cursor >= len(e.candidates) {
		return 0
	}
	return len(e.candidates) - e.cursor
}

// Advance is the overloaded primary action. While Hidden it reveals the
// card; while Revealed it evaluates a like. Reveal always happens before
// any match evaluation; there is no bypass.
func (e *Engine) Advance() (Event, models.Profile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cursor >= len(e.candidates) {
		return 0, models.Profile{}, ErrNoCandidate
	}
	candidate := e.candidates[e.cursor]

	if e.state == CardHidden {
		e.state = CardRevealed
		return EventRevealed, candidate, nil
	}

	// Like: unilateral chance, no reciprocal ledger. On a match the cursor
	// stays put; it advances when the celebration screen is dismissed.
	if e.draw() > config.MatchThreshold {
		return EventMatched, candidate, nil
	}
	e.advanceCursorLocked()
	return EventPassed, candidate, nil
}

// Pass advances the cursor from either card state, discarding the current
// candidate's transient UI state.
func (e *Engine) Pass() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cursor >= len(e.candidates) {
		return ErrNoCandidate
	}
	e.advanceCursorLocked()
	return nil
}

func (e *Engine) advanceCursorLocked() {
	e.cursor++
	e.state = CardHidden
	e.photoIndex = 0
}

// Reset re-traverses the same filtered list from the top. It does not
// re-filter or re-shuffle.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.cursor = 0
	e.state = CardHidden
	e.photoIndex = 0
	e.mu.Unlock()
}

// PhotoIndex returns the current photo within the candidate card.
func (e *Engine) PhotoIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.photoIndex
}

// NextPhoto steps to the next photo. Only permitted once revealed; at the
// last photo it stays put.
func (e *Engine) NextPhoto() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cursor >= len(e.candidates) {
		return ErrNoCandidate
	}
	if e.state != CardRevealed {
		return ErrNotRevealed
	}
	if e.photoIndex < len(e.candidates[e.cursor].ImageURLs)-1 {
		e.photoIndex++
	}
	return nil
}

// PrevPhoto steps back one photo, stopping at the first.
func (e *Engine) PrevPhoto() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cursor >= len(e.candidates) {
		return ErrNoCandidate
	}
	if e.state != CardRevealed {
		return ErrNotRevealed
	}
	if e.photoIndex > 0 {
		e.photoIndex--
	}
	return nil
}

// RequestAudio returns the current candidate's voice clip, synthesizing one
// from the bio on first request. At most one synthesis call per candidate
// may be outstanding; the result is cached for the session.
func (e *Engine) RequestAudio(ctx context.Context) (string, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return "", ErrEngineClosed
	}
	if e.cursor >= len(e.candidates) {
		e.mu.Unlock()
		return "", ErrNoCandidate
	}
	candidate := e.candidates[e.cursor]
	if candidate.AudioBase64 != "" {
		e.mu.Unlock()
		return candidate.AudioBase64, nil
	}
	if cached, ok := e.audioCache[candidate.ID]; ok {
		e.mu.Unlock()
		return cached, nil
	}
	if e.loading[candidate.ID] {
		e.mu.Unlock()
		return "", ErrSynthesisInFlight
	}
	e.loading[candidate.ID] = true
	e.mu.Unlock()

	clip, err := e.resolver.GenerateProfileAudio(ctx, candidate.BioText, candidate.Gender)

	e.mu.Lock()
	delete(e.loading, candidate.ID)
	if e.closed {
		// Engine torn down while the call was outstanding; drop the result.
		e.mu.Unlock()
		return "", ErrEngineClosed
	}
	if err != nil {
		// Clip slot stays empty so a later attempt may retry.
		e.mu.Unlock()
		return "", err
	}
	e.audioCache[candidate.ID] = clip
	e.mu.Unlock()
	return clip, nil
}

// AudioLoading reports whether a synthesis call is outstanding for the
// current candidate, so the trigger control can be disabled.
func (e *Engine) AudioLoading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cursor >= len(e.candidates) {
		return false
	}
	return e.loading[e.candidates[e.cursor].ID]
}

// Close marks the engine dead; late synthesis responses are discarded
// instead of mutating torn-down state.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}
