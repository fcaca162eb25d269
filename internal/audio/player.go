package audio

import (
	"errors"
	"sync"
)

// ErrNoAudio is returned when playback is requested for content without a
// clip (e.g. a simulated chat reply). Surfaced as a notice, never a crash.
var ErrNoAudio = errors.New("no audio available")

// Player tracks which clip is audible. At most one plays at a time:
// starting a second stops the first.
type Player struct {
	mu        sync.Mutex
	playingID string
}

func NewPlayer() *Player {
	return &Player{}
}

// Play starts the clip identified by id, displacing whatever was playing.
func (p *Player) Play(id, audioBase64 string) error {
	if audioBase64 == "" {
		return ErrNoAudio
	}
	p.mu.Lock()
	p.playingID = id
	p.mu.Unlock()
	return nil
}

// Toggle plays id if idle or playing something else, and pauses it if it is
// the one currently playing. Returns whether id is playing afterwards.
func (p *Player) Toggle(id, audioBase64 string) (bool, error) {
	p.mu.Lock()
	if p.playingID == id {
		p.playingID = ""
		p.mu.Unlock()
		return false, nil
	}
	p.mu.Unlock()

	if err := p.Play(id, audioBase64); err != nil {
		return false, err
	}
	return true, nil
}

// Finished clears the playing marker when a clip ends naturally. A stale id
// (already displaced by another Play) is ignored.
func (p *Player) Finished(id string) {
	p.mu.Lock()
	if p.playingID == id {
		p.playingID = ""
	}
	p.mu.Unlock()
}

// Stop silences the player.
func (p *Player) Stop() {
	p.mu.Lock()
	p.playingID = ""
	p.mu.Unlock()
}

// PlayingID returns the id of the clip currently playing, or "".
func (p *Player) PlayingID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playingID
}
