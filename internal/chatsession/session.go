package chatsession

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"beeb/backend/internal/audio"
	"beeb/backend/internal/models"
)

// SelfSenderID marks messages sent by the session owner.
const SelfSenderID = "me"

var (
	ErrClosed          = errors.New("chat session closed")
	ErrUnknownMessage  = errors.New("unknown message")
	ErrNothingRecorded = audio.ErrNotRecording
)

// Session is one voice-message thread with a matched profile. Messages are
// append-only and live only as long as the session; closing it discards
// them. Each send is answered by a simulated counterpart reply after a
// fixed delay.
type Session struct {
	match      models.Profile
	recorder   *audio.Recorder
	player     *audio.Player
	replyDelay time.Duration

	mu       sync.Mutex
	messages []models.Message
	closed   bool
	events   chan models.Message
}

func NewSession(match models.Profile, rec *audio.Recorder, player *audio.Player, replyDelay time.Duration) *Session {
	return &Session{
		match:      match,
		recorder:   rec,
		player:     player,
		replyDelay: replyDelay,
		events:     make(chan models.Message, 16),
	}
}

// Match returns the counterpart profile.
func (s *Session) Match() models.Profile { return s.match }

// Events streams appended messages (own sends and simulated replies) to the
// transport layer. The channel is never closed; Close simply stops feeding
// it.
func (s *Session) Events() <-chan models.Message { return s.events }

// StartRecording opens the chat's capture session.
func (s *Session) StartRecording(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.mu.Unlock()
	return s.recorder.Start(ctx)
}

// StopRecording finalizes the take and sends it as a voice message.
func (s *Session) StopRecording() (models.Message, error) {
	clip, err := s.recorder.Stop()
	if err != nil {
		return models.Message{}, err
	}
	return s.Send(clip.Base64)
}

// Send appends the user's voice message and schedules the simulated reply.
// The reply timer is not cancellable; if the session closes before it fires,
// its effect is dropped.
func (s *Session) Send(audioBase64 string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return models.Message{}, ErrClosed
	}

	msg := models.Message{
		ID:          uuid.New().String(),
		SenderID:    SelfSenderID,
		AudioBase64: audioBase64,
		Timestamp:   time.Now().UnixMilli(),
		IsMe:        true,
	}
	s.appendLocked(msg)

	time.AfterFunc(s.replyDelay, s.simulateReply)
	return msg, nil
}

// simulateReply appends the counterpart's answer. Replies are simulated and
// carry no audio. A session closed in the meantime swallows the event.
func (s *Session) simulateReply() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.appendLocked(models.Message{
		ID:        uuid.New().String(),
		SenderID:  s.match.ID,
		Timestamp: time.Now().UnixMilli(),
		IsMe:      false,
	})
}

func (s *Session) appendLocked(msg models.Message) {
	s.messages = append(s.messages, msg)
	select {
	case s.events <- msg:
	default:
		// Slow consumer; the thread itself stays authoritative.
	}
}

// Messages returns the thread in append order.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// TogglePlay plays or pauses one message. Only one message is audible at a
// time; playing a second displaces the first. A simulated reply has no
// audio and yields audio.ErrNoAudio.
func (s *Session) TogglePlay(messageID string) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	var found *models.Message
	for i := range s.messages {
		if s.messages[i].ID == messageID {
			found = &s.messages[i]
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		return false, ErrUnknownMessage
	}
	return s.player.Toggle(found.ID, found.AudioBase64)
}

// PlaybackFinished clears the playing marker after natural clip end.
func (s *Session) PlaybackFinished(messageID string) {
	s.player.Finished(messageID)
}

// PlayingID returns the id of the message currently playing, or "".
func (s *Session) PlayingID() string { return s.player.PlayingID() }

// Recording reports whether the chat capture session is open.
func (s *Session) Recording() bool { return s.recorder.Recording() }

// Close discards the thread. Any open recording is torn down (releasing the
// device stream) and pending reply timers become no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.messages = nil
	s.mu.Unlock()

	s.recorder.Discard()
	s.player.Stop()
}
