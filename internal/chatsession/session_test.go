package chatsession_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beeb/backend/internal/audio"
	"beeb/backend/internal/chatsession"
	"beeb/backend/internal/models"
)

const testReplyDelay = 10 * time.Millisecond

func newTestSession() (*chatsession.Session, *audio.PipeDevice) {
	device := audio.NewPipeDevice()
	match := models.Profile{ID: "u1", Name: "Léa", Gender: models.GenderFemme}
	s := chatsession.NewSession(match, audio.NewRecorder(device), audio.NewPlayer(), testReplyDelay)
	return s, device
}

func waitForMessages(t *testing.T, s *chatsession.Session, n int) []models.Message {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(s.Messages()) >= n
	}, time.Second, time.Millisecond)
	return s.Messages()
}

// TestSession_SendSchedulesReply verifies one send yields exactly the sent
// message plus one simulated counterpart reply.
func TestSession_SendSchedulesReply(t *testing.T) {
	s, _ := newTestSession()
	defer s.Close()

	sent, err := s.Send("bWVzc2FnZQ==")
	require.NoError(t, err)
	assert.Equal(t, chatsession.SelfSenderID, sent.SenderID)
	assert.True(t, sent.IsMe)
	assert.True(t, sent.HasAudio())
	assert.NotEmpty(t, sent.ID)

	msgs := waitForMessages(t, s, 2)
	require.Len(t, msgs, 2)

	reply := msgs[1]
	assert.Equal(t, "u1", reply.SenderID)
	assert.False(t, reply.IsMe)
	assert.False(t, reply.HasAudio(), "simulated replies carry no audio")
	assert.NotEqual(t, sent.ID, reply.ID)
}

// TestSession_EventsStreamAppends verifies the events channel sees both the
// send and the reply, in order.
func TestSession_EventsStreamAppends(t *testing.T) {
	s, _ := newTestSession()
	defer s.Close()

	_, err := s.Send("Yg==")
	require.NoError(t, err)

	first := <-s.Events()
	assert.True(t, first.IsMe)

	select {
	case second := <-s.Events():
		assert.False(t, second.IsMe)
		assert.Equal(t, "u1", second.SenderID)
	case <-time.After(time.Second):
		t.Fatal("no reply event")
	}
}

// TestSession_RecordAndSend verifies the record path finalizes the take into
// a voice message.
func TestSession_RecordAndSend(t *testing.T) {
	s, device := newTestSession()
	defer s.Close()

	require.NoError(t, s.StartRecording(context.Background()))
	assert.True(t, s.Recording())

	require.NoError(t, device.Push([]byte("voice bytes")))
	device.CloseInput()

	msg, err := s.StopRecording()
	require.NoError(t, err)
	assert.False(t, s.Recording())
	assert.True(t, msg.IsMe)
	assert.True(t, msg.HasAudio())
}

// TestSession_StopWithoutRecording verifies stopping an idle recorder fails.
func TestSession_StopWithoutRecording(t *testing.T) {
	s, _ := newTestSession()
	defer s.Close()

	_, err := s.StopRecording()
	assert.ErrorIs(t, err, chatsession.ErrNothingRecorded)
}

// TestSession_TogglePlay verifies only one message plays at a time and a
// reply without audio is rejected.
func TestSession_TogglePlay(t *testing.T) {
	s, _ := newTestSession()
	defer s.Close()

	first, err := s.Send("YQ==")
	require.NoError(t, err)
	second, err := s.Send("Yg==")
	require.NoError(t, err)
	msgs := waitForMessages(t, s, 4)

	playing, err := s.TogglePlay(first.ID)
	require.NoError(t, err)
	assert.True(t, playing)
	assert.Equal(t, first.ID, s.PlayingID())

	// Starting the second displaces the first.
	playing, err = s.TogglePlay(second.ID)
	require.NoError(t, err)
	assert.True(t, playing)
	assert.Equal(t, second.ID, s.PlayingID())

	// Toggling the playing one pauses it.
	playing, err = s.TogglePlay(second.ID)
	require.NoError(t, err)
	assert.False(t, playing)
	assert.Empty(t, s.PlayingID())

	// Simulated replies have nothing to play.
	var reply models.Message
	for _, m := range msgs {
		if !m.IsMe {
			reply = m
			break
		}
	}
	_, err = s.TogglePlay(reply.ID)
	assert.ErrorIs(t, err, audio.ErrNoAudio)

	_, err = s.TogglePlay("no-such-id")
	assert.ErrorIs(t, err, chatsession.ErrUnknownMessage)
}

// TestSession_PlaybackFinished verifies natural clip end clears the marker
// and a stale id is ignored.
func TestSession_PlaybackFinished(t *testing.T) {
	s, _ := newTestSession()
	defer s.Close()

	first, err := s.Send("YQ==")
	require.NoError(t, err)
	second, err := s.Send("Yg==")
	require.NoError(t, err)

	_, err = s.TogglePlay(first.ID)
	require.NoError(t, err)
	_, err = s.TogglePlay(second.ID)
	require.NoError(t, err)

	// The displaced clip's finish callback must not silence the new one.
	s.PlaybackFinished(first.ID)
	assert.Equal(t, second.ID, s.PlayingID())

	s.PlaybackFinished(second.ID)
	assert.Empty(t, s.PlayingID())
}

// TestSession_CloseDropsPendingReply verifies a reply timer firing after
// Close has no effect.
func TestSession_CloseDropsPendingReply(t *testing.T) {
	s, _ := newTestSession()

	_, err := s.Send("YQ==")
	require.NoError(t, err)
	s.Close()

	time.Sleep(3 * testReplyDelay)
	assert.Empty(t, s.Messages())

	_, err = s.Send("Yg==")
	assert.ErrorIs(t, err, chatsession.ErrClosed)
	_, err = s.TogglePlay("x")
	assert.ErrorIs(t, err, chatsession.ErrClosed)
}

// TestSession_CloseReleasesRecorder verifies a session closed mid-recording
// frees the capture device for the next session.
func TestSession_CloseReleasesRecorder(t *testing.T) {
	s, device := newTestSession()

	require.NoError(t, s.StartRecording(context.Background()))
	s.Close()

	// The device must accept a fresh capture session.
	recorder := audio.NewRecorder(device)
	require.NoError(t, recorder.Start(context.Background()))
	recorder.Discard()
}
