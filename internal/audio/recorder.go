package audio

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"sync"
)

// ClipMimeType tags every finalized clip. All audio travels as base64 MP3.
const ClipMimeType = "audio/mp3"

// Clip is one finalized recording.
type Clip struct {
	MimeType string `json:"mimeType"`
	Base64   string `json:"base64"`
}

// DataURI renders the clip as a data URI for direct playback.
func (c Clip) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", c.MimeType, c.Base64)
}

// Recorder owns at most one open capture session at a time. Stop and
// Discard both release the device stream; there is no path that leaves a
// half-open handle behind.
type Recorder struct {
	device Device

	mu      sync.Mutex
	current *captureSession
}

func NewRecorder(device Device) *Recorder {
	return &Recorder{device: device}
}

// Start opens a capture session and begins draining the stream. A failed
// open leaves the recorder idle.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		return ErrAlreadyRecording
	}

	stream, err := r.device.Open(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoDevice, err)
	}

	s := &captureSession{
		stream: stream,
		done:   make(chan struct{}),
	}
	r.current = s
	go s.drain()
	return nil
}

// Stop finalizes the captured bytes into a single clip and releases the
// stream, whether or not draining saw an error.
func (r *Recorder) Stop() (*Clip, error) {
	r.mu.Lock()
	s := r.current
	r.current = nil
	r.mu.Unlock()

	if s == nil {
		return nil, ErrNotRecording
	}

	data := s.finalize()
	return &Clip{
		MimeType: ClipMimeType,
		Base64:   base64.StdEncoding.EncodeToString(data),
	}, nil
}

// Discard tears the session down without producing a clip. Used when a
// screen holding an open recorder goes away.
func (r *Recorder) Discard() {
	r.mu.Lock()
	s := r.current
	r.current = nil
	r.mu.Unlock()

	if s != nil {
		s.finalize()
	}
}

// Recording reports whether a capture session is open.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil
}

type captureSession struct {
	stream Stream

	buf  bytes.Buffer
	done chan struct{}

	stopOnce sync.Once
}

// drain copies the stream into the buffer until EOF or close.
func (s *captureSession) drain() {
	defer close(s.done)
	io.Copy(&s.buf, s.stream)
}

// finalize closes the stream, waits for the drain goroutine, and returns
// the captured bytes. stopOnce keeps repeated stop paths harmless.
func (s *captureSession) finalize() []byte {
	s.stopOnce.Do(func() {
		s.stream.Close()
		<-s.done
	})
	return s.buf.Bytes()
}
