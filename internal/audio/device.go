package audio

import (
	"context"
	"errors"
	"io"
	"sync"
)

var (
	// ErrNoDevice means the capture device could not be opened (permission
	// denied, nothing attached). Recording state must stay false.
	ErrNoDevice = errors.New("audio device unavailable")

	// ErrAlreadyRecording is returned when a second capture session is
	// requested while one is open. Only one may exist across the app.
	ErrAlreadyRecording = errors.New("capture session already open")

	// ErrNotRecording is returned by Stop without an open session.
	ErrNotRecording = errors.New("no open capture session")
)

// Stream is a live capture byte stream. Close releases the underlying
// device handle; it must be safe to call more than once.
type Stream interface {
	io.ReadCloser
}

// Device opens capture sessions. Open fails with ErrNoDevice (possibly
// wrapped) when the microphone cannot be acquired.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// PipeDevice bridges externally pushed bytes into a capture Stream. The API
// layer feeds it the audio chunks a client uploads; the Recorder drains the
// read side like any other device.
type PipeDevice struct {
	mu sync.Mutex
	pw *io.PipeWriter
}

func NewPipeDevice() *PipeDevice {
	return &PipeDevice{}
}

func (d *PipeDevice) Open(ctx context.Context) (Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pw != nil {
		return nil, ErrAlreadyRecording
	}
	pr, pw := io.Pipe()
	d.pw = pw
	return &pipeStream{pr: pr, device: d}, nil
}

// Push appends captured bytes to the open stream.
func (d *PipeDevice) Push(p []byte) error {
	d.mu.Lock()
	pw := d.pw
	d.mu.Unlock()
	if pw == nil {
		return ErrNotRecording
	}
	_, err := pw.Write(p)
	return err
}

// CloseInput signals end of capture to the read side.
func (d *PipeDevice) CloseInput() {
	d.mu.Lock()
	pw := d.pw
	d.mu.Unlock()
	if pw != nil {
		pw.Close()
	}
}

func (d *PipeDevice) release() {
	d.mu.Lock()
	if d.pw != nil {
		d.pw.Close()
		d.pw = nil
	}
	d.mu.Unlock()
}

type pipeStream struct {
	pr     *io.PipeReader
	device *PipeDevice
	once   sync.Once
}

func (s *pipeStream) Read(p []byte) (int, error) { return s.pr.Read(p) }

func (s *pipeStream) Close() error {
	s.once.Do(func() {
		s.pr.Close()
		s.device.release()
	})
	return nil
}
