package models

// Message is one voice exchange inside a chat session. Simulated replies
// from the counterpart carry no audio payload.
type Message struct {
	ID          string `json:"id"`
	SenderID    string `json:"senderId"`
	AudioBase64 string `json:"audioBase64,omitempty"`
	Timestamp   int64  `json:"timestamp"`
	IsMe        bool   `json:"isMe"`
}

// HasAudio reports whether the message carries a playable clip.
func (m Message) HasAudio() bool { return m.AudioBase64 != "" }
