package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"beeb/backend/internal/chatsession"
	"beeb/backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // voice clips travel base64-encoded
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser client is served from another origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsInbound is what the chat screen sends over the socket.
type wsInbound struct {
	Type        string `json:"type"`
	AudioBase64 string `json:"audioBase64,omitempty"`
	MessageID   string `json:"messageId,omitempty"`
}

// wsOutbound wraps thread events pushed to the client.
type wsOutbound struct {
	Type    string         `json:"type"`
	Message models.Message `json:"message"`
}

// ServeChatSocket upgrades the connection and streams the open chat
// thread: own sends echo back, simulated replies arrive after their delay.
func (h *Handler) ServeChatSocket(c *gin.Context) {
	chat, err := sessionFrom(c).Chat()
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	go writePump(conn, chat)
	readPump(conn, chat)
}

// readPump accepts send requests from the socket until the client leaves.
func readPump(conn *websocket.Conn, chat *chatsession.Session) {
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("chat socket read error: %v", err)
			}
			return
		}

		var in wsInbound
		if err := json.Unmarshal(message, &in); err != nil {
			log.Printf("chat socket: bad frame: %v", err)
			continue
		}

		switch in.Type {
		case "send":
			if _, err := chat.Send(in.AudioBase64); err != nil {
				log.Printf("chat socket send rejected: %v", err)
			}
		case "finished":
			chat.PlaybackFinished(in.MessageID)
		}
	}
}

// writePump relays thread events to the socket and keeps it alive with
// pings. It stops when the write side fails or the session stops feeding.
func writePump(conn *websocket.Conn, chat *chatsession.Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg := <-chat.Events():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			out := wsOutbound{Type: "message", Message: msg}
			data, err := json.Marshal(out)
			if err != nil {
				log.Printf("chat socket: encode error: %v", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
