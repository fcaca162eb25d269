package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type openChatRequest struct {
	MatchID string `json:"matchId" binding:"required"`
}

// OpenChat starts a voice thread with an existing match.
func (h *Handler) OpenChat(c *gin.Context) {
	var req openChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chat, err := sessionFrom(c).OpenChat(req.MatchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": chat.Match()})
}

// GetChat returns the thread and its counterpart.
func (h *Handler) GetChat(c *gin.Context) {
	chat, err := sessionFrom(c).Chat()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"match":     chat.Match(),
		"messages":  chat.Messages(),
		"playing":   chat.PlayingID(),
		"recording": chat.Recording(),
	})
}

type sendVoiceRequest struct {
	AudioBase64 string `json:"audioBase64" binding:"required"`
}

// SendVoice appends a finished clip to the thread. The simulated reply
// lands after the fixed delay.
func (h *Handler) SendVoice(c *gin.Context) {
	chat, err := sessionFrom(c).Chat()
	if err != nil {
		respondError(c, err)
		return
	}
	var req sendVoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := chat.Send(req.AudioBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// StartChatRecording opens the chat capture session.
func (h *Handler) StartChatRecording(c *gin.Context) {
	chat, err := sessionFrom(c).Chat()
	if err != nil {
		respondError(c, err)
		return
	}
	if err := chat.StartRecording(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recording": true})
}

// StopChatRecording finalizes the take and sends it.
func (h *Handler) StopChatRecording(c *gin.Context) {
	ctrl := sessionFrom(c)
	chat, err := ctrl.Chat()
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Device().CloseInput()
	msg, err := chat.StopRecording()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// TogglePlayMessage plays or pauses one message. Simulated replies carry no
// audio and answer with an explicit notice.
func (h *Handler) TogglePlayMessage(c *gin.Context) {
	chat, err := sessionFrom(c).Chat()
	if err != nil {
		respondError(c, err)
		return
	}
	playing, err := chat.TogglePlay(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playing": playing, "playingId": chat.PlayingID()})
}

// MessageFinished clears the playing marker after natural clip end.
func (h *Handler) MessageFinished(c *gin.Context) {
	chat, err := sessionFrom(c).Chat()
	if err != nil {
		respondError(c, err)
		return
	}
	chat.PlaybackFinished(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// CloseChat discards the thread and returns to discovery.
func (h *Handler) CloseChat(c *gin.Context) {
	if err := sessionFrom(c).CloseChat(); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Logout destroys the profile and transient state.
func (h *Handler) Logout(c *gin.Context) {
	sessionFrom(c).Logout()
	c.Status(http.StatusNoContent)
}

// DeleteAccount is the erasure path: the session is torn down and forgotten.
func (h *Handler) DeleteAccount(c *gin.Context) {
	ctrl := sessionFrom(c)
	h.Registry.Remove(ctrl.ID())
	c.Status(http.StatusNoContent)
}
