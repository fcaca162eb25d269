package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"beeb/backend/internal/discovery"
	"beeb/backend/internal/models"
)

// cardView is what the swipe screen renders for the current candidate.
// While hidden the client blurs the photos and masks the name; the state
// flag drives that.
type cardView struct {
	Profile      models.Profile `json:"profile"`
	Revealed     bool           `json:"revealed"`
	PhotoIndex   int            `json:"photoIndex"`
	AudioLoading bool           `json:"audioLoading"`
	Remaining    int            `json:"remaining"`
}

// GetCard returns the candidate at the cursor, or 204 when the list is
// exhausted and the client should render the terminal view.
func (h *Handler) GetCard(c *gin.Context) {
	engine, err := sessionFrom(c).Discovery()
	if err != nil {
		respondError(c, err)
		return
	}
	profile, ok := engine.Current()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, cardView{
		Profile:      profile,
		Revealed:     engine.State() == discovery.CardRevealed,
		PhotoIndex:   engine.PhotoIndex(),
		AudioLoading: engine.AudioLoading(),
		Remaining:    engine.Remaining(),
	})
}

// AdvanceCard runs the overloaded primary action: reveal while hidden,
// like-evaluation while revealed.
func (h *Handler) AdvanceCard(c *gin.Context) {
	ctrl := sessionFrom(c)
	event, candidate, err := ctrl.AdvanceCard()
	if err != nil {
		respondError(c, err)
		return
	}

	switch event {
	case discovery.EventRevealed:
		c.JSON(http.StatusOK, gin.H{"event": "revealed"})
	case discovery.EventMatched:
		c.JSON(http.StatusOK, gin.H{"event": "matched", "profile": candidate})
	default:
		c.JSON(http.StatusOK, gin.H{"event": "passed"})
	}
}

// PassCard advances without a match evaluation.
func (h *Handler) PassCard(c *gin.Context) {
	if err := sessionFrom(c).PassCard(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": "passed"})
}

// ResetDeck restarts the same filtered list from the top.
func (h *Handler) ResetDeck(c *gin.Context) {
	engine, err := sessionFrom(c).Discovery()
	if err != nil {
		respondError(c, err)
		return
	}
	engine.Reset()
	c.Status(http.StatusNoContent)
}

// NextPhoto steps forward through the revealed candidate's photos.
func (h *Handler) NextPhoto(c *gin.Context) {
	engine, err := sessionFrom(c).Discovery()
	if err != nil {
		respondError(c, err)
		return
	}
	if err := engine.NextPhoto(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photoIndex": engine.PhotoIndex()})
}

// PrevPhoto steps back through the revealed candidate's photos.
func (h *Handler) PrevPhoto(c *gin.Context) {
	engine, err := sessionFrom(c).Discovery()
	if err != nil {
		respondError(c, err)
		return
	}
	if err := engine.PrevPhoto(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photoIndex": engine.PhotoIndex()})
}

// RequestCardAudio returns the candidate's voice clip, synthesizing it from
// the bio on first request.
func (h *Handler) RequestCardAudio(c *gin.Context) {
	engine, err := sessionFrom(c).Discovery()
	if err != nil {
		respondError(c, err)
		return
	}
	clip, err := engine.RequestAudio(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audioBase64": clip, "mimeType": "audio/mp3"})
}

// GetMatches returns the accumulated match list.
func (h *Handler) GetMatches(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"matches": sessionFrom(c).Matches()})
}

// GetCelebration returns the profile on the match screen.
func (h *Handler) GetCelebration(c *gin.Context) {
	profile, ok := sessionFrom(c).Celebration()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

type dismissRequest struct {
	OpenChat bool `json:"openChat"`
}

// DismissCelebration leaves the match screen, optionally straight into the
// voice thread with the new match.
func (h *Handler) DismissCelebration(c *gin.Context) {
	var req dismissRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sessionFrom(c).DismissCelebration(req.OpenChat); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": sessionFrom(c).View()})
}
