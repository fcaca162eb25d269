package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"beeb/backend/internal/models"
)

// GetOnboarding returns the current form snapshot.
func (h *Handler) GetOnboarding(c *gin.Context) {
	flow, err := sessionFrom(c).Onboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow.SnapshotState())
}

type termsRequest struct {
	Accepted bool `json:"accepted"`
}

// AcceptTerms records the consent checkbox.
func (h *Handler) AcceptTerms(c *gin.Context) {
	flow, err := sessionFrom(c).Onboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	var req termsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	flow.AcceptTerms(req.Accepted)
	c.JSON(http.StatusOK, flow.SnapshotState())
}

// Pay runs the simulated payment and advances to the identity step.
func (h *Handler) Pay(c *gin.Context) {
	flow, err := sessionFrom(c).Onboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	if err := flow.Pay(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow.SnapshotState())
}

type identityRequest struct {
	Name       string        `json:"name"`
	Age        int           `json:"age"`
	Gender     models.Gender `json:"gender"`
	SecondName string        `json:"secondName"`
	SecondAge  int           `json:"secondAge"`
}

// SetIdentity updates the identity form fields.
func (h *Handler) SetIdentity(c *gin.Context) {
	flow, err := sessionFrom(c).Onboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	var req identityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Gender != "" && !req.Gender.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown gender"})
		return
	}

	flow.SetName(req.Name)
	flow.SetAge(req.Age)
	if req.Gender != "" {
		flow.SetGender(req.Gender)
	}
	if req.Gender == models.GenderCouple {
		flow.SetPartner(req.SecondName, req.SecondAge)
	}
	c.JSON(http.StatusOK, flow.SnapshotState())
}

type targetGenderRequest struct {
	Gender models.Gender `json:"gender"`
}

// ToggleTargetGender flips one gender in the audience selection.
func (h *Handler) ToggleTargetGender(c *gin.Context) {
	flow, err := sessionFrom(c).Onboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	var req targetGenderRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Gender.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown gender"})
		return
	}
	flow.ToggleTargetGender(req.Gender)
	c.JSON(http.StatusOK, flow.SnapshotState())
}

type locationRequest struct {
	Location     string `json:"location"`
	SearchRadius int    `json:"searchRadius"`
}

// SetLocation stores the typed location and radius.
func (h *Handler) SetLocation(c *gin.Context) {
	flow, err := sessionFrom(c).Onboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Location != "" {
		flow.SetLocation(req.Location)
	}
	if req.SearchRadius != 0 {
		if err := flow.SetSearchRadius(req.SearchRadius); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, flow.SnapshotState())
}

// VerifyLocation resolves the typed city through the generative service.
func (h *Handler) VerifyLocation(c *gin.Context) {
	flow, err := sessionFrom(c).Onboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	if err := flow.VerifyLocation(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow.SnapshotState())
}

type coordinatesRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

// UseCoordinates resolves device coordinates into a display address.
func (h *Handler) UseCoordinates(c *gin.Context) {
	flow, err := sessionFrom(c).Onboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	var req coordinatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := flow.UseCoordinates(c.Request.Context(), req.Latitude, req.Longitude); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow.SnapshotState())
}

// StartVoiceBio opens the capture session for the voice bio.
func (h *Handler) StartVoiceBio(c *gin.Context) {
	ctrl := sessionFrom(c)
	flow, err := ctrl.Onboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	if err := flow.StartRecording(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recording": true})
}

// PushVoiceChunk feeds uploaded audio bytes into the open capture session.
func (h *Handler) PushVoiceChunk(c *gin.Context) {
	ctrl := sessionFrom(c)
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := ctrl.Device().Push(body); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StopVoiceBio finalizes the take into the bio clip.
func (h *Handler) StopVoiceBio(c *gin.Context) {
	ctrl := sessionFrom(c)
	flow, err := ctrl.Onboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Device().CloseInput()
	if err := flow.StopRecording(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow.SnapshotState())
}

// DeleteVoiceBio discards the recorded clip.
func (h *Handler) DeleteVoiceBio(c *gin.Context) {
	flow, err := sessionFrom(c).Onboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	flow.DeleteRecording()
	c.JSON(http.StatusOK, flow.SnapshotState())
}

type photoRequest struct {
	DataURI string `json:"dataUri" binding:"required"`
}

// AddPhoto attaches one data-URI image. Beyond the limit it is a no-op.
func (h *Handler) AddPhoto(c *gin.Context) {
	flow, err := sessionFrom(c).Onboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	var req photoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	flow.AddPhoto(req.DataURI)
	c.JSON(http.StatusOK, flow.SnapshotState())
}

// RemovePhoto drops the image at the given index.
func (h *Handler) RemovePhoto(c *gin.Context) {
	flow, err := sessionFrom(c).Onboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}
	flow.RemovePhoto(index)
	c.JSON(http.StatusOK, flow.SnapshotState())
}

// AdvanceOnboarding moves to the next step once preconditions hold.
func (h *Handler) AdvanceOnboarding(c *gin.Context) {
	flow, err := sessionFrom(c).Onboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	if err := flow.Advance(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow.SnapshotState())
}

// CompleteOnboarding assembles the user profile and opens discovery.
func (h *Handler) CompleteOnboarding(c *gin.Context) {
	user, err := sessionFrom(c).CompleteOnboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
