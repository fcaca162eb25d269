package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"beeb/backend/internal/audio"
	"beeb/backend/internal/chatsession"
	"beeb/backend/internal/discovery"
	"beeb/backend/internal/onboarding"
	"beeb/backend/internal/resolver"
	"beeb/backend/internal/session"
)

// Handler carries the session registry and token settings into the routes.
type Handler struct {
	Registry  *session.Registry
	JWTSecret []byte
	JWTTTL    time.Duration
}

func NewHandler(registry *session.Registry, jwtSecret []byte, jwtTTL time.Duration) *Handler {
	return &Handler{
		Registry:  registry,
		JWTSecret: jwtSecret,
		JWTTTL:    jwtTTL,
	}
}

// respondError maps flow errors onto HTTP statuses. Every failure is a
// user-facing notice; none of them is fatal to the session.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, onboarding.ErrWrongStep),
		errors.Is(err, session.ErrWrongView),
		errors.Is(err, discovery.ErrNotRevealed),
		errors.Is(err, audio.ErrNotRecording),
		errors.Is(err, chatsession.ErrClosed),
		errors.Is(err, discovery.ErrEngineClosed):
		status = http.StatusConflict
	case errors.Is(err, onboarding.ErrTermsNotAccepted),
		errors.Is(err, onboarding.ErrIncompleteStep),
		errors.Is(err, onboarding.ErrRadiusOutOfRange),
		errors.Is(err, audio.ErrNoAudio):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, onboarding.ErrResolveInFlight),
		errors.Is(err, discovery.ErrSynthesisInFlight),
		errors.Is(err, audio.ErrAlreadyRecording):
		status = http.StatusTooManyRequests
	case errors.Is(err, discovery.ErrNoCandidate),
		errors.Is(err, chatsession.ErrUnknownMessage),
		errors.Is(err, session.ErrUnknownMatch):
		status = http.StatusNotFound
	case errors.Is(err, audio.ErrNoDevice):
		status = http.StatusServiceUnavailable
	case errors.Is(err, resolver.ErrUnavailable):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
