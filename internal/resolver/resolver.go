package resolver

import (
	"context"
	"errors"

	"beeb/backend/internal/models"
)

// ErrUnavailable is returned when the generative service cannot produce a
// usable result. Callers surface a notice and leave their state untouched.
var ErrUnavailable = errors.New("resolver service unavailable")

// LocationResult is a resolved place: a human-readable address and an
// optional map-viewer link.
type LocationResult struct {
	Address string `json:"address"`
	MapURL  string `json:"mapUrl,omitempty"`
}

// Resolver is the contract the flows expect from the generative collaborator.
// Onboarding uses ResolveLocation; discovery uses GenerateProfileAudio to
// voice candidates that have no recorded clip.
type Resolver interface {
	// ResolveLocation turns a free-text query, or coordinates when lat/lng
	// are non-nil, into a display address and an optional map link.
	ResolveLocation(ctx context.Context, query string, lat, lng *float64) (*LocationResult, error)

	// GenerateProfileAudio synthesizes a voice clip from a candidate's bio,
	// returned as base64-encoded MP3 content.
	GenerateProfileAudio(ctx context.Context, bioText string, gender models.Gender) (string, error)
}
