package config

import "time"

const (
	// Onboarding
	MinSearchRadius     = 5
	MaxSearchRadius     = 200
	DefaultSearchRadius = 30
	DefaultAge          = 25
	MinPhotos           = 1
	MaxPhotos           = 5
	PaymentDelay        = 1 * time.Second

	// Discovery
	MatchThreshold = 0.4 // match iff draw > threshold

	// Chat
	ReplyDelay = 2500 * time.Millisecond
)
