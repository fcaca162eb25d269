package onboarding

import (
	"context"
	"errors"
	"sync"
	"time"

	"beeb/backend/internal/audio"
	"beeb/backend/internal/config"
	"beeb/backend/internal/models"
	"beeb/backend/internal/resolver"
)

// Step is one stage of the onboarding sequence. Steps advance strictly
// forward; there is no backward navigation.
type Step int

const (
	StepLanding Step = iota
	StepIdentity
	StepLocationRadius
	StepVoiceBio
	StepPhotos
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepLanding:
		return "landing"
	case StepIdentity:
		return "identity"
	case StepLocationRadius:
		return "location"
	case StepVoiceBio:
		return "voice"
	case StepPhotos:
		return "photos"
	case StepDone:
		return "done"
	}
	return "unknown"
}

var (
	ErrWrongStep        = errors.New("action not allowed at this step")
	ErrTermsNotAccepted = errors.New("terms must be accepted before payment")
	ErrIncompleteStep   = errors.New("step requirements not met")
	ErrRadiusOutOfRange = errors.New("search radius out of range")
	ErrResolveInFlight  = errors.New("location lookup already in progress")
)

// Flow collects a user profile across the fixed onboarding steps. All the
// advance preconditions live here; the HTTP layer only relays gestures.
type Flow struct {
	userID   string
	resolver resolver.Resolver
	recorder *audio.Recorder

	// sleep is swapped out in tests to skip the simulated payment delay.
	sleep func(time.Duration)

	mu   sync.Mutex
	step Step

	acceptedTerms bool
	premium       bool

	name          string
	age           int
	gender        models.Gender
	secondName    string
	secondAge     int
	targetGenders []models.Gender

	location         string
	searchRadius     int
	locationVerified bool
	mapURL           string
	locating         bool

	audioBase64 string
	imageURLs   []string
}

// NewFlow starts a flow at the landing step with the original defaults.
func NewFlow(userID string, res resolver.Resolver, rec *audio.Recorder) *Flow {
	return &Flow{
		userID:       userID,
		resolver:     res,
		recorder:     rec,
		sleep:        time.Sleep,
		step:         StepLanding,
		age:          config.DefaultAge,
		gender:       models.GenderHomme,
		secondAge:    config.DefaultAge,
		searchRadius: config.DefaultSearchRadius,
	}
}

// Step returns the current step.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// AcceptTerms records the consent checkbox state on the landing screen.
func (f *Flow) AcceptTerms(accepted bool) {
	f.mu.Lock()
	f.acceptedTerms = accepted
	f.mu.Unlock()
}

// Pay runs the simulated payment: a fixed delay followed by unconditional
// success. Requires consent first; there is no failure path.
func (f *Flow) Pay() error {
	f.mu.Lock()
	if f.step != StepLanding {
		f.mu.Unlock()
		return ErrWrongStep
	}
	if !f.acceptedTerms {
		f.mu.Unlock()
		return ErrTermsNotAccepted
	}
	f.mu.Unlock()

	f.sleep(config.PaymentDelay)

	f.mu.Lock()
	f.premium = true
	f.step = StepIdentity
	f.mu.Unlock()
	return nil
}

// --- Identity step ---

func (f *Flow) SetName(name string) {
	f.mu.Lock()
	f.name = name
	f.mu.Unlock()
}

func (f *Flow) SetAge(age int) {
	f.mu.Lock()
	f.age = age
	f.mu.Unlock()
}

// SetGender also clears the partner fields when moving away from Couple.
func (f *Flow) SetGender(g models.Gender) {
	f.mu.Lock()
	f.gender = g
	if g != models.GenderCouple {
		f.secondName = ""
		f.secondAge = config.DefaultAge
	}
	f.mu.Unlock()
}

func (f *Flow) SetPartner(name string, age int) {
	f.mu.Lock()
	f.secondName = name
	f.secondAge = age
	f.mu.Unlock()
}

// ToggleTargetGender flips g in the audience selection.
func (f *Flow) ToggleTargetGender(g models.Gender) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.targetGenders {
		if t == g {
			f.targetGenders = append(f.targetGenders[:i], f.targetGenders[i+1:]...)
			return
		}
	}
	f.targetGenders = append(f.targetGenders, g)
}

func (f *Flow) identityComplete() bool {
	if f.name == "" || f.age <= 0 || len(f.targetGenders) == 0 {
		return false
	}
	if f.gender == models.GenderCouple {
		return f.secondName != "" && f.secondAge > 0
	}
	return true
}

// --- Location step ---

// SetLocation stores a free-text location and drops any prior verification.
func (f *Flow) SetLocation(location string) {
	f.mu.Lock()
	f.location = location
	f.locationVerified = false
	f.mapURL = ""
	f.mu.Unlock()
}

func (f *Flow) SetSearchRadius(km int) error {
	if km < config.MinSearchRadius || km > config.MaxSearchRadius {
		return ErrRadiusOutOfRange
	}
	f.mu.Lock()
	f.searchRadius = km
	f.mu.Unlock()
	return nil
}

// VerifyLocation resolves the typed location into a display address and map
// link. A failure leaves the field as typed and unverified. At most one
// lookup may be outstanding.
func (f *Flow) VerifyLocation(ctx context.Context) error {
	f.mu.Lock()
	if f.location == "" {
		f.mu.Unlock()
		return ErrIncompleteStep
	}
	if f.locating {
		f.mu.Unlock()
		return ErrResolveInFlight
	}
	f.locating = true
	query := f.location
	f.mu.Unlock()

	result, err := f.resolver.ResolveLocation(ctx, query, nil, nil)
	f.applyLocationResult(result, err)
	return err
}

// UseCoordinates resolves device coordinates instead of typed text.
func (f *Flow) UseCoordinates(ctx context.Context, lat, lng float64) error {
	f.mu.Lock()
	if f.locating {
		f.mu.Unlock()
		return ErrResolveInFlight
	}
	f.locating = true
	f.mu.Unlock()

	result, err := f.resolver.ResolveLocation(ctx, "My location", &lat, &lng)
	f.applyLocationResult(result, err)
	return err
}

// applyLocationResult installs a resolver response unless the flow already
// moved past the location step while the call was outstanding.
func (f *Flow) applyLocationResult(result *resolver.LocationResult, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locating = false
	if err != nil || result == nil {
		return
	}
	if f.step != StepLocationRadius {
		return // stale response, step already left
	}
	f.location = result.Address
	f.mapURL = result.MapURL
	f.locationVerified = true
}

// --- Voice bio step ---

// StartRecording opens the single capture session for the voice bio.
func (f *Flow) StartRecording(ctx context.Context) error {
	if f.Step() != StepVoiceBio {
		return ErrWrongStep
	}
	return f.recorder.Start(ctx)
}

// StopRecording finalizes the take. A new take replaces the previous clip
// entirely; there is no multi-take history.
func (f *Flow) StopRecording() error {
	clip, err := f.recorder.Stop()
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.audioBase64 = clip.Base64
	f.mu.Unlock()
	return nil
}

// DeleteRecording discards the clip, returning the step to its unrecorded
// state.
func (f *Flow) DeleteRecording() {
	f.recorder.Discard()
	f.mu.Lock()
	f.audioBase64 = ""
	f.mu.Unlock()
}

// Recording reports whether the bio capture session is open.
func (f *Flow) Recording() bool { return f.recorder.Recording() }

// --- Photos step ---

// AddPhoto appends a data-URI encoded image. Adding beyond the limit is a
// silent no-op, mirroring the disabled control in the client.
func (f *Flow) AddPhoto(dataURI string) {
	f.mu.Lock()
	if len(f.imageURLs) < config.MaxPhotos {
		f.imageURLs = append(f.imageURLs, dataURI)
	}
	f.mu.Unlock()
}

// RemovePhoto drops the image at index, shifting later images down.
func (f *Flow) RemovePhoto(index int) {
	f.mu.Lock()
	if index >= 0 && index < len(f.imageURLs) {
		f.imageURLs = append(f.imageURLs[:index], f.imageURLs[index+1:]...)
	}
	f.mu.Unlock()
}

// Photos returns a copy of the attached images, in order.
func (f *Flow) Photos() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.imageURLs))
	copy(out, f.imageURLs)
	return out
}

// --- Advancing ---

// CanAdvance reports whether the current step's preconditions hold.
func (f *Flow) CanAdvance() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stepComplete()
}

func (f *Flow) stepComplete() bool {
	switch f.step {
	case StepLanding:
		return f.acceptedTerms && f.premium
	case StepIdentity:
		return f.identityComplete()
	case StepLocationRadius:
		// Typing a location without verifying it is allowed.
		return f.location != ""
	case StepVoiceBio:
		return f.audioBase64 != "" && !f.recorder.Recording()
	case StepPhotos:
		return len(f.imageURLs) >= config.MinPhotos && len(f.imageURLs) <= config.MaxPhotos
	}
	return false
}

// Advance moves to the next step once the current one is complete. The
// landing step advances through Pay, the photos step through Complete.
func (f *Flow) Advance() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.step {
	case StepIdentity, StepLocationRadius, StepVoiceBio:
		if !f.stepComplete() {
			return ErrIncompleteStep
		}
		f.step++
		return nil
	default:
		return ErrWrongStep
	}
}

// Complete assembles the UserProfile. This is the only place a UserProfile
// is built. An empty audience defaults to every gender.
func (f *Flow) Complete() (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepPhotos {
		return nil, ErrWrongStep
	}
	if !f.stepComplete() {
		return nil, ErrIncompleteStep
	}

	targets := f.targetGenders
	if len(targets) == 0 {
		targets = models.AllGenders()
	}

	profile := &models.UserProfile{
		Profile: models.Profile{
			ID:          f.userID,
			Name:        f.name,
			Age:         f.age,
			Gender:      f.gender,
			Location:    f.location,
			ImageURLs:   append([]string(nil), f.imageURLs...),
			AudioBase64: f.audioBase64,
		},
		IsPremium:        true,
		TargetGenders:    append([]models.Gender(nil), targets...),
		SearchRadius:     f.searchRadius,
		HasAcceptedTerms: true,
		MapURL:           f.mapURL,
	}
	if f.gender == models.GenderCouple {
		profile.SecondName = f.secondName
		profile.SecondAge = f.secondAge
	}

	f.step = StepDone
	return profile, nil
}

// Snapshot exposes the form state the client renders.
type Snapshot struct {
	Step             string          `json:"step"`
	AcceptedTerms    bool            `json:"acceptedTerms"`
	Name             string          `json:"name"`
	Age              int             `json:"age"`
	Gender           models.Gender   `json:"gender"`
	SecondName       string          `json:"secondName,omitempty"`
	SecondAge        int             `json:"secondAge,omitempty"`
	TargetGenders    []models.Gender `json:"targetGenders"`
	Location         string          `json:"location"`
	SearchRadius     int             `json:"searchRadius"`
	LocationVerified bool            `json:"locationVerified"`
	MapURL           string          `json:"mapUrl,omitempty"`
	HasVoiceBio      bool            `json:"hasVoiceBio"`
	Recording        bool            `json:"recording"`
	PhotoCount       int             `json:"photoCount"`
	CanAdvance       bool            `json:"canAdvance"`
}

func (f *Flow) SnapshotState() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		Step:             f.step.String(),
		AcceptedTerms:    f.acceptedTerms,
		Name:             f.name,
		Age:              f.age,
		Gender:           f.gender,
		SecondName:       f.secondName,
		SecondAge:        f.secondAge,
		TargetGenders:    append([]models.Gender(nil), f.targetGenders...),
		Location:         f.location,
		SearchRadius:     f.searchRadius,
		LocationVerified: f.locationVerified,
		MapURL:           f.mapURL,
		HasVoiceBio:      f.audioBase64 != "",
		Recording:        f.recorder.Recording(),
		PhotoCount:       len(f.imageURLs),
		CanAdvance:       f.stepComplete(),
	}
}
