package models

// Gender is the closed set of profile genders used across the app.
type Gender string

const (
	GenderHomme        Gender = "Homme"
	GenderFemme        Gender = "Femme"
	GenderTransexuel   Gender = "Transexuel"
	GenderTransexuelle Gender = "Transexuelle"
	GenderCouple       Gender = "Couple"
)

// AllGenders returns the full enumeration, in declaration order.
// Used as the default audience when a user selects no target genders.
func AllGenders() []Gender {
	return []Gender{
		GenderHomme,
		GenderFemme,
		GenderTransexuel,
		GenderTransexuelle,
		GenderCouple,
	}
}

// Valid reports whether g is one of the declared Gender values.
func (g Gender) Valid() bool {
	switch g {
	case GenderHomme, GenderFemme, GenderTransexuel, GenderTransexuelle, GenderCouple:
		return true
	}
	return false
}

// Profile is a candidate as shown in discovery.
// ImageURLs is ordered; the first entry is the primary photo.
// SecondName/SecondAge are set only for Couple profiles.
type Profile struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Age         int      `json:"age"`
	Gender      Gender   `json:"gender"`
	Location    string   `json:"location"`
	BioText     string   `json:"bioText"`
	ImageURLs   []string `json:"imageUrls"`
	AudioBase64 string   `json:"audioBase64,omitempty"`

	SecondName string `json:"secondName,omitempty"`
	SecondAge  int    `json:"secondAge,omitempty"`
}

// DisplayName joins both partner names for Couple profiles.
func (p Profile) DisplayName() string {
	if p.SecondName != "" {
		return p.Name + " & " + p.SecondName
	}
	return p.Name
}

// UserProfile is the profile built by onboarding. It is created once per
// session and never edited afterwards.
type UserProfile struct {
	Profile

	IsPremium        bool     `json:"isPremium"`
	TargetGenders    []Gender `json:"targetGenders"`
	SearchRadius     int      `json:"searchRadius"`
	HasAcceptedTerms bool     `json:"hasAcceptedTerms"`
	MapURL           string   `json:"mapUrl,omitempty"`
}

// Wants reports whether profiles of gender g are in the user's audience.
func (u UserProfile) Wants(g Gender) bool {
	for _, t := range u.TargetGenders {
		if t == g {
			return true
		}
	}
	return false
}
