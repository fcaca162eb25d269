package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beeb/backend/internal/discovery"
	"beeb/backend/internal/models"
	"beeb/backend/internal/session"
)

func alwaysMatch() float64 { return 0.9 }
func neverMatch() float64  { return 0.1 }

func testPool() []models.Profile {
	return []models.Profile{
		{ID: "u1", Name: "Léa", Gender: models.GenderFemme, BioText: "premier", ImageURLs: []string{"a", "b"}},
		{ID: "u2", Name: "Marc", Gender: models.GenderHomme, BioText: "deuxième"},
		{ID: "u3", Name: "Chloé", Gender: models.GenderFemme, BioText: "troisième"},
	}
}

func seededController(draw discovery.DrawFunc) *session.Controller {
	c := session.NewController("sess-1", testPool(), new(MockResolver), draw, time.Millisecond)
	c.SeedUser(&models.UserProfile{
		Profile:       models.Profile{ID: "me", Name: "Alex", Gender: models.GenderHomme},
		TargetGenders: []models.Gender{models.GenderFemme},
		IsPremium:     true,
	})
	return c
}

// matchFirstCard reveals and likes the current card until the match screen.
func matchFirstCard(t *testing.T, c *session.Controller) models.Profile {
	t.Helper()
	_, _, err := c.AdvanceCard()
	require.NoError(t, err)
	event, candidate, err := c.AdvanceCard()
	require.NoError(t, err)
	require.Equal(t, discovery.EventMatched, event)
	return candidate
}

// TestController_OnboardingToSwipe walks the real onboarding flow end to end,
// including the simulated payment delay.
func TestController_OnboardingToSwipe(t *testing.T) {
	c := session.NewController("sess-1", testPool(), new(MockResolver), alwaysMatch, time.Millisecond)
	defer c.Close()

	assert.Equal(t, session.ViewOnboarding, c.View())
	_, err := c.Discovery()
	assert.ErrorIs(t, err, session.ErrWrongView)

	flow, err := c.Onboarding()
	require.NoError(t, err)

	flow.AcceptTerms(true)
	require.NoError(t, flow.Pay())
	flow.SetName("Alex")
	flow.ToggleTargetGender(models.GenderFemme)
	require.NoError(t, flow.Advance())
	flow.SetLocation("Paris")
	require.NoError(t, flow.Advance())

	require.NoError(t, flow.StartRecording(context.Background()))
	require.NoError(t, c.Device().Push([]byte("bio")))
	c.Device().CloseInput()
	require.NoError(t, flow.StopRecording())
	require.NoError(t, flow.Advance())
	flow.AddPhoto("p")

	user, err := c.CompleteOnboarding()
	require.NoError(t, err)
	assert.Equal(t, "sess-1", user.ID)
	assert.Equal(t, session.ViewSwipe, c.View())
	assert.Same(t, user, c.User())

	_, err = c.Onboarding()
	assert.ErrorIs(t, err, session.ErrWrongView)

	engine, err := c.Discovery()
	require.NoError(t, err)
	assert.Equal(t, 2, engine.Remaining(), "audience-filtered pool")
}

// TestController_MatchFlow verifies a match appends to the list, switches to
// the celebration view and blocks swipe actions until dismissed.
func TestController_MatchFlow(t *testing.T) {
	c := seededController(alwaysMatch)
	defer c.Close()

	candidate := matchFirstCard(t, c)
	assert.Equal(t, "u1", candidate.ID)
	assert.Equal(t, session.ViewMatch, c.View())

	celebrated, ok := c.Celebration()
	require.True(t, ok)
	assert.Equal(t, "u1", celebrated.ID)

	// Swipe actions are unavailable on the match screen.
	_, _, err := c.AdvanceCard()
	assert.ErrorIs(t, err, session.ErrWrongView)
	assert.ErrorIs(t, c.PassCard(), session.ErrWrongView)

	require.NoError(t, c.DismissCelebration(false))
	assert.Equal(t, session.ViewSwipe, c.View())
	_, ok = c.Celebration()
	assert.False(t, ok)

	// The cursor moved past the matched candidate.
	engine, err := c.Discovery()
	require.NoError(t, err)
	current, ok := engine.Current()
	require.True(t, ok)
	assert.Equal(t, "u3", current.ID)

	assert.Equal(t, []string{"u1"}, matchIDs(c))
}

func matchIDs(c *session.Controller) []string {
	var ids []string
	for _, m := range c.Matches() {
		ids = append(ids, m.ID)
	}
	return ids
}

// TestController_DismissIntoChat verifies the celebration can drop straight
// into the voice thread with the new match.
func TestController_DismissIntoChat(t *testing.T) {
	c := seededController(alwaysMatch)
	defer c.Close()

	matchFirstCard(t, c)
	require.NoError(t, c.DismissCelebration(true))
	assert.Equal(t, session.ViewChat, c.View())

	chat, err := c.Chat()
	require.NoError(t, err)
	assert.Equal(t, "u1", chat.Match().ID)

	require.NoError(t, c.CloseChat())
	assert.Equal(t, session.ViewSwipe, c.View())
	_, err = c.Chat()
	assert.ErrorIs(t, err, session.ErrWrongView)
}

// TestController_OpenChatFromMatches verifies chats open only with profiles
// already in the match list.
func TestController_OpenChatFromMatches(t *testing.T) {
	c := seededController(alwaysMatch)
	defer c.Close()

	_, err := c.OpenChat("u1")
	assert.ErrorIs(t, err, session.ErrUnknownMatch)

	matchFirstCard(t, c)
	require.NoError(t, c.DismissCelebration(false))

	chat, err := c.OpenChat("u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", chat.Match().ID)
	assert.Equal(t, session.ViewChat, c.View())
}

// TestController_PassNeverMatches verifies passing and losing draws never
// grow the match list.
func TestController_PassNeverMatches(t *testing.T) {
	c := seededController(neverMatch)
	defer c.Close()

	require.NoError(t, c.PassCard())
	_, _, err := c.AdvanceCard()
	require.NoError(t, err)
	event, _, err := c.AdvanceCard()
	require.NoError(t, err)
	assert.Equal(t, discovery.EventPassed, event)

	assert.Empty(t, c.Matches())
	assert.Equal(t, session.ViewSwipe, c.View())
}

// TestController_Logout verifies logout wipes everything and restarts
// onboarding under the same session id.
func TestController_Logout(t *testing.T) {
	c := seededController(alwaysMatch)

	matchFirstCard(t, c)
	require.NoError(t, c.DismissCelebration(true))

	chat, err := c.Chat()
	require.NoError(t, err)
	require.NoError(t, chat.StartRecording(context.Background()))

	c.Logout()

	assert.Equal(t, session.ViewOnboarding, c.View())
	assert.Nil(t, c.User())
	assert.Empty(t, c.Matches())
	_, ok := c.Celebration()
	assert.False(t, ok)

	// The capture device was released and a fresh flow is in place.
	flow, err := c.Onboarding()
	require.NoError(t, err)
	assert.False(t, flow.Recording())
	assert.Equal(t, "landing", flow.SnapshotState().Step)
}
