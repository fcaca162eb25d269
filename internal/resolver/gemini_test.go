package resolver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beeb/backend/internal/models"
	"beeb/backend/internal/resolver"
)

// capturedRequest keeps the fields the tests assert on.
type capturedRequest struct {
	Path   string
	APIKey string
	Body   map[string]any
}

func stubGemini(t *testing.T, response string) (*resolver.GeminiClient, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Path = r.URL.Path
		captured.APIKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.Body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	client := resolver.NewGeminiClientWithBaseURL("test-key", "text-model", "tts-model", server.URL)
	return client, captured
}

// TestResolveLocation verifies the address is stripped of the lead-in phrase
// and the maps grounding link is extracted.
func TestResolveLocation(t *testing.T) {
	client, captured := stubGemini(t, `{
		"candidates": [{
			"content": {"parts": [{"text": "The city is Paris, France"}]},
			"groundingMetadata": {"groundingChunks": [
				{"web": {"uri": "https://example.com/other"}},
				{"web": {"uri": "https://www.google.com/maps/place/Paris"}}
			]}
		}]
	}`)

	result, err := client.ResolveLocation(context.Background(), "paris", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Paris, France", result.Address)
	assert.Equal(t, "https://www.google.com/maps/place/Paris", result.MapURL)

	assert.Equal(t, "/models/text-model:generateContent", captured.Path)
	assert.Equal(t, "test-key", captured.APIKey)
	assert.Contains(t, captured.Body, "tools")
	assert.NotContains(t, captured.Body, "toolConfig")
}

// TestResolveLocation_Coordinates verifies coordinates ride in the retrieval
// config instead of the prompt.
func TestResolveLocation_Coordinates(t *testing.T) {
	client, captured := stubGemini(t, `{
		"candidates": [{"content": {"parts": [{"text": "The location is Berlin, Germany"}]}}]
	}`)

	lat, lng := 52.52, 13.405
	result, err := client.ResolveLocation(context.Background(), "My location", &lat, &lng)
	require.NoError(t, err)
	assert.Equal(t, "Berlin, Germany", result.Address)
	assert.Empty(t, result.MapURL)

	toolConfig, ok := captured.Body["toolConfig"].(map[string]any)
	require.True(t, ok)
	retrieval := toolConfig["retrievalConfig"].(map[string]any)
	coords := retrieval["latLng"].(map[string]any)
	assert.InDelta(t, 52.52, coords["latitude"], 0.001)
	assert.InDelta(t, 13.405, coords["longitude"], 0.001)
}

// TestResolveLocation_FallsBackToQuery verifies an empty model answer leaves
// the typed query as the address.
func TestResolveLocation_FallsBackToQuery(t *testing.T) {
	client, _ := stubGemini(t, `{
		"candidates": [{"content": {"parts": [{"text": ""}]}}]
	}`)

	result, err := client.ResolveLocation(context.Background(), "lyon", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "lyon", result.Address)
}

// TestResolveLocation_APIError verifies an API error surfaces as
// ErrUnavailable.
func TestResolveLocation_APIError(t *testing.T) {
	client, _ := stubGemini(t, `{"error": {"message": "API key not valid"}}`)

	_, err := client.ResolveLocation(context.Background(), "paris", nil, nil)
	assert.ErrorIs(t, err, resolver.ErrUnavailable)
}

// TestGenerateProfileAudio verifies the clip extraction and the
// gender-to-voice mapping on the wire.
func TestGenerateProfileAudio(t *testing.T) {
	cases := []struct {
		gender models.Gender
		voice  string
	}{
		{models.GenderHomme, "Fenrir"},
		{models.GenderTransexuel, "Fenrir"},
		{models.GenderFemme, "Kore"},
		{models.GenderTransexuelle, "Kore"},
		{models.GenderCouple, "Puck"},
	}

	for _, tc := range cases {
		t.Run(string(tc.gender), func(t *testing.T) {
			client, captured := stubGemini(t, `{
				"candidates": [{"content": {"parts": [
					{"inlineData": {"mimeType": "audio/mp3", "data": "c29tZS1hdWRpbw=="}}
				]}}]
			}`)

			clip, err := client.GenerateProfileAudio(context.Background(), "ma bio", tc.gender)
			require.NoError(t, err)
			assert.Equal(t, "c29tZS1hdWRpbw==", clip)
			assert.Equal(t, "/models/tts-model:generateContent", captured.Path)

			gen := captured.Body["generationConfig"].(map[string]any)
			assert.Equal(t, []any{"AUDIO"}, gen["responseModalities"])
			speech := gen["speechConfig"].(map[string]any)
			voice := speech["voiceConfig"].(map[string]any)["prebuiltVoiceConfig"].(map[string]any)
			assert.Equal(t, tc.voice, voice["voiceName"])
		})
	}
}

// TestGenerateProfileAudio_NoAudio verifies a text-only response is an error.
func TestGenerateProfileAudio_NoAudio(t *testing.T) {
	client, _ := stubGemini(t, `{
		"candidates": [{"content": {"parts": [{"text": "sorry"}]}}]
	}`)

	_, err := client.GenerateProfileAudio(context.Background(), "ma bio", models.GenderFemme)
	assert.ErrorIs(t, err, resolver.ErrUnavailable)
}
