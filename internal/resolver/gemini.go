package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"beeb/backend/internal/models"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient implements Resolver against the Gemini generateContent API.
type GeminiClient struct {
	apiKey    string
	textModel string
	ttsModel  string
	baseURL   string
	client    *http.Client
}

func NewGeminiClient(apiKey, textModel, ttsModel string) *GeminiClient {
	return &GeminiClient{
		apiKey:    apiKey,
		textModel: textModel,
		ttsModel:  ttsModel,
		baseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewGeminiClientWithBaseURL is used by tests to point the client at a stub.
func NewGeminiClientWithBaseURL(apiKey, textModel, ttsModel, baseURL string) *GeminiClient {
	c := NewGeminiClient(apiKey, textModel, ttsModel)
	c.baseURL = baseURL
	return c
}

// Request/response shapes for generateContent. Only the fields we read or
// write are declared.

type geminiRequest struct {
	Contents         []geminiContent   `json:"contents"`
	Tools            []geminiTool      `json:"tools,omitempty"`
	ToolConfig       *geminiToolConfig `json:"toolConfig,omitempty"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiTool struct {
	GoogleMaps map[string]any `json:"googleMaps,omitempty"`
}

type geminiToolConfig struct {
	RetrievalConfig *retrievalConfig `json:"retrievalConfig,omitempty"`
}

type retrievalConfig struct {
	LatLng latLng `json:"latLng"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		GroundingMetadata struct {
			GroundingChunks []struct {
				Web struct {
					URI string `json:"uri"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// voiceForGender maps a profile gender onto a prebuilt TTS voice.
func voiceForGender(gender models.Gender) string {
	switch gender {
	case models.GenderHomme, models.GenderTransexuel:
		return "Fenrir"
	case models.GenderFemme, models.GenderTransexuelle:
		return "Kore"
	case models.GenderCouple:
		return "Puck"
	default:
		return "Puck"
	}
}

var addressPrefixRe = regexp.MustCompile(`(?i)^The (city|location) is `)

// ResolveLocation asks the text model for a place name, grounded on Google
// Maps. Coordinates take precedence over the free-text query when provided.
func (g *GeminiClient) ResolveLocation(ctx context.Context, query string, lat, lng *float64) (*LocationResult, error) {
	req := geminiRequest{
		Tools: []geminiTool{{GoogleMaps: map[string]any{}}},
	}

	prompt := fmt.Sprintf("What is the official city and country name for: %q?", query)
	if lat != nil && lng != nil {
		prompt = "What is the city and country located at these coordinates?"
		req.ToolConfig = &geminiToolConfig{
			RetrievalConfig: &retrievalConfig{
				LatLng: latLng{Latitude: *lat, Longitude: *lng},
			},
		}
	}
	req.Contents = []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}

	var resp geminiResponse
	if err := g.post(ctx, g.textModel, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			text = part.Text
			break
		}
	}

	var mapURL string
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if strings.Contains(chunk.Web.URI, "google.com/maps") {
			mapURL = chunk.Web.URI
			break
		}
	}

	address := strings.TrimSpace(addressPrefixRe.ReplaceAllString(text, ""))
	if address == "" {
		address = query
	}

	return &LocationResult{Address: address, MapURL: mapURL}, nil
}

// GenerateProfileAudio synthesizes the bio with the TTS model, picking a
// voice by gender. The clip comes back as base64 audio bytes.
func (g *GeminiClient) GenerateProfileAudio(ctx context.Context, bioText string, gender models.Gender) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: bioText}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voiceForGender(gender)},
				},
			},
		},
	}

	var resp geminiResponse
	if err := g.post(ctx, g.ttsModel, req, &resp); err != nil {
		return "", err
	}

	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return part.InlineData.Data, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no audio in response", ErrUnavailable)
}

func (g *GeminiClient) post(ctx context.Context, model string, body geminiRequest, out *geminiResponse) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if out.Error.Message != "" {
		return fmt.Errorf("%w: %s", ErrUnavailable, out.Error.Message)
	}
	return nil
}
