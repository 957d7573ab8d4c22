package estimator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models"

var (
	ErrGeminiAPIKeyMissing = errors.New("GEMINI_API_KEY not set")
	ErrGeminiModelMissing  = errors.New("GEMINI_MODEL not set")
	ErrGeminiNoCandidates  = errors.New("gemini returned no candidates")
)

// GeminiClient calls the generateContent REST endpoint with a single text
// part and returns the first candidate's text.
type GeminiClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func NewGeminiClient(baseURL, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrGeminiAPIKeyMissing
	}
	if model == "" {
		return nil, ErrGeminiModelMissing
	}
	if baseURL == "" {
		baseURL = DefaultGeminiURL
	}
	return &GeminiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.1,
			"topP":        0.8,
			"topK":        40,
		},
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	// The key stays out of the URL; transport errors quote it verbatim.
	geminiURL := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, geminiURL, bytes.NewBuffer(requestJSON))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini API error: %s - %s", resp.Status, string(bodyBytes))
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", err
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", ErrGeminiNoCandidates
	}

	return gr.Candidates[0].Content.Parts[0].Text, nil
}
