// Package tts turns reply text into cached mp3 artifacts and hands them
// to the audio bus. Synthesis is one HTTP call per cache miss; the cache
// is append-only and pruned externally.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const speechURL = "https://api.openai.com/v1/audio/speech"

// Synthesizer produces the raw audio bytes for a normalized text.
type Synthesizer interface {
	Synthesize(ctx context.Context, model, voice, text string) ([]byte, error)
}

// StatusError is a non-2xx reply from the speech endpoint.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("speech provider status %d: %s", e.Status, e.Body)
}

// OpenAISynth calls the OpenAI speech endpoint and returns mp3 bytes.
type OpenAISynth struct {
	url    string
	apiKey string
	http   *http.Client
}

func NewOpenAISynth(apiKey string, httpClient *http.Client) *OpenAISynth {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &OpenAISynth{url: speechURL, apiKey: apiKey, http: httpClient}
}

// WithURL overrides the endpoint. Used by tests.
func (s *OpenAISynth) WithURL(u string) *OpenAISynth {
	s.url = u
	return s
}

type speechRequest struct {
	Model  string `json:"model"`
	Voice  string `json:"voice"`
	Format string `json:"format"`
	Input  string `json:"input"`
}

func (s *OpenAISynth) Synthesize(ctx context.Context, model, voice, text string) ([]byte, error) {
	body, err := json.Marshal(speechRequest{Model: model, Voice: voice, Format: "mp3", Input: text})
	if err != nil {
		return nil, fmt.Errorf("encode speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call speech provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return nil, &StatusError{Status: resp.StatusCode, Body: string(snippet)}
	}

	return io.ReadAll(resp.Body)
}
