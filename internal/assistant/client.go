// Package assistant wraps the generative text service behind the travel
// assistant endpoint.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/tidwall/gjson"
)

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	DefaultModel    = "gemini-2.5-flash"
)

// Assessment is the structured variant of a completion
type Assessment struct {
	Score   float64 `json:"score"`
	Summary string  `json:"summary"`
}

// Completer produces text for a prompt
type Completer interface {
	Complete(ctx context.Context, prompt, userContext string) (string, error)
	Assess(ctx context.Context, prompt, userContext string) (Assessment, error)
}

// Client calls the generateContent REST method
type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

func NewClient(endpoint, model, apiKey string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) Complete(ctx context.Context, prompt, userContext string) (string, error) {
	text := fmt.Sprintf("You are the travel concierge for AirRoute Hub. Help the user with flight bookings, baggage policies, or travel requirements.\nUser Context: %s\nUser Query: %s", userContext, prompt)
	return c.generate(ctx, text, nil)
}

func (c *Client) Assess(ctx context.Context, prompt, userContext string) (Assessment, error) {
	text := fmt.Sprintf("%s\nContext: %s\nReturn a valid JSON object with \"score\" (number from 0 to 100) and \"summary\" (concise explanation).", prompt, userContext)
	out, err := c.generate(ctx, text, map[string]any{
		"responseMimeType": "application/json",
		"responseSchema": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"score":   map[string]any{"type": "NUMBER"},
				"summary": map[string]any{"type": "STRING"},
			},
			"required": []string{"score", "summary"},
		},
	})
	if err != nil {
		return Assessment{}, err
	}
	if !gjson.Valid(out) {
		return Assessment{}, &models.ExternalServiceError{Service: "assistant", Err: fmt.Errorf("response is not json")}
	}
	res := gjson.Parse(out)
	return Assessment{Score: res.Get("score").Float(), Summary: res.Get("summary").String()}, nil
}

func (c *Client) generate(ctx context.Context, text string, generationConfig map[string]any) (string, error) {
	payload := map[string]any{
		"contents": []any{
			map[string]any{"parts": []any{map[string]any{"text": text}}},
		},
	}
	if generationConfig != nil {
		payload["generationConfig"] = generationConfig
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode prompt: %w", err)
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.endpoint, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", &models.ExternalServiceError{Service: "assistant", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &models.ExternalServiceError{Service: "assistant", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &models.ExternalServiceError{Service: "assistant", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(raw, "error.message").String()
		return "", &models.ExternalServiceError{Service: "assistant", Err: fmt.Errorf("status %d: %s", resp.StatusCode, msg)}
	}

	var sb strings.Builder
	for _, part := range gjson.GetBytes(raw, "candidates.0.content.parts.#.text").Array() {
		sb.WriteString(part.String())
	}
	return sb.String(), nil
}
