// Package llm is a minimal client for an OpenAI-compatible responses
// endpoint. It knows nothing about game semantics; the negotiator owns
// prompt construction, parsing, and timeout enforcement.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type Config struct {
	// URL of the responses endpoint, e.g. https://api.openai.com/v1/responses.
	URL        string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &Client{cfg: cfg}
}

// Configured reports whether the client has enough settings to attempt a
// call. Used by the health endpoint instead of a live probe.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.cfg.URL) != "" && strings.TrimSpace(c.cfg.APIKey) != ""
}

// Complete sends the prompt and returns the model's output text. The API
// key travels only in the Authorization header and is never echoed into
// errors.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("model endpoint or api key not configured")
	}

	body, err := json.Marshal(map[string]any{
		"model": c.cfg.Model,
		"input": prompt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("completion request status %d: %s", res.StatusCode, strings.TrimSpace(string(detail)))
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}

	text := strings.TrimSpace(payload.OutputText)
	if text == "" {
		for _, item := range payload.Output {
			for _, content := range item.Content {
				if t := strings.TrimSpace(content.Text); t != "" {
					text = t
					break
				}
			}
			if text != "" {
				break
			}
		}
	}
	if text == "" {
		return "", fmt.Errorf("completion response missing output text")
	}
	return text, nil
}
