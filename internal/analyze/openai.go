package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL targets NVIDIA's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://integrate.api.nvidia.com/v1"
	// DefaultModel is the chat model used when none is configured.
	DefaultModel = "meta/llama-3.1-70b-instruct"

	requestTimeout = 60 * time.Second
	// requestsPerMinute keeps sequential chapter calls under hosted API
	// rate limits.
	requestsPerMinute = 30
)

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient returns a rate-limited client. Empty baseURL or model fall back
// to the NVIDIA defaults.
func NewClient(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 2),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatPayload struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

// Generate issues one chat completion and returns the model's text.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", &RequestError{Kind: ErrorAuth, Err: fmt.Errorf("no API key configured")}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &RequestError{Kind: ErrorNetwork, Err: err}
	}

	payload, err := json.Marshal(chatPayload{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: 0.5,
		TopP:        1,
		MaxTokens:   2048,
	})
	if err != nil {
		return "", &RequestError{Kind: ErrorMalformed, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", &RequestError{Kind: ErrorNetwork, Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", &RequestError{Kind: ErrorNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return "", &RequestError{
			Kind:   classifyStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Err:    fmt.Errorf("chat completion failed: %s", bytes.TrimSpace(body)),
		}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &RequestError{Kind: ErrorMalformed, Err: fmt.Errorf("decode chat response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &RequestError{Kind: ErrorMalformed, Err: fmt.Errorf("chat response has no choices")}
	}
	return parsed.Choices[0].Message.Content, nil
}
