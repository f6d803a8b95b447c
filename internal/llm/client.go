package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single model call. There are no retries: one
// attempt with graceful fallback is the documented policy.
const DefaultTimeout = 45 * time.Second

// Client talks to an OpenAI-compatible chat completions API. It exposes the
// two operations the pipeline needs: query translation and structured answer
// composition. Both return *UnavailableError on any failure so callers can
// degrade instead of aborting.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewClient creates a model client. A zero timeout falls back to
// DefaultTimeout.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Translate rewrites text into Arabic, the corpus indexing language.
// Temperature is pinned to zero for deterministic intent; the remote service
// does not guarantee determinism.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", &UnavailableError{Reason: ReasonNoCredential}
	}

	content, err := c.chat(ctx, chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: translateSystemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}

	translated := strings.TrimSpace(content)
	if translated == "" {
		return "", &UnavailableError{Reason: ReasonBadResponse, Err: fmt.Errorf("empty translation")}
	}
	return translated, nil
}

// Compose asks the model for a structured multi-opinion answer grounded in
// the supplied passages. The returned draft is untrusted: callers must
// validate every citation id against the selected passages.
func (c *Client) Compose(ctx context.Context, in ComposeInput) (*Draft, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, &UnavailableError{Reason: ReasonNoCredential}
	}

	userPrompt, err := renderComposePrompt(in)
	if err != nil {
		return nil, &UnavailableError{Reason: ReasonBadResponse, Err: err}
	}

	content, err := c.chat(ctx, chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: composeSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    0.2,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(content)
	if raw == "" {
		return nil, &UnavailableError{Reason: ReasonBadResponse, Err: fmt.Errorf("empty completion")}
	}

	var draft Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, &UnavailableError{Reason: ReasonBadResponse, Err: fmt.Errorf("parsing completion: %w", err)}
	}
	return &draft, nil
}

// chat performs one chat completion round trip and returns the first
// choice's content.
func (c *Client) chat(ctx context.Context, payload chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &UnavailableError{Reason: ReasonRequestFailed, Err: fmt.Errorf("marshaling request: %w", err)}
	}

	url := fmt.Sprintf("%s/v1/chat/completions", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &UnavailableError{Reason: ReasonRequestFailed, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &UnavailableError{Reason: ReasonRequestFailed, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &UnavailableError{
			Reason: ReasonRequestFailed,
			Err:    fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw)),
		}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &UnavailableError{Reason: ReasonBadResponse, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if len(chatResp.Choices) == 0 {
		return "", &UnavailableError{Reason: ReasonBadResponse, Err: fmt.Errorf("no choices returned")}
	}

	return chatResp.Choices[0].Message.Content, nil
}
