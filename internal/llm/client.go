package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the OpenAI chat completions endpoint.
const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

// Client is a minimal chat-completions client for the two prompt-evaluation
// proxy calls. No retries: a failed upstream call surfaces immediately and
// the participant just resubmits.
type Client struct {
	apiKey     string
	endpoint   string
	model      string
	httpClient *http.Client
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		model:    model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// NewClientWithEndpoint is used by tests to point the client at a fake server.
func NewClientWithEndpoint(apiKey, model, endpoint string) *Client {
	c := NewClient(apiKey, model)
	c.endpoint = endpoint
	return c
}

// UpstreamError carries the upstream HTTP status so handlers can pass it
// through to the caller.
type UpstreamError struct {
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream API error: %s", e.Status)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user message pair and returns the trimmed text of
// the first choice.
func (c *Client) Complete(ctx context.Context, systemInstructions, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstructions},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode upstream response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
