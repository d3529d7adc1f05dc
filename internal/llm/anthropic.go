package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	anthropicEndpoint = "https://api.anthropic.com"
	anthropicVersion  = "2023-06-01"
)

// AnthropicClient talks to the Anthropic messages API. System instructions
// travel in the dedicated top-level system field rather than the message
// array.
type AnthropicClient struct {
	cfg clientConfig
}

// NewAnthropicClient creates a messages-API client for the given key and model.
func NewAnthropicClient(apiKey, model string, options ...ClientOption) *AnthropicClient {
	return &AnthropicClient{
		cfg: newClientConfig(apiKey, model, anthropicEndpoint, options...),
	}
}

type anthropicRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete sends the request to /v1/messages and normalizes the reply.
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if c.cfg.apiKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}

	body := anthropicRequest{
		Model:       c.cfg.model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		System:      req.System,
		Messages:    req.Messages,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("anthropic: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("anthropic: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.cfg.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.cfg.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic: send request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("anthropic: read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic: API error (status %d): %s", resp.StatusCode, respBytes)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return nil, fmt.Errorf("anthropic: decode response: %w", err)
	}

	if len(parsed.Content) == 0 {
		return nil, ErrEmptyCompletion
	}

	return &Response{
		Text: parsed.Content[0].Text,
		Usage: Usage{
			InputTokens:  parsed.Usage.InputTokens,
			OutputTokens: parsed.Usage.OutputTokens,
		},
	}, nil
}
