package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const openAIEndpoint = "https://api.openai.com"

// OpenAIClient talks to the OpenAI chat-completions API. The wire format has
// no separate system channel, so a non-empty Request.System is prepended to
// the message array as a system-role entry, keeping both providers
// behaviorally equivalent.
type OpenAIClient struct {
	cfg clientConfig
}

// NewOpenAIClient creates a chat-completions client for the given key and model.
func NewOpenAIClient(apiKey, model string, options ...ClientOption) *OpenAIClient {
	return &OpenAIClient{
		cfg: newClientConfig(apiKey, model, openAIEndpoint, options...),
	}
}

type openAIRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends the request to /v1/chat/completions and normalizes the reply.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if c.cfg.apiKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}

	messages := req.Messages
	if req.System != "" {
		messages = append([]Message{{Role: RoleSystem, Content: req.System}}, messages...)
	}

	body := openAIRequest{
		Model:       c.cfg.model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages:    messages,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("openai: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.apiKey)

	resp, err := c.cfg.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai: send request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai: API error (status %d): %s", resp.StatusCode, respBytes)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	return &Response{
		Text: parsed.Choices[0].Message.Content,
		Usage: Usage{
			InputTokens:  parsed.Usage.PromptTokens,
			OutputTokens: parsed.Usage.CompletionTokens,
		},
	}, nil
}
