// Package llm abstracts the supported completion providers behind a single
// call shape: ordered role/content messages in, text plus token usage out.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Message roles understood by both providers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one role-tagged entry of a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage carries normalized token counts for one completion call. OpenAI
// reports prompt/completion tokens, Anthropic input/output tokens; both map
// onto these two fields.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Request describes a single completion call. System instructions are kept
// out of Messages; each provider injects them where its wire format expects
// them.
type Request struct {
	Messages    []Message
	System      string
	MaxTokens   int
	Temperature float64
}

// Response is the normalized provider reply.
type Response struct {
	Text  string
	Usage Usage
}

// Client is the provider-agnostic completion contract. Calls are synchronous
// and blocking; no retries are applied, transport and API errors propagate
// to the caller.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Provider names accepted by the configuration switch.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// ErrEmptyCompletion indicates the provider returned no content blocks.
var ErrEmptyCompletion = errors.New("llm: provider returned empty completion")

// Config selects and parameterizes the provider at startup.
type Config struct {
	Provider  string `mapstructure:"provider" validate:"required,oneof=anthropic openai"`
	APIKey    string `mapstructure:"api_key" validate:"required"`
	Model     string `mapstructure:"model" validate:"required"`
	BaseURL   string `mapstructure:"base_url"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// New builds the provider client named by cfg.Provider.
func New(cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderAnthropic:
		return NewAnthropicClient(cfg.APIKey, cfg.Model, WithBaseURL(cfg.BaseURL)), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg.APIKey, cfg.Model, WithBaseURL(cfg.BaseURL)), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
