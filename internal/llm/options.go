package llm

import (
	"net/http"
	"time"
)

// clientConfig aggregates the connection parameters shared by both provider
// clients.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	model      string
	apiKey     string
}

// ClientOption mutates the shared client configuration.
type ClientOption func(*clientConfig)

// WithBaseURL overrides the default provider endpoint. Empty values are
// ignored so the config layer can pass its field through unconditionally.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *clientConfig) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient injects a custom HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *clientConfig) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func newClientConfig(apiKey, model, defaultBaseURL string, options ...ClientOption) clientConfig {
	cfg := clientConfig{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		model:      model,
		apiKey:     apiKey,
	}

	for _, option := range options {
		option(&cfg)
	}

	return cfg
}
