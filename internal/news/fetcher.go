// Package news fetches the day's top headline from the News API.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultEndpoint = "https://newsapi.org/v2/top-headlines"

// Sentinel returned when the headline feed comes back empty.
const NoNewsAvailable = "No news available at the moment."

// Config parameterizes the headline source.
type Config struct {
	APIKey   string `mapstructure:"api_key" validate:"required"`
	Language string `mapstructure:"language"`
	BaseURL  string `mapstructure:"base_url"`
}

// Fetcher performs a single blocking GET against the top-headlines endpoint.
// No caching, no pagination: only the first article matters.
type Fetcher struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

type article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type headlinesResponse struct {
	Articles []article `json:"articles"`
}

// NewFetcher builds a Fetcher from config, applying endpoint and language
// defaults.
func NewFetcher(cfg Config, httpClient *http.Client, log *slog.Logger) *Fetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultEndpoint
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}

	return &Fetcher{
		cfg:        cfg,
		httpClient: httpClient,
		log:        log,
	}
}

// TopHeadline returns the first article as "title\n\ndescription", or the
// fixed sentinel when the feed is empty. Missing title or description
// default to the empty string.
func (f *Fetcher) TopHeadline(ctx context.Context) (string, error) {
	endpoint, err := url.Parse(f.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("news: parse endpoint: %w", err)
	}

	query := endpoint.Query()
	query.Set("apiKey", f.cfg.APIKey)
	query.Set("language", f.cfg.Language)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("news: create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("news: fetch headlines: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("news: read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("news: API error (status %d): %s", resp.StatusCode, respBytes)
	}

	var parsed headlinesResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("news: decode response: %w", err)
	}

	if len(parsed.Articles) == 0 {
		f.log.Debug("no news available")
		return NoNewsAvailable, nil
	}

	first := parsed.Articles[0]
	f.log.Debug("fetched news", slog.String("title", first.Title))

	return first.Title + "\n\n" + first.Description, nil
}
