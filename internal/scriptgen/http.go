package scriptgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"showtime/internal/domain"
)

const maxResponseBytes = 1 << 20

// HTTPConfig configures the HTTP writer client
type HTTPConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	Client  *http.Client
}

// HTTPGateway posts the premise as JSON to a writer endpoint and expects a
// script document back.
type HTTPGateway struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPGateway creates a new HTTP writer client
func NewHTTPGateway(cfg *HTTPConfig) (*HTTPGateway, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.URL == "" {
		return nil, errors.New("writer url is required")
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &HTTPGateway{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: client,
	}, nil
}

// Generate implements Gateway
func (g *HTTPGateway) Generate(ctx context.Context, input *GenerateInput) (*domain.Script, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriterUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("%w: status %d", ErrWriterUnavailable, resp.StatusCode)
	}

	var raw rawScript
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedScript, err)
	}

	return raw.toScript()
}
