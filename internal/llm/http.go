package llm

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/savemoney/internal/common"
)

// Generation defaults shared by every provider. Extraction wants short,
// near-deterministic answers.
const (
	defaultTemperature = 0.1
	defaultMaxTokens   = 500
	defaultHTTPTimeout = 30 * time.Second
)

// endpoint is the connection and generation settings of an HTTP-backed provider.
type endpoint struct {
	httpClient  *http.Client
	name        string
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
}

func newEndpoint(cfg Config, name, defaultModel, defaultBaseURL string) (endpoint, error) {
	if cfg.APIKey == "" {
		return endpoint{}, fmt.Errorf("%s API key is required", name)
	}
	return endpoint{
		name:        name,
		apiKey:      cfg.APIKey,
		baseURL:     cmp.Or(strings.TrimRight(cfg.BaseURL, "/"), defaultBaseURL),
		model:       cmp.Or(cfg.Model, defaultModel),
		temperature: cmp.Or(cfg.Temperature, defaultTemperature),
		maxTokens:   cmp.Or(cfg.MaxTokens, defaultMaxTokens),
		httpClient: &http.Client{
			Timeout: cmp.Or(cfg.Timeout, defaultHTTPTimeout),
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// generation returns the per-request overrides, or the endpoint's settings.
func (e endpoint) generation(req Request) (float64, int) {
	return cmp.Or(req.Temperature, e.temperature), cmp.Or(req.MaxTokens, e.maxTokens)
}

// post sends payload as JSON to path and decodes a 200 response into out.
// A 429 wraps common.ErrRateLimit.
func (e endpoint) post(ctx context.Context, path string, header http.Header, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", e.name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", e.name, err)
	}
	for k, v := range header {
		httpReq.Header[k] = v
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", e.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", e.name, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%s API: %w", e.name, common.ErrRateLimit)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s API error (status %d): %s", e.name, resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", e.name, err)
	}
	return nil
}
