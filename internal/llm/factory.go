package llm

import (
	"fmt"
	"strings"
)

// NewClient creates an LLM client based on the provided configuration.
// ErrDisabled is returned when no API key is configured, so callers can run
// without a model.
func NewClient(cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrDisabled
	}

	var (
		client Client
		err    error
	)

	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		client, err = newOpenAIClient(cfg)
	case "anthropic":
		client, err = newAnthropicClient(cfg)
	case "gemini", "googleai":
		client, err = newGeminiClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	client = newRateLimitedClient(client, cfg.RateLimit)
	if cfg.CacheTTL >= 0 {
		client = newCachedClient(client, cfg.CacheTTL)
	}

	return client, nil
}
