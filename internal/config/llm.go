package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/llm"
)

// Defaults for model access.
const (
	DefaultLLMTimeout  = 15 * time.Second
	DefaultCacheTTL    = 10 * time.Minute
	DefaultRateLimit   = 60
	DefaultLLMProvider = "openai"
)

var providerKeyEnv = map[string][]string{
	"openai":    {"OPENAI_API_KEY"},
	"anthropic": {"ANTHROPIC_API_KEY"},
	"gemini":    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"googleai":  {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

var providerBaseURLEnv = map[string]string{
	"openai":    "OPENAI_BASE_URL",
	"anthropic": "ANTHROPIC_BASE_URL",
}

// LoadLLMConfig reads llm.* keys. A missing API key is not an error: the
// resulting config makes llm.NewClient return llm.ErrDisabled.
func LoadLLMConfig() (llm.Config, error) {
	provider := strings.ToLower(firstNonEmpty(viper.GetString("llm.provider"), DefaultLLMProvider))
	envKeys, ok := providerKeyEnv[provider]
	if !ok {
		return llm.Config{}, fmt.Errorf("%w: unsupported llm.provider %q", common.ErrInvalidConfig, provider)
	}

	keys := []string{viper.GetString("llm.api_key")}
	for _, env := range envKeys {
		keys = append(keys, os.Getenv(env))
	}

	cfg := llm.Config{
		Provider:    provider,
		APIKey:      firstNonEmpty(keys...),
		BaseURL:     firstNonEmpty(viper.GetString("llm.base_url"), os.Getenv(providerBaseURLEnv[provider])),
		Model:       viper.GetString("llm.model"),
		Timeout:     DefaultLLMTimeout,
		CacheTTL:    DefaultCacheTTL,
		RateLimit:   DefaultRateLimit,
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}
	if viper.IsSet("llm.timeout") {
		cfg.Timeout = viper.GetDuration("llm.timeout")
	}
	if viper.IsSet("llm.cache_ttl") {
		cfg.CacheTTL = viper.GetDuration("llm.cache_ttl")
	}
	if viper.IsSet("llm.rate_limit") {
		cfg.RateLimit = viper.GetInt("llm.rate_limit")
	}

	if cfg.Timeout <= 0 {
		return llm.Config{}, fmt.Errorf("%w: llm.timeout must be positive", common.ErrInvalidConfig)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return llm.Config{}, fmt.Errorf("%w: llm.temperature must be within [0, 2]", common.ErrInvalidConfig)
	}
	return cfg, nil
}
