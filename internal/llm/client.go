package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/savemoney/internal/common"
)

// ErrDisabled is returned when no provider is configured. It wraps
// common.ErrLLMUnavailable.
var ErrDisabled = fmt.Errorf("llm disabled: %w", common.ErrLLMUnavailable)

// Client defines the interface for LLM providers.
// Implementations must be safe for concurrent use.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single completion request.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Config holds configuration for LLM clients.
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	CacheTTL    time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
