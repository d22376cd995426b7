package llm

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// geminiClient implements the Client interface on top of langchaingo's Google AI model.
type geminiClient struct {
	model       llms.Model
	temperature float64
	maxTokens   int
}

func newGeminiClient(cfg Config) (*geminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	model, err := googleai.New(
		context.Background(),
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cmp.Or(cfg.Model, "gemini-1.5-flash")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create googleai model: %w", err)
	}

	return newGeminiClientWithModel(model, cfg), nil
}

func newGeminiClientWithModel(model llms.Model, cfg Config) *geminiClient {
	return &geminiClient{
		model:       model,
		temperature: cmp.Or(cfg.Temperature, defaultTemperature),
		maxTokens:   cmp.Or(cfg.MaxTokens, defaultMaxTokens),
	}
}

// Complete generates a completion. The system instruction is prepended to the prompt.
func (c *geminiClient) Complete(ctx context.Context, req Request) (string, error) {
	prompt := req.Prompt
	if req.System != "" {
		prompt = req.System + "\n\n" + req.Prompt
	}

	completion, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt,
		llms.WithTemperature(cmp.Or(req.Temperature, c.temperature)),
		llms.WithMaxTokens(cmp.Or(req.MaxTokens, c.maxTokens)),
	)
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	return strings.TrimSpace(completion), nil
}
