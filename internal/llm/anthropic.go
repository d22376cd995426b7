package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// anthropicClient talks to the Anthropic messages API.
type anthropicClient struct {
	endpoint
}

type messagesRequest struct {
	Model       string        `json:"model"`
	System      string        `json:"system,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func newAnthropicClient(cfg Config) (*anthropicClient, error) {
	ep, err := newEndpoint(cfg, "anthropic", "claude-3-5-haiku-latest", "https://api.anthropic.com")
	if err != nil {
		return nil, err
	}
	return &anthropicClient{endpoint: ep}, nil
}

// Complete sends a messages request. Text blocks are concatenated.
func (c *anthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	body := messagesRequest{
		Model:    c.model,
		System:   req.System,
		Messages: []chatMessage{{Role: "user", Content: req.Prompt}},
	}
	body.Temperature, body.MaxTokens = c.generation(req)

	header := http.Header{}
	header.Set("x-api-key", c.apiKey)
	header.Set("anthropic-version", "2023-06-01")

	var resp messagesResponse
	if err := c.post(ctx, "/v1/messages", header, body, &resp); err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New("no content in response")
	}
	return strings.TrimSpace(text.String()), nil
}
