package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// openAIClient talks to any OpenAI-compatible chat completions API.
type openAIClient struct {
	endpoint
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

func newOpenAIClient(cfg Config) (*openAIClient, error) {
	ep, err := newEndpoint(cfg, "OpenAI", "gpt-4o-mini", "https://api.openai.com/v1")
	if err != nil {
		return nil, err
	}
	return &openAIClient{endpoint: ep}, nil
}

// Complete sends a chat completion request.
func (c *openAIClient) Complete(ctx context.Context, req Request) (string, error) {
	body := chatRequest{Model: c.model}
	body.Temperature, body.MaxTokens = c.generation(req)
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.Prompt})

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)

	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", header, body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
