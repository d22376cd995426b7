// Package llm provides a narrow text-completion interface over generative model
// providers. OpenAI-compatible, Anthropic and Gemini backends are supported, with
// response caching and fail-fast rate limiting layered on top.
package llm
