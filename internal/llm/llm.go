// Package llm selects and calls the text-completion backend. At most one
// provider is active; with none configured the client reports unavailable and
// callers fall back to their rule-based paths.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrNoProvider is returned when no completion backend is configured.
	ErrNoProvider = errors.New("llm: no completion provider configured")
	// ErrEmptyResponse is returned when a backend answers with no text.
	ErrEmptyResponse = errors.New("llm: empty completion")
)

// Provider names a completion vendor.
type Provider string

const (
	ProviderNone      Provider = "none"
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// Response is a completed generation.
type Response struct {
	Text     string
	Provider Provider
}

// Generator is the completion capability consumed by the decision engine,
// the synthesizer and the troubleshooting fallback.
type Generator interface {
	Available() bool
	Generate(ctx context.Context, prompt, system string) (Response, error)
}

// Backend is one vendor integration.
type Backend interface {
	Provider() Provider
	Generate(ctx context.Context, prompt, system string) (string, error)
}
