package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangchainBackend adapts a langchaingo chat model.
type LangchainBackend struct {
	provider  Provider
	model     llms.Model
	maxTokens int
}

// NewAnthropicBackend builds a Claude backend.
func NewAnthropicBackend(apiKey, model string, maxTokens int) (*LangchainBackend, error) {
	m, err := anthropic.New(anthropic.WithToken(apiKey), anthropic.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("anthropic: create client: %w", err)
	}
	return &LangchainBackend{provider: ProviderAnthropic, model: m, maxTokens: maxTokens}, nil
}

// NewOpenAIBackend builds an OpenAI backend.
func NewOpenAIBackend(apiKey, model string, maxTokens int) (*LangchainBackend, error) {
	m, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("openai: create client: %w", err)
	}
	return &LangchainBackend{provider: ProviderOpenAI, model: m, maxTokens: maxTokens}, nil
}

func (b *LangchainBackend) Provider() Provider { return b.provider }

// Generate sends the system and user messages and returns the first choice.
func (b *LangchainBackend) Generate(ctx context.Context, prompt, system string) (string, error) {
	var messages []llms.MessageContent
	if system != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	var opts []llms.CallOption
	if b.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(b.maxTokens))
	}
	resp, err := b.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("%s: generate: %w", b.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}
