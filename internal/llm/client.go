package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spec-kit/parts-assistant/internal/config"
)

// Options bound every call made through a Client.
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// CompletionRecorder observes every completion attempt.
type CompletionRecorder interface {
	RecordCompletion(provider string, elapsed time.Duration, err error)
}

// Client wraps the selected backend with a per-call timeout and a rate limit.
// A Client without a backend is valid and reports unavailable.
type Client struct {
	backend Backend
	limiter *rate.Limiter
	timeout time.Duration
	logger  *zap.Logger
	metrics CompletionRecorder
}

// NewClient picks the first configured provider in the order Gemini,
// Anthropic, OpenAI.
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*Client, error) {
	opts := Options{
		Timeout:           cfg.Timeout(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	}

	var (
		backend Backend
		err     error
	)
	switch {
	case cfg.GoogleAPIKey != "":
		backend, err = NewGeminiBackend(ctx, cfg.GoogleAPIKey, cfg.GeminiModel, cfg.MaxTokens)
	case cfg.AnthropicAPIKey != "":
		backend, err = NewAnthropicBackend(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.MaxTokens)
	case cfg.OpenAIAPIKey != "":
		backend, err = NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.MaxTokens)
	}
	if err != nil {
		return nil, err
	}
	return NewClientWithBackend(backend, opts, logger), nil
}

// NewClientWithBackend wraps an explicit backend; nil yields an unavailable client.
func NewClientWithBackend(backend Backend, opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	c := &Client{
		backend: backend,
		limiter: rate.NewLimiter(limit, opts.Burst),
		timeout: opts.Timeout,
		logger:  logger,
	}
	logger.Info("completion backend selected", zap.String("provider", string(c.Provider())))
	return c
}

// WithRecorder attaches a completion recorder and returns c.
func (c *Client) WithRecorder(r CompletionRecorder) *Client {
	if c != nil {
		c.metrics = r
	}
	return c
}

// Available reports whether a backend is configured.
func (c *Client) Available() bool {
	return c != nil && c.backend != nil
}

// Provider names the active backend.
func (c *Client) Provider() Provider {
	if !c.Available() {
		return ProviderNone
	}
	return c.backend.Provider()
}

// Generate runs one completion. Timeouts, rate-limit waits cut short by ctx
// and empty replies are all returned as errors.
func (c *Client) Generate(ctx context.Context, prompt, system string) (Response, error) {
	if !c.Available() {
		return Response{}, ErrNoProvider
	}
	provider := c.backend.Provider()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return Response{}, fmt.Errorf("llm: rate limit wait: %w", err)
	}

	start := time.Now()
	text, err := c.backend.Generate(ctx, prompt, system)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if c.metrics != nil {
		c.metrics.RecordCompletion(string(provider), time.Since(start), err)
	}
	if errors.Is(err, ErrEmptyResponse) {
		return Response{}, err
	}
	if err != nil {
		c.logger.Warn("completion failed",
			zap.String("provider", string(provider)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return Response{}, err
	}
	c.logger.Debug("completion finished",
		zap.String("provider", string(provider)),
		zap.Duration("elapsed", time.Since(start)))
	return Response{Text: text, Provider: provider}, nil
}
