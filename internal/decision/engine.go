// Package decision turns a user message plus conversation history into a
// Decision. An LLM supervisor is tried first when configured; the rule-based
// FallbackEngine covers every other case.
package decision

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/domain"
	"github.com/spec-kit/parts-assistant/internal/llm"
)

// Source records which path produced a decision.
type Source string

const (
	SourceGreeting   Source = "greeting"
	SourceFarewell   Source = "farewell"
	SourceCache      Source = "cache"
	SourceFallback   Source = "fallback"
	SourceSupervisor Source = "supervisor"
)

// Outcome is a decision and where it came from.
type Outcome struct {
	Decision domain.Decision
	Source   Source
}

// Recorder receives decision metrics.
type Recorder interface {
	RecordDecision(source, intent string)
	RecordCacheLookup(hit bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordDecision(string, string) {}
func (nopRecorder) RecordCacheLookup(bool)        {}

// Dependencies wires the engine.
type Dependencies struct {
	Generator llm.Generator
	Cache     Cache
	Logger    *zap.Logger
	Metrics   Recorder
}

// Engine runs the short-circuit ladder: greeting, farewell, cache, then the
// supervisor or the rule engine.
type Engine struct {
	supervisor *Supervisor
	fallback   *FallbackEngine
	cache      Cache
	logger     *zap.Logger
	metrics    Recorder
}

// NewEngine builds an engine. A nil cache gets an in-memory default.
func NewEngine(deps Dependencies) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cache := deps.Cache
	if cache == nil {
		cache = NewMemoryCache(DefaultCacheTTL, DefaultCacheEntries)
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Engine{
		supervisor: NewSupervisor(deps.Generator, logger),
		fallback:   NewFallbackEngine(),
		cache:      cache,
		logger:     logger,
		metrics:    metrics,
	}
}

// Decide classifies message. It never fails; supervisor errors fall through
// to the rule engine. Decisions are not cached once ctx is done.
func (e *Engine) Decide(ctx context.Context, message string, history []domain.ChatMessage) Outcome {
	out := e.decide(ctx, message, history)
	e.metrics.RecordDecision(string(out.Source), string(out.Decision.Intent))
	e.logger.Debug("decision made",
		zap.String("source", string(out.Source)),
		zap.String("intent", string(out.Decision.Intent)),
		zap.String("tool", string(out.Decision.Tool)),
	)
	return out
}

func (e *Engine) decide(ctx context.Context, message string, history []domain.ChatMessage) Outcome {
	if IsGreeting(message) {
		return Outcome{Decision: GreetingDecision(), Source: SourceGreeting}
	}
	if IsFarewell(message) {
		return Outcome{Decision: FarewellDecision(), Source: SourceFarewell}
	}

	key := CacheKey(message, len(history))
	if d, ok := e.cache.Get(ctx, key); ok {
		e.metrics.RecordCacheLookup(true)
		return Outcome{Decision: d, Source: SourceCache}
	}
	e.metrics.RecordCacheLookup(false)

	out := Outcome{Source: SourceSupervisor}
	d, err := e.supervisor.Analyze(ctx, message, history)
	if err != nil {
		if !errors.Is(err, ErrNoBackend) {
			e.logger.Warn("supervisor failed, using rule engine", zap.Error(err))
		}
		d = e.fallback.Analyze(message, history)
		out.Source = SourceFallback
	}
	out.Decision = d

	if ctx.Err() == nil {
		e.cache.Set(ctx, key, d)
	}
	return out
}
