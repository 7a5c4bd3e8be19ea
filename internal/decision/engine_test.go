package decision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

type recordedDecision struct {
	source string
	intent string
}

type recorder struct {
	decisions []recordedDecision
	hits      int
	misses    int
}

func (r *recorder) RecordDecision(source, intent string) {
	r.decisions = append(r.decisions, recordedDecision{source, intent})
}

func (r *recorder) RecordCacheLookup(hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func TestEngineShortCircuits(t *testing.T) {
	gen := &fakeGenerator{available: true}
	e := NewEngine(Dependencies{Generator: gen})

	out := e.Decide(context.Background(), "Hello!", nil)
	assert.Equal(t, SourceGreeting, out.Source)
	assert.Equal(t, domain.IntentGreeting, out.Decision.Intent)

	out = e.Decide(context.Background(), "thank you", nil)
	assert.Equal(t, SourceFarewell, out.Source)
	assert.Empty(t, gen.prompts, "greetings never reach the backend")
}

func TestEngineFallbackIsCached(t *testing.T) {
	rec := &recorder{}
	cache := NewMemoryCache(0, 0)
	e := NewEngine(Dependencies{Cache: cache, Metrics: rec})
	ctx := context.Background()

	first := e.Decide(ctx, "What's the weather today?", nil)
	assert.Equal(t, SourceFallback, first.Source)
	assert.Equal(t, domain.IntentOffTopic, first.Decision.Intent)

	second := e.Decide(ctx, "what's   the WEATHER today?", nil)
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, first.Decision, second.Decision)

	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 1, rec.misses)
	require.Len(t, rec.decisions, 2)
	assert.Equal(t, recordedDecision{"cache", "off_topic"}, rec.decisions[1])
}

func TestEngineUsesSupervisor(t *testing.T) {
	gen := &fakeGenerator{available: true, text: `{"intent":"search","toolToUse":"search_products","parameters":{"query":"ice maker"}}`}
	e := NewEngine(Dependencies{Generator: gen})

	out := e.Decide(context.Background(), "ice maker", nil)
	assert.Equal(t, SourceSupervisor, out.Source)
	assert.Equal(t, "ice maker", out.Decision.Param("query"))
}

func TestEngineFallsBackOnSupervisorFailure(t *testing.T) {
	for _, gen := range []*fakeGenerator{
		{available: true, err: errors.New("boom")},
		{available: true, text: "no json here"},
	} {
		e := NewEngine(Dependencies{Generator: gen})
		out := e.Decide(context.Background(), "My ice maker is not working", nil)
		assert.Equal(t, SourceFallback, out.Source)
		assert.Equal(t, domain.ToolTroubleshootIssue, out.Decision.Tool)
	}
}

func TestEngineDoesNotCacheCancelledTurns(t *testing.T) {
	cache := NewMemoryCache(0, 0)
	e := NewEngine(Dependencies{Generator: &fakeGenerator{available: true, text: `{"intent":"general"}`}, Cache: cache})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := e.Decide(ctx, "show me water filters", nil)
	assert.Equal(t, SourceFallback, out.Source)
	assert.Zero(t, cache.Len())
}
