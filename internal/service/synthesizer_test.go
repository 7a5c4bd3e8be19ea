package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/parts-assistant/internal/domain"
	"github.com/spec-kit/parts-assistant/internal/llm"
	"github.com/spec-kit/parts-assistant/internal/tools"
)

type scriptedGenerator struct {
	text    string
	err     error
	prompts []string
}

func (g *scriptedGenerator) Available() bool { return true }

func (g *scriptedGenerator) Generate(_ context.Context, prompt, _ string) (llm.Response, error) {
	g.prompts = append(g.prompts, prompt)
	return llm.Response{Text: g.text, Provider: llm.ProviderAnthropic}, g.err
}

var sampleParts = []domain.Part{
	{PartNumber: "PS1", Name: "Alpha", Price: 10, InstallationDifficulty: domain.DifficultyEasy},
	{PartNumber: "PS2", Name: "Beta", Price: 20.5, InstallationDifficulty: domain.DifficultyModerate},
	{PartNumber: "PS3", Name: "Gamma", Price: 30},
	{PartNumber: "PS4", Name: "Delta", Price: 40},
}

func TestTemplatedReplies(t *testing.T) {
	s := NewSynthesizer(nil, nil)
	ctx := context.Background()
	d := domain.Decision{Intent: domain.IntentTroubleshooting}

	text, enhanced := s.Synthesize(ctx, "q", d, &tools.Result{Message: "tool says hi"}, nil)
	assert.Equal(t, "tool says hi", text)
	assert.False(t, enhanced)

	text, _ = s.Synthesize(ctx, "q", d, nil, sampleParts)
	assert.Contains(t, text, "Based on your issue, here are some parts that commonly help:")
	assert.Contains(t, text, "- **Beta** (PS2) - $20.50")
	assert.NotContains(t, text, "Delta", "only the top three are listed")

	text, _ = s.Synthesize(ctx, "q", domain.Decision{Intent: domain.IntentCompatibility}, nil, nil)
	assert.Contains(t, text, "both the part number and your appliance model number")

	text, _ = s.Synthesize(ctx, "q", domain.Decision{Intent: domain.IntentGeneral}, nil, nil)
	assert.Equal(t, genericFallback, text)
}

func TestSynthesizerPassesToolMessagesThrough(t *testing.T) {
	gen := &scriptedGenerator{text: "rewritten"}
	s := NewSynthesizer(gen, nil)

	text, enhanced := s.Synthesize(context.Background(), "q",
		domain.Decision{Intent: domain.IntentCompatibility}, &tools.Result{Message: "Yes, compatible!"}, nil)
	assert.Equal(t, "Yes, compatible!", text)
	assert.False(t, enhanced)
	assert.Empty(t, gen.prompts)
}

func TestSynthesizerRewritesTroubleshooting(t *testing.T) {
	gen := &scriptedGenerator{text: "Let me help you fix this..."}
	s := NewSynthesizer(gen, nil)
	d := domain.Decision{Intent: domain.IntentTroubleshooting, Tool: domain.ToolTroubleshootIssue, ResponseStyle: domain.StyleBrief}

	text, enhanced := s.Synthesize(context.Background(), "ice maker broken", d, &tools.Result{Message: "## Troubleshooting"}, sampleParts[:1])
	assert.Equal(t, "Let me help you fix this...", text)
	assert.True(t, enhanced)

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, `User asked: "ice maker broken"`)
	assert.Contains(t, prompt, "Tool used: troubleshoot_issue")
	assert.Contains(t, prompt, "## Troubleshooting")
	assert.Contains(t, prompt, "- Alpha (PS1): $10.00, Easy install")
	assert.Contains(t, prompt, "RESPONSE STYLE: BRIEF")
}

func TestSynthesizerFallsBackOnBackendFailure(t *testing.T) {
	d := domain.Decision{Intent: domain.IntentTroubleshooting}
	for _, gen := range []*scriptedGenerator{
		{err: errors.New("rate limited")},
		{text: "   "},
	} {
		text, enhanced := NewSynthesizer(gen, nil).Synthesize(context.Background(), "q", d, &tools.Result{Message: "steps"}, nil)
		assert.Equal(t, "steps", text)
		assert.False(t, enhanced)
	}
}

func TestDataSource(t *testing.T) {
	external := &tools.Result{IsFromExternalKnowledge: true}
	assert.Equal(t, domain.DataSourceExternalFallback, dataSource(external, sampleParts, true))
	assert.Equal(t, domain.DataSourceDatabase, dataSource(&tools.Result{}, sampleParts, true))
	assert.Equal(t, domain.DataSourceExternalEnhanced, dataSource(nil, nil, true))
	assert.Equal(t, domain.DataSourceDatabase, dataSource(nil, nil, false))
}
