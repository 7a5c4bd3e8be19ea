package decision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/parts-assistant/internal/domain"
	"github.com/spec-kit/parts-assistant/internal/llm"
)

type fakeGenerator struct {
	available bool
	text      string
	err       error
	prompts   []string
}

func (f *fakeGenerator) Available() bool { return f.available }

func (f *fakeGenerator) Generate(ctx context.Context, prompt, _ string) (llm.Response, error) {
	f.prompts = append(f.prompts, prompt)
	if err := ctx.Err(); err != nil {
		return llm.Response{}, err
	}
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Text: f.text, Provider: llm.ProviderGemini}, nil
}

func TestParseDecision(t *testing.T) {
	reply := "Sure! ```json\n" + `{
		"intent": "compatibility",
		"toolToUse": "check_compatibility",
		"parameters": {"partNumber": "PS11752778", "modelNumber": "WRS325SDHZ", "limit": 3, "query": null},
		"reasoning": "part and model given",
		"needsClarification": false,
		"resultLimit": "8",
		"responseStyle": "DETAILED",
		"sortBy": "rating",
		"sortOrder": "desc"
	}` + "\n```"

	d, err := ParseDecision(reply, "is PS11752778 compatible with WRS325SDHZ")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentCompatibility, d.Intent)
	assert.Equal(t, domain.ToolCheckCompatibility, d.Tool)
	assert.Equal(t, map[string]string{"partNumber": "PS11752778", "modelNumber": "WRS325SDHZ", "limit": "3"}, d.Parameters)
	assert.Equal(t, 8, d.ResultLimit)
	assert.Equal(t, domain.StyleDetailed, d.ResponseStyle)
	assert.Equal(t, domain.SortRating, d.SortBy)
}

func TestParseDecisionDefaultsFromMessage(t *testing.T) {
	d, err := ParseDecision(`{"intent":"search","toolToUse":null,"parameters":null}`, "show me all the cheapest filters")
	require.NoError(t, err)
	assert.Empty(t, d.Tool)
	assert.NotNil(t, d.Parameters)
	assert.Equal(t, domain.MaxResultLimit, d.ResultLimit)
	assert.Equal(t, domain.SortPrice, d.SortBy)
	assert.Equal(t, domain.SortAsc, d.SortOrder)
	assert.Equal(t, domain.StyleStandard, d.ResponseStyle)
}

func TestParseDecisionTicket(t *testing.T) {
	d, err := ParseDecision(`{"intent":"support_ticket","reasoning":"wants a human","suggestedPriority":"bogus"}`, "human please")
	require.NoError(t, err)
	assert.True(t, d.NeedsTicketForm)
	assert.Equal(t, domain.TicketPriorityNormal, d.SuggestedPriority)
	assert.Equal(t, "wants a human", d.TicketReason)
}

func TestParseDecisionMalformed(t *testing.T) {
	for _, reply := range []string{
		"I think the user wants a part",
		`{"intent": "search",`,
		`{"intent": "order_pizza"}`,
		`{"intent": "search", "toolToUse": "buy_now"}`,
	} {
		_, err := ParseDecision(reply, "anything")
		assert.ErrorIs(t, err, ErrMalformedDecision, reply)
	}
}

func TestSupervisorAnalyze(t *testing.T) {
	gen := &fakeGenerator{available: true, text: `{"intent":"order_status","toolToUse":"check_order_status","parameters":{"orderNumber":"PS-2024-78542"}}`}
	s := NewSupervisor(gen, nil)

	history := []domain.ChatMessage{
		user("where is my order"),
		assistant("Please provide your order number."),
	}
	d, err := s.Analyze(context.Background(), "PS-2024-78542", history)
	require.NoError(t, err)
	assert.Equal(t, domain.ToolCheckOrderStatus, d.Tool)
	assert.Equal(t, 2, d.ContextDepth)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "PREVIOUS CONVERSATION INTENT: awaiting_order_number")
	assert.Contains(t, gen.prompts[0], "user: where is my order")
}

func TestSupervisorErrors(t *testing.T) {
	_, err := NewSupervisor(nil, nil).Analyze(context.Background(), "hi", nil)
	assert.ErrorIs(t, err, ErrNoBackend)

	_, err = NewSupervisor(&fakeGenerator{available: false}, nil).Analyze(context.Background(), "hi", nil)
	assert.ErrorIs(t, err, ErrNoBackend)

	boom := errors.New("quota exceeded")
	_, err = NewSupervisor(&fakeGenerator{available: true, err: boom}, nil).Analyze(context.Background(), "hi", nil)
	assert.ErrorIs(t, err, boom)
}

func TestBuildPromptWindow(t *testing.T) {
	history := []domain.ChatMessage{user("one"), assistant("two"), user("three")}

	p := BuildPrompt("four", history, 2, PrevNone)
	assert.NotContains(t, p, "user: one")
	assert.Contains(t, p, "assistant: two")
	assert.Contains(t, p, `Current user message: "four"`)
	assert.NotContains(t, p, "PREVIOUS CONVERSATION INTENT")

	empty := BuildPrompt("hi", nil, 0, PrevNone)
	assert.Contains(t, empty, "No previous messages")
}
