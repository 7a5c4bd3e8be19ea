package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/parts-assistant/internal/catalog"
	"github.com/spec-kit/parts-assistant/internal/domain"
	"github.com/spec-kit/parts-assistant/internal/llm"
)

type recordingTickets struct {
	drafts []domain.TicketDraft
	err    error
}

func (r *recordingTickets) CreateTicket(_ context.Context, d domain.TicketDraft) (domain.SupportTicket, error) {
	if r.err != nil {
		return domain.SupportTicket{}, r.err
	}
	r.drafts = append(r.drafts, d)
	return domain.SupportTicket{
		ID:               "id-1",
		TicketNumber:     "ST-2024-10001",
		Status:           domain.TicketStatusOpen,
		Priority:         d.Priority,
		CustomerName:     d.CustomerName,
		CustomerEmail:    d.CustomerEmail,
		IssueType:        d.IssueType,
		IssueDescription: d.IssueDescription,
	}, nil
}

type fakeGenerator struct {
	available bool
	text      string
	err       error
	prompts   []string
}

func (f *fakeGenerator) Available() bool { return f.available }

func (f *fakeGenerator) Generate(_ context.Context, prompt, _ string) (llm.Response, error) {
	f.prompts = append(f.prompts, prompt)
	return llm.Response{Text: f.text, Provider: llm.ProviderGemini}, f.err
}

func newTestRegistry(t *testing.T, knowledge Knowledge) (*Registry, *recordingTickets) {
	t.Helper()
	tickets := &recordingTickets{}
	store := catalog.NewStore(catalog.NewEmbeddedSource(), nil)
	return NewRegistry(Dependencies{Catalog: store, Tickets: tickets, Knowledge: knowledge}), tickets
}

func TestRegistrySchemas(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)

	var names []domain.ToolName
	for _, s := range reg.Schemas() {
		names = append(names, s.Name)
		assert.NotEmpty(t, s.Description)
	}
	assert.Equal(t, []domain.ToolName{
		domain.ToolSearchProducts,
		domain.ToolCheckCompatibility,
		domain.ToolGetCompatibleParts,
		domain.ToolTroubleshootIssue,
		domain.ToolGetInstallationHelp,
		domain.ToolCheckOrderStatus,
		domain.ToolCreateSupportTicket,
	}, names)

	tool, ok := reg.Get(domain.ToolCheckCompatibility)
	require.True(t, ok)
	assert.Equal(t, []string{"partNumber", "modelNumber"}, tool.Schema().Required())
}

func TestRegistryUnknownTool(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)
	res := reg.Execute(context.Background(), "launch_rocket", Params{})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
}

func TestMissingRequiredFieldsAreNamed(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)

	res := reg.Execute(context.Background(), domain.ToolCheckCompatibility, Params{"partNumber": "PS11752778"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "appliance model number")
	assert.NotContains(t, res.Message, "your part number")

	res = reg.Execute(context.Background(), domain.ToolSearchProducts, Params{"query": "   "})
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "search terms")
}

func TestSearchProducts(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)
	ctx := context.Background()

	res := reg.Execute(ctx, domain.ToolSearchProducts, Params{"query": "ice maker", "limit": "2"})
	require.True(t, res.Success)
	parts := res.Products()
	require.NotEmpty(t, parts)
	assert.LessOrEqual(t, len(parts), 2)
	assert.Contains(t, res.Message, `matching "ice maker"`)

	res = reg.Execute(ctx, domain.ToolSearchProducts, Params{"query": "zzzqqq", "category": "dishwasher"})
	assert.False(t, res.Success)
	assert.Empty(t, res.Products())
	assert.Contains(t, res.Message, "in dishwasher parts")
	assert.Contains(t, res.Message, "Available dishwasher parts:")
	assert.Contains(t, res.Message, "Try:")
}

func TestCheckCompatibilityIncompatible(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)

	res := reg.Execute(context.Background(), domain.ToolCheckCompatibility, Params{
		"partNumber":  "PS11752778",
		"modelNumber": "WDT780SAEM1",
	})
	require.True(t, res.Success)
	data, ok := res.Data.(CompatibilityData)
	require.True(t, ok)
	assert.False(t, data.IsCompatible)
	assert.Contains(t, data.CompatibleModels, "WRS325SDHZ")
	assert.Contains(t, res.Message, "NOT compatible with model WDT780SAEM1")
	assert.Contains(t, res.Message, "WRS325SDHZ, WRS588FIHZ")
	assert.Contains(t, res.Message, "find compatible parts for your WDT780SAEM1 model")
	require.Len(t, res.Products(), 1)
}

func TestCheckCompatibilityCompatible(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)

	res := reg.Execute(context.Background(), domain.ToolCheckCompatibility, Params{
		"partNumber":  "ps11752778",
		"modelNumber": "wrs325sdhz",
	})
	require.True(t, res.Success)
	assert.True(t, res.Data.(CompatibilityData).IsCompatible)
	assert.Contains(t, res.Message, "IS compatible with model WRS325SDHZ")
}

func TestCheckCompatibilityUnknownPart(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)

	res := reg.Execute(context.Background(), domain.ToolCheckCompatibility, Params{
		"partNumber":  "PS1175277",
		"modelNumber": "WDT780SAEM1",
	})
	assert.False(t, res.Success)
	assert.Nil(t, res.Data)
	assert.Contains(t, res.Message, "Did you mean")
	assert.Contains(t, res.Message, "PS11752778")
	assert.Contains(t, res.Message, "Tips:")
}

func TestGetCompatibleParts(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)
	ctx := context.Background()

	res := reg.Execute(ctx, domain.ToolGetCompatibleParts, Params{"modelNumber": "WDT780SAEM1"})
	require.True(t, res.Success)
	parts := res.Products()
	require.NotEmpty(t, parts)
	assert.LessOrEqual(t, len(parts), compatiblePreview)
	for _, p := range parts {
		assert.Contains(t, p.CompatibleModels, "WDT780SAEM1")
	}

	limited := reg.Execute(ctx, domain.ToolGetCompatibleParts, Params{"modelNumber": "WDT780SAEM1", "limit": "1"})
	require.True(t, limited.Success)
	assert.Len(t, limited.Products(), 1)

	unknown := reg.Execute(ctx, domain.ToolGetCompatibleParts, Params{"modelNumber": "ZZZ999"})
	assert.False(t, unknown.Success)
	assert.Contains(t, unknown.Message, "Where to find your model number")
	assert.Contains(t, unknown.Message, "MFI2570FEZ")
}

func TestTroubleshootMergesGuideAndParts(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)

	res := reg.Execute(context.Background(), domain.ToolTroubleshootIssue, Params{
		"symptom":       "ice maker not working",
		"applianceType": "refrigerator",
	})
	require.True(t, res.Success)
	assert.False(t, res.IsFromExternalKnowledge)
	assert.Contains(t, res.Message, "### Try These Steps First")
	assert.Contains(t, res.Message, "Check the water filter")
	assert.Contains(t, res.Message, "### Common Causes")
	assert.Contains(t, res.Message, "PS11752778")
	assert.Contains(t, res.Message, "### Safety Reminders")

	parts := res.Products()
	require.NotEmpty(t, parts)
	assert.LessOrEqual(t, len(parts), defaultTroubleshootLimit)
	for _, p := range parts {
		assert.Equal(t, domain.CategoryRefrigerator, p.Category)
	}
}

func TestTroubleshootExternalFallback(t *testing.T) {
	ctx := context.Background()
	params := Params{"symptom": "qqqq zzzz", "applianceType": "dishwasher"}

	reg, _ := newTestRegistry(t, nil)
	res := reg.Execute(ctx, domain.ToolTroubleshootIssue, params)
	assert.False(t, res.Success)
	assert.True(t, res.IsFromExternalKnowledge)
	assert.Equal(t, noKnowledgeMessage, res.Message)

	gen := &fakeGenerator{available: true, text: "Check the pump."}
	reg, _ = newTestRegistry(t, NewExternalKnowledge(gen, nil))
	res = reg.Execute(ctx, domain.ToolTroubleshootIssue, params)
	assert.True(t, res.Success)
	assert.True(t, res.IsFromExternalKnowledge)
	assert.Contains(t, res.Message, "Check the pump.")
	assert.Contains(t, res.Message, "PartSelect.com")
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "dishwasher")
	assert.Contains(t, gen.prompts[0], "qqqq zzzz")
}

func TestExternalKnowledge(t *testing.T) {
	ctx := context.Background()

	res := NewExternalKnowledge(nil, nil).Troubleshoot(ctx, "noise", "")
	assert.False(t, res.Success)
	assert.True(t, res.IsFromExternalKnowledge)
	assert.Equal(t, noKnowledgeMessage, res.Message)

	res = NewExternalKnowledge(&fakeGenerator{available: false}, nil).Troubleshoot(ctx, "noise", "")
	assert.Equal(t, noKnowledgeMessage, res.Message)

	res = NewExternalKnowledge(&fakeGenerator{available: true, err: errors.New("down")}, nil).
		Troubleshoot(ctx, "noise", domain.CategoryRefrigerator)
	assert.False(t, res.Success)
	assert.True(t, res.IsFromExternalKnowledge)
	assert.Contains(t, res.Message, "your refrigerator")

	res = NewExternalKnowledge(&fakeGenerator{available: true, text: "  "}, nil).Troubleshoot(ctx, "noise", "")
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "your appliance")
}

func TestFindGuide(t *testing.T) {
	g, ok := findGuide("My dishwasher is not draining at all")
	require.True(t, ok)
	assert.Equal(t, "dishwasher not draining", g.symptom)

	g, ok = findGuide("frost")
	require.True(t, ok)
	assert.Equal(t, "frost buildup", g.symptom)

	g, ok = findGuide("the fridge is warm")
	require.True(t, ok)
	assert.Equal(t, "fridge not cold", g.symptom)

	_, ok = findGuide("")
	assert.False(t, ok)
	_, ok = findGuide("strange smell")
	assert.False(t, ok)
}

func TestInstallationHelp(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)
	ctx := context.Background()

	res := reg.Execute(ctx, domain.ToolGetInstallationHelp, Params{"partNumber": "PS11752778"})
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "## Installation Guide for Ice Maker Assembly")
	assert.Contains(t, res.Message, "**Difficulty Level:** Moderate")
	assert.Contains(t, res.Message, "8. Restore power and test operation")
	assert.Contains(t, res.Message, "installation-video/PS11752778")
	assert.Len(t, res.Products(), 1)

	missing := reg.Execute(ctx, domain.ToolGetInstallationHelp, Params{"partNumber": "XX0000000"})
	assert.False(t, missing.Success)
	assert.Contains(t, missing.Message, "Parts with installation guides:")
	assert.Contains(t, missing.Message, `Try asking: "How do I install part PS11752778?"`)
}

func TestCheckOrderStatus(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)
	ctx := context.Background()

	res := reg.Execute(ctx, domain.ToolCheckOrderStatus, Params{"orderNumber": "ps-2024-78542"})
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "## Order Status: PS-2024-78542")
	assert.Contains(t, res.Message, "**Status:** Shipped")
	assert.Contains(t, res.Message, "Refrigerator Water Filter (PS11743427) x2 - $49.99")
	assert.Contains(t, res.Message, "**Order Total:** $189.93")
	assert.Contains(t, res.Message, "1Z999AA10123456784")
	assert.Empty(t, res.Products())

	processing := reg.Execute(ctx, domain.ToolCheckOrderStatus, Params{"orderNumber": "PS-2024-79001"})
	require.True(t, processing.Success)
	assert.NotContains(t, processing.Message, "Tracking Number")

	missing := reg.Execute(ctx, domain.ToolCheckOrderStatus, Params{"orderNumber": "PS-2024-00000"})
	assert.False(t, missing.Success)
	assert.Contains(t, missing.Message, "PS-2024-78123 (Delivered)")
}

func TestCreateSupportTicket(t *testing.T) {
	reg, tickets := newTestRegistry(t, nil)

	res := reg.Execute(context.Background(), domain.ToolCreateSupportTicket, Params{
		"customerName":      "Sam Lee",
		"customerEmail":     "sam@example.com",
		"issueType":         "product_issue",
		"issueDescription":  "Ice maker still broken",
		"stepsAlreadyTried": "reset, replaced filter, ",
		"modelNumber":       "wrs325sdhz",
	})
	require.True(t, res.Success)
	require.Len(t, tickets.drafts, 1)

	d := tickets.drafts[0]
	assert.Equal(t, domain.IssueTypePartDefect, d.IssueType)
	assert.Equal(t, domain.TicketPriorityNormal, d.Priority)
	assert.Equal(t, []string{"reset", "replaced filter"}, d.StepsAlreadyTried)
	assert.Equal(t, "WRS325SDHZ", d.ModelNumber)

	assert.Contains(t, res.Message, "**Ticket Number:** ST-2024-10001")
	assert.Contains(t, res.Message, "**Priority:** Normal")
	assert.Contains(t, res.Message, "sam@example.com")
	ticket, ok := res.Data.(domain.SupportTicket)
	require.True(t, ok)
	assert.Equal(t, "ST-2024-10001", ticket.TicketNumber)
}

func TestCreateSupportTicketFailures(t *testing.T) {
	reg, tickets := newTestRegistry(t, nil)

	res := reg.Execute(context.Background(), domain.ToolCreateSupportTicket, Params{"customerName": "Sam"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "email address")
	assert.Contains(t, res.Message, "description of the issue")
	assert.Empty(t, tickets.drafts)

	tickets.err = errors.New("db down")
	res = reg.Execute(context.Background(), domain.ToolCreateSupportTicket, Params{
		"customerName": "Sam", "customerEmail": "s@x.io", "issueType": "other", "issueDescription": "help",
	})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
}

func TestSimilarParts(t *testing.T) {
	parts := []domain.Part{
		{PartNumber: "PS11752778"},
		{PartNumber: "PS11743427"},
		{PartNumber: "W10712395"},
		{PartNumber: "PS99999999"},
	}

	got := similarParts("ps1175277", parts, 0)
	require.NotEmpty(t, got)
	assert.Equal(t, "PS11752778", got[0].PartNumber)
	assert.LessOrEqual(t, len(got), defaultSuggestions)

	assert.Empty(t, similarParts("", parts, 3))
	assert.Empty(t, similarParts("ZZ", parts, 3))
}

func TestSharesPrefix(t *testing.T) {
	assert.True(t, sharesPrefix("PS11752778", "PS11743427", 4))
	assert.False(t, sharesPrefix("PS11752778", "W10712395", 2))
	assert.True(t, sharesPrefix("PS1", "PS1", 4))
	assert.False(t, sharesPrefix("PS1", "PS11752778", 4))
	assert.True(t, sharesPrefix("PS", "PS11752778", 2))
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 5, parseLimit("", 5))
	assert.Equal(t, 5, parseLimit("abc", 5))
	assert.Equal(t, 5, parseLimit("-2", 5))
	assert.Equal(t, 7, parseLimit(" 7 ", 5))
	assert.Equal(t, domain.MaxResultLimit, parseLimit("500", 5))
}
