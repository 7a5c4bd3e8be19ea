package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/decision"
	"github.com/spec-kit/parts-assistant/internal/domain"
	"github.com/spec-kit/parts-assistant/internal/extract"
	"github.com/spec-kit/parts-assistant/internal/tools"
)

const (
	// ApologyMessage is returned when a turn fails unexpectedly.
	ApologyMessage = "I apologize, but I encountered an error processing your request. Please try again."

	offTopicMessage = "I can only help with refrigerator and dishwasher parts. I'm not able to assist with other topics, but I'd be happy to help you find parts, check compatibility, troubleshoot issues, or track an order for your fridge or dishwasher!"
	farewellMessage = "You're welcome! Feel free to come back anytime you need help with refrigerator or dishwasher parts. Have a great day!"
	greetingMessage = "Hello! I'm the PartSelect assistant. How can I help you with refrigerator or dishwasher parts today?"
	clarifyMessage  = "Could you please provide more details about what you're looking for?"

	findModelMessage = `## How to Find Your Model Number

**For Refrigerators:**
- Inside the fresh food section, on the sidewall
- On the door frame (visible when the door is open)
- Behind the crisper drawers at the bottom
- Sometimes on the back of the unit

**For Dishwashers:**
- Along the top edge of the door opening
- Left or right side of the tub interior
- On the kick plate at the bottom

**Model Number Examples:**
- Whirlpool: WRS325SDHZ, WDT780SAEM1
- GE: GSS25GSHSS, GDF520PGJWW
- Samsung: RF28HMEDBSR
- LG: LRMVS3006S

Once you find it, let me know and I'll help you find compatible parts!`

	ticketFormMessage = "Please fill out the form below and our team will reach out to you within 24 hours."

	summaryTurns    = 3
	summaryMaxChars = 500
)

var priorityMessages = map[domain.TicketPriority]string{
	domain.TicketPriorityUrgent: "I can see this is an urgent matter.",
	domain.TicketPriorityHigh:   "I understand this is a serious concern.",
	domain.TicketPriorityNormal: "I understand you need additional help.",
	domain.TicketPriorityLow:    "I'd be happy to connect you with our support team.",
}

// Decider classifies a turn.
type Decider interface {
	Decide(ctx context.Context, message string, history []domain.ChatMessage) decision.Outcome
}

// ToolRunner executes a named domain tool.
type ToolRunner interface {
	Execute(ctx context.Context, name domain.ToolName, params tools.Params) tools.Result
}

// TicketSuggester is told when a conversation is routed to the ticket form.
type TicketSuggester interface {
	SuggestTicket(ctx context.Context, reason string, priority domain.TicketPriority)
}

// ToolRecorder receives tool execution metrics.
type ToolRecorder interface {
	RecordTool(tool string, success bool)
}

// ChatDependencies wires the chat service.
type ChatDependencies struct {
	Decider     Decider
	Tools       ToolRunner
	Synthesizer *Synthesizer
	Tickets     TicketSuggester
	Metrics     ToolRecorder
	Logger      *zap.Logger
}

// ChatService runs one conversational turn end to end: decision, tool
// dispatch and synthesis.
type ChatService struct {
	decider     Decider
	tools       ToolRunner
	synthesizer *Synthesizer
	tickets     TicketSuggester
	metrics     ToolRecorder
	logger      *zap.Logger
}

// NewChatService constructs the service.
func NewChatService(deps ChatDependencies) *ChatService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	synth := deps.Synthesizer
	if synth == nil {
		synth = NewSynthesizer(nil, logger)
	}
	return &ChatService{
		decider:     deps.Decider,
		tools:       deps.Tools,
		synthesizer: synth,
		tickets:     deps.Tickets,
		metrics:     deps.Metrics,
		logger:      logger,
	}
}

// Respond answers message given the prior history. The only error returned
// is the context's, when the caller gave up on the turn.
func (s *ChatService) Respond(ctx context.Context, message string, history []domain.ChatMessage) (resp domain.ChatResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("chat turn panicked", zap.Any("panic", r))
			resp, err = apologyResponse(), nil
		}
	}()

	out := s.decider.Decide(ctx, message, history)
	if err := ctx.Err(); err != nil {
		return domain.ChatResponse{}, err
	}
	d := out.Decision

	switch {
	case d.Intent == domain.IntentOffTopic:
		return fixedResponse(offTopicMessage, domain.IntentOffTopic), nil
	case d.Intent == domain.IntentGreeting:
		msg := d.ClarificationQuestion
		if msg == "" {
			msg = greetingMessage
		}
		return fixedResponse(msg, domain.IntentGreeting), nil
	case d.Intent == domain.IntentFarewell:
		return fixedResponse(farewellMessage, domain.IntentFarewell), nil
	case d.Intent == domain.IntentFindModelLocation:
		return fixedResponse(findModelMessage, domain.IntentFindModelLocation), nil
	case d.Intent == domain.IntentSupportTicket || d.NeedsTicketForm:
		return s.ticketForm(ctx, message, history, d), nil
	case d.NeedsClarification:
		msg := d.ClarificationQuestion
		if msg == "" {
			msg = clarifyMessage
		}
		return fixedResponse(msg, domain.IntentClarification), nil
	}

	var result *tools.Result
	if d.Tool != "" && s.tools != nil {
		r := s.tools.Execute(ctx, d.Tool, toolParams(message, d))
		if s.metrics != nil {
			s.metrics.RecordTool(string(d.Tool), r.Success)
		}
		result = &r
	}

	var products []domain.Part
	if result != nil {
		products = result.Products()
	}
	if limit := resultLimit(d); len(products) > limit {
		products = products[:limit]
	}
	if products == nil {
		products = []domain.Part{}
	}

	text, enhanced := s.synthesizer.Synthesize(ctx, message, d, result, products)
	return domain.ChatResponse{
		Message:    text,
		Products:   products,
		ToolUsed:   d.Tool,
		Intent:     d.Intent,
		DataSource: dataSource(result, products, enhanced),
	}, nil
}

func (s *ChatService) ticketForm(ctx context.Context, message string, history []domain.ChatMessage, d domain.Decision) domain.ChatResponse {
	priority := d.SuggestedPriority
	if _, ok := priorityMessages[priority]; !ok {
		priority = domain.TicketPriorityNormal
	}
	reason := d.TicketReason
	if reason == "" {
		reason = "Let me create a support ticket for you."
	}
	if s.tickets != nil {
		s.tickets.SuggestTicket(ctx, reason, priority)
	}

	draft := &domain.TicketDraft{
		Priority:         priority,
		IssueDescription: issueSummary(message, history),
		ApplianceType:    domain.ParseCategory(d.Param("category")),
		ModelNumber:      d.Param("modelNumber"),
		PartNumber:       d.Param("partNumber"),
	}
	if draft.ApplianceType == "" {
		draft.ApplianceType = extract.Category(message)
	}

	return domain.ChatResponse{
		Message:             fmt.Sprintf("%s %s\n\n%s", priorityMessages[priority], reason, ticketFormMessage),
		Products:            []domain.Part{},
		Intent:              domain.IntentSupportTicket,
		DataSource:          domain.DataSourceDatabase,
		ShowTicketForm:      true,
		PrefilledTicketData: draft,
	}
}

// issueSummary joins the last few user turns and the current message. It is
// empty when the conversation has no earlier user turns.
func issueSummary(message string, history []domain.ChatMessage) string {
	var turns []string
	for _, m := range history {
		if m.Role == domain.RoleUser {
			turns = append(turns, m.Content)
		}
	}
	if len(turns) == 0 {
		return ""
	}
	if len(turns) > summaryTurns {
		turns = turns[len(turns)-summaryTurns:]
	}
	summary := strings.Join(append(turns, message), " | ")
	if r := []rune(summary); len(r) > summaryMaxChars {
		summary = string(r[:summaryMaxChars])
	}
	return summary
}

// toolParams copies the decision parameters and fills in what the tool needs
// from the turn itself.
func toolParams(message string, d domain.Decision) tools.Params {
	params := make(tools.Params, len(d.Parameters)+4)
	for k, v := range d.Parameters {
		params[k] = v
	}

	category := domain.ParseCategory(params["category"])
	if category == "" {
		category = extract.Category(message)
	}
	limit := strconv.Itoa(resultLimit(d))

	switch d.Tool {
	case domain.ToolSearchProducts:
		if strings.TrimSpace(params["query"]) == "" {
			params["query"] = message
		}
		params["limit"] = limit
		params["sortBy"] = string(d.SortBy)
		params["sortOrder"] = string(d.SortOrder)
		if category != "" {
			params["category"] = string(category)
		}
	case domain.ToolTroubleshootIssue:
		if strings.TrimSpace(params["symptom"]) == "" {
			params["symptom"] = message
		}
		params["limit"] = limit
		if params["applianceType"] == "" && category != "" {
			params["applianceType"] = string(category)
		}
	case domain.ToolGetCompatibleParts:
		params["limit"] = limit
		params["sortBy"] = string(d.SortBy)
		params["sortOrder"] = string(d.SortOrder)
	}
	return params
}

func resultLimit(d domain.Decision) int {
	if d.ResultLimit <= 0 {
		return domain.DefaultResultLimit
	}
	return min(d.ResultLimit, domain.MaxResultLimit)
}

func dataSource(result *tools.Result, products []domain.Part, enhanced bool) domain.DataSource {
	switch {
	case result != nil && result.IsFromExternalKnowledge:
		return domain.DataSourceExternalFallback
	case len(products) > 0:
		return domain.DataSourceDatabase
	case enhanced:
		return domain.DataSourceExternalEnhanced
	default:
		return domain.DataSourceDatabase
	}
}

func fixedResponse(message string, intent domain.Intent) domain.ChatResponse {
	return domain.ChatResponse{
		Message:    message,
		Products:   []domain.Part{},
		Intent:     intent,
		DataSource: domain.DataSourceDatabase,
	}
}

func apologyResponse() domain.ChatResponse {
	return fixedResponse(ApologyMessage, domain.IntentGeneral)
}
