package decision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/domain"
	"github.com/spec-kit/parts-assistant/internal/llm"
)

var (
	// ErrNoBackend means no completion backend is available for this turn.
	ErrNoBackend = errors.New("decision: no completion backend")
	// ErrMalformedDecision means the backend reply held no usable decision.
	ErrMalformedDecision = errors.New("decision: malformed decision")
)

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

var knownTools = map[domain.ToolName]struct{}{
	domain.ToolSearchProducts: {}, domain.ToolCheckCompatibility: {}, domain.ToolGetCompatibleParts: {},
	domain.ToolTroubleshootIssue: {}, domain.ToolGetInstallationHelp: {}, domain.ToolCheckOrderStatus: {},
	domain.ToolCreateSupportTicket: {},
}

// Supervisor classifies turns with the completion backend.
type Supervisor struct {
	gen    llm.Generator
	logger *zap.Logger
}

// NewSupervisor wraps gen. A nil gen yields a supervisor that always reports
// ErrNoBackend.
func NewSupervisor(gen llm.Generator, logger *zap.Logger) *Supervisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Supervisor{gen: gen, logger: logger}
}

// Available reports whether a backend can be called.
func (s *Supervisor) Available() bool {
	return s != nil && s.gen != nil && s.gen.Available()
}

// Analyze asks the backend for a decision. Callers fall back to the rule
// engine on any error.
func (s *Supervisor) Analyze(ctx context.Context, message string, history []domain.ChatMessage) (domain.Decision, error) {
	if !s.Available() {
		return domain.Decision{}, ErrNoBackend
	}

	depth := ContextDepth(message, len(history))
	prompt := BuildPrompt(message, history, depth, DetectPreviousIntent(history))

	resp, err := s.gen.Generate(ctx, prompt, SystemPrompt)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("supervisor generate: %w", err)
	}

	d, err := ParseDecision(resp.Text, message)
	if err != nil {
		s.logger.Debug("supervisor reply rejected", zap.String("provider", string(resp.Provider)), zap.Error(err))
		return domain.Decision{}, err
	}
	d.ContextDepth = depth
	return d, nil
}

// wireDecision accepts the loose shapes completion backends produce.
type wireDecision struct {
	Intent                string         `json:"intent"`
	ToolToUse             *string        `json:"toolToUse"`
	Parameters            map[string]any `json:"parameters"`
	Reasoning             string         `json:"reasoning"`
	NeedsClarification    bool           `json:"needsClarification"`
	ClarificationQuestion string         `json:"clarificationQuestion"`
	NeedsTicketForm       bool           `json:"needsTicketForm"`
	TicketReason          string         `json:"ticketReason"`
	SuggestedPriority     string         `json:"suggestedPriority"`
	ResultLimit           any            `json:"resultLimit"`
	ResponseStyle         string         `json:"responseStyle"`
	SortBy                string         `json:"sortBy"`
	SortOrder             string         `json:"sortOrder"`
}

// ParseDecision extracts the first JSON object in reply and completes any
// preference the backend left out from message.
func ParseDecision(reply, message string) (domain.Decision, error) {
	raw := jsonObjectRe.FindString(reply)
	if raw == "" {
		return domain.Decision{}, fmt.Errorf("%w: no JSON object", ErrMalformedDecision)
	}

	var w wireDecision
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return domain.Decision{}, fmt.Errorf("%w: %v", ErrMalformedDecision, err)
	}

	intent := domain.Intent(strings.ToLower(strings.TrimSpace(w.Intent)))
	if intent == "product_search" {
		intent = domain.IntentSearch
	}
	if !intent.Known() {
		return domain.Decision{}, fmt.Errorf("%w: unknown intent %q", ErrMalformedDecision, w.Intent)
	}

	var tool domain.ToolName
	if w.ToolToUse != nil {
		name := strings.TrimSpace(*w.ToolToUse)
		switch strings.ToLower(name) {
		case "", "null", "none":
		default:
			tool = domain.ToolName(name)
			if _, ok := knownTools[tool]; !ok {
				return domain.Decision{}, fmt.Errorf("%w: unknown tool %q", ErrMalformedDecision, name)
			}
		}
	}

	params := make(map[string]string, len(w.Parameters))
	for k, v := range w.Parameters {
		if s := stringify(v); s != "" {
			params[k] = s
		}
	}

	sortBy, sortOrder := Sort(message)
	if f := domain.ParseSortField(w.SortBy); f != "" {
		sortBy = f
		if o := domain.ParseSortOrder(w.SortOrder); o != "" {
			sortOrder = o
		}
	}

	style := parseStyle(w.ResponseStyle)
	if style == "" {
		style = Style(message)
	}

	d := domain.Decision{
		Intent:                intent,
		Tool:                  tool,
		Parameters:            params,
		Reasoning:             w.Reasoning,
		NeedsClarification:    w.NeedsClarification,
		ClarificationQuestion: w.ClarificationQuestion,
		NeedsTicketForm:       w.NeedsTicketForm || intent == domain.IntentSupportTicket,
		TicketReason:          w.TicketReason,
		ResultLimit:           ResultLimit(message, limitValue(w.ResultLimit)),
		ResponseStyle:         style,
		SortBy:                sortBy,
		SortOrder:             sortOrder,
	}
	if d.NeedsTicketForm {
		d.SuggestedPriority = domain.ParseTicketPriority(w.SuggestedPriority)
		if d.TicketReason == "" {
			d.TicketReason = d.Reasoning
		}
	}
	return d, nil
}

func parseStyle(s string) domain.ResponseStyle {
	switch st := domain.ResponseStyle(strings.ToLower(strings.TrimSpace(s))); st {
	case domain.StyleBrief, domain.StyleStandard, domain.StyleDetailed:
		return st
	default:
		return ""
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		if strings.EqualFold(strings.TrimSpace(t), "null") {
			return ""
		}
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func limitValue(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
