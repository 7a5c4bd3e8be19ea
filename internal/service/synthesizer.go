package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/domain"
	"github.com/spec-kit/parts-assistant/internal/llm"
	"github.com/spec-kit/parts-assistant/internal/tools"
)

const synthesisSystemPrompt = `You are a helpful appliance repair expert for PartSelect specializing in refrigerator and dishwasher parts.

Solve the customer's problem before recommending parts:
1. For troubleshooting, lead with steps the customer can try right now, then mention parts if those steps do not help.
2. For installation, give concrete steps rather than a difficulty rating.
3. For compatibility, give a clear yes or no and explain it.
4. Never list products without saying why they are relevant.
5. If the tool result contains troubleshooting steps, include them.

Write as a friendly expert, not a salesperson. Use Markdown headers, numbered lists and bold for key facts. Show empathy when the customer is frustrated.`

const synthesizedProducts = 3

var styleInstructions = map[domain.ResponseStyle]string{
	domain.StyleBrief:    "Keep the response very short (1-2 sentences). Get straight to the point.",
	domain.StyleDetailed: "Provide a comprehensive response with explanations and helpful context.",
	domain.StyleStandard: "Keep the response balanced: informative but not overly long.",
}

var intentInstructions = map[domain.Intent]string{
	domain.IntentTroubleshooting: "The user has a PROBLEM to solve. Give troubleshooting steps first, then mention parts only if the steps don't work.",
	domain.IntentInstallation:    "The user wants to INSTALL something. Give clear installation steps and tips.",
	domain.IntentCompatibility:   "The user wants to know if something FITS. Give a clear yes or no with an explanation.",
	domain.IntentSearch:          "The user is LOOKING for a product. Help them pick the right one by comparing options.",
}

var templateIntros = map[domain.Intent]string{
	domain.IntentTroubleshooting: "Based on your issue, here are some parts that commonly help:",
	domain.IntentInstallation:    "Here's the part you asked about:",
	domain.IntentCompatibility:   "Here's what I found for your compatibility check:",
	domain.IntentSearch:          "Here are some parts that match your search:",
}

var templateFallbacks = map[domain.Intent]string{
	domain.IntentTroubleshooting: "I'd like to help troubleshoot your issue. Could you tell me more about the problem and your appliance model number?",
	domain.IntentInstallation:    "I can help with installation! Please provide the part number you'd like to install.",
	domain.IntentCompatibility:   "To check compatibility, I need both the part number and your appliance model number. Could you provide those?",
	domain.IntentSearch:          "I'd be happy to help you find parts. What type of part are you looking for, and is it for a refrigerator or dishwasher?",
}

const genericFallback = "I'd be happy to help! Could you provide more details about what you're looking for?"

// Synthesizer turns a decision and tool result into the reply text.
type Synthesizer struct {
	gen    llm.Generator
	logger *zap.Logger
}

// NewSynthesizer builds a synthesizer. A nil gen means templated replies only.
func NewSynthesizer(gen llm.Generator, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{gen: gen, logger: logger}
}

// Synthesize returns the reply and whether the completion backend wrote it.
// result may be nil when no tool ran.
func (s *Synthesizer) Synthesize(ctx context.Context, message string, d domain.Decision, result *tools.Result, products []domain.Part) (string, bool) {
	if s.gen == nil || !s.gen.Available() {
		return templated(d.Intent, result, products), false
	}
	if result != nil && result.Message != "" && d.Intent != domain.IntentTroubleshooting {
		return result.Message, false
	}

	resp, err := s.gen.Generate(ctx, synthesisPrompt(message, d, result, products), synthesisSystemPrompt)
	if err != nil {
		s.logger.Warn("response synthesis failed", zap.String("intent", string(d.Intent)), zap.Error(err))
		return templated(d.Intent, result, products), false
	}
	if text := strings.TrimSpace(resp.Text); text != "" {
		return resp.Text, true
	}
	return templated(d.Intent, result, products), false
}

// templated is the reply used without a completion backend.
func templated(intent domain.Intent, result *tools.Result, products []domain.Part) string {
	if result != nil && result.Message != "" {
		return result.Message
	}

	if len(products) > 0 {
		intro, ok := templateIntros[intent]
		if !ok {
			intro = "Here are some relevant parts:"
		}
		var sb strings.Builder
		sb.WriteString(intro)
		sb.WriteString("\n\n")
		for i, p := range products {
			if i == synthesizedProducts {
				break
			}
			fmt.Fprintf(&sb, "- **%s** (%s) - $%.2f\n", p.Name, p.PartNumber, p.Price)
		}
		sb.WriteString("\nCheck out the details below!")
		return sb.String()
	}

	if fallback, ok := templateFallbacks[intent]; ok {
		return fallback
	}
	return genericFallback
}

func synthesisPrompt(message string, d domain.Decision, result *tools.Result, products []domain.Part) string {
	style := d.ResponseStyle
	if _, ok := styleInstructions[style]; !ok {
		style = domain.StyleStandard
	}
	focus, ok := intentInstructions[d.Intent]
	if !ok {
		focus = "Help the user with their request."
	}
	tool := string(d.Tool)
	if tool == "" {
		tool = "none"
	}
	toolMessage := "No specific tool data available"
	if result != nil && result.Message != "" {
		toolMessage = result.Message
	}

	var summary strings.Builder
	if len(products) == 0 {
		summary.WriteString("No products found in database")
	}
	for i, p := range products {
		if i > 0 {
			summary.WriteString("\n")
		}
		fmt.Fprintf(&summary, "- %s (%s): $%.2f, %s install", p.Name, p.PartNumber, p.Price, p.InstallationDifficulty)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "User asked: %q\n\n", message)
	fmt.Fprintf(&sb, "## CONTEXT\nIntent: %s\n%s\n\n", d.Intent, focus)
	fmt.Fprintf(&sb, "## TOOL INFORMATION\nTool used: %s\n\n", tool)
	fmt.Fprintf(&sb, "## TOOL RESULT (INCLUDE THIS INFORMATION IN YOUR RESPONSE):\n%s\n\n", toolMessage)
	fmt.Fprintf(&sb, "## PRODUCTS FOUND:\n%s\n\n", summary.String())
	fmt.Fprintf(&sb, "## RESPONSE STYLE: %s\n%s\n\n", strings.ToUpper(string(style)), styleInstructions[style])
	sb.WriteString("## INSTRUCTIONS:\n")
	sb.WriteString("1. If the tool result contains troubleshooting steps, include them\n")
	sb.WriteString("2. If the tool result contains an installation guide, summarize the key steps\n")
	sb.WriteString("3. If products were found, explain which symptom each one fixes\n")
	sb.WriteString("4. Be a helpful expert, not a product pusher\n")
	sb.WriteString("5. Use Markdown formatting for readability")
	return sb.String()
}
