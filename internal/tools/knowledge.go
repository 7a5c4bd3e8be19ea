package tools

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/domain"
	"github.com/spec-kit/parts-assistant/internal/llm"
)

const noKnowledgeMessage = "For troubleshooting help, please visit PartSelect.com."

const knowledgeFooter = "\n\n---\n*This advice comes from general appliance repair knowledge. " +
	"For parts specific to your model, enter your model number on [PartSelect.com](https://www.partselect.com).*"

// ExternalKnowledge answers troubleshooting questions through the completion
// backend when the catalog has nothing to offer.
type ExternalKnowledge struct {
	gen    llm.Generator
	logger *zap.Logger
}

// NewExternalKnowledge wraps gen. A nil or unavailable generator yields the
// fixed PartSelect.com guidance.
func NewExternalKnowledge(gen llm.Generator, logger *zap.Logger) *ExternalKnowledge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExternalKnowledge{gen: gen, logger: logger}
}

// Troubleshoot asks the backend for a diagnosis. The result is always marked external.
func (k *ExternalKnowledge) Troubleshoot(ctx context.Context, symptom string, category domain.Category) Result {
	if k.gen == nil || !k.gen.Available() {
		return Result{Success: false, Message: noKnowledgeMessage, IsFromExternalKnowledge: true}
	}

	resp, err := k.gen.Generate(ctx, troubleshootPrompt(symptom, category), "")
	if err == nil && strings.TrimSpace(resp.Text) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		k.logger.Warn("external troubleshooting failed", zap.Error(err))
		appliance := string(category)
		if appliance == "" {
			appliance = "appliance"
		}
		msg := fmt.Sprintf("For troubleshooting help with your %s, please visit [PartSelect.com](https://www.partselect.com) or contact a qualified technician.", appliance)
		return Result{Success: false, Message: msg, IsFromExternalKnowledge: true}
	}
	return Result{
		Success:                 true,
		Message:                 strings.TrimSpace(resp.Text) + knowledgeFooter,
		IsFromExternalKnowledge: true,
	}
}

func troubleshootPrompt(symptom string, category domain.Category) string {
	appliance := string(category)
	if appliance == "" {
		appliance = "refrigerator or dishwasher"
	}
	return fmt.Sprintf(`You are a PartSelect appliance repair expert. A customer has a %s with this problem: %q

Provide troubleshooting help:
1. Problem analysis: what could cause this?
2. Common causes, most likely first
3. Parts that typically fix it
4. Whether a homeowner can fix it or a professional is needed
5. Simple diagnostic steps

Rules:
- Only discuss refrigerators and dishwashers
- Remind them to unplug the appliance before any repair
- Suggest the most common and affordable fixes first
- Recommend a professional immediately for gas or electrical hazards
- Name part types, noting exact part numbers depend on the model

Keep the answer practical and reassuring.`, appliance, symptom)
}
