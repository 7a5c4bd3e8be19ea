package tools

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/catalog"
	"github.com/spec-kit/parts-assistant/internal/domain"
)

const defaultTroubleshootLimit = 3

// TroubleshootIssue implements troubleshoot_issue.
type TroubleshootIssue struct {
	base
	catalog   Catalog
	knowledge Knowledge
}

// NewTroubleshootIssue constructs the diagnosis tool. knowledge may be nil.
func NewTroubleshootIssue(c Catalog, knowledge Knowledge, logger *zap.Logger) *TroubleshootIssue {
	schema := Schema{
		Name:        domain.ToolTroubleshootIssue,
		Description: "Diagnose an appliance problem and recommend parts that commonly fix it.",
		Params: []ParamSpec{
			{Name: "symptom", Type: "string", Description: "The problem the user sees, e.g. 'ice maker not working'", Required: true, label: "symptom", example: "ice maker not working"},
			{Name: "applianceType", Type: "string", Description: "Appliance with the problem", Enum: categoryEnum},
			{Name: "limit", Type: "string", Description: "Maximum number of parts"},
		},
	}
	return &TroubleshootIssue{base: newBase(schema, logger), catalog: c, knowledge: knowledge}
}

// Execute combines the curated guide with symptom-matched parts.
func (t *TroubleshootIssue) Execute(ctx context.Context, params Params) Result {
	if res, ok := t.checkRequired(params); !ok {
		return res
	}
	symptom := params.get("symptom")
	category := domain.ParseCategory(params.get("applianceType"))
	limit := parseLimit(params.get("limit"), defaultTroubleshootLimit)

	matches, err := t.catalog.SearchBySymptom(ctx, symptom, catalog.SymptomOptions{Category: category, MaxResults: limit})
	if err != nil {
		return t.unavailable(err)
	}
	g, hasGuide := findGuide(symptom)

	if len(matches) == 0 && !hasGuide {
		return t.external(ctx, symptom, category)
	}

	parts := catalog.Parts(matches)
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Troubleshooting: %s\n", symptom)

	if hasGuide {
		sb.WriteString("\n### Try These Steps First\n")
		for i, step := range g.steps {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
		}
		sb.WriteString("\n### Common Causes\n")
		for _, c := range g.causes {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
		if len(parts) == 0 {
			fmt.Fprintf(&sb, "\nParts worth checking: %s\n", strings.Join(g.partsToCheck, ", "))
		}
	}

	if len(parts) > 0 {
		sb.WriteString("\n### If Steps Don't Help - These Parts Often Fix This Issue\n\n")
		blocks := make([]string, len(parts))
		for i, p := range parts {
			block := formatPart(p)
			if len(p.Symptoms) > 0 {
				n := len(p.Symptoms)
				if n > 3 {
					n = 3
				}
				block += "\n- Fixes symptoms: " + strings.Join(p.Symptoms[:n], ", ")
			}
			blocks[i] = block
		}
		sb.WriteString(strings.Join(blocks, "\n\n"))
		sb.WriteString("\n")
	}

	sb.WriteString("\n### Safety Reminders\n")
	sb.WriteString("- Always unplug the appliance before any repair\n")
	sb.WriteString("- Photograph wire connections before disconnecting them\n")
	sb.WriteString("- If you are unsure about a step, consult a qualified technician")

	if parts == nil {
		parts = []domain.Part{}
	}
	return Result{Success: true, Data: parts, Message: sb.String()}
}

func (t *TroubleshootIssue) external(ctx context.Context, symptom string, category domain.Category) Result {
	if t.knowledge == nil {
		return Result{
			Success:                 false,
			Data:                    []domain.Part{},
			Message:                 noKnowledgeMessage,
			IsFromExternalKnowledge: true,
		}
	}
	res := t.knowledge.Troubleshoot(ctx, symptom, category)
	res.IsFromExternalKnowledge = true
	if res.Data == nil {
		res.Data = []domain.Part{}
	}
	return res
}
