package tools

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

// GetInstallationHelp implements get_installation_help.
type GetInstallationHelp struct {
	base
	catalog Catalog
}

// NewGetInstallationHelp constructs the installation guide tool.
func NewGetInstallationHelp(c Catalog, logger *zap.Logger) *GetInstallationHelp {
	part := partNumberParam
	part.Description = "The part number to get installation help for"
	schema := Schema{
		Name:        domain.ToolGetInstallationHelp,
		Description: "Explain how to install a specific part.",
		Params:      []ParamSpec{part},
	}
	return &GetInstallationHelp{base: newBase(schema, logger), catalog: c}
}

// Execute renders the installation guide for the part.
func (t *GetInstallationHelp) Execute(ctx context.Context, params Params) Result {
	if res, ok := t.checkRequired(params); !ok {
		return res
	}
	partNumber := strings.ToUpper(params.get("partNumber"))

	part, ok, err := t.catalog.FindByPartNumber(ctx, partNumber)
	if err != nil {
		return t.unavailable(err)
	}
	if !ok {
		return t.notFound(ctx, partNumber)
	}
	return Result{Success: true, Data: part, Message: installationGuide(part)}
}

func (t *GetInstallationHelp) notFound(ctx context.Context, partNumber string) Result {
	var sb strings.Builder
	sb.WriteString(notFoundPartMessage(ctx, t.base, t.catalog, partNumber, ""))

	samples, err := t.catalog.SampleByCategory(ctx, "", sampleSize)
	if err != nil {
		t.logger.Warn("loading samples failed", zap.Error(err))
	}
	if len(samples) > 0 {
		sb.WriteString("\n\nParts with installation guides:\n")
		for _, p := range samples {
			fmt.Fprintf(&sb, "- **%s** - %s (%s)\n", p.PartNumber, p.Name, p.InstallationDifficulty)
		}
		fmt.Fprintf(&sb, "\nTry asking: \"How do I install part %s?\"", samples[0].PartNumber)
	}
	return Result{Success: false, Message: strings.TrimRight(sb.String(), "\n")}
}

func installationGuide(p domain.Part) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Installation Guide for %s\n\n", p.Name)
	fmt.Fprintf(&sb, "**Part Number:** %s\n", p.PartNumber)
	fmt.Fprintf(&sb, "**Difficulty Level:** %s\n", p.InstallationDifficulty)
	fmt.Fprintf(&sb, "**Estimated Time:** %s\n\n", p.InstallationTime)

	sb.WriteString("### Before You Begin\n")
	sb.WriteString("1. **Safety first:** unplug the appliance or switch off the circuit breaker\n")
	sb.WriteString("2. **Gather tools:** usually a Phillips screwdriver, a flat-head screwdriver and pliers\n")
	sb.WriteString("3. **Take photos:** record wire connections and part positions before removal\n\n")

	sb.WriteString("### General Installation Steps\n")
	steps := []string{
		fmt.Sprintf("Locate the existing part in your %s", p.Category),
		"Disconnect any electrical connections, noting wire colors and positions",
		"Remove mounting screws or clips",
		"Carefully remove the old part",
		"Fit the new part in reverse order",
		"Reconnect every wire to its original position",
		"Secure the part with its mounting hardware",
		"Restore power and test operation",
	}
	for i, s := range steps {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, s)
	}

	fmt.Fprintf(&sb, "\n### Compatible Models\nThis part fits: %s\n\n", strings.Join(p.CompatibleModels, ", "))

	sb.WriteString("### Need More Help?\n")
	if p.VideoURL != "" {
		fmt.Fprintf(&sb, "- Watch the installation video: %s\n", p.VideoURL)
	} else {
		fmt.Fprintf(&sb, "- Search YouTube for \"%s installation\"\n", p.PartNumber)
	}
	sb.WriteString("- Visit PartSelect.com for detailed repair guides\n")
	sb.WriteString("- Consider a professional for difficult installations\n\n")

	sb.WriteString("**Safety Note:** if you're uncomfortable with any step, please consult a qualified appliance repair technician.")
	return sb.String()
}
