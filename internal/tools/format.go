package tools

import (
	"fmt"
	"strings"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

const displayedModels = 5

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func joinModels(models []string, max int) string {
	if max <= 0 || len(models) <= max {
		return strings.Join(models, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(models[:max], ", "), len(models)-max)
}

// formatPart renders a part as a Markdown block.
func formatPart(p domain.Part) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** (Part #%s)\n", p.Name, p.PartNumber)
	if p.OnSale() {
		fmt.Fprintf(&sb, "- Price: %s (was %s)\n", money(p.Price), money(*p.OriginalPrice))
	} else {
		fmt.Fprintf(&sb, "- Price: %s\n", money(p.Price))
	}
	fmt.Fprintf(&sb, "- Brand: %s\n", p.Brand)
	fmt.Fprintf(&sb, "- Rating: %.1f/5 (%d reviews)\n", p.Rating, p.ReviewCount)
	fmt.Fprintf(&sb, "- In Stock: %s\n", yesNo(p.InStock))
	fmt.Fprintf(&sb, "- Installation: %s (%s)", p.InstallationDifficulty, p.InstallationTime)
	if len(p.CompatibleModels) > 0 {
		fmt.Fprintf(&sb, "\n- Compatible Models: %s", joinModels(p.CompatibleModels, displayedModels))
	}
	return sb.String()
}

func formatParts(parts []domain.Part) string {
	blocks := make([]string, len(parts))
	for i, p := range parts {
		blocks[i] = formatPart(p)
	}
	return strings.Join(blocks, "\n\n")
}

// bulletPart is the one-line form used in suggestion lists.
func bulletPart(p domain.Part) string {
	return fmt.Sprintf("- **%s** (%s) - %s", p.Name, p.PartNumber, money(p.Price))
}
