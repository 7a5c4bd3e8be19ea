package tools

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/catalog"
	"github.com/spec-kit/parts-assistant/internal/domain"
)

const compatiblePreview = 6

var (
	partNumberParam = ParamSpec{
		Name: "partNumber", Type: "string", Description: "Part number, e.g. PS11752778",
		Required: true, label: "part number", example: "PS11752778",
	}
	modelNumberParam = ParamSpec{
		Name: "modelNumber", Type: "string", Description: "Appliance model number, e.g. WDT780SAEM1",
		Required: true, label: "appliance model number", example: "WDT780SAEM1",
	}
)

// CheckCompatibility implements check_compatibility.
type CheckCompatibility struct {
	base
	catalog Catalog
}

// NewCheckCompatibility constructs the part/model verdict tool.
func NewCheckCompatibility(c Catalog, logger *zap.Logger) *CheckCompatibility {
	schema := Schema{
		Name:        domain.ToolCheckCompatibility,
		Description: "Check whether a specific part fits a specific appliance model.",
		Params:      []ParamSpec{partNumberParam, modelNumberParam},
	}
	return &CheckCompatibility{base: newBase(schema, logger), catalog: c}
}

// Execute returns the compatibility verdict.
func (t *CheckCompatibility) Execute(ctx context.Context, params Params) Result {
	if res, ok := t.checkRequired(params); !ok {
		return res
	}
	partNumber := strings.ToUpper(params.get("partNumber"))
	modelNumber := strings.ToUpper(params.get("modelNumber"))

	verdict, err := t.catalog.CheckCompatibility(ctx, partNumber, modelNumber)
	if err != nil {
		return t.unavailable(err)
	}
	if verdict.Part == nil {
		return t.unknownPart(ctx, partNumber)
	}

	part := verdict.Part
	data := CompatibilityData{
		IsCompatible:     verdict.Compatible,
		Part:             part,
		CompatibleModels: verdict.CompatibleModels,
	}
	if verdict.Compatible {
		return Result{
			Success: true,
			Data:    data,
			Message: fmt.Sprintf("Yes, compatible! Part %s (%s) IS compatible with model %s.\n\n%s",
				part.PartNumber, part.Name, modelNumber, formatPart(*part)),
		}
	}
	return Result{
		Success: true,
		Data:    data,
		Message: fmt.Sprintf("Not compatible. Part %s (%s) is NOT compatible with model %s.\n\n"+
			"This part is compatible with: %s\n\n"+
			"Would you like me to find compatible parts for your %s model?",
			part.PartNumber, part.Name, modelNumber, strings.Join(verdict.CompatibleModels, ", "), modelNumber),
	}
}

func (t *CheckCompatibility) unknownPart(ctx context.Context, partNumber string) Result {
	return Result{Success: false, Message: notFoundPartMessage(ctx, t.base, t.catalog, partNumber, "")}
}

// notFoundPartMessage explains an unknown part number and lists near matches.
func notFoundPartMessage(ctx context.Context, b base, c Catalog, partNumber, tryAsking string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "I couldn't find part number %q in our catalog.\n", partNumber)

	all, err := c.LoadAll(ctx)
	if err != nil {
		b.logger.Warn("loading suggestions failed", zap.Error(err))
	}
	if similar := similarParts(partNumber, all, defaultSuggestions); len(similar) > 0 {
		sb.WriteString("\nDid you mean one of these?\n")
		for _, p := range similar {
			sb.WriteString(bulletPart(p) + "\n")
		}
	}

	sb.WriteString("\nTips:\n")
	sb.WriteString("- PartSelect numbers start with PS followed by 8 digits (for example PS11752778)\n")
	sb.WriteString("- Manufacturer numbers such as W10712395 or WPW10321304 also work\n")
	sb.WriteString("- The number is printed on the old part or on your order confirmation\n")

	if len(all) > 0 {
		n := sampleSize
		if len(all) < n {
			n = len(all)
		}
		numbers := make([]string, n)
		for i := 0; i < n; i++ {
			numbers[i] = all[i].PartNumber
		}
		fmt.Fprintf(&sb, "\nSome part numbers in our catalog: %s", strings.Join(numbers, ", "))
	}
	if tryAsking != "" {
		fmt.Fprintf(&sb, "\n\nTry asking: %q", tryAsking)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// GetCompatibleParts implements get_compatible_parts.
type GetCompatibleParts struct {
	base
	catalog Catalog
}

// NewGetCompatibleParts constructs the parts-for-model tool.
func NewGetCompatibleParts(c Catalog, logger *zap.Logger) *GetCompatibleParts {
	model := modelNumberParam
	model.Description = "Appliance model number"
	schema := Schema{
		Name:        domain.ToolGetCompatibleParts,
		Description: "List the parts that fit an appliance model.",
		Params: append([]ParamSpec{
			model,
			{Name: "limit", Type: "string", Description: "Maximum number of results"},
		}, sortParams...),
	}
	return &GetCompatibleParts{base: newBase(schema, logger), catalog: c}
}

// Execute lists the parts compatible with the model.
func (t *GetCompatibleParts) Execute(ctx context.Context, params Params) Result {
	if res, ok := t.checkRequired(params); !ok {
		return res
	}
	modelNumber := strings.ToUpper(params.get("modelNumber"))
	limit := parseLimit(params.get("limit"), 0)

	parts, err := t.catalog.FindCompatible(ctx, modelNumber, catalog.CompatibleOptions{
		MaxResults: limit,
		SortBy:     domain.ParseSortField(params.get("sortBy")),
		SortOrder:  domain.ParseSortOrder(params.get("sortOrder")),
	})
	if err != nil {
		return t.unavailable(err)
	}
	if len(parts) == 0 {
		return Result{Success: false, Data: []domain.Part{}, Message: unknownModelMessage(modelNumber)}
	}

	total := len(parts)
	shown := parts
	if limit == 0 && len(shown) > compatiblePreview {
		shown = shown[:compatiblePreview]
	}
	msg := fmt.Sprintf("Found %d compatible parts for model %s:\n\n%s", total, modelNumber, formatParts(shown))
	if len(shown) < total {
		msg += fmt.Sprintf("\n\nShowing %d of %d. Ask for \"all parts\" to see the full list.", len(shown), total)
	}
	return Result{Success: true, Data: shown, Message: msg}
}

func unknownModelMessage(modelNumber string) string {
	return fmt.Sprintf(`I couldn't find any parts for model %q in our catalog.

Where to find your model number:
- Refrigerator: on a label inside the fresh food section, usually on a side wall or behind the crisper drawer
- Dishwasher: on a sticker along the edge of the door or the tub opening
- Some models also list it on the back of the unit

Example model numbers:
- Whirlpool: WRS325SDHZ, WDT780SAEM1
- KitchenAid: KDTM354ESS, KRSC503ESS
- Maytag: MFI2570FEZ

Double-check the number, or describe the part you need and I'll search for it.`, modelNumber)
}
