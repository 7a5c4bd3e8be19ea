package tools

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/catalog"
	"github.com/spec-kit/parts-assistant/internal/domain"
)

const sampleSize = 5

var categoryEnum = []string{string(domain.CategoryRefrigerator), string(domain.CategoryDishwasher)}

var sortParams = []ParamSpec{
	{Name: "sortBy", Type: "string", Description: "Sort field", Enum: []string{"relevance", "price", "rating", "reviews"}},
	{Name: "sortOrder", Type: "string", Description: "Sort direction", Enum: []string{"asc", "desc"}},
}

// SearchProducts implements search_products.
type SearchProducts struct {
	base
	catalog Catalog
}

// NewSearchProducts constructs the text search tool.
func NewSearchProducts(c Catalog, logger *zap.Logger) *SearchProducts {
	schema := Schema{
		Name:        domain.ToolSearchProducts,
		Description: "Search refrigerator and dishwasher parts by keyword, part name or description.",
		Params: append([]ParamSpec{
			{Name: "query", Type: "string", Description: "What to search for", Required: true, label: "search terms", example: "ice maker"},
			{Name: "category", Type: "string", Description: "Appliance category", Enum: categoryEnum},
			{Name: "limit", Type: "string", Description: "Maximum number of results"},
		}, sortParams...),
	}
	return &SearchProducts{base: newBase(schema, logger), catalog: c}
}

type searchParams struct {
	query     string
	category  domain.Category
	limit     int
	sortBy    domain.SortField
	sortOrder domain.SortOrder
}

func parseSearchParams(p Params) searchParams {
	return searchParams{
		query:     p.get("query"),
		category:  domain.ParseCategory(p.get("category")),
		limit:     parseLimit(p.get("limit"), catalog.DefaultMaxResults),
		sortBy:    domain.ParseSortField(p.get("sortBy")),
		sortOrder: domain.ParseSortOrder(p.get("sortOrder")),
	}
}

// Execute runs the search.
func (t *SearchProducts) Execute(ctx context.Context, params Params) Result {
	if res, ok := t.checkRequired(params); !ok {
		return res
	}
	in := parseSearchParams(params)

	matches, err := t.catalog.SearchByText(ctx, in.query, catalog.SearchOptions{
		Category:   in.category,
		MaxResults: in.limit,
		SortBy:     in.sortBy,
		SortOrder:  in.sortOrder,
	})
	if err != nil {
		return t.unavailable(err)
	}
	if len(matches) == 0 {
		return t.noResults(ctx, in)
	}

	parts := catalog.Parts(matches)
	return Result{
		Success: true,
		Data:    parts,
		Message: fmt.Sprintf("Found %d parts matching %q:\n\n%s", len(parts), in.query, formatParts(parts)),
	}
}

func (t *SearchProducts) noResults(ctx context.Context, in searchParams) Result {
	var sb strings.Builder
	fmt.Fprintf(&sb, "No parts found matching %q", in.query)
	if in.category != "" {
		fmt.Fprintf(&sb, " in %s parts", in.category)
	}
	sb.WriteString(".\n")

	samples, err := t.catalog.SampleByCategory(ctx, in.category, sampleSize)
	if err != nil {
		return t.unavailable(err)
	}
	if len(samples) > 0 {
		label := "Popular"
		if in.category != "" {
			label = "Available " + string(in.category)
		}
		fmt.Fprintf(&sb, "\n%s parts:\n", label)
		for _, p := range samples {
			sb.WriteString(bulletPart(p) + "\n")
		}
	}
	sb.WriteString("\nTry:\n")
	sb.WriteString("- Using a simpler term such as \"water filter\" or \"door shelf\"\n")
	sb.WriteString("- Searching by part number (for example PS11752778)\n")
	sb.WriteString("- Giving me your model number so I can list compatible parts")

	return Result{Success: false, Data: []domain.Part{}, Message: sb.String()}
}
