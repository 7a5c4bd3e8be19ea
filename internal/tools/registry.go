package tools

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/catalog"
	"github.com/spec-kit/parts-assistant/internal/domain"
)

// Catalog is the read side of the part catalog the tools query.
type Catalog interface {
	LoadAll(ctx context.Context) ([]domain.Part, error)
	FindByPartNumber(ctx context.Context, partNumber string) (domain.Part, bool, error)
	SearchByText(ctx context.Context, query string, opts catalog.SearchOptions) ([]catalog.Match, error)
	SearchBySymptom(ctx context.Context, symptom string, opts catalog.SymptomOptions) ([]catalog.Match, error)
	FindCompatible(ctx context.Context, modelNumber string, opts catalog.CompatibleOptions) ([]domain.Part, error)
	CheckCompatibility(ctx context.Context, partNumber, modelNumber string) (catalog.CompatibilityResult, error)
	SampleByCategory(ctx context.Context, category domain.Category, n int) ([]domain.Part, error)
	FindOrder(ctx context.Context, orderNumber string) (domain.Order, bool, error)
	Orders(ctx context.Context) ([]domain.Order, error)
}

// TicketCreator opens support tickets.
type TicketCreator interface {
	CreateTicket(ctx context.Context, draft domain.TicketDraft) (domain.SupportTicket, error)
}

// Knowledge answers troubleshooting questions the catalog cannot.
type Knowledge interface {
	Troubleshoot(ctx context.Context, symptom string, category domain.Category) Result
}

// Dependencies wires the default tool set.
type Dependencies struct {
	Catalog   Catalog
	Tickets   TicketCreator
	Knowledge Knowledge
	Logger    *zap.Logger
}

// Registry dispatches tool calls by name.
type Registry struct {
	order  []domain.ToolName
	tools  map[domain.ToolName]Tool
	logger *zap.Logger
}

// NewRegistry builds the registry holding the seven domain tools.
func NewRegistry(deps Dependencies) *Registry {
	return NewRegistryWith(deps.Logger,
		NewSearchProducts(deps.Catalog, deps.Logger),
		NewCheckCompatibility(deps.Catalog, deps.Logger),
		NewGetCompatibleParts(deps.Catalog, deps.Logger),
		NewTroubleshootIssue(deps.Catalog, deps.Knowledge, deps.Logger),
		NewGetInstallationHelp(deps.Catalog, deps.Logger),
		NewCheckOrderStatus(deps.Catalog, deps.Logger),
		NewCreateSupportTicket(deps.Tickets, deps.Logger),
	)
}

// NewRegistryWith registers an explicit tool list. Later duplicates replace earlier ones.
func NewRegistryWith(logger *zap.Logger, tools ...Tool) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{tools: make(map[domain.ToolName]Tool, len(tools)), logger: logger}
	for _, t := range tools {
		if _, dup := r.tools[t.Name()]; !dup {
			r.order = append(r.order, t.Name())
		}
		r.tools[t.Name()] = t
	}
	return r
}

// Get returns the tool registered under name.
func (r *Registry) Get(name domain.ToolName) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Schemas lists every tool schema in registration order.
func (r *Registry) Schemas() []Schema {
	out := make([]Schema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Schema())
	}
	return out
}

// Execute runs the named tool. Unknown names produce a failure envelope.
func (r *Registry) Execute(ctx context.Context, name domain.ToolName, params Params) Result {
	t, ok := r.tools[name]
	if !ok {
		r.logger.Warn("unknown tool requested", zap.String("tool", string(name)))
		return Result{
			Success: false,
			Message: fmt.Sprintf("I don't know how to %q yet. I can search parts, check compatibility, help with troubleshooting or installation, track orders and open support tickets.", name),
		}
	}
	r.logger.Debug("executing tool", zap.String("tool", string(name)), zap.Any("params", params))
	return t.Execute(ctx, params)
}
