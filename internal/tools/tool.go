// Package tools implements the named operations the decision engines dispatch
// to. Every tool returns a Result envelope; failures are reported through the
// envelope and never as Go errors.
package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

// Params are the raw string arguments carried by a decision.
type Params map[string]string

func (p Params) get(name string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p[name])
}

// ParamSpec declares one tool argument.
type ParamSpec struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Required    bool     `json:"required,omitempty"`
	Enum        []string `json:"enum,omitempty"`

	label   string
	example string
}

// Schema is the declared contract of a tool.
type Schema struct {
	Name        domain.ToolName `json:"name"`
	Description string          `json:"description"`
	Params      []ParamSpec     `json:"parameters"`
}

// Required lists the names of the mandatory parameters.
func (s Schema) Required() []string {
	var out []string
	for _, p := range s.Params {
		if p.Required {
			out = append(out, p.Name)
		}
	}
	return out
}

func (s Schema) missing(params Params) []ParamSpec {
	var out []ParamSpec
	for _, p := range s.Params {
		if p.Required && params.get(p.Name) == "" {
			out = append(out, p)
		}
	}
	return out
}

// Result is the uniform tool envelope.
type Result struct {
	Success                 bool   `json:"success"`
	Data                    any    `json:"data"`
	Message                 string `json:"message"`
	IsFromExternalKnowledge bool   `json:"isFromExternalKnowledge"`
}

// CompatibilityData is the payload of a compatibility verdict.
type CompatibilityData struct {
	IsCompatible     bool         `json:"isCompatible"`
	Part             *domain.Part `json:"part"`
	CompatibleModels []string     `json:"compatibleModels"`
}

// Products returns the parts carried by the result, if any.
func (r Result) Products() []domain.Part {
	switch d := r.Data.(type) {
	case []domain.Part:
		return d
	case domain.Part:
		return []domain.Part{d}
	case *domain.Part:
		if d != nil {
			return []domain.Part{*d}
		}
	case CompatibilityData:
		if d.Part != nil {
			return []domain.Part{*d.Part}
		}
	}
	return nil
}

// Tool is a named, schema-declared operation.
type Tool interface {
	Name() domain.ToolName
	Description() string
	Schema() Schema
	Execute(ctx context.Context, params Params) Result
}

// base carries the schema and logger shared by every tool implementation.
type base struct {
	schema Schema
	logger *zap.Logger
}

func newBase(schema Schema, logger *zap.Logger) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{schema: schema, logger: logger.With(zap.String("tool", string(schema.Name)))}
}

func (b base) Name() domain.ToolName { return b.schema.Name }
func (b base) Description() string   { return b.schema.Description }
func (b base) Schema() Schema        { return b.schema }

// checkRequired returns a failure envelope naming every missing required field.
func (b base) checkRequired(params Params) (Result, bool) {
	missing := b.schema.missing(params)
	if len(missing) == 0 {
		return Result{}, true
	}
	var sb strings.Builder
	sb.WriteString("I need a bit more information to continue. Please provide:\n")
	for _, p := range missing {
		label := p.label
		if label == "" {
			label = p.Name
		}
		if p.example != "" {
			fmt.Fprintf(&sb, "- your %s (for example %s)\n", label, p.example)
		} else {
			fmt.Fprintf(&sb, "- your %s\n", label)
		}
	}
	return Result{Success: false, Message: strings.TrimRight(sb.String(), "\n")}, false
}

// unavailable downgrades an internal failure to an envelope.
func (b base) unavailable(err error) Result {
	b.logger.Error("tool failed", zap.Error(err))
	return Result{
		Success: false,
		Message: "Our parts catalog is temporarily unavailable. Please try again in a moment.",
	}
}

func parseLimit(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	if n > domain.MaxResultLimit {
		return domain.MaxResultLimit
	}
	return n
}
