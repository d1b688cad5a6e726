package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/api-typegen/pkg/generator"
	"github.com/blimu-dev/api-typegen/pkg/generator/typescript"
	"github.com/blimu-dev/api-typegen/pkg/ir"
)

// PlanView is the printable form of a Generation Plan. Types are shown as
// the TypeScript they render to.
type PlanView struct {
	BaseURL     string           `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
	Definitions []DefinitionView `json:"definitions" yaml:"definitions"`
	Operations  []OperationView  `json:"operations" yaml:"operations"`
	Diagnostics []string         `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// DefinitionView is one shared shape and its rendered type
type DefinitionView struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// OperationView is one operation with its parameters and responses rendered
type OperationView struct {
	ID         string       `json:"id" yaml:"id"`
	Method     string       `json:"method" yaml:"method"`
	URL        string       `json:"url" yaml:"url"`
	Tags       []string     `json:"tags" yaml:"tags"`
	Parameters string       `json:"parameters" yaml:"parameters"`
	Success    string       `json:"success" yaml:"success"`
	Error      string       `json:"error" yaml:"error"`
	Statuses   []StatusView `json:"statuses,omitempty" yaml:"statuses,omitempty"`
}

// StatusView is the payload declared for one status code
type StatusView struct {
	Code    string `json:"code" yaml:"code"`
	Payload string `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// NewPlanView converts plan into its printable form.
func NewPlanView(plan *ir.Plan) PlanView {
	view := PlanView{
		BaseURL:     plan.Meta.BaseURL,
		Definitions: make([]DefinitionView, 0, len(plan.Definitions)),
		Operations:  make([]OperationView, 0, len(plan.API)),
	}
	for _, name := range plan.DefinitionNames() {
		view.Definitions = append(view.Definitions, DefinitionView{Name: name, Type: typescript.TypeString(plan.Definitions[name])})
	}
	for _, op := range plan.API {
		ov := OperationView{
			ID:         op.ID,
			Method:     op.Method,
			URL:        op.URL,
			Tags:       op.Tags,
			Parameters: typescript.TypeString(op.Parameters),
			Success:    typescript.TypeString(op.Responses.Success),
			Error:      typescript.TypeString(op.Responses.Error),
		}
		for _, s := range op.Responses.ByStatusCode {
			sv := StatusView{Code: s.StatusCode}
			if s.Payload != nil {
				sv.Payload = typescript.TypeString(s.Payload)
			}
			ov.Statuses = append(ov.Statuses, sv)
		}
		view.Operations = append(view.Operations, ov)
	}
	for _, d := range plan.Diagnostics {
		view.Diagnostics = append(view.Diagnostics, d.String())
	}
	return view
}

// RunPlanParams contains the flags of the plan command
type RunPlanParams struct {
	Spec   string
	Format string
}

// RunPlan builds the plan for a document and prints it to w.
func RunPlan(ctx context.Context, logger *slog.Logger, w io.Writer, p RunPlanParams) error {
	if p.Spec == "" {
		return fmt.Errorf("input is required")
	}
	plan, err := generator.NewService().WithLogger(logger).BuildPlan(ctx, p.Spec)
	if err != nil {
		return err
	}
	return WritePlan(w, plan, p.Format)
}

// WritePlan encodes plan to w as yaml (the default) or json.
func WritePlan(w io.Writer, plan *ir.Plan, format string) error {
	view := NewPlanView(plan)
	switch format {
	case "", "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (available: yaml, json)", format)
	}
}
