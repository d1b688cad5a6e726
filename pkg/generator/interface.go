package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/blimu-dev/api-typegen/internal/writer"
	"github.com/blimu-dev/api-typegen/pkg/config"
	"github.com/blimu-dev/api-typegen/pkg/generator/typescript"
	"github.com/blimu-dev/api-typegen/pkg/ir"
	"github.com/blimu-dev/api-typegen/pkg/openapi"
	"github.com/blimu-dev/api-typegen/pkg/parser"
)

// Generator defines the interface for artifact generators
type Generator interface {
	// Generate renders the artifacts of a target, keyed by file name
	// relative to the output directory
	Generate(target config.Target, plan *ir.Plan) (map[string]string, error)
	// GetType returns the type identifier for this generator (e.g., "axios")
	GetType() string
}

// Registry manages available generators
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator to the registry
func (r *Registry) Register(gen Generator) {
	r.generators[gen.GetType()] = gen
}

// Get retrieves a generator by type
func (r *Registry) Get(genType string) (Generator, bool) {
	gen, exists := r.generators[genType]
	return gen, exists
}

// GetAvailableTypes returns all registered generator types, sorted
func (r *Registry) GetAvailableTypes() []string {
	types := make([]string, 0, len(r.generators))
	for t := range r.generators {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// GenerateOptions contains options for generation
type GenerateOptions struct {
	ConfigPath string
	// Target generates only the named target from config (optional)
	Target string
	// Check reports drift instead of writing files
	Check    bool
	Fallback FallbackOptions
}

// FallbackOptions contains fallback options when no config file is provided
type FallbackOptions struct {
	Spec        string
	Type        string
	OutDir      string
	IncludeTags []string
	ExcludeTags []string
}

// TargetResult reports what a generation run did for one target
type TargetResult struct {
	Target string
	writer.Result
}

// Service provides high-level generation functionality
type Service struct {
	registry *Registry
	logger   *slog.Logger
}

// NewService creates a new generator service with default generators
func NewService() *Service {
	registry := NewRegistry()
	registry.Register(typescript.NewAxiosGenerator())
	registry.Register(typescript.NewTypesGenerator())
	return NewServiceWithRegistry(registry)
}

// NewServiceWithRegistry creates a new generator service with a custom registry
func NewServiceWithRegistry(registry *Registry) *Service {
	return &Service{
		registry: registry,
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger used for diagnostics and progress
func (s *Service) WithLogger(logger *slog.Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// GetRegistry returns the generator registry
func (s *Service) GetRegistry() *Registry {
	return s.registry
}

// Generate generates targets based on the provided options
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) ([]TargetResult, error) {
	var cfg *config.Config
	var err error

	if opts.ConfigPath == "" {
		if opts.Fallback.Spec == "" || opts.Fallback.OutDir == "" {
			return nil, errors.New("either config path or input and output directory must be provided")
		}
		cfg = &config.Config{
			Spec: opts.Fallback.Spec,
			Targets: []config.Target{
				{
					Type:        opts.Fallback.Type,
					OutDir:      opts.Fallback.OutDir,
					IncludeTags: opts.Fallback.IncludeTags,
					ExcludeTags: opts.Fallback.ExcludeTags,
				},
			},
		}
		if err := cfg.Normalize(); err != nil {
			return nil, err
		}
	} else {
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
	}

	return s.GenerateFromConfig(ctx, cfg, opts.Target, opts.Check)
}

// BuildPlan loads the document at spec and parses it into a Generation Plan.
// Diagnostics are logged at warn level and kept on the plan.
func (s *Service) BuildPlan(ctx context.Context, spec string) (*ir.Plan, error) {
	doc, err := openapi.LoadDocument(ctx, spec)
	if err != nil {
		return nil, err
	}
	plan, err := parser.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", spec, err)
	}
	for _, d := range plan.Diagnostics {
		s.logger.Warn("schema degraded", "pointer", d.Pointer, "message", d.Message)
	}
	s.logger.Debug("plan built", "spec", spec, "definitions", len(plan.Definitions), "operations", len(plan.API))
	return plan, nil
}

// Render filters the plan for target and renders its artifacts in memory
func (s *Service) Render(target config.Target, plan *ir.Plan) (map[string]string, error) {
	gen, exists := s.registry.Get(target.Type)
	if !exists {
		return nil, fmt.Errorf("unsupported target type: %s (available: %s)", target.Type, strings.Join(s.registry.GetAvailableTypes(), ", "))
	}
	filtered, err := FilterPlan(plan, target)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", target.Name, err)
	}
	files, err := gen.Generate(target, filtered)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", target.Name, err)
	}
	return files, nil
}

// GenerateFromConfig renders every selected target and writes them. All
// targets are rendered before anything is written.
func (s *Service) GenerateFromConfig(ctx context.Context, cfg *config.Config, onlyTarget string, check bool) ([]TargetResult, error) {
	targets := cfg.Targets
	if onlyTarget != "" {
		t, ok := cfg.Target(onlyTarget)
		if !ok {
			return nil, fmt.Errorf("unknown target: %s", onlyTarget)
		}
		targets = []config.Target{t}
	}

	plan, err := s.BuildPlan(ctx, cfg.Spec)
	if err != nil {
		return nil, err
	}

	rendered := make([]map[string]string, len(targets))
	for i, target := range targets {
		if rendered[i], err = s.Render(target, plan); err != nil {
			return nil, err
		}
	}

	var (
		results []TargetResult
		drift   []error
	)
	for i, target := range targets {
		if !check {
			if err := os.MkdirAll(target.OutDir, 0o755); err != nil {
				return results, fmt.Errorf("failed to create output directory for target %s: %w", target.Name, err)
			}
			if err := s.executeCommand(ctx, target.PreCommand, target.OutDir, "pre-command"); err != nil {
				return results, fmt.Errorf("pre-generation commands failed for target %s: %w", target.Name, err)
			}
		}

		res, err := writer.WriteAll(ctx, target.OutDir, rendered[i], writer.Options{
			Check: check,
			Skip:  target.ShouldExcludeFile,
		})
		switch {
		case errors.Is(err, writer.ErrDrift):
			drift = append(drift, fmt.Errorf("target %s: %w", target.Name, err))
			for _, path := range res.Drifted {
				s.logger.Warn("file out of date", "target", target.Name, "path", path)
			}
		case err != nil:
			return results, fmt.Errorf("target %s: %w", target.Name, err)
		}
		results = append(results, TargetResult{Target: target.Name, Result: *res})
		s.logger.Info("target generated",
			"target", target.Name,
			"type", target.Type,
			"written", len(res.Written),
			"unchanged", len(res.Unchanged),
			"skipped", len(res.Skipped),
		)

		if !check {
			if err := s.executeCommand(ctx, target.PostCommand, target.OutDir, "post-command"); err != nil {
				return results, fmt.Errorf("post-generation commands failed for target %s: %w", target.Name, err)
			}
		}
	}

	return results, errors.Join(drift...)
}

// executeCommand executes a single command in Docker Compose array format
func (s *Service) executeCommand(ctx context.Context, command []string, workDir, commandLabel string) error {
	if len(command) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	cmdDescription := strings.Join(command, " ")
	s.logger.Debug("running command", "label", commandLabel, "command", cmdDescription, "dir", workDir)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s (%s) failed: %w", commandLabel, cmdDescription, err)
	}

	return nil
}
