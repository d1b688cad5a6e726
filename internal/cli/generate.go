// Package cli implements the commands of the apitypegen binary.
package cli

import (
	"context"
	"log/slog"

	"github.com/blimu-dev/api-typegen/pkg/generator"
)

// FallbackParams describes a single target when no config file is given
type FallbackParams struct {
	Spec        string
	Type        string
	OutDir      string
	IncludeTags []string
	ExcludeTags []string
}

// RunGenerateParams contains the flags of the generate command
type RunGenerateParams struct {
	ConfigPath string
	Target     string
	Check      bool
	Fallback   FallbackParams
}

// RunGenerate renders and writes the selected targets.
func RunGenerate(ctx context.Context, logger *slog.Logger, p RunGenerateParams) error {
	_, err := generator.NewService().WithLogger(logger).Generate(ctx, generator.GenerateOptions{
		ConfigPath: p.ConfigPath,
		Target:     p.Target,
		Check:      p.Check,
		Fallback: generator.FallbackOptions{
			Spec:        p.Fallback.Spec,
			Type:        p.Fallback.Type,
			OutDir:      p.Fallback.OutDir,
			IncludeTags: p.Fallback.IncludeTags,
			ExcludeTags: p.Fallback.ExcludeTags,
		},
	})
	return err
}
