package generator

import (
	"context"
	"path/filepath"

	"github.com/blimu-dev/api-typegen/pkg/config"
)

// GenerateTypesOptions contains options for the convenience GenerateTypes function
type GenerateTypesOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// Target generates only the named target from config (optional)
	Target string

	// Check reports drift instead of writing files
	Check bool

	// Fallback options when no config file is provided
	Spec        string   // OpenAPI document file or URL
	Type        string   // Target type ("axios" or "types")
	OutDir      string   // Output directory
	IncludeTags []string // Regex patterns for tags to include
	ExcludeTags []string // Regex patterns for tags to exclude
}

// GenerateTypes is a convenience function for generating with minimal configuration
func GenerateTypes(ctx context.Context, opts GenerateTypesOptions) error {
	_, err := NewService().Generate(ctx, GenerateOptions{
		ConfigPath: opts.ConfigPath,
		Target:     opts.Target,
		Check:      opts.Check,
		Fallback: FallbackOptions{
			Spec:        opts.Spec,
			Type:        opts.Type,
			OutDir:      opts.OutDir,
			IncludeTags: opts.IncludeTags,
			ExcludeTags: opts.ExcludeTags,
		},
	})
	return err
}

// GenerateAxiosClient writes all five artifacts of spec into outDir
func GenerateAxiosClient(ctx context.Context, spec, outDir string) error {
	absOutDir, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}
	return GenerateTypes(ctx, GenerateTypesOptions{Spec: spec, Type: "axios", OutDir: absOutDir})
}

// GenerateFromConfig is a convenience function for generating from a config file
func GenerateFromConfig(ctx context.Context, configPath string, onlyTarget ...string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	target := ""
	if len(onlyTarget) > 0 {
		target = onlyTarget[0]
	}

	_, err = NewService().GenerateFromConfig(ctx, cfg, target, false)
	return err
}

// ValidateSpec loads and parses a document, failing on fatal errors only
func ValidateSpec(ctx context.Context, spec string) error {
	_, err := NewService().BuildPlan(ctx, spec)
	return err
}
