// Package apitypegen generates TypeScript API types and an axios binding
// layer from OpenAPI 3 and Swagger 2 documents.
//
// Quick Start:
//
//	import "github.com/blimu-dev/api-typegen"
//
//	err := apitypegen.GenerateAxiosClient(ctx, "./openapi.yaml", "./src/api")
//
// For more control, see the generator package.
package apitypegen

import (
	"context"

	"github.com/blimu-dev/api-typegen/pkg/generator"
)

// GenerateAxiosClient writes definitions.ts, api-types.ts, api-mapping.ts,
// create-api.ts and api-utils.ts for spec into outDir.
//
// Example:
//
//	err := apitypegen.GenerateAxiosClient(ctx, "https://petstore3.swagger.io/api/v3/openapi.json", "./src/api")
func GenerateAxiosClient(ctx context.Context, spec, outDir string) error {
	return generator.GenerateAxiosClient(ctx, spec, outDir)
}

// Generate runs a generation with full configuration options.
//
// Example:
//
//	err := apitypegen.Generate(ctx, apitypegen.Options{
//		Spec:        "./openapi.yaml",
//		Type:        "types",
//		OutDir:      "./src/api",
//		IncludeTags: []string{"^pet$"},
//	})
func Generate(ctx context.Context, opts Options) error {
	return generator.GenerateTypes(ctx, generator.GenerateTypesOptions(opts))
}

// GenerateFromConfig generates the targets of an apitypegen.yaml file.
// Optionally, a single target name restricts the run to that target.
func GenerateFromConfig(ctx context.Context, configPath string, onlyTarget ...string) error {
	return generator.GenerateFromConfig(ctx, configPath, onlyTarget...)
}

// ValidateSpec reports whether a document can be turned into a generation
// plan.
func ValidateSpec(ctx context.Context, spec string) error {
	return generator.ValidateSpec(ctx, spec)
}

// Options contains options for Generate
type Options struct {
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
