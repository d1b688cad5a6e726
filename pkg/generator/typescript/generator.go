package typescript

import (
	"github.com/blimu-dev/api-typegen/pkg/config"
	"github.com/blimu-dev/api-typegen/pkg/ir"
)

type artifact struct {
	name   string
	render func(*ir.Plan) (string, error)
}

var (
	typeArtifacts = []artifact{
		{FileDefinitions, Definitions},
		{FileAPITypes, APITypes},
		{FileAPIMapping, APIMapping},
	}
	bindingArtifacts = []artifact{
		{FileCreateAPI, CreateAPI},
		{FileAPIUtils, func(*ir.Plan) (string, error) { return APIUtils() }},
	}
)

// AxiosGenerator implements the Generator interface for axios bindings
type AxiosGenerator struct{}

// NewAxiosGenerator creates a new axios generator
func NewAxiosGenerator() *AxiosGenerator {
	return &AxiosGenerator{}
}

// GetType returns the generator type identifier
func (g *AxiosGenerator) GetType() string {
	return "axios"
}

// Generate renders the type artifacts and the axios bindings
func (g *AxiosGenerator) Generate(_ config.Target, plan *ir.Plan) (map[string]string, error) {
	return renderAll(plan, typeArtifacts, bindingArtifacts)
}

// TypesGenerator implements the Generator interface for declarations only
type TypesGenerator struct{}

// NewTypesGenerator creates a new types generator
func NewTypesGenerator() *TypesGenerator {
	return &TypesGenerator{}
}

// GetType returns the generator type identifier
func (g *TypesGenerator) GetType() string {
	return "types"
}

// Generate renders the definitions, the operation catalog and the mapping
func (g *TypesGenerator) Generate(_ config.Target, plan *ir.Plan) (map[string]string, error) {
	return renderAll(plan, typeArtifacts)
}

func renderAll(plan *ir.Plan, sets ...[]artifact) (map[string]string, error) {
	files := map[string]string{}
	for _, set := range sets {
		for _, a := range set {
			content, err := a.render(plan)
			if err != nil {
				return nil, err
			}
			files[a.name] = content
		}
	}
	return files, nil
}
