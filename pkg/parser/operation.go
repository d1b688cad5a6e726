package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/api-typegen/pkg/document"
	"github.com/blimu-dev/api-typegen/pkg/ir"
)

// verbs lists the operation keys of a path item in emission order.
var verbs = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// operations builds one entry per path and verb, in document order.
func (p *parser) operations() ([]*ir.Operation, error) {
	var out []*ir.Operation
	seen := map[string]bool{}

	for _, path := range document.Pairs(document.Get(p.doc.Root(), "paths")) {
		if isExtension(path.Key) {
			continue
		}
		item, err := p.doc.ResolveIfRef(path.Value)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", path.Key, err)
		}
		pathPtr := pointer("#/paths", path.Key)

		for _, verb := range verbs {
			node := document.Get(item, verb)
			if node == nil {
				continue
			}
			op, err := p.operation(path.Key, verb, item, node, pathPtr)
			if err != nil {
				return nil, err
			}
			if seen[op.ID] {
				return nil, fmt.Errorf("%w: operation id for %q is duplicated", ErrDuplicateOperationID, path.Key+" "+verb)
			}
			seen[op.ID] = true
			out = append(out, op)
		}
	}
	return out, nil
}

func (p *parser) operation(path, verb string, item, node *yaml.Node, pathPtr string) (*ir.Operation, error) {
	ptr := pointer(pathPtr, verb)
	id := strings.TrimSpace(document.String(node, "operationId"))
	if id == "" {
		return nil, fmt.Errorf("%w: operation id for %q is missing", ErrMissingOperationID, path+" "+verb)
	}

	groups, err := p.parameterGroups(item, node, pathPtr, ptr)
	if err != nil {
		return nil, fmt.Errorf("operation %s: %w", id, err)
	}
	responses, err := p.responses(node, pointer(ptr, "responses"))
	if err != nil {
		return nil, fmt.Errorf("operation %s: %w", id, err)
	}

	tags := document.Strings(node, "tags")
	if tags == nil {
		tags = []string{}
	}

	op := &ir.Operation{
		ID:         id,
		Summary:    document.String(node, "summary"),
		Tags:       tags,
		URL:        path,
		Method:     verb,
		Parameters: &ir.Record{},
		Responses:  responses,
	}
	for _, g := range groups {
		op.ParameterGroups = append(op.ParameterGroups, g.ParameterGroup)
		op.Parameters.Fields = append(op.Parameters.Fields, ir.Field{
			Name: string(g.Location),
			Type: g.typ(),
		})
	}
	return op, nil
}
