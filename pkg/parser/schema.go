package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/api-typegen/pkg/document"
	"github.com/blimu-dev/api-typegen/pkg/ir"
)

var primitives = map[string]string{
	"string":  ir.BuiltinString,
	"integer": ir.BuiltinNumber,
	"number":  ir.BuiltinNumber,
	"boolean": ir.BuiltinBoolean,
	"file":    ir.BuiltinFile,
}

// translate converts a schema node into an IR type. ptr locates the node
// for diagnostics.
func (p *parser) translate(n *yaml.Node, ptr string) (ir.Type, error) {
	if ref, ok := document.RefOf(n); ok {
		return p.translateRef(ref)
	}

	if p.active[n] {
		return nil, fmt.Errorf("%w: %s refers to itself", ErrCircularRef, ptr)
	}
	p.active[n] = true
	defer delete(p.active, n)

	typ, nullable := schemaType(n)
	t, err := p.translateValue(n, typ, ptr)
	if err != nil {
		return nil, err
	}
	if nullable {
		return &ir.Union{Members: []ir.Type{t, ir.Builtin(ir.BuiltinNull)}}, nil
	}
	return t, nil
}

func (p *parser) translateRef(ref string) (ir.Type, error) {
	target, err := p.doc.Resolve(ref)
	if err != nil {
		return nil, err
	}
	if p.isDefinitionRef(ref) && p.isShape(target) {
		return ir.Named(p.typeName(document.RefName(ref))), nil
	}

	// Not emitted as a declaration, so the target is inlined.
	if p.inlining[target] {
		return nil, fmt.Errorf("%w: %s", ErrCircularRef, ref)
	}
	p.inlining[target] = true
	defer delete(p.inlining, target)

	t, err := p.translate(target, ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}
	return t, nil
}

func (p *parser) translateValue(n *yaml.Node, typ, ptr string) (ir.Type, error) {
	switch typ {
	case "":
		return p.translateUntyped(n, ptr)
	case "string":
		if enum := document.Get(n, "enum"); enum != nil {
			return enumUnion(enum), nil
		}
		if document.String(n, "format") == "binary" {
			return ir.Builtin(ir.BuiltinFile), nil
		}
		return ir.Builtin(ir.BuiltinString), nil
	case "array":
		items := document.Get(n, "items")
		if items == nil || items.Kind != yaml.MappingNode {
			return &ir.List{Item: ir.Any()}, nil
		}
		item, err := p.translate(items, pointer(ptr, "items"))
		if err != nil {
			return nil, err
		}
		return &ir.List{Item: item}, nil
	case "object":
		return p.translateObject(n, ptr)
	}

	if name, ok := primitives[typ]; ok {
		return ir.Builtin(name), nil
	}
	p.warn(ptr, "unknown schema type %q, using any", typ)
	return ir.Any(), nil
}

func (p *parser) translateObject(n *yaml.Node, ptr string) (ir.Type, error) {
	required := map[string]bool{}
	for _, name := range document.Strings(n, "required") {
		required[name] = true
	}

	rec := &ir.Record{}
	for _, prop := range document.Pairs(document.Get(n, "properties")) {
		t, err := p.translate(prop.Value, pointer(ptr, "properties", prop.Key))
		if err != nil {
			return nil, err
		}
		rec.Fields = append(rec.Fields, ir.Field{
			Name:     prop.Key,
			Type:     t,
			Optional: !required[prop.Key],
		})
	}
	return rec, nil
}

// translateUntyped handles schemas whose kind is given by composition
// keywords, or not at all.
func (p *parser) translateUntyped(n *yaml.Node, ptr string) (ir.Type, error) {
	for _, keyword := range []string{"oneOf", "anyOf"} {
		members := document.Items(document.Get(n, keyword))
		if len(members) == 0 {
			continue
		}
		u := &ir.Union{}
		for i, m := range members {
			t, err := p.translate(m, pointer(ptr, keyword, fmt.Sprint(i)))
			if err != nil {
				return nil, err
			}
			u.Members = append(u.Members, t)
		}
		return u, nil
	}

	if all := document.Items(document.Get(n, "allOf")); len(all) > 0 {
		if len(all) == 1 {
			return p.translate(all[0], pointer(ptr, "allOf", "0"))
		}
		p.warn(ptr, "allOf with %d members is not supported, using any", len(all))
		return ir.Any(), nil
	}

	if !document.IsEmpty(n) && !onlyAnnotations(n) {
		p.warn(ptr, "schema declares no type, using any")
	}
	return ir.Any(), nil
}

// isShape reports whether a definition node translates to a Record or a
// List. It mirrors the dispatch of translate without descending.
func (p *parser) isShape(n *yaml.Node) bool {
	if document.IsRef(n) {
		return false
	}
	typ, nullable := schemaType(n)
	return !nullable && (typ == "object" || typ == "array")
}

// schemaType returns the effective type keyword of a schema and whether
// null is admitted.
func schemaType(n *yaml.Node) (typ string, nullable bool) {
	v := document.Get(n, "type")
	switch {
	case v == nil:
	case v.Kind == yaml.ScalarNode:
		typ = v.Value
	case v.Kind == yaml.SequenceNode:
		for _, item := range document.Items(v) {
			if item.Value == "null" {
				nullable = true
			} else if typ == "" {
				typ = item.Value
			}
		}
	}
	if b, ok := document.Bool(n, "nullable"); ok && b {
		nullable = true
	}
	if typ == "" {
		typ = inferType(n)
	}
	return typ, nullable
}

func inferType(n *yaml.Node) string {
	switch {
	case document.Has(n, "properties"):
		return "object"
	case document.Has(n, "items"):
		return "array"
	case document.Has(n, "enum") && stringEnum(document.Get(n, "enum")):
		return "string"
	}
	return ""
}

func stringEnum(enum *yaml.Node) bool {
	items := document.Items(enum)
	for _, item := range items {
		if item.Kind != yaml.ScalarNode || (item.Tag != "!!str" && item.Tag != "!!null") {
			return false
		}
	}
	return len(items) > 0
}

func enumUnion(enum *yaml.Node) *ir.Union {
	u := &ir.Union{}
	for _, item := range document.Items(enum) {
		if item.Kind != yaml.ScalarNode {
			continue
		}
		if item.Tag == "!!null" {
			u.Members = append(u.Members, ir.Builtin(ir.BuiltinNull))
			continue
		}
		u.Members = append(u.Members, ir.Literal(item.Value))
	}
	return u
}

var annotations = map[string]bool{
	"description": true,
	"title":       true,
	"example":     true,
	"examples":    true,
	"default":     true,
	"deprecated":  true,
	"readOnly":    true,
	"writeOnly":   true,
	"nullable":    true,
}

// onlyAnnotations reports whether a schema carries documentation only,
// which admits any value.
func onlyAnnotations(n *yaml.Node) bool {
	for _, pair := range document.Pairs(n) {
		if !annotations[pair.Key] && !isExtension(pair.Key) {
			return false
		}
	}
	return true
}

func isExtension(key string) bool {
	return len(key) > 2 && key[:2] == "x-"
}
