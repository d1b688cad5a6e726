// Package parser turns an API description document into a Generation Plan.
//
// Parsing is a pure function of the document: it performs no I/O and
// reports non-fatal findings as diagnostics on the returned plan. Any
// structural fault aborts the whole run and no plan is returned.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-openapi/jsonpointer"
	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/api-typegen/pkg/document"
	"github.com/blimu-dev/api-typegen/pkg/ir"
	"github.com/blimu-dev/api-typegen/pkg/naming"
)

var (
	// ErrMissingOperationID is returned when an operation has no identifier.
	ErrMissingOperationID = errors.New("missing operation id")
	// ErrDuplicateOperationID is returned when two operations share an identifier.
	ErrDuplicateOperationID = errors.New("duplicate operation id")
	// ErrCircularRef is returned when inlining a reference leads back to itself.
	ErrCircularRef = errors.New("circular reference")
)

type parser struct {
	doc *document.Document
	// defsPointer is the pointer of the shared definitions section.
	defsPointer string
	defs        *yaml.Node
	// names maps declared definition names to emitted type names.
	names map[string]string
	// inlining guards against reference chains that loop.
	inlining map[*yaml.Node]bool
	// active holds the schema nodes on the current translation path.
	active map[*yaml.Node]bool
	diags    []ir.Diagnostic
}

// Parse builds the Generation Plan for doc.
func Parse(doc *document.Document) (*ir.Plan, error) {
	p, err := newParser(doc)
	if err != nil {
		return nil, err
	}

	defs, err := p.definitions()
	if err != nil {
		return nil, err
	}
	api, err := p.operations()
	if err != nil {
		return nil, err
	}

	return &ir.Plan{
		Definitions: defs,
		API:         api,
		Meta:        ir.Meta{BaseURL: baseURL(doc.Root())},
		Diagnostics: p.diags,
	}, nil
}

func newParser(doc *document.Document) (*parser, error) {
	p := &parser{doc: doc, names: map[string]string{}, inlining: map[*yaml.Node]bool{}, active: map[*yaml.Node]bool{}}

	root := doc.Root()
	if schemas := document.Get(document.Get(root, "components"), "schemas"); schemas != nil {
		p.defsPointer = "#/components/schemas"
		p.defs = schemas
	} else if defs := document.Get(root, "definitions"); defs != nil {
		p.defsPointer = "#/definitions"
		p.defs = defs
	}
	if p.defs != nil {
		resolved, err := doc.ResolveIfRef(p.defs)
		if err != nil {
			return nil, fmt.Errorf("definitions: %w", err)
		}
		p.defs = resolved
	}
	return p, nil
}

// definitions translates the shared shapes, keeping only record-like and
// array-like ones. Definitions are keyed by their emitted type name.
func (p *parser) definitions() (map[string]ir.Type, error) {
	var shapes []document.Pair
	for _, def := range document.Pairs(p.defs) {
		if p.isShape(def.Value) {
			shapes = append(shapes, def)
		}
	}
	p.assignNames(shapes)

	out := map[string]ir.Type{}
	for _, def := range shapes {
		t, err := p.translate(def.Value, pointer(p.defsPointer, def.Key))
		if err != nil {
			return nil, fmt.Errorf("definition %q: %w", def.Key, err)
		}
		out[p.names[def.Key]] = t
	}
	return out, nil
}

// assignNames gives every shape a distinct type name. Names that are not
// identifiers or that the emitted artifacts already bind are rewritten,
// and numbered when the rewrite collides.
func (p *parser) assignNames(shapes []document.Pair) {
	taken := map[string]bool{}
	for _, def := range shapes {
		if naming.TypeName(def.Key) == def.Key && !naming.IsGenerated(def.Key) {
			taken[def.Key] = true
			p.names[def.Key] = def.Key
		}
	}
	for _, def := range shapes {
		if _, ok := p.names[def.Key]; ok {
			continue
		}
		base := naming.TypeName(def.Key)
		name := base
		for i := 2; taken[name] || naming.IsGenerated(name); i++ {
			name = fmt.Sprintf("%s%d", base, i)
		}
		taken[name] = true
		p.names[def.Key] = name
		if base == def.Key {
			p.warn(pointer(p.defsPointer, def.Key), "definition name %q clashes with a generated declaration, emitted as %q", def.Key, name)
			continue
		}
		p.warn(pointer(p.defsPointer, def.Key), "definition name %q is not an identifier, emitted as %q", def.Key, name)
	}
}

func (p *parser) typeName(declared string) string {
	if name, ok := p.names[declared]; ok {
		return name
	}
	return declared
}

// isDefinitionRef reports whether ref designates an entry of the shared
// definitions section.
func (p *parser) isDefinitionRef(ref string) bool {
	if p.defsPointer == "" || !strings.HasPrefix(ref, p.defsPointer+"/") {
		return false
	}
	rest := strings.TrimPrefix(ref, p.defsPointer+"/")
	return rest != "" && !strings.Contains(rest, "/")
}

func (p *parser) warn(ptr, format string, args ...any) {
	p.diags = append(p.diags, ir.Diagnostic{Pointer: ptr, Message: fmt.Sprintf(format, args...)})
}

func baseURL(root *yaml.Node) string {
	for _, server := range document.Items(document.Get(root, "servers")) {
		if u := document.String(server, "url"); u != "" {
			return u
		}
	}
	host := document.String(root, "host")
	basePath := document.String(root, "basePath")
	if host == "" {
		return basePath
	}
	scheme := "https"
	if schemes := document.Strings(root, "schemes"); len(schemes) > 0 {
		scheme = schemes[0]
	}
	return scheme + "://" + host + basePath
}

// pointer appends escaped tokens to a reference.
func pointer(base string, tokens ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(jsonpointer.Escape(t))
	}
	return b.String()
}
