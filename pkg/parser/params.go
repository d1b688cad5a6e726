package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/api-typegen/pkg/document"
	"github.com/blimu-dev/api-typegen/pkg/ir"
)

type group struct {
	ir.ParameterGroup
	// fromBody marks a group produced by a request body; its single item
	// carries the whole payload.
	fromBody bool
}

// typ returns the type of the location field in the parameters record.
func (g group) typ() ir.Type {
	switch {
	case g.Location == ir.LocationBody:
		return ir.OrUndefined(g.Items[0].Payload)
	case g.Location == ir.LocationFormData && g.fromBody:
		return &ir.Union{Members: []ir.Type{ir.FormData(), ir.OrUndefined(g.Items[0].Payload)}}
	case g.Location == ir.LocationFormData:
		return &ir.Union{Members: []ir.Type{ir.FormData(), g.record()}}
	}
	return g.record()
}

func (g group) record() *ir.Record {
	rec := &ir.Record{}
	for _, item := range g.Items {
		rec.Fields = append(rec.Fields, ir.Field{
			Name:     item.Name,
			Type:     ir.OrUndefined(item.Payload),
			Optional: item.Optional,
		})
	}
	return rec
}

type paramDecl struct {
	node *yaml.Node
	name string
	in   string
	ptr  string
}

// parameterGroups collects request body and parameter locations of an
// operation. Request body locations come first.
func (p *parser) parameterGroups(item, op *yaml.Node, pathPtr, ptr string) ([]group, error) {
	groups, err := p.requestBody(op, pointer(ptr, "requestBody"))
	if err != nil {
		return nil, err
	}
	index := map[ir.Location]int{}
	for i, g := range groups {
		index[g.Location] = i
	}

	decls, err := p.parameterDecls(item, op, pathPtr, ptr)
	if err != nil {
		return nil, err
	}
	for _, d := range decls {
		payload, err := p.parameterPayload(d)
		if err != nil {
			return nil, err
		}
		loc := ir.Location(d.in)
		i, ok := index[loc]
		if !ok {
			i = len(groups)
			index[loc] = i
			groups = append(groups, group{ParameterGroup: ir.ParameterGroup{Location: loc}})
		}
		if groups[i].fromBody {
			// The request body already provides this location.
			continue
		}
		required, declared := document.Bool(d.node, "required")
		groups[i].Items = append(groups[i].Items, ir.ParameterItem{
			Name:     d.name,
			Optional: declared && !required,
			Payload:  payload,
		})
	}
	return groups, nil
}

// parameterDecls merges path level and operation level parameters. An
// operation level parameter replaces the path level one with the same name
// and location in place.
func (p *parser) parameterDecls(item, op *yaml.Node, pathPtr, ptr string) ([]paramDecl, error) {
	var out []paramDecl
	index := map[string]int{}

	add := func(list *yaml.Node, listPtr string) error {
		for i, raw := range document.Items(list) {
			itemPtr := pointer(listPtr, fmt.Sprint(i))
			n, err := p.doc.ResolveIfRef(raw)
			if err != nil {
				return fmt.Errorf("parameter %s: %w", itemPtr, err)
			}
			d := paramDecl{node: n, name: document.String(n, "name"), in: document.String(n, "in"), ptr: itemPtr}
			if d.in == "" {
				p.warn(itemPtr, "parameter %q declares no location, skipped", d.name)
				continue
			}
			key := d.in + "\x00" + d.name
			if j, ok := index[key]; ok {
				out[j] = d
				continue
			}
			index[key] = len(out)
			out = append(out, d)
		}
		return nil
	}

	if err := add(document.Get(item, "parameters"), pointer(pathPtr, "parameters")); err != nil {
		return nil, err
	}
	if err := add(document.Get(op, "parameters"), pointer(ptr, "parameters")); err != nil {
		return nil, err
	}
	return out, nil
}

// parameterPayload types a single parameter. The result is nil when the
// declaration carries no type information.
func (p *parser) parameterPayload(d paramDecl) (ir.Type, error) {
	switch {
	case document.Has(d.node, "items"):
		item, err := p.translate(document.Get(d.node, "items"), pointer(d.ptr, "items"))
		if err != nil {
			return nil, err
		}
		return &ir.List{Item: item}, nil
	case document.Has(d.node, "schema"):
		return p.translate(document.Get(d.node, "schema"), pointer(d.ptr, "schema"))
	case document.Has(d.node, "type"):
		return p.translateValue(d.node, document.String(d.node, "type"), d.ptr)
	}
	return nil, nil
}

// requestBody maps the media types of an OpenAPI 3 request body onto the
// body and formData locations.
func (p *parser) requestBody(op *yaml.Node, ptr string) ([]group, error) {
	raw := document.Get(op, "requestBody")
	if raw == nil {
		return nil, nil
	}
	body, err := p.doc.ResolveIfRef(raw)
	if err != nil {
		return nil, fmt.Errorf("request body: %w", err)
	}

	var out []group
	seen := map[ir.Location]bool{}
	for _, media := range document.Pairs(document.Get(body, "content")) {
		loc, ok := mediaLocation(media.Key)
		if !ok || seen[loc] {
			continue
		}
		seen[loc] = true

		var payload ir.Type = ir.Any()
		if schema := document.Get(media.Value, "schema"); schema != nil {
			payload, err = p.translate(schema, pointer(ptr, "content", media.Key, "schema"))
			if err != nil {
				return nil, err
			}
		}
		out = append(out, group{
			ParameterGroup: ir.ParameterGroup{
				Location: loc,
				Items:    []ir.ParameterItem{{Name: string(loc), Payload: payload}},
			},
			fromBody: true,
		})
	}
	return out, nil
}

func mediaLocation(mediaType string) (ir.Location, bool) {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch {
	case mt == "application/json", strings.HasSuffix(mt, "+json"):
		return ir.LocationBody, true
	case mt == "multipart/form-data", mt == "application/x-www-form-urlencoded":
		return ir.LocationFormData, true
	}
	return "", false
}
