package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/api-typegen/pkg/document"
	"github.com/blimu-dev/api-typegen/pkg/ir"
)

const defaultStatus = "default"

func (p *parser) responses(op *yaml.Node, ptr string) (ir.Responses, error) {
	var all []ir.StatusResponse
	for _, pair := range document.Pairs(document.Get(op, "responses")) {
		if isExtension(pair.Key) {
			continue
		}
		resp, err := p.doc.ResolveIfRef(pair.Value)
		if err != nil {
			return ir.Responses{}, fmt.Errorf("response %s: %w", pair.Key, err)
		}
		payload, err := p.responsePayload(resp, pointer(ptr, pair.Key))
		if err != nil {
			return ir.Responses{}, err
		}
		all = append(all, ir.StatusResponse{StatusCode: pair.Key, Payload: payload})
	}

	return ir.Responses{
		Success:      bucket(all, isSuccess),
		Error:        bucket(all, isError),
		ByStatusCode: all,
	}, nil
}

// responsePayload returns the schema of the first content entry, or the
// Swagger 2 schema. It is nil when the response carries no content.
func (p *parser) responsePayload(resp *yaml.Node, ptr string) (ir.Type, error) {
	if content := document.Pairs(document.Get(resp, "content")); len(content) > 0 {
		schema := document.Get(content[0].Value, "schema")
		if schema == nil {
			return nil, nil
		}
		return p.translate(schema, pointer(ptr, "content", content[0].Key, "schema"))
	}
	if schema := document.Get(resp, "schema"); schema != nil {
		return p.translate(schema, pointer(ptr, "schema"))
	}
	return nil, nil
}

// bucket unions the payloads of the matching status codes. An empty bucket
// falls back to the default response, then to undefined.
func bucket(all []ir.StatusResponse, match func(code string) bool) ir.Type {
	u := &ir.Union{}
	for _, r := range all {
		if match(r.StatusCode) {
			u.Members = append(u.Members, ir.OrUndefined(r.Payload))
		}
	}
	if len(u.Members) > 0 {
		return u
	}
	for _, r := range all {
		if r.StatusCode == defaultStatus {
			return ir.OrUndefined(r.Payload)
		}
	}
	return ir.Undefined()
}

func isSuccess(code string) bool {
	return strings.HasPrefix(code, "2")
}

func isError(code string) bool {
	return !isSuccess(code) && code != defaultStatus
}
