package ir

import "sort"

// Plan is the complete intermediate representation of an API document.
// It is built once by the parser and only read afterwards.
type Plan struct {
	// Definitions holds the shared shapes that are emitted as named
	// declarations. Values are always *Record or *List.
	Definitions map[string]Type
	// API holds one entry per operation in document order.
	API []*Operation
	// Meta carries document level information that is not a type.
	Meta Meta
	// Diagnostics collects non-fatal findings from parsing.
	Diagnostics []Diagnostic
}

// Meta holds document level metadata
type Meta struct {
	// BaseURL is the first server URL declared by the document, if any.
	BaseURL string
}

// DefinitionNames returns the definition names in render order.
func (p *Plan) DefinitionNames() []string {
	names := make([]string, 0, len(p.Definitions))
	for name := range p.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Operation returns the operation with the given identifier.
func (p *Plan) Operation(id string) (*Operation, bool) {
	for _, op := range p.API {
		if op.ID == id {
			return op, true
		}
	}
	return nil, false
}

// Operation represents a single path + verb pair of the document.
type Operation struct {
	ID      string
	Summary string
	Tags    []string
	// URL is the path template as declared, e.g. /pet/{petId}.
	URL string
	// Method is the lower case HTTP verb.
	Method string
	// Parameters has one field per parameter location.
	Parameters *Record
	// ParameterGroups keeps the individual parameters per location.
	ParameterGroups []ParameterGroup
	Responses       Responses
}

// Location is where a parameter is carried in the request.
type Location string

// Parameter locations, named as in the document's "in" field. Request
// bodies map onto LocationBody and LocationFormData.
const (
	LocationBody     Location = "body"
	LocationQuery    Location = "query"
	LocationPath     Location = "path"
	LocationFormData Location = "formData"
	// LocationHeader and LocationCookie are typed but not applied by the
	// emitted request helpers.
	LocationHeader Location = "header"
	LocationCookie Location = "cookie"
)

// ParameterGroup aggregates the parameters declared for one location.
type ParameterGroup struct {
	Location Location
	Items    []ParameterItem
}

// ParameterItem is a single declared parameter. Payload is nil when the
// declaration carries no type information.
type ParameterItem struct {
	Name     string
	Optional bool
	Payload  Type
}

// Responses holds the aggregated and per status code response types.
type Responses struct {
	Success      Type
	Error        Type
	ByStatusCode []StatusResponse
}

// StatusResponse is the payload declared for one status code. Payload is
// nil when the response has no content schema.
type StatusResponse struct {
	StatusCode string
	Payload    Type
}

// Diagnostic is a non-fatal finding produced while parsing.
type Diagnostic struct {
	// Pointer locates the offending node, e.g. #/components/schemas/Pet.
	Pointer string
	Message string
}

func (d Diagnostic) String() string {
	if d.Pointer == "" {
		return d.Message
	}
	return d.Pointer + ": " + d.Message
}
