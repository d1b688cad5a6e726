// Package document holds an API description as an order preserving node
// tree and resolves document-local references inside it.
package document

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"
	"gopkg.in/yaml.v3"
)

var (
	// ErrPointerNotFound is returned when a reference does not designate a node.
	ErrPointerNotFound = errors.New("pointer not found")
	// ErrUnsupportedRef is returned for references outside the current document.
	ErrUnsupportedRef = errors.New("unsupported reference")
	// ErrInvalidDocument is returned when the input is not a mapping.
	ErrInvalidDocument = errors.New("invalid document")
)

// PointerError reports the segment of a reference that could not be
// descended into.
type PointerError struct {
	Ref string
	// Segment is the index of the failing segment, counted after "#/".
	Segment int
}

func (e *PointerError) Error() string {
	return fmt.Sprintf("couldn't find ref %q", e.Highlighted())
}

// Unwrap allows errors.Is(err, ErrPointerNotFound).
func (e *PointerError) Unwrap() error {
	return ErrPointerNotFound
}

// Highlighted returns the reference with the failing segment in brackets,
// e.g. #/components/[schemas]/Pet.
func (e *PointerError) Highlighted() string {
	segments := strings.Split(strings.TrimPrefix(e.Ref, "#/"), "/")
	if e.Segment >= 0 && e.Segment < len(segments) {
		segments[e.Segment] = "[" + segments[e.Segment] + "]"
	}
	return "#/" + strings.Join(segments, "/")
}

// Document is a parsed API description. The node tree is never modified.
type Document struct {
	root *yaml.Node
}

// Parse decodes a YAML or JSON document.
func Parse(data []byte) (*Document, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return New(&n)
}

// New wraps an already decoded node tree.
func New(n *yaml.Node) (*Document, error) {
	if n != nil && n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: root must be a mapping", ErrInvalidDocument)
	}
	return &Document{root: n}, nil
}

// Root returns the top level mapping.
func (d *Document) Root() *yaml.Node {
	return d.root
}

// Resolve returns the node designated by a document-local reference of the
// form #/segment/segment.
func (d *Document) Resolve(ref string) (*yaml.Node, error) {
	if ref == "#" || ref == "#/" {
		return d.root, nil
	}
	if !strings.HasPrefix(ref, "#/") {
		return nil, fmt.Errorf("%w: ref %q not supported", ErrUnsupportedRef, ref)
	}
	fragment := ref[1:]
	if strings.Contains(fragment, "%") {
		unescaped, err := url.PathUnescape(fragment)
		if err != nil {
			return nil, fmt.Errorf("%w: ref %q: %v", ErrUnsupportedRef, ref, err)
		}
		fragment = unescaped
	}
	ptr, err := jsonpointer.New(fragment)
	if err != nil {
		return nil, fmt.Errorf("%w: ref %q: %v", ErrUnsupportedRef, ref, err)
	}

	cur := d.root
	for i, token := range ptr.DecodedTokens() {
		next := child(cur, token)
		if next == nil {
			return nil, &PointerError{Ref: ref, Segment: i}
		}
		cur = next
	}
	return cur, nil
}

// ResolveIfRef resolves n when it is a reference object and returns it
// unchanged otherwise.
func (d *Document) ResolveIfRef(n *yaml.Node) (*yaml.Node, error) {
	ref, ok := RefOf(n)
	if !ok {
		return deref(n), nil
	}
	return d.Resolve(ref)
}

// RefName returns the decoded terminal segment of a reference.
func RefName(ref string) string {
	name := ref
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		name = ref[i+1:]
	}
	if strings.Contains(name, "%") {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}
	return jsonpointer.Unescape(name)
}

func child(n *yaml.Node, token string) *yaml.Node {
	n = deref(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		return Get(n, token)
	case yaml.SequenceNode:
		idx, err := strconv.Atoi(token)
		if err != nil || idx < 0 || idx >= len(n.Content) {
			return nil
		}
		return deref(n.Content[idx])
	}
	return nil
}
