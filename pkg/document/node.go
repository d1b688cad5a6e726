package document

import "gopkg.in/yaml.v3"

// Pair is one key/value entry of a mapping node.
type Pair struct {
	Key   string
	Value *yaml.Node
}

// Get returns the value stored under key in a mapping node, or nil.
func Get(n *yaml.Node, key string) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return deref(n.Content[i+1])
		}
	}
	return nil
}

// Has reports whether a mapping node declares key.
func Has(n *yaml.Node, key string) bool {
	return Get(n, key) != nil
}

// Pairs returns the entries of a mapping node in document order.
func Pairs(n *yaml.Node) []Pair {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]Pair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, Pair{Key: n.Content[i].Value, Value: deref(n.Content[i+1])})
	}
	return out
}

// Items returns the elements of a sequence node.
func Items(n *yaml.Node) []*yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]*yaml.Node, 0, len(n.Content))
	for _, c := range n.Content {
		out = append(out, deref(c))
	}
	return out
}

// String returns the scalar stored under key, or "".
func String(n *yaml.Node, key string) string {
	v := Get(n, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return ""
	}
	return v.Value
}

// Strings returns the scalar elements of the sequence stored under key.
func Strings(n *yaml.Node, key string) []string {
	var out []string
	for _, item := range Items(Get(n, key)) {
		if item.Kind == yaml.ScalarNode {
			out = append(out, item.Value)
		}
	}
	return out
}

// Bool returns the boolean stored under key and whether it was declared.
func Bool(n *yaml.Node, key string) (value bool, ok bool) {
	v := Get(n, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return false, false
	}
	if err := v.Decode(&value); err != nil {
		return false, false
	}
	return value, true
}

// RefOf returns the $ref of a reference object.
func RefOf(n *yaml.Node) (string, bool) {
	v := Get(n, "$ref")
	if v == nil || v.Kind != yaml.ScalarNode {
		return "", false
	}
	return v.Value, true
}

// IsRef reports whether n is a reference object.
func IsRef(n *yaml.Node) bool {
	_, ok := RefOf(n)
	return ok
}

// IsEmpty reports whether n is missing or an empty mapping.
func IsEmpty(n *yaml.Node) bool {
	n = deref(n)
	return n == nil || (n.Kind == yaml.MappingNode && len(n.Content) == 0)
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}
