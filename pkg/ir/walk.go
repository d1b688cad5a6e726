package ir

import "sort"

// Walk calls fn for t and every type nested inside it, depth first.
func Walk(t Type, fn func(Type)) {
	if t == nil {
		return
	}
	fn(t)
	switch v := t.(type) {
	case *Record:
		for _, f := range v.Fields {
			Walk(f.Type, fn)
		}
	case *List:
		Walk(v.Item, fn)
	case *Ref:
		for _, g := range v.Generics {
			Walk(g, fn)
		}
	case *Union:
		for _, m := range v.Members {
			Walk(m, fn)
		}
	case *Func:
		for _, a := range v.Args {
			Walk(a.Type, fn)
		}
		Walk(v.Return, fn)
	}
}

// References returns the sorted names of the shared definitions referenced
// by types.
func References(types ...Type) []string {
	seen := map[string]bool{}
	for _, t := range types {
		Walk(t, func(t Type) {
			if r, ok := t.(*Ref); ok && !r.Builtin {
				seen[r.To] = true
			}
		})
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
