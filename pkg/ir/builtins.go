package ir

// Builtin type names understood by every renderer.
const (
	BuiltinString    = "string"
	BuiltinNumber    = "number"
	BuiltinBoolean   = "boolean"
	BuiltinAny       = "any"
	BuiltinUndefined = "undefined"
	BuiltinNull      = "null"
	BuiltinFile      = "File"
	BuiltinFormData  = "FormData"
	BuiltinPromise   = "Promise"
)

// Builtin returns a reference to a builtin type.
func Builtin(name string) *Ref {
	return &Ref{To: name, Builtin: true}
}

// Named returns a reference to a shared definition.
func Named(name string) *Ref {
	return &Ref{To: name}
}

// Any is the unconstrained type.
func Any() *Ref { return Builtin(BuiltinAny) }

// Undefined marks an absent payload.
func Undefined() *Ref { return Builtin(BuiltinUndefined) }

// FormData is the raw multipart payload type.
func FormData() *Ref { return Builtin(BuiltinFormData) }

// Literal returns a single quoted string literal type.
func Literal(s string) *Ref {
	return Builtin("'" + escapeLiteral(s) + "'")
}

// Literals returns a union of string literal types.
func Literals(values []string) *Union {
	members := make([]Type, 0, len(values))
	for _, v := range values {
		members = append(members, Literal(v))
	}
	return &Union{Members: members}
}

// Promise wraps t in an awaitable.
func Promise(t Type) *Ref {
	return &Ref{To: BuiltinPromise, Generics: []Type{t}, Builtin: true}
}

// OrUndefined returns t, or the absent payload marker when t is nil.
func OrUndefined(t Type) Type {
	if t == nil {
		return Undefined()
	}
	return t
}

func escapeLiteral(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '\'':
			out = append(out, '\\', s[i])
		case '\n':
			out = append(out, '\\', 'n')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
