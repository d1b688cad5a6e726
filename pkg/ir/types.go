package ir

// Type is an IR type node. The set of implementations is closed:
// *Record, *List, *Ref, *Union and *Func.
type Type interface {
	isType()
}

// Record is a structural object with named, possibly optional fields.
type Record struct {
	Fields []Field
}

// Field is a named member of a Record.
type Field struct {
	Name     string
	Type     Type
	Optional bool
}

// List is a homogeneous sequence.
type List struct {
	Item Type
}

// Ref points to a shared definition by name, or to a builtin type when
// Builtin is set.
type Ref struct {
	To       string
	Generics []Type
	Builtin  bool
}

// Union is a one-of. Literal string unions represent enumerations.
type Union struct {
	Members []Type
}

// Func is a callable signature. It only appears in rendered bindings.
type Func struct {
	Args   []Arg
	Return Type
}

// Arg is a named Func argument.
type Arg struct {
	Name string
	Type Type
}

func (*Record) isType() {}
func (*List) isType()   {}
func (*Ref) isType()    {}
func (*Union) isType()  {}
func (*Func) isType()   {}

// Field returns the field with the given name.
func (r *Record) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// IsShape reports whether t may be emitted as a named declaration.
func IsShape(t Type) bool {
	switch t.(type) {
	case *Record, *List:
		return true
	}
	return false
}
