package typescript

import (
	"strings"

	"github.com/blimu-dev/api-typegen/pkg/ir"
	"github.com/blimu-dev/api-typegen/pkg/naming"
)

const indentUnit = "  "

// TypeString renders an IR type as a TypeScript type expression. Records
// span multiple lines with two space indentation.
func TypeString(t ir.Type) string {
	var b strings.Builder
	writeType(&b, t, 0)
	return b.String()
}

func writeType(b *strings.Builder, t ir.Type, depth int) {
	switch v := t.(type) {
	case *ir.Record:
		writeRecord(b, v, depth)
	case *ir.List:
		if _, ok := v.Item.(*ir.Union); ok {
			b.WriteString("Array<")
			writeType(b, v.Item, depth)
			b.WriteString(">")
			return
		}
		writeType(b, v.Item, depth)
		b.WriteString("[]")
	case *ir.Ref:
		b.WriteString(v.To)
		if len(v.Generics) == 0 {
			return
		}
		b.WriteString("<")
		for i, g := range v.Generics {
			if i > 0 {
				b.WriteString(", ")
			}
			writeType(b, g, depth)
		}
		b.WriteString(">")
	case *ir.Union:
		b.WriteString(unionString(v, depth))
	case *ir.Func:
		b.WriteString("(")
		for i, arg := range v.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.Name)
			b.WriteString(": ")
			writeType(b, arg.Type, depth)
		}
		b.WriteString(") => ")
		writeType(b, ir.OrUndefined(v.Return), depth)
	case nil:
		b.WriteString(ir.BuiltinUndefined)
	}
}

func writeRecord(b *strings.Builder, r *ir.Record, depth int) {
	if len(r.Fields) == 0 {
		b.WriteString("{}")
		return
	}
	inner := strings.Repeat(indentUnit, depth+1)
	b.WriteString("{\n")
	for _, f := range r.Fields {
		b.WriteString(inner)
		b.WriteString(quotePropName(f.Name))
		if f.Optional {
			b.WriteString("?")
		}
		b.WriteString(": ")
		writeType(b, ir.OrUndefined(f.Type), depth+1)
		b.WriteString(";\n")
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString("}")
}

// unionString joins the rendered members, collapsing members that render
// to the same text.
func unionString(u *ir.Union, depth int) string {
	seen := make(map[string]bool, len(u.Members))
	parts := make([]string, 0, len(u.Members))
	for _, m := range u.Members {
		var b strings.Builder
		writeType(&b, m, depth)
		s := b.String()
		if seen[s] {
			continue
		}
		seen[s] = true
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "never"
	}
	return strings.Join(parts, "|")
}

// quotePropName quotes property names that are not valid identifiers.
func quotePropName(name string) string {
	if naming.IsIdentifier(name) {
		return name
	}
	return quoteString(name)
}

// quoteString returns s as a single quoted string literal.
func quoteString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
	return "'" + r.Replace(s) + "'"
}
