package typescript

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/blimu-dev/api-typegen/pkg/ir"
)

// Artifact file names.
const (
	FileDefinitions = "definitions.ts"
	FileAPITypes    = "api-types.ts"
	FileAPIMapping  = "api-mapping.ts"
	FileCreateAPI   = "create-api.ts"
	FileAPIUtils    = "api-utils.ts"
)

//go:embed templates/*.gotmpl
var templatesFS embed.FS

var templates = template.Must(template.New("typescript").Funcs(funcMap()).ParseFS(templatesFS, "templates/*.gotmpl"))

func funcMap() template.FuncMap {
	funcs := template.FuncMap{
		"tsString": quoteString,
		"propName": quotePropName,
	}
	for k, v := range sprig.TxtFuncMap() {
		if _, ok := funcs[k]; !ok {
			funcs[k] = v
		}
	}
	return funcs
}

// Definitions renders one named declaration per shared shape, sorted by
// name. Records become interfaces and lists become type aliases.
func Definitions(plan *ir.Plan) (string, error) {
	var decls []string
	for _, name := range plan.DefinitionNames() {
		switch t := plan.Definitions[name].(type) {
		case *ir.Record:
			decls = append(decls, fmt.Sprintf("export interface %s %s", name, TypeString(t)))
		case *ir.List:
			decls = append(decls, fmt.Sprintf("export type %s = %s;", name, TypeString(t)))
		}
	}
	return execute("definitions.ts.gotmpl", map[string]any{"Declarations": decls})
}

// APITypes renders the operation catalog keyed by operation identifier.
func APITypes(plan *ir.Plan) (string, error) {
	catalog := Catalog(plan)
	return execute("api-types.ts.gotmpl", map[string]any{
		"DefinitionsImport": definitionsImport(catalog),
		"Catalog":           TypeString(catalog),
	})
}

// APIMapping renders the runtime table of URL template, verb and tags per
// operation.
func APIMapping(plan *ir.Plan) (string, error) {
	return execute("api-mapping.ts.gotmpl", map[string]any{
		"BaseURL":    plan.Meta.BaseURL,
		"Operations": plan.API,
	})
}

// CreateAPI renders the axios bindings factory and one callable type per
// operation.
func CreateAPI(plan *ir.Plan) (string, error) {
	bindings := Bindings(plan)
	return execute("create-api.ts.gotmpl", map[string]any{
		"DefinitionsImport": definitionsImport(bindings),
		"Bindings":          TypeString(bindings),
	})
}

// APIUtils renders the request building helpers used by the bindings.
func APIUtils() (string, error) {
	return execute("api-utils.ts.gotmpl", nil)
}

// Catalog builds the ApiTypes record: per operation its tags, its
// parameters by location and its aggregated responses.
func Catalog(plan *ir.Plan) *ir.Record {
	rec := &ir.Record{}
	for _, op := range plan.API {
		rec.Fields = append(rec.Fields, ir.Field{
			Name: op.ID,
			Type: &ir.Record{Fields: []ir.Field{
				{Name: "tag", Type: ir.Literals(op.Tags)},
				{Name: "parameters", Type: op.Parameters},
				{Name: "responses", Type: &ir.Record{Fields: []ir.Field{
					{Name: "success", Type: ir.OrUndefined(op.Responses.Success)},
					{Name: "error", Type: ir.OrUndefined(op.Responses.Error)},
				}}},
			}},
		})
	}
	return rec
}

// Bindings builds the Api record: one callable per operation returning an
// awaitable of the declared success type.
func Bindings(plan *ir.Plan) *ir.Record {
	rec := &ir.Record{}
	for _, op := range plan.API {
		params := &ir.Ref{To: "ApiParameters", Generics: []ir.Type{ir.Literal(op.ID)}, Builtin: true}
		response := &ir.Ref{To: "AxiosResponse", Generics: []ir.Type{ir.OrUndefined(op.Responses.Success)}, Builtin: true}
		rec.Fields = append(rec.Fields, ir.Field{
			Name: op.ID,
			Type: &ir.Func{
				Args:   []ir.Arg{{Name: "parameters", Type: params}},
				Return: ir.Promise(response),
			},
		})
	}
	return rec
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// definitionsImport returns the import statement for the shared shapes
// referenced by t, or "" when there are none.
func definitionsImport(t ir.Type) string {
	names := ir.References(t)
	if len(names) == 0 {
		return ""
	}
	return fmt.Sprintf("import { %s } from './definitions';", strings.Join(names, ", "))
}
