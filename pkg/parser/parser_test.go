package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/api-typegen/pkg/document"
	"github.com/blimu-dev/api-typegen/pkg/ir"
)

func parseFile(t *testing.T, name string) *ir.Plan {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return parseString(t, string(data))
}

func parseString(t *testing.T, src string) *ir.Plan {
	t.Helper()
	plan, err := parseSource(src)
	require.NoError(t, err)
	return plan
}

func parseSource(src string) (*ir.Plan, error) {
	doc, err := document.Parse([]byte(src))
	if err != nil {
		return nil, err
	}
	return Parse(doc)
}

func field(t *testing.T, rec ir.Type, name string) ir.Field {
	t.Helper()
	r, ok := rec.(*ir.Record)
	require.True(t, ok, "expected a record, got %T", rec)
	f, ok := r.Field(name)
	require.True(t, ok, "missing field %q", name)
	return f
}

func TestParse_Definitions(t *testing.T) {
	plan := parseFile(t, "petstore.yaml")

	assert.Equal(t, []string{"Category", "Pet", "Pets", "Tag"}, plan.DefinitionNames())

	pet := plan.Definitions["Pet"]
	assert.False(t, field(t, pet, "name").Optional)
	assert.True(t, field(t, pet, "id").Optional)
	assert.Equal(t, ir.Builtin(ir.BuiltinNumber), field(t, pet, "id").Type)
	assert.Equal(t, ir.Named("Category"), field(t, pet, "category").Type)
	assert.Equal(t, &ir.List{Item: ir.Named("Tag")}, field(t, pet, "tags").Type)

	// Status is a primitive alias, so it is inlined where referenced.
	assert.Equal(t, ir.Literals([]string{"available", "pending", "sold"}), field(t, pet, "status").Type)

	assert.Equal(t, &ir.List{Item: ir.Named("Pet")}, plan.Definitions["Pets"])
	assert.Empty(t, plan.Diagnostics)
}

func TestParse_Operations(t *testing.T) {
	plan := parseFile(t, "petstore.yaml")

	var ids []string
	for _, op := range plan.API {
		ids = append(ids, op.ID)
	}
	assert.Equal(t, []string{"addPet", "getPetById", "uploadImage", "getInventory"}, ids)
	assert.Equal(t, "https://petstore.example.com/v1", plan.Meta.BaseURL)

	addPet, ok := plan.Operation("addPet")
	require.True(t, ok)
	assert.Equal(t, "/pet", addPet.URL)
	assert.Equal(t, "post", addPet.Method)
	assert.Equal(t, []string{"pet"}, addPet.Tags)
	assert.Equal(t, "Add a new pet to the store", addPet.Summary)
	assert.Equal(t, ir.Named("Pet"), field(t, addPet.Parameters, "body").Type)
	assert.Len(t, addPet.Parameters.Fields, 1)
}

func TestParse_PathParametersMerge(t *testing.T) {
	plan := parseFile(t, "petstore.yaml")

	op, ok := plan.Operation("getPetById")
	require.True(t, ok)

	var locations []string
	for _, f := range op.Parameters.Fields {
		locations = append(locations, f.Name)
	}
	assert.Equal(t, []string{"path", "query", "header"}, locations)

	petID := field(t, field(t, op.Parameters, "path").Type, "petId")
	assert.False(t, petID.Optional)
	assert.Equal(t, ir.Builtin(ir.BuiltinNumber), petID.Type)

	verbose := field(t, field(t, op.Parameters, "query").Type, "verbose")
	assert.True(t, verbose.Optional)
	assert.Equal(t, ir.Builtin(ir.BuiltinBoolean), verbose.Type)

	// Header parameters are typed like any other location.
	trace := field(t, field(t, op.Parameters, "header").Type, "X-Trace")
	assert.True(t, trace.Optional)
	assert.Equal(t, ir.Builtin(ir.BuiltinString), trace.Type)
}

func TestParse_FormDataRequestBody(t *testing.T) {
	plan := parseFile(t, "petstore.yaml")

	op, ok := plan.Operation("uploadImage")
	require.True(t, ok)
	require.Equal(t, "formData", op.Parameters.Fields[0].Name)

	u, ok := op.Parameters.Fields[0].Type.(*ir.Union)
	require.True(t, ok)
	require.Len(t, u.Members, 2)
	assert.Equal(t, ir.FormData(), u.Members[0])
	assert.Equal(t, ir.Builtin(ir.BuiltinFile), field(t, u.Members[1], "file").Type)

	// Path level parameters apply to every verb of the path.
	assert.Equal(t, "path", op.Parameters.Fields[1].Name)
}

func TestParse_ResponseBuckets(t *testing.T) {
	plan := parseFile(t, "petstore.yaml")

	op, _ := plan.Operation("getPetById")
	assert.Equal(t, &ir.Union{Members: []ir.Type{ir.Named("Pet")}}, op.Responses.Success)
	assert.Equal(t, &ir.Union{Members: []ir.Type{ir.Undefined(), ir.Undefined()}}, op.Responses.Error)
	require.Len(t, op.Responses.ByStatusCode, 3)
	assert.Equal(t, "400", op.Responses.ByStatusCode[1].StatusCode)
	assert.Nil(t, op.Responses.ByStatusCode[1].Payload)

	upload, _ := plan.Operation("uploadImage")
	assert.Equal(t, ir.Undefined(), upload.Responses.Success)
	assert.Equal(t, ir.Undefined(), upload.Responses.Error)
}

func TestParse_DefaultResponseFallback(t *testing.T) {
	plan := parseString(t, `
openapi: 3.0.0
paths:
  /health:
    get:
      operationId: health
      responses:
        default:
          content:
            application/json:
              schema:
                type: string
`)
	op := plan.API[0]
	assert.Equal(t, ir.Builtin(ir.BuiltinString), op.Responses.Success)
	assert.Equal(t, ir.Builtin(ir.BuiltinString), op.Responses.Error)
	assert.Empty(t, op.Parameters.Fields)
	assert.Equal(t, []string{}, op.Tags)
}

func TestParse_OperationIDFaults(t *testing.T) {
	_, err := parseSource(`
openapi: 3.0.0
paths:
  /pet:
    get:
      responses: {}
`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingOperationID))
	assert.Contains(t, err.Error(), `operation id for "/pet get" is missing`)

	_, err = parseSource(`
openapi: 3.0.0
paths:
  /a:
    get:
      operationId: same
  /b:
    get:
      operationId: same
`)
	assert.True(t, errors.Is(err, ErrDuplicateOperationID))
}

func TestParse_DanglingReference(t *testing.T) {
	_, err := parseSource(`
openapi: 3.0.0
components:
  schemas:
    Pet:
      type: object
      properties:
        owner:
          $ref: '#/components/schemas/Owner'
`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, document.ErrPointerNotFound))
	assert.Contains(t, err.Error(), "#/components/schemas/[Owner]")
}

func TestParse_CrossDocumentReference(t *testing.T) {
	_, err := parseSource(`
openapi: 3.0.0
paths:
  /pet:
    get:
      operationId: getPet
      responses:
        '200':
          content:
            application/json:
              schema:
                $ref: 'common.yaml#/Pet'
`)
	assert.True(t, errors.Is(err, document.ErrUnsupportedRef))
}

func TestParse_CircularInlineReference(t *testing.T) {
	_, err := parseSource(`
openapi: 3.0.0
components:
  schemas:
    Node:
      type: object
      properties:
        next:
          $ref: '#/components/schemas/Link'
    Link:
      oneOf:
        - $ref: '#/components/schemas/Link'
`)
	assert.True(t, errors.Is(err, ErrCircularRef))
}

func TestParse_SelfContainingAlias(t *testing.T) {
	_, err := parseSource(`
openapi: 3.0.0
components:
  schemas:
    Node: &node
      type: object
      properties:
        child: *node
`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCircularRef))
	assert.Contains(t, err.Error(), "#/components/schemas/Node/properties/child refers to itself")
}

func TestParse_SelfReferencingShape(t *testing.T) {
	plan := parseString(t, `
openapi: 3.0.0
components:
  schemas:
    Tree:
      type: object
      properties:
        children:
          type: array
          items:
            $ref: '#/components/schemas/Tree'
`)
	assert.Equal(t, &ir.List{Item: ir.Named("Tree")}, field(t, plan.Definitions["Tree"], "children").Type)
}

func TestParse_Swagger2(t *testing.T) {
	plan := parseString(t, `
swagger: "2.0"
host: api.example.com
basePath: /v2
schemes: [http]
definitions:
  Pet:
    type: object
    properties:
      name:
        type: string
paths:
  /pet:
    post:
      operationId: addPet
      parameters:
        - in: body
          name: body
          schema:
            $ref: '#/definitions/Pet'
        - in: query
          name: ids
          type: array
          items:
            type: integer
      responses:
        '200':
          schema:
            $ref: '#/definitions/Pet'
  /pet/{petId}/image:
    post:
      operationId: uploadFile
      parameters:
        - in: formData
          name: file
          type: file
        - in: formData
          name: note
          required: false
          type: string
      responses:
        '200':
          description: ok
`)
	assert.Equal(t, "http://api.example.com/v2", plan.Meta.BaseURL)
	assert.Equal(t, []string{"Pet"}, plan.DefinitionNames())

	add, _ := plan.Operation("addPet")
	assert.Equal(t, ir.Named("Pet"), field(t, add.Parameters, "body").Type)
	assert.Equal(t, &ir.List{Item: ir.Builtin(ir.BuiltinNumber)}, field(t, field(t, add.Parameters, "query").Type, "ids").Type)
	assert.Equal(t, &ir.Union{Members: []ir.Type{ir.Named("Pet")}}, add.Responses.Success)

	upload, _ := plan.Operation("uploadFile")
	u, ok := field(t, upload.Parameters, "formData").Type.(*ir.Union)
	require.True(t, ok)
	assert.Equal(t, ir.FormData(), u.Members[0])
	assert.Equal(t, ir.Builtin(ir.BuiltinFile), field(t, u.Members[1], "file").Type)
	assert.False(t, field(t, u.Members[1], "file").Optional)
	assert.True(t, field(t, u.Members[1], "note").Optional)
}

func TestParse_OperationParameterOverridesPathParameter(t *testing.T) {
	plan := parseString(t, `
openapi: 3.0.0
paths:
  /items/{id}:
    parameters:
      - name: id
        in: path
        schema:
          type: string
      - name: page
        in: query
        schema:
          type: integer
    get:
      operationId: getItem
      parameters:
        - name: id
          in: path
          schema:
            type: integer
`)
	op := plan.API[0]
	assert.Equal(t, "path", op.Parameters.Fields[0].Name)
	assert.Equal(t, ir.Builtin(ir.BuiltinNumber), field(t, field(t, op.Parameters, "path").Type, "id").Type)
	require.Len(t, op.ParameterGroups, 2)
	assert.Len(t, op.ParameterGroups[0].Items, 1)
}

func TestParse_DefinitionNamesBecomeIdentifiers(t *testing.T) {
	plan := parseString(t, `
openapi: 3.0.0
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        '200':
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Page«Pet»'
components:
  schemas:
    Page«Pet»:
      type: object
      properties:
        items:
          type: array
          items:
            $ref: '#/components/schemas/pet-status'
    pet-status:
      type: object
    PetStatus:
      type: object
`)

	assert.Equal(t, []string{"PagePet", "PetStatus", "PetStatus2"}, plan.DefinitionNames())
	assert.Equal(t, &ir.List{Item: ir.Named("PetStatus2")}, field(t, plan.Definitions["PagePet"], "items").Type)

	op, ok := plan.Operation("listPets")
	require.True(t, ok)
	assert.Equal(t, &ir.Union{Members: []ir.Type{ir.Named("PagePet")}}, op.Responses.Success)

	assert.Equal(t, []ir.Diagnostic{
		{Pointer: "#/components/schemas/Page«Pet»", Message: `definition name "Page«Pet»" is not an identifier, emitted as "PagePet"`},
		{Pointer: "#/components/schemas/pet-status", Message: `definition name "pet-status" is not an identifier, emitted as "PetStatus2"`},
	}, plan.Diagnostics)
}

func TestParse_DefinitionNamesAvoidGeneratedDeclarations(t *testing.T) {
	plan := parseString(t, `
openapi: 3.0.0
paths:
  /api:
    get:
      operationId: getApi
      responses:
        '200':
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Api'
components:
  schemas:
    Api:
      type: object
      properties:
        file:
          $ref: '#/components/schemas/File'
    File:
      type: object
    api-types:
      type: object
`)

	assert.Equal(t, []string{"Api2", "ApiTypes2", "File2"}, plan.DefinitionNames())
	assert.Equal(t, ir.Named("File2"), field(t, plan.Definitions["Api2"], "file").Type)

	op, ok := plan.Operation("getApi")
	require.True(t, ok)
	assert.Equal(t, &ir.Union{Members: []ir.Type{ir.Named("Api2")}}, op.Responses.Success)

	assert.Equal(t, []ir.Diagnostic{
		{Pointer: "#/components/schemas/Api", Message: `definition name "Api" clashes with a generated declaration, emitted as "Api2"`},
		{Pointer: "#/components/schemas/File", Message: `definition name "File" clashes with a generated declaration, emitted as "File2"`},
		{Pointer: "#/components/schemas/api-types", Message: `definition name "api-types" is not an identifier, emitted as "ApiTypes2"`},
	}, plan.Diagnostics)
}
