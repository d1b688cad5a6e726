package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/api-typegen/pkg/config"
	"github.com/blimu-dev/api-typegen/pkg/ir"
)

func TestShouldIncludeOperation(t *testing.T) {
	tests := []struct {
		name        string
		tags        []string
		includeTags []string
		excludeTags []string
		expected    bool
	}{
		{"no filters - include all", []string{"users", "internal"}, nil, nil, true},
		{"include filter matches first tag", []string{"users", "internal"}, []string{"users"}, nil, true},
		{"include filter matches second tag", []string{"internal", "users"}, []string{"users"}, nil, true},
		{"include filter matches none", []string{"internal", "admin"}, []string{"users"}, nil, false},
		{"untagged with include filter", nil, []string{"users"}, nil, false},
		{"untagged without filters", nil, nil, []string{"internal"}, true},
		{"exclude filter matches second tag", []string{"users", "internal"}, nil, []string{"internal"}, false},
		{"exclude takes precedence over include", []string{"users", "internal"}, []string{"users"}, []string{"internal"}, false},
		{"include matches, exclude doesn't", []string{"users", "public"}, []string{"users"}, []string{"internal"}, true},
		{"regex patterns", []string{"users_v1", "internal_api"}, []string{"^users_.*"}, []string{".*_api$"}, false},
		{"multiple include patterns", []string{"orders", "billing"}, []string{"users", "orders"}, nil, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			include, exclude, err := compileTagFilters(test.includeTags, test.excludeTags)
			if err != nil {
				t.Fatalf("compileTagFilters() error = %v", err)
			}
			if got := shouldIncludeOperation(test.tags, include, exclude); got != test.expected {
				t.Errorf("shouldIncludeOperation(%v, %v, %v) = %v, expected %v",
					test.tags, test.includeTags, test.excludeTags, got, test.expected)
			}
		})
	}
}

func TestCompileTagFilters_InvalidPattern(t *testing.T) {
	_, _, err := compileTagFilters([]string{"("}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid includeTags pattern "("`)
}

func samplePlan() *ir.Plan {
	return &ir.Plan{
		Definitions: map[string]ir.Type{
			"Pet":      &ir.Record{Fields: []ir.Field{{Name: "category", Type: ir.Named("Category")}}},
			"Category": &ir.Record{},
			"Order":    &ir.Record{},
		},
		API: []*ir.Operation{
			{
				ID:         "getPet",
				Tags:       []string{"pet"},
				Parameters: &ir.Record{},
				Responses:  ir.Responses{Success: ir.Named("Pet"), Error: ir.Undefined()},
			},
			{
				ID:         "getOrder",
				Tags:       []string{"store"},
				Parameters: &ir.Record{Fields: []ir.Field{{Name: "body", Type: ir.Named("Order")}}},
				Responses:  ir.Responses{Success: ir.Undefined(), Error: ir.Undefined()},
			},
		},
		Meta: ir.Meta{BaseURL: "https://api.example.com"},
	}
}

func TestFilterPlan(t *testing.T) {
	plan := samplePlan()

	filtered, err := FilterPlan(plan, config.Target{IncludeTags: []string{"^pet$"}})
	require.NoError(t, err)

	require.Len(t, filtered.API, 1)
	assert.Equal(t, "getPet", filtered.API[0].ID)
	assert.Equal(t, []string{"Category", "Pet"}, filtered.DefinitionNames())
	assert.Equal(t, "https://api.example.com", filtered.Meta.BaseURL)

	// The input plan is left untouched.
	assert.Len(t, plan.API, 2)
	assert.Len(t, plan.Definitions, 3)
}

func TestFilterPlan_NoFilters(t *testing.T) {
	plan := samplePlan()
	filtered, err := FilterPlan(plan, config.Target{})
	require.NoError(t, err)
	assert.Same(t, plan, filtered)
}
