package generator

import (
	"fmt"
	"regexp"

	"github.com/blimu-dev/api-typegen/pkg/config"
	"github.com/blimu-dev/api-typegen/pkg/ir"
)

// FilterPlan keeps the operations selected by the target's tag filters and
// the definitions they reach. Without filters the plan is returned as is.
func FilterPlan(plan *ir.Plan, target config.Target) (*ir.Plan, error) {
	if len(target.IncludeTags) == 0 && len(target.ExcludeTags) == 0 {
		return plan, nil
	}
	include, exclude, err := compileTagFilters(target.IncludeTags, target.ExcludeTags)
	if err != nil {
		return nil, err
	}

	filtered := &ir.Plan{Meta: plan.Meta, Diagnostics: plan.Diagnostics}
	for _, op := range plan.API {
		if shouldIncludeOperation(op.Tags, include, exclude) {
			filtered.API = append(filtered.API, op)
		}
	}
	filtered.Definitions = reachableDefinitions(plan.Definitions, filtered.API)
	return filtered, nil
}

// reachableDefinitions returns the definitions referenced by ops, directly
// or through other definitions.
func reachableDefinitions(defs map[string]ir.Type, ops []*ir.Operation) map[string]ir.Type {
	out := map[string]ir.Type{}
	var queue []string
	for _, op := range ops {
		queue = append(queue, ir.References(op.Parameters, op.Responses.Success, op.Responses.Error)...)
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if _, done := out[name]; done {
			continue
		}
		def, ok := defs[name]
		if !ok {
			continue
		}
		out[name] = def
		queue = append(queue, ir.References(def)...)
	}
	return out
}

// compileTagFilters compiles regex patterns for tag filtering
func compileTagFilters(include, exclude []string) ([]*regexp.Regexp, []*regexp.Regexp, error) {
	inc := make([]*regexp.Regexp, 0, len(include))
	for _, p := range include {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid includeTags pattern %q: %w", p, err)
		}
		inc = append(inc, r)
	}
	exc := make([]*regexp.Regexp, 0, len(exclude))
	for _, p := range exclude {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid excludeTags pattern %q: %w", p, err)
		}
		exc = append(exc, r)
	}
	return inc, exc, nil
}

// shouldIncludeOperation reports whether any tag matches an include pattern
// and no tag matches an exclude pattern. No include patterns means every
// operation is a candidate.
func shouldIncludeOperation(tags []string, include, exclude []*regexp.Regexp) bool {
	if len(include) > 0 && !anyMatch(tags, include) {
		return false
	}
	return !anyMatch(tags, exclude)
}

func anyMatch(tags []string, patterns []*regexp.Regexp) bool {
	for _, tag := range tags {
		for _, r := range patterns {
			if r.MatchString(tag) {
				return true
			}
		}
	}
	return false
}
