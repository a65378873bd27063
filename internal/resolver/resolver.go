// Package resolver implements CuteKit's dependency resolution: turning a
// component's requires/provides/enableIf declarations, plus a target's
// routing overrides, into a single deterministic required-component list
// or a disabled reason. It is grounded directly on the original tool's
// Resolver class, down to the explicit-stack cycle check and the
// insert-self-first ordering of a resolved Required list.
package resolver

import (
	"fmt"
	"strings"

	"github.com/cute-engineering/cutekit-go/internal/manifest"
)

// Lookup is the slice of Registry a Resolver needs: every known component,
// plus a provides-aware lookup by id. Kept as an interface so this package
// never imports internal/registry.
type Lookup interface {
	Components() []*manifest.Manifest
	LookupComponent(id string, includeProvides bool) (*manifest.Manifest, bool)
}

// Resolver resolves component specs to their flattened link order for one
// target. Not safe for concurrent use; callers build one Resolver per
// target and discard it after.
type Resolver struct {
	lookup   Lookup
	target   *manifest.TargetData
	mappings map[string][]*manifest.Manifest
	cache    map[string]*manifest.Resolved
	baked    bool
}

// New builds a Resolver for one target against lookup. Baking (building the
// provides/id -> providers map) is deferred until the first Resolve call.
func New(lookup Lookup, target *manifest.TargetData) *Resolver {
	return &Resolver{
		lookup:   lookup,
		target:   target,
		mappings: map[string][]*manifest.Manifest{},
		cache:    map[string]*manifest.Resolved{},
	}
}

func (r *Resolver) bake() {
	if r.baked {
		return
	}

	for _, m := range r.lookup.Components() {
		for _, provided := range append(append([]string{}, m.Component.Provides...), m.ID) {
			r.mappings[provided] = append(r.mappings[provided], m)
		}
	}

	// Target routing overrides provides/id matching entirely.
	for spec, target := range r.target.Routing {
		if m, ok := r.lookup.LookupComponent(target, false); ok {
			r.mappings[spec] = []*manifest.Manifest{m}
		} else {
			r.mappings[spec] = nil
		}
	}

	r.baked = true
}

// provider picks the single enabled candidate for spec, or explains why
// none qualifies.
func (r *Resolver) provider(spec string) (string, string) {
	candidates := r.mappings[spec]

	if len(candidates) == 1 {
		if ok, reason := candidates[0].Component.IsEnabled(r.target); !ok {
			return "", reason
		}
		return candidates[0].ID, ""
	}

	var enabled []*manifest.Manifest
	for _, c := range candidates {
		if ok, _ := c.Component.IsEnabled(r.target); ok {
			enabled = append(enabled, c)
		}
	}

	if len(enabled) == 0 {
		return "", fmt.Sprintf("No provider for '%s'", spec)
	}
	if len(enabled) > 1 {
		ids := make([]string, len(enabled))
		for i, c := range enabled {
			ids[i] = c.ID
		}
		return "", fmt.Sprintf("Multiple providers for '%s': %s", spec, strings.Join(ids, ","))
	}
	return enabled[0].ID, ""
}

// Resolve resolves what to its flattened, deduplicated required list. A
// genuine dependency cycle is the one case this returns an error — every
// other failure to resolve (no provider, disabled transitively) comes back
// as a Resolved with a non-empty Reason, never an error.
func (r *Resolver) Resolve(what string) (*manifest.Resolved, error) {
	r.bake()
	return r.resolve(what, nil)
}

func (r *Resolver) resolve(what string, stack []string) (*manifest.Resolved, error) {
	if cached, ok := r.cache[what]; ok {
		return cached, nil
	}

	keep, reason := r.provider(what)
	if keep == "" {
		resolved := &manifest.Resolved{Reason: reason}
		r.cache[what] = resolved
		return resolved, nil
	}

	if cached, ok := r.cache[keep]; ok {
		return cached, nil
	}

	for _, s := range stack {
		if s == keep {
			return nil, fmt.Errorf("Dependency loop while resolving '%s': %s -> %s", what, pythonList(stack), keep)
		}
	}
	stack = append(stack, keep)

	component, ok := r.lookup.LookupComponent(keep, false)
	if !ok {
		resolved := &manifest.Resolved{Reason: fmt.Sprintf("No provider for '%s'", keep)}
		r.cache[keep] = resolved
		return resolved, nil
	}

	var flattened []string
	for _, req := range component.Component.Requires {
		reqResolved, err := r.resolve(req, stack)
		if err != nil {
			return nil, err
		}
		if !reqResolved.Enabled() {
			resolved := &manifest.Resolved{Reason: reqResolved.Reason}
			r.cache[keep] = resolved
			return resolved, nil
		}
		flattened = append(flattened, reqResolved.Required...)
	}

	required := append([]string{keep}, flattened...)
	resolved := &manifest.Resolved{Required: uniqPreserveOrder(required)}
	r.cache[keep] = resolved
	return resolved, nil
}

// pythonList renders a string slice the way Python's list repr would, since
// the dependency-loop diagnostic is matched verbatim against the original
// tool's output (e.g. "['a', 'b']").
func pythonList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = fmt.Sprintf("'%s'", it)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func uniqPreserveOrder(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}
