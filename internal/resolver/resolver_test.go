package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cute-engineering/cutekit-go/internal/manifest"
)

type fakeLookup struct {
	all []*manifest.Manifest
}

func (f *fakeLookup) Components() []*manifest.Manifest { return f.all }

func (f *fakeLookup) LookupComponent(id string, includeProvides bool) (*manifest.Manifest, bool) {
	for _, m := range f.all {
		if m.ID == id {
			return m, true
		}
	}
	if includeProvides {
		for _, m := range f.all {
			for _, p := range m.Component.Provides {
				if p == id {
					return m, true
				}
			}
		}
	}
	return nil, false
}

func comp(id string, requires, provides []string, enableIf map[string][]manifest.Scalar) *manifest.Manifest {
	return &manifest.Manifest{
		ID:   id,
		Kind: manifest.KindLib,
		Component: &manifest.ComponentData{
			Requires: requires,
			Provides: provides,
			EnableIf: enableIf,
			Resolved: map[string]*manifest.Resolved{},
		},
	}
}

func TestResolveSimpleChain(t *testing.T) {
	lib := comp("lib-a", nil, nil, nil)
	exe := comp("exe-main", []string{"lib-a"}, nil, nil)
	lookup := &fakeLookup{all: []*manifest.Manifest{lib, exe}}
	target := &manifest.TargetData{Props: map[string]manifest.Scalar{}}

	r := New(lookup, target)
	resolved, err := r.Resolve("exe-main")
	require.NoError(t, err)
	assert.True(t, resolved.Enabled())
	assert.Equal(t, []string{"exe-main", "lib-a"}, resolved.Required)
}

func TestResolveNoProvider(t *testing.T) {
	exe := comp("exe-main", []string{"missing-lib"}, nil, nil)
	lookup := &fakeLookup{all: []*manifest.Manifest{exe}}
	target := &manifest.TargetData{Props: map[string]manifest.Scalar{}}

	r := New(lookup, target)
	resolved, err := r.Resolve("exe-main")
	require.NoError(t, err)
	assert.False(t, resolved.Enabled())
	assert.Equal(t, "No provider for 'missing-lib'", resolved.Reason)
}

func TestResolveMultipleProvidersIsDisabled(t *testing.T) {
	a := comp("impl-a", nil, []string{"iface"}, nil)
	b := comp("impl-b", nil, []string{"iface"}, nil)
	exe := comp("exe-main", []string{"iface"}, nil, nil)
	lookup := &fakeLookup{all: []*manifest.Manifest{a, b, exe}}
	target := &manifest.TargetData{Props: map[string]manifest.Scalar{}}

	r := New(lookup, target)
	resolved, err := r.Resolve("exe-main")
	require.NoError(t, err)
	assert.False(t, resolved.Enabled())
	assert.Equal(t, "Multiple providers for 'iface': impl-a,impl-b", resolved.Reason)
}

func TestResolveRespectsEnableIf(t *testing.T) {
	linux := comp("impl-linux", nil, []string{"iface"}, map[string][]manifest.Scalar{
		"os": {manifest.StringScalar("linux")},
	})
	exe := comp("exe-main", []string{"iface"}, nil, nil)
	lookup := &fakeLookup{all: []*manifest.Manifest{linux, exe}}
	target := &manifest.TargetData{Props: map[string]manifest.Scalar{"os": manifest.StringScalar("macos")}}

	r := New(lookup, target)
	resolved, err := r.Resolve("exe-main")
	require.NoError(t, err)
	assert.False(t, resolved.Enabled())
	assert.Equal(t, "Props missmatch for 'os': Got 'macos' but expected 'linux'", resolved.Reason)
}

func TestResolveDependencyCycleErrors(t *testing.T) {
	a := comp("a", []string{"b"}, nil, nil)
	b := comp("b", []string{"a"}, nil, nil)
	lookup := &fakeLookup{all: []*manifest.Manifest{a, b}}
	target := &manifest.TargetData{Props: map[string]manifest.Scalar{}}

	r := New(lookup, target)
	_, err := r.Resolve("a")
	require.Error(t, err)
	assert.Equal(t, "Dependency loop while resolving 'a': ['a', 'b'] -> a", err.Error())
}

func TestResolveRoutingOverridesProvides(t *testing.T) {
	a := comp("impl-a", nil, []string{"iface"}, nil)
	b := comp("impl-b", nil, []string{"iface"}, nil)
	exe := comp("exe-main", []string{"iface"}, nil, nil)
	lookup := &fakeLookup{all: []*manifest.Manifest{a, b, exe}}
	target := &manifest.TargetData{
		Props:   map[string]manifest.Scalar{},
		Routing: map[string]string{"iface": "impl-b"},
	}

	r := New(lookup, target)
	resolved, err := r.Resolve("exe-main")
	require.NoError(t, err)
	assert.True(t, resolved.Enabled())
	assert.Equal(t, []string{"exe-main", "impl-b"}, resolved.Required)
}
