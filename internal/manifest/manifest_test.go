package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTryLoadMissingReturnsNil(t *testing.T) {
	m, err := TryLoad(filepath.Join(t.TempDir(), "project"), map[string]any{})
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestParseProject(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "project.json", `{
		"$schema": "project.schema.json",
		"id": "acme",
		"type": "project",
		"description": "Acme widgets",
		"extern": {"vendor-lib": {"git": "https://example.com/vendor-lib.git", "tag": "v1.0.0"}}
	}`)

	m, err := Load(filepath.Join(dir, "project"), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "acme", m.ID)
	assert.Equal(t, KindProject, m.Kind)

	p, ok := m.AsProject()
	require.True(t, ok)
	assert.Equal(t, "Acme widgets", p.Description)
	assert.Equal(t, "https://example.com/vendor-lib.git", p.Extern["vendor-lib"].Git)
	assert.False(t, p.Extern["vendor-lib"].Deep)
}

func TestParseProjectHostPkgExtern(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "project.json", `{
		"$schema": "project.schema.json",
		"id": "acme",
		"type": "project",
		"extern": {"sdl2": {"names": ["sdl2", "sdl2-image"]}}
	}`)

	m, err := Load(filepath.Join(dir, "project"), map[string]any{})
	require.NoError(t, err)
	p, ok := m.AsProject()
	require.True(t, ok)

	ext := p.Extern["sdl2"]
	assert.True(t, ext.IsHostPkg())
	assert.Equal(t, []string{"sdl2", "sdl2-image"}, ext.Names)
	assert.Empty(t, p.ExternDirs())
}

func TestParseTargetComputesStableHashID(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "host-x86_64.json", `{
		"$schema": "target.schema.json",
		"id": "host-x86_64",
		"type": "target",
		"props": {"arch": "x86_64", "host": true}
	}`)

	m, err := Load(filepath.Join(dir, "host-x86_64"), map[string]any{})
	require.NoError(t, err)
	tgt, ok := m.AsTarget()
	require.True(t, ok)

	h1 := tgt.HashID()
	h2 := tgt.HashID()
	assert.Equal(t, h1, h2)
	assert.NotEmpty(t, h1)
}

func TestComponentIsEnabledMissingProp(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "manifest.json", `{
		"$schema": "component.schema.json",
		"id": "lib-foo",
		"type": "lib",
		"enableIf": {"arch": ["x86_64"]}
	}`)
	m, err := Load(filepath.Join(dir, "manifest"), map[string]any{})
	require.NoError(t, err)
	comp, ok := m.AsComponent()
	require.True(t, ok)

	target := &TargetData{Props: map[string]Scalar{}}
	ok, reason := comp.IsEnabled(target)
	assert.False(t, ok)
	assert.Equal(t, "Missing props 'arch' in target", reason)
}

func TestComponentIsEnabledPropMismatch(t *testing.T) {
	comp := &ComponentData{EnableIf: map[string][]Scalar{"arch": {StringScalar("arm64")}}}
	target := &TargetData{Props: map[string]Scalar{"arch": StringScalar("x86_64")}}
	ok, reason := comp.IsEnabled(target)
	assert.False(t, ok)
	assert.Equal(t, "Props missmatch for 'arch': Got 'x86_64' but expected 'arm64'", reason)
}

func TestComponentIsEnabledDeterministicFirstFailingKey(t *testing.T) {
	comp := &ComponentData{EnableIf: map[string][]Scalar{
		"zzz": {StringScalar("no-match")},
		"aaa": {StringScalar("no-match")},
	}}
	target := &TargetData{Props: map[string]Scalar{"zzz": StringScalar("z"), "aaa": StringScalar("a")}}
	_, reason := comp.IsEnabled(target)
	assert.Equal(t, "Props missmatch for 'aaa': Got 'a' but expected 'no-match'", reason)
}

func TestComponentIsEnabledMatch(t *testing.T) {
	comp := &ComponentData{EnableIf: map[string][]Scalar{"arch": {StringScalar("x86_64")}}}
	target := &TargetData{Props: map[string]Scalar{"arch": StringScalar("x86_64")}}
	ok, reason := comp.IsEnabled(target)
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestParseUnknownTypeErrors(t *testing.T) {
	_, err := Parse("x.json", map[string]any{"type": "bogus", "id": "x"})
	assert.Error(t, err)
}
