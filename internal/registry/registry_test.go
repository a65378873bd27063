package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cute-engineering/cutekit-go/internal/host/hosttest"
	"github.com/cute-engineering/cutekit-go/internal/workspace"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "project.json"), `{
		"$schema": "project.schema.json",
		"id": "acme",
		"type": "project",
		"description": "Acme widgets"
	}`)

	writeFile(t, filepath.Join(root, "meta/targets/host-x86_64.json"), `{
		"$schema": "target.schema.json",
		"id": "host-x86_64",
		"type": "target",
		"props": {"arch": "x86_64"}
	}`)

	writeFile(t, filepath.Join(root, "src/libfoo/manifest.json"), `{
		"$schema": "component.schema.json",
		"id": "lib-foo",
		"type": "lib"
	}`)

	writeFile(t, filepath.Join(root, "src/exemain/manifest.json"), `{
		"$schema": "component.schema.json",
		"id": "exe-main",
		"type": "exe",
		"requires": ["lib-foo"]
	}`)

	return root
}

func TestLoadDiscoversTargetsAndComponents(t *testing.T) {
	root := newTestProject(t)
	layout := workspace.New(root)
	sh := hosttest.New()

	r, err := Load(context.Background(), layout, sh, Options{})
	require.NoError(t, err)

	assert.Len(t, r.Targets(), 1)
	assert.Len(t, r.Components(), 2)

	exe, ok := r.LookupComponent("exe-main", false)
	require.True(t, ok)
	resolved := exe.Component.Resolved["host-x86_64"]
	require.NotNil(t, resolved)
	assert.True(t, resolved.Enabled())
	assert.Equal(t, []string{"exe-main", "lib-foo"}, resolved.Required)
}

func TestLoadDuplicateIDErrors(t *testing.T) {
	root := newTestProject(t)
	writeFile(t, filepath.Join(root, "src/dup/manifest.json"), `{
		"$schema": "component.schema.json",
		"id": "lib-foo",
		"type": "lib"
	}`)

	layout := workspace.New(root)
	sh := hosttest.New()

	_, err := Load(context.Background(), layout, sh, Options{})
	assert.Error(t, err)
}

func TestLoadResolvesHostPkgExtern(t *testing.T) {
	root := newTestProject(t)
	writeFile(t, filepath.Join(root, "project.json"), `{
		"$schema": "project.schema.json",
		"id": "acme",
		"type": "project",
		"description": "Acme widgets",
		"extern": {"sdl2": {"names": ["sdl2"]}}
	}`)

	layout := workspace.New(root)
	sh := hosttest.New()
	sh.PkgConfigs["sdl2"] = [2][]string{{"-I/usr/include/SDL2"}, {"-lSDL2"}}

	r, err := Load(context.Background(), layout, sh, Options{})
	require.NoError(t, err)

	c, ok := r.LookupComponent("sdl2", false)
	require.True(t, ok)
	assert.Equal(t, "-I/usr/include/SDL2", c.Component.Props["cflags"].String())
	assert.Equal(t, "-lSDL2", c.Component.Props["ldflags"].String())
}

func TestLoadAppliesMixins(t *testing.T) {
	root := newTestProject(t)
	layout := workspace.New(root)
	sh := hosttest.New()

	r, err := Load(context.Background(), layout, sh, Options{Mixins: []string{"o2"}})
	require.NoError(t, err)

	target, ok := r.Targets()[0].AsTarget()
	require.True(t, ok)
	assert.Contains(t, target.Tools["cc"].Args, "-O2")
}
