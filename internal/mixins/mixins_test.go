package mixins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cute-engineering/cutekit-go/internal/manifest"
)

func TestCacheMixinPrefixesCompilers(t *testing.T) {
	mixin, ok := ByID("cache")
	require.True(t, ok)

	tools := map[string]manifest.Tool{"cc": {Cmd: "gcc"}, "cxx": {Cmd: "g++"}}
	tools = mixin(nil, tools)
	assert.Equal(t, "ccache gcc", tools["cc"].Cmd)
	assert.Equal(t, "ccache g++", tools["cxx"].Cmd)
}

func TestSanitizeMixinPatchesThreeTools(t *testing.T) {
	mixin, ok := ByID("asan")
	require.True(t, ok)

	tools := map[string]manifest.Tool{"cc": {}, "cxx": {}, "ld": {}}
	tools = mixin(nil, tools)
	assert.Contains(t, tools["cc"].Args, "-fsanitize=address")
	assert.Contains(t, tools["cxx"].Args, "-fsanitize=address")
	assert.Contains(t, tools["ld"].Args, "-fsanitize=address")
}

func TestOptimizeMixinLevel(t *testing.T) {
	mixin, ok := ByID("o2")
	require.True(t, ok)
	tools := mixin(nil, map[string]manifest.Tool{"cc": {}, "cxx": {}})
	assert.Contains(t, tools["cc"].Args, "-O2")
}

func TestUnknownMixinNotFound(t *testing.T) {
	_, ok := ByID("bogus")
	assert.False(t, ok)
}
