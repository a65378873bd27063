package ninja

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapePathHandlesSpacesAndColons(t *testing.T) {
	assert.Equal(t, `foo$ bar$:baz`, EscapePath("foo bar:baz"))
}

func TestEscapeDoublesDollar(t *testing.T) {
	assert.Equal(t, "a$$b", Escape("a$b"))
}

func TestVariableWritesKeyValue(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.Variable("cflags", []string{"-Wall", "", "-O2"}, 0)
	assert.Equal(t, "cflags = -Wall -O2\n", sb.String())
}

func TestVariableNilValueWritesNothing(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.Variable("cflags", nil, 0)
	assert.Equal(t, "", sb.String())
}

func TestRuleEmitsCommandAndOptions(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.Rule("cc", "cc -c $in -o $out", RuleOptions{Depfile: "$out.d", Description: "compile $out"})
	out := sb.String()
	assert.Contains(t, out, "rule cc\n")
	assert.Contains(t, out, "  command = cc -c $in -o $out\n")
	assert.Contains(t, out, "  depfile = $out.d\n")
	assert.Contains(t, out, "  description = compile $out\n")
}

func TestBuildEmitsImplicitAndOrderOnly(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.Build([]string{"out.o"}, "cc", []string{"in.c"}, BuildOptions{
		Implicit:  []string{"header.h"},
		OrderOnly: []string{"gen-dir"},
	})
	assert.Equal(t, "build out.o: cc in.c | header.h || gen-dir\n", sb.String())
}

func TestLineWrapsLongStatements(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	longInputs := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		longInputs = append(longInputs, "some/fairly/long/path/to/object/file_"+string(rune('a'+i))+".o")
	}
	w.Build([]string{"out.a"}, "ar", longInputs, BuildOptions{})
	out := sb.String()
	assert.True(t, strings.Contains(out, "$\n"), "expected wrapped continuation, got: %s", out)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), w.width+2)
	}
}

func TestDefaultAndIncludeAndSubninja(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.Include("rules.ninja")
	w.Subninja("sub/build.ninja")
	w.Default([]string{"all"})
	assert.Equal(t, "include rules.ninja\nsubninja sub/build.ninja\ndefault all\n", sb.String())
}

func TestSeparatorPadsToWidth(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.Separator("Rules")
	line := strings.TrimSuffix(strings.TrimSuffix(sb.String(), "\n"), "\n")
	assert.Contains(t, line, "--- Rules ---")
}

func TestCommentWrapsAtWidth(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.Comment(strings.Repeat("word ", 40))
	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		assert.True(t, strings.HasPrefix(line, "# "))
	}
}
