// Package mixins holds the fixed set of tool-table patches a target can opt
// into by name (cache, debug, sanitizers, optimization levels, tuning).
// Grounded directly on the original tool's mixins module: the same fixed
// map, the same patch helpers, no plugin mechanism.
package mixins

import "github.com/cute-engineering/cutekit-go/internal/manifest"

// Mixin patches a target's composed tool table, returning the patched copy.
type Mixin func(target *manifest.TargetData, tools map[string]manifest.Tool) map[string]manifest.Tool

func patchArgs(tools map[string]manifest.Tool, toolSpec string, args ...string) {
	tool := tools[toolSpec]
	tool.Args = append(tool.Args, args...)
	tools[toolSpec] = tool
}

func prefixCmd(tools map[string]manifest.Tool, toolSpec, prefix string) {
	tool := tools[toolSpec]
	tool.Cmd = prefix + " " + tool.Cmd
	tools[toolSpec] = tool
}

func cacheMixin(target *manifest.TargetData, tools map[string]manifest.Tool) map[string]manifest.Tool {
	prefixCmd(tools, "cc", "ccache")
	prefixCmd(tools, "cxx", "ccache")
	return tools
}

func debugMixin(target *manifest.TargetData, tools map[string]manifest.Tool) map[string]manifest.Tool {
	patchArgs(tools, "cc", "-g", "-gdwarf-4")
	patchArgs(tools, "cxx", "-g", "-gdwarf-4")
	return tools
}

func makeSanitizeMixin(sanitizer string) Mixin {
	return func(target *manifest.TargetData, tools map[string]manifest.Tool) map[string]manifest.Tool {
		patchArgs(tools, "cc", "-fsanitize="+sanitizer)
		patchArgs(tools, "cxx", "-fsanitize="+sanitizer)
		patchArgs(tools, "ld", "-fsanitize="+sanitizer)
		return tools
	}
}

func makeOptimizeMixin(level string) Mixin {
	return func(target *manifest.TargetData, tools map[string]manifest.Tool) map[string]manifest.Tool {
		patchArgs(tools, "cc", "-O"+level)
		patchArgs(tools, "cxx", "-O"+level)
		return tools
	}
}

func makeTuneMixin(tune string) Mixin {
	return func(target *manifest.TargetData, tools map[string]manifest.Tool) map[string]manifest.Tool {
		patchArgs(tools, "cc", "-mtune="+tune)
		patchArgs(tools, "cxx", "-mtune="+tune)
		return tools
	}
}

var registry = map[string]Mixin{
	"cache": cacheMixin,
	"debug": debugMixin,
	"asan":  makeSanitizeMixin("address"),
	"msan":  makeSanitizeMixin("memory"),
	"tsan":  makeSanitizeMixin("thread"),
	"ubsan": makeSanitizeMixin("undefined"),
	"tune":  makeTuneMixin("native"),
	"fast":  makeOptimizeMixin("fast"),
	"o3":    makeOptimizeMixin("3"),
	"o2":    makeOptimizeMixin("2"),
	"o1":    makeOptimizeMixin("1"),
	"o0":    makeOptimizeMixin("0"),
}

// ByID looks up a mixin by its manifest-facing name.
func ByID(id string) (Mixin, bool) {
	m, ok := registry[id]
	return m, ok
}
