package buildplan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cute-engineering/cutekit-go/internal/host"
	"github.com/cute-engineering/cutekit-go/internal/manifest"
)

// CompileCommand is one entry of a clang-compatible compile_commands.json:
// the source file, the directory the compiler ran from, and the full
// command line used to compile it.
type CompileCommand struct {
	Directory string `json:"directory"`
	Command   string `json:"command"`
	File      string `json:"file"`
}

// CompileCommands renders the compilation database for every enabled
// component's C/C++ sources, without needing the ninja runner to build
// anything — the alternative emission mode a language server or static
// analyzer consumes instead of the generated build.ninja.
func (p *Plan) CompileCommands(scope TargetScope) ([]CompileCommand, error) {
	sh := host.OSShell{}
	td, ok := scope.Registry.Manifests[scope.TargetID].AsTarget()
	if !ok {
		return nil, fmt.Errorf("target %q not found", scope.TargetID)
	}

	var out []CompileCommand
	for _, c := range scope.Registry.IterEnabled(scope.TargetID) {
		cs := ComponentScope{TargetScope: scope, ComponentID: c.ID, Dirname: c.Dirname()}

		entries, err := compileCommandsFor(sh, td, cs, "cc", []string{"*.c"})
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)

		entries, err = compileCommandsFor(sh, td, cs, "cxx", []string{"*.cpp", "*.cc", "*.cxx"})
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

func compileCommandsFor(sh host.Shell, td *manifest.TargetData, scope ComponentScope, toolName string, patterns []string) ([]CompileCommand, error) {
	srcs, err := wildcard(sh, scope, patterns)
	if err != nil {
		return nil, err
	}
	if len(srcs) == 0 {
		return nil, nil
	}

	tool, ok := td.Tools[toolName]
	if !ok {
		return nil, nil
	}
	rule, ok := Rules[toolName]
	if !ok {
		return nil, nil
	}

	var entries []CompileCommand
	for _, src := range srcs {
		rel, err := filepath.Rel(scope.Dirname, src)
		if err != nil {
			return nil, err
		}
		dest := scope.BuildPath(filepath.Join("__obj__", rel+".o"))

		args := append(append([]string{}, rule.Args...), tool.Args...)
		args = append(args, computeCincs(scope.TargetScope), computeCdefs(scope.TargetScope), "-c", "-o", dest, src)
		cmd := tool.Cmd + " " + strings.Join(args, " ")

		entries = append(entries, CompileCommand{
			Directory: scope.Target.BuildDir,
			Command:   cmd,
			File:      src,
		})
	}
	return entries, nil
}
