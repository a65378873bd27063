// Package buildplan turns a resolved registry and target into a
// build.ninja file: one compile edge per source file, one resource-copy
// edge per file under a component's res/ directory, and one link or
// archive edge per enabled component, aggregated under a single "all"
// phony target. Grounded directly on the original tool's builder module.
package buildplan

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cute-engineering/cutekit-go/internal/buildplan/ninja"
	"github.com/cute-engineering/cutekit-go/internal/ckerrors"
	"github.com/cute-engineering/cutekit-go/internal/host"
	"github.com/cute-engineering/cutekit-go/internal/manifest"
	"github.com/cute-engineering/cutekit-go/internal/registry"
)

// Plan is a fully rendered build for one target: the path to its
// build.ninja file and the output path of every enabled component.
type Plan struct {
	BuildDir string
	NinjaPath string
	Outfiles map[string]string // component id -> output path
}

// NewTargetScope resolves a TargetScope for targetID, computing its build
// directory and content hash once.
func NewTargetScope(r *registry.Registry, targetID string, hostID func() (string, error)) (TargetScope, error) {
	t, ok := r.LookupTarget(targetID)
	if !ok {
		return TargetScope{}, ckerrors.NewResolution(fmt.Sprintf("unknown target %q", targetID))
	}
	td, _ := t.AsTarget()

	buildDir, err := td.BuildDir(targetID, hostID)
	if err != nil {
		return TargetScope{}, err
	}
	buildDir = filepath.Join(r.Layout.Root, buildDir)

	return TargetScope{
		Registry: r,
		TargetID: targetID,
		Target:   &targetHandle{BuildDir: buildDir, HashID: td.HashID()},
	}, nil
}

// Generate renders the complete .ninja file for scope to out.
func Generate(out io.Writer, scope TargetScope) error {
	w := ninja.NewWriter(out)
	w.Comment("File generated by cutekit-go, do not edit")
	w.Newline()

	td, _ := scope.Registry.Manifests[scope.TargetID].AsTarget()

	w.Separator("Variables")
	for _, name := range varOrder {
		value := vars[name](scope)
		if override, ok := td.Props["ck-"+name+"-override"]; ok {
			value = override.String()
		}
		if extra, ok := td.Props["ck-"+name+"-extra"]; ok {
			value += " " + extra.String()
		}
		w.Variable(name, value, 0)
	}
	w.Newline()

	w.Separator("Tools")
	toolNames := make([]string, 0, len(td.Tools))
	for name := range td.Tools {
		toolNames = append(toolNames, name)
	}
	sort.Strings(toolNames)

	for _, name := range toolNames {
		tool := td.Tools[name]
		rule, ok := Rules[name]
		if !ok {
			return ckerrors.NewConfig("", fmt.Sprintf("unknown rule %q referenced by target tools", name))
		}
		w.Variable(name, tool.Cmd, 0)
		w.Variable(name+"flags", append(append([]string{}, rule.Args...), tool.Args...), 0)

		depfile := ""
		if len(rule.Deps) > 0 {
			depfile = rule.Deps[0]
		}
		w.Rule(name, tool.Cmd+" "+strings.ReplaceAll(rule.Command, "$flags", "$"+name+"flags"), ninja.RuleOptions{Depfile: depfile})
		w.Newline()
	}

	w.Separator("Build")
	if _, err := renderAll(w, scope); err != nil {
		return err
	}

	return nil
}

func renderAll(w *ninja.Writer, scope TargetScope) ([]string, error) {
	var outs []string
	for _, c := range scope.Registry.IterEnabled(scope.TargetID) {
		cs := ComponentScope{TargetScope: scope, ComponentID: c.ID, Dirname: c.Dirname()}
		out, err := link(w, cs)
		if err != nil {
			return nil, err
		}
		outs = append(outs, out)
	}
	w.Build([]string{"all"}, "phony", outs, ninja.BuildOptions{})
	w.Default([]string{"all"})
	return outs, nil
}

// subdirs lists a component's own directory, its declared subdirs, and the
// directories of every component it injects into itself — the search root
// set for that component's source wildcard.
func subdirs(scope ComponentScope) []string {
	c := scope.Registry.Manifests[scope.ComponentID]
	result := []string{c.Dirname()}
	for _, sub := range c.Component.Subdirs {
		result = append(result, filepath.Join(c.Dirname(), sub))
	}
	for _, injID := range c.Component.Resolved[scope.TargetID].Injected {
		if inj, ok := scope.Registry.LookupComponent(injID, false); ok {
			injScope := ComponentScope{TargetScope: scope.TargetScope, ComponentID: inj.ID, Dirname: inj.Dirname()}
			result = append(result, subdirs(injScope)...)
		}
	}
	return result
}

func wildcard(sh host.Shell, scope ComponentScope, patterns []string) ([]string, error) {
	return sh.Find(subdirs(scope), patterns, false)
}

func compileSources(w *ninja.Writer, scope ComponentScope, rule string, srcs []string) ([]string, error) {
	c := scope.Registry.Manifests[scope.ComponentID]
	target, _ := scope.Registry.Manifests[scope.TargetID].AsTarget()
	tool, ok := target.Tools[rule]
	if !ok {
		return nil, ckerrors.NewConfig("", fmt.Sprintf("target has no %q tool configured", rule))
	}

	var objs []string
	for _, src := range srcs {
		rel, err := filepath.Rel(c.Dirname(), src)
		if err != nil {
			return nil, err
		}
		dest := scope.BuildPath(filepath.Join("__obj__", rel+".o"))
		w.Build([]string{dest}, rule, []string{src}, ninja.BuildOptions{OrderOnly: tool.Files})
		objs = append(objs, dest)
	}
	return objs, nil
}

func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix
}

func listResources(sh host.Shell, c *manifest.Manifest) ([]string, error) {
	resDir := filepath.Join(c.Dirname(), "res")
	return sh.Find([]string{resDir}, nil, true)
}

func compileResources(sh host.Shell, w *ninja.Writer, scope ComponentScope) ([]string, error) {
	c := scope.Registry.Manifests[scope.ComponentID]
	resDir := filepath.Join(c.Dirname(), "res")
	files, err := listResources(sh, c)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range files {
		rel, err := filepath.Rel(resDir, f)
		if err != nil {
			return nil, err
		}
		dest := scope.BuildPath(filepath.Join("__res__", rel))
		w.Build([]string{dest}, "cp", []string{f}, ninja.BuildOptions{})
		out = append(out, dest)
	}
	return out, nil
}

// outfile returns the final build product path for a component: a static
// archive for a lib, an executable for an exe.
func outfile(scope ComponentScope) string {
	c := scope.Registry.Manifests[scope.ComponentID]
	if c.Kind == manifest.KindLib {
		return scope.BuildPath(filepath.Join("__lib__", c.ID+".a"))
	}
	return scope.BuildPath(filepath.Join("__bin__", c.ID+".out"))
}

func collectLibs(scope ComponentScope) ([]string, error) {
	c := scope.Registry.Manifests[scope.ComponentID]
	resolved := c.Component.Resolved[scope.TargetID]

	var libs []string
	for _, reqID := range resolved.Required {
		if reqID == c.ID {
			continue
		}
		req, ok := scope.Registry.LookupComponent(reqID, false)
		if !ok {
			return nil, ckerrors.NewResolution(fmt.Sprintf("resolved dependency %q vanished from registry", reqID))
		}
		if req.Kind != manifest.KindLib {
			return nil, ckerrors.NewConfig("", fmt.Sprintf("component %q is not a library", reqID))
		}
		reqScope := ComponentScope{TargetScope: scope.TargetScope, ComponentID: req.ID, Dirname: req.Dirname()}
		libs = append(libs, outfile(reqScope))
	}
	return libs, nil
}

func link(w *ninja.Writer, scope ComponentScope) (string, error) {
	w.Newline()
	out := outfile(scope)

	var objs []string
	sh := host.OSShell{}

	cSrcs, err := wildcard(sh, scope, []string{"*.c"})
	if err != nil {
		return "", err
	}
	ccObjs, err := compileSources(w, scope, "cc", cSrcs)
	if err != nil {
		return "", err
	}
	objs = append(objs, ccObjs...)

	cxxSrcs, err := wildcard(sh, scope, []string{"*.cpp", "*.cc", "*.cxx"})
	if err != nil {
		return "", err
	}
	cxxObjs, err := compileSources(w, scope, "cxx", cxxSrcs)
	if err != nil {
		return "", err
	}
	objs = append(objs, cxxObjs...)

	asmSrcs, err := wildcard(sh, scope, []string{"*.s", "*.asm", "*.S"})
	if err != nil {
		return "", err
	}
	asmObjs, err := compileSources(w, scope, "as", asmSrcs)
	if err != nil {
		return "", err
	}
	objs = append(objs, asmObjs...)

	res, err := compileResources(sh, w, scope)
	if err != nil {
		return "", err
	}

	c := scope.Registry.Manifests[scope.ComponentID]
	if c.Kind == manifest.KindLib {
		w.Build([]string{out}, "ar", objs, ninja.BuildOptions{Implicit: res})
	} else {
		libs, err := collectLibs(scope)
		if err != nil {
			return "", err
		}
		w.Build([]string{out}, "ld", append(objs, libs...), ninja.BuildOptions{
			Implicit:  res,
			Variables: map[string]string{"objs": strings.Join(objs, " "), "libs": strings.Join(libs, " ")},
		})
	}
	return out, nil
}

// Build writes scope's build.ninja file if it doesn't already exist and
// returns a Plan describing every enabled component's output path. It
// never invokes the ninja binary itself — running the generated file is
// the CLI's job, not the plan generator's.
func Build(ctx context.Context, scope TargetScope) (*Plan, error) {
	if err := os.MkdirAll(scope.Target.BuildDir, 0o755); err != nil {
		return nil, ckerrors.NewIO(scope.Target.BuildDir, err)
	}

	sh := host.OSShell{}
	if err := generateAliases(sh, scope); err != nil {
		return nil, err
	}

	ninjaPath := filepath.Join(scope.Target.BuildDir, "build.ninja")
	if _, err := os.Stat(ninjaPath); os.IsNotExist(err) {
		if err := writeNinjaAtomically(ninjaPath, scope); err != nil {
			return nil, err
		}
	}

	outs := map[string]string{}
	for _, c := range scope.Registry.IterEnabled(scope.TargetID) {
		cs := ComponentScope{TargetScope: scope, ComponentID: c.ID, Dirname: c.Dirname()}
		outs[c.ID] = outfile(cs)
	}

	return &Plan{BuildDir: scope.Target.BuildDir, NinjaPath: ninjaPath, Outfiles: outs}, nil
}

// writeNinjaAtomically renders scope's build.ninja into a temp file next to
// the final path and renames it into place, so a crash or concurrent build
// never observes a half-written build.ninja.
func writeNinjaAtomically(ninjaPath string, scope TargetScope) error {
	tmp, err := os.CreateTemp(filepath.Dir(ninjaPath), ".build.ninja.*.tmp")
	if err != nil {
		return ckerrors.NewIO(ninjaPath, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := Generate(tmp, scope); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return ckerrors.NewIO(tmpPath, err)
	}
	if err := os.Rename(tmpPath, ninjaPath); err != nil {
		return ckerrors.NewIO(ninjaPath, err)
	}
	return nil
}
