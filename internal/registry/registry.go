// Package registry discovers and loads every manifest reachable from a
// project root — the project itself, its git externs, every target under
// meta/targets, and every component under src/ — then resolves each
// component against each target and composes final tooling. It is
// grounded directly on the original tool's Registry.load sequence.
package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cute-engineering/cutekit-go/internal/ckerrors"
	"github.com/cute-engineering/cutekit-go/internal/host"
	"github.com/cute-engineering/cutekit-go/internal/jexpr"
	"github.com/cute-engineering/cutekit-go/internal/manifest"
	"github.com/cute-engineering/cutekit-go/internal/mixins"
	"github.com/cute-engineering/cutekit-go/internal/output"
	"github.com/cute-engineering/cutekit-go/internal/resolver"
	"github.com/cute-engineering/cutekit-go/internal/workspace"
)

// Registry is the full set of manifests discovered from one project root,
// keyed by declared id.
type Registry struct {
	Layout    workspace.Layout
	Project   *manifest.Manifest
	Manifests map[string]*manifest.Manifest
}

var _ resolver.Lookup = (*Registry)(nil)

func newRegistry(layout workspace.Layout, project *manifest.Manifest) *Registry {
	return &Registry{Layout: layout, Project: project, Manifests: map[string]*manifest.Manifest{}}
}

// append registers m, erroring on a duplicate id — mirrors the original's
// refusal to silently shadow one manifest with another.
func (r *Registry) append(m *manifest.Manifest) error {
	if m == nil {
		return nil
	}
	if existing, ok := r.Manifests[m.ID]; ok {
		return ckerrors.NewConfig(m.Path, fmt.Sprintf("duplicate manifest id %q, already loaded from %q", m.ID, existing.Path))
	}
	r.Manifests[m.ID] = m
	return nil
}

// iterKind returns every manifest of the given kind, sorted by id for
// deterministic iteration order.
func (r *Registry) iterKind(kind manifest.Kind) []*manifest.Manifest {
	var out []*manifest.Manifest
	for _, m := range r.Manifests {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Components returns every lib/exe manifest. Implements resolver.Lookup.
func (r *Registry) Components() []*manifest.Manifest {
	libs := r.iterKind(manifest.KindLib)
	exes := r.iterKind(manifest.KindExe)
	out := make([]*manifest.Manifest, 0, len(libs)+len(exes))
	out = append(out, libs...)
	out = append(out, exes...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Targets returns every target manifest, sorted by id.
func (r *Registry) Targets() []*manifest.Manifest {
	return r.iterKind(manifest.KindTarget)
}

// LookupComponent finds a lib/exe manifest by id, optionally falling back
// to a provides match. Implements resolver.Lookup.
func (r *Registry) LookupComponent(id string, includeProvides bool) (*manifest.Manifest, bool) {
	if m, ok := r.Manifests[id]; ok && (m.Kind == manifest.KindLib || m.Kind == manifest.KindExe) {
		return m, true
	}
	if includeProvides {
		for _, m := range r.Components() {
			for _, p := range m.Component.Provides {
				if p == id {
					return m, true
				}
			}
		}
	}
	return nil, false
}

// LookupTarget finds a target manifest by id.
func (r *Registry) LookupTarget(id string) (*manifest.Manifest, bool) {
	m, ok := r.Manifests[id]
	if !ok || m.Kind != manifest.KindTarget {
		return nil, false
	}
	return m, true
}

// IterEnabled returns every component enabled for targetID, in id order.
func (r *Registry) IterEnabled(targetID string) []*manifest.Manifest {
	var out []*manifest.Manifest
	for _, m := range r.Components() {
		if resolved, ok := m.Component.Resolved[targetID]; ok && resolved.Enabled() {
			out = append(out, m)
		}
	}
	return out
}

// Options configures a Load call.
type Options struct {
	Mixins []string
	Props  map[string]manifest.Scalar
}

// Load discovers the project at layout.Root, fetches and loads its externs,
// discovers every target and component manifest, resolves every component
// against every target, applies injects, and composes final tooling —
// CuteKit's whole manifest load sequence in one call.
func Load(ctx context.Context, layout workspace.Layout, sh host.Shell, opts Options) (*Registry, error) {
	globals := jexpr.StandardGlobals(sh)

	project, err := manifest.Load(filepath.Join(layout.Root, "project"), globals)
	if err != nil {
		return nil, err
	}
	projectData, ok := project.AsProject()
	if !ok {
		return nil, ckerrors.NewConfig(project.Path, "workspace root manifest must be a project")
	}

	r := newRegistry(layout, project)
	if err := r.append(project); err != nil {
		return nil, err
	}

	if err := loadExterns(ctx, r, sh, globals, layout.Root, projectData); err != nil {
		return nil, err
	}

	for _, p := range r.iterKind(manifest.KindProject) {
		if err := discoverManifests(r, globals, p); err != nil {
			return nil, err
		}
	}

	for _, t := range r.Targets() {
		if err := resolveTarget(r, t, opts); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func loadExterns(ctx context.Context, r *Registry, sh host.Shell, globals map[string]jexpr.Value, root string, project *manifest.ProjectData) error {
	for name, ext := range project.Extern {
		if ext.IsHostPkg() {
			m, err := hostPkgComponent(ctx, sh, root, name, ext)
			if err != nil {
				return err
			}
			if err := r.append(m); err != nil {
				return err
			}
			continue
		}

		dest := filepath.Join(root, workspace.ExternDir, name)

		if !dirExists(dest) {
			output.Info("installing extern", "name", name, "tag", ext.Tag, "git", ext.Git)
			if err := sh.GitClone(ctx, ext.Git, ext.Tag, dest, ext.Deep); err != nil {
				return ckerrors.NewIO(dest, err)
			}
		}

		externManifest, err := manifest.TryLoad(filepath.Join(dest, "project"), globals)
		if err != nil {
			return err
		}
		if externManifest == nil {
			externManifest, err = manifest.TryLoad(filepath.Join(dest, "manifest"), globals)
			if err != nil {
				return err
			}
		}
		if externManifest == nil {
			output.Warn("extern has no project or manifest file", "name", name)
			continue
		}
		if err := r.append(externManifest); err != nil {
			return err
		}
	}
	return nil
}

// hostPkgComponent resolves a HostPkg extern through pkg-config and
// synthesizes the virtual Component(Lib) manifest that exposes its cflags
// and ldflags to the rest of the build, at the pseudo-path src/_virtual/name
// the alias-generation pass knows to skip.
func hostPkgComponent(ctx context.Context, sh host.Shell, root, name string, ext manifest.Extern) (*manifest.Manifest, error) {
	output.Info("resolving host package", "name", name, "names", ext.Names)
	cflags, ldflags, err := sh.PkgConfig(ctx, ext.Names)
	if err != nil {
		return nil, err
	}

	props := map[string]manifest.Scalar{}
	if len(cflags) > 0 {
		props["cflags"] = manifest.StringScalar(strings.Join(cflags, " "))
	}
	if len(ldflags) > 0 {
		props["ldflags"] = manifest.StringScalar(strings.Join(ldflags, " "))
	}

	return &manifest.Manifest{
		ID:   name,
		Kind: manifest.KindLib,
		Path: filepath.Join(root, workspace.VirtualSrcDir, name, "manifest"),
		Component: &manifest.ComponentData{
			Description: fmt.Sprintf("host package %q, resolved via pkg-config", name),
			Props:       props,
			Tools:       map[string]manifest.Tool{},
			EnableIf:    map[string][]manifest.Scalar{},
			Resolved:    map[string]*manifest.Resolved{},
		},
	}, nil
}

func discoverManifests(r *Registry, globals map[string]jexpr.Value, project *manifest.Manifest) error {
	root := project.Dirname()

	targetFiles := globManifestFiles(filepath.Join(root, workspace.TargetsDir))
	for _, f := range targetFiles {
		m, err := manifest.Load(trimManifestSuffix(f), globals)
		if err != nil {
			return err
		}
		if m.Kind != manifest.KindTarget {
			return ckerrors.NewConfig(f, "expected a target manifest")
		}
		if err := r.append(m); err != nil {
			return err
		}
	}

	if rootComponent, err := manifest.TryLoad(filepath.Join(root, "manifest"), globals); err != nil {
		return err
	} else if rootComponent != nil {
		if err := r.append(rootComponent); err != nil {
			return err
		}
	}

	componentFiles := globManifestFiles(filepath.Join(root, workspace.SrcDir))
	for _, f := range componentFiles {
		if filepath.Base(trimManifestSuffix(f)) != "manifest" {
			continue
		}
		m, err := manifest.Load(trimManifestSuffix(f), globals)
		if err != nil {
			return err
		}
		if m.Kind != manifest.KindLib && m.Kind != manifest.KindExe {
			return ckerrors.NewConfig(f, "expected a lib or exe manifest")
		}
		if err := r.append(m); err != nil {
			return err
		}
	}

	return nil
}

func resolveTarget(r *Registry, targetManifest *manifest.Manifest, opts Options) error {
	target, _ := targetManifest.AsTarget()
	for k, v := range opts.Props {
		target.Props[k] = v
	}

	res := resolver.New(r, target)
	for _, c := range r.Components() {
		resolved, err := res.Resolve(c.ID)
		if err != nil {
			return ckerrors.NewResolution(err.Error())
		}
		if !resolved.Enabled() {
			output.Debug("component disabled", "id", c.ID, "target", targetManifest.ID, "reason", resolved.Reason)
		}
		c.Component.Resolved[targetManifest.ID] = resolved
	}

	applyInjects(r, targetManifest.ID)

	return composeTools(r, targetManifest.ID, target, opts.Mixins)
}

// applyInjects walks every enabled component's injects list, recording the
// injector on its victim and prepending the injector's own required list
// onto the victim's — grounded on the original's injector-first merge.
func applyInjects(r *Registry, targetID string) {
	for _, c := range r.Components() {
		resolved := c.Component.Resolved[targetID]
		if !resolved.Enabled() {
			continue
		}
		for _, injectSpec := range c.Component.Injects {
			victim, ok := r.LookupComponent(injectSpec, true)
			if !ok {
				output.Debug("injection target not found", "inject", injectSpec, "from", c.ID)
				continue
			}
			victimResolved := victim.Component.Resolved[targetID]
			victimResolved.Injected = append(victimResolved.Injected, c.ID)
			victimResolved.Required = uniqPreserveOrder(append(append([]string{}, resolved.Required...), victimResolved.Required...))
		}
	}
}

func composeTools(r *Registry, targetID string, target *manifest.TargetData, mixinIDs []string) error {
	if target.Tools == nil {
		target.Tools = map[string]manifest.Tool{}
	}
	for k, v := range manifest.DefaultTools() {
		if _, ok := target.Tools[k]; !ok {
			target.Tools[k] = v
		}
	}

	for _, id := range mixinIDs {
		mixin, ok := mixins.ByID(id)
		if !ok {
			return ckerrors.NewConfig("", fmt.Sprintf("unknown mixin %q", id))
		}
		target.Tools = mixin(target, target.Tools)
	}

	for _, c := range r.Components() {
		if resolved, ok := c.Component.Resolved[targetID]; !ok || !resolved.Enabled() {
			continue
		}
		for k, v := range c.Component.Tools {
			tool := target.Tools[k]
			tool.Args = append(tool.Args, v.Args...)
			target.Tools[k] = tool
		}
	}

	return nil
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
