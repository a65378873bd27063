package manifest

import (
	"path/filepath"

	"github.com/cute-engineering/cutekit-go/internal/jexpr"
	"github.com/cute-engineering/cutekit-go/internal/workspace"
)

// Extern is one entry of a project's extern table: either a pinned git
// dependency (Git non-empty) or a host-package dependency resolved through
// pkg-config (Names non-empty). Exactly one of the two is set.
type Extern struct {
	Git  string
	Tag  string
	Deep bool

	// Names lists the pkg-config package names to resolve for a HostPkg
	// extern. Non-empty only when this extern has no Git.
	Names []string
}

// IsHostPkg reports whether this extern is a HostPkg variant, resolved
// through pkg-config instead of cloned from git.
func (e Extern) IsHostPkg() bool { return e.Git == "" }

// ProjectData is the payload of a "project" manifest — the workspace root
// marker, holding a human description and the table of git externs the
// registry fetches before discovering any targets or components.
type ProjectData struct {
	Description string
	Extern      map[string]Extern
}

// ExternDirs returns the paths (relative to the project root) each extern
// will be cloned into.
func (p *ProjectData) ExternDirs() []string {
	dirs := make([]string, 0, len(p.Extern))
	for name, ext := range p.Extern {
		if ext.IsHostPkg() {
			continue
		}
		dirs = append(dirs, filepath.Join(workspace.ExternDir, name))
	}
	return dirs
}

func parseProject(path string, data map[string]jexpr.Value) (*Manifest, error) {
	id := getString(data, "id", "")
	extern, err := getExterns(data, "extern")
	if err != nil {
		return nil, err
	}
	return &Manifest{
		ID:   id,
		Kind: KindProject,
		Project: &ProjectData{
			Description: getString(data, "description", "(No description)"),
			Extern:      extern,
		},
	}, nil
}
