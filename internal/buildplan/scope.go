package buildplan

import (
	"path/filepath"

	"github.com/cute-engineering/cutekit-go/internal/registry"
)

// TargetScope is everything a variable or rule needs to know to render
// itself for one target: the full registry plus the target being built.
type TargetScope struct {
	Registry   *registry.Registry
	TargetID   string
	Target     *targetHandle
	HostIDFunc func() (string, error)
}

// targetHandle adapts manifest.TargetData with the handful of derived
// values buildplan needs repeatedly.
type targetHandle struct {
	BuildDir string
	HashID   string
}

// ComponentScope narrows a TargetScope to one component.
type ComponentScope struct {
	TargetScope
	ComponentID string
	Dirname     string
}

// BuildPath returns a path under this component's private object directory:
// <target-builddir>/<component-id>/<rel>.
func (s ComponentScope) BuildPath(rel string) string {
	return filepath.Join(s.Target.BuildDir, s.ComponentID, rel)
}
