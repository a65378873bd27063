package manifest

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/mitchellh/hashstructure"

	"github.com/cute-engineering/cutekit-go/internal/jexpr"
	"github.com/cute-engineering/cutekit-go/internal/workspace"
)

// Tool is one entry of a target or component's tools table: the compiler,
// linker, archiver, or copy command plus its fixed argument list and the
// ninja rule name it binds to.
type Tool struct {
	Cmd   string
	Args  []string
	Files []string
	Rule  string
}

// DefaultTools is merged into every target's tools table before mixins run.
func DefaultTools() map[string]Tool {
	return map[string]Tool{
		"cp": {Cmd: "cp"},
	}
}

// TargetData is the payload of a "target" manifest: the props a component's
// enableIf predicates are evaluated against, the toolchain, and routing
// overrides the resolver consults before falling back to provides/id
// matching.
type TargetData struct {
	Props   map[string]Scalar
	Tools   map[string]Tool
	Routing map[string]string

	hashOnce sync.Once
	hashid   string
}

func parseTarget(path string, data map[string]jexpr.Value) (*Manifest, error) {
	id := getString(data, "id", "")
	return &Manifest{
		ID:   id,
		Kind: KindTarget,
		Target: &TargetData{
			Props:   getScalarMap(data, "props"),
			Tools:   getTools(data, "tools"),
			Routing: getStringMap(data, "routing"),
		},
	}, nil
}

// HashID is a stable, deterministic content hash of this target's props and
// tools — it appears in the build directory name so two configurations of
// the same target id never alias the same output directory.
func (t *TargetData) HashID() string {
	t.hashOnce.Do(func() {
		h, err := hashstructure.Hash(struct {
			Props map[string]Scalar
			Tools map[string]Tool
		}{t.Props, t.Tools}, nil)
		if err != nil {
			t.hashid = "0"
			return
		}
		t.hashid = fmt.Sprintf("%x", h)
	})
	return t.hashid
}

// BuildDir returns this target's build output directory, suffixed with the
// first 8 hex characters of HashID and, for a "host" target, the host's own
// stable id.
func (t *TargetData) BuildDir(targetID string, hostID func() (string, error)) (string, error) {
	hashid := t.HashID()
	suffix := hashid
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	postfix := "-" + suffix

	if host, ok := t.Props["host"]; ok && host.Truthy() {
		id, err := hostID()
		if err != nil {
			return "", err
		}
		if len(id) > 8 {
			id = id[:8]
		}
		postfix += "-" + id
	}

	return filepath.Join(workspace.BuildSubdir, targetID+postfix), nil
}

// Route resolves a component spec through the target's routing table,
// falling back to the spec unchanged if it isn't overridden.
func (t *TargetData) Route(componentSpec string) string {
	if routed, ok := t.Routing[componentSpec]; ok {
		return routed
	}
	return componentSpec
}
