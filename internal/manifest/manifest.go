// Package manifest loads and represents CuteKit project, target, and
// component manifests: JSON or TOML files expanded through internal/jexpr
// and parsed into a small tagged-variant Manifest type, dispatched on a
// manifest's declared "type" by a fixed lookup table, never by reflection.
// The "$schema" field is dropped before parsing and is not validated: a
// missing or unrecognised schema URI is not an error.
package manifest

import (
	"fmt"
	"path/filepath"

	"github.com/cute-engineering/cutekit-go/internal/ckerrors"
	"github.com/cute-engineering/cutekit-go/internal/jexpr"
)

// Kind tags which manifest variant a file declares itself to be.
type Kind string

const (
	KindUnknown Kind = "unknown"
	KindProject Kind = "project"
	KindTarget  Kind = "target"
	KindLib     Kind = "lib"
	KindExe     Kind = "exe"
)

// Suffixes lists the file extensions Manifest.TryLoad probes for, in order.
var Suffixes = []string{".json", ".toml"}

// SuffixGlobs is the wildcard form of Suffixes, for host.Shell.Find.
var SuffixGlobs = []string{"*.json", "*.toml"}

// Manifest is the tagged union of the three manifest shapes a file on disk
// can hold. Exactly one of Project/Target/Component is non-nil, selected by
// Kind. Components common to Project/Target/Component manifests (their
// declared id and source path) live directly on Manifest.
type Manifest struct {
	ID   string
	Kind Kind
	Path string

	Project   *ProjectData
	Target    *TargetData
	Component *ComponentData
}

// AsProject returns the Project payload and true if m is a project manifest.
func (m *Manifest) AsProject() (*ProjectData, bool) { return m.Project, m.Project != nil }

// AsTarget returns the Target payload and true if m is a target manifest.
func (m *Manifest) AsTarget() (*TargetData, bool) { return m.Target, m.Target != nil }

// AsComponent returns the Component payload and true if m is a lib/exe
// component manifest.
func (m *Manifest) AsComponent() (*ComponentData, bool) { return m.Component, m.Component != nil }

// Dirname returns the directory containing the manifest's source file.
func (m *Manifest) Dirname() string {
	return filepath.Dir(m.Path)
}

// kindParsers is the fixed "type" dispatch table. Adding a manifest
// variant means adding an entry here, never a type switch scattered across
// the loader.
var kindParsers = map[Kind]func(path string, data map[string]jexpr.Value) (*Manifest, error){
	KindProject: parseProject,
	KindTarget:  parseTarget,
	KindLib:     parseComponent(KindLib),
	KindExe:     parseComponent(KindExe),
}

// Parse builds a Manifest from an already jexpr-expanded data tree, keyed
// by the manifest's declared "type" field.
func Parse(path string, data map[string]jexpr.Value) (*Manifest, error) {
	rawType, ok := data["type"].(string)
	if !ok {
		return nil, ckerrors.NewConfig(path, "manifest is missing a \"type\" field")
	}
	kind := Kind(rawType)
	parser, ok := kindParsers[kind]
	if !ok {
		return nil, ckerrors.NewConfig(path, fmt.Sprintf("unknown manifest type %q", rawType))
	}
	delete(data, "$schema")
	m, err := parser(path, data)
	if err != nil {
		return nil, err
	}
	m.Path = path
	return m, nil
}

// TryLoad probes path+Suffixes for an existing manifest file, expands it
// through jexpr, and parses it. Returns (nil, nil) if no file with a known
// suffix exists at path.
func TryLoad(path string, globals map[string]jexpr.Value) (*Manifest, error) {
	for _, suffix := range Suffixes {
		candidate := path + suffix
		if !fileExists(candidate) {
			continue
		}
		data, err := jexpr.Include(candidate, nil, globals)
		if err != nil {
			return nil, err
		}
		m, ok := data.(map[string]jexpr.Value)
		if !ok {
			return nil, ckerrors.NewConfig(candidate, "manifest root must be an object")
		}
		return Parse(candidate, m)
	}
	return nil, nil
}

// Load is TryLoad but treats a missing file as an error.
func Load(path string, globals map[string]jexpr.Value) (*Manifest, error) {
	m, err := TryLoad(path, globals)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ckerrors.NewIO(path, fmt.Errorf("no manifest found with suffix %v", Suffixes))
	}
	return m, nil
}
