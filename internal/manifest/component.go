package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cute-engineering/cutekit-go/internal/jexpr"
)

// Resolved is the per-target outcome the resolver writes back onto a
// component: either a reason the component is disabled, or its fully
// flattened, cycle-checked link order.
type Resolved struct {
	Reason   string
	Required []string
	Injected []string
}

// Enabled reports whether resolution succeeded for this component on this
// target.
func (r Resolved) Enabled() bool { return r.Reason == "" }

// ComponentData is the payload of a "lib" or "exe" manifest.
type ComponentData struct {
	Description string
	Props       map[string]Scalar
	Tools       map[string]Tool
	EnableIf    map[string][]Scalar
	Requires    []string
	Provides    []string
	Subdirs     []string
	Injects     []string

	// Resolved holds one entry per target id this component has been
	// resolved against — a component can be built for several targets in
	// the same registry load.
	Resolved map[string]*Resolved
}

func parseComponent(kind Kind) func(path string, data map[string]jexpr.Value) (*Manifest, error) {
	return func(path string, data map[string]jexpr.Value) (*Manifest, error) {
		id := getString(data, "id", "")
		return &Manifest{
			ID:   id,
			Kind: kind,
			Component: &ComponentData{
				Description: getString(data, "description", "(No description)"),
				Props:       getScalarMap(data, "props"),
				Tools:       getTools(data, "tools"),
				EnableIf:    getEnableIf(data, "enableIf"),
				Requires:    getStringSlice(data, "requires"),
				Provides:    getStringSlice(data, "provides"),
				Subdirs:     getStringSlice(data, "subdirs"),
				Injects:     getStringSlice(data, "injects"),
				Resolved:    map[string]*Resolved{},
			},
		}, nil
	}
}

// IsEnabled evaluates this component's enableIf table against a target's
// props, returning the first unmet predicate's diagnostic message. Keys are
// checked in sorted order so the reported reason is deterministic even
// though EnableIf is a Go map.
func (c *ComponentData) IsEnabled(target *TargetData) (bool, string) {
	keys := make([]string, 0, len(c.EnableIf))
	for key := range c.EnableIf {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		allowed := c.EnableIf[key]
		prop, ok := target.Props[key]
		if !ok {
			return false, fmt.Sprintf("Missing props '%s' in target", key)
		}

		matched := false
		for _, want := range allowed {
			if prop.Equal(want) {
				matched = true
				break
			}
		}
		if !matched {
			wants := make([]string, len(allowed))
			for i, want := range allowed {
				wants[i] = fmt.Sprintf("'%s'", pythonStr(want))
			}
			return false, fmt.Sprintf("Props missmatch for '%s': Got '%s' but expected %s", key, pythonStr(prop), strings.Join(wants, ", "))
		}
	}
	return true, ""
}

// pythonStr renders a Scalar the way Python's str() would, since the
// resolver's diagnostic strings are matched verbatim against the original
// tool's output — notably "True"/"False" rather than Go's "true"/"false".
func pythonStr(s Scalar) string {
	if s.Kind == ScalarBool {
		if s.B {
			return "True"
		}
		return "False"
	}
	return s.String()
}
