package buildplan

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cute-engineering/cutekit-go/internal/manifest"
)

// computeVar renders one of the fixed per-target ninja variables. Like the
// rule set, this is a closed table — a manifest cannot introduce a new
// computed variable, only replace or extend one of these four through the
// target's "ck-<name>-override" / "ck-<name>-extra" props.
type computeVar func(s TargetScope) string

var vars = map[string]computeVar{
	"builddir": func(s TargetScope) string { return s.Target.BuildDir },
	"hashid":   func(s TargetScope) string { return s.Target.HashID },
	"cincs":    computeCincs,
	"cdefs":    computeCdefs,
}

// varOrder fixes the emission order of the four variables in the generated
// file, since Go map iteration would otherwise be nondeterministic.
var varOrder = []string{"builddir", "hashid", "cincs", "cdefs"}

// computeCincs builds the -I search path list: every enabled component's
// own directory if it opts into "cpp-root-include", plus every enabled
// library's parent directory otherwise — letting `#include <lib/foo.h>`
// resolve regardless of where the library itself lives. A component with
// "cpp-excluded" contributes nothing. The two generated alias directories
// are always included so synthesized "<id>/mod.h" shims always resolve.
func computeCincs(s TargetScope) string {
	seen := map[string]bool{}
	for _, c := range s.Registry.IterEnabled(s.TargetID) {
		if _, ok := c.Component.Props["cpp-excluded"]; ok {
			continue
		}
		dir := c.Dirname()
		if _, ok := c.Component.Props["cpp-root-include"]; ok {
			seen[dir] = true
		} else if c.Kind == manifest.KindLib {
			seen[filepath.Dir(dir)] = true
		}
	}
	seen[s.Registry.Layout.Aliases()] = true
	seen[s.Registry.Layout.Generated()] = true
	return joinFlags(seen, "-I")
}

// computeCdefs turns target props into preprocessor defines: a true boolean
// prop gives `-D__ck_<key>__`, a false one gives nothing, and any other prop
// gives `-D__ck_<key>_<value>__` plus a `-D__ck_<key>_value=<value>`
// companion, so component code can branch on target configuration without
// reading the manifest at build time.
func computeCdefs(s TargetScope) string {
	defines := map[string]bool{}
	target := s.Registry.Manifests[s.TargetID]
	if target == nil {
		return ""
	}
	td, ok := target.AsTarget()
	if !ok {
		return ""
	}

	for key, val := range td.Props {
		sk := sanitize(key)
		switch val.Kind {
		case manifest.ScalarBool:
			if val.B {
				defines[fmt.Sprintf("-D__ck_%s__", sk)] = true
			}
		default:
			sv := sanitize(val.String())
			defines[fmt.Sprintf("-D__ck_%s_%s__", sk, sv)] = true
			defines[fmt.Sprintf("-D__ck_%s_value=%s", sk, val.String())] = true
		}
	}
	return joinFlags(defines, "")
}

func sanitize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, ".", "_")
	return s
}

func joinFlags(set map[string]bool, prefix string) string {
	flags := make([]string, 0, len(set))
	for k := range set {
		if prefix != "" {
			flags = append(flags, prefix+k)
		} else {
			flags = append(flags, k)
		}
	}
	sort.Strings(flags)
	return strings.Join(flags, " ")
}
