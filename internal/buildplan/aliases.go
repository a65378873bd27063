package buildplan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cute-engineering/cutekit-go/internal/ckerrors"
	"github.com/cute-engineering/cutekit-go/internal/host"
	"github.com/cute-engineering/cutekit-go/internal/manifest"
)

// generateAliases runs the pre-build alias-generation hook: every enabled
// Lib component whose source tree carries a "mod.h" or "_mod.h" gets a real
// shim file under <generated>/__aliases__ so other components can always
// write #include <id/mod.h> regardless of where the library actually lives.
// Virtual host-package components have no real source tree and are skipped.
func generateAliases(sh host.Shell, scope TargetScope) error {
	aliasesDir := scope.Registry.Layout.Aliases()

	for _, c := range scope.Registry.IterEnabled(scope.TargetID) {
		if c.Kind != manifest.KindLib || isHostPkgComponent(c) {
			continue
		}

		hits, err := sh.Find([]string{c.Dirname()}, []string{"mod.h", "_mod.h"}, true)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			continue
		}

		dest := filepath.Join(aliasesDir, c.ID)
		if _, err := os.Stat(dest); err == nil {
			continue
		}

		if err := sh.MkdirAll(aliasesDir); err != nil {
			return ckerrors.NewIO(aliasesDir, err)
		}
		content := fmt.Sprintf("#pragma once\n#include <%s/mod.h>\n", c.ID)
		if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
			return ckerrors.NewIO(dest, err)
		}
	}
	return nil
}

// isHostPkgComponent reports whether c is a synthesized HostPkg extern
// component, identified by its pseudo-path's parent directory — these are
// excluded from alias generation since src/_virtual is not a real directory.
func isHostPkgComponent(c *manifest.Manifest) bool {
	return filepath.Base(filepath.Dir(c.Dirname())) == "_virtual"
}
