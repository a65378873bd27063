// Package workspace defines the on-disk directory layout shared by the
// registry, resolver, and build-plan generator.
package workspace

import (
	"os"
	"path/filepath"
)

// Layout holds the resolved absolute paths for one workspace root.
type Layout struct {
	Root string
}

// Directory name constants, relative to a project root or to a target's
// build directory — mirrors the original `const.py` module.
const (
	ProjectDir  = ".cutekit"
	SrcDir      = "src"
	MetaDir     = "meta"
	TargetsDir  = "meta/targets"
	PluginsDir  = "meta/plugins"
	BuildSubdir = ".cutekit/build"
	ExternDir   = ".cutekit/extern"
	CacheDir    = ".cutekit/cache"
	GeneratedDir = ".cutekit/generated"
	AliasesDir   = ".cutekit/generated/__aliases__"
	LogFile      = ".cutekit/cutekit.log"

	// VirtualSrcDir is the pseudo-path synthesized host-package components
	// are given instead of a real source directory. Alias generation skips
	// any component rooted here, since there is no directory to scan.
	VirtualSrcDir = "src/_virtual"
)

// New resolves a Layout rooted at root (must already be absolute).
func New(root string) Layout {
	return Layout{Root: root}
}

// BuildDir returns the build output directory for a target id/hashid pair,
// e.g. ".cutekit/build/host-x86_64-deadbeef12".
func (l Layout) BuildDir(targetID, hashid string) string {
	return filepath.Join(l.Root, BuildSubdir, targetID+"-"+hashid)
}

func (l Layout) ExternPath(name string) string {
	return filepath.Join(l.Root, ExternDir, name)
}

func (l Layout) Generated() string {
	return filepath.Join(l.Root, GeneratedDir)
}

func (l Layout) Aliases() string {
	return filepath.Join(l.Root, AliasesDir)
}

func (l Layout) LogPath() string {
	return filepath.Join(l.Root, LogFile)
}

func (l Layout) TargetsPath() string {
	return filepath.Join(l.Root, TargetsDir)
}

func (l Layout) SrcPath() string {
	return filepath.Join(l.Root, SrcDir)
}

// Topmost walks upward from start, returning the highest ancestor directory
// that contains a project.json or project.toml file. Returns ("", false) if
// none exists between start and the filesystem root.
func Topmost(start string) (string, bool) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}

	dir := abs
	found := ""
	for {
		if hasProjectManifest(dir) {
			found = dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return found, found != ""
}

func hasProjectManifest(dir string) bool {
	for _, suffix := range []string{".json", ".toml"} {
		if _, err := os.Stat(filepath.Join(dir, "project"+suffix)); err == nil {
			return true
		}
	}
	return false
}
