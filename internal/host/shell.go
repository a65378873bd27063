// Package host defines the Shell interface — the external collaborator
// through which the Jexpr evaluator, the registry's extern fetcher, and the
// build-plan generator's file discovery reach the outside world. Process
// spawning, git, pkg-config and HTTP go through Shell so callers can
// substitute a fake in tests; plain directory creation and file writes in
// buildplan, output and workspace use package os directly.
package host

import "context"

// Uname reports the subset of uname(2) fields the manifest model and Jexpr
// evaluator need to pick a default target id and expose shell.uname().
type Uname struct {
	Sysname string
	Machine string
}

// Shell is the interface to the host operating system. jexpr and registry
// receive it from their caller; buildplan constructs an OSShell itself.
// OSShell in exec.go is the one concrete, process-spawning implementation,
// and a fake implementation lives in host/hosttest for unit tests.
type Shell interface {
	// Uname returns the current host's sysname/machine pair.
	Uname() (Uname, error)

	// Popen runs cmd with args and returns its stdout split into lines,
	// trailing empty lines trimmed.
	Popen(ctx context.Context, cmd string, args ...string) ([]string, error)

	// Which returns the absolute path of cmd on PATH, or ("", false) if
	// not found.
	Which(cmd string) (string, bool)

	// Latest picks the highest-numbered command on PATH named cmdPrefix or
	// cmdPrefix followed by a "-<number>" version suffix (e.g. "clang-18"
	// beats "clang-9" and "clang" for prefix "clang"), returning an error if
	// none match.
	Latest(cmdPrefix string) (string, error)

	// NProc returns the number of usable CPUs.
	NProc() int

	// Find globs for files matching any of patterns under each of dirs,
	// non-recursively unless recursive is true.
	Find(dirs []string, patterns []string, recursive bool) ([]string, error)

	// MkdirAll ensures dir and all parents exist.
	MkdirAll(dir string) error

	// RemoveAll recursively removes path.
	RemoveAll(path string) error

	// Exec runs cmd with args, streaming stdio through to the host
	// process's stdio, and returns a *ckerrors.ShellError on non-zero exit.
	Exec(ctx context.Context, cmd string, args ...string) error

	// GitClone clones url at the given tag into dest, shallow (--depth 1)
	// unless deep is true.
	GitClone(ctx context.Context, url, tag, dest string, deep bool) error

	// PkgConfig resolves a set of pkg-config package names to cflags and
	// ldflags token lists.
	PkgConfig(ctx context.Context, names []string) (cflags []string, ldflags []string, err error)

	// HTTPGet fetches url and returns the response body.
	HTTPGet(ctx context.Context, url string) ([]byte, error)
}
