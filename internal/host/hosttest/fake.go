// Package hosttest provides an in-memory host.Shell fake for unit tests
// elsewhere in the module, so jexpr and registry tests never spawn real
// processes or touch the network.
package hosttest

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cute-engineering/cutekit-go/internal/host"
)

// Fake is a scriptable host.Shell. Zero value is usable; populate the
// exported maps before use to control responses.
type Fake struct {
	UnameResult host.Uname
	PopenOutput map[string][]string // key: cmd + " " + strings.Join(args, " ")
	WhichPaths  map[string]string
	LatestPaths map[string]string
	NProcValue  int
	Files       map[string]bool // set of file paths "found" by Find
	Dirs        map[string]bool

	Execs      []string // records of Exec invocations, for assertions
	Clones     []string
	PkgConfigs map[string][2][]string // name -> {cflags, ldflags}
	HTTPBodies map[string][]byte
}

var _ host.Shell = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		UnameResult: host.Uname{Sysname: "linux", Machine: "x86_64"},
		PopenOutput: map[string][]string{},
		WhichPaths:  map[string]string{},
		LatestPaths: map[string]string{},
		NProcValue:  4,
		Files:       map[string]bool{},
		Dirs:        map[string]bool{},
		PkgConfigs:  map[string][2][]string{},
		HTTPBodies:  map[string][]byte{},
	}
}

func (f *Fake) Uname() (host.Uname, error) { return f.UnameResult, nil }

func (f *Fake) Popen(_ context.Context, cmd string, args ...string) ([]string, error) {
	key := cmd + " " + strings.Join(args, " ")
	if out, ok := f.PopenOutput[key]; ok {
		return out, nil
	}
	return nil, fmt.Errorf("hosttest: no scripted output for %q", key)
}

func (f *Fake) Which(cmd string) (string, bool) {
	p, ok := f.WhichPaths[cmd]
	return p, ok
}

func (f *Fake) Latest(prefix string) (string, error) {
	if p, ok := f.LatestPaths[prefix]; ok {
		return p, nil
	}
	return "", fmt.Errorf("hosttest: %s not found", prefix)
}

func (f *Fake) NProc() int { return f.NProcValue }

func (f *Fake) Find(dirs []string, patterns []string, recursive bool) ([]string, error) {
	var result []string
	for path := range f.Files {
		for _, dir := range dirs {
			rel, err := filepath.Rel(dir, path)
			if err != nil || strings.HasPrefix(rel, "..") {
				continue
			}
			if !recursive && strings.Contains(rel, string(filepath.Separator)) {
				continue
			}
			if len(patterns) == 0 {
				result = append(result, path)
				continue
			}
			for _, pat := range patterns {
				if ok, _ := filepath.Match(pat, filepath.Base(path)); ok {
					result = append(result, path)
					break
				}
			}
		}
	}
	sort.Strings(result)
	return result, nil
}

func (f *Fake) MkdirAll(dir string) error {
	f.Dirs[dir] = true
	return nil
}

func (f *Fake) RemoveAll(path string) error {
	delete(f.Dirs, path)
	delete(f.Files, path)
	return nil
}

func (f *Fake) Exec(_ context.Context, cmd string, args ...string) error {
	f.Execs = append(f.Execs, cmd+" "+strings.Join(args, " "))
	return nil
}

func (f *Fake) GitClone(_ context.Context, url, tag, dest string, deep bool) error {
	f.Clones = append(f.Clones, fmt.Sprintf("%s@%s -> %s (deep=%v)", url, tag, dest, deep))
	f.Dirs[dest] = true
	return nil
}

func (f *Fake) PkgConfig(_ context.Context, names []string) ([]string, []string, error) {
	var cflags, ldflags []string
	for _, n := range names {
		pair, ok := f.PkgConfigs[n]
		if !ok {
			return nil, nil, fmt.Errorf("hosttest: unknown pkg-config package %q", n)
		}
		cflags = append(cflags, pair[0]...)
		ldflags = append(ldflags, pair[1]...)
	}
	return cflags, ldflags, nil
}

func (f *Fake) HTTPGet(_ context.Context, url string) ([]byte, error) {
	if body, ok := f.HTTPBodies[url]; ok {
		return body, nil
	}
	return nil, fmt.Errorf("hosttest: no scripted body for %q", url)
}
