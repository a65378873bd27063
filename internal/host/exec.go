package host

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/cute-engineering/cutekit-go/internal/ckerrors"
)

// OSShell is the one concrete, process-spawning Shell implementation. It
// shells out to git, pkg-config and the host's own process table the same
// way the original tool did, rather than reimplementing any of those in
// Go.
type OSShell struct{}

var _ Shell = OSShell{}

func (OSShell) Uname() (Uname, error) {
	machine := runtime.GOARCH
	switch machine {
	case "arm64":
		machine = "arm64"
	case "amd64":
		machine = "x86_64"
	}
	return Uname{Sysname: runtime.GOOS, Machine: machine}, nil
}

func (OSShell) Popen(ctx context.Context, cmd string, args ...string) ([]string, error) {
	c := exec.CommandContext(ctx, cmd, args...)
	out, err := c.Output()
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil, &ckerrors.ShellError{Cmd: cmd, Args: args, ExitCode: c.ProcessState.ExitCode(), Cause: err}
		}
		return nil, &ckerrors.ShellError{Cmd: cmd, Args: args, ExitCode: -1, Cause: err}
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	return lines, nil
}

func (OSShell) Which(cmd string) (string, bool) {
	p, err := exec.LookPath(cmd)
	if err != nil {
		return "", false
	}
	return p, true
}

func (OSShell) Latest(cmdPrefix string) (string, error) {
	pathEnv := os.Getenv("PATH")
	var versions []string
	for _, dir := range filepath.SplitList(pathEnv) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if name == cmdPrefix || strings.HasPrefix(name, cmdPrefix+"-") {
				rest := strings.TrimPrefix(name, cmdPrefix)
				if rest == "" || isAllDigitsDashed(rest) {
					versions = append(versions, name)
				}
			}
		}
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("%s: not found", cmdPrefix)
	}
	version := func(name string) int {
		n, err := strconv.Atoi(strings.TrimPrefix(name, cmdPrefix+"-"))
		if err != nil {
			return -1
		}
		return n
	}
	sort.SliceStable(versions, func(i, j int) bool { return version(versions[i]) < version(versions[j]) })
	return versions[len(versions)-1], nil
}

func isAllDigitsDashed(s string) bool {
	if !strings.HasPrefix(s, "-") {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 1
}

func (OSShell) NProc() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}

func (OSShell) Find(dirs []string, patterns []string, recursive bool) ([]string, error) {
	var result []string
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		if recursive {
			err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return nil
				}
				if matchesAny(d.Name(), patterns) {
					result = append(result, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if matchesAny(e.Name(), patterns) {
					result = append(result, filepath.Join(dir, e.Name()))
				}
			}
		}
	}
	return result, nil
}

func matchesAny(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

func (OSShell) MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

func (OSShell) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (OSShell) Exec(ctx context.Context, cmd string, args ...string) error {
	c := exec.CommandContext(ctx, cmd, args...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		exitCode := -1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
		return &ckerrors.ShellError{Cmd: cmd, Args: args, ExitCode: exitCode, Cause: err}
	}
	return nil
}

// GitClone clones url at tag into a temporary directory and then moves that
// whole checkout to dest. The clone is shallow (--depth=1) unless deep is
// true, in which case the full history is fetched.
func (o OSShell) GitClone(ctx context.Context, url, tag, dest string, deep bool) error {
	tmp, err := os.MkdirTemp("", "cutekit-extern-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	args := []string{"clone", "-q", "--branch", tag}
	if !deep {
		args = append(args, "--depth=1")
	}
	args = append(args, url, tmp)
	if err := o.Exec(ctx, "git", args...); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.Rename(tmp, dest)
}

func (o OSShell) PkgConfig(ctx context.Context, names []string) ([]string, []string, error) {
	if len(names) == 0 {
		return nil, nil, nil
	}
	cflagsOut, err := o.Popen(ctx, "pkg-config", append([]string{"--cflags"}, names...)...)
	if err != nil {
		return nil, nil, err
	}
	ldflagsOut, err := o.Popen(ctx, "pkg-config", append([]string{"--libs"}, names...)...)
	if err != nil {
		return nil, nil, err
	}
	var cflags, ldflags []string
	for _, line := range cflagsOut {
		cflags = append(cflags, strings.Fields(line)...)
	}
	for _, line := range ldflagsOut {
		ldflags = append(ldflags, strings.Fields(line)...)
	}
	return cflags, ldflags, nil
}

func (OSShell) HTTPGet(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(bufio.NewReader(resp.Body))
}
