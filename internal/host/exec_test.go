package host

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSShellMkdirAllAndRemoveAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	sh := OSShell{}

	require.NoError(t, sh.MkdirAll(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, sh.RemoveAll(filepath.Join(t.TempDir(), "a")))
	require.NoError(t, sh.RemoveAll(dir))
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestOSShellWhichFindsShell(t *testing.T) {
	sh := OSShell{}
	path, ok := sh.Which("sh")
	assert.True(t, ok)
	assert.NotEmpty(t, path)

	_, ok = sh.Which("definitely-not-a-real-command-xyz")
	assert.False(t, ok)
}

func TestOSShellFindNonRecursive(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cpp"), []byte(""), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.cpp"), []byte(""), 0o644))

	sh := OSShell{}
	result, err := sh.Find([]string{root}, []string{"*.cpp"}, false)
	require.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestOSShellFindRecursive(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cpp"), []byte(""), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.cpp"), []byte(""), 0o644))

	sh := OSShell{}
	result, err := sh.Find([]string{root}, []string{"*.cpp"}, true)
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestOSShellExecNonZeroExit(t *testing.T) {
	sh := OSShell{}
	err := sh.Exec(context.Background(), "sh", "-c", "exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with code 3")
}

func TestOSShellPopenSplitsLines(t *testing.T) {
	sh := OSShell{}
	lines, err := sh.Popen(context.Background(), "printf", "a\\nb\\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lines)
}

func TestOSShellNProcAtLeastOne(t *testing.T) {
	sh := OSShell{}
	assert.GreaterOrEqual(t, sh.NProc(), 1)
}
