package registry

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cute-engineering/cutekit-go/internal/manifest"
)

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// globManifestFiles walks dir recursively (if it exists) for any file whose
// extension is a known manifest suffix, returning paths sorted for
// deterministic load order.
func globManifestFiles(dir string) []string {
	if !dirExists(dir) {
		return nil
	}
	var out []string
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		for _, suffix := range manifest.Suffixes {
			if strings.HasSuffix(path, suffix) {
				out = append(out, path)
				break
			}
		}
		return nil
	})
	sort.Strings(out)
	return out
}

// trimManifestSuffix strips a known manifest extension so the result can be
// re-probed by manifest.Load, which appends the suffix itself.
func trimManifestSuffix(path string) string {
	for _, suffix := range manifest.Suffixes {
		if strings.HasSuffix(path, suffix) {
			return strings.TrimSuffix(path, suffix)
		}
	}
	return path
}
