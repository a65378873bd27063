package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// HostID returns the 8-byte host-stable identifier stored at
// ~/.cutekit/hostid, generating and persisting one via google/uuid on
// first use. A newly generated id is the first 16 hex characters (8 bytes)
// of a random UUID; an existing file's trimmed contents are returned as is.
func HostID() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".cutekit")
	path := filepath.Join(dir, "hostid")

	if data, err := os.ReadFile(path); err == nil {
		id := strings.TrimSpace(string(data))
		if id != "" {
			return id, nil
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	if err := os.WriteFile(path, []byte(id), 0o644); err != nil {
		return "", err
	}
	return id, nil
}
