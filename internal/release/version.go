package release

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Name of the file holding the release version in the staging directory.
const VersionFile = "VERSION"

// Layout of a release version: the UTC date of the first run, e.g. "20250131".
const versionLayout = "20060102"

// Returns the release version, creating it if necessary.
//
// If releaseDir holds a VERSION file, its trimmed content is returned, so
// that partial builds started on separate invocations agree on the version.
// Otherwise the version is derived from now and stored.
func DefineVersion(releaseDir string, now time.Time, perm os.FileMode) (string, error) {
	path := filepath.Join(releaseDir, VersionFile)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		v := strings.TrimSpace(string(data))
		if v == "" {
			return "", fmt.Errorf("%w: %s is empty", ErrVersion, path)
		}
		slog.Debug("reusing release version", "version", v, "path", path)
		return v, nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %w", ErrVersion, err)
	}

	v := now.UTC().Format(versionLayout)
	if err := os.WriteFile(path, []byte(v), perm); err != nil {
		return "", fmt.Errorf("%w: %w", ErrVersion, err)
	}

	slog.Info("defined release version", "version", v, "path", path)
	return v, nil
}
