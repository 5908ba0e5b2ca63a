package hash

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/containerd/errdefs"
	"github.com/opencontainers/go-digest"
)

// Returns the hex-encoded SHA-256 digest of the file at path.
//
// A missing file yields an error matching both [ErrArtifactMissing] and
// [errdefs.ErrNotFound]. Any other read failure wraps [ErrHash].
func File(path string) (string, error) {
	d, err := Digest(path)
	if err != nil {
		return "", err
	}
	return d.Encoded(), nil
}

// Returns the SHA-256 digest of the file at path in its algorithm-prefixed
// form ("sha256:...").
func Digest(path string) (digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %w: %s", ErrArtifactMissing, errdefs.ErrNotFound, path)
		}
		return "", fmt.Errorf("%w: %w", ErrHash, err)
	}
	defer f.Close()

	slog.Debug("computing digest", "path", path)

	return Reader(f)
}

// Returns the SHA-256 digest of everything read from r.
func Reader(r io.Reader) (digest.Digest, error) {
	digester := digest.SHA256.Digester()
	if _, err := io.Copy(digester.Hash(), r); err != nil {
		return "", fmt.Errorf("%w: %w", ErrHash, err)
	}
	return digester.Digest(), nil
}
