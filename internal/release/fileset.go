package release

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"syscall"
)

// Ordered set of files destined for the release directory.
//
// Paths are appended while a run progresses and moved exactly once by
// [FileSet.Finalize]. Safe for concurrent use.
type FileSet struct {
	mu        sync.Mutex
	paths     []string
	finalized bool
}

// Appends paths to the set.
func (s *FileSet) Add(paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, paths...)
}

// Moves every file into releaseDir, keeping its base name.
//
// Finalize may succeed only once; later calls fail with [ErrFinalized].
// Files on a different device are copied and then removed.
func (s *FileSet) Finalize(releaseDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrFinalized
	}
	s.finalized = true

	slog.Info("generating release", "path", releaseDir, "files", len(s.paths))

	for _, src := range s.paths {
		dst := filepath.Join(releaseDir, filepath.Base(src))
		slog.Debug("moving release file", "from", src, "to", dst)
		if err := move(src, dst); err != nil {
			return fmt.Errorf("%w: %w", ErrFinalize, err)
		}
	}
	return nil
}

// Renames src to dst, falling back to copy and remove across devices.
func move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
