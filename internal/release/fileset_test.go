package release

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFileSetFinalize(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	var set FileSet
	for _, name := range []string{"build.json", "install.sh"} {
		p := filepath.Join(src, name)
		if err := os.WriteFile(p, []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
		set.Add(p)
	}

	want := []string{filepath.Join(src, "build.json"), filepath.Join(src, "install.sh")}
	if diff := cmp.Diff(want, set.added()); diff != "" {
		t.Fatalf("Paths mismatch (-want +got):\n%s", diff)
	}

	if err := set.Finalize(dst); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	for _, name := range []string{"build.json", "install.sh"} {
		data, err := os.ReadFile(filepath.Join(dst, name))
		if err != nil {
			t.Fatalf("%s not moved: %v", name, err)
		}
		if string(data) != name {
			t.Fatalf("%s content = %q", name, data)
		}
		if _, err := os.Stat(filepath.Join(src, name)); !os.IsNotExist(err) {
			t.Fatalf("%s still present in source", name)
		}
	}

	if err := set.Finalize(dst); !errors.Is(err, ErrFinalized) {
		t.Fatalf("second Finalize err = %v, want ErrFinalized", err)
	}
}

func TestFileSetFinalizeMissing(t *testing.T) {
	var set FileSet
	set.Add(filepath.Join(t.TempDir(), "missing"))
	if err := set.Finalize(t.TempDir()); !errors.Is(err, ErrFinalize) {
		t.Fatalf("err = %v, want ErrFinalize", err)
	}
}

// Returns the paths in the order they were added.
func (s *FileSet) added() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.paths)
}
