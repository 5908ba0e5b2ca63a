package arch

import (
	"fmt"
	"slices"

	"github.com/containerd/platforms"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Guix system whose 32-bit file system breaks the build cache.
const armhf = "armhf-linux"

// A target architecture.
type Spec struct {
	Platform string // Container platform identifier (e.g., "linux/amd64").
	Arch     string // Guix system identifier (e.g., "x86_64-linux").
}

// The architecture matrix, in release order.
var matrix = [...]Spec{
	{Platform: "linux/amd64", Arch: "x86_64-linux"},
	{Platform: "linux/386", Arch: "i686-linux"},
	{Platform: "linux/arm/v7", Arch: armhf},
	{Platform: "linux/arm64/v8", Arch: "aarch64-linux"},
	{Platform: "linux/ppc64le", Arch: "powerpc64le-linux"},
	{Platform: "linux/riscv64", Arch: "riscv64-linux"},
}

// Returns a copy of the full matrix.
func Matrix() []Spec {
	return slices.Clone(matrix[:])
}

// Returns the matrix entry for a Guix system identifier.
func Lookup(id string) (Spec, bool) {
	for _, s := range matrix {
		if s.Arch == id {
			return s, true
		}
	}
	return Spec{}, false
}

// Returns the matrix entries named in ids, in matrix order.
//
// Names that match no entry are dropped. Duplicates select an entry once.
func Filter(ids []string) []Spec {
	var selected []Spec
	for _, s := range matrix {
		if slices.Contains(ids, s.Arch) {
			selected = append(selected, s)
		}
	}
	return selected
}

// Returns the Guix identifiers of specs, in order.
func IDs(specs []Spec) []string {
	ids := make([]string, len(specs))
	for i, s := range specs {
		ids[i] = s.Arch
	}
	return ids
}

// Parses the container platform into its OCI form.
func (s Spec) OCIPlatform() (ocispec.Platform, error) {
	p, err := platforms.Parse(s.Platform)
	if err != nil {
		return ocispec.Platform{}, fmt.Errorf("%w: %s: %w", ErrPlatform, s.Platform, err)
	}
	return p, nil
}

// Returns the normalized platform string passed to the container engine.
func (s Spec) EnginePlatform() (string, error) {
	p, err := s.OCIPlatform()
	if err != nil {
		return "", err
	}
	return platforms.Format(p), nil
}

// Whether builds for this architecture must keep their cache on a tmpfs.
func (s Spec) NeedsTmpfsCache() bool {
	return s.Arch == armhf
}

// Returns a short description for logs, e.g. "x86_64-linux (linux/amd64)".
func (s Spec) String() string {
	return fmt.Sprintf("%s (%s)", s.Arch, s.Platform)
}
