package release

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/metacall/guix-release/internal/arch"
	"github.com/metacall/guix-release/internal/hash"
	"github.com/metacall/guix-release/internal/manifest"
	"golang.org/x/sync/errgroup"
)

// Kind of release artifact produced per architecture.
type Kind string

const (
	Binary Kind = "binary" // Guix binary installation tarball.
	Cache  Kind = "cache"  // Substitute cache tarball.
)

// Default base of download URLs; the release tag and file name are appended.
const DefaultDownloadBase = "https://github.com/metacall/guix/releases/download"

// Returns the file name of an artifact, e.g.
// "guix-binary-20250131.x86_64-linux.tar.xz".
func ResourceName(kind Kind, version, arch string) string {
	return fmt.Sprintf("guix-%s-%s.%s.tar.xz", kind, version, arch)
}

// Digest of a built artifact.
type ArtifactDigest struct {
	Arch     string // Guix system identifier.
	FilePath string // Local path of the artifact.
	SHA256   string // Hex-encoded content digest.
}

// Computes the hex-encoded digest of a file.
type HashFunc func(path string) (string, error)

// Decides which artifacts of a release must be published.
type Reconciler struct {
	Output       string   // Directory holding the built artifacts.
	Version      string   // Version of the release being built.
	DownloadBase string   // Base of new download URLs. Empty uses [DefaultDownloadBase].
	Hash         HashFunc // Digest function. Nil uses [hash.File].
}

// Outcome of a reconciliation.
type Result struct {
	Manifest *manifest.Manifest // Manifest of the new release.
	Files    []string           // Artifacts to publish, binaries first, in architecture order.
}

// Reconciles the artifacts of arches against the previous manifest.
//
// All artifacts are hashed concurrently; a missing or unreadable artifact
// fails the whole reconciliation. Binaries are then reconciled for every
// architecture, followed by caches, which attach to the binary entries.
// Entries follow the order of arches.
func (r *Reconciler) Reconcile(ctx context.Context, arches []arch.Spec, previous *manifest.Manifest) (*Result, error) {
	binaries, err := r.digests(ctx, Binary, arches)
	if err != nil {
		return nil, err
	}
	caches, err := r.digests(ctx, Cache, arches)
	if err != nil {
		return nil, err
	}

	ids := arch.IDs(arches)
	if dropped := previous.Len() - previous.Restrict(ids).Len(); dropped > 0 {
		slog.Info("previous entries not carried over", "count", dropped, "architectures", ids)
	}

	res := &Result{Manifest: manifest.New()}

	for _, d := range binaries {
		prev, _ := previous.Get(d.Arch)
		a := r.reconcileArtifact(res, Binary, d, prev.Binary())
		res.Manifest.SetBinary(d.Arch, a)
	}

	for _, d := range caches {
		prev, _ := previous.Get(d.Arch)
		a := r.reconcileArtifact(res, Cache, d, prev.Cache)
		if err := res.Manifest.AttachCache(d.Arch, a); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReconcile, err)
		}
	}

	return res, nil
}

// Applies the reuse rule to one artifact, scheduling it for publication when
// the previous release cannot serve it.
func (r *Reconciler) reconcileArtifact(res *Result, kind Kind, d ArtifactDigest, prev manifest.Artifact) manifest.Artifact {
	if prev.Reusable(d.SHA256) {
		slog.Info("artifact unchanged, reusing", "kind", kind, "arch", d.Arch, "url", prev.URL)
		return prev
	}

	url := r.URL(kind, d.Arch)
	slog.Info("artifact changed, publishing", "kind", kind, "arch", d.Arch, "url", url)
	res.Files = append(res.Files, d.FilePath)

	return manifest.Artifact{URL: url, SHA256: d.SHA256}
}

// Returns the download URL of an artifact published with this release.
func (r *Reconciler) URL(kind Kind, archID string) string {
	base := r.DownloadBase
	if base == "" {
		base = DefaultDownloadBase
	}
	return fmt.Sprintf("%s/v%s/%s", strings.TrimSuffix(base, "/"), r.Version, ResourceName(kind, r.Version, archID))
}

// Returns the local path of an artifact.
func (r *Reconciler) Path(kind Kind, archID string) string {
	return filepath.Join(r.Output, ResourceName(kind, r.Version, archID))
}

// Hashes the artifacts of one kind for every architecture concurrently.
// Results are in the order of arches.
func (r *Reconciler) digests(ctx context.Context, kind Kind, arches []arch.Spec) ([]ArtifactDigest, error) {
	hashFn := r.Hash
	if hashFn == nil {
		hashFn = hash.File
	}

	out := make([]ArtifactDigest, len(arches))
	g, ctx := errgroup.WithContext(ctx)

	for i, a := range arches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := r.Path(kind, a.Arch)
			sum, err := hashFn(path)
			if err != nil {
				return fmt.Errorf("%w: %s %s: %w", ErrReconcile, kind, a.Arch, err)
			}
			out[i] = ArtifactDigest{Arch: a.Arch, FilePath: path, SHA256: sum}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
