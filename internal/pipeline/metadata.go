package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/containerd/errdefs"
	"github.com/metacall/guix-release/internal/arch"
	"github.com/metacall/guix-release/internal/paths"
	"github.com/metacall/guix-release/internal/release"
)

// Reconciles built artifacts with the latest release and stages the release.
//
// The previous manifest is fetched from the latest release, the artifacts
// are reconciled against it, and the new manifest is written to
// <output>/build.json. The artifacts to publish, the manifest, channels.scm
// and install.sh are then moved into the release directory.
type metadataStage struct {
	env
}

func (s *metadataStage) Name() StageKind {
	return ReconcileMetadata
}

func (s *metadataStage) Run(ctx context.Context, pc Context, arches []arch.Spec) error {
	slog.Info("generating metadata", "version", pc.Version, "architectures", len(arches))

	base, err := s.fetcher.LatestRelease(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMetadata, err)
	}

	previous, err := s.fetcher.Manifest(ctx, base)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return fmt.Errorf("%w: latest release %s has no %s: %w", ErrMetadata, base, release.ManifestFile, err)
		}
		return fmt.Errorf("%w: %w", ErrMetadata, err)
	}

	rec := &release.Reconciler{
		Output:       pc.HostOutput,
		Version:      pc.Version,
		DownloadBase: s.downloadBase,
		Hash:         s.hash,
	}

	res, err := rec.Reconcile(ctx, arches, previous)
	if errdefs.IsNotFound(err) {
		return fmt.Errorf("%w: artifacts missing from %s, build the architectures first: %w", ErrMetadata, pc.HostOutput, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMetadata, err)
	}

	if err := res.Manifest.Complete(arch.IDs(arches)); err != nil {
		return fmt.Errorf("%w: %w", ErrMetadata, err)
	}

	var files release.FileSet
	files.Add(res.Files...)

	manifestPath := filepath.Join(pc.HostOutput, release.ManifestFile)
	if err := res.Manifest.WriteFile(manifestPath, paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrMetadata, err)
	}
	files.Add(manifestPath)

	channels, err := s.fetcher.Channels(ctx, pc.HostOutput)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMetadata, err)
	}
	files.Add(channels)

	install, err := s.fetcher.Install(ctx, pc.HostOutput)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMetadata, err)
	}
	files.Add(install)

	slog.Info("release files", "published", len(res.Files), "reused", 2*len(arches)-len(res.Files))

	return files.Finalize(pc.ReleaseDir)
}
