package release

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/metacall/guix-release/internal/manifest"
)

const (

	// Page redirecting to the tag of the latest release.
	DefaultLatestURL = "https://github.com/metacall/guix/releases/latest"

	// Channel declaration of the latest evaluated Guix commit.
	DefaultChannelsURL = "https://ci.guix.gnu.org/eval/latest/channels.scm?spec=guix"

	// Official Guix installation script.
	DefaultInstallURL = "https://guix.gnu.org/install.sh"

	// Name of the manifest in a release.
	ManifestFile = "build.json"

	// Upstream repository referenced by channels.scm, and its mirror.
	upstreamRepository = "https://git.guix.gnu.org/guix.git"
	mirrorRepository   = "https://codeberg.org/guix/guix.git"
)

// Retrieves remote release metadata and auxiliary files.
type Fetcher struct {
	Client      *http.Client // HTTP client. Nil uses [http.DefaultClient].
	LatestURL   string       // Empty uses [DefaultLatestURL].
	ChannelsURL string       // Empty uses [DefaultChannelsURL].
	InstallURL  string       // Empty uses [DefaultInstallURL].
	FileMode    os.FileMode  // Mode of fetched files. Zero uses 0644.
}

// Returns the download base URL of the latest release.
//
// The latest-release page is requested with redirects followed; the final
// tag URL is rewritten from ".../releases/tag/<tag>" to
// ".../releases/download/<tag>".
func (f *Fetcher) LatestRelease(ctx context.Context) (string, error) {
	resp, err := f.do(ctx, http.MethodHead, cmp.Or(f.LatestURL, DefaultLatestURL))
	if err != nil {
		return "", err
	}
	resp.Body.Close()

	final := resp.Request.URL.String()
	base := strings.Replace(final, "/releases/tag/", "/releases/download/", 1)

	slog.Debug("resolved latest release", "url", final, "download", base)
	return base, nil
}

// Downloads and decodes the manifest published under base.
func (f *Fetcher) Manifest(ctx context.Context, base string) (*manifest.Manifest, error) {
	url := strings.TrimSuffix(base, "/") + "/" + ManifestFile

	resp, err := f.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	m, err := manifest.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}

	slog.Info("fetched previous manifest", "url", url, "architectures", m.Len())
	return m, nil
}

// Downloads url into dir/name and returns the file path.
//
// When replacer is non-nil the body is rewritten through it before being
// written; otherwise it is streamed verbatim.
func (f *Fetcher) File(ctx context.Context, url, dir, name string, replacer *strings.Replacer) (string, error) {
	path := filepath.Join(dir, name)
	slog.Info("fetching file", "url", url, "path", path)

	resp, err := f.do(ctx, http.MethodGet, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	mode := f.FileMode
	if mode == 0 {
		mode = 0644
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if err := write(out, resp.Body, replacer); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return path, nil
}

// Copies body to w, rewriting it through replacer when one is given.
func write(w io.Writer, body io.Reader, replacer *strings.Replacer) error {
	if replacer == nil {
		_, err := io.Copy(w, body)
		return err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	_, err = replacer.WriteString(w, string(b))
	return err
}

// Downloads channels.scm into dir, pointing the Guix channel at the mirror.
func (f *Fetcher) Channels(ctx context.Context, dir string) (string, error) {
	return f.File(ctx, cmp.Or(f.ChannelsURL, DefaultChannelsURL), dir, "channels.scm",
		strings.NewReplacer(upstreamRepository, mirrorRepository))
}

// Downloads install.sh into dir.
func (f *Fetcher) Install(ctx context.Context, dir string) (string, error) {
	return f.File(ctx, cmp.Or(f.InstallURL, DefaultInstallURL), dir, "install.sh", nil)
}

// Performs a request, failing on transport errors and non-2xx responses.
//
// Failures wrap [ErrFetch]; a 404 additionally matches [errdefs.ErrNotFound]
// and any other failure [errdefs.ErrUnavailable].
func (f *Fetcher) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrFetch, errdefs.ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		var class error = errdefs.ErrUnavailable
		if resp.StatusCode == http.StatusNotFound {
			class = errdefs.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w: %s %s: %s", ErrFetch, class, method, url, resp.Status)
	}

	return resp, nil
}
