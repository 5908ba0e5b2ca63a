package release

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/containerd/errdefs"
)

func newReleaseServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/metacall/guix/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/metacall/guix/releases/tag/v20250101", http.StatusFound)
	})
	mux.HandleFunc("/metacall/guix/releases/tag/v20250101", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/metacall/guix/releases/download/v20250101/build.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"x86_64-linux": {"url": "U1", "sha256": "deadbeef", "cache": {"url": "C1", "sha256": "beadfeed"}}}`))
	})
	mux.HandleFunc("/channels.scm", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("(channel (name 'guix) (url \"https://git.guix.gnu.org/guix.git\"))\n"))
	})
	mux.HandleFunc("/install.sh", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("#!/bin/sh\necho https://git.guix.gnu.org/guix.git\n"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcherLatestAndManifest(t *testing.T) {
	srv := newReleaseServer(t)
	f := &Fetcher{Client: srv.Client(), LatestURL: srv.URL + "/metacall/guix/releases/latest"}

	base, err := f.LatestRelease(context.Background())
	if err != nil {
		t.Fatalf("LatestRelease: %v", err)
	}
	if want := srv.URL + "/metacall/guix/releases/download/v20250101"; base != want {
		t.Fatalf("base = %q, want %q", base, want)
	}

	m, err := f.Manifest(context.Background(), base)
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	e, ok := m.Get("x86_64-linux")
	if !ok || e.URL != "U1" || e.Cache.SHA256 != "beadfeed" {
		t.Fatalf("entry = %+v, %v", e, ok)
	}
}

func TestFetcherManifestNotFound(t *testing.T) {
	srv := newReleaseServer(t)
	f := &Fetcher{Client: srv.Client()}

	_, err := f.Manifest(context.Background(), srv.URL+"/nowhere")
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
	if !errdefs.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found class", err)
	}
}

func TestFetcherServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	f := &Fetcher{Client: srv.Client(), LatestURL: srv.URL}
	_, err := f.LatestRelease(context.Background())
	if !errors.Is(err, ErrFetch) || !errdefs.IsUnavailable(err) {
		t.Fatalf("err = %v, want unavailable ErrFetch", err)
	}
}

func TestFetcherChannelsRewritesRepository(t *testing.T) {
	srv := newReleaseServer(t)
	dir := t.TempDir()
	f := &Fetcher{Client: srv.Client(), ChannelsURL: srv.URL + "/channels.scm"}

	path, err := f.Channels(context.Background(), dir)
	if err != nil {
		t.Fatalf("Channels: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "(channel (name 'guix) (url \"https://codeberg.org/guix/guix.git\"))\n"
	if string(data) != want {
		t.Fatalf("channels.scm = %q, want %q", data, want)
	}
}

func TestFetcherInstallVerbatim(t *testing.T) {
	srv := newReleaseServer(t)
	dir := t.TempDir()
	f := &Fetcher{Client: srv.Client(), InstallURL: srv.URL + "/install.sh"}

	path, err := f.Install(context.Background(), dir)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "#!/bin/sh\necho https://git.guix.gnu.org/guix.git\n" {
		t.Fatalf("install.sh = %q", data)
	}
}

func TestFetcherFileRemovesPartialDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1024")
		w.Write([]byte("#!/bin/sh\n"))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	f := &Fetcher{Client: srv.Client(), InstallURL: srv.URL}

	if _, err := f.Install(context.Background(), dir); !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "install.sh")); !os.IsNotExist(err) {
		t.Fatalf("partial install.sh left behind: %v", err)
	}
}
