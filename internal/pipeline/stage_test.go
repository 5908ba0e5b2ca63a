package pipeline

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/metacall/guix-release/internal/arch"
	"github.com/metacall/guix-release/internal/batch"
	"github.com/metacall/guix-release/internal/runtime"
)

func testContext() Context {
	return Context{
		Root:             "/src",
		ReleaseDir:       "/src/.release",
		Version:          "20250131",
		HostOutput:       "/src/out",
		ContainerOutput:  DefaultContainerOutput,
		HostScripts:      "/src/scripts",
		ContainerScripts: DefaultContainerScripts,
		Docker:           "docker",
		Image:            DefaultImage,
		TestImage:        DefaultTestImage,
	}
}

func mustArch(t *testing.T, id string) arch.Spec {
	t.Helper()
	s, ok := arch.Lookup(id)
	if !ok {
		t.Fatalf("unknown arch %s", id)
	}
	return s
}

// Records commands and fails those whose label is listed, a given number of
// times each.
type fakeRunner struct {
	mu    sync.Mutex
	fail  map[string]int
	calls []runtime.Command
}

func (f *fakeRunner) Run(ctx context.Context, cmd runtime.Command) (*runtime.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, cmd)
	code := 0
	if f.fail[cmd.Label] > 0 {
		f.fail[cmd.Label]--
		code = 1
	}
	return &runtime.Result{Context: cmd.Context, Command: cmd.Name, Args: cmd.Args, ExitCode: code}, nil
}

func (f *fakeRunner) labels() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var l []string
	for _, c := range f.calls {
		l = append(l, c.Label)
	}
	slices.Sort(l)
	return l
}

func TestBuildCommand(t *testing.T) {
	cmd, err := buildCommand(testContext(), mustArch(t, "x86_64-linux"))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"run", "--rm", "--privileged",
		"--name", "guix-build-x86_64-linux",
		"-v", "/src/out:/output",
		"-v", "/src/scripts:/scripts",
		"--platform", "linux/amd64",
		"-t", "metacall/guix",
		"/scripts/release.sh", "x86_64-linux", "/output", "20250131",
	}
	if diff := cmp.Diff(want, cmd.Args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if cmd.Name != "docker" || cmd.Context != mustArch(t, "x86_64-linux") {
		t.Fatalf("command = %+v", cmd)
	}
}

func TestBuildCommandTmpfsCache(t *testing.T) {
	cmd, err := buildCommand(testContext(), mustArch(t, "armhf-linux"))
	if err != nil {
		t.Fatal(err)
	}
	line := strings.Join(cmd.Args, " ")

	for _, want := range []string{
		"-e XDG_CACHE_HOME=/tmp/.cache",
		"--mount type=tmpfs,target=/tmp/.cache",
		"--platform linux/arm/v7",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("args missing %q: %s", want, line)
		}
	}
}

func TestDockerTestCommand(t *testing.T) {
	cmd, err := dockerTestCommand(testContext(), mustArch(t, "aarch64-linux"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"build",
		"--platform", "linux/arm64/v8",
		"--build-arg", "GUIX_ARCH=aarch64-linux",
		"--build-arg", "GUIX_VERSION=20250131",
		"-t", "metacall/guix-test:aarch64-linux",
		"/src",
	}
	if diff := cmp.Diff(want, cmd.Args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestStagesRejectInvalidPlatform(t *testing.T) {
	bad := []arch.Spec{{Platform: "linux/arm 64", Arch: "aarch64-linux"}}

	for _, s := range []Stage{
		&buildStage{env{runner: &fakeRunner{}, report: &bytes.Buffer{}}},
		&dockerTestStage{env{runner: &fakeRunner{}, report: &bytes.Buffer{}}},
	} {
		t.Run(string(s.Name()), func(t *testing.T) {
			err := s.Run(context.Background(), testContext(), bad)
			if !errors.Is(err, arch.ErrPlatform) {
				t.Fatalf("err = %v, want ErrPlatform", err)
			}
		})
	}
}

func TestBuildStageRetriesFailedArchitecture(t *testing.T) {
	r := &fakeRunner{fail: map[string]int{"i686-linux": 1}}
	s := &buildStage{env{runner: r, report: &bytes.Buffer{}}}

	arches := []arch.Spec{mustArch(t, "x86_64-linux"), mustArch(t, "i686-linux")}
	if err := s.Run(context.Background(), testContext(), arches); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"i686-linux", "i686-linux", "x86_64-linux"}
	if diff := cmp.Diff(want, r.labels()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildStageFailsAfterRetry(t *testing.T) {
	r := &fakeRunner{fail: map[string]int{"riscv64-linux": 2}}
	s := &buildStage{env{runner: r, report: &bytes.Buffer{}}}

	err := s.Run(context.Background(), testContext(), []arch.Spec{mustArch(t, "riscv64-linux")})
	if !errors.Is(err, ErrStage) || !errors.Is(err, batch.ErrBatchFailed) {
		t.Fatalf("err = %v, want ErrStage wrapping ErrBatchFailed", err)
	}
}

func TestInstallDependency(t *testing.T) {
	r := &fakeRunner{}
	s := &installDependency{env{runner: r}}

	if err := s.Run(context.Background(), testContext(), arch.Matrix()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(r.calls) != 1 {
		t.Fatalf("ran %d commands, want 1", len(r.calls))
	}
	want := []string{"run", "--rm", "--privileged", "multiarch/qemu-user-static", "--reset", "-p", "yes"}
	if diff := cmp.Diff(want, r.calls[0].Args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestInstallDependencyNotRetried(t *testing.T) {
	r := &fakeRunner{fail: map[string]int{"qemu": 1}}
	s := &installDependency{env{runner: r}}

	err := s.Run(context.Background(), testContext(), arch.Matrix())
	if !errors.Is(err, ErrDependency) {
		t.Fatalf("err = %v, want ErrDependency", err)
	}
	if len(r.calls) != 1 {
		t.Fatalf("ran %d commands, want 1", len(r.calls))
	}
}

func TestInstallDependencySkippedWithoutArchitectures(t *testing.T) {
	r := &fakeRunner{}
	s := &installDependency{env{runner: r}}

	if err := s.Run(context.Background(), testContext(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(r.calls) != 0 {
		t.Fatalf("ran %d commands, want 0", len(r.calls))
	}
}
