package arch

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatrixPlatformsParse(t *testing.T) {
	tests := []struct {
		arch    string
		cpu     string
		variant string
	}{
		{"x86_64-linux", "amd64", ""},
		{"i686-linux", "386", ""},
		{"armhf-linux", "arm", "v7"},
		{"aarch64-linux", "arm64", "v8"},
		{"powerpc64le-linux", "ppc64le", ""},
		{"riscv64-linux", "riscv64", ""},
	}

	m := Matrix()
	if len(m) != len(tests) {
		t.Fatalf("len(Matrix()) = %d, want %d", len(m), len(tests))
	}

	for i, tt := range tests {
		t.Run(tt.arch, func(t *testing.T) {
			if m[i].Arch != tt.arch {
				t.Fatalf("Matrix()[%d].Arch = %q, want %q", i, m[i].Arch, tt.arch)
			}
			p, err := m[i].OCIPlatform()
			if err != nil {
				t.Fatalf("OCIPlatform: %v", err)
			}
			if p.OS != "linux" {
				t.Errorf("OS = %q, want linux", p.OS)
			}
			if p.Architecture != tt.cpu {
				t.Errorf("Architecture = %q, want %q", p.Architecture, tt.cpu)
			}
			if p.Variant != tt.variant {
				t.Errorf("Variant = %q, want %q", p.Variant, tt.variant)
			}
		})
	}
}

func TestMatrixIsCopy(t *testing.T) {
	m := Matrix()
	m[0].Arch = "mutated"
	if Matrix()[0].Arch != "x86_64-linux" {
		t.Fatal("Matrix() exposes internal state")
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{"none", nil, nil},
		{"single", []string{"x86_64-linux"}, []string{"x86_64-linux"}},
		{"matrix order", []string{"riscv64-linux", "i686-linux"}, []string{"i686-linux", "riscv64-linux"}},
		{"unknown dropped", []string{"sparc-linux", "aarch64-linux"}, []string{"aarch64-linux"}},
		{"duplicates", []string{"armhf-linux", "armhf-linux"}, []string{"armhf-linux"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IDs(Filter(tt.ids))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("aarch64-linux")
	if !ok || s.Platform != "linux/arm64/v8" {
		t.Fatalf("Lookup = %+v, %v", s, ok)
	}
	if _, ok := Lookup("x86_64"); ok {
		t.Fatal("Lookup matched a partial name")
	}
}

func TestNeedsTmpfsCache(t *testing.T) {
	for _, s := range Matrix() {
		if got := s.NeedsTmpfsCache(); got != (s.Arch == "armhf-linux") {
			t.Errorf("%s: NeedsTmpfsCache() = %v", s.Arch, got)
		}
	}
}

func TestInvalidPlatform(t *testing.T) {
	_, err := Spec{Platform: "not a/platform!", Arch: "x"}.OCIPlatform()
	if !errors.Is(err, ErrPlatform) {
		t.Fatalf("err = %v, want ErrPlatform", err)
	}
}

func TestEnginePlatform(t *testing.T) {
	for _, s := range Matrix() {
		got, err := s.EnginePlatform()
		if err != nil {
			t.Fatalf("%s: %v", s.Arch, err)
		}
		if got != s.Platform {
			t.Errorf("%s: EnginePlatform() = %q, want %q", s.Arch, got, s.Platform)
		}
	}

	if _, err := (Spec{Platform: "linux/not an arch", Arch: "x"}).EnginePlatform(); !errors.Is(err, ErrPlatform) {
		t.Fatalf("err = %v, want ErrPlatform", err)
	}
}
