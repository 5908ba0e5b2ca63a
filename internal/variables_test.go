package internal

import "testing"

func withVars(t *testing.T, v, s, c string) {
	t.Helper()
	oldV, oldS, oldC := version, stage, gitCommit
	version, stage, gitCommit = v, s, c
	t.Cleanup(func() { version, stage, gitCommit = oldV, oldS, oldC })
}

func TestVersionStringLocal(t *testing.T) {
	withVars(t, "", "main", "abc")
	if got := VersionString(); got != defaultLocalBuild {
		t.Fatalf("VersionString() = %q, want %q", got, defaultLocalBuild)
	}
}

func TestVersionStringMain(t *testing.T) {
	withVars(t, "v1.2.0", "main", "abc123")
	want := "1.2.0 abc123 [" + Arch() + "]"
	if got := VersionString(); got != want {
		t.Fatalf("VersionString() = %q, want %q", got, want)
	}
}

func TestVersionStringBranch(t *testing.T) {
	withVars(t, "1.2.0", "Staging", "abc123")
	want := "1.2.0+staging abc123 [" + Arch() + "]"
	if got := VersionString(); got != want {
		t.Fatalf("VersionString() = %q, want %q", got, want)
	}
}
