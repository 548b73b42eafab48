package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" {
		t.Error("Version should not be empty")
	}
	if info.Commit == "" {
		t.Error("Commit should not be empty")
	}
	if info.BuildTime == "" {
		t.Error("BuildTime should not be empty")
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}

func TestResolve_LdflagsWin(t *testing.T) {
	info := resolve("v1.2.3", "abc123", "2026-01-02T03:04:05Z")

	if info.Version != "v1.2.3" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Commit != "abc123" {
		t.Errorf("Commit = %q", info.Commit)
	}
	if info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Errorf("BuildTime = %q", info.BuildTime)
	}
}

func TestShortRevision(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0123456789abcdef0123", "0123456789ab"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := shortRevision(tt.in); got != tt.want {
			t.Errorf("shortRevision(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	s := String()
	info := Get()

	for _, part := range []string{info.Version, info.Commit, "built at", info.GoVersion} {
		if !strings.Contains(s, part) {
			t.Errorf("String() = %q, missing %q", s, part)
		}
	}
}
