package deps_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"scribe/internal/deps"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "ghost", Command: "definitely-not-a-real-binary-xyz"},
		{Name: "blank", Command: "  "},
	})
	if len(statuses) != 2 {
		t.Fatalf("statuses = %d", len(statuses))
	}
	for _, status := range statuses {
		if status.Available {
			t.Errorf("%s should be unavailable", status.Name)
		}
		if status.Detail == "" {
			t.Errorf("%s should carry a detail message", status.Name)
		}
	}
}

func TestCheckBinariesFindsStub(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stubbed PATH binaries are POSIX-only")
	}
	dir := t.TempDir()
	stub := filepath.Join(dir, "yt-dlp")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)

	statuses := deps.CheckBinaries([]deps.Requirement{{Name: "yt-dlp", Command: "yt-dlp"}})
	if !statuses[0].Available {
		t.Fatalf("stubbed binary not found: %+v", statuses[0])
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []deps.Status{
		{Name: "a", Available: false, Optional: false},
		{Name: "b", Available: false, Optional: true},
		{Name: "c", Available: true, Optional: false},
	}
	missing := deps.MissingRequired(statuses)
	if len(missing) != 1 || missing[0] != "a" {
		t.Fatalf("missing = %v", missing)
	}
}
