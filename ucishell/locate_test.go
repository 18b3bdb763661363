package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestPlatformEngineName(t *testing.T) {
	tests := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{"linux", "stockfish-linux", false},
		{"darwin", "stockfish-macos", false},
		{"windows", "stockfish-windows.exe", false},
		{"plan9", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := platformEngineName(tt.goos)
		if (err != nil) != tt.wantErr {
			t.Errorf("platformEngineName(%q) error = %v, wantErr %v", tt.goos, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("platformEngineName(%q) = %q, want %q", tt.goos, got, tt.want)
		}
	}
}

func TestFindEngineInBundledDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("execute bits are not used on Windows")
	}

	empty := t.TempDir()
	bundled := t.TempDir()
	path := filepath.Join(bundled, "stockfish-linux")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := findEngineIn("linux", []string{empty, bundled})
	if err != nil {
		t.Fatalf("findEngineIn: %v", err)
	}
	if got != path {
		t.Errorf("findEngineIn = %q, want %q", got, path)
	}
	if !isExecutable(path) {
		t.Error("bundled engine should have been made executable")
	}
}

func TestFindEngineInSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "stockfish-macos"), 0o755); err != nil {
		t.Fatal(err)
	}
	if got, err := findEngineIn("darwin", []string{dir}); err == nil && got == filepath.Join(dir, "stockfish-macos") {
		t.Errorf("a directory must not be chosen as the engine")
	}
}

func TestEnsureExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("execute bits are not used on Windows")
	}
	path := filepath.Join(t.TempDir(), "engine")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	if err := ensureExecutable(path, "windows"); err != nil {
		t.Fatal(err)
	}
	if isExecutable(path) {
		t.Error("windows mode must leave permissions alone")
	}

	if err := ensureExecutable(path, "linux"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0o711 {
		t.Errorf("mode = %o, want 711", got)
	}

	if err := ensureExecutable(filepath.Join(t.TempDir(), "missing"), "linux"); err == nil {
		t.Error("missing file should fail")
	}
}

func TestIsExecutable(t *testing.T) {
	dir := t.TempDir()
	if isExecutable(dir) {
		t.Error("directories are not executables")
	}
	if isExecutable(filepath.Join(dir, "missing")) {
		t.Error("missing files are not executables")
	}
}
