// =============================================================================
// locate.go - Engine Executable Discovery
// =============================================================================
//
// The shell does not bundle an engine. It looks for one in this order:
//
//  1. The platform-specific binary next to the ucishell executable
//     (stockfish-linux, stockfish-macos, stockfish-windows.exe)
//  2. The same name under engines/chess/ in the working directory and
//     next to the ucishell executable
//  3. "stockfish" on PATH
//  4. A few common install directories
//
// A binary found in steps 1-2 may have been unpacked from an archive that
// dropped its execute bit, so on Unix the bit is restored before use.
//
// =============================================================================

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

const (
	// engineDirName is the conventional directory for bundled engines.
	engineDirName = "engines/chess"

	// fallbackEngineName is looked up on PATH when no bundled binary exists.
	fallbackEngineName = "stockfish"
)

// platformEngineName returns the bundled engine file name for goos.
//
// GO CONCEPT: runtime.GOOS
// ------------------------
// runtime.GOOS is a string constant fixed at compile time ("linux",
// "darwin", "windows", ...). Passing it in as a parameter instead of reading
// it inside keeps the function testable for every platform from any one.
func platformEngineName(goos string) (string, error) {
	switch goos {
	case "windows":
		return "stockfish-windows.exe", nil
	case "linux":
		return "stockfish-linux", nil
	case "darwin":
		return "stockfish-macos", nil
	default:
		return "", fmt.Errorf("unsupported platform %q", goos)
	}
}

// engineSearchDirs lists the directories checked for a bundled engine.
func engineSearchDirs() []string {
	var dirs []string
	if selfPath, err := os.Executable(); err == nil {
		selfDir := filepath.Dir(selfPath)
		dirs = append(dirs, selfDir, filepath.Join(selfDir, engineDirName))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, filepath.Join(wd, engineDirName))
	}
	return dirs
}

// findEngineExecutable implements the search described at the top of the
// file. It satisfies uciprotocol.PathResolver.
func findEngineExecutable() (string, error) {
	return findEngineIn(runtime.GOOS, engineSearchDirs())
}

func findEngineIn(goos string, dirs []string) (string, error) {
	name, nameErr := platformEngineName(goos)
	if nameErr == nil {
		for _, dir := range dirs {
			candidate := filepath.Join(dir, name)
			if !isRegularFile(candidate) {
				continue
			}
			if err := ensureExecutable(candidate, goos); err != nil {
				return "", err
			}
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(fallbackEngineName); err == nil {
		return path, nil
	}

	commonPaths := []string{
		"/usr/local/bin",
		"/opt/homebrew/bin",
		"/usr/games",
		filepath.Join(homeDir(), ".local", "bin"),
	}
	for _, dir := range commonPaths {
		candidate := filepath.Join(dir, fallbackEngineName)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if nameErr != nil {
		return "", nameErr
	}
	return "", fmt.Errorf("no chess engine found: looked for %s in %d directories and %s on PATH",
		name, len(dirs), fallbackEngineName)
}

// ensureExecutable adds the execute bits to path on Unix-like systems.
func ensureExecutable(path, goos string) error {
	if goos == "windows" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()
	if mode&0o111 == 0o111 {
		return nil
	}
	if err := os.Chmod(path, mode|0o111); err != nil {
		return fmt.Errorf("making %s executable: %w", path, err)
	}
	return nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// isExecutable checks if a file exists and has at least one execute bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Mode().Perm()&0o111 != 0
}

// homeDir returns the user's home directory, or "" if it cannot be determined.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
