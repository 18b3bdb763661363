// =============================================================================
// settings.go - Optional Settings File
// =============================================================================
//
// Settings that are tedious to retype live in a file, YAML or TOML chosen
// by extension:
//
//	engine: /usr/local/bin/stockfish
//	multipv: 3
//	skill: 12
//	movetime: 750ms
//	options:
//	  Threads: "4"
//	  Hash: "256"
//
// Command-line flags win over the file. A missing default file is not an
// error; a missing file named with --config is.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// settings mirrors the file format. Pointer fields distinguish "not set"
// from a zero value.
type settings struct {
	Engine   string            `yaml:"engine" toml:"engine"`
	Args     []string          `yaml:"args" toml:"args"`
	MultiPV  int               `yaml:"multipv" toml:"multipv"`
	Skill    *int              `yaml:"skill" toml:"skill"`
	MoveTime string            `yaml:"movetime" toml:"movetime"`
	Verbose  *bool             `yaml:"verbose" toml:"verbose"`
	Metrics  string            `yaml:"metrics" toml:"metrics"`
	Options  map[string]string `yaml:"options" toml:"options"`
}

// defaultSettingsPath returns ~/.config/ucishell/config.yaml.
func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ucishell", "config.yaml")
}

// loadSettings reads path. When optional is true a missing file yields zero
// settings.
func loadSettings(path string, optional bool) (settings, error) {
	var s settings
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("reading settings %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	case ".toml":
		err = toml.Unmarshal(data, &s)
	default:
		return s, fmt.Errorf("settings %s: unsupported format %q (use .yaml or .toml)", path, ext)
	}
	if err != nil {
		return s, fmt.Errorf("parsing settings %s: %w", path, err)
	}

	if _, err := s.moveTime(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// moveTime parses MoveTime; zero means "not set".
func (s settings) moveTime() (time.Duration, error) {
	if s.MoveTime == "" {
		return 0, nil
	}
	return parseThinkTime(s.MoveTime)
}
