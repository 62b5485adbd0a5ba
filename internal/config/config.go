// Package config loads the adder.toml project manifest.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultTarget is the source-language compatibility version generated
// code targets when the manifest does not pin one.
const DefaultTarget = 340

// Manifest is a located, decoded adder.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Codegen CodegenConfig `toml:"codegen"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type CodegenConfig struct {
	// Target pins the source-language compatibility version, e.g. "3.3".
	// Targets older than 3.4 word module-global failures inside
	// functions as "global name ... is not defined".
	Target string `toml:"target"`
	// Cache toggles the on-disk result cache.
	Cache bool `toml:"cache"`
	// OutDir receives generated translation units.
	OutDir string `toml:"out_dir"`
}

// TargetVersion returns the pinned compatibility version, or
// DefaultTarget when the manifest leaves it open.
func (c *Config) TargetVersion() (int, error) {
	if c.Codegen.Target == "" {
		return DefaultTarget, nil
	}
	return ParseTargetVersion(c.Codegen.Target)
}

// ParseTargetVersion turns a "major.minor" version string into the
// comparable form used by the emitters ("3.4" -> 340).
func ParseTargetVersion(s string) (int, error) {
	major, minor, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return 0, fmt.Errorf("invalid target version %q (expected major.minor)", s)
	}
	maj, err := strconv.Atoi(major)
	if err != nil || maj < 2 {
		return 0, fmt.Errorf("invalid target version %q", s)
	}
	min, err := strconv.Atoi(minor)
	if err != nil || min < 0 || min > 9 {
		return 0, fmt.Errorf("invalid target version %q", s)
	}
	return maj*100 + min*10, nil
}

func findAdderToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "adder.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load walks up from startDir looking for adder.toml. The second result
// reports whether a manifest was found; absence is not an error.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := findAdderToml(startDir)
	if err != nil || !ok {
		return nil, false, err
	}
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	// The cache stays on unless the manifest turns it off explicitly.
	if !meta.IsDefined("codegen", "cache") {
		cfg.Codegen.Cache = true
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

// Default returns the configuration used without a manifest.
func Default() Config {
	return Config{
		Codegen: CodegenConfig{Cache: true},
	}
}
