package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultType is the generator used when a target does not name one.
const DefaultType = "axios"

// Config represents the complete configuration for type generation
type Config struct {
	Spec    string   `yaml:"spec"`
	Targets []Target `yaml:"targets"`
}

// Target represents one output directory and the generator that fills it
type Target struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	OutDir string `yaml:"outDir"`
	// IncludeTags and ExcludeTags are regular expressions matched against
	// operation tags.
	IncludeTags []string `yaml:"includeTags"`
	ExcludeTags []string `yaml:"excludeTags"`
	// PreCommand is an optional command to run before generation starts.
	// Uses Docker Compose array format: ["npx", "rimraf", "src/api"]
	// The command will be executed in the output directory.
	PreCommand []string `yaml:"preCommand"`
	// PostCommand is an optional command to run after generation completes.
	// Uses Docker Compose array format: ["npx", "prettier", "-w", "."]
	// The command will be executed in the output directory.
	PostCommand []string `yaml:"postCommand"`
	// ExcludeFiles is a list of file paths (relative to outDir) that should not be written
	// Example: ["api-utils.ts"]
	ExcludeFiles []string `yaml:"exclude"`
}

// ShouldExcludeFile checks if a file path should be excluded based on the ExcludeFiles list.
// targetPath should be an absolute path, and the comparison is done relative to OutDir.
func (t *Target) ShouldExcludeFile(targetPath string) bool {
	if len(t.ExcludeFiles) == 0 {
		return false
	}

	relPath, err := filepath.Rel(t.OutDir, targetPath)
	if err != nil {
		return false
	}

	relPath = filepath.ToSlash(relPath)
	if relPath == "." {
		relPath = ""
	}

	for _, excludePattern := range t.ExcludeFiles {
		normalizedExclude := strings.TrimSuffix(filepath.ToSlash(excludePattern), "/")

		if relPath == normalizedExclude {
			return true
		}

		// A directory pattern excludes everything below it
		if normalizedExclude != "" && strings.HasPrefix(relPath, normalizedExclude+"/") {
			return true
		}
	}

	return false
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the configuration, fills defaults and makes local
// paths absolute.
func (c *Config) Normalize() error {
	if c.Spec == "" {
		return errors.New("config.spec is required")
	}
	if len(c.Targets) == 0 {
		return errors.New("config.targets must not be empty")
	}
	seen := map[string]bool{}
	for i := range c.Targets {
		t := &c.Targets[i]
		if t.OutDir == "" {
			return fmt.Errorf("targets[%d] missing required field outDir", i)
		}
		if t.Type == "" {
			t.Type = DefaultType
		}
		if t.Name == "" {
			t.Name = filepath.Base(t.OutDir)
		}
		if seen[t.Name] {
			return fmt.Errorf("targets[%d]: duplicate target name %q", i, t.Name)
		}
		seen[t.Name] = true
		if !filepath.IsAbs(t.OutDir) {
			abs, err := filepath.Abs(t.OutDir)
			if err != nil {
				return fmt.Errorf("targets[%d]: %w", i, err)
			}
			t.OutDir = abs
		}
	}
	// Do not absolutize when spec is an HTTP(S) URL
	if IsURL(c.Spec) {
		return nil
	}
	if !filepath.IsAbs(c.Spec) {
		abs, err := filepath.Abs(c.Spec)
		if err != nil {
			return err
		}
		c.Spec = abs
	}
	return nil
}

// Target returns the target with the given name.
func (c *Config) Target(name string) (Target, bool) {
	for _, t := range c.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

// IsURL reports whether spec is an HTTP(S) location.
func IsURL(spec string) bool {
	u, err := url.Parse(spec)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}
