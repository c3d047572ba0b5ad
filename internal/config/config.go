// Package config loads a project's tastybuild.yaml: identity, language
// version, dependency coordinates, and compiler options.
//
// Field shape follows the Rust prototype's own SbConfig (project
// name/version/scala-version/main-class/dependencies/scalac-options); the
// serialization format changes from TOML to YAML to match the rest of this
// repository's persisted-data stack (see internal/incr/state), which is a
// deliberate, recorded substitution rather than a silent one.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Project is the [project] section of tastybuild.yaml.
type Project struct {
	Name            string   `yaml:"name"`
	Version         string   `yaml:"version"`
	LanguageVersion string   `yaml:"language_version"`
	MainClass       string   `yaml:"main_class,omitempty"`
	Dependencies    []string `yaml:"dependencies,omitempty"`
	CompilerOptions []string `yaml:"compiler_options,omitempty"`
}

// Config is a fully loaded tastybuild.yaml.
type Config struct {
	Project Project `yaml:"project"`
}

const FileName = "tastybuild.yaml"

// Load reads and parses <projectRoot>/tastybuild.yaml.
func Load(projectRoot string) (*Config, error) {
	path := filepath.Join(projectRoot, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	if c.Project.Name == "" {
		return nil, fmt.Errorf("%s: project.name is required", FileName)
	}
	if c.Project.LanguageVersion == "" {
		return nil, fmt.Errorf("%s: project.language_version is required", FileName)
	}
	return &c, nil
}

// SourceDir is the conventional location of project sources.
func (c *Config) SourceDir(projectRoot string) string {
	return filepath.Join(projectRoot, "src", "main", "scala")
}

// BuildDir is the project's build-state root.
func BuildDir(projectRoot string) string {
	return filepath.Join(projectRoot, ".tastybuild")
}

// OutDir is where compiled artifacts land.
func OutDir(projectRoot string) string {
	return filepath.Join(BuildDir(projectRoot), "out")
}

// CacheDir is reserved for derived fingerprints (e.g. dependency
// resolution results); this tool honors the directory contract without
// populating it, since resolving Dependencies is an out-of-scope external
// collaborator's job.
func CacheDir(projectRoot string) string {
	return filepath.Join(BuildDir(projectRoot), "cache")
}

// StateDir is where the incremental state file lives.
func StateDir(projectRoot string) string {
	return BuildDir(projectRoot)
}
