package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadValid(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
project:
  name: demo
  version: "1.0"
  language_version: "3.3.1"
  dependencies:
    - org.example:lib:1.0
  compiler_options:
    - -deprecation
`)
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Project.Name != "demo" {
		t.Errorf("Name = %q, want demo", c.Project.Name)
	}
	if c.Project.LanguageVersion != "3.3.1" {
		t.Errorf("LanguageVersion = %q, want 3.3.1", c.Project.LanguageVersion)
	}
	if len(c.Project.Dependencies) != 1 || c.Project.Dependencies[0] != "org.example:lib:1.0" {
		t.Errorf("Dependencies = %v, want one coordinate", c.Project.Dependencies)
	}
}

func TestLoadMissingName(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "project:\n  language_version: \"3.3.1\"\n")
	if _, err := Load(dir); err == nil {
		t.Error("expected error when project.name is missing")
	}
}

func TestLoadMissingLanguageVersion(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "project:\n  name: demo\n")
	if _, err := Load(dir); err == nil {
		t.Error("expected error when project.language_version is missing")
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil {
		t.Error("expected error when tastybuild.yaml does not exist")
	}
}

func TestDirHelpers(t *testing.T) {
	root := "/proj"
	if got := BuildDir(root); got != filepath.Join(root, ".tastybuild") {
		t.Errorf("BuildDir() = %q", got)
	}
	if got := OutDir(root); got != filepath.Join(root, ".tastybuild", "out") {
		t.Errorf("OutDir() = %q", got)
	}
	if got := CacheDir(root); got != filepath.Join(root, ".tastybuild", "cache") {
		t.Errorf("CacheDir() = %q", got)
	}
	if got := StateDir(root); got != filepath.Join(root, ".tastybuild") {
		t.Errorf("StateDir() = %q", got)
	}
	c := &Config{}
	if got := c.SourceDir(root); got != filepath.Join(root, "src", "main", "scala") {
		t.Errorf("SourceDir() = %q", got)
	}
}
