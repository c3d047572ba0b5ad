// Package state persists the incremental engine's per-source build record
// between invocations: content/api/dep hashes and the artifacts each source
// last produced.
//
// Load/Save follow the teacher pack's atomic-snapshot pattern exactly
// (edward-ap-class-collector's internal/cache/snapshot.go): render to a
// temp file in the target directory, fsync, then os.Rename over the final
// path, so a reader never observes a half-written state file; a missing or
// unparsable state file is treated as "no prior state" rather than an
// error, the same tolerance Load gives a first-ever build.
package state

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ArtifactRecord is one compiled output a source produced.
type ArtifactRecord struct {
	Path    string   `yaml:"path"`
	DepsOut []string `yaml:"deps_out,omitempty"`
}

// SourceRecord is the persisted state for one source file as of the last
// successful round it participated in.
type SourceRecord struct {
	ContentHash uint64           `yaml:"content_hash"`
	APIHash     uint64           `yaml:"api_hash"`
	Artifacts   []ArtifactRecord `yaml:"artifacts,omitempty"`
}

// State is the full persisted build state.
type State struct {
	DepHash uint64                  `yaml:"dep_hash"`
	Sources map[string]SourceRecord `yaml:"sources"`
}

const fileName = "state.yaml"

// New returns an empty state, as used on the very first build of a project.
func New() *State {
	return &State{Sources: make(map[string]SourceRecord)}
}

// Load reads the state file from dir. A missing file or any decode error is
// reported as (New(), nil): callers never need to special-case "first
// build" versus "corrupt state file" — both mean "start from scratch".
func Load(dir string) (*State, error) {
	path := filepath.Join(dir, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return New(), nil
	}
	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return New(), nil
	}
	if s.Sources == nil {
		s.Sources = make(map[string]SourceRecord)
	}
	return &s, nil
}

// Save atomically writes s to dir/state.yaml.
func Save(dir string, s *State) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-"+fileName+"-")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, filepath.Join(dir, fileName))
}
