package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsEmptyState(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.DepHash != 0 || len(s.Sources) != 0 {
		t.Errorf("Load() on missing file = %+v, want empty state", s)
	}
}

func TestLoadCorruptFileReturnsEmptyState(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte("not: [valid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s == nil || s.Sources == nil {
		t.Fatal("Load() on corrupt file should still return a usable empty state")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New()
	s.DepHash = 42
	s.Sources["Foo.scala"] = SourceRecord{
		ContentHash: 1,
		APIHash:     2,
		Artifacts:   []ArtifactRecord{{Path: "Foo.tasty", DepsOut: []string{"Bar"}}},
	}

	if err := Save(dir, s); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.DepHash != 42 {
		t.Errorf("DepHash = %d, want 42", loaded.DepHash)
	}
	rec, ok := loaded.Sources["Foo.scala"]
	if !ok {
		t.Fatal("missing Foo.scala record after round trip")
	}
	if rec.ContentHash != 1 || rec.APIHash != 2 {
		t.Errorf("record = %+v, want ContentHash=1 APIHash=2", rec)
	}
	if len(rec.Artifacts) != 1 || rec.Artifacts[0].Path != "Foo.tasty" {
		t.Errorf("Artifacts = %+v, want one artifact Foo.tasty", rec.Artifacts)
	}
}

func TestSaveLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, New()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != fileName {
		t.Errorf("dir entries = %v, want only %s", entries, fileName)
	}
}
