package buildrun

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mabhi256/tastybuild/internal/incr/state"
	"github.com/mabhi256/tastybuild/internal/tasty/dump"
	"github.com/mabhi256/tastybuild/internal/tasty/format"
	"github.com/mabhi256/tastybuild/internal/tasty/names"
	"github.com/mabhi256/tastybuild/internal/tasty/sections"
)

func TestTrimExt(t *testing.T) {
	if got := trimExt("Foo.tasty"); got != "Foo" {
		t.Errorf("trimExt(Foo.tasty) = %q, want Foo", got)
	}
	if got := trimExt("Foo"); got != "Foo" {
		t.Errorf("trimExt(Foo) = %q, want Foo", got)
	}
}

func TestMatchByPrefix(t *testing.T) {
	sources := []string{"Foo.scala", "Bar.scala"}
	if src, ok := matchByPrefix("Foo.tasty", sources); !ok || src != "Foo.scala" {
		t.Errorf("matchByPrefix(Foo.tasty) = (%q, %v), want (Foo.scala, true)", src, ok)
	}
	if src, ok := matchByPrefix("Foo$1.tasty", sources); !ok || src != "Foo.scala" {
		t.Errorf("matchByPrefix(Foo$1.tasty) = (%q, %v), want (Foo.scala, true) for a nested class", src, ok)
	}
	if _, ok := matchByPrefix("Baz.tasty", sources); ok {
		t.Error("unrelated name should not match any source")
	}
}

func TestMatchByBase(t *testing.T) {
	sources := []string{"pkg/Foo.scala", "Bar.scala"}
	if src, ok := matchByBase("Foo.scala", sources); !ok || src != "pkg/Foo.scala" {
		t.Errorf("matchByBase(Foo.scala) = (%q, %v), want (pkg/Foo.scala, true)", src, ok)
	}
	if _, ok := matchByBase("Baz.scala", sources); ok {
		t.Error("unrelated source-file name should not match")
	}
}

func TestMapForwardDepsDropsSelfAndUnresolved(t *testing.T) {
	index := map[string]string{"com.example.Foo": "Foo.scala", "com.example.Bar": "Bar.scala"}
	deps := mapForwardDeps([]string{"com.example.Foo", "com.example.Bar", "scala.Predef"}, index, "Foo.scala")
	if len(deps) != 1 || deps[0] != "Bar.scala" {
		t.Errorf("mapForwardDeps() = %v, want [Bar.scala] (self and unresolved names dropped)", deps)
	}
}

func TestAttributeArtifactsFallsBackToMostRecentSource(t *testing.T) {
	// No SOURCEFILEattr, and a compiler-generated name that shares no
	// source's base-name prefix: must fall back to the most recently
	// compiling source in this round, i.e. the last of sources.
	decoded := map[string]*dump.File{"$anonfun$1.tasty": {}}
	attribution := attributeArtifacts(decoded, []string{"Foo.scala", "Bar.scala"})
	if attribution["$anonfun$1.tasty"] != "Bar.scala" {
		t.Errorf("unattributable artifact should fall back to the most recently compiling source, got %q", attribution["$anonfun$1.tasty"])
	}
}

func TestAttributeArtifactsSkipsMismatchedSourceFileAttr(t *testing.T) {
	// A SOURCEFILEattr naming a source outside this round must not fall
	// back to the most-recent-source rule: it belongs to an earlier round.
	nt := &names.Table{Entries: []names.Entry{{Kind: format.NameUtf8, Utf8: "Other.scala"}}}
	attrs := &sections.Attributes{NameRefAttrs: []sections.NameRefAttr{{Tag: format.AttrSourceFile, NameRef: names.Ref(0)}}}
	f := &dump.File{HasAttributes: true, Attributes: attrs, Names: nt}
	decoded := map[string]*dump.File{"Other.tasty": f}

	attribution := attributeArtifacts(decoded, []string{"Foo.scala", "Bar.scala"})
	if _, ok := attribution["Other.tasty"]; ok {
		t.Error("an artifact whose SOURCEFILEattr names a source outside this round should not be attributed here")
	}
}

func TestRemoveStaleArtifactsDeletesDroppedSource(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Foo.tasty", "Bar.tasty"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	prev := &state.State{Sources: map[string]state.SourceRecord{
		"Foo.scala": {Artifacts: []state.ArtifactRecord{{Path: "Foo.tasty"}}},
		"Bar.scala": {Artifacts: []state.ArtifactRecord{{Path: "Bar.tasty"}}},
	}}
	// Bar.scala was removed from the project entirely.
	curr := &state.State{Sources: map[string]state.SourceRecord{
		"Foo.scala": {Artifacts: []state.ArtifactRecord{{Path: "Foo.tasty"}}},
	}}

	if err := removeStaleArtifacts(dir, prev, curr); err != nil {
		t.Fatalf("removeStaleArtifacts() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Foo.tasty")); err != nil {
		t.Error("Foo.tasty should still exist")
	}
	if _, err := os.Stat(filepath.Join(dir, "Bar.tasty")); !os.IsNotExist(err) {
		t.Error("Bar.tasty should have been removed")
	}
}

func TestRemoveStaleArtifactsDeletesRenamedArtifact(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Foo$1.tasty"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	prev := &state.State{Sources: map[string]state.SourceRecord{
		"Foo.scala": {Artifacts: []state.ArtifactRecord{{Path: "Foo$1.tasty"}}},
	}}
	// Foo.scala recompiled and no longer produces the Foo$1 nested class.
	curr := &state.State{Sources: map[string]state.SourceRecord{
		"Foo.scala": {Artifacts: nil},
	}}

	if err := removeStaleArtifacts(dir, prev, curr); err != nil {
		t.Fatalf("removeStaleArtifacts() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Foo$1.tasty")); !os.IsNotExist(err) {
		t.Error("Foo$1.tasty should have been removed since it's no longer produced")
	}
}

func TestCleanOnMissingBuildDirIsNoop(t *testing.T) {
	dir := t.TempDir()
	if err := Clean(dir); err != nil {
		t.Fatalf("Clean() on a project with no build dir should be a no-op, got: %v", err)
	}
}

func TestCleanRemovesBuildDir(t *testing.T) {
	dir := t.TempDir()
	buildDir := filepath.Join(dir, ".tastybuild")
	if err := os.MkdirAll(filepath.Join(buildDir, "out"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := Clean(dir); err != nil {
		t.Fatalf("Clean() error: %v", err)
	}
	if _, err := os.Stat(buildDir); !os.IsNotExist(err) {
		t.Error("expected .tastybuild directory to be removed")
	}
}
