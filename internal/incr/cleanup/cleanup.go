// Package cleanup removes stale compiled artifacts: exact files a rebuilt
// or deleted source previously produced, plus their companion artifacts
// sharing a "$"-suffixed name (the JVM's object/class-pair convention,
// already encoded in the TASTy name table's ObjectClass tag — see
// internal/tasty/names — and carried through unchanged to the ".tasty"
// artifacts this compiler emits).
//
// Deletion is tolerant of a file already being gone, the same
// missing-is-fine philosophy the state store's Load gives a missing state
// file: a prior cleanup run, or a source that never successfully compiled,
// both leave nothing to remove and neither should fail the build.
package cleanup

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Stale removes every artifact path in paths, plus (for any .tasty file)
// its companion if present ("Foo$.tasty" for "Foo.tasty", "Foo.tasty" for
// "Foo$.tasty"), rooted at outDir.
func Stale(outDir string, paths []string) error {
	for _, p := range paths {
		full := filepath.Join(outDir, p)
		if err := removeIfExists(full); err != nil {
			return err
		}
		if companion, ok := companionPath(full); ok {
			if err := removeIfExists(companion); err != nil {
				return err
			}
		}
	}
	return nil
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// companionPath returns the sibling "Foo$.tasty" for "Foo.tasty" (or vice
// versa), and whether path actually names a ".tasty" artifact at all.
func companionPath(path string) (string, bool) {
	const ext = ".tasty"
	if !strings.HasSuffix(path, ext) {
		return "", false
	}
	base := strings.TrimSuffix(path, ext)
	if strings.HasSuffix(base, "$") {
		return strings.TrimSuffix(base, "$") + ext, true
	}
	return base + "$" + ext, true
}
