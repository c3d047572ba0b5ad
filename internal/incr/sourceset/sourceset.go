// Package sourceset enumerates source files under a project root and
// content-hashes them, then classifies the result against a prior hash map
// into added/changed/removed sets.
//
// The enumerate-then-classify shape is grounded on the teacher pack's
// walk-and-diff snapshot tooling (edward-ap-class-collector's fswalk +
// BuildDelta): a deterministic, sorted file list hashed with a
// non-cryptographic digest, then compared path-by-path against the prior
// run. Rename detection is intentionally not carried over — a moved source
// is treated as a delete of the old path plus an add of the new one.
package sourceset

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// SourceID is a source file's path relative to the project's source root,
// using forward slashes regardless of platform.
type SourceID = string

// Hashes maps every enumerated source to its xxhash content digest.
type Hashes map[SourceID]uint64

// Scan walks root recursively and content-hashes every file whose name
// carries one of the given extensions (e.g. ".scala"). The returned map
// keys are root-relative, slash-separated paths.
func Scan(root string, extensions []string) (Hashes, error) {
	hashes := make(Hashes)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !hasAnyExt(path, extensions) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		h, err := hashFile(path)
		if err != nil {
			return err
		}
		hashes[rel] = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hashes, nil
}

func hasAnyExt(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func hashFile(path string) (uint64, error) {
	// os.ReadFile avoided in favor of a streaming hasher would save memory
	// for huge sources; xxhash.New + io.Copy is the idiomatic pairing but
	// sources here are small enough that a single read keeps this simple.
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return HashBytes(data), nil
}

// HashBytes returns the content digest of a single source's bytes, used to
// re-hash a source after compilation without a second directory scan.
func HashBytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Sorted returns h's keys in sorted order, the deterministic iteration
// order every downstream consumer (state store, scheduler) relies on.
func (h Hashes) Sorted() []SourceID {
	out := make([]SourceID, 0, len(h))
	for k := range h {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Diff classifies curr against prev into added/changed/removed sets,
// sorted for reproducible round reports.
type Diff struct {
	Added   []SourceID
	Changed []SourceID
	Removed []SourceID
}

// BuildDiff compares prev (the last known-good hash map, nil/empty on a
// clean build) against curr.
func BuildDiff(prev, curr Hashes) Diff {
	var d Diff
	for id, h := range curr {
		prevHash, existed := prev[id]
		switch {
		case !existed:
			d.Added = append(d.Added, id)
		case prevHash != h:
			d.Changed = append(d.Changed, id)
		}
	}
	for id := range prev {
		if _, ok := curr[id]; !ok {
			d.Removed = append(d.Removed, id)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Changed)
	sort.Strings(d.Removed)
	return d
}

// DepHash folds compilerVersion and the dependency coordinate list into one
// digest, used to detect "the classpath itself changed" independent of any
// single source's content. Per §3's dep_hash definition the coordinates are
// hashed in sorted order — not config-file order — so reordering the same
// dependency set in tastybuild.yaml never forces a spurious full rebuild;
// compilerVersion is hashed first and unsorted since it names a single
// fixed tool version, not a set.
func DepHash(compilerVersion string, coordinates []string) uint64 {
	sorted := append([]string(nil), coordinates...)
	sort.Strings(sorted)

	h := xxhash.New()
	h.Write([]byte(compilerVersion))
	h.Write([]byte{0})
	for _, c := range sorted {
		h.Write([]byte(c))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
