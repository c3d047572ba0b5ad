// Package apihash computes the canonical API digest of a decoded TASTy
// file: a 64-bit fingerprint that changes if and only if the file's
// externally observable interface (member signatures, type references,
// modifiers) changes, ignoring method bodies, source positions, and
// debug attributes.
//
// This is the resolution of Open Question 1 (see SPEC_FULL.md §9): method
// bodies and file-private members are projected out before hashing, and the
// digest is built from resolved display strings rather than raw name-table
// indices, since two independent compiles of the same source can assign the
// same name different table slots.
package apihash

import (
	"github.com/cespare/xxhash/v2"

	"github.com/mabhi256/tastybuild/internal/tasty/dump"
	"github.com/mabhi256/tastybuild/internal/tasty/format"
	"github.com/mabhi256/tastybuild/internal/tasty/names"
	"github.com/mabhi256/tastybuild/internal/tasty/trees"
)

// bodyTags are the statement/expression node kinds that make up a member's
// implementation rather than its signature; their subtrees are never
// descended into while building the projection.
var bodyTags = map[format.Tag]bool{
	format.BLOCK: true, format.IF: true, format.MATCH: true,
	format.WHILE: true, format.TRY: true, format.ASSIGN: true,
	format.APPLY: true, format.TYPEAPPLY: true, format.NEW: true,
	format.LAMBDA: true, format.RETURN: true, format.INLINED: true,
	format.UNAPPLY: true, format.REPEATED: true,
}

// Digest returns the API-hash of f: a digest of the projected subtree of
// every non-private top-level definition.
func Digest(f *dump.File) uint64 {
	if !f.HasTrees {
		return 0
	}
	h := xxhash.New()
	for _, root := range f.TreeRoots {
		walk(h, f.Trees, f.Names, root)
	}
	return h.Sum64()
}

func walk(h *xxhash.Digest, a *trees.Arena, nt *names.Table, id trees.NodeID) {
	node := a.Get(id)

	if isDefinition(node.Tag) && isFilePrivate(a, node) {
		return
	}

	h.Write([]byte{node.Tag})
	if node.HasNat1 {
		writeNat(h, nt, node.Nat1)
	}
	if node.HasNat2 {
		writeNat(h, nt, node.Nat2)
	}

	if bodyTags[node.Tag] {
		// Signature-bearing ancestors (VALDEF/DEFDEF) still record their
		// declared type, which sits in Children before any body tag is
		// ever reached directly as a node's own tag, so it is safe to
		// simply stop descending once a body-shaped node is hit.
		return
	}

	for i, child := range node.Children {
		if format.IsBinder(node.Tag) && i > 0 {
			// Parameter name of a binder type is part of its signature.
			if pi := i - 1; pi < len(node.ParamNames) {
				writeNat(h, nt, node.ParamNames[pi])
			}
		}
		walk(h, a, nt, child)
	}
}

// writeNat hashes n as a resolved display string when it plausibly names a
// name-table entry, falling back to the raw numeric value otherwise. Header
// version numbers and record lengths are consumed by the decoders and never
// reach here, but every nat a node carries does, including non-name payloads
// such as constant values; those are hashed as a name whenever their value
// is below the table size.
func writeNat(h *xxhash.Digest, nt *names.Table, n uint64) {
	if int(n) < len(nt.Entries) {
		h.Write([]byte(nt.Display(names.Ref(n))))
		return
	}
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(n >> (8 * i))
	}
	h.Write(buf[:])
}

func isDefinition(tag format.Tag) bool {
	return tag == format.VALDEF || tag == format.DEFDEF || tag == format.TYPEDEF
}

// isFilePrivate reports whether node carries a PRIVATE modifier child with
// no PROTECTED/OVERRIDE sibling — i.e. it cannot be referenced, let alone
// overridden, from outside this compilation unit.
func isFilePrivate(a *trees.Arena, node *trees.Node) bool {
	private, exported := false, false
	for _, child := range node.Children {
		tag := a.Get(child).Tag
		switch tag {
		case format.PRIVATE:
			private = true
		case format.PROTECTED, format.OVERRIDE:
			exported = true
		}
	}
	return private && !exported
}

// OwnName returns the resolved display name of f's primary top-level
// definition (its first TypeDef root), the same display form ForwardDeps
// resolves a reference to. The caller uses this to build a name->source
// index: per spec.md §4.C9, a forward reference must be mapped "through
// the artifact->source table" before it becomes a deps_out entry, and this
// is the name that table is keyed on.
func OwnName(f *dump.File) (string, bool) {
	if !f.HasTrees {
		return "", false
	}
	for _, root := range f.TreeRoots {
		if name, ok := ownNameOf(f.Trees, f.Names, root); ok {
			return name, true
		}
	}
	return "", false
}

func ownNameOf(a *trees.Arena, nt *names.Table, id trees.NodeID) (string, bool) {
	node := a.Get(id)
	if node.Tag == format.TYPEDEF && node.HasNat1 && int(node.Nat1) < len(nt.Entries) {
		return nt.Display(names.Ref(node.Nat1)), true
	}
	return "", false
}

// ForwardDeps extracts the set of other-symbols f's API/body references, as
// fully resolved display names (e.g. "com.example.Foo"). Only the
// name-table entries actually reachable from a TERMREF/TYPEREF node
// contribute here; the tree itself is not re-walked as a projection since
// forward deps are collected from the unfiltered tree (a method body
// dependency is still a real compile-order dependency even though it's
// invisible to Digest). The caller — not this package — maps these names
// through a name->source index to turn them into deps_out source
// identifiers, since only the caller knows which artifact belongs to which
// source.
func ForwardDeps(f *dump.File) []string {
	if !f.HasTrees {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, root := range f.TreeRoots {
		collectRefs(f.Trees, f.Names, root, seen, &out)
	}
	return out
}

var refTags = map[format.Tag]bool{
	format.TERMREF: true, format.TYPEREF: true,
	format.TERMREFsymbol: true, format.TYPEREFsymbol: true,
	format.TERMREFin: true, format.TYPEREFin: true,
}

func collectRefs(a *trees.Arena, nt *names.Table, id trees.NodeID, seen map[string]bool, out *[]string) {
	node := a.Get(id)
	if refTags[node.Tag] && node.HasNat1 && int(node.Nat1) < len(nt.Entries) {
		name := nt.Display(names.Ref(node.Nat1))
		if !seen[name] {
			seen[name] = true
			*out = append(*out, name)
		}
	}
	for _, child := range node.Children {
		collectRefs(a, nt, child, seen, out)
	}
}
