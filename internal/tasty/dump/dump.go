// Package dump composes the reader, names, trees, and sections decoders
// into a single File value and renders it as deterministic text, the way
// mabhi256/jdiag's analysis.go wires parser -> registry -> analyzer
// into one top-level RunHeapAnalysis call.
package dump

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mabhi256/tastybuild/internal/tasty/format"
	"github.com/mabhi256/tastybuild/internal/tasty/names"
	"github.com/mabhi256/tastybuild/internal/tasty/reader"
	"github.com/mabhi256/tastybuild/internal/tasty/sections"
	"github.com/mabhi256/tastybuild/internal/tasty/trees"
)

// File is a fully decoded TASTy class file.
type File struct {
	Major, Minor, Experimental uint64
	Tooling                    string
	UUID                       []byte
	Names                      *names.Table

	Trees      *trees.Arena
	TreeRoots  []trees.NodeID
	HasTrees   bool

	Positions    *sections.Positions
	HasPositions bool

	Attributes    *sections.Attributes
	HasAttributes bool
}

// Parse decodes a complete TASTy file from data: the 4-byte magic, version
// triple, tooling string, UUID, name table, then a sequence of named,
// length-prefixed sections (ASTs, Positions, Attributes, and any others —
// unrecognized section names, e.g. "Comments", are skipped).
func Parse(data []byte) (*File, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("file too short to contain a TASTy header: %d bytes", len(data))
	}
	c := reader.New(data)

	magic, err := c.ReadBytes(4)
	if err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	for i := range format.Magic {
		if magic[i] != format.Magic[i] {
			return nil, fmt.Errorf("not a TASTy file: bad magic %x", magic)
		}
	}

	f := &File{}
	if f.Major, err = c.ReadNat(); err != nil {
		return nil, fmt.Errorf("failed to read major version: %w", err)
	}
	if f.Minor, err = c.ReadNat(); err != nil {
		return nil, fmt.Errorf("failed to read minor version: %w", err)
	}
	if f.Experimental, err = c.ReadNat(); err != nil {
		return nil, fmt.Errorf("failed to read experimental version: %w", err)
	}

	toolingLen, err := c.ReadNat()
	if err != nil {
		return nil, fmt.Errorf("failed to read tooling string length: %w", err)
	}
	if f.Tooling, err = c.ReadUTF8(int(toolingLen)); err != nil {
		return nil, fmt.Errorf("failed to read tooling string: %w", err)
	}

	if f.UUID, err = c.ReadBytes(16); err != nil {
		return nil, fmt.Errorf("failed to read uuid: %w", err)
	}

	if f.Names, err = names.Parse(c); err != nil {
		return nil, fmt.Errorf("failed to read name table: %w", err)
	}

	for !c.AtEnd() {
		sectionNameRef, err := c.ReadNat()
		if err != nil {
			return nil, fmt.Errorf("failed to read section name ref: %w", err)
		}
		sectionLen, err := c.ReadNat()
		if err != nil {
			return nil, fmt.Errorf("failed to read section length: %w", err)
		}
		sectionEnd := c.Pos() + int(sectionLen)
		sectionName := f.Names.Display(names.Ref(sectionNameRef))

		sub := c.Sub(c.Pos(), sectionEnd)
		switch sectionName {
		case "ASTs":
			arena, roots, err := trees.Parse(sub)
			if err != nil {
				return nil, fmt.Errorf("failed to decode ASTs section: %w", err)
			}
			f.Trees, f.TreeRoots, f.HasTrees = arena, roots, true
		case "Positions":
			pos, err := sections.ParsePositions(sub)
			if err != nil {
				return nil, fmt.Errorf("failed to decode Positions section: %w", err)
			}
			f.Positions, f.HasPositions = pos, true
		case "Attributes":
			attrs, err := sections.ParseAttributes(sub)
			if err != nil {
				return nil, fmt.Errorf("failed to decode Attributes section: %w", err)
			}
			f.Attributes, f.HasAttributes = attrs, true
		default:
			// Unknown section (e.g. "Comments"): skip its payload.
		}

		c.SetPos(sectionEnd)
	}

	return f, nil
}

// SourceFile returns the resolved SOURCEFILEattr value, if the decoded
// Attributes section carries one.
func (f *File) SourceFile() (string, bool) {
	if !f.HasAttributes {
		return "", false
	}
	for _, a := range f.Attributes.NameRefAttrs {
		if a.Tag == format.AttrSourceFile {
			return f.Names.Display(a.NameRef), true
		}
	}
	return "", false
}

// Text renders a deterministic, unstyled textual dump of f. This is the
// canonical form used by tests and printed as is by the dump command; no
// styled variant of it exists.
func (f *File) Text() string {
	var b strings.Builder

	fmt.Fprintln(&b, "TASTy file")
	fmt.Fprintf(&b, "  version: %d.%d.%d\n", f.Major, f.Minor, f.Experimental)
	fmt.Fprintf(&b, "  tooling: %s\n", f.Tooling)
	fmt.Fprintf(&b, "  uuid: %s\n", hex.EncodeToString(f.UUID))

	fmt.Fprintf(&b, "Names (%d entries):\n", len(f.Names.Entries))
	for i := range f.Names.Entries {
		fmt.Fprintf(&b, "  [%d]: %s\n", i, f.Names.Display(names.Ref(i)))
	}

	if f.HasTrees {
		printed := make([]bool, len(f.Trees.Nodes))
		for _, root := range f.TreeRoots {
			markChildren(f.Trees, root, printed)
		}
		fmt.Fprintf(&b, "Trees (%d nodes):\n", len(f.Trees.Nodes))
		for id := range f.Trees.Nodes {
			if !printed[trees.NodeID(id)] {
				printTree(&b, f.Trees, f.Names, trees.NodeID(id), 0)
			}
		}
	}

	if f.HasAttributes {
		fmt.Fprintln(&b, "Attributes:")
		for _, tag := range f.Attributes.BooleanAttrs {
			fmt.Fprintf(&b, "  %s\n", format.AttrName(tag))
		}
		for _, a := range f.Attributes.NameRefAttrs {
			fmt.Fprintf(&b, "  %s = %q\n", format.AttrName(a.Tag), f.Names.Display(a.NameRef))
		}
	}

	if f.HasPositions {
		fmt.Fprintf(&b, "Positions (%d entries)\n", len(f.Positions.Entries))
	}

	return b.String()
}

// markChildren marks every node reachable from id as non-root: a node that
// is someone else's child is printed only as part of that parent's subtree.
func markChildren(a *trees.Arena, id trees.NodeID, printed []bool) {
	node := a.Get(id)
	for _, child := range node.Children {
		printed[child] = true
		markChildren(a, child, printed)
	}
}

func printTree(b *strings.Builder, a *trees.Arena, nt *names.Table, id trees.NodeID, indent int) {
	node := a.Get(id)
	prefix := strings.Repeat("  ", indent)
	label := format.TagName(node.Tag)
	if node.HasNat1 && !format.IsBinder(node.Tag) {
		if int(node.Nat1) < len(nt.Entries) {
			fmt.Fprintf(b, "%s%s %d[=%s]\n", prefix, label, node.Nat1, nt.Display(names.Ref(node.Nat1)))
		} else {
			fmt.Fprintf(b, "%s%s %d\n", prefix, label, node.Nat1)
		}
	} else {
		fmt.Fprintf(b, "%s%s\n", prefix, label)
	}

	if format.IsBinder(node.Tag) && len(node.Children) > 0 {
		printTree(b, a, nt, node.Children[0], indent+1)
		for i, nameRef := range node.ParamNames {
			childIdx := i + 1
			if childIdx >= len(node.Children) {
				break
			}
			fmt.Fprintf(b, "%s  param %s:\n", prefix, nt.Display(names.Ref(nameRef)))
			printTree(b, a, nt, node.Children[childIdx], indent+2)
		}
		return
	}

	for _, child := range node.Children {
		printTree(b, a, nt, child, indent+1)
	}
}
