// Package trees decodes the TASTy "ASTs" section into a flat arena of
// nodes, resolving SharedTerm/SharedType back-references and the
// interleaved child-tree/parameter-name layout of binder types (PolyType,
// MethodType, TypeLambdaType).
//
// The arena + shared-offset-map design is carried directly from the
// reference TASTy reader's own tree parser; the tag-range dispatch style
// (category number decides how many leading nats and whether the node is
// bounded by an explicit byte length) mirrors mabhi256/jdiag's HPROF
// sub-record tag switch.
package trees

import (
	"fmt"

	"github.com/mabhi256/tastybuild/internal/tasty/format"
	"github.com/mabhi256/tastybuild/internal/tasty/reader"
)

// NodeID indexes into an Arena's Nodes.
type NodeID uint32

// Node is one decoded tree node. Nat1/Nat2 hold category 2/4/5's leading
// reference nats (a name ref, a shared-definition ref, etc. depending on
// Tag); Children holds nested trees; ParamNames pairs a binder type's
// non-result children with the parameter name ref that names them.
type Node struct {
	Tag        format.Tag
	Nat1       uint64
	HasNat1    bool
	Nat2       uint64
	HasNat2    bool
	Children   []NodeID
	ParamNames []uint64 // parallel to Children[1:] when IsBinder(Tag)
}

// Arena holds every node decoded from an ASTs section. The top-level roots
// are not stored here; Parse returns them alongside the arena.
type Arena struct {
	Nodes []Node
}

func (a *Arena) alloc(n Node) NodeID {
	a.Nodes = append(a.Nodes, n)
	return NodeID(len(a.Nodes) - 1)
}

// Get returns the node at id.
func (a *Arena) Get(id NodeID) *Node { return &a.Nodes[id] }

// Parse decodes every top-level tree in c until c is exhausted, returning
// the arena and the list of top-level (root) node IDs in file order.
func Parse(c *reader.Cursor) (*Arena, []NodeID, error) {
	a := &Arena{}
	shared := make(map[uint64]NodeID)
	base := c.Pos()
	var roots []NodeID
	for !c.AtEnd() {
		id, err := parseTree(c, a, shared, base)
		if err != nil {
			return nil, nil, err
		}
		roots = append(roots, id)
	}
	return a, roots, nil
}

func parseTree(c *reader.Cursor, a *Arena, shared map[uint64]NodeID, base int) (NodeID, error) {
	relPos := uint64(c.Pos() - base)
	tag, err := c.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("failed to read tree tag: %w", err)
	}

	if tag == format.SHAREDterm || tag == format.SHAREDtype {
		offset, err := c.ReadNat()
		if err != nil {
			return 0, fmt.Errorf("failed to read shared reference offset: %w", err)
		}
		id, ok := shared[offset]
		if !ok {
			return 0, fmt.Errorf("unresolved shared reference to offset %d at tree offset %d", offset, relPos)
		}
		shared[relPos] = id
		return id, nil
	}

	var id NodeID
	switch format.Category(tag) {
	case 1:
		id = a.alloc(Node{Tag: tag})

	case 2:
		n, err := c.ReadNat()
		if err != nil {
			return 0, fmt.Errorf("failed to read nat for tag %s: %w", format.TagName(tag), err)
		}
		id = a.alloc(Node{Tag: tag, Nat1: n, HasNat1: true})

	case 3:
		child, err := parseTree(c, a, shared, base)
		if err != nil {
			return 0, err
		}
		id = a.alloc(Node{Tag: tag, Children: []NodeID{child}})

	case 4:
		n, err := c.ReadNat()
		if err != nil {
			return 0, fmt.Errorf("failed to read nat for tag %s: %w", format.TagName(tag), err)
		}
		child, err := parseTree(c, a, shared, base)
		if err != nil {
			return 0, err
		}
		id = a.alloc(Node{Tag: tag, Nat1: n, HasNat1: true, Children: []NodeID{child}})

	case 5:
		id, err = parseCategory5(c, a, shared, base, tag)
		if err != nil {
			return 0, err
		}

	default:
		return 0, fmt.Errorf("unknown tree tag %d at offset %d", tag, c.Pos()-1)
	}

	shared[relPos] = id
	return id, nil
}

func parseCategory5(c *reader.Cursor, a *Arena, shared map[uint64]NodeID, base int, tag format.Tag) (NodeID, error) {
	length, err := c.ReadNat()
	if err != nil {
		return 0, fmt.Errorf("failed to read length for tag %s: %w", format.TagName(tag), err)
	}
	end := c.Pos() + int(length)

	numNats := format.NumLeadingNats(tag)

	node := Node{Tag: tag}
	if numNats >= 1 {
		n, err := c.ReadNat()
		if err != nil {
			return 0, fmt.Errorf("failed to read leading nat 1 for tag %s: %w", format.TagName(tag), err)
		}
		node.Nat1, node.HasNat1 = n, true
	}
	if numNats >= 2 {
		n, err := c.ReadNat()
		if err != nil {
			return 0, fmt.Errorf("failed to read leading nat 2 for tag %s: %w", format.TagName(tag), err)
		}
		node.Nat2, node.HasNat2 = n, true
	}

	if format.IsBinder(tag) {
		if c.Pos() < end {
			result, err := parseTree(c, a, shared, base)
			if err != nil {
				return 0, err
			}
			node.Children = append(node.Children, result)
		}
		for c.Pos() < end {
			child, err := parseTree(c, a, shared, base)
			if err != nil {
				return 0, err
			}
			node.Children = append(node.Children, child)
			if c.Pos() < end {
				nameRef, err := c.ReadNat()
				if err != nil {
					return 0, fmt.Errorf("failed to read binder param name ref: %w", err)
				}
				node.ParamNames = append(node.ParamNames, nameRef)
			}
		}
	} else {
		for c.Pos() < end {
			child, err := parseTree(c, a, shared, base)
			if err != nil {
				return 0, err
			}
			node.Children = append(node.Children, child)
		}
	}

	c.SetPos(end)
	return a.alloc(node), nil
}
