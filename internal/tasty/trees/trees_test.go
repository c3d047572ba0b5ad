package trees

import (
	"testing"

	"github.com/mabhi256/tastybuild/internal/tasty/format"
	"github.com/mabhi256/tastybuild/internal/tasty/reader"
)

func TestParseCategory1AndSharedRef(t *testing.T) {
	// UNITconst, then a SHAREDterm pointing back at offset 0.
	data := []byte{0x02, 0x3C, 0x80}
	a, roots, err := Parse(reader.New(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(a.Nodes) != 1 {
		t.Fatalf("len(Nodes) = %d, want 1 (shared ref resolves to the same node)", len(a.Nodes))
	}
	if len(roots) != 2 || roots[0] != roots[1] {
		t.Fatalf("roots = %v, want two entries pointing at the same node", roots)
	}
	if a.Get(roots[0]).Tag != format.UNITconst {
		t.Errorf("root tag = %d, want UNITconst", a.Get(roots[0]).Tag)
	}
}

func TestParseCategory2Nat(t *testing.T) {
	// TERMREFdirect (cat 2) carrying a single nat payload of 5.
	data := []byte{format.TERMREFdirect, 0x85}
	a, roots, err := Parse(reader.New(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	n := a.Get(roots[0])
	if !n.HasNat1 || n.Nat1 != 5 {
		t.Errorf("Nat1 = %v (has=%v), want 5 (has=true)", n.Nat1, n.HasNat1)
	}
}

func TestParseCategory3SingleChild(t *testing.T) {
	// THIS (cat 3) wrapping a UNITconst child.
	data := []byte{format.THIS, format.UNITconst}
	a, roots, err := Parse(reader.New(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	root := a.Get(roots[0])
	if root.Tag != format.THIS || len(root.Children) != 1 {
		t.Fatalf("root = %+v, want THIS with 1 child", root)
	}
	if a.Get(root.Children[0]).Tag != format.UNITconst {
		t.Errorf("child tag = %d, want UNITconst", a.Get(root.Children[0]).Tag)
	}
}

func TestParseCategory5PlainChildren(t *testing.T) {
	// BLOCK (cat 5, no leading nats) with two single-byte children.
	data := []byte{format.BLOCK, 0x82, format.UNITconst, format.TRUEconst}
	a, roots, err := Parse(reader.New(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	root := a.Get(roots[0])
	if root.Tag != format.BLOCK || len(root.Children) != 2 {
		t.Fatalf("root = %+v, want BLOCK with 2 children", root)
	}
	if a.Get(root.Children[0]).Tag != format.UNITconst || a.Get(root.Children[1]).Tag != format.TRUEconst {
		t.Errorf("unexpected children tags")
	}
}

func TestParseBinderTypeInterleaving(t *testing.T) {
	// POLYtype: result child (UNITconst), then one (child, paramNameRef) pair
	// (TRUEconst, ref 5).
	data := []byte{format.POLYtype, 0x83, format.UNITconst, format.TRUEconst, 0x85}
	a, roots, err := Parse(reader.New(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	root := a.Get(roots[0])
	if root.Tag != format.POLYtype {
		t.Fatalf("root tag = %d, want POLYtype", root.Tag)
	}
	if root.HasNat1 {
		t.Error("binder type should not consume a leading nat")
	}
	if len(root.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2 (result + 1 param)", len(root.Children))
	}
	if a.Get(root.Children[0]).Tag != format.UNITconst {
		t.Errorf("result child tag = %d, want UNITconst", a.Get(root.Children[0]).Tag)
	}
	if a.Get(root.Children[1]).Tag != format.TRUEconst {
		t.Errorf("param child tag = %d, want TRUEconst", a.Get(root.Children[1]).Tag)
	}
	if len(root.ParamNames) != 1 || root.ParamNames[0] != 5 {
		t.Errorf("ParamNames = %v, want [5]", root.ParamNames)
	}
}

func TestParseUnresolvedSharedRef(t *testing.T) {
	data := []byte{format.SHAREDterm, 0x85}
	_, _, err := Parse(reader.New(data))
	if err == nil {
		t.Error("expected error for unresolved shared reference")
	}
}
