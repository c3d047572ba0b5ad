package sections

import (
	"testing"

	"github.com/mabhi256/tastybuild/internal/tasty/reader"
)

func TestParsePositionsSimpleDelta(t *testing.T) {
	// header=20 (delta=5, no end/point flags), then a zero header terminator.
	data := []byte{0x94, 0x80}
	p, err := ParsePositions(reader.New(data))
	if err != nil {
		t.Fatalf("ParsePositions() error: %v", err)
	}
	if len(p.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(p.Entries))
	}
	got := p.Entries[0]
	want := Position{Start: 5, End: 5, Point: 5}
	if got != want {
		t.Errorf("Entries[0] = %+v, want %+v", got, want)
	}
}

func TestParsePositionsWithEndAndPoint(t *testing.T) {
	// header=11 (delta=2, hasEnd|hasPoint), end delta 3, point delta 1, terminator.
	data := []byte{0x8B, 0x83, 0x81, 0x80}
	p, err := ParsePositions(reader.New(data))
	if err != nil {
		t.Fatalf("ParsePositions() error: %v", err)
	}
	if len(p.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(p.Entries))
	}
	got := p.Entries[0]
	want := Position{Start: 2, End: 5, Point: 3}
	if got != want {
		t.Errorf("Entries[0] = %+v, want %+v", got, want)
	}
}

func TestParsePositionsEmpty(t *testing.T) {
	p, err := ParsePositions(reader.New([]byte{}))
	if err != nil {
		t.Fatalf("ParsePositions() error: %v", err)
	}
	if len(p.Entries) != 0 {
		t.Errorf("len(Entries) = %d, want 0", len(p.Entries))
	}
}

func TestParseAttributesBooleanAndNameRef(t *testing.T) {
	data := []byte{5, 129, 0x87}
	a, err := ParseAttributes(reader.New(data))
	if err != nil {
		t.Fatalf("ParseAttributes() error: %v", err)
	}
	if len(a.BooleanAttrs) != 1 || a.BooleanAttrs[0] != 5 {
		t.Errorf("BooleanAttrs = %v, want [5]", a.BooleanAttrs)
	}
	if len(a.NameRefAttrs) != 1 || a.NameRefAttrs[0].Tag != 129 || a.NameRefAttrs[0].NameRef != 7 {
		t.Errorf("NameRefAttrs = %+v, want [{129 7}]", a.NameRefAttrs)
	}
}

func TestParseAttributesUnassignedSkipped(t *testing.T) {
	// tag 50 is in the unassigned 33..128 range: no payload, just skipped.
	data := []byte{50, 5}
	a, err := ParseAttributes(reader.New(data))
	if err != nil {
		t.Fatalf("ParseAttributes() error: %v", err)
	}
	if len(a.NameRefAttrs) != 0 {
		t.Errorf("NameRefAttrs = %v, want empty", a.NameRefAttrs)
	}
	if len(a.BooleanAttrs) != 1 || a.BooleanAttrs[0] != 5 {
		t.Errorf("BooleanAttrs = %v, want [5] (tag 50 skipped, tag 5 kept)", a.BooleanAttrs)
	}
}
