package sections

import (
	"fmt"

	"github.com/mabhi256/tastybuild/internal/tasty/names"
	"github.com/mabhi256/tastybuild/internal/tasty/reader"
)

// NameRefAttr is an attribute whose value is a reference into the name
// table (e.g. SOURCEFILEattr carrying the originating source file name).
type NameRefAttr struct {
	Tag     byte
	NameRef names.Ref
}

// Attributes is the decoded Attributes section: a set of boolean flag tags
// plus a list of name-ref-carrying attributes.
type Attributes struct {
	BooleanAttrs []byte
	NameRefAttrs []NameRefAttr
}

// ParseAttributes decodes an Attributes section. Each entry is a single tag
// byte: tags 1..32 are bare boolean flags, tags 129..160 carry a trailing
// name-ref nat. Tags in the unassigned 33..128 and 161..255 ranges are
// reserved for future attribute kinds and are skipped rather than rejected.
func ParseAttributes(c *reader.Cursor) (*Attributes, error) {
	a := &Attributes{}
	for !c.AtEnd() {
		tag, err := c.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("failed to read attribute tag: %w", err)
		}
		switch {
		case tag >= 1 && tag <= 32:
			a.BooleanAttrs = append(a.BooleanAttrs, tag)
		case tag >= 129 && tag <= 160:
			ref, err := c.ReadNat()
			if err != nil {
				return nil, fmt.Errorf("failed to read name ref for attribute %d: %w", tag, err)
			}
			a.NameRefAttrs = append(a.NameRefAttrs, NameRefAttr{Tag: tag, NameRef: names.Ref(ref)})
		default:
			// Unassigned category: no payload to skip, nothing more to do.
		}
	}
	return a, nil
}
