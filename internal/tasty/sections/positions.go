// Package sections decodes the TASTy "Positions" and "Attributes" sections:
// a delta-encoded source-span table and a flag/name-ref attribute list.
package sections

import (
	"fmt"

	"github.com/mabhi256/tastybuild/internal/tasty/reader"
)

// Position is a decoded source span: byte offsets into the original source
// file, not the TASTy stream.
type Position struct {
	Start, End, Point int32
}

// Positions is the full decoded span table, in file order.
type Positions struct {
	Entries []Position
}

// ParsePositions decodes a Positions section. Each entry is delta-encoded
// against a running "current start" cursor: the low 2 bits of a header nat
// flag whether an explicit end/point offset follows, the remaining bits are
// the delta to apply to the running start. A zero header ends the section.
func ParsePositions(c *reader.Cursor) (*Positions, error) {
	p := &Positions{}
	var curStart int32
	for !c.AtEnd() {
		header, err := c.ReadNat()
		if err != nil {
			return nil, fmt.Errorf("failed to read position header: %w", err)
		}
		if header == 0 {
			break
		}
		hasEnd := header&1 != 0
		hasPoint := header&2 != 0
		delta := int32(header >> 2)
		curStart += delta

		end := curStart
		if hasEnd {
			d, err := c.ReadNat()
			if err != nil {
				return nil, fmt.Errorf("failed to read position end delta: %w", err)
			}
			end = curStart + int32(d)
		}
		point := curStart
		if hasPoint {
			d, err := c.ReadNat()
			if err != nil {
				return nil, fmt.Errorf("failed to read position point delta: %w", err)
			}
			point = curStart + int32(d)
		}
		p.Entries = append(p.Entries, Position{Start: curStart, End: end, Point: point})
	}
	return p, nil
}
