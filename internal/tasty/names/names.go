// Package names decodes a TASTy name table: a length-prefixed sequence of
// tag-dispatched entries (plain UTF-8 identifiers plus composed forms like
// qualified, expanded, and signed names) and reconstructs their display
// string recursively.
package names

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mabhi256/tastybuild/internal/tasty/format"
	"github.com/mabhi256/tastybuild/internal/tasty/reader"
)

// Ref indexes into a Table's Entries.
type Ref uint32

// Entry is one decoded name-table row. Kind selects which fields apply;
// Go has no tagged-union type so the fields that don't apply to a given
// Kind are left zero, mirroring how a single struct is simplest to decode
// field-by-field off the wire in the teacher's own sequential-read style.
type Entry struct {
	Kind format.Tag

	Utf8 string // NameUtf8

	Ref1 Ref // Qualified/Expanded/ExpandPrefix: prefix; DefaultGetter/SuperAccessor/InlineAccessor/BodyRetainer/ObjectClass/Signed/TargetSigned: base/original name
	Ref2 Ref // Qualified/Expanded/ExpandPrefix: suffix; Signed: result; TargetSigned: target

	Separator  uint32 // Unique
	Num        uint32 // Unique
	HasUnderlying bool // Unique
	Underlying Ref    // Unique

	DefaultIdx uint32 // DefaultGetter

	Result     Ref     // TargetSigned: result name (distinct from Ref2=target)
	ParamSigs  []int64 // Signed/TargetSigned
}

// Table is a decoded name table, indexed by Ref.
type Table struct {
	Entries []Entry
}

// Parse decodes a name table from c: a nat entry-count followed by that
// many tag-dispatched entries.
func Parse(c *reader.Cursor) (*Table, error) {
	count, err := c.ReadNat()
	if err != nil {
		return nil, fmt.Errorf("failed to read name table length: %w", err)
	}
	t := &Table{Entries: make([]Entry, 0, count)}
	for i := uint64(0); i < count; i++ {
		e, err := parseEntry(c)
		if err != nil {
			return nil, fmt.Errorf("failed to read name entry %d: %w", i, err)
		}
		t.Entries = append(t.Entries, e)
	}
	return t, nil
}

func parseEntry(c *reader.Cursor) (Entry, error) {
	tag, err := c.ReadByte()
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read name tag: %w", err)
	}

	if tag == format.NameUtf8 {
		length, err := c.ReadNat()
		if err != nil {
			return Entry{}, fmt.Errorf("failed to read utf8 name length: %w", err)
		}
		s, err := c.ReadUTF8(int(length))
		if err != nil {
			return Entry{}, fmt.Errorf("failed to read utf8 name: %w", err)
		}
		return Entry{Kind: tag, Utf8: s}, nil
	}

	length, err := c.ReadNat()
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read name entry length: %w", err)
	}
	end := c.Pos() + int(length)

	switch tag {
	case format.NameQualified, format.NameExpanded, format.NameExpandPrefix:
		r1, err := readRef(c)
		if err != nil {
			return Entry{}, err
		}
		r2, err := readRef(c)
		if err != nil {
			return Entry{}, err
		}
		c.SetPos(end)
		return Entry{Kind: tag, Ref1: r1, Ref2: r2}, nil

	case format.NameUnique:
		sep, err := c.ReadNat()
		if err != nil {
			return Entry{}, fmt.Errorf("failed to read unique separator: %w", err)
		}
		num, err := c.ReadNat()
		if err != nil {
			return Entry{}, fmt.Errorf("failed to read unique num: %w", err)
		}
		e := Entry{Kind: tag, Separator: uint32(sep), Num: uint32(num)}
		if c.Pos() < end {
			u, err := readRef(c)
			if err != nil {
				return Entry{}, err
			}
			e.HasUnderlying = true
			e.Underlying = u
		}
		c.SetPos(end)
		return e, nil

	case format.NameDefaultGetter:
		r1, err := readRef(c)
		if err != nil {
			return Entry{}, err
		}
		idx, err := c.ReadNat()
		if err != nil {
			return Entry{}, fmt.Errorf("failed to read default getter index: %w", err)
		}
		c.SetPos(end)
		return Entry{Kind: tag, Ref1: r1, DefaultIdx: uint32(idx)}, nil

	case format.NameSuperAccessor, format.NameInlineAccessor, format.NameBodyRetainer, format.NameObjectClass:
		r1, err := readRef(c)
		if err != nil {
			return Entry{}, err
		}
		c.SetPos(end)
		return Entry{Kind: tag, Ref1: r1}, nil

	case format.NameSigned:
		orig, err := readRef(c)
		if err != nil {
			return Entry{}, err
		}
		result, err := readRef(c)
		if err != nil {
			return Entry{}, err
		}
		sigs, err := readParamSigs(c, end)
		if err != nil {
			return Entry{}, err
		}
		c.SetPos(end)
		return Entry{Kind: tag, Ref1: orig, Ref2: result, ParamSigs: sigs}, nil

	case format.NameTargetSigned:
		orig, err := readRef(c)
		if err != nil {
			return Entry{}, err
		}
		target, err := readRef(c)
		if err != nil {
			return Entry{}, err
		}
		result, err := readRef(c)
		if err != nil {
			return Entry{}, err
		}
		sigs, err := readParamSigs(c, end)
		if err != nil {
			return Entry{}, err
		}
		c.SetPos(end)
		return Entry{Kind: tag, Ref1: orig, Ref2: target, Result: result, ParamSigs: sigs}, nil

	default:
		// Unknown name tag: skip its payload rather than fail the whole
		// decode, matching the dump façade's forward-compatible section skip.
		c.SetPos(end)
		return Entry{Kind: tag}, nil
	}
}

func readRef(c *reader.Cursor) (Ref, error) {
	n, err := c.ReadNat()
	if err != nil {
		return 0, fmt.Errorf("failed to read name ref: %w", err)
	}
	return Ref(n), nil
}

func readParamSigs(c *reader.Cursor, end int) ([]int64, error) {
	var sigs []int64
	for c.Pos() < end {
		v, err := c.ReadInt()
		if err != nil {
			return nil, fmt.Errorf("failed to read param signature: %w", err)
		}
		sigs = append(sigs, v)
	}
	return sigs, nil
}

// Display reconstructs the source-level display string for entry idx.
func (t *Table) Display(idx Ref) string {
	if int(idx) >= len(t.Entries) {
		return fmt.Sprintf("<invalid name ref %d>", idx)
	}
	e := t.Entries[idx]
	switch e.Kind {
	case format.NameUtf8:
		return e.Utf8
	case format.NameQualified:
		return t.Display(e.Ref1) + "." + t.Display(e.Ref2)
	case format.NameExpanded:
		return t.Display(e.Ref1) + "$$" + t.Display(e.Ref2)
	case format.NameExpandPrefix:
		return t.Display(e.Ref1) + "$" + t.Display(e.Ref2)
	case format.NameUnique:
		base := ""
		if e.HasUnderlying {
			base = t.Display(e.Underlying)
		}
		sep := ""
		if e.Separator != 0 {
			sep = t.Display(Ref(e.Separator))
		}
		return base + sep + strconv.FormatUint(uint64(e.Num), 10)
	case format.NameDefaultGetter:
		return t.Display(e.Ref1) + "$default$" + strconv.FormatUint(uint64(e.DefaultIdx), 10)
	case format.NameSuperAccessor:
		return "super$" + t.Display(e.Ref1)
	case format.NameInlineAccessor:
		return "inline$" + t.Display(e.Ref1)
	case format.NameBodyRetainer:
		return "bodyretainer$" + t.Display(e.Ref1)
	case format.NameObjectClass:
		return t.Display(e.Ref1) + "$"
	case format.NameSigned:
		return t.Display(e.Ref1) + "(" + t.formatParamSigs(e.ParamSigs) + "): " + t.Display(e.Ref2)
	case format.NameTargetSigned:
		return "@target " + t.Display(e.Ref1) + "(" + t.formatParamSigs(e.ParamSigs) + "): " + t.Display(e.Result)
	default:
		return fmt.Sprintf("<unknown name tag %d>", e.Kind)
	}
}

func (t *Table) formatParamSigs(sigs []int64) string {
	parts := make([]string, len(sigs))
	for i, p := range sigs {
		if p < 0 {
			parts[i] = "[" + strconv.FormatInt(-p, 10) + "]"
		} else {
			parts[i] = t.Display(Ref(p))
		}
	}
	return strings.Join(parts, ", ")
}
