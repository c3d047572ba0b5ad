package reader

import "testing"

func TestReadByteAndBytes(t *testing.T) {
	c := New([]byte{0x01, 0x02, 0x03})
	b, err := c.ReadByte()
	if err != nil || b != 0x01 {
		t.Fatalf("ReadByte() = %v, %v, want 0x01, nil", b, err)
	}
	rest, err := c.ReadBytes(2)
	if err != nil {
		t.Fatalf("ReadBytes(2) error: %v", err)
	}
	if len(rest) != 2 || rest[0] != 0x02 || rest[1] != 0x03 {
		t.Fatalf("ReadBytes(2) = %v, want [2 3]", rest)
	}
	if !c.AtEnd() {
		t.Error("expected cursor at end")
	}
}

func TestReadByteEOF(t *testing.T) {
	c := New([]byte{})
	if _, err := c.ReadByte(); err == nil {
		t.Error("expected error reading past end")
	}
}

func TestReadBytesInsufficient(t *testing.T) {
	c := New([]byte{0x01})
	if _, err := c.ReadBytes(5); err == nil {
		t.Error("expected error reading more bytes than available")
	}
}

func TestReadNatSingleByte(t *testing.T) {
	// High bit set on the first byte terminates immediately: value is the
	// low 7 bits.
	c := New([]byte{0x80})
	n, err := c.ReadNat()
	if err != nil || n != 0 {
		t.Fatalf("ReadNat() = %v, %v, want 0, nil", n, err)
	}

	c = New([]byte{0xFF})
	n, err = c.ReadNat()
	if err != nil || n != 0x7F {
		t.Fatalf("ReadNat() = %v, %v, want 127, nil", n, err)
	}
}

func TestReadNatMultiByte(t *testing.T) {
	// 130 = 0x82 encodes as [0x01, 0x82]: leading byte carries the high
	// bits uncontinued, terminal byte's low 7 bits complete the value.
	c := New([]byte{0x01, 0x82})
	n, err := c.ReadNat()
	if err != nil {
		t.Fatalf("ReadNat() error: %v", err)
	}
	if n != 130 {
		t.Fatalf("ReadNat() = %d, want 130", n)
	}
}

func TestReadIntSignExtension(t *testing.T) {
	cases := []struct {
		bytes []byte
		want  int64
	}{
		{[]byte{0x81}, 1},
		{[]byte{0xFF}, -1},
		{[]byte{0x80}, 0},
	}
	for _, c := range cases {
		cur := New(c.bytes)
		got, err := cur.ReadInt()
		if err != nil {
			t.Fatalf("ReadInt(%v) error: %v", c.bytes, err)
		}
		if got != c.want {
			t.Errorf("ReadInt(%v) = %d, want %d", c.bytes, got, c.want)
		}
	}
}

func TestReadUTF8(t *testing.T) {
	c := New([]byte("hello"))
	s, err := c.ReadUTF8(5)
	if err != nil || s != "hello" {
		t.Fatalf("ReadUTF8(5) = %q, %v, want hello, nil", s, err)
	}
}

func TestReadUTF8Invalid(t *testing.T) {
	c := New([]byte{0xFF, 0xFE, 0xFD})
	if _, err := c.ReadUTF8(3); err == nil {
		t.Error("expected error decoding invalid utf8")
	}
}

func TestReadUncompressedLong(t *testing.T) {
	c := New([]byte{0, 0, 0, 0, 0, 0, 0, 42})
	v, err := c.ReadUncompressedLong()
	if err != nil || v != 42 {
		t.Fatalf("ReadUncompressedLong() = %v, %v, want 42, nil", v, err)
	}
}

func TestSubWindow(t *testing.T) {
	c := New([]byte{0, 1, 2, 3, 4, 5})
	sub := c.Sub(2, 4)
	if sub.Pos() != 2 || sub.End() != 4 {
		t.Fatalf("Sub(2,4) pos/end = %d/%d, want 2/4", sub.Pos(), sub.End())
	}
	b, err := sub.ReadByte()
	if err != nil || b != 2 {
		t.Fatalf("Sub ReadByte() = %v, %v, want 2, nil", b, err)
	}
	if sub.Remaining() != 1 {
		t.Fatalf("Sub Remaining() = %d, want 1", sub.Remaining())
	}
}
