package os2

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundTrip(t *testing.T) {
	info := &Info{
		Version:        4,
		AvgCharWidth:   500,
		WeightClass:    400,
		WidthClass:     5,
		Panose:         [10]byte{5, 0, 1, 0, 0, 0, 0, 0, 0, 0},
		UnicodeRange:   [4]uint32{3, 0, 1 << 25, 0},
		VendID:         [4]byte{'A', 'P', 'P', 'L'},
		Selection:      SelectionRegular | SelectionUseTypoMetrics,
		FirstCharIndex: 0x20,
		LastCharIndex:  0xFFFF,
		TypoAscender:   1069,
		TypoDescender:  -293,
		WinAscent:      1069,
		WinDescent:     293,
		Tail:           make([]byte, 18),
	}
	data := info.Encode()
	if len(data) != 96 {
		t.Fatalf("wrong length %d", len(data))
	}

	info2, err := Read(data)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(info, info2); d != "" {
		t.Error(d)
	}
}

func TestVersionBump(t *testing.T) {
	// when a version 0 table is rewritten as version 4, the missing
	// fields are filled with zeros
	info := &Info{Version: 0, WeightClass: 700}
	if len(info.Encode()) != 78 {
		t.Fatal("wrong version 0 length")
	}
	info.Version = 4
	data := info.Encode()
	if len(data) != 96 {
		t.Fatalf("wrong version 4 length %d", len(data))
	}
	info2, err := Read(data)
	if err != nil {
		t.Fatal(err)
	}
	if info2.WeightClass != 700 || len(info2.Tail) != 18 {
		t.Error("fields lost in version bump")
	}
}

func TestVersion5Length(t *testing.T) {
	// version 5 appends the two optical point size fields after the
	// usMaxContext of version 2, giving a 100 byte table
	info := &Info{Version: 5, WeightClass: 400}
	data := info.Encode()
	if len(data) != 100 {
		t.Fatalf("wrong version 5 length %d", len(data))
	}
	info2, err := Read(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(info2.Tail) != 22 {
		t.Errorf("wrong tail length %d", len(info2.Tail))
	}
}

func TestUnicodeRangeBits(t *testing.T) {
	info := &Info{}
	if info.HasUnicodeRange(UnicodeRangeNonPlane0) {
		t.Error("bit 57 set in empty table")
	}
	info.SetUnicodeRange(UnicodeRangeNonPlane0)
	if !info.HasUnicodeRange(UnicodeRangeNonPlane0) {
		t.Error("bit 57 not set")
	}
	if info.UnicodeRange[1] != 1<<25 {
		t.Errorf("wrong bit set: %08x", info.UnicodeRange[1])
	}
}

func TestReadErrors(t *testing.T) {
	if _, err := Read(make([]byte, 40)); err == nil {
		t.Error("truncated table accepted")
	}
	data := (&Info{Version: 6}).Encode()
	if _, err := Read(data); err == nil {
		t.Error("unknown version accepted")
	}
}
