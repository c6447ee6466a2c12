// emoji-win - use Apple color emoji fonts on Windows
// Copyright (C) 2026  The emoji-win authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package sfnt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func makeTestFont() *Font {
	f := New(ScalerTypeTrueType)
	head := make([]byte, 54)
	binary.BigEndian.PutUint32(head[0:4], 0x00010000)
	binary.BigEndian.PutUint32(head[12:16], 0x5F0F3CF5)
	f.SetTable("head", head)
	f.SetTable("maxp", []byte{0, 1, 0, 0, 0, 7})
	f.SetTable("glyf", []byte{1, 2, 3, 4, 5})
	f.SetTable("TEST", []byte{9, 9})
	return f
}

func TestRoundTrip(t *testing.T) {
	f1 := makeTestFont()
	buf1 := f1.Encode()

	f2, err := Load(buf1)
	if err != nil {
		t.Fatal(err)
	}
	if f2.ScalerType != f1.ScalerType {
		t.Errorf("scaler type: %08x != %08x", f2.ScalerType, f1.ScalerType)
	}
	for _, name := range f1.Tags() {
		if d := cmp.Diff(f1.Table(name), f2.Table(name)); name != "head" && d != "" {
			t.Errorf("table %q: %s", name, d)
		}
	}

	buf2 := f2.Encode()
	if !bytes.Equal(buf1, buf2) {
		t.Error("encoding is not idempotent")
	}
}

func TestCheckSumAdjustment(t *testing.T) {
	buf := makeTestFont().Encode()
	if sum := Checksum(buf); sum != 0xB1B0AFBA {
		t.Errorf("whole-file checksum is %08x", sum)
	}

	// the adjustment must be stored in the head table
	f, err := Load(buf)
	if err != nil {
		t.Fatal(err)
	}
	adj := binary.BigEndian.Uint32(f.Table("head")[8:12])
	if adj == 0 {
		t.Error("checkSumAdjustment not patched")
	}
}

func TestDirectorySorted(t *testing.T) {
	buf := makeTestFont().Encode()
	numTables := int(binary.BigEndian.Uint16(buf[4:]))
	var prev string
	for i := 0; i < numTables; i++ {
		tag := string(buf[12+16*i : 16+16*i])
		if tag <= prev {
			t.Errorf("directory not sorted: %q after %q", tag, prev)
		}
		prev = tag
	}
}

func TestTableOrder(t *testing.T) {
	buf := makeTestFont().Encode()
	f, err := Load(buf)
	if err != nil {
		t.Fatal(err)
	}
	// bodies must follow the recommended ordering, unknown tags last
	want := []string{"head", "maxp", "glyf", "TEST"}
	var got []string
	type entry struct {
		tag    string
		offset uint32
	}
	var entries []entry
	for i := 0; i < f.NumTables(); i++ {
		rec := buf[12+16*i:]
		entries = append(entries, entry{
			tag:    string(rec[:4]),
			offset: binary.BigEndian.Uint32(rec[8:]),
		})
	}
	for len(entries) > 0 {
		best := 0
		for i, e := range entries {
			if e.offset < entries[best].offset {
				best = i
			}
		}
		got = append(got, entries[best].tag)
		entries = append(entries[:best], entries[best+1:]...)
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestLoadErrors(t *testing.T) {
	good := makeTestFont().Encode()

	corrupt := func(mod func(buf []byte) []byte) []byte {
		buf := append([]byte{}, good...)
		return mod(buf)
	}

	cases := []struct {
		name string
		in   []byte
	}{
		{"short", []byte{0, 1, 0}},
		{"badScaler", corrupt(func(buf []byte) []byte {
			copy(buf, "wOF2")
			return buf
		})},
		{"noTables", corrupt(func(buf []byte) []byte {
			binary.BigEndian.PutUint16(buf[4:], 0)
			return buf
		})},
		{"truncatedDir", good[:12+5]},
		{"badTag", corrupt(func(buf []byte) []byte {
			copy(buf[12:], []byte{0, 1, 2, 3})
			return buf
		})},
		{"outOfBounds", corrupt(func(buf []byte) []byte {
			binary.BigEndian.PutUint32(buf[12+12:], uint32(len(buf)))
			return buf
		})},
		{"overlap", corrupt(func(buf []byte) []byte {
			// point "glyf" (directory entry 1) into the body of
			// "head" (directory entry 2)
			headOffs := binary.BigEndian.Uint32(buf[12+2*16+8:])
			binary.BigEndian.PutUint32(buf[12+1*16+8:], headOffs+4)
			return buf
		})},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(test.in)
			if err == nil {
				t.Fatal("malformed font accepted")
			}
			var invErr *InvalidFontError
			var nsErr *NotSupportedError
			if !errors.As(err, &invErr) && !errors.As(err, &nsErr) {
				t.Errorf("unexpected error type: %v", err)
			}
		})
	}
}

func TestSetAndDrop(t *testing.T) {
	f := makeTestFont()
	if !f.Has("glyf", "maxp") {
		t.Fatal("tables missing")
	}
	f.DropTable("glyf")
	if f.Has("glyf") {
		t.Error("glyf still present")
	}
	f.SetTable("loca", []byte{0, 0})
	if !f.Has("loca") {
		t.Error("loca not added")
	}
	tags := f.Tags()
	if tags[len(tags)-1] != "loca" {
		t.Errorf("new table not last: %v", tags)
	}
}
