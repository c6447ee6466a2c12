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

package cmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/dijkstra"
)

// makeSegments must satisfy the graph interface of the path search.
var _ dijkstra.Graph[uint32, *segment, int] = makeSegments(nil)

func TestFormat4RoundTrip(t *testing.T) {
	cases := []map[uint16]uint16{
		{},
		{0x41: 1},
		{0x41: 1, 0x42: 2, 0x43: 3, 0x44: 4}, // delta run
		{0x41: 17, 0x45: 3, 0x49: 900},       // sparse
		{0x20: 1, 0x21: 5, 0x22: 2, 0x23: 9, 0x24: 4}, // needs glyphIDArray
		{0xFFFE: 7},
	}
	for i, m := range cases {
		data := EncodeFormat4(m, 0)
		mapping, err := DecodeMapping(data)
		if err != nil {
			t.Fatalf("test %d: %v", i, err)
		}
		got := make(map[uint16]uint16)
		for _, e := range mapping {
			got[uint16(e.Code)] = e.GID
		}
		if d := cmp.Diff(m, got); d != "" {
			t.Errorf("test %d: %s", i, d)
		}
	}
}

func TestFormat4ManySegments(t *testing.T) {
	// mix delta runs, scattered glyphs and large gaps, so that the
	// segmentation search has to take many steps
	m := make(map[uint16]uint16)
	for i := 0; i < 64; i++ {
		m[uint16(0x100+i)] = uint16(200 + i) // one long delta run
	}
	for i := 0; i < 32; i++ {
		m[uint16(0x3000+8*i)] = uint16(7 * (i + 1)) // sparse
	}
	for i := 0; i < 10; i++ {
		m[uint16(0xE000+i)] = uint16(9000 - 13*i) // needs glyphIDArray
	}

	data := EncodeFormat4(m, 0)
	mapping, err := DecodeMapping(data)
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[uint16]uint16)
	for _, e := range mapping {
		got[uint16(e.Code)] = e.GID
	}
	if d := cmp.Diff(m, got); d != "" {
		t.Error(d)
	}
}

func TestFormat12RoundTrip(t *testing.T) {
	cases := []Mapping{
		nil,
		{{Code: 0x41, GID: 1}},
		{ // one group
			{Code: 0x1F600, GID: 0x1234},
			{Code: 0x1F601, GID: 0x1235},
			{Code: 0x1F602, GID: 0x1236},
		},
		{ // consecutive codes, non-consecutive glyphs
			{Code: 0x2139, GID: 9},
			{Code: 0x213A, GID: 4},
		},
		{ // BMP and supplementary plane mixed
			{Code: 0x23, GID: 10},
			{Code: 0x2764, GID: 1000},
			{Code: 0x1F9FF, GID: 300},
		},
	}
	for i, m := range cases {
		data := EncodeFormat12(m, 0)
		got, err := DecodeMapping(data)
		if err != nil {
			t.Fatalf("test %d: %v", i, err)
		}
		if d := cmp.Diff(m, got); d != "" {
			t.Errorf("test %d: %s", i, d)
		}
	}
}

func TestFormat12Groups(t *testing.T) {
	// a run of consecutive codes and glyphs must become a single group
	var m Mapping
	for i := 0; i < 100; i++ {
		m = append(m, Entry{Code: rune(0x1F300 + i), GID: uint16(50 + i)})
	}
	data := EncodeFormat12(m, 0)
	if len(data) != 16+12 {
		t.Errorf("runs not merged: %d bytes", len(data))
	}
}

func TestFormat0(t *testing.T) {
	data := make([]byte, 262)
	data[1] = 0 // format 0
	data[3] = 6 // length, fixed below
	data[2] = 1 // length = 262
	data[6+0x41] = 7
	data[6+0x42] = 8
	want := Mapping{
		{Code: 0x41, GID: 7},
		{Code: 0x42, GID: 8},
	}
	got, err := DecodeMapping(data)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestFormat6(t *testing.T) {
	data := []byte{
		0, 6, // format
		0, 14, // length
		0, 0, // language
		0x12, 0x34, // firstCode
		0, 2, // entryCount
		0, 9,
		0, 0, // .notdef, must be dropped
	}
	want := Mapping{{Code: 0x1234, GID: 9}}
	got, err := DecodeMapping(data)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestDecodeMappingErrors(t *testing.T) {
	cases := [][]byte{
		{0},
		{0, 8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, // unsupported format
		{0, 4, 0, 8, 0, 0, 0, 0},             // truncated format 4
		{0, 12, 0, 0, 0, 0, 0, 16, 0, 0, 0, 0, 0, 0, 0, 99}, // group count past the end
	}
	for i, data := range cases {
		if _, err := DecodeMapping(data); err == nil {
			t.Errorf("test %d: malformed subtable accepted", i)
		}
	}
}

func TestMerge(t *testing.T) {
	a := Mapping{
		{Code: 0x41, GID: 1},
		{Code: 0x1F600, GID: 2},
	}
	b := Mapping{
		{Code: 0x41, GID: 9}, // conflict, first mapping wins
		{Code: 0x42, GID: 3},
		{Code: 0x1F600, GID: 2}, // duplicate but no conflict
	}
	merged, conflicts := Merge(a, b)

	want := Mapping{
		{Code: 0x41, GID: 1},
		{Code: 0x42, GID: 3},
		{Code: 0x1F600, GID: 2},
	}
	if d := cmp.Diff(want, merged); d != "" {
		t.Error(d)
	}
	wantConflicts := []Conflict{
		{Code: 0x41, Kept: 1, Dropped: 9},
	}
	if d := cmp.Diff(wantConflicts, conflicts); d != "" {
		t.Error(d)
	}
}

func FuzzMapping(f *testing.F) {
	f.Add(EncodeFormat4(map[uint16]uint16{0x20: 1, 0x21: 2, 0x263A: 3}, 0))
	f.Add(EncodeFormat4(map[uint16]uint16{0x41: 17, 0x45: 3, 0x49: 900}, 0))
	f.Add(EncodeFormat12(Mapping{
		{Code: 0x263A, GID: 1},
		{Code: 0x1F600, GID: 2},
		{Code: 0x1F601, GID: 3},
		{Code: 0x1F680, GID: 4},
	}, 0))
	f.Fuzz(func(t *testing.T, in []byte) {
		m1, err := DecodeMapping(in)
		if err != nil {
			return
		}

		m2, err := DecodeMapping(EncodeFormat12(m1, 0))
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(m1, m2); d != "" {
			t.Error(d)
		}

		bmp := make(map[uint16]uint16)
		for _, e := range m1 {
			if e.Code <= 0xFFFF {
				bmp[uint16(e.Code)] = e.GID
			}
		}
		m3, err := DecodeMapping(EncodeFormat4(bmp, 0))
		if err != nil {
			t.Fatal(err)
		}
		got := make(map[uint16]uint16)
		for _, e := range m3 {
			got[uint16(e.Code)] = e.GID
		}
		if d := cmp.Diff(bmp, got); d != "" {
			t.Error(d)
		}
	})
}
