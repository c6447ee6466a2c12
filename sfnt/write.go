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
	"io"
	"math/bits"
	"sort"
)

// ttTableOrder gives the recommended order of tables in the body of a
// TrueType font file.  Tables not listed here go last, sorted by tag.
var ttTableOrder = map[string]int{
	"head": 95,
	"hhea": 90,
	"maxp": 85,
	"OS/2": 80,
	"hmtx": 75,
	"LTSH": 70,
	"VDMX": 65,
	"hdmx": 60,
	"cmap": 55,
	"fpgm": 50,
	"prep": 45,
	"cvt ": 40,
	"loca": 35,
	"glyf": 30,
	"kern": 25,
	"name": 20,
	"post": 15,
	"gasp": 10,
}

type directoryEntry struct {
	Tag      [4]byte
	CheckSum uint32
	Offset   uint32
	Length   uint32
}

// Encode serialises the font into a new byte slice.
//
// Table bodies are laid out in the recommended order and padded to
// four-byte boundaries, the table directory is sorted by tag, and the
// checkSumAdjustment field of the "head" table (if present) is patched
// so that the whole file sums to 0xB1B0AFBA.  The tables of f are not
// modified.
func (f *Font) Encode() []byte {
	names := make([]string, 0, len(f.tables))
	for _, name := range f.order {
		if _, ok := f.tables[name]; ok {
			names = append(names, name)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		pi := ttTableOrder[names[i]]
		pj := ttTableOrder[names[j]]
		if pi != pj {
			return pi > pj
		}
		return names[i] < names[j]
	})

	numTables := len(names)
	sel := bits.Len(uint(numTables)) - 1

	var totalSum uint32
	var totalSize int
	offset := uint32(12 + 16*numTables)
	bodies := make([][]byte, numTables)
	entries := make([]directoryEntry, numTables)
	var headBody []byte
	for i, name := range names {
		body := f.tables[name]
		if name == "head" && len(body) >= 12 {
			// checkSumAdjustment must be zero while checksums are
			// being computed
			body = append([]byte{}, body...)
			binary.BigEndian.PutUint32(body[8:12], 0)
			headBody = body
		}
		bodies[i] = body

		sum := Checksum(body)
		entry := directoryEntry{
			CheckSum: sum,
			Offset:   offset,
			Length:   uint32(len(body)),
		}
		copy(entry.Tag[:], name)
		entries[i] = entry

		totalSum += sum
		padded := (len(body) + 3) &^ 3
		offset += uint32(padded)
		totalSize += padded
	}

	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].Tag[:], entries[j].Tag[:]) < 0
	})

	buf := bytes.NewBuffer(make([]byte, 0, 12+16*numTables+totalSize))
	header := struct {
		ScalerType    uint32
		NumTables     uint16
		SearchRange   uint16
		EntrySelector uint16
		RangeShift    uint16
	}{
		ScalerType:    f.ScalerType,
		NumTables:     uint16(numTables),
		SearchRange:   uint16(1 << (sel + 4)),
		EntrySelector: uint16(sel),
		RangeShift:    uint16(16 * (numTables - 1<<sel)),
	}
	binary.Write(buf, binary.BigEndian, header)
	binary.Write(buf, binary.BigEndian, entries)
	totalSum += Checksum(buf.Bytes())

	if headBody != nil {
		binary.BigEndian.PutUint32(headBody[8:12],
			checkSumAdjustmentMagic-totalSum)
	}

	var pad [3]byte
	for _, body := range bodies {
		buf.Write(body)
		if k := len(body) % 4; k != 0 {
			buf.Write(pad[:4-k])
		}
	}
	return buf.Bytes()
}

// Write writes the font to w in the format produced by Encode.
func (f *Font) Write(w io.Writer) (int64, error) {
	n, err := w.Write(f.Encode())
	return int64(n), err
}
