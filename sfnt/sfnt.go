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

// Package sfnt reads and writes the container structure of TrueType and
// OpenType font files: the offset subtable, the table directory, and the
// checksum machinery.  Table bodies are kept as opaque byte slices; the
// subpackages of this package decode and encode individual tables.
package sfnt

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// The scaler types this library can read.
const (
	ScalerTypeTrueType = 0x00010000
	ScalerTypeCFF      = 0x4F54544F // "OTTO"
	ScalerTypeApple    = 0x74727565 // "true"
)

// Font is the collection of tables which makes up an sfnt font file.
// Table bodies are stored verbatim; Encode recomputes all offsets and
// checksums from scratch.
type Font struct {
	// ScalerType is the number in the first four bytes of the font file.
	ScalerType uint32

	tables map[string][]byte
	order  []string
}

// New creates an empty font with the given scaler type.
func New(scalerType uint32) *Font {
	return &Font{
		ScalerType: scalerType,
		tables:     map[string][]byte{},
	}
}

// Load parses the table directory of an sfnt font file.  Table bodies
// are not decoded; they share the backing array of data.
//
// Fonts with an unknown scaler type, a malformed directory, tables which
// reach beyond the end of the file, or tables which overlap each other
// are rejected.
func Load(data []byte) (*Font, error) {
	if len(data) < 12 {
		return nil, &InvalidFontError{
			SubSystem: "sfnt",
			Reason:    "file too short",
		}
	}
	scalerType := binary.BigEndian.Uint32(data)
	switch scalerType {
	case ScalerTypeTrueType, ScalerTypeCFF, ScalerTypeApple:
		// ok
	default:
		return nil, &NotSupportedError{
			SubSystem: "sfnt",
			Feature:   fmt.Sprintf("scaler type 0x%08X", scalerType),
		}
	}

	numTables := int(binary.BigEndian.Uint16(data[4:]))
	if numTables == 0 {
		return nil, &InvalidFontError{
			SubSystem: "sfnt",
			Reason:    "no tables in font",
		}
	}
	dirEnd := 12 + 16*numTables
	if len(data) < dirEnd {
		return nil, &InvalidFontError{
			SubSystem: "sfnt",
			Reason:    "table directory truncated",
		}
	}

	type span struct {
		start, end uint32
	}
	coverage := make([]span, 0, numTables)

	f := New(scalerType)
	for i := 0; i < numTables; i++ {
		rec := data[12+16*i:]
		tag := string(rec[:4])
		if !validTag(tag) {
			return nil, &InvalidFontError{
				SubSystem: "sfnt",
				Reason:    fmt.Sprintf("invalid table tag %q", tag),
			}
		}
		if _, seen := f.tables[tag]; seen {
			return nil, &InvalidFontError{
				SubSystem: "sfnt",
				Reason:    fmt.Sprintf("duplicate table %q", tag),
			}
		}
		offset := binary.BigEndian.Uint32(rec[8:])
		length := binary.BigEndian.Uint32(rec[12:])
		if offset < uint32(dirEnd) ||
			uint64(offset)+uint64(length) > uint64(len(data)) {
			return nil, &InvalidFontError{
				SubSystem: "sfnt",
				Reason:    fmt.Sprintf("table %q out of bounds", tag),
			}
		}
		if length > 0 {
			coverage = append(coverage, span{offset, offset + length})
		}
		f.tables[tag] = data[offset : offset+length]
		f.order = append(f.order, tag)
	}

	sort.Slice(coverage, func(i, j int) bool {
		if coverage[i].start != coverage[j].start {
			return coverage[i].start < coverage[j].start
		}
		return coverage[i].end < coverage[j].end
	})
	for i := 1; i < len(coverage); i++ {
		prev, cur := coverage[i-1], coverage[i]
		if cur == prev {
			// two directory entries pointing at the same bytes are fine
			continue
		}
		if cur.start < prev.end {
			return nil, &InvalidFontError{
				SubSystem: "sfnt",
				Reason:    "overlapping tables",
			}
		}
	}

	return f, nil
}

// Has returns true if all of the given tables are present in the font.
func (f *Font) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := f.tables[name]; !ok {
			return false
		}
	}
	return true
}

// Table returns the body of the named table, or nil if the table is not
// present.
func (f *Font) Table(name string) []byte {
	return f.tables[name]
}

// SetTable replaces the body of the named table, adding the table to the
// font if needed.
func (f *Font) SetTable(name string, data []byte) {
	if _, ok := f.tables[name]; !ok {
		f.order = append(f.order, name)
	}
	f.tables[name] = data
}

// DropTable removes the named table from the font, if present.
func (f *Font) DropTable(name string) {
	if _, ok := f.tables[name]; !ok {
		return
	}
	delete(f.tables, name)
	for i, o := range f.order {
		if o == name {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// Tags returns the tags of all tables in the font, in the order they
// appeared in the source file (tables added later go last).
func (f *Font) Tags() []string {
	res := make([]string, len(f.order))
	copy(res, f.order)
	return res
}

// NumTables returns the number of tables in the font.
func (f *Font) NumTables() int {
	return len(f.tables)
}

func validTag(tag string) bool {
	if len(tag) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if tag[i] < 0x20 || tag[i] > 0x7E {
			return false
		}
	}
	return true
}
