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

// Package glyf builds placeholder "glyf" and "loca" tables for fonts
// whose glyphs are pure bitmaps.  Windows font loaders require outline
// tables to be present even when every glyph is empty.
package glyf

import (
	"encoding/binary"
	"fmt"

	"github.com/jjjuk/emoji-win/sfnt"
)

// BuildStubs returns a "glyf" table with no outline data and a short
// format "loca" table with numGlyphs+1 zero offsets, marking every
// glyph as an empty outline.
func BuildStubs(numGlyphs int) (glyfData, locaData []byte) {
	if numGlyphs < 1 || numGlyphs >= 1<<16 {
		panic("sfnt/glyf: numGlyphs out of range")
	}
	return []byte{}, make([]byte, 2*(numGlyphs+1))
}

// CheckLoca verifies that a "loca" table is consistent with the glyph
// count and the length of the "glyf" table.
func CheckLoca(locaData, glyfData []byte, numGlyphs int, longFormat bool) error {
	entrySize := 2
	if longFormat {
		entrySize = 4
	}
	if len(locaData) != entrySize*(numGlyphs+1) {
		return &sfnt.InvalidFontError{
			SubSystem: "sfnt/glyf",
			Reason: fmt.Sprintf("loca has %d bytes for %d glyphs",
				len(locaData), numGlyphs),
		}
	}

	var prev uint32
	for i := 0; i <= numGlyphs; i++ {
		var offs uint32
		if longFormat {
			offs = binary.BigEndian.Uint32(locaData[4*i:])
		} else {
			offs = 2 * uint32(binary.BigEndian.Uint16(locaData[2*i:]))
		}
		if offs < prev {
			return &sfnt.InvalidFontError{
				SubSystem: "sfnt/glyf",
				Reason:    fmt.Sprintf("loca offset %d decreasing", i),
			}
		}
		if offs > uint32(len(glyfData)) {
			return &sfnt.InvalidFontError{
				SubSystem: "sfnt/glyf",
				Reason:    fmt.Sprintf("loca offset %d past end of glyf", i),
			}
		}
		prev = offs
	}
	return nil
}
