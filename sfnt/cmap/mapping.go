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
	"sort"

	"github.com/jjjuk/emoji-win/sfnt"
)

// Entry maps a single code point to a glyph.
type Entry struct {
	Code rune
	GID  uint16
}

// Mapping is a list of code point to glyph mappings, in the order the
// entries appear in the subtable they were decoded from.
type Mapping []Entry

var errMalformedSubtable = &sfnt.InvalidFontError{
	SubSystem: "sfnt/cmap",
	Reason:    "malformed cmap subtable",
}

// DecodeMapping decodes a cmap subtable with Unicode code point
// semantics.  Formats 0, 4, 6 and 12 are supported.  Mappings to glyph
// zero are omitted.
func DecodeMapping(data []byte) (Mapping, error) {
	if len(data) < 2 {
		return nil, errMalformedSubtable
	}
	format := uint16(data[0])<<8 | uint16(data[1])
	switch format {
	case 0:
		return decodeFormat0(data)
	case 4:
		return decodeFormat4(data)
	case 6:
		return decodeFormat6(data)
	case 12:
		return decodeFormat12(data)
	default:
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/cmap",
			Feature:   "subtable format",
		}
	}
}

func decodeFormat0(data []byte) (Mapping, error) {
	if len(data) < 262 {
		return nil, errMalformedSubtable
	}
	var res Mapping
	for code, gid := range data[6:262] {
		if gid != 0 {
			res = append(res, Entry{Code: rune(code), GID: uint16(gid)})
		}
	}
	return res, nil
}

func decodeFormat4(data []byte) (Mapping, error) {
	if len(data)%2 != 0 || len(data) < 16 {
		return nil, errMalformedSubtable
	}

	segCountX2 := int(data[6])<<8 | int(data[7])
	if segCountX2%2 != 0 || 4*segCountX2+16 > len(data) {
		return nil, errMalformedSubtable
	}
	segCount := segCountX2 / 2

	words := make([]uint16, 0, (len(data)-14)/2)
	for i := 14; i < len(data); i += 2 {
		words = append(words, uint16(data[i])<<8|uint16(data[i+1]))
	}
	endCode := words[:segCount]
	// reservedPad omitted
	startCode := words[segCount+1 : 2*segCount+1]
	idDelta := words[2*segCount+1 : 3*segCount+1]
	idRangeOffset := words[3*segCount+1 : 4*segCount+1]
	glyphIDArray := words[4*segCount+1:]

	var res Mapping
	prevEnd := uint32(0)
	for k := 0; k < segCount; k++ {
		start := uint32(startCode[k])
		end := uint32(endCode[k]) + 1
		if start < prevEnd || end <= start {
			return nil, errMalformedSubtable
		}
		prevEnd = end

		if idRangeOffset[k] == 0 {
			delta := idDelta[k]
			for idx := start; idx < end; idx++ {
				gid := uint16(idx) + delta
				if gid != 0 {
					res = append(res, Entry{Code: rune(idx), GID: gid})
				}
			}
		} else {
			d := int(idRangeOffset[k])/2 - (segCount - k)
			if d < 0 || d+int(end-start) > len(glyphIDArray) {
				if start == 0xFFFF {
					// some fonts have invalid data for the last segment
					continue
				}
				return nil, errMalformedSubtable
			}
			for idx := start; idx < end; idx++ {
				gid := glyphIDArray[d+int(idx-start)]
				if gid != 0 {
					res = append(res, Entry{Code: rune(idx), GID: gid})
				}
			}
		}
	}
	return res, nil
}

func decodeFormat6(data []byte) (Mapping, error) {
	if len(data) < 10 {
		return nil, errMalformedSubtable
	}
	firstCode := int(data[6])<<8 | int(data[7])
	entryCount := int(data[8])<<8 | int(data[9])
	if len(data) < 10+2*entryCount {
		return nil, errMalformedSubtable
	}
	var res Mapping
	for i := 0; i < entryCount; i++ {
		gid := uint16(data[10+2*i])<<8 | uint16(data[11+2*i])
		if gid != 0 {
			res = append(res, Entry{Code: rune(firstCode + i), GID: gid})
		}
	}
	return res, nil
}

func decodeFormat12(data []byte) (Mapping, error) {
	if len(data) < 16 {
		return nil, errMalformedSubtable
	}
	numGroups := uint32(data[12])<<24 | uint32(data[13])<<16 |
		uint32(data[14])<<8 | uint32(data[15])
	if uint64(len(data)) < 16+12*uint64(numGroups) {
		return nil, errMalformedSubtable
	}

	var res Mapping
	prevEnd := int64(-1)
	for i := uint32(0); i < numGroups; i++ {
		buf := data[16+12*i:]
		startCode := uint32(buf[0])<<24 | uint32(buf[1])<<16 |
			uint32(buf[2])<<8 | uint32(buf[3])
		endCode := uint32(buf[4])<<24 | uint32(buf[5])<<16 |
			uint32(buf[6])<<8 | uint32(buf[7])
		startGID := uint32(buf[8])<<24 | uint32(buf[9])<<16 |
			uint32(buf[10])<<8 | uint32(buf[11])

		if int64(startCode) <= prevEnd || endCode < startCode ||
			endCode > 0x10FFFF {
			return nil, errMalformedSubtable
		}
		prevEnd = int64(endCode)

		for c := startCode; c <= endCode; c++ {
			gid := startGID + (c - startCode)
			if gid > 0xFFFF {
				return nil, errMalformedSubtable
			}
			if gid != 0 {
				res = append(res, Entry{Code: rune(c), GID: uint16(gid)})
			}
		}
	}
	return res, nil
}

// A Conflict records a code point which was mapped to two different
// glyphs.  The first mapping encountered wins.
type Conflict struct {
	Code    rune
	Kept    uint16
	Dropped uint16
}

// Merge combines the mappings of several subtables into one.  Earlier
// mappings take precedence; later mappings of an already seen code
// point to a different glyph are reported as conflicts.  The result is
// sorted by code point.
func Merge(mappings ...Mapping) (Mapping, []Conflict) {
	seen := make(map[rune]uint16)
	var res Mapping
	var conflicts []Conflict
	for _, m := range mappings {
		for _, e := range m {
			if gid, ok := seen[e.Code]; ok {
				if gid != e.GID {
					conflicts = append(conflicts, Conflict{
						Code:    e.Code,
						Kept:    gid,
						Dropped: e.GID,
					})
				}
				continue
			}
			seen[e.Code] = e.GID
			res = append(res, e)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Code < res[j].Code
	})
	return res, conflicts
}
