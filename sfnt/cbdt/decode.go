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

package cbdt

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/jjjuk/emoji-win/sfnt"
)

const (
	cblcHeaderLength      = 8
	sizeRecordLength      = 48
	indexArrayEntryLength = 8
	indexHeaderLength     = 8
)

func errInvalid(format string, a ...interface{}) error {
	return &sfnt.InvalidFontError{
		SubSystem: "sfnt/cblc",
		Reason:    fmt.Sprintf(format, a...),
	}
}

// Decode parses a CBLC/CBDT table pair.  Glyph image data is sliced
// out of cbdt without copying.
func Decode(cblc, cbdt []byte) (*Atlas, error) {
	if len(cblc) < cblcHeaderLength {
		return nil, errInvalid("CBLC table too short")
	}
	major := binary.BigEndian.Uint16(cblc)
	if major != 3 {
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/cblc",
			Feature:   fmt.Sprintf("table version %d", major),
		}
	}
	if len(cbdt) < 4 {
		return nil, &sfnt.InvalidFontError{
			SubSystem: "sfnt/cbdt",
			Reason:    "CBDT table too short",
		}
	}
	if v := binary.BigEndian.Uint16(cbdt); v != 3 {
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/cbdt",
			Feature:   fmt.Sprintf("table version %d", v),
		}
	}

	numSizes := binary.BigEndian.Uint32(cblc[4:])
	if uint64(len(cblc)) < cblcHeaderLength+sizeRecordLength*uint64(numSizes) {
		return nil, errInvalid("%d size records in a %d byte table",
			numSizes, len(cblc))
	}

	atlas := &Atlas{
		MinorVersion: binary.BigEndian.Uint16(cblc[2:]),
	}
	for i := uint32(0); i < numSizes; i++ {
		rec := cblc[cblcHeaderLength+sizeRecordLength*i:]
		strike := &Strike{
			ColorRef: binary.BigEndian.Uint32(rec[12:]),
			Hori:     decodeLineMetrics(rec[16:28]),
			Vert:     decodeLineMetrics(rec[28:40]),
			PPEMX:    rec[44],
			PPEMY:    rec[45],
			BitDepth: rec[46],
			Flags:    int8(rec[47]),
		}

		arrayOffset := binary.BigEndian.Uint32(rec[0:])
		numSub := binary.BigEndian.Uint32(rec[8:])
		end := uint64(arrayOffset) + indexArrayEntryLength*uint64(numSub)
		if end > uint64(len(cblc)) {
			return nil, errInvalid("strike %d: index subtable list out of bounds", i)
		}
		for j := uint32(0); j < numSub; j++ {
			entry := cblc[arrayOffset+indexArrayEntryLength*j:]
			first := binary.BigEndian.Uint16(entry)
			last := binary.BigEndian.Uint16(entry[2:])
			additional := binary.BigEndian.Uint32(entry[4:])
			if first > last {
				return nil, errInvalid("strike %d: glyph range %d-%d", i, first, last)
			}
			sub, err := decodeSubtable(cblc, cbdt,
				uint64(arrayOffset)+uint64(additional), first, last)
			if err != nil {
				return nil, err
			}
			strike.Subtables = append(strike.Subtables, sub)
		}
		atlas.Strikes = append(atlas.Strikes, strike)
	}
	return atlas, nil
}

func decodeSubtable(cblc, cbdt []byte, offset uint64, first, last uint16) (*Subtable, error) {
	if offset+indexHeaderLength > uint64(len(cblc)) {
		return nil, errInvalid("index subtable at %d out of bounds", offset)
	}
	buf := cblc[offset:]
	sub := &Subtable{
		IndexFormat: binary.BigEndian.Uint16(buf),
		ImageFormat: binary.BigEndian.Uint16(buf[2:]),
	}
	dataOffset := binary.BigEndian.Uint32(buf[4:])
	n := int(last) - int(first) + 1

	switch sub.IndexFormat {
	case 1, 3: // dense ranges with per-glyph offsets
		wordSize := 4
		if sub.IndexFormat == 3 {
			wordSize = 2
		}
		need := indexHeaderLength + uint64(wordSize)*uint64(n+1)
		if uint64(len(buf)) < need {
			return nil, errInvalid("index subtable at %d truncated", offset)
		}
		readOffset := func(i int) uint32 {
			if wordSize == 2 {
				return uint32(binary.BigEndian.Uint16(buf[indexHeaderLength+2*i:]))
			}
			return binary.BigEndian.Uint32(buf[indexHeaderLength+4*i:])
		}
		for i := 0; i < n; i++ {
			start, end := readOffset(i), readOffset(i+1)
			if end < start {
				return nil, errInvalid("glyph %d: decreasing data offsets", int(first)+i)
			}
			if end == start {
				continue // no bitmap for this glyph
			}
			data, err := sliceImageData(cbdt, uint64(dataOffset)+uint64(start), uint64(end-start))
			if err != nil {
				return nil, err
			}
			sub.Glyphs = append(sub.Glyphs, Glyph{
				GID:  first + uint16(i),
				Data: data,
			})
		}

	case 2: // dense range, constant metrics
		if uint64(len(buf)) < indexHeaderLength+12 {
			return nil, errInvalid("index subtable at %d truncated", offset)
		}
		sub.ImageSize = binary.BigEndian.Uint32(buf[8:])
		sub.Metrics = decodeBigMetrics(buf[12:20])
		for i := 0; i < n; i++ {
			data, err := sliceImageData(cbdt,
				uint64(dataOffset)+uint64(i)*uint64(sub.ImageSize),
				uint64(sub.ImageSize))
			if err != nil {
				return nil, err
			}
			sub.Glyphs = append(sub.Glyphs, Glyph{
				GID:  first + uint16(i),
				Data: data,
			})
		}

	case 4: // sparse glyph codes with per-glyph offsets
		if uint64(len(buf)) < indexHeaderLength+4 {
			return nil, errInvalid("index subtable at %d truncated", offset)
		}
		numGlyphs := binary.BigEndian.Uint32(buf[8:])
		need := indexHeaderLength + 4 + 4*(uint64(numGlyphs)+1)
		if uint64(len(buf)) < need {
			return nil, errInvalid("index subtable at %d truncated", offset)
		}
		for i := uint64(0); i < uint64(numGlyphs); i++ {
			pair := buf[12+4*i:]
			gid := binary.BigEndian.Uint16(pair)
			start := binary.BigEndian.Uint16(pair[2:])
			end := binary.BigEndian.Uint16(pair[6:])
			if end < start {
				return nil, errInvalid("glyph %d: decreasing data offsets", gid)
			}
			if end == start {
				continue
			}
			data, err := sliceImageData(cbdt, uint64(dataOffset)+uint64(start), uint64(end-start))
			if err != nil {
				return nil, err
			}
			sub.Glyphs = append(sub.Glyphs, Glyph{GID: gid, Data: data})
		}

	case 5: // sparse glyph codes, constant metrics
		if uint64(len(buf)) < indexHeaderLength+16 {
			return nil, errInvalid("index subtable at %d truncated", offset)
		}
		sub.ImageSize = binary.BigEndian.Uint32(buf[8:])
		sub.Metrics = decodeBigMetrics(buf[12:20])
		numGlyphs := binary.BigEndian.Uint32(buf[20:])
		if uint64(len(buf)) < indexHeaderLength+16+2*uint64(numGlyphs) {
			return nil, errInvalid("index subtable at %d truncated", offset)
		}
		for i := uint64(0); i < uint64(numGlyphs); i++ {
			gid := binary.BigEndian.Uint16(buf[24+2*i:])
			data, err := sliceImageData(cbdt,
				uint64(dataOffset)+i*uint64(sub.ImageSize),
				uint64(sub.ImageSize))
			if err != nil {
				return nil, err
			}
			sub.Glyphs = append(sub.Glyphs, Glyph{GID: gid, Data: data})
		}

	default:
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/cblc",
			Feature:   fmt.Sprintf("index format %d", sub.IndexFormat),
		}
	}

	sort.Slice(sub.Glyphs, func(i, j int) bool {
		return sub.Glyphs[i].GID < sub.Glyphs[j].GID
	})
	return sub, nil
}

func sliceImageData(cbdt []byte, offset, length uint64) ([]byte, error) {
	if offset+length > uint64(len(cbdt)) {
		return nil, &sfnt.InvalidFontError{
			SubSystem: "sfnt/cbdt",
			Reason:    "glyph data out of bounds",
		}
	}
	return cbdt[offset : offset+length], nil
}

func decodeLineMetrics(buf []byte) LineMetrics {
	return LineMetrics{
		Ascender:              int8(buf[0]),
		Descender:             int8(buf[1]),
		WidthMax:              buf[2],
		CaretSlopeNumerator:   int8(buf[3]),
		CaretSlopeDenominator: int8(buf[4]),
		CaretOffset:           int8(buf[5]),
		MinOriginSB:           int8(buf[6]),
		MinAdvanceSB:          int8(buf[7]),
		MaxBeforeBL:           int8(buf[8]),
		MinAfterBL:            int8(buf[9]),
	}
}

func decodeBigMetrics(buf []byte) *BigGlyphMetrics {
	return &BigGlyphMetrics{
		Height:       buf[0],
		Width:        buf[1],
		HoriBearingX: int8(buf[2]),
		HoriBearingY: int8(buf[3]),
		HoriAdvance:  buf[4],
		VertBearingX: int8(buf[5]),
		VertBearingY: int8(buf[6]),
		VertAdvance:  buf[7],
	}
}
