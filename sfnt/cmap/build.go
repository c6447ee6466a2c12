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

// BuildStats describes the outcome of BuildWindows.
type BuildStats struct {
	BMP           int // mappings stored in the format 4 subtable
	Supplementary int // mappings above the BMP
	Dropped       int // mappings whose glyph was not retained

	// FirstChar and LastChar bound the mapped code points, clamped to
	// 0xFFFF for use in the OS/2 table.
	FirstChar uint16
	LastChar  uint16
}

// BuildWindows builds the Windows character map subtables from a
// merged mapping.  Mappings whose glyph retained reports false are
// dropped.  The BMP part goes into a format 4 subtable; if any code
// point lies beyond the BMP, the complete mapping additionally goes
// into a format 12 subtable and full is non-nil.
func BuildWindows(m Mapping, retained func(uint16) bool) (bmp, full []byte, stats BuildStats) {
	var kept Mapping
	bmpMap := make(map[uint16]uint16)
	stats.FirstChar = 0xFFFF
	for _, e := range m {
		if retained != nil && !retained(e.GID) {
			stats.Dropped++
			continue
		}
		kept = append(kept, e)
		if e.Code <= 0xFFFF {
			bmpMap[uint16(e.Code)] = e.GID
			stats.BMP++
		} else {
			stats.Supplementary++
		}

		code := uint16(0xFFFF)
		if e.Code < 0xFFFF {
			code = uint16(e.Code)
		}
		if code < stats.FirstChar {
			stats.FirstChar = code
		}
		if code > stats.LastChar {
			stats.LastChar = code
		}
	}
	if len(kept) == 0 {
		stats.FirstChar = 0
	}

	bmp = EncodeFormat4(bmpMap, 0)
	if stats.Supplementary > 0 {
		full = EncodeFormat12(kept, 0)
	}
	return bmp, full, stats
}
