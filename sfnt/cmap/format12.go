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

import "encoding/binary"

// EncodeFormat12 builds a format 12 (segmented coverage) subtable from
// a mapping sorted by code point.  Runs of consecutive code points
// mapping to consecutive glyphs are stored as single groups.
func EncodeFormat12(m Mapping, language uint16) []byte {
	type group struct {
		startCode, endCode uint32
		startGID           uint16
	}
	var groups []group
	for _, e := range m {
		code := uint32(e.Code)
		n := len(groups)
		if n > 0 && code == groups[n-1].endCode+1 &&
			uint32(e.GID) == uint32(groups[n-1].startGID)+(code-groups[n-1].startCode) {
			groups[n-1].endCode = code
			continue
		}
		groups = append(groups, group{
			startCode: code,
			endCode:   code,
			startGID:  e.GID,
		})
	}

	length := 16 + 12*len(groups)
	res := make([]byte, length)
	binary.BigEndian.PutUint16(res[0:2], 12)
	binary.BigEndian.PutUint32(res[4:8], uint32(length))
	binary.BigEndian.PutUint32(res[8:12], uint32(language))
	binary.BigEndian.PutUint32(res[12:16], uint32(len(groups)))
	for i, g := range groups {
		base := 16 + i*12
		binary.BigEndian.PutUint32(res[base:], g.startCode)
		binary.BigEndian.PutUint32(res[base+4:], g.endCode)
		binary.BigEndian.PutUint32(res[base+8:], uint32(g.startGID))
	}
	return res
}
