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

import "encoding/binary"

// checkSumAdjustmentMagic is the constant the whole-file checksum of a
// font must sum to, after the "head" table's checkSumAdjustment field
// has been patched.
const checkSumAdjustmentMagic = 0xB1B0AFBA

// Checksum computes the sfnt checksum of a table body.  The body is
// implicitly padded with zeros to a multiple of four bytes.
func Checksum(data []byte) uint32 {
	var sum uint32
	i := 0
	for ; i+4 <= len(data); i += 4 {
		sum += binary.BigEndian.Uint32(data[i : i+4])
	}
	if i < len(data) {
		var tail [4]byte
		copy(tail[:], data[i:])
		sum += binary.BigEndian.Uint32(tail[:])
	}
	return sum
}
