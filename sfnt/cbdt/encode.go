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

import "encoding/binary"

// Encode serialises the atlas into a fresh CBLC/CBDT table pair.  All
// offsets are recomputed; glyph image data is copied through verbatim.
//
// Index formats 1, 3 and 4 are normalised to format 1 (dense ranges
// with 32 bit offsets).  The constant-metrics formats 2 and 5 are
// re-emitted as themselves, since their glyph metrics live in the
// index subtable rather than in the image data.
func (a *Atlas) Encode() (cblcData, cbdtData []byte) {
	cbdt := []byte{0, 3, 0, 0}

	type encStrike struct {
		subs       [][]byte
		firsts     []uint16
		lasts      []uint16
		start, end uint16
	}
	encoded := make([]encStrike, len(a.Strikes))
	for i, strike := range a.Strikes {
		es := &encoded[i]
		es.start = 0xFFFF
		for _, sub := range strike.Subtables {
			if len(sub.Glyphs) == 0 {
				continue
			}
			first, last := sub.Range()
			dataOffset := uint32(len(cbdt))
			var enc []byte

			switch sub.IndexFormat {
			case 2:
				for _, g := range sub.Glyphs {
					cbdt = append(cbdt, g.Data...)
				}
				enc = make([]byte, 20)
				binary.BigEndian.PutUint16(enc, 2)
				binary.BigEndian.PutUint16(enc[2:], sub.ImageFormat)
				binary.BigEndian.PutUint32(enc[4:], dataOffset)
				binary.BigEndian.PutUint32(enc[8:], sub.ImageSize)
				putBigMetrics(enc[12:], sub.Metrics)

			case 5:
				for _, g := range sub.Glyphs {
					cbdt = append(cbdt, g.Data...)
				}
				numGlyphs := len(sub.Glyphs)
				enc = make([]byte, pad4(24+2*numGlyphs))
				binary.BigEndian.PutUint16(enc, 5)
				binary.BigEndian.PutUint16(enc[2:], sub.ImageFormat)
				binary.BigEndian.PutUint32(enc[4:], dataOffset)
				binary.BigEndian.PutUint32(enc[8:], sub.ImageSize)
				putBigMetrics(enc[12:], sub.Metrics)
				binary.BigEndian.PutUint32(enc[20:], uint32(numGlyphs))
				for k, g := range sub.Glyphs {
					binary.BigEndian.PutUint16(enc[24+2*k:], g.GID)
				}

			default:
				n := int(last) - int(first) + 1
				enc = make([]byte, indexHeaderLength+4*(n+1))
				binary.BigEndian.PutUint16(enc, 1)
				binary.BigEndian.PutUint16(enc[2:], sub.ImageFormat)
				binary.BigEndian.PutUint32(enc[4:], dataOffset)

				var rel uint32
				k := 0
				for idx := 0; idx < n; idx++ {
					binary.BigEndian.PutUint32(enc[indexHeaderLength+4*idx:], rel)
					gid := first + uint16(idx)
					if k < len(sub.Glyphs) && sub.Glyphs[k].GID == gid {
						cbdt = append(cbdt, sub.Glyphs[k].Data...)
						rel += uint32(len(sub.Glyphs[k].Data))
						k++
					}
				}
				binary.BigEndian.PutUint32(enc[indexHeaderLength+4*n:], rel)
			}

			es.subs = append(es.subs, enc)
			es.firsts = append(es.firsts, first)
			es.lasts = append(es.lasts, last)
			if first < es.start {
				es.start = first
			}
			if last > es.end {
				es.end = last
			}
		}
		if len(es.subs) == 0 {
			es.start = 0
		}
	}

	numSizes := len(a.Strikes)
	cblc := make([]byte, cblcHeaderLength+sizeRecordLength*numSizes)
	binary.BigEndian.PutUint16(cblc, 3)
	binary.BigEndian.PutUint16(cblc[2:], a.MinorVersion)
	binary.BigEndian.PutUint32(cblc[4:], uint32(numSizes))

	for i, strike := range a.Strikes {
		es := &encoded[i]
		numSub := len(es.subs)
		arrayOffset := uint32(len(cblc))

		tablesSize := uint32(indexArrayEntryLength * numSub)
		additional := make([]uint32, numSub)
		for j, sub := range es.subs {
			additional[j] = tablesSize
			tablesSize += uint32(len(sub))
		}

		rec := cblc[cblcHeaderLength+sizeRecordLength*i:]
		binary.BigEndian.PutUint32(rec[0:], arrayOffset)
		binary.BigEndian.PutUint32(rec[4:], tablesSize)
		binary.BigEndian.PutUint32(rec[8:], uint32(numSub))
		binary.BigEndian.PutUint32(rec[12:], strike.ColorRef)
		putLineMetrics(rec[16:], strike.Hori)
		putLineMetrics(rec[28:], strike.Vert)
		binary.BigEndian.PutUint16(rec[40:], es.start)
		binary.BigEndian.PutUint16(rec[42:], es.end)
		rec[44] = strike.PPEMX
		rec[45] = strike.PPEMY
		rec[46] = strike.BitDepth
		rec[47] = byte(strike.Flags)

		for j := range es.subs {
			var entry [indexArrayEntryLength]byte
			binary.BigEndian.PutUint16(entry[0:], es.firsts[j])
			binary.BigEndian.PutUint16(entry[2:], es.lasts[j])
			binary.BigEndian.PutUint32(entry[4:], additional[j])
			cblc = append(cblc, entry[:]...)
		}
		for _, sub := range es.subs {
			cblc = append(cblc, sub...)
		}
	}

	return cblc, cbdt
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

func putLineMetrics(buf []byte, m LineMetrics) {
	buf[0] = byte(m.Ascender)
	buf[1] = byte(m.Descender)
	buf[2] = m.WidthMax
	buf[3] = byte(m.CaretSlopeNumerator)
	buf[4] = byte(m.CaretSlopeDenominator)
	buf[5] = byte(m.CaretOffset)
	buf[6] = byte(m.MinOriginSB)
	buf[7] = byte(m.MinAdvanceSB)
	buf[8] = byte(m.MaxBeforeBL)
	buf[9] = byte(m.MinAfterBL)
	buf[10] = 0
	buf[11] = 0
}

func putBigMetrics(buf []byte, m *BigGlyphMetrics) {
	if m == nil {
		m = &BigGlyphMetrics{}
	}
	buf[0] = m.Height
	buf[1] = m.Width
	buf[2] = byte(m.HoriBearingX)
	buf[3] = byte(m.HoriBearingY)
	buf[4] = m.HoriAdvance
	buf[5] = byte(m.VertBearingX)
	buf[6] = byte(m.VertBearingY)
	buf[7] = m.VertAdvance
}
