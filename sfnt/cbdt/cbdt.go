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

// Package cbdt reads and writes the "CBLC" and "CBDT" color bitmap
// tables.  https://docs.microsoft.com/en-us/typography/opentype/spec/cbdt
//
// Glyph image data is treated as opaque: an Atlas can be filtered and
// re-encoded without touching the embedded PNG payloads.
package cbdt

import (
	"fmt"
	"sort"
)

// DirectWriteSizes lists the strike sizes (in pixels per em) which the
// Windows DirectWrite emoji renderer selects correctly.  Strikes at
// other sizes make DirectWrite fall back to blurry scaling or reject
// the font outright.
var DirectWriteSizes = []int{16, 20, 24, 32, 40, 48, 64, 96, 128}

// LineMetrics is the sbitLineMetrics record of a bitmap strike.
type LineMetrics struct {
	Ascender              int8
	Descender             int8
	WidthMax              uint8
	CaretSlopeNumerator   int8
	CaretSlopeDenominator int8
	CaretOffset           int8
	MinOriginSB           int8
	MinAdvanceSB          int8
	MaxBeforeBL           int8
	MinAfterBL            int8
}

// BigGlyphMetrics holds the metrics stored in the index subtable for
// constant-metrics index formats (2 and 5).
type BigGlyphMetrics struct {
	Height       uint8
	Width        uint8
	HoriBearingX int8
	HoriBearingY int8
	HoriAdvance  uint8
	VertBearingX int8
	VertBearingY int8
	VertAdvance  uint8
}

// Glyph is a single bitmap glyph record.  Data holds the glyph's bytes
// from the CBDT table verbatim, including any metrics header the image
// format carries.
type Glyph struct {
	GID  uint16
	Data []byte
}

// Subtable is one index subtable of a strike.  Glyphs are sorted by
// glyph ID.
//
// For the constant-metrics index formats (2 and 5) ImageSize and
// Metrics are set and every glyph's Data has length ImageSize.  For the
// other index formats both are zero; the per-glyph data contains the
// metrics.
type Subtable struct {
	IndexFormat uint16
	ImageFormat uint16
	ImageSize   uint32
	Metrics     *BigGlyphMetrics
	Glyphs      []Glyph
}

// Range returns the first and last glyph ID covered by the subtable.
func (s *Subtable) Range() (first, last uint16) {
	if len(s.Glyphs) == 0 {
		return 0, 0
	}
	return s.Glyphs[0].GID, s.Glyphs[len(s.Glyphs)-1].GID
}

// Strike is the set of bitmap glyphs for one pixel size.
type Strike struct {
	Hori     LineMetrics
	Vert     LineMetrics
	PPEMX    uint8
	PPEMY    uint8
	BitDepth uint8
	Flags    int8
	ColorRef uint32

	Subtables []*Subtable
}

// PPEM returns the strike's pixel size.
func (s *Strike) PPEM() int {
	return int(s.PPEMY)
}

// NumGlyphs returns the number of glyphs in the strike.
func (s *Strike) NumGlyphs() int {
	n := 0
	for _, sub := range s.Subtables {
		n += len(sub.Glyphs)
	}
	return n
}

// Atlas is the decoded form of a CBLC/CBDT table pair.
type Atlas struct {
	MinorVersion uint16
	Strikes      []*Strike
}

// PPEMs returns the pixel sizes of all strikes, in table order.
func (a *Atlas) PPEMs() []int {
	res := make([]int, len(a.Strikes))
	for i, s := range a.Strikes {
		res[i] = s.PPEM()
	}
	return res
}

// GlyphSet returns the set of glyph IDs which have a bitmap in at
// least one strike.
func (a *Atlas) GlyphSet() map[uint16]bool {
	res := make(map[uint16]bool)
	for _, s := range a.Strikes {
		for _, sub := range s.Subtables {
			for _, g := range sub.Glyphs {
				res[g.GID] = true
			}
		}
	}
	return res
}

// NoAcceptableStrikesError is returned by Filter when none of the
// strikes of a font has an accepted pixel size.
type NoAcceptableStrikesError struct {
	Available []int
	Accepted  []int
}

func (err *NoAcceptableStrikesError) Error() string {
	return fmt.Sprintf("no strike with an accepted size (available %v, accepted %v)",
		err.Available, err.Accepted)
}

// Filter returns a new Atlas containing only the strikes whose pixel
// size is in accepted, together with the sizes of the dropped strikes.
// Strikes are never rescaled.  If no strike survives, a
// *NoAcceptableStrikesError is returned.
func (a *Atlas) Filter(accepted []int) (*Atlas, []int, error) {
	ok := make(map[int]bool, len(accepted))
	for _, size := range accepted {
		ok[size] = true
	}

	res := &Atlas{MinorVersion: a.MinorVersion}
	var dropped []int
	for _, s := range a.Strikes {
		if ok[s.PPEM()] && int(s.PPEMX) == int(s.PPEMY) {
			res.Strikes = append(res.Strikes, s)
		} else {
			dropped = append(dropped, s.PPEM())
		}
	}
	if len(res.Strikes) == 0 {
		sorted := append([]int{}, accepted...)
		sort.Ints(sorted)
		return nil, nil, &NoAcceptableStrikesError{
			Available: a.PPEMs(),
			Accepted:  sorted,
		}
	}
	return res, dropped, nil
}
