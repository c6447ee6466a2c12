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

// Package fonttest builds small color emoji fonts for use in tests.
//
// The fonts mimic the structure of Apple's color emoji font: bitmap
// strikes in CBLC/CBDT with PNG glyph images, a Unicode character map,
// and no outline tables.
package fonttest

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"sort"
	"time"

	"github.com/jjjuk/emoji-win/sfnt"
	"github.com/jjjuk/emoji-win/sfnt/cbdt"
	"github.com/jjjuk/emoji-win/sfnt/cmap"
	"github.com/jjjuk/emoji-win/sfnt/head"
	"github.com/jjjuk/emoji-win/sfnt/maxp"
	"github.com/jjjuk/emoji-win/sfnt/name"
	"github.com/jjjuk/emoji-win/sfnt/os2"
)

// Options select the shape of the generated font.  The zero value
// gives a font with strikes at 20, 32 and 160 pixels per em and a
// handful of mapped glyphs.
type Options struct {
	// Strikes lists the pixel sizes of the bitmap strikes.
	Strikes []int

	// Mapping maps code points to glyph IDs.
	Mapping map[rune]uint16

	// BitmapGlyphs lists the glyph IDs which get bitmap images.  When
	// nil, every glyph the Mapping refers to gets one.
	BitmapGlyphs []uint16

	// NumGlyphs is the glyph count written to maxp.  When zero, one
	// more than the largest glyph ID in use.
	NumGlyphs int

	// UnitsPerEm is the design grid size.  When zero, 800.
	UnitsPerEm uint16

	// Family is the font family name.  When empty, "Test Color Emoji".
	Family string

	// WithOutlines adds empty glyf and loca tables.
	WithOutlines bool

	// OmitOS2 leaves out the OS/2 table.
	OmitOS2 bool
}

func (opt *Options) fill() *Options {
	res := &Options{
		Strikes: []int{20, 32, 160},
		Mapping: map[rune]uint16{
			0x263A:  1, // WHITE SMILING FACE
			0x1F600: 2, // GRINNING FACE
			0x1F601: 3,
			0x1F680: 4, // ROCKET
		},
		UnitsPerEm: 800,
		Family:     "Test Color Emoji",
	}
	if opt == nil {
		return res
	}
	if opt.Strikes != nil {
		res.Strikes = opt.Strikes
	}
	if opt.Mapping != nil {
		res.Mapping = opt.Mapping
	}
	res.BitmapGlyphs = opt.BitmapGlyphs
	res.NumGlyphs = opt.NumGlyphs
	if opt.UnitsPerEm != 0 {
		res.UnitsPerEm = opt.UnitsPerEm
	}
	if opt.Family != "" {
		res.Family = opt.Family
	}
	res.WithOutlines = opt.WithOutlines
	res.OmitOS2 = opt.OmitOS2
	return res
}

// New builds a font according to opt.
func New(opt *Options) *sfnt.Font {
	opt = opt.fill()

	gids := opt.BitmapGlyphs
	if gids == nil {
		seen := make(map[uint16]bool)
		for _, gid := range opt.Mapping {
			if !seen[gid] {
				seen[gid] = true
				gids = append(gids, gid)
			}
		}
	}
	sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })

	numGlyphs := opt.NumGlyphs
	if numGlyphs == 0 {
		for _, gid := range gids {
			if int(gid)+1 > numGlyphs {
				numGlyphs = int(gid) + 1
			}
		}
		for _, gid := range opt.Mapping {
			if int(gid)+1 > numGlyphs {
				numGlyphs = int(gid) + 1
			}
		}
		if numGlyphs == 0 {
			numGlyphs = 1
		}
	}

	f := sfnt.New(sfnt.ScalerTypeTrueType)

	created := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	headInfo := &head.Info{
		FontRevision:  0x00010000,
		UnitsPerEm:    opt.UnitsPerEm,
		Created:       created,
		Modified:      created,
		LowestRecPPEM: 16,
	}
	f.SetTable("head", headInfo.Encode())

	maxpInfo := &maxp.Info{NumGlyphs: numGlyphs}
	f.SetTable("maxp", maxpInfo.Encode())

	f.SetTable("name", makeName(opt.Family))
	f.SetTable("cmap", makeCmap(opt.Mapping))

	if !opt.OmitOS2 {
		f.SetTable("OS/2", makeOS2())
	}
	if opt.WithOutlines {
		glyfData := []byte{}
		locaData := make([]byte, 2*(numGlyphs+1))
		f.SetTable("glyf", glyfData)
		f.SetTable("loca", locaData)
	}

	atlas := &cbdt.Atlas{}
	for _, ppem := range opt.Strikes {
		atlas.Strikes = append(atlas.Strikes, makeStrike(ppem, gids))
	}
	cblc, cbdtData := atlas.Encode()
	f.SetTable("CBLC", cblc)
	f.SetTable("CBDT", cbdtData)

	return f
}

// Encode builds a font according to opt and returns its binary form.
func Encode(opt *Options) []byte {
	return New(opt).Encode()
}

func makeName(family string) []byte {
	values := map[uint16]string{
		name.IDFamily:         family,
		name.IDSubfamily:      "Regular",
		name.IDUniqueID:       family + " 1.0",
		name.IDFullName:       family,
		name.IDVersion:        "Version 1.0",
		name.IDPostScriptName: family,
	}
	t := &name.Table{}
	for _, key := range []struct {
		platformID, encodingID, languageID uint16
	}{
		{1, 0, 0},
		{3, 1, 0x0409},
	} {
		for _, nameID := range []uint16{1, 2, 3, 4, 5, 6} {
			t.Records = append(t.Records, &name.Record{
				PlatformID: key.platformID,
				EncodingID: key.encodingID,
				LanguageID: key.languageID,
				NameID:     nameID,
				Value:      values[nameID],
			})
		}
	}
	return t.Encode()
}

func makeCmap(mapping map[rune]uint16) []byte {
	var m cmap.Mapping
	for code, gid := range mapping {
		m = append(m, cmap.Entry{Code: code, GID: gid})
	}
	sort.Slice(m, func(i, j int) bool { return m[i].Code < m[j].Code })

	t := &cmap.Table{}
	t.Set(cmap.Key{PlatformID: 0, EncodingID: 4}, cmap.EncodeFormat12(m, 0))
	return t.Encode()
}

func makeOS2() []byte {
	info := &os2.Info{
		Version:       4,
		WeightClass:   400,
		WidthClass:    5,
		VendID:        [4]byte{'T', 'E', 'S', 'T'},
		Selection:     os2.SelectionRegular,
		TypoAscender:  800,
		TypoDescender: -200,
		TypoLineGap:   0,
		WinAscent:     1000,
		WinDescent:    300,
	}
	return info.Encode()
}

func makeStrike(ppem int, gids []uint16) *cbdt.Strike {
	metrics := cbdt.LineMetrics{
		Ascender:  int8(min(ppem, 127)),
		Descender: int8(-min(ppem/4, 127)),
		WidthMax:  uint8(min(ppem, 255)),
	}
	sub := &cbdt.Subtable{
		IndexFormat: 1,
		ImageFormat: 17,
	}
	for _, gid := range gids {
		sub.Glyphs = append(sub.Glyphs, cbdt.Glyph{
			GID:  gid,
			Data: makeGlyphData(ppem, gid),
		})
	}
	return &cbdt.Strike{
		Hori:      metrics,
		PPEMX:     uint8(min(ppem, 255)),
		PPEMY:     uint8(min(ppem, 255)),
		BitDepth:  32,
		Subtables: []*cbdt.Subtable{sub},
	}
}

// makeGlyphData builds an image format 17 glyph record: small glyph
// metrics, a length field, and a PNG image.
func makeGlyphData(ppem int, gid uint16) []byte {
	side := min(ppem, 255)
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	shade := color.RGBA{R: uint8(37 * gid), G: uint8(91 * gid), B: 0xC0, A: 0xFF}
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			img.SetRGBA(x, y, shade)
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		panic(err)
	}

	data := make([]byte, 9+buf.Len())
	data[0] = uint8(side) // height
	data[1] = uint8(side) // width
	// bearingX, bearingY zero
	data[4] = uint8(side) // advance
	binary.BigEndian.PutUint32(data[5:9], uint32(buf.Len()))
	copy(data[9:], buf.Bytes())
	return data
}
