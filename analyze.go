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

package emojiwin

import (
	"bytes"
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"

	"github.com/jjjuk/emoji-win/sfnt"
	"github.com/jjjuk/emoji-win/sfnt/cbdt"
	"github.com/jjjuk/emoji-win/sfnt/cmap"
	"github.com/jjjuk/emoji-win/sfnt/head"
	"github.com/jjjuk/emoji-win/sfnt/name"
)

// TableSummary describes one table of the sfnt container.
type TableSummary struct {
	Tag      string
	Length   int
	Checksum uint32
}

// ImageSummary describes the glyph images of one index subtable.
type ImageSummary struct {
	IndexFormat uint16
	ImageFormat uint16
	NumGlyphs   int

	// Encoding and Width/Height describe the embedded image payloads,
	// probed from the first glyph of the subtable.  Encoding is empty
	// when the payload is not a recognized image format.
	Encoding string
	Width    int
	Height   int
}

// StrikeSummary describes one bitmap strike.
type StrikeSummary struct {
	PPEM      int
	BitDepth  uint8
	NumGlyphs int
	Accepted  bool
	Images    []ImageSummary
}

// Summary is the result of analyzing a font file.
type Summary struct {
	Path       string
	Family     string
	UnitsPerEm uint16

	Tables  []TableSummary
	Strikes []StrikeSummary

	// Mapped code points, split by plane.
	BMPMappings           int
	SupplementaryMappings int
}

// Analyze inspects a color emoji font and reports its structure.  The
// font is not modified.
func Analyze(path string) (*Summary, error) {
	return AnalyzeWithOptions(path, nil)
}

// AnalyzeWithOptions is Analyze with non-default options.
func AnalyzeWithOptions(path string, opt *Options) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := sfnt.Load(data)
	if err != nil {
		return nil, err
	}
	return analyzeFont(f, path, opt.fill())
}

func analyzeFont(f *sfnt.Font, path string, opt *Options) (*Summary, error) {
	res := &Summary{Path: path}

	for _, tag := range f.Tags() {
		body := f.Table(tag)
		res.Tables = append(res.Tables, TableSummary{
			Tag:      tag,
			Length:   len(body),
			Checksum: sfnt.Checksum(body),
		})
	}

	if f.Has("head") {
		headInfo, err := head.Read(f.Table("head"))
		if err != nil {
			return nil, err
		}
		res.UnitsPerEm = headInfo.UnitsPerEm
	}

	if f.Has("name") {
		nameTable, err := name.Decode(f.Table("name"))
		if err != nil {
			return nil, err
		}
		res.Family = nameTable.Get(3, name.IDFamily)
		if res.Family == "" {
			res.Family = nameTable.Get(1, name.IDFamily)
		}
	}

	if f.Has("cmap") {
		table, err := cmap.Decode(f.Table("cmap"))
		if err != nil {
			return nil, err
		}
		mapping, _, err := sourceMapping(table)
		if err != nil {
			return nil, err
		}
		for _, e := range mapping {
			if e.Code > 0xFFFF {
				res.SupplementaryMappings++
			} else {
				res.BMPMappings++
			}
		}
	}

	if f.Has("CBLC", "CBDT") {
		atlas, err := cbdt.Decode(f.Table("CBLC"), f.Table("CBDT"))
		if err != nil {
			return nil, err
		}
		accepted := make(map[int]bool)
		for _, size := range opt.AcceptedSizes {
			accepted[size] = true
		}
		for _, strike := range atlas.Strikes {
			ss := StrikeSummary{
				PPEM:      strike.PPEM(),
				BitDepth:  strike.BitDepth,
				NumGlyphs: strike.NumGlyphs(),
				Accepted:  accepted[strike.PPEM()] && strike.PPEMX == strike.PPEMY,
			}
			for _, sub := range strike.Subtables {
				is := ImageSummary{
					IndexFormat: sub.IndexFormat,
					ImageFormat: sub.ImageFormat,
					NumGlyphs:   len(sub.Glyphs),
				}
				if len(sub.Glyphs) > 0 {
					probeImage(&is, sub.ImageFormat, sub.Glyphs[0].Data)
				}
				ss.Images = append(ss.Images, is)
			}
			res.Strikes = append(res.Strikes, ss)
		}
	}

	return res, nil
}

// probeImage decodes the header of an embedded image payload.  Image
// formats 17, 18 and 19 prefix the payload with glyph metrics and a
// length field; the other formats hold raw bitmap data which is left
// undescribed.
func probeImage(is *ImageSummary, imageFormat uint16, data []byte) {
	var payload []byte
	switch imageFormat {
	case 17: // smallGlyphMetrics (5 bytes) + dataLen
		if len(data) > 9 {
			payload = data[9:]
		}
	case 18: // bigGlyphMetrics (8 bytes) + dataLen
		if len(data) > 12 {
			payload = data[12:]
		}
	case 19: // dataLen only; metrics live in the index subtable
		if len(data) > 4 {
			payload = data[4:]
		}
	default:
		return
	}
	cfg, encoding, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return
	}
	is.Encoding = encoding
	is.Width = cfg.Width
	is.Height = cfg.Height
}
