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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jjjuk/emoji-win/sfnt"
	"github.com/jjjuk/emoji-win/sfnt/cbdt"
	"github.com/jjjuk/emoji-win/sfnt/cmap"
	"github.com/jjjuk/emoji-win/sfnt/glyf"
	"github.com/jjjuk/emoji-win/sfnt/head"
	"github.com/jjjuk/emoji-win/sfnt/maxp"
	"github.com/jjjuk/emoji-win/sfnt/name"
	"github.com/jjjuk/emoji-win/sfnt/os2"
	"github.com/jjjuk/emoji-win/sfnt/post"
)

// Result describes a completed conversion.
type Result struct {
	Input  string
	Output string

	// Unchanged is true if the input already passed every diagnostic
	// check and was copied through byte for byte.
	Unchanged bool

	RetainedStrikes []int
	DroppedStrikes  []int

	BMPMappings           int
	SupplementaryMappings int

	Warnings []string
}

func (res *Result) warnf(format string, a ...interface{}) {
	res.Warnings = append(res.Warnings, fmt.Sprintf(format, a...))
}

// Convert reads the font at inputPath, rewrites it for DirectWrite and
// writes the result to outputPath.  The output file appears atomically:
// on any error nothing is left at outputPath.
func Convert(inputPath, outputPath string) (*Result, error) {
	return ConvertWithOptions(inputPath, outputPath, nil)
}

// ConvertWithOptions is Convert with non-default options.
func ConvertWithOptions(inputPath, outputPath string, opt *Options) (*Result, error) {
	opt = opt.fill()

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("reading input font: %w", err)
	}

	res := &Result{Input: inputPath, Output: outputPath}
	out, err := convert(data, opt, res)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(outputPath, out); err != nil {
		return nil, fmt.Errorf("writing output font: %w", err)
	}
	return res, nil
}

// convert runs the conversion pipeline on an in-memory font and
// returns the encoded output.  No files are touched.
func convert(data []byte, opt *Options, res *Result) ([]byte, error) {
	f, err := sfnt.Load(data)
	if err != nil {
		return nil, err
	}

	// input which already passes every check is copied through unchanged
	if report := diagnoseFont(f, opt); report.OK() {
		res.Unchanged = true
		res.RetainedStrikes = strikeSizes(f)
		return data, nil
	}

	if err := convertFont(f, opt, res); err != nil {
		return nil, err
	}

	out := f.Encode()

	// the conversion only counts as successful if the result passes
	// the same checks a pre-converted font would
	check, err := sfnt.Load(out)
	if err != nil {
		return nil, err
	}
	if report := diagnoseFont(check, opt); !report.OK() {
		return nil, &ValidationError{Failed: report.Failed()}
	}
	return out, nil
}

func convertFont(f *sfnt.Font, opt *Options, res *Result) error {
	for _, tag := range []string{"head", "maxp", "name", "cmap"} {
		if !f.Has(tag) {
			return &sfnt.ErrNoTable{Name: tag}
		}
	}
	if !f.Has("CBLC", "CBDT") {
		return &sfnt.ErrNoTable{Name: "CBLC"}
	}

	headInfo, err := head.Read(f.Table("head"))
	if err != nil {
		return err
	}
	if headInfo.UnitsPerEm < MinUnitsPerEm || headInfo.UnitsPerEm > MaxUnitsPerEm {
		return &UnsupportedUnitsPerEmError{UnitsPerEm: headInfo.UnitsPerEm}
	}
	maxpInfo, err := maxp.Read(f.Table("maxp"))
	if err != nil {
		return err
	}

	// bitmap atlas: drop strikes DirectWrite cannot use
	atlas, err := cbdt.Decode(f.Table("CBLC"), f.Table("CBDT"))
	if err != nil {
		return err
	}
	atlas, dropped, err := atlas.Filter(opt.AcceptedSizes)
	if err != nil {
		return err
	}
	cblcData, cbdtData := atlas.Encode()
	f.SetTable("CBLC", cblcData)
	f.SetTable("CBDT", cbdtData)
	res.RetainedStrikes = atlas.PPEMs()
	res.DroppedStrikes = dropped

	// character maps, restricted to glyphs which still have bitmaps
	retained := atlas.GlyphSet()
	stats, err := rebuildCharacterMaps(f, retained, res)
	if err != nil {
		return err
	}
	res.BMPMappings = stats.BMP
	res.SupplementaryMappings = stats.Supplementary

	// placeholder outlines
	if !f.Has("glyf") || !f.Has("loca") {
		glyfData, locaData := glyf.BuildStubs(maxpInfo.NumGlyphs)
		f.SetTable("glyf", glyfData)
		f.SetTable("loca", locaData)
		headInfo.HasLongOffsets = false
	}

	// head
	headInfo.MacStyle = 0
	if smallest := minSize(res.RetainedStrikes); smallest > 0 && smallest < int(headInfo.LowestRecPPEM) {
		headInfo.LowestRecPPEM = uint16(smallest)
	}
	headInfo.Modified = time.Now()
	f.SetTable("head", headInfo.Encode())

	// name
	nameTable, err := name.Decode(f.Table("name"))
	if err != nil {
		return err
	}
	nameTable.Patch(opt.Identity.nameValues())
	f.SetTable("name", nameTable.Encode())

	// OS/2
	os2Info := &os2.Info{}
	if f.Has("OS/2") {
		os2Info, err = os2.Read(f.Table("OS/2"))
		if err != nil {
			return err
		}
	} else {
		res.warnf("OS/2 table missing, writing defaults")
	}
	patchOS2(os2Info, stats)
	f.SetTable("OS/2", os2Info.Encode())

	// post: drop glyph names, they are meaningless for bitmap glyphs
	if f.Has("post") {
		postInfo, err := post.Read(f.Table("post"))
		if err != nil {
			return err
		}
		f.SetTable("post", postInfo.Encode())
	}

	return nil
}

// rebuildCharacterMaps replaces the Windows subtables of the cmap
// table with ones covering exactly the retained glyphs.
func rebuildCharacterMaps(f *sfnt.Font, retained map[uint16]bool, res *Result) (cmap.BuildStats, error) {
	table, err := cmap.Decode(f.Table("cmap"))
	if err != nil {
		return cmap.BuildStats{}, err
	}

	mapping, conflicts, err := sourceMapping(table)
	if err != nil {
		return cmap.BuildStats{}, err
	}
	for _, c := range conflicts {
		res.warnf("code point U+%04X maps to glyphs %d and %d; keeping %d",
			c.Code, c.Kept, c.Dropped, c.Kept)
	}

	bmp, full, stats := cmap.BuildWindows(mapping, func(gid uint16) bool {
		return retained[gid]
	})
	if stats.Dropped > 0 {
		res.warnf("%d mappings dropped: their glyphs have no bitmap in a retained strike",
			stats.Dropped)
	}

	mapped := make(map[uint16]bool)
	for _, e := range mapping {
		mapped[e.GID] = true
	}
	unmapped := 0
	for gid := range retained {
		if !mapped[gid] {
			unmapped++
		}
	}
	if unmapped > 0 {
		// these glyphs stay in the atlas and the glyph count; they are
		// reachable through ligature substitution rather than the cmap
		res.warnf("%d glyphs have bitmaps but no code point", unmapped)
	}

	table.Set(cmap.Key{PlatformID: 3, EncodingID: 1}, bmp)
	if full != nil {
		table.Set(cmap.Key{PlatformID: 3, EncodingID: 10}, full)
	}
	f.SetTable("cmap", table.Encode())
	return stats, nil
}

// sourceMapping merges all Unicode subtables of a cmap table, in the
// order they appear in the table.  The first mapping for a code point
// wins.
func sourceMapping(table *cmap.Table) (cmap.Mapping, []cmap.Conflict, error) {
	var mappings []cmap.Mapping
	for _, key := range table.Order {
		if !key.IsUnicode() {
			continue
		}
		m, err := cmap.DecodeMapping(table.Get(key))
		if err != nil {
			var nsErr *sfnt.NotSupportedError
			if errors.As(err, &nsErr) {
				continue // e.g. variation sequence subtables
			}
			return nil, nil, err
		}
		mappings = append(mappings, m)
	}
	merged, conflicts := cmap.Merge(mappings...)
	return merged, conflicts, nil
}

// patchOS2 applies the DirectWrite requirements to an OS/2 table,
// leaving values which are already usable alone.
func patchOS2(o *os2.Info, stats cmap.BuildStats) {
	if o.Version < 4 {
		o.Version = 4
	}
	o.Type = 0 // installable embedding
	o.Selection = os2.SelectionRegular | os2.SelectionUseTypoMetrics
	if o.WeightClass < 1 || o.WeightClass > 1000 {
		o.WeightClass = 400
	}
	if o.WidthClass < 1 || o.WidthClass > 9 {
		o.WidthClass = 5
	}
	if o.TypoAscender <= 0 {
		o.TypoAscender = 1069
	}
	if o.TypoDescender >= 0 {
		o.TypoDescender = -293
	}
	if o.WinAscent == 0 {
		o.WinAscent = uint16(o.TypoAscender)
	}
	if o.WinDescent == 0 {
		o.WinDescent = uint16(-o.TypoDescender)
	}
	if o.Panose[0] == 0 {
		o.Panose[0] = 5 // pictorial family
	}
	// Declare the same ulUnicodeRange bits as the Windows emoji font,
	// so that DirectWrite font fallback considers us.  Bit 57
	// ("Non-Plane 0") is the one covering emoji above U+FFFF.
	o.UnicodeRange = [4]uint32{}
	for _, bit := range emojiUnicodeRangeBits {
		o.SetUnicodeRange(bit)
	}
	o.FirstCharIndex = stats.FirstChar
	o.LastCharIndex = stats.LastChar
}

// emojiUnicodeRangeBits are the ulUnicodeRange bits set by Segoe UI
// Emoji itself.
var emojiUnicodeRangeBits = []int{0, 25, os2.UnicodeRangeNonPlane0, 58, 59}

// strikeSizes lists the strike sizes of a font, for reporting on
// already-conformant input.  Errors are ignored; the caller has
// already validated the tables.
func strikeSizes(f *sfnt.Font) []int {
	atlas, err := cbdt.Decode(f.Table("CBLC"), f.Table("CBDT"))
	if err != nil {
		return nil
	}
	return atlas.PPEMs()
}

func minSize(sizes []int) int {
	res := 0
	for i, s := range sizes {
		if i == 0 || s < res {
			res = s
		}
	}
	return res
}

// writeFileAtomic writes data to a temporary file next to path and
// renames it into place, so that a crash never leaves a partial file
// at path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".emoji-win-*")
	if err != nil {
		return err
	}
	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0o644)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
