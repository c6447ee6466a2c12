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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jjjuk/emoji-win/internal/fonttest"
	"github.com/jjjuk/emoji-win/sfnt"
	"github.com/jjjuk/emoji-win/sfnt/cbdt"
	"github.com/jjjuk/emoji-win/sfnt/cmap"
	"github.com/jjjuk/emoji-win/sfnt/glyf"
	"github.com/jjjuk/emoji-win/sfnt/head"
	"github.com/jjjuk/emoji-win/sfnt/maxp"
	"github.com/jjjuk/emoji-win/sfnt/name"
	"github.com/jjjuk/emoji-win/sfnt/os2"
)

// writeFont writes a synthetic font to a fresh file and returns its
// path.
func writeFont(t *testing.T, opt *fonttest.Options) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emoji.ttf")
	err := os.WriteFile(path, fonttest.Encode(opt), 0600)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvert(t *testing.T) {
	src := writeFont(t, nil)
	out := filepath.Join(t.TempDir(), "out.ttf")

	res, err := Convert(src, out)
	if err != nil {
		t.Fatal(err)
	}

	if res.Unchanged {
		t.Error("source font reported as already converted")
	}
	if d := cmp.Diff([]int{20, 32}, res.RetainedStrikes); d != "" {
		t.Errorf("retained strikes differ (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]int{160}, res.DroppedStrikes); d != "" {
		t.Errorf("dropped strikes differ (-want +got):\n%s", d)
	}
	if res.BMPMappings != 1 || res.SupplementaryMappings != 3 {
		t.Errorf("got %d BMP and %d supplementary mappings, want 1 and 3",
			res.BMPMappings, res.SupplementaryMappings)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	f, err := sfnt.Load(data)
	if err != nil {
		t.Fatal(err)
	}

	nameTable, err := name.Decode(f.Table("name"))
	if err != nil {
		t.Fatal(err)
	}
	if family := nameTable.Get(3, name.IDFamily); family != "Segoe UI Emoji" {
		t.Errorf("got family name %q, want %q", family, "Segoe UI Emoji")
	}

	atlas, err := cbdt.Decode(f.Table("CBLC"), f.Table("CBDT"))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]int{20, 32}, atlas.PPEMs()); d != "" {
		t.Errorf("output strikes differ (-want +got):\n%s", d)
	}
}

func TestConvertMappings(t *testing.T) {
	src := writeFont(t, nil)
	out := filepath.Join(t.TempDir(), "out.ttf")
	if _, err := Convert(src, out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	f, err := sfnt.Load(data)
	if err != nil {
		t.Fatal(err)
	}
	table, err := cmap.Decode(f.Table("cmap"))
	if err != nil {
		t.Fatal(err)
	}

	bmp, err := cmap.DecodeMapping(table.Get(cmap.Key{PlatformID: 3, EncodingID: 1}))
	if err != nil {
		t.Fatal(err)
	}
	wantBMP := cmap.Mapping{{Code: 0x263A, GID: 1}}
	if d := cmp.Diff(wantBMP, bmp); d != "" {
		t.Errorf("BMP mapping differs (-want +got):\n%s", d)
	}

	full, err := cmap.DecodeMapping(table.Get(cmap.Key{PlatformID: 3, EncodingID: 10}))
	if err != nil {
		t.Fatal(err)
	}
	wantFull := cmap.Mapping{
		{Code: 0x263A, GID: 1},
		{Code: 0x1F600, GID: 2},
		{Code: 0x1F601, GID: 3},
		{Code: 0x1F680, GID: 4},
	}
	if d := cmp.Diff(wantFull, full); d != "" {
		t.Errorf("full mapping differs (-want +got):\n%s", d)
	}
}

func TestConvertOutlineStubs(t *testing.T) {
	src := writeFont(t, nil)
	out := filepath.Join(t.TempDir(), "out.ttf")
	if _, err := Convert(src, out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	f, err := sfnt.Load(data)
	if err != nil {
		t.Fatal(err)
	}

	if !f.Has("glyf", "loca") {
		t.Fatal("output font has no outline tables")
	}
	headInfo, err := head.Read(f.Table("head"))
	if err != nil {
		t.Fatal(err)
	}
	maxpInfo, err := maxp.Read(f.Table("maxp"))
	if err != nil {
		t.Fatal(err)
	}
	if maxpInfo.NumGlyphs != 5 {
		t.Errorf("got %d glyphs, want 5", maxpInfo.NumGlyphs)
	}
	err = glyf.CheckLoca(f.Table("loca"), f.Table("glyf"),
		maxpInfo.NumGlyphs, headInfo.HasLongOffsets)
	if err != nil {
		t.Error(err)
	}
}

func TestConvertMetricsFlags(t *testing.T) {
	src := writeFont(t, nil)
	out := filepath.Join(t.TempDir(), "out.ttf")
	if _, err := Convert(src, out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	f, err := sfnt.Load(data)
	if err != nil {
		t.Fatal(err)
	}
	os2Info, err := os2.Read(f.Table("OS/2"))
	if err != nil {
		t.Fatal(err)
	}
	if os2Info.Selection&os2.SelectionUseTypoMetrics == 0 {
		t.Error("USE_TYPO_METRICS not set in fsSelection")
	}
	if os2Info.Selection&os2.SelectionRegular == 0 {
		t.Error("regular style not set in fsSelection")
	}
	if !os2Info.HasUnicodeRange(os2.UnicodeRangeNonPlane0) {
		t.Error("non-plane 0 bit not set in ulUnicodeRange")
	}
	wantRange := [4]uint32{1 | 1<<25, 1<<25 | 1<<26 | 1<<27, 0, 0}
	if os2Info.UnicodeRange != wantRange {
		t.Errorf("ulUnicodeRange = %08x, want %08x",
			os2Info.UnicodeRange, wantRange)
	}
}

func TestConvertIdempotent(t *testing.T) {
	src := writeFont(t, nil)
	dir := t.TempDir()
	out1 := filepath.Join(dir, "out1.ttf")
	out2 := filepath.Join(dir, "out2.ttf")

	if _, err := Convert(src, out1); err != nil {
		t.Fatal(err)
	}
	res, err := Convert(out1, out2)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Unchanged {
		t.Error("converted font not recognized as already converted")
	}

	data1, err := os.ReadFile(out1)
	if err != nil {
		t.Fatal(err)
	}
	data2, err := os.ReadFile(out2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data1, data2) {
		t.Error("second conversion changed the font")
	}
}

func TestConvertNoUsableStrikes(t *testing.T) {
	src := writeFont(t, &fonttest.Options{Strikes: []int{17, 160}})
	out := filepath.Join(t.TempDir(), "out.ttf")

	_, err := Convert(src, out)
	var noStrikes *cbdt.NoAcceptableStrikesError
	if !errors.As(err, &noStrikes) {
		t.Fatalf("got error %v, want NoAcceptableStrikesError", err)
	}
	if d := cmp.Diff([]int{17, 160}, noStrikes.Available); d != "" {
		t.Errorf("available sizes differ (-want +got):\n%s", d)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Error("output file exists after failed conversion")
	}
}

func TestConvertRejectsTinyGrid(t *testing.T) {
	src := writeFont(t, &fonttest.Options{UnitsPerEm: 8})
	out := filepath.Join(t.TempDir(), "out.ttf")

	_, err := Convert(src, out)
	var unitsErr *UnsupportedUnitsPerEmError
	if !errors.As(err, &unitsErr) {
		t.Fatalf("got error %v, want UnsupportedUnitsPerEmError", err)
	}
	if unitsErr.UnitsPerEm != 8 {
		t.Errorf("got unitsPerEm %d in error, want 8", unitsErr.UnitsPerEm)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Error("output file exists after failed conversion")
	}
}

func TestConvertMissingBitmaps(t *testing.T) {
	f := fonttest.New(nil)
	f.DropTable("CBDT")
	path := filepath.Join(t.TempDir(), "emoji.ttf")
	if err := os.WriteFile(path, f.Encode(), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Convert(path, filepath.Join(t.TempDir(), "out.ttf"))
	var noTable *sfnt.ErrNoTable
	if !errors.As(err, &noTable) {
		t.Fatalf("got error %v, want ErrNoTable", err)
	}
}

func TestConvertUnmappedBitmaps(t *testing.T) {
	src := writeFont(t, &fonttest.Options{
		BitmapGlyphs: []uint16{1, 2, 3, 4, 9},
	})
	out := filepath.Join(t.TempDir(), "out.ttf")

	res, err := Convert(src, out)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "no code point") {
			found = true
		}
	}
	if !found {
		t.Errorf("no warning about unmapped bitmap glyphs, got %q", res.Warnings)
	}

	// the unmapped glyph keeps its bitmaps
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	f, err := sfnt.Load(data)
	if err != nil {
		t.Fatal(err)
	}
	atlas, err := cbdt.Decode(f.Table("CBLC"), f.Table("CBDT"))
	if err != nil {
		t.Fatal(err)
	}
	if !atlas.GlyphSet()[9] {
		t.Error("unmapped glyph 9 lost its bitmaps")
	}
}

func TestConvertCustomIdentity(t *testing.T) {
	src := writeFont(t, nil)
	out := filepath.Join(t.TempDir(), "out.ttf")

	identity := &Identity{
		Family:     "My Emoji",
		Subfamily:  "Regular",
		UniqueID:   "My Emoji 1.0",
		FullName:   "My Emoji",
		Version:    "Version 1.0",
		PostScript: "MyEmoji",
	}
	_, err := ConvertWithOptions(src, out, &Options{Identity: identity})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	f, err := sfnt.Load(data)
	if err != nil {
		t.Fatal(err)
	}
	nameTable, err := name.Decode(f.Table("name"))
	if err != nil {
		t.Fatal(err)
	}
	if family := nameTable.Get(3, name.IDFamily); family != "My Emoji" {
		t.Errorf("got family name %q, want %q", family, "My Emoji")
	}
}
