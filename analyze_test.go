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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jjjuk/emoji-win/internal/fonttest"
)

func TestAnalyze(t *testing.T) {
	src := writeFont(t, nil)

	summary, err := Analyze(src)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Family != "Test Color Emoji" {
		t.Errorf("got family %q, want %q", summary.Family, "Test Color Emoji")
	}
	if summary.UnitsPerEm != 800 {
		t.Errorf("got unitsPerEm %d, want 800", summary.UnitsPerEm)
	}
	if summary.BMPMappings != 1 || summary.SupplementaryMappings != 3 {
		t.Errorf("got %d BMP and %d supplementary mappings, want 1 and 3",
			summary.BMPMappings, summary.SupplementaryMappings)
	}

	var ppems []int
	for _, s := range summary.Strikes {
		ppems = append(ppems, s.PPEM)
	}
	if d := cmp.Diff([]int{20, 32, 160}, ppems); d != "" {
		t.Errorf("strike sizes differ (-want +got):\n%s", d)
	}
	for _, s := range summary.Strikes {
		if s.NumGlyphs != 4 {
			t.Errorf("strike %d: got %d glyphs, want 4", s.PPEM, s.NumGlyphs)
		}
		if len(s.Images) != 1 {
			t.Fatalf("strike %d: got %d subtables, want 1", s.PPEM, len(s.Images))
		}
		img := s.Images[0]
		if img.ImageFormat != 17 || img.Encoding != "png" {
			t.Errorf("strike %d: got image format %d encoding %q, want 17 png",
				s.PPEM, img.ImageFormat, img.Encoding)
		}
		if img.Width != s.PPEM || img.Height != s.PPEM {
			t.Errorf("strike %d: got image size %dx%d",
				s.PPEM, img.Width, img.Height)
		}
	}

	tables := make(map[string]int)
	for _, ts := range summary.Tables {
		tables[ts.Tag] = ts.Length
	}
	for _, tag := range []string{"CBLC", "CBDT", "cmap", "head", "maxp", "name"} {
		if tables[tag] == 0 {
			t.Errorf("table %q missing from summary", tag)
		}
	}
}

func TestAnalyzeAccepted(t *testing.T) {
	src := writeFont(t, &fonttest.Options{Strikes: []int{20, 160}})

	summary, err := Analyze(src)
	if err != nil {
		t.Fatal(err)
	}
	want := map[int]bool{20: true, 160: false}
	for _, s := range summary.Strikes {
		if s.Accepted != want[s.PPEM] {
			t.Errorf("strike %d: got accepted %v, want %v",
				s.PPEM, s.Accepted, want[s.PPEM])
		}
	}
}
