package maxp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundTrip(t *testing.T) {
	cases := []*Info{
		{NumGlyphs: 1},
		{NumGlyphs: 1000},
		{
			NumGlyphs: 3000,
			TTF: &TTFInfo{
				MaxPoints:             123,
				MaxContours:           4,
				MaxZones:              2,
				MaxSizeOfInstructions: 17,
			},
		},
	}
	for i, info := range cases {
		data := info.Encode()
		info2, err := Read(data)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(info, info2); d != "" {
			t.Errorf("test %d: %s", i, d)
		}
	}
}

func TestReadErrors(t *testing.T) {
	cases := [][]byte{
		{},
		{0, 0, 0x50, 0},                // truncated
		{0, 2, 0, 0, 0, 1},             // unknown version
		{0, 0, 0x50, 0, 0, 0},          // numGlyphs is zero
		{0, 1, 0, 0, 0, 5, 0, 1, 0, 2}, // version 1.0 but truncated
	}
	for i, data := range cases {
		if _, err := Read(data); err == nil {
			t.Errorf("test %d: malformed table accepted", i)
		}
	}
}
