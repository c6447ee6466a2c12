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
	"fmt"
	"os"

	"github.com/jjjuk/emoji-win/sfnt"
	"github.com/jjjuk/emoji-win/sfnt/cbdt"
	"github.com/jjjuk/emoji-win/sfnt/cmap"
	"github.com/jjjuk/emoji-win/sfnt/glyf"
	"github.com/jjjuk/emoji-win/sfnt/head"
	"github.com/jjjuk/emoji-win/sfnt/maxp"
	"github.com/jjjuk/emoji-win/sfnt/name"
	"github.com/jjjuk/emoji-win/sfnt/os2"
)

// Check is a single diagnostic check.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// Report is the outcome of diagnosing a font against the DirectWrite
// requirements.
type Report struct {
	Checks []Check
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Failed returns the checks which did not pass.
func (r *Report) Failed() []Check {
	var res []Check
	for _, c := range r.Checks {
		if !c.OK {
			res = append(res, c)
		}
	}
	return res
}

// Diagnose checks whether the font at path would work as a DirectWrite
// emoji replacement, without modifying anything.
func Diagnose(path string) (*Report, error) {
	return DiagnoseWithOptions(path, nil)
}

// DiagnoseWithOptions is Diagnose with non-default options.
func DiagnoseWithOptions(path string, opt *Options) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}
	f, err := sfnt.Load(data)
	if err != nil {
		return nil, err
	}
	return diagnoseFont(f, opt.fill()), nil
}

func diagnoseFont(f *sfnt.Font, opt *Options) *Report {
	r := &Report{}
	add := func(name string, ok bool, detail string) {
		r.Checks = append(r.Checks, Check{Name: name, OK: ok, Detail: detail})
	}

	add("sfnt container", true,
		fmt.Sprintf("%d tables", f.NumTables()))

	// color bitmap atlas
	var atlas *cbdt.Atlas
	if !f.Has("CBLC", "CBDT") {
		add("color bitmap atlas", false, "CBLC/CBDT tables missing")
	} else {
		var err error
		atlas, err = cbdt.Decode(f.Table("CBLC"), f.Table("CBDT"))
		if err != nil {
			add("color bitmap atlas", false, err.Error())
		} else {
			add("color bitmap atlas", true,
				fmt.Sprintf("%d strikes", len(atlas.Strikes)))
		}
	}

	if atlas != nil {
		accepted := make(map[int]bool)
		for _, size := range opt.AcceptedSizes {
			accepted[size] = true
		}
		var bad []int
		empty := 0
		for _, s := range atlas.Strikes {
			if !accepted[s.PPEM()] || s.PPEMX != s.PPEMY {
				bad = append(bad, s.PPEM())
			}
			if s.NumGlyphs() == 0 {
				empty++
			}
		}
		add("strike sizes", len(bad) == 0,
			fmt.Sprintf("sizes %v, unusable %v", atlas.PPEMs(), bad))
		add("strikes non-empty", empty == 0,
			fmt.Sprintf("%d empty strikes", empty))
	}

	// character maps
	var mapping cmap.Mapping
	if !f.Has("cmap") {
		add("Windows BMP character map", false, "cmap table missing")
	} else if table, err := cmap.Decode(f.Table("cmap")); err != nil {
		add("Windows BMP character map", false, err.Error())
	} else {
		mapping, _, err = sourceMapping(table)
		if err != nil {
			add("Windows BMP character map", false, err.Error())
		} else {
			bmpKey := cmap.Key{PlatformID: 3, EncodingID: 1}
			sub := table.Get(bmpKey)
			ok := len(sub) >= 2 && sub[0] == 0 && sub[1] == 4
			add("Windows BMP character map", ok, "format 4 subtable (3,1)")

			supplementary := 0
			for _, e := range mapping {
				if e.Code > 0xFFFF {
					supplementary++
				}
			}
			if supplementary == 0 {
				add("Windows full character map", true, "no supplementary-plane mappings")
			} else {
				fullKey := cmap.Key{PlatformID: 3, EncodingID: 10}
				sub := table.Get(fullKey)
				ok := len(sub) >= 2 && sub[0] == 0 && sub[1] == 12
				add("Windows full character map", ok,
					fmt.Sprintf("format 12 subtable (3,10) for %d supplementary mappings",
						supplementary))
			}
		}
	}

	// outline tables
	var headInfo *head.Info
	var headErr error
	if f.Has("head") {
		headInfo, headErr = head.Read(f.Table("head"))
	} else {
		headErr = &sfnt.ErrNoTable{Name: "head"}
	}
	switch {
	case headErr != nil:
		add("outline tables", false, headErr.Error())
	case !f.Has("glyf", "loca", "maxp"):
		add("outline tables", false, "glyf/loca/maxp tables missing")
	default:
		maxpInfo, err := maxp.Read(f.Table("maxp"))
		if err == nil {
			err = glyf.CheckLoca(f.Table("loca"), f.Table("glyf"),
				maxpInfo.NumGlyphs, headInfo.HasLongOffsets)
		}
		if err != nil {
			add("outline tables", false, err.Error())
		} else {
			add("outline tables", true, "loca consistent")
		}
	}

	// identity
	if !f.Has("name") {
		add("family name", false, "name table missing")
	} else if nameTable, err := name.Decode(f.Table("name")); err != nil {
		add("family name", false, err.Error())
	} else {
		family := nameTable.Get(3, name.IDFamily)
		add("family name", family == opt.Identity.Family,
			fmt.Sprintf("%q", family))
	}

	// OS/2 metrics flag
	if !f.Has("OS/2") {
		add("typo metrics flag", false, "OS/2 table missing")
	} else if os2Info, err := os2.Read(f.Table("OS/2")); err != nil {
		add("typo metrics flag", false, err.Error())
	} else {
		ok := os2Info.Selection&os2.SelectionUseTypoMetrics != 0
		add("typo metrics flag", ok,
			fmt.Sprintf("fsSelection 0x%04X", os2Info.Selection))
	}

	// design grid
	if headInfo != nil {
		ok := headInfo.UnitsPerEm >= MinUnitsPerEm &&
			headInfo.UnitsPerEm <= MaxUnitsPerEm
		add("units per em", ok, fmt.Sprintf("%d", headInfo.UnitsPerEm))
	} else {
		add("units per em", false, "head table unreadable")
	}

	return r
}
