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

// Package emojiwin converts Apple's color emoji font into a form the
// Windows DirectWrite renderer accepts as a replacement for
// "Segoe UI Emoji".
//
// The conversion keeps the CBDT/CBLC bitmap data intact and rewrites
// the structure around it: strikes at sizes DirectWrite cannot select
// are dropped, the Windows character map subtables are rebuilt for the
// surviving glyphs, placeholder outline tables are added, and the
// font's identity and metrics are patched.
package emojiwin

import (
	"fmt"

	"github.com/jjjuk/emoji-win/sfnt/cbdt"
	"github.com/jjjuk/emoji-win/sfnt/name"
)

// The range of font design units per em this library accepts.
// Rescaling is out of scope, so fonts outside this range are rejected.
const (
	MinUnitsPerEm = 16
	MaxUnitsPerEm = 16384
)

// Identity is the set of name table strings which make Windows treat a
// font as a given font family.
type Identity struct {
	Family     string
	Subfamily  string
	UniqueID   string
	FullName   string
	Version    string
	PostScript string
}

// SegoeUIEmoji is the identity of the font DirectWrite uses for emoji
// on Windows.  A font carrying these names can be installed as a
// system-wide emoji replacement.
var SegoeUIEmoji = &Identity{
	Family:     "Segoe UI Emoji",
	Subfamily:  "Regular",
	UniqueID:   "Microsoft:Segoe UI Emoji Regular:2023",
	FullName:   "Segoe UI Emoji",
	Version:    "Version 1.00",
	PostScript: "SegoeUIEmoji",
}

func (id *Identity) nameValues() map[uint16]string {
	return map[uint16]string{
		name.IDFamily:         id.Family,
		name.IDSubfamily:      id.Subfamily,
		name.IDUniqueID:       id.UniqueID,
		name.IDFullName:       id.FullName,
		name.IDVersion:        id.Version,
		name.IDPostScriptName: id.PostScript,
		name.IDTypoFamily:     id.Family,
		name.IDTypoSubfamily:  id.Subfamily,
		name.IDWWSFamily:      id.Family,
		name.IDWWSSubfamily:   id.Subfamily,
	}
}

// Options control the conversion.  The zero value (or a nil *Options)
// selects the DirectWrite strike sizes and the Segoe UI Emoji identity.
type Options struct {
	// AcceptedSizes lists the strike sizes (pixels per em) to retain.
	// Defaults to cbdt.DirectWriteSizes.
	AcceptedSizes []int

	// Identity is the font identity to write.  Defaults to SegoeUIEmoji.
	Identity *Identity
}

func (opt *Options) fill() *Options {
	res := &Options{
		AcceptedSizes: cbdt.DirectWriteSizes,
		Identity:      SegoeUIEmoji,
	}
	if opt != nil {
		if opt.AcceptedSizes != nil {
			res.AcceptedSizes = opt.AcceptedSizes
		}
		if opt.Identity != nil {
			res.Identity = opt.Identity
		}
	}
	return res
}

// UnsupportedUnitsPerEmError is returned when a font's design grid is
// outside the range this library can pass through unchanged.
type UnsupportedUnitsPerEmError struct {
	UnitsPerEm uint16
}

func (err *UnsupportedUnitsPerEmError) Error() string {
	return fmt.Sprintf("unitsPerEm %d outside the supported range [%d, %d]",
		err.UnitsPerEm, MinUnitsPerEm, MaxUnitsPerEm)
}

// ValidationError is returned when the converted font does not pass
// its own diagnostic checks.  No output file is written in this case.
type ValidationError struct {
	Failed []Check
}

func (err *ValidationError) Error() string {
	msg := "converted font failed validation:"
	for _, c := range err.Failed {
		msg += " " + c.Name + ";"
	}
	return msg[:len(msg)-1]
}
