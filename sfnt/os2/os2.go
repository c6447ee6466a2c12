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

// Package os2 reads and writes "OS/2" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/os2
package os2

import (
	"bytes"
	"encoding/binary"

	"github.com/jjjuk/emoji-win/sfnt"
)

// Bits of the fsSelection field.
const (
	SelectionItalic         = 0x0001
	SelectionUnderscore     = 0x0002
	SelectionNegative       = 0x0004
	SelectionOutlined       = 0x0008
	SelectionStrikeout      = 0x0010
	SelectionBold           = 0x0020
	SelectionRegular        = 0x0040
	SelectionUseTypoMetrics = 0x0080
	SelectionWWS            = 0x0100
	SelectionOblique        = 0x0200
)

// Bit 57 of ulUnicodeRange: "Non-Plane 0" (any code point beyond the
// Basic Multilingual Plane).
const UnicodeRangeNonPlane0 = 57

// Info contains the information of an "OS/2" table.  Fields beyond the
// version 0 Microsoft region are kept verbatim in Tail, so that
// versions 1 and above round-trip unmodified.
type Info struct {
	Version            uint16
	AvgCharWidth       int16
	WeightClass        uint16
	WidthClass         uint16
	Type               uint16 // fsType embedding permissions
	SubscriptXSize     int16
	SubscriptYSize     int16
	SubscriptXOffset   int16
	SubscriptYOffset   int16
	SuperscriptXSize   int16
	SuperscriptYSize   int16
	SuperscriptXOffset int16
	SuperscriptYOffset int16
	StrikeoutSize      int16
	StrikeoutPosition  int16
	FamilyClass        int16
	Panose             [10]byte
	UnicodeRange       [4]uint32
	VendID             [4]byte
	Selection          uint16
	FirstCharIndex     uint16
	LastCharIndex      uint16

	TypoAscender  int16
	TypoDescender int16
	TypoLineGap   int16
	WinAscent     uint16
	WinDescent    uint16

	// Tail holds the encoded fields after usWinDescent: the code page
	// ranges of version 1 and the additional fields of versions 2-5.
	Tail []byte
}

type v0Data struct {
	Version            uint16
	AvgCharWidth       int16
	WeightClass        uint16
	WidthClass         uint16
	Type               uint16
	SubscriptXSize     int16
	SubscriptYSize     int16
	SubscriptXOffset   int16
	SubscriptYOffset   int16
	SuperscriptXSize   int16
	SuperscriptYSize   int16
	SuperscriptXOffset int16
	SuperscriptYOffset int16
	StrikeoutSize      int16
	StrikeoutPosition  int16
	FamilyClass        int16
	Panose             [10]byte
	UnicodeRange       [4]uint32
	VendID             [4]byte
	Selection          uint16
	FirstCharIndex     uint16
	LastCharIndex      uint16
}

type v0MsData struct {
	TypoAscender  int16
	TypoDescender int16
	TypoLineGap   int16
	WinAscent     uint16
	WinDescent    uint16
}

const v0MsLength = 68 + 10

// tailLength gives the expected length of the Tail region for each
// table version.
var tailLength = map[uint16]int{
	0: 0,
	1: 8,
	2: 18,
	3: 18,
	4: 18,
	5: 22,
}

// Read decodes an "OS/2" table.
func Read(data []byte) (*Info, error) {
	r := bytes.NewReader(data)
	v0 := &v0Data{}
	ms := &v0MsData{}
	if err := binary.Read(r, binary.BigEndian, v0); err != nil {
		return nil, &sfnt.InvalidFontError{
			SubSystem: "sfnt/os2",
			Reason:    "table too short",
		}
	}
	if v0.Version > 5 {
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/os2",
			Feature:   "table version",
		}
	}
	if err := binary.Read(r, binary.BigEndian, ms); err != nil {
		// The original Apple version of the table did not include the
		// Microsoft fields, but all fonts this library deals with do.
		return nil, &sfnt.InvalidFontError{
			SubSystem: "sfnt/os2",
			Reason:    "Microsoft fields missing",
		}
	}

	info := &Info{
		Version:            v0.Version,
		AvgCharWidth:       v0.AvgCharWidth,
		WeightClass:        v0.WeightClass,
		WidthClass:         v0.WidthClass,
		Type:               v0.Type,
		SubscriptXSize:     v0.SubscriptXSize,
		SubscriptYSize:     v0.SubscriptYSize,
		SubscriptXOffset:   v0.SubscriptXOffset,
		SubscriptYOffset:   v0.SubscriptYOffset,
		SuperscriptXSize:   v0.SuperscriptXSize,
		SuperscriptYSize:   v0.SuperscriptYSize,
		SuperscriptXOffset: v0.SuperscriptXOffset,
		SuperscriptYOffset: v0.SuperscriptYOffset,
		StrikeoutSize:      v0.StrikeoutSize,
		StrikeoutPosition:  v0.StrikeoutPosition,
		FamilyClass:        v0.FamilyClass,
		Panose:             v0.Panose,
		UnicodeRange:       v0.UnicodeRange,
		VendID:             v0.VendID,
		Selection:          v0.Selection,
		FirstCharIndex:     v0.FirstCharIndex,
		LastCharIndex:      v0.LastCharIndex,
		TypoAscender:       ms.TypoAscender,
		TypoDescender:      ms.TypoDescender,
		TypoLineGap:        ms.TypoLineGap,
		WinAscent:          ms.WinAscent,
		WinDescent:         ms.WinDescent,
	}
	if len(data) > v0MsLength {
		info.Tail = append([]byte{}, data[v0MsLength:]...)
	}
	return info, nil
}

// Encode returns the binary representation of the table.  The Tail
// region is padded with zeros if it is shorter than the table version
// requires.
func (info *Info) Encode() []byte {
	v0 := &v0Data{
		Version:            info.Version,
		AvgCharWidth:       info.AvgCharWidth,
		WeightClass:        info.WeightClass,
		WidthClass:         info.WidthClass,
		Type:               info.Type,
		SubscriptXSize:     info.SubscriptXSize,
		SubscriptYSize:     info.SubscriptYSize,
		SubscriptXOffset:   info.SubscriptXOffset,
		SubscriptYOffset:   info.SubscriptYOffset,
		SuperscriptXSize:   info.SuperscriptXSize,
		SuperscriptYSize:   info.SuperscriptYSize,
		SuperscriptXOffset: info.SuperscriptXOffset,
		SuperscriptYOffset: info.SuperscriptYOffset,
		StrikeoutSize:      info.StrikeoutSize,
		StrikeoutPosition:  info.StrikeoutPosition,
		FamilyClass:        info.FamilyClass,
		Panose:             info.Panose,
		UnicodeRange:       info.UnicodeRange,
		VendID:             info.VendID,
		Selection:          info.Selection,
		FirstCharIndex:     info.FirstCharIndex,
		LastCharIndex:      info.LastCharIndex,
	}
	ms := &v0MsData{
		TypoAscender:  info.TypoAscender,
		TypoDescender: info.TypoDescender,
		TypoLineGap:   info.TypoLineGap,
		WinAscent:     info.WinAscent,
		WinDescent:    info.WinDescent,
	}

	tail := info.Tail
	if want := tailLength[info.Version]; len(tail) < want {
		tail = append(append([]byte{}, tail...),
			make([]byte, want-len(tail))...)
	}

	buf := bytes.NewBuffer(make([]byte, 0, v0MsLength+len(tail)))
	_ = binary.Write(buf, binary.BigEndian, v0)
	_ = binary.Write(buf, binary.BigEndian, ms)
	buf.Write(tail)
	return buf.Bytes()
}

// HasUnicodeRange reports whether the given ulUnicodeRange bit is set.
func (info *Info) HasUnicodeRange(bit int) bool {
	return info.UnicodeRange[bit/32]&(1<<(bit%32)) != 0
}

// SetUnicodeRange sets the given ulUnicodeRange bit.
func (info *Info) SetUnicodeRange(bit int) {
	info.UnicodeRange[bit/32] |= 1 << (bit % 32)
}
