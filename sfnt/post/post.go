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

// Package post reads and writes "post" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/post
package post

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/jjjuk/emoji-win/sfnt"
)

// Info contains the header of a "post" table.  Glyph name data of
// version 2.0 tables is not decoded; Encode always produces a version
// 3.0 table, which carries no glyph names.
type Info struct {
	ItalicAngle        float64 // italic angle in degrees
	UnderlinePosition  int16
	UnderlineThickness int16
	IsFixedPitch       bool
	MinMemType42       uint32
	MaxMemType42       uint32
	MinMemType1        uint32
	MaxMemType1        uint32
}

type postEnc struct {
	Version            uint32
	ItalicAngle        int32
	UnderlinePosition  int16
	UnderlineThickness int16
	IsFixedPitch       uint32
	MinMemType42       uint32
	MaxMemType42       uint32
	MinMemType1        uint32
	MaxMemType1        uint32
}

// Read decodes the header of a "post" table.
func Read(data []byte) (*Info, error) {
	post := &postEnc{}
	err := binary.Read(bytes.NewReader(data), binary.BigEndian, post)
	if err != nil {
		return nil, &sfnt.InvalidFontError{
			SubSystem: "sfnt/post",
			Reason:    "table too short",
		}
	}

	switch post.Version {
	case 0x00010000, 0x00020000, 0x00025000, 0x00030000, 0x00040000:
		// ok
	default:
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/post",
			Feature:   fmt.Sprintf("table version %08x", post.Version),
		}
	}

	info := &Info{
		ItalicAngle:        float64(post.ItalicAngle) / 65536,
		UnderlinePosition:  post.UnderlinePosition,
		UnderlineThickness: post.UnderlineThickness,
		IsFixedPitch:       post.IsFixedPitch != 0,
		MinMemType42:       post.MinMemType42,
		MaxMemType42:       post.MaxMemType42,
		MinMemType1:        post.MinMemType1,
		MaxMemType1:        post.MaxMemType1,
	}
	return info, nil
}

// Encode returns a version 3.0 "post" table.
func (info *Info) Encode() []byte {
	post := &postEnc{
		Version:            0x00030000,
		ItalicAngle:        int32(info.ItalicAngle * 65536),
		UnderlinePosition:  info.UnderlinePosition,
		UnderlineThickness: info.UnderlineThickness,
		MinMemType42:       info.MinMemType42,
		MaxMemType42:       info.MaxMemType42,
		MinMemType1:        info.MinMemType1,
		MaxMemType1:        info.MaxMemType1,
	}
	if info.IsFixedPitch {
		post.IsFixedPitch = 1
	}

	buf := bytes.NewBuffer(make([]byte, 0, 32))
	_ = binary.Write(buf, binary.BigEndian, post)
	return buf.Bytes()
}
