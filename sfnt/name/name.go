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

// Package name reads and writes "name" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/name
package name

import (
	"sort"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/jjjuk/emoji-win/sfnt"
)

// Name IDs used when rewriting font identity.
const (
	IDFamily         = 1
	IDSubfamily      = 2
	IDUniqueID       = 3
	IDFullName       = 4
	IDVersion        = 5
	IDPostScriptName = 6
	IDTypoFamily     = 16
	IDTypoSubfamily  = 17
	IDWWSFamily      = 21
	IDWWSSubfamily   = 22
)

// Record is a single entry of a "name" table.
//
// Value holds the decoded string for records in an encoding this
// library understands.  For records in other encodings Value is empty
// and Raw holds the undecoded string bytes.
type Record struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     uint16
	Value      string
	Raw        []byte
}

// Table is the decoded form of a "name" table.
type Table struct {
	Records []*Record
}

var errMalformed = &sfnt.InvalidFontError{
	SubSystem: "sfnt/name",
	Reason:    "malformed name table",
}

// Decode parses a "name" table.  Language-tag records (format 1 tables)
// are not supported and are dropped.
func Decode(data []byte) (*Table, error) {
	if len(data) < 6 {
		return nil, errMalformed
	}
	numRec := int(data[2])<<8 | int(data[3])
	storageOffset := int(data[4])<<8 | int(data[5])
	endOfRecords := 6 + numRec*12
	if storageOffset > len(data) || endOfRecords > len(data) {
		return nil, errMalformed
	}
	storage := data[storageOffset:]

	table := &Table{}
	for i := 0; i < numRec; i++ {
		buf := data[6+i*12:]
		rec := &Record{
			PlatformID: uint16(buf[0])<<8 | uint16(buf[1]),
			EncodingID: uint16(buf[2])<<8 | uint16(buf[3]),
			LanguageID: uint16(buf[4])<<8 | uint16(buf[5]),
			NameID:     uint16(buf[6])<<8 | uint16(buf[7]),
		}
		length := int(buf[8])<<8 | int(buf[9])
		offset := int(buf[10])<<8 | int(buf[11])
		if offset+length > len(storage) {
			return nil, errMalformed
		}
		raw := storage[offset : offset+length]

		switch {
		case rec.PlatformID == 0 || rec.PlatformID == 3:
			rec.Value = utf16Decode(raw)
		case rec.PlatformID == 1 && rec.EncodingID == 0:
			val, err := charmap.Macintosh.NewDecoder().Bytes(raw)
			if err != nil {
				return nil, errMalformed
			}
			rec.Value = string(val)
		default:
			rec.Raw = append([]byte{}, raw...)
		}
		table.Records = append(table.Records, rec)
	}
	return table, nil
}

// Get returns the value of the first record with the given platform and
// name ID, or "" if there is none.
func (t *Table) Get(platformID, nameID uint16) string {
	for _, rec := range t.Records {
		if rec.PlatformID == platformID && rec.NameID == nameID {
			return rec.Value
		}
	}
	return ""
}

// Patch replaces the values of all existing records whose name ID
// appears in values.  No records are added or removed; records in an
// encoding this library cannot write are left alone.
func (t *Table) Patch(values map[uint16]string) {
	for _, rec := range t.Records {
		val, ok := values[rec.NameID]
		if !ok {
			continue
		}
		switch {
		case rec.PlatformID == 0 || rec.PlatformID == 3:
			rec.Value = val
			rec.Raw = nil
		case rec.PlatformID == 1 && rec.EncodingID == 0:
			if _, err := charmap.Macintosh.NewEncoder().String(val); err != nil {
				continue
			}
			rec.Value = val
			rec.Raw = nil
		}
	}
}

// Encode serialises the table.  String storage is deduplicated and
// records are sorted by platform, encoding, language and name ID, as
// the table format requires.
func (t *Table) Encode() []byte {
	records := make([]*Record, len(t.Records))
	copy(records, t.Records)
	sort.SliceStable(records, func(i, j int) bool {
		ri, rj := records[i], records[j]
		if ri.PlatformID != rj.PlatformID {
			return ri.PlatformID < rj.PlatformID
		}
		if ri.EncodingID != rj.EncodingID {
			return ri.EncodingID < rj.EncodingID
		}
		if ri.LanguageID != rj.LanguageID {
			return ri.LanguageID < rj.LanguageID
		}
		return ri.NameID < rj.NameID
	})

	b := newNameBuilder()
	type recInfo struct {
		rec            *Record
		offset, length uint16
	}
	infos := make([]recInfo, len(records))
	for i, rec := range records {
		var raw []byte
		switch {
		case rec.Raw != nil:
			raw = rec.Raw
		case rec.PlatformID == 1 && rec.EncodingID == 0:
			enc, err := charmap.Macintosh.NewEncoder().String(rec.Value)
			if err != nil {
				enc, _ = charmap.Macintosh.NewEncoder().String("")
			}
			raw = []byte(enc)
		default:
			raw = utf16Encode(rec.Value)
		}
		offset, length := b.Add(raw)
		infos[i] = recInfo{rec, offset, length}
	}

	numRec := len(records)
	startOfStrings := 6 + numRec*12
	res := make([]byte, startOfStrings+len(b.data))
	res[2] = byte(numRec >> 8)
	res[3] = byte(numRec)
	res[4] = byte(startOfStrings >> 8)
	res[5] = byte(startOfStrings)
	for i, info := range infos {
		base := 6 + i*12
		rec := info.rec
		res[base] = byte(rec.PlatformID >> 8)
		res[base+1] = byte(rec.PlatformID)
		res[base+2] = byte(rec.EncodingID >> 8)
		res[base+3] = byte(rec.EncodingID)
		res[base+4] = byte(rec.LanguageID >> 8)
		res[base+5] = byte(rec.LanguageID)
		res[base+6] = byte(rec.NameID >> 8)
		res[base+7] = byte(rec.NameID)
		res[base+8] = byte(info.length >> 8)
		res[base+9] = byte(info.length)
		res[base+10] = byte(info.offset >> 8)
		res[base+11] = byte(info.offset)
	}
	copy(res[startOfStrings:], b.data)
	return res
}

type nameBuilder struct {
	data []byte
	idx  map[string]uint16
}

func newNameBuilder() *nameBuilder {
	return &nameBuilder{
		idx: make(map[string]uint16),
	}
}

func (nb *nameBuilder) Add(b []byte) (offs, length uint16) {
	key := string(b)
	if idx, ok := nb.idx[key]; ok {
		return idx, uint16(len(b))
	}
	idx := uint16(len(nb.data))
	nb.idx[key] = idx
	nb.data = append(nb.data, b...)
	return idx, uint16(len(b))
}

func utf16Encode(s string) []byte {
	rr := utf16.Encode([]rune(s))
	res := make([]byte, len(rr)*2)
	for i, r := range rr {
		res[i*2] = byte(r >> 8)
		res[i*2+1] = byte(r)
	}
	return res
}

func utf16Decode(buf []byte) string {
	var nameWords []uint16
	for i := 0; i+1 < len(buf); i += 2 {
		nameWords = append(nameWords, uint16(buf[i])<<8|uint16(buf[i+1]))
	}
	return string(utf16.Decode(nameWords))
}
