// Package head supports reading and writing the "head" table.
package head

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/jjjuk/emoji-win/sfnt"
)

const headLength = 54

// Info represents the information in the "head" table of a font.
//
// The checkSumAdjustment field is not included; it is recomputed by the
// sfnt container writer every time a font is saved.
type Info struct {
	FontRevision  Version
	Flags         uint16
	UnitsPerEm    uint16 // font design units per em square
	Created       time.Time
	Modified      time.Time
	XMin          int16
	YMin          int16
	XMax          int16
	YMax          int16
	MacStyle      uint16
	LowestRecPPEM uint16 // smallest readable size in pixels

	// HasLongOffsets is true if the "loca" table uses 32 bit offsets.
	HasLongOffsets bool
}

// Read decodes the binary representation of the head table.
func Read(data []byte) (*Info, error) {
	enc := &binaryHead{}
	err := binary.Read(bytes.NewReader(data), binary.BigEndian, enc)
	if err != nil {
		return nil, &sfnt.InvalidFontError{
			SubSystem: "sfnt/head",
			Reason:    "table too short",
		}
	}

	if enc.Version != 0x00010000 {
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/head",
			Feature:   fmt.Sprintf("table version %08x", enc.Version),
		}
	}
	if enc.MagicNumber != 0x5F0F3CF5 {
		return nil, &sfnt.InvalidFontError{
			SubSystem: "sfnt/head",
			Reason:    fmt.Sprintf("invalid magic number %08x", enc.MagicNumber),
		}
	}

	info := &Info{
		FontRevision:   Version(enc.FontRevision),
		Flags:          enc.Flags,
		UnitsPerEm:     enc.UnitsPerEm,
		Created:        decodeTime(enc.Created),
		Modified:       decodeTime(enc.Modified),
		XMin:           enc.XMin,
		YMin:           enc.YMin,
		XMax:           enc.XMax,
		YMax:           enc.YMax,
		MacStyle:       enc.MacStyle,
		LowestRecPPEM:  enc.LowestRecPPEM,
		HasLongOffsets: enc.IndexToLocFormat != 0,
	}
	return info, nil
}

// Encode returns the binary representation of the head table, with the
// checkSumAdjustment field set to zero.
func (info *Info) Encode() []byte {
	enc := &binaryHead{
		Version:           0x00010000,
		FontRevision:      uint32(info.FontRevision),
		MagicNumber:       0x5F0F3CF5,
		Flags:             info.Flags,
		UnitsPerEm:        info.UnitsPerEm,
		Created:           encodeTime(info.Created),
		Modified:          encodeTime(info.Modified),
		XMin:              info.XMin,
		YMin:              info.YMin,
		XMax:              info.XMax,
		YMax:              info.YMax,
		MacStyle:          info.MacStyle,
		LowestRecPPEM:     info.LowestRecPPEM,
		FontDirectionHint: 2,
	}
	if info.HasLongOffsets {
		enc.IndexToLocFormat = 1
	}

	buf := bytes.NewBuffer(make([]byte, 0, headLength))
	_ = binary.Write(buf, binary.BigEndian, enc)
	return buf.Bytes()
}

// IsBold reports whether the bold bit of macStyle is set.
func (info *Info) IsBold() bool {
	return info.MacStyle&(1<<0) != 0
}

// IsItalic reports whether the italic bit of macStyle is set.
func (info *Info) IsItalic() bool {
	return info.MacStyle&(1<<1) != 0
}

var macEpoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

func decodeTime(secs int64) time.Time {
	if secs == 0 {
		return time.Time{}
	}
	return macEpoch.Add(time.Duration(secs) * time.Second)
}

func encodeTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return int64(t.Sub(macEpoch) / time.Second)
}

type binaryHead struct {
	Version            uint32
	FontRevision       uint32
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            int64
	Modified           int64

	XMin int16
	YMin int16
	XMax int16
	YMax int16

	MacStyle uint16

	LowestRecPPEM     uint16
	FontDirectionHint int16

	IndexToLocFormat int16
	GlyphDataFormat  int16
}

// Version represents the font revision in 16.16 fixed point format.
type Version uint32

func (v Version) String() string {
	return fmt.Sprintf("%.03f", float32(v)/65536)
}
