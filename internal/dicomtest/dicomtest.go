// Package dicomtest writes small DICOM Part 10 files for tests.
//
// The writer is byte-exact: it emits exactly the elements and payload it is
// given, so fixtures with missing tags or short pixel payloads can be built.
// Datasets are encoded as Explicit VR Little Endian.
package dicomtest

import (
	"bytes"
	"encoding/binary"
	"os"
	"slices"
)

// Tag is a DICOM (group, element) pair
type Tag struct {
	Group   uint16
	Element uint16
}

// Tags written by Write
var (
	TagSOPClassUID               = Tag{0x0008, 0x0016}
	TagSOPInstanceUID            = Tag{0x0008, 0x0018}
	TagModality                  = Tag{0x0008, 0x0060}
	TagSamplesPerPixel           = Tag{0x0028, 0x0002}
	TagPhotometricInterpretation = Tag{0x0028, 0x0004}
	TagRows                      = Tag{0x0028, 0x0010}
	TagColumns                   = Tag{0x0028, 0x0011}
	TagBitsAllocated             = Tag{0x0028, 0x0100}
	TagBitsStored                = Tag{0x0028, 0x0101}
	TagHighBit                   = Tag{0x0028, 0x0102}
	TagPixelRepresentation       = Tag{0x0028, 0x0103}
	TagPixelData                 = Tag{0x7FE0, 0x0010}
)

const (
	// ExplicitVRLittleEndian is the transfer syntax of written datasets
	ExplicitVRLittleEndian = "1.2.840.10008.1.2.1"

	secondaryCaptureSOPClass = "1.2.840.10008.5.1.4.1.1.7"
	implementationClassUID   = "1.2.826.0.1.3680043.10.1.1"
)

// Options describes one single-frame grayscale image
type Options struct {
	Rows          int
	Columns       int
	BitsAllocated int
	BitsStored    int // defaults to BitsAllocated
	PixelData     []byte
	Omit          []Tag // elements left out of the dataset
}

// Write writes a Part 10 file to path
func Write(path string, opts Options) error {
	return os.WriteFile(path, Encode(opts), 0o644)
}

// Encode returns the Part 10 encoding of opts
func Encode(opts Options) []byte {
	bitsStored := opts.BitsStored
	if bitsStored == 0 {
		bitsStored = opts.BitsAllocated
	}
	instanceUID := "1.2.826.0.1.3680043.10.1.2"

	var meta bytes.Buffer
	writeElement(&meta, Tag{0x0002, 0x0001}, "OB", []byte{0x00, 0x01})
	writeElement(&meta, Tag{0x0002, 0x0002}, "UI", uid(secondaryCaptureSOPClass))
	writeElement(&meta, Tag{0x0002, 0x0003}, "UI", uid(instanceUID))
	writeElement(&meta, Tag{0x0002, 0x0010}, "UI", uid(ExplicitVRLittleEndian))
	writeElement(&meta, Tag{0x0002, 0x0012}, "UI", uid(implementationClassUID))

	var out bytes.Buffer
	out.Write(make([]byte, 128))
	out.WriteString("DICM")
	writeElement(&out, Tag{0x0002, 0x0000}, "UL", u32(uint32(meta.Len())))
	out.Write(meta.Bytes())

	put := func(t Tag, vr string, value []byte) {
		if slices.Contains(opts.Omit, t) {
			return
		}
		writeElement(&out, t, vr, value)
	}

	put(TagSOPClassUID, "UI", uid(secondaryCaptureSOPClass))
	put(TagSOPInstanceUID, "UI", uid(instanceUID))
	put(TagModality, "CS", text("OT"))
	put(TagSamplesPerPixel, "US", u16(1))
	put(TagPhotometricInterpretation, "CS", text("MONOCHROME2"))
	put(TagRows, "US", u16(uint16(opts.Rows)))
	put(TagColumns, "US", u16(uint16(opts.Columns)))
	put(TagBitsAllocated, "US", u16(uint16(opts.BitsAllocated)))
	put(TagBitsStored, "US", u16(uint16(bitsStored)))
	put(TagHighBit, "US", u16(uint16(max(bitsStored-1, 0))))
	put(TagPixelRepresentation, "US", u16(0))

	vr := "OW"
	if opts.BitsAllocated <= 8 {
		vr = "OB"
	}
	put(TagPixelData, vr, pad(opts.PixelData, 0x00))

	return out.Bytes()
}

// Gradient16 returns rows*columns little endian 16-bit samples counting up from start
func Gradient16(rows, columns int, start uint16) []byte {
	out := make([]byte, rows*columns*2)
	for i := 0; i < rows*columns; i++ {
		binary.LittleEndian.PutUint16(out[i*2:], start+uint16(i))
	}
	return out
}

func writeElement(buf *bytes.Buffer, t Tag, vr string, value []byte) {
	var hdr [12]byte
	binary.LittleEndian.PutUint16(hdr[0:], t.Group)
	binary.LittleEndian.PutUint16(hdr[2:], t.Element)
	copy(hdr[4:6], vr)
	switch vr {
	case "OB", "OW", "OF", "SQ", "UT", "UN":
		binary.LittleEndian.PutUint32(hdr[8:], uint32(len(value)))
		buf.Write(hdr[:12])
	default:
		binary.LittleEndian.PutUint16(hdr[6:], uint16(len(value)))
		buf.Write(hdr[:8])
	}
	buf.Write(value)
}

func uid(s string) []byte  { return pad([]byte(s), 0x00) }
func text(s string) []byte { return pad([]byte(s), ' ') }

func pad(b []byte, filler byte) []byte {
	if len(b)%2 == 0 {
		return b
	}
	return append(slices.Clone(b), filler)
}

func u16(v uint16) []byte {
	return binary.LittleEndian.AppendUint16(nil, v)
}

func u32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}
