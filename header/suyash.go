package header

import (
	"fmt"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

var _ Reader = (*SuyashReader)(nil)

// SuyashReader reads files with github.com/suyashkumar/dicom. Pixel data is
// kept unprocessed so depths the library does not unpack (packed 12-bit)
// still reach the sample codecs.
type SuyashReader struct{}

// NewSuyashReader creates a suyashkumar/dicom backed reader
func NewSuyashReader() *SuyashReader {
	return &SuyashReader{}
}

// ReadFile parses path, including the raw pixel payload
func (r *SuyashReader) ReadFile(path string) (*File, error) {
	ds, err := dicom.ParseFile(path, nil, dicom.SkipProcessingPixelDataValue())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	h := Header{
		Rows:                      intValue(ds, tag.Rows, 0),
		Columns:                   intValue(ds, tag.Columns, 0),
		BitsAllocated:             intValue(ds, tag.BitsAllocated, 0),
		BitsStored:                intValue(ds, tag.BitsStored, 0),
		PixelRepresentation:       intValue(ds, tag.PixelRepresentation, 0),
		SamplesPerPixel:           intValue(ds, tag.SamplesPerPixel, 1),
		PhotometricInterpretation: stringValue(ds, tag.PhotometricInterpretation),
		TransferSyntaxUID:         stringValue(ds, tag.TransferSyntaxUID),
	}
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	elem, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPixelData)
	}
	info, ok := elem.Value.GetValue().(dicom.PixelDataInfo)
	if !ok || info.IsEncapsulated || len(info.UnprocessedValueData) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPixelData)
	}

	return &File{Path: path, Header: h, PixelData: info.UnprocessedValueData}, nil
}

func intValue(ds dicom.Dataset, t tag.Tag, def int) int {
	elem, err := ds.FindElementByTag(t)
	if err != nil {
		return def
	}
	v, ok := elem.Value.GetValue().([]int)
	if !ok || len(v) == 0 {
		return def
	}
	return v[0]
}

func stringValue(ds dicom.Dataset, t tag.Tag) string {
	elem, err := ds.FindElementByTag(t)
	if err != nil {
		return ""
	}
	v, ok := elem.Value.GetValue().([]string)
	if !ok || len(v) == 0 {
		return ""
	}
	return strings.TrimRight(v[0], " \x00")
}
