package header

import (
	"fmt"
	"strings"

	"github.com/cocosip/go-dicom/pkg/dicom/element"
	"github.com/cocosip/go-dicom/pkg/dicom/parser"
	"github.com/cocosip/go-dicom/pkg/dicom/tag"
)

// Pixel data elements up to this size are loaded in memory
const largeObjectSize = 512 * 1024 * 1024

var _ Reader = (*GoDicomReader)(nil)

// GoDicomReader reads files with the go-dicom parser
type GoDicomReader struct{}

// NewGoDicomReader creates a go-dicom backed reader
func NewGoDicomReader() *GoDicomReader {
	return &GoDicomReader{}
}

// ReadFile parses path, including pixel data
func (r *GoDicomReader) ReadFile(path string) (*File, error) {
	res, err := parser.ParseFile(path,
		parser.WithReadOption(parser.ReadAll),
		parser.WithLargeObjectSize(largeObjectSize),
	)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	ds := res.Dataset

	h := Header{
		Rows:                int(ds.TryGetUInt16(tag.Rows, 0)),
		Columns:             int(ds.TryGetUInt16(tag.Columns, 0)),
		BitsAllocated:       int(ds.TryGetUInt16(tag.BitsAllocated, 0)),
		BitsStored:          int(ds.TryGetUInt16(tag.BitsStored, 0)),
		PixelRepresentation: int(ds.TryGetUInt16(tag.PixelRepresentation, 0)),
		SamplesPerPixel:     int(ds.TryGetUInt16(tag.SamplesPerPixel, 1)),
	}
	if pi, ok := ds.GetString(tag.PhotometricInterpretation); ok {
		h.PhotometricInterpretation = strings.TrimSpace(pi)
	}
	if res.TransferSyntax != nil {
		h.TransferSyntaxUID = res.TransferSyntax.UID().UID()
	}
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	elem, ok := ds.Get(tag.PixelData)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPixelData)
	}
	var data []byte
	switch v := elem.(type) {
	case *element.OtherByte:
		data = v.GetData()
	case *element.OtherWord:
		data = v.GetData()
	default:
		return nil, fmt.Errorf("%s: pixel data element %T: %w", path, elem, ErrNoPixelData)
	}

	return &File{Path: path, Header: h, PixelData: data}, nil
}
