// Package header reads the tagged header and the native pixel payload of
// single-frame DICOM files.
//
// Two backends are available: GoDicomReader built on github.com/cocosip/go-dicom
// and SuyashReader built on github.com/suyashkumar/dicom. Both return the same
// File value; geometry and depth are validated before the payload is returned.
package header

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// BackendGoDicom selects GoDicomReader
	BackendGoDicom = "go-dicom"

	// BackendSuyash selects SuyashReader
	BackendSuyash = "suyashkumar"

	// ExplicitVRBigEndian is the only transfer syntax with big endian samples
	ExplicitVRBigEndian = "1.2.840.10008.1.2.2"
)

var (
	// ErrMissingField is returned when Rows, Columns or BitsAllocated is absent or zero
	ErrMissingField = errors.New("required header field missing")

	// ErrNoPixelData is returned when the file carries no native pixel payload
	ErrNoPixelData = errors.New("no native pixel data")

	// ErrUnknownBackend is returned by NewReader for an unknown backend name
	ErrUnknownBackend = errors.New("unknown reader backend")
)

// Reader parses one file into its header and raw pixel payload
type Reader interface {
	ReadFile(path string) (*File, error)
}

// Header holds the image attributes the decoder needs
type Header struct {
	Rows                      int
	Columns                   int
	BitsAllocated             int
	BitsStored                int
	PixelRepresentation       int
	SamplesPerPixel           int
	PhotometricInterpretation string
	TransferSyntaxUID         string
}

// File is a parsed single-frame image file
type File struct {
	Path string
	Header
	PixelData []byte
}

// NewReader returns the reader for a backend name. An empty name selects go-dicom.
func NewReader(backend string) (Reader, error) {
	switch backend {
	case "", BackendGoDicom:
		return NewGoDicomReader(), nil
	case BackendSuyash:
		return NewSuyashReader(), nil
	default:
		return nil, fmt.Errorf("%q: %w", backend, ErrUnknownBackend)
	}
}

// ByteOrder returns the byte order of multi-byte samples
func (h Header) ByteOrder() binary.ByteOrder {
	if h.TransferSyntaxUID == ExplicitVRBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Validate checks that the geometry and depth fields resolved to usable values
func (h Header) Validate() error {
	switch {
	case h.Rows <= 0:
		return fmt.Errorf("Rows: %w", ErrMissingField)
	case h.Columns <= 0:
		return fmt.Errorf("Columns: %w", ErrMissingField)
	case h.BitsAllocated <= 0:
		return fmt.Errorf("BitsAllocated: %w", ErrMissingField)
	}
	return nil
}

// Pixels returns Rows*Columns
func (h Header) Pixels() int {
	return h.Rows * h.Columns
}
