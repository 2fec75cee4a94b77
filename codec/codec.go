package codec

import "encoding/binary"

// Codec unpacks native (uncompressed) pixel payloads of one sample depth
type Codec interface {
	// Decode unpacks raw payload bytes into one sample per pixel, row-major
	Decode(data []byte, params DecodeParams) ([]uint16, error)

	// BitsAllocated returns the sample depth this codec handles
	BitsAllocated() int

	// PayloadSize returns the number of bytes needed for the given sample count
	PayloadSize(samples int) int

	// Name returns a human-readable name
	Name() string
}

// DecodeParams contains parameters for decoding
type DecodeParams struct {
	Width     int              // Image width (Columns)
	Height    int              // Image height (Rows)
	ByteOrder binary.ByteOrder // Byte order of multi-byte samples, nil means little endian
}

// Samples returns the number of samples the geometry describes
func (p DecodeParams) Samples() int {
	return p.Width * p.Height
}

// Validate checks the geometry
func (p DecodeParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return ErrInvalidParameter
	}
	return nil
}

// Order returns the configured byte order, defaulting to little endian
func (p DecodeParams) Order() binary.ByteOrder {
	if p.ByteOrder == nil {
		return binary.LittleEndian
	}
	return p.ByteOrder
}
