package codec

import "errors"

var (
	// ErrUnsupportedDepth is returned when no codec handles the requested bits allocated.
	// It marks an image that cannot be rendered, not a broken file.
	ErrUnsupportedDepth = errors.New("unsupported bits allocated")

	// ErrTruncatedData is returned when the payload is shorter than the geometry requires
	ErrTruncatedData = errors.New("pixel data truncated")

	// ErrInvalidParameter is returned when decoding parameters are invalid
	ErrInvalidParameter = errors.New("invalid parameter")
)
