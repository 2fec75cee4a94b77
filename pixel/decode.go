package pixel

import (
	"encoding/binary"
	"fmt"

	"github.com/cocosip/go-dicom-viewer/codec"
)

func init() {
	codec.Register(Unpack8{})
	codec.Register(Unpack12{})
	codec.Register(Unpack16{})
}

// DecodeSamples unpacks a native payload into width*height samples.
//
// An unregistered bitsPerSample yields codec.ErrUnsupportedDepth, which the
// caller treats as "no renderable image". A payload shorter than the geometry
// requires yields codec.ErrTruncatedData. Trailing bytes are ignored.
func DecodeSamples(raw []byte, bitsPerSample, width, height int, order binary.ByteOrder) ([]uint16, error) {
	c, err := codec.Get(bitsPerSample)
	if err != nil {
		return nil, fmt.Errorf("%d bits: %w", bitsPerSample, err)
	}
	return c.Decode(raw, codec.DecodeParams{Width: width, Height: height, ByteOrder: order})
}

// MaxValue returns the largest sample value representable with bits bits
func MaxValue(bits int) uint16 {
	if bits <= 0 {
		return 0
	}
	if bits >= 16 {
		return 0xFFFF
	}
	return uint16(1)<<bits - 1
}

// checkPayload validates geometry and payload length and returns the sample count
func checkPayload(c codec.Codec, data []byte, params codec.DecodeParams) (int, error) {
	if err := params.Validate(); err != nil {
		return 0, fmt.Errorf("%s: geometry %dx%d: %w", c.Name(), params.Width, params.Height, err)
	}
	n := params.Samples()
	if n/params.Width != params.Height {
		return 0, fmt.Errorf("%s: geometry %dx%d overflows: %w", c.Name(), params.Width, params.Height, codec.ErrInvalidParameter)
	}
	if need := c.PayloadSize(n); len(data) < need {
		return 0, fmt.Errorf("%s: need %d bytes, have %d: %w", c.Name(), need, len(data), codec.ErrTruncatedData)
	}
	return n, nil
}
