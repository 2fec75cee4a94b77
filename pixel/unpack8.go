package pixel

import (
	"github.com/cocosip/go-dicom-viewer/codec"
)

var _ codec.Codec = (*Unpack8)(nil)

// Unpack8 decodes one unsigned byte per sample
type Unpack8 struct{}

// Name returns the codec name
func (Unpack8) Name() string { return "native-8bit" }

// BitsAllocated returns 8
func (Unpack8) BitsAllocated() int { return 8 }

// PayloadSize returns one byte per sample
func (Unpack8) PayloadSize(samples int) int { return samples }

// Decode copies each byte into a sample without sign extension
func (c Unpack8) Decode(data []byte, params codec.DecodeParams) ([]uint16, error) {
	n, err := checkPayload(c, data, params)
	if err != nil {
		return nil, err
	}

	out := make([]uint16, n)
	for i := range out {
		out[i] = uint16(data[i])
	}
	return out, nil
}
